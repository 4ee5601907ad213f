package model

import "strings"

// ConflictPair reports a signal conflict: one present source at tier high
// while another present source sits at tier low for the same candidate.
// Evidence with no label (pure similarity scores) conflicts with any label.
func (b EvidenceBundle) ConflictPair() (high, low Evidence, found bool) {
	present := b.PresentEvidence()
	for _, a := range present {
		if a.Tier != TierHigh {
			continue
		}
		for _, c := range present {
			if c.Source == a.Source || c.Tier != TierLow {
				continue
			}
			if sameCandidate(a.MatchedLabel, c.MatchedLabel) {
				return a, c, true
			}
		}
	}
	return Evidence{}, Evidence{}, false
}

// HasConflict reports whether any signal conflict exists in the bundle.
func (b EvidenceBundle) HasConflict() bool {
	_, _, found := b.ConflictPair()
	return found
}

func sameCandidate(a, b string) bool {
	if a == "" || b == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
