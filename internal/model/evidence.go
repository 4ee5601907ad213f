// Package model defines the core data types shared across the classification engine.
package model

import "sort"

// Source identifies which external signal produced a piece of evidence.
type Source string

const (
	SourceVision      Source = "vision"
	SourceSearch      Source = "search"
	SourceKnownEntity Source = "known_entity"
	SourceEmbedding   Source = "embedding"
)

// AllSources returns every evidence source in stable order.
func AllSources() []Source {
	return []Source{SourceVision, SourceSearch, SourceKnownEntity, SourceEmbedding}
}

// Tier is a qualitative confidence band reported by a provider or derived
// from a numeric strength.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
	// TierNone marks evidence that carries no tier (absent evidence).
	TierNone Tier = ""
)

// TierFromStrength derives a qualitative tier from a [0,1] strength.
func TierFromStrength(s float64) Tier {
	switch {
	case s >= 0.7:
		return TierHigh
	case s >= 0.4:
		return TierMedium
	default:
		return TierLow
	}
}

// Evidence tags set by the normalizer when a category context was supplied.
const (
	TagCategoryConfirmed   = "category:confirmed"
	TagCategoryContradicts = "category:mismatch"
	TagTrustedDomain       = "domain:trusted"
	TagLanguageMatch       = "language:match"
)

// Evidence is one normalized signal about whether a candidate answer is
// genuine. A provider that timed out or returned garbage is recorded with
// Present=false rather than dropped, so downstream consumers can distinguish
// "weak signal" from "no signal".
type Evidence struct {
	Source       Source   `json:"source"`
	MatchedLabel string   `json:"matched_label,omitempty"`
	Strength     float64  `json:"strength"` // clamped to [0,1]
	Tier         Tier     `json:"tier,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	Present      bool     `json:"present"`

	// Occurrences counts corroborating label hits (vision only).
	Occurrences int `json:"occurrences,omitempty"`
	// DomainTrust is the trusted-domain sub-score (search only).
	DomainTrust float64 `json:"domain_trust,omitempty"`
	// LanguageMatch reports query-language fidelity (search only).
	LanguageMatch bool `json:"language_match,omitempty"`
}

// HasTag reports whether the evidence carries the given tag.
func (e Evidence) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Absent returns a placeholder record for a provider that produced nothing.
func Absent(source Source) Evidence {
	return Evidence{Source: source, Present: false, Tier: TierNone}
}

// EvidenceBundle is the full, immutable set of evidence collected for one
// request. It is built once by the collector and never mutated afterwards;
// fusion and classification read it concurrently without locks.
type EvidenceBundle struct {
	evidence map[Source]Evidence
}

// NewEvidenceBundle builds a bundle from the given records. Later records
// for the same source win, matching last-write semantics at collection time.
func NewEvidenceBundle(evs ...Evidence) EvidenceBundle {
	m := make(map[Source]Evidence, len(evs))
	for _, ev := range evs {
		ev.Strength = Clamp01(ev.Strength)
		m[ev.Source] = ev
	}
	return EvidenceBundle{evidence: m}
}

// Get returns the evidence for a source and whether any record exists for it.
func (b EvidenceBundle) Get(source Source) (Evidence, bool) {
	ev, ok := b.evidence[source]
	return ev, ok
}

// Present reports whether the source produced usable evidence.
func (b EvidenceBundle) Present(source Source) bool {
	ev, ok := b.evidence[source]
	return ok && ev.Present
}

// Sources returns the recorded sources in stable order.
func (b EvidenceBundle) Sources() []Source {
	out := make([]Source, 0, len(b.evidence))
	for s := range b.evidence {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// PresentEvidence returns all usable evidence records in stable source order.
func (b EvidenceBundle) PresentEvidence() []Evidence {
	var out []Evidence
	for _, s := range b.Sources() {
		if ev := b.evidence[s]; ev.Present {
			out = append(out, ev)
		}
	}
	return out
}

// Len returns the number of recorded sources, present or not.
func (b EvidenceBundle) Len() int {
	return len(b.evidence)
}

// Clamp01 clamps v into [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
