package classifier

import (
	"fmt"
	"sort"
	"strings"

	"github.com/surveylens/brandcheck/internal/model"
)

// Dominance thresholds for the ambiguity and clear-match rules.
const (
	// comparableMargin is the strength gap under which two candidate labels
	// count as comparable.
	comparableMargin = 0.15
	// dominantFloor is the minimum strength for a label to be considered
	// dominant at all.
	dominantFloor = 0.6
	// clearMargin is the lead a label needs over every competitor to be a
	// clear match.
	clearMargin = 0.25
	// ambiguityCeiling: above this strength a top label is treated as
	// dominant even with close competitors.
	ambiguityCeiling = 0.8
)

// DefaultRules returns the shipped rule chain in priority order:
// CategoryValidated(0), CategoryError(1), AmbiguousDescriptor(2),
// ClearMatch(3), Unclear(4, fallback).
func DefaultRules() []Rule {
	return []Rule{
		categoryValidatedRule(),
		categoryErrorRule(),
		ambiguousDescriptorRule(),
		clearMatchRule(),
		unclearRule(),
	}
}

// Default returns a classifier over DefaultRules.
func Default() *Classifier {
	return New(DefaultRules()...)
}

func categoryValidatedRule() Rule {
	return Rule{
		Name:     "category_validated",
		Priority: 0,
		Matches: func(b model.EvidenceBundle, c Context) bool {
			if !c.CategoryDeclared {
				return false
			}
			confirmed := false
			for _, ev := range b.PresentEvidence() {
				if ev.HasTag(model.TagCategoryContradicts) {
					return false
				}
				if ev.HasTag(model.TagCategoryConfirmed) {
					confirmed = true
				}
			}
			return confirmed && !b.HasConflict()
		},
		Build: func(b model.EvidenceBundle, c Context) model.Classification {
			support := taggedEvidence(b, model.TagCategoryConfirmed)
			return model.Classification{
				ConfidencePercent: 95,
				Rationale: fmt.Sprintf("declared category %q confirmed by %s with no contradicting signal",
					c.Category, sourceList(support)),
				SupportingEvidence: support,
			}
		},
	}
}

func categoryErrorRule() Rule {
	return Rule{
		Name:     "category_error",
		Priority: 1,
		Matches: func(b model.EvidenceBundle, c Context) bool {
			if !c.CategoryDeclared {
				return false
			}
			for _, ev := range b.PresentEvidence() {
				if ev.HasTag(model.TagCategoryContradicts) {
					return true
				}
			}
			return false
		},
		Build: func(b model.EvidenceBundle, c Context) model.Classification {
			against := taggedEvidence(b, model.TagCategoryContradicts)
			return model.Classification{
				ConfidencePercent: 80,
				Rationale: fmt.Sprintf("%s point to a different category than the declared %q; likely miscategorization",
					sourceList(against), c.Category),
				SupportingEvidence: against,
			}
		},
	}
}

func ambiguousDescriptorRule() Rule {
	return Rule{
		Name:     "ambiguous_descriptor",
		Priority: 2,
		Matches: func(b model.EvidenceBundle, _ Context) bool {
			top, second, labels := labelStandings(b)
			if labels < 2 {
				return false
			}
			return top < ambiguityCeiling && top-second <= comparableMargin
		},
		Build: func(b model.EvidenceBundle, _ Context) model.Classification {
			names := labelNames(b)
			return model.Classification{
				ConfidencePercent: 45,
				Rationale: fmt.Sprintf("multiple candidates with comparable support (%s); disambiguation needed",
					strings.Join(names, ", ")),
				SupportingEvidence: b.PresentEvidence(),
			}
		},
	}
}

func clearMatchRule() Rule {
	return Rule{
		Name:     "clear_match",
		Priority: 3,
		Matches: func(b model.EvidenceBundle, _ Context) bool {
			top, second, labels := labelStandings(b)
			if labels == 0 || b.HasConflict() {
				return false
			}
			if top < dominantFloor {
				return false
			}
			return labels == 1 || top-second >= clearMargin
		},
		Build: func(b model.EvidenceBundle, _ Context) model.Classification {
			label, strength, support := dominantLabel(b)
			return model.Classification{
				ConfidencePercent: model.ClampPercent(int(60 + 35*strength)),
				Rationale: fmt.Sprintf("%q dominates with strength %.2f from %s and no contradicting signal",
					label, strength, sourceList(support)),
				SupportingEvidence: support,
			}
		},
	}
}

func unclearRule() Rule {
	return Rule{
		Name:     "unclear",
		Priority: 4,
		Matches:  func(model.EvidenceBundle, Context) bool { return true },
		Build: func(b model.EvidenceBundle, _ Context) model.Classification {
			var absent []string
			for _, s := range b.Sources() {
				if !b.Present(s) {
					absent = append(absent, string(s))
				}
			}
			rationale := "insufficient evidence to classify"
			if len(absent) > 0 {
				rationale = fmt.Sprintf("insufficient evidence to classify (no signal from: %s)",
					strings.Join(absent, ", "))
			}
			return model.Classification{
				ConfidencePercent:  0,
				Rationale:          rationale,
				SupportingEvidence: b.PresentEvidence(),
			}
		},
	}
}

// labelStandings returns the best and second-best per-label strengths among
// present evidence, and the count of distinct labels.
func labelStandings(b model.EvidenceBundle) (top, second float64, labels int) {
	byLabel := labelStrengths(b)
	for _, s := range byLabel {
		if s > top {
			second = top
			top = s
		} else if s > second {
			second = s
		}
	}
	return top, second, len(byLabel)
}

// labelStrengths maps each distinct candidate label to the strongest
// evidence supporting it.
func labelStrengths(b model.EvidenceBundle) map[string]float64 {
	out := make(map[string]float64)
	for _, ev := range b.PresentEvidence() {
		label := strings.ToLower(strings.TrimSpace(ev.MatchedLabel))
		if label == "" {
			continue
		}
		if ev.Strength > out[label] {
			out[label] = ev.Strength
		}
	}
	return out
}

func labelNames(b model.EvidenceBundle) []string {
	byLabel := labelStrengths(b)
	names := make([]string, 0, len(byLabel))
	for l := range byLabel {
		names = append(names, l)
	}
	sort.Strings(names)
	return names
}

// dominantLabel returns the strongest label, its strength and the evidence
// records that support it.
func dominantLabel(b model.EvidenceBundle) (string, float64, []model.Evidence) {
	var best string
	var bestStrength float64
	for label, s := range labelStrengths(b) {
		if s > bestStrength || (s == bestStrength && label < best) {
			best, bestStrength = label, s
		}
	}
	var support []model.Evidence
	for _, ev := range b.PresentEvidence() {
		if strings.EqualFold(strings.TrimSpace(ev.MatchedLabel), best) {
			support = append(support, ev)
		}
	}
	return best, bestStrength, support
}

func taggedEvidence(b model.EvidenceBundle, tag string) []model.Evidence {
	var out []model.Evidence
	for _, ev := range b.PresentEvidence() {
		if ev.HasTag(tag) {
			out = append(out, ev)
		}
	}
	return out
}

func sourceList(evs []model.Evidence) string {
	if len(evs) == 0 {
		return "no sources"
	}
	names := make([]string, 0, len(evs))
	for _, ev := range evs {
		names = append(names, string(ev.Source))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
