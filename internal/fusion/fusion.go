// Package fusion combines an evidence bundle into one scalar confidence
// using a configurable weight profile. The two shipped profiles (response
// validation on a 0–100 scale, entity validation on a 0–1 scale) are data
// fed into the same Fuse function, not separate code paths.
package fusion

import (
	"math"

	"github.com/surveylens/brandcheck/internal/model"
)

// TermMode selects how a source contributes to the sum.
type TermMode string

const (
	// ModeTierTable awards fixed points per qualitative tier.
	ModeTierTable TermMode = "tier_table"
	// ModeLinear awards strength × weight, capped at the weight.
	ModeLinear TermMode = "linear"
)

// SourceTerm is one source's contribution to the weighted sum.
type SourceTerm struct {
	Source     model.Source
	Mode       TermMode
	TierPoints map[model.Tier]float64 // ModeTierTable
	Weight     float64                // ModeLinear
}

// MaxContribution returns the largest value the term can award. Used to
// decide whether an absent source is worth a risk factor.
func (t SourceTerm) MaxContribution() float64 {
	switch t.Mode {
	case ModeTierTable:
		var max float64
		for _, pts := range t.TierPoints {
			if pts > max {
				max = pts
			}
		}
		return max
	default:
		return t.Weight
	}
}

// BonusRule awards up to Max extra points based on bundle contents.
// Score must return a fraction in [0,1]; the award is Max × Score.
type BonusRule struct {
	Name  string
	Max   float64
	Score func(b model.EvidenceBundle, rc RequestContext) float64
}

// RequestContext carries request facts that affect bonuses but are not
// evidence themselves.
type RequestContext struct {
	HasCategoryContext bool
}

// Profile parameterizes the weighted sum: per-source terms, bonus rules and
// the output scale.
type Profile struct {
	Name     string
	ScaleMax float64
	Terms    []SourceTerm
	Bonuses  []BonusRule
}

// Term returns the profile's term for a source, if any.
func (p Profile) Term(source model.Source) (SourceTerm, bool) {
	for _, t := range p.Terms {
		if t.Source == source {
			return t, true
		}
	}
	return SourceTerm{}, false
}

// Fuse combines the bundle into one confidence clamped to [0, ScaleMax].
// Absent evidence contributes nothing; the function is total.
func Fuse(p Profile, b model.EvidenceBundle, rc RequestContext) float64 {
	var sum float64

	for _, term := range p.Terms {
		ev, ok := b.Get(term.Source)
		if !ok || !ev.Present {
			continue
		}
		switch term.Mode {
		case ModeTierTable:
			sum += term.TierPoints[ev.Tier]
		case ModeLinear:
			sum += model.Clamp01(ev.Strength) * term.Weight
		}
	}

	for _, bonus := range p.Bonuses {
		if bonus.Score == nil {
			continue
		}
		sum += bonus.Max * model.Clamp01(bonus.Score(b, rc))
	}

	if sum < 0 {
		return 0
	}
	if sum > p.ScaleMax {
		return p.ScaleMax
	}
	return sum
}

// ToPercent converts a fused confidence on the profile's scale to [0,100].
func (p Profile) ToPercent(fused float64) int {
	if p.ScaleMax <= 0 {
		return 0
	}
	return model.ClampPercent(int(math.Round(fused / p.ScaleMax * 100)))
}
