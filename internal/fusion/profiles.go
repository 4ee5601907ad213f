package fusion

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/surveylens/brandcheck/internal/model"
)

// ProfileWeights is the YAML-tunable numeric surface of the two built-in
// profiles. Bonus semantics are fixed by name; only the point values move.
type ProfileWeights struct {
	Response ResponseWeights `yaml:"response"`
	Entity   EntityWeights   `yaml:"entity"`
}

// ResponseWeights tunes the response-validation profile (0–100 scale).
type ResponseWeights struct {
	VisionHigh        float64 `yaml:"vision_high"`
	VisionMedium      float64 `yaml:"vision_medium"`
	VisionLow         float64 `yaml:"vision_low"`
	VisionCorrobBonus float64 `yaml:"vision_corroboration_bonus"`
	MinOccurrences    int     `yaml:"min_corroborating_occurrences"`
	SearchHigh        float64 `yaml:"search_high"`
	SearchMedium      float64 `yaml:"search_medium"`
	SearchLow         float64 `yaml:"search_low"`
	DomainTrustBonus  float64 `yaml:"domain_trust_bonus"`
}

// EntityWeights tunes the entity-validation profile (0–1 scale).
type EntityWeights struct {
	KnownEntityWeight float64 `yaml:"known_entity_weight"`
	SearchWeight      float64 `yaml:"search_weight"`
	CategoryBonus     float64 `yaml:"category_bonus"`
}

// DefaultWeights returns the stock tuning for both profiles.
func DefaultWeights() ProfileWeights {
	return ProfileWeights{
		Response: ResponseWeights{
			VisionHigh:        50,
			VisionMedium:      30,
			VisionLow:         10,
			VisionCorrobBonus: 10,
			MinOccurrences:    3,
			SearchHigh:        30,
			SearchMedium:      20,
			SearchLow:         5,
			DomainTrustBonus:  10,
		},
		Entity: EntityWeights{
			KnownEntityWeight: 0.6,
			SearchWeight:      0.7,
			CategoryBonus:     0.1,
		},
	}
}

// LoadWeights reads profile weights from a YAML file, falling back to
// defaults for any field left at zero.
func LoadWeights(path string) (ProfileWeights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ProfileWeights{}, eris.Wrapf(err, "fusion: read weights %s", path)
	}

	w := DefaultWeights()
	if err := yaml.Unmarshal(data, &w); err != nil {
		return ProfileWeights{}, eris.Wrap(err, "fusion: parse weights")
	}
	return w, nil
}

// ResponseProfile builds the response-validation profile: vision contributes
// up to 60 points (tier table plus corroboration bonus), search up to 40
// (tier table plus domain-trust bonus), total clamped to [0,100].
func ResponseProfile(w ResponseWeights) Profile {
	minOcc := w.MinOccurrences
	if minOcc <= 0 {
		minOcc = 3
	}
	return Profile{
		Name:     "response-validation",
		ScaleMax: 100,
		Terms: []SourceTerm{
			{
				Source: model.SourceVision,
				Mode:   ModeTierTable,
				TierPoints: map[model.Tier]float64{
					model.TierHigh:   w.VisionHigh,
					model.TierMedium: w.VisionMedium,
					model.TierLow:    w.VisionLow,
				},
			},
			{
				Source: model.SourceSearch,
				Mode:   ModeTierTable,
				TierPoints: map[model.Tier]float64{
					model.TierHigh:   w.SearchHigh,
					model.TierMedium: w.SearchMedium,
					model.TierLow:    w.SearchLow,
				},
			},
		},
		Bonuses: []BonusRule{
			{
				Name: "vision_corroboration",
				Max:  w.VisionCorrobBonus,
				Score: func(b model.EvidenceBundle, _ RequestContext) float64 {
					ev, ok := b.Get(model.SourceVision)
					if ok && ev.Present && ev.Occurrences >= minOcc {
						return 1
					}
					return 0
				},
			},
			{
				Name: "search_domain_trust",
				Max:  w.DomainTrustBonus,
				Score: func(b model.EvidenceBundle, _ RequestContext) float64 {
					ev, ok := b.Get(model.SourceSearch)
					if !ok || !ev.Present {
						return 0
					}
					return ev.DomainTrust
				},
			},
		},
	}
}

// EntityProfile builds the entity-validation profile: known-entity match
// strength × 0.6, blended search strength × 0.7, plus a flat bonus when the
// caller supplied category context. Total clamped to [0,1].
func EntityProfile(w EntityWeights) Profile {
	return Profile{
		Name:     "entity-validation",
		ScaleMax: 1,
		Terms: []SourceTerm{
			{Source: model.SourceKnownEntity, Mode: ModeLinear, Weight: w.KnownEntityWeight},
			{Source: model.SourceSearch, Mode: ModeLinear, Weight: w.SearchWeight},
		},
		Bonuses: []BonusRule{
			{
				Name: "category_context",
				Max:  w.CategoryBonus,
				Score: func(_ model.EvidenceBundle, rc RequestContext) float64 {
					if rc.HasCategoryContext {
						return 1
					}
					return 0
				},
			},
		},
	}
}
