// Package decision turns a classification and its evidence into a final
// disposition: approve, reject, or route to a human reviewer.
package decision

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/surveylens/brandcheck/internal/fusion"
	"github.com/surveylens/brandcheck/internal/lang"
	"github.com/surveylens/brandcheck/internal/model"
)

// Untrusted-domain floor: search evidence below this domain-trust level
// contradicting a highly confident vision read is flagged.
const lowDomainTrust = 0.3

// Absent-source severity bands, as a share of the profile's scale.
const (
	absentHighShare   = 0.4
	absentMediumShare = 0.15
)

// Config holds the decision thresholds. All values are on the 0-100
// confidence scale.
type Config struct {
	// ApproveMin is the minimum confidence to auto-approve. Default 70.
	ApproveMin int `yaml:"approve_min" mapstructure:"approve_min"`
	// RejectBelow rejects any decision under this confidence. Default 40.
	RejectBelow int `yaml:"reject_below" mapstructure:"reject_below"`
	// ReviewFlagMin is the bottom of the human-review confidence band.
	// Default 50.
	ReviewFlagMin int `yaml:"review_flag_min" mapstructure:"review_flag_min"`
	// MaxRiskFactors rejects once this many risks accumulate. Default 3.
	MaxRiskFactors int `yaml:"max_risk_factors" mapstructure:"max_risk_factors"`
}

func (c Config) withDefaults() Config {
	if c.ApproveMin <= 0 {
		c.ApproveMin = 70
	}
	if c.RejectBelow <= 0 {
		c.RejectBelow = 40
	}
	if c.ReviewFlagMin <= 0 {
		c.ReviewFlagMin = 50
	}
	if c.MaxRiskFactors <= 0 {
		c.MaxRiskFactors = 3
	}
	return c
}

// Input is everything the engine inspects for one decision.
type Input struct {
	Bundle model.EvidenceBundle
	// ConfidencePercent is the fused confidence on the 0-100 scale. The
	// classification carries its own rule confidence; thresholds run on the
	// fused value.
	ConfidencePercent int
	Classification    model.Classification
	// Profile is the active weight profile; it determines which absent
	// sources matter and how much.
	Profile fusion.Profile
	// Text is the respondent's original answer, used for script checks.
	Text string
}

// Engine applies the decision thresholds. It is stateless and safe for
// concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine builds an engine with the given thresholds.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg.withDefaults()}
}

// Decide produces the final disposition. Rejection conditions are checked
// before approval so that accumulated risk overrides a high confidence.
func (e *Engine) Decide(in Input) model.Decision {
	risks := e.detectRisks(in)
	conf := model.ClampPercent(in.ConfidencePercent)

	highSeverity := false
	for _, r := range risks {
		if r.Severity == model.SeverityHigh {
			highSeverity = true
			break
		}
	}

	var action model.Action
	switch {
	case conf < e.cfg.RejectBelow || len(risks) >= e.cfg.MaxRiskFactors:
		action = model.ActionReject
	case conf >= e.cfg.ApproveMin && !highSeverity:
		action = model.ActionApprove
	default:
		action = model.ActionReview
	}

	needsHuman := (conf >= e.cfg.ReviewFlagMin && conf < e.cfg.ApproveMin) ||
		len(risks) >= 2 ||
		in.Bundle.HasConflict()

	return model.Decision{
		ID:                  uuid.NewString(),
		Action:              action,
		ConfidencePercent:   conf,
		RequiresHumanReview: needsHuman,
		RiskFactors:         risks,
		Classification:      in.Classification,
		CreatedAt:           time.Now().UTC(),
	}
}

func (e *Engine) detectRisks(in Input) []model.RiskFactor {
	var risks []model.RiskFactor

	vision, visionOK := in.Bundle.Get(model.SourceVision)
	search, searchOK := in.Bundle.Get(model.SourceSearch)

	if visionOK && vision.Present && vision.Tier == model.TierHigh &&
		searchOK && search.Present && search.DomainTrust < lowDomainTrust {
		risks = append(risks, model.RiskFactor{
			Kind:     model.RiskDomainTrustMismatch,
			Severity: model.SeverityHigh,
			Detail: fmt.Sprintf("vision is highly confident but search domain trust is %.2f",
				search.DomainTrust),
		})
	}

	if lang.NonLatinScript(in.Text) && !(searchOK && search.Present && search.LanguageMatch) {
		risks = append(risks, model.RiskFactor{
			Kind:     model.RiskMissingTranslation,
			Severity: model.SeverityMedium,
			Detail:   "non-Latin response text without language-matched search evidence",
		})
	}

	for _, term := range in.Profile.Terms {
		if in.Bundle.Present(term.Source) {
			continue
		}
		risks = append(risks, model.RiskFactor{
			Kind:     model.RiskAbsentEvidence,
			Severity: absentSeverity(term, in.Profile),
			Detail:   fmt.Sprintf("no usable evidence from %s", term.Source),
		})
	}

	return risks
}

// absentSeverity ranks a missing source by how much of the profile's scale
// it could have contributed.
func absentSeverity(term fusion.SourceTerm, p fusion.Profile) model.Severity {
	if p.ScaleMax <= 0 {
		return model.SeverityLow
	}
	share := term.MaxContribution() / p.ScaleMax
	switch {
	case share >= absentHighShare:
		return model.SeverityHigh
	case share >= absentMediumShare:
		return model.SeverityMedium
	default:
		return model.SeverityLow
	}
}
