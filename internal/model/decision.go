package model

import "time"

// Action is the final disposition for a classified response.
type Action string

const (
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionReview  Action = "review"
)

// RiskKind enumerates the risk signals the decision engine detects.
type RiskKind string

const (
	// RiskDomainTrustMismatch fires when vision is highly confident but the
	// search results come from untrusted domains.
	RiskDomainTrustMismatch RiskKind = "domain_trust_mismatch"
	// RiskMissingTranslation fires when the respondent text is non-Latin
	// script and no language-matched search evidence exists.
	RiskMissingTranslation RiskKind = "missing_translation"
	// RiskAbsentEvidence fires for each provider the active weight profile
	// cares about that produced no usable evidence.
	RiskAbsentEvidence RiskKind = "absent_evidence"
)

// Severity ranks how concerning a risk factor is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// RiskFactor is one detected risk signal attached to a decision.
type RiskFactor struct {
	Kind     RiskKind `json:"kind"`
	Severity Severity `json:"severity"`
	Detail   string   `json:"detail,omitempty"`
}

// Classification is the output of the pattern classifier: exactly one per
// request, selected by the first matching rule in priority order.
type Classification struct {
	RuleName           string     `json:"rule_name"`
	ConfidencePercent  int        `json:"confidence_percent"` // clamped [0,100]
	Rationale          string     `json:"rationale"`
	SupportingEvidence []Evidence `json:"supporting_evidence,omitempty"`
}

// Decision is the final output returned to callers and persisted in the
// result cache and audit store.
type Decision struct {
	ID                  string         `json:"id"`
	Action              Action         `json:"action"`
	ConfidencePercent   int            `json:"confidence_percent"` // clamped [0,100]
	RequiresHumanReview bool           `json:"requires_human_review"`
	RiskFactors         []RiskFactor   `json:"risk_factors,omitempty"`
	Classification      Classification `json:"classification"`
	CreatedAt           time.Time      `json:"created_at"`

	// FromCache marks decisions served from the result cache. Not persisted.
	FromCache bool `json:"-"`
}

// ClampPercent clamps v into [0,100].
func ClampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
