package decision

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surveylens/brandcheck/internal/fusion"
	"github.com/surveylens/brandcheck/internal/model"
)

func responseProfile() fusion.Profile {
	return fusion.ResponseProfile(fusion.DefaultWeights().Response)
}

func fullBundle() model.EvidenceBundle {
	return model.NewEvidenceBundle(
		model.Evidence{Source: model.SourceVision, Present: true, MatchedLabel: "Nike", Strength: 1, Tier: model.TierHigh},
		model.Evidence{Source: model.SourceSearch, Present: true, MatchedLabel: "Nike", Strength: 0.8, Tier: model.TierHigh, DomainTrust: 0.8, LanguageMatch: true},
	)
}

func TestDecide_ApproveOnHighConfidence(t *testing.T) {
	d := NewEngine(Config{}).Decide(Input{
		Bundle:            fullBundle(),
		ConfidencePercent: 90,
		Classification:    model.Classification{RuleName: "clear_match"},
		Profile:           responseProfile(),
		Text:              "nike",
	})

	assert.Equal(t, model.ActionApprove, d.Action)
	assert.False(t, d.RequiresHumanReview)
	assert.Empty(t, d.RiskFactors)
	assert.NotEmpty(t, d.ID)
	assert.WithinDuration(t, time.Now().UTC(), d.CreatedAt, 5*time.Second)
}

func TestDecide_MidConfidenceGoesToReview(t *testing.T) {
	d := NewEngine(Config{}).Decide(Input{
		Bundle:            fullBundle(),
		ConfidencePercent: 60,
		Profile:           responseProfile(),
		Text:              "nike",
	})

	assert.Equal(t, model.ActionReview, d.Action)
	assert.True(t, d.RequiresHumanReview, "60 sits in the human-review band")
}

func TestDecide_RejectOnLowConfidence(t *testing.T) {
	d := NewEngine(Config{}).Decide(Input{
		Bundle:            fullBundle(),
		ConfidencePercent: 30,
		Profile:           responseProfile(),
		Text:              "nike",
	})

	assert.Equal(t, model.ActionReject, d.Action)
	assert.False(t, d.RequiresHumanReview)
}

func TestDecide_AccumulatedRisksRejectDespiteConfidence(t *testing.T) {
	// Both profile sources absent plus a missing translation: three risks.
	b := model.NewEvidenceBundle(
		model.Absent(model.SourceVision),
		model.Absent(model.SourceSearch),
	)
	d := NewEngine(Config{}).Decide(Input{
		Bundle:            b,
		ConfidencePercent: 80,
		Profile:           responseProfile(),
		Text:              "ナイキ",
	})

	require.Len(t, d.RiskFactors, 3)
	assert.Equal(t, model.ActionReject, d.Action)
	assert.True(t, d.RequiresHumanReview)
}

func TestDecide_DomainTrustMismatchBlocksApproval(t *testing.T) {
	b := model.NewEvidenceBundle(
		model.Evidence{Source: model.SourceVision, Present: true, MatchedLabel: "Nike", Strength: 1, Tier: model.TierHigh},
		model.Evidence{Source: model.SourceSearch, Present: true, MatchedLabel: "Nike", Strength: 0.7, Tier: model.TierHigh, DomainTrust: 0.1},
	)
	d := NewEngine(Config{}).Decide(Input{
		Bundle:            b,
		ConfidencePercent: 85,
		Profile:           responseProfile(),
		Text:              "nike",
	})

	require.Len(t, d.RiskFactors, 1)
	assert.Equal(t, model.RiskDomainTrustMismatch, d.RiskFactors[0].Kind)
	assert.Equal(t, model.SeverityHigh, d.RiskFactors[0].Severity)
	assert.Equal(t, model.ActionReview, d.Action, "a high-severity risk downgrades approval to review")
}

func TestDecide_SignalConflictRequiresHuman(t *testing.T) {
	b := model.NewEvidenceBundle(
		model.Evidence{Source: model.SourceVision, Present: true, MatchedLabel: "Nike", Strength: 0.95, Tier: model.TierHigh},
		model.Evidence{Source: model.SourceSearch, Present: true, MatchedLabel: "Nike", Strength: 0.1, Tier: model.TierLow, DomainTrust: 0.9},
	)
	d := NewEngine(Config{}).Decide(Input{
		Bundle:            b,
		ConfidencePercent: 75,
		Profile:           responseProfile(),
		Text:              "nike",
	})

	assert.True(t, d.RequiresHumanReview, "conflicting tiers always get a human look")
}

func TestDecide_MissingTranslationRisk(t *testing.T) {
	// Non-Latin text with search evidence in the wrong language.
	b := model.NewEvidenceBundle(
		model.Evidence{Source: model.SourceVision, Present: true, MatchedLabel: "Nike", Strength: 1, Tier: model.TierHigh},
		model.Evidence{Source: model.SourceSearch, Present: true, MatchedLabel: "Nike", Strength: 0.8, Tier: model.TierHigh, DomainTrust: 0.9, LanguageMatch: false},
	)
	d := NewEngine(Config{}).Decide(Input{
		Bundle:            b,
		ConfidencePercent: 90,
		Profile:           responseProfile(),
		Text:              "ナイキ",
	})

	require.Len(t, d.RiskFactors, 1)
	assert.Equal(t, model.RiskMissingTranslation, d.RiskFactors[0].Kind)
	assert.Equal(t, model.SeverityMedium, d.RiskFactors[0].Severity)
	assert.Equal(t, model.ActionApprove, d.Action, "a single medium risk does not block approval")
}

func TestDecide_AbsentEvidenceSeverityTracksWeight(t *testing.T) {
	// Vision can contribute half the response scale, search under a third.
	b := model.NewEvidenceBundle(
		model.Absent(model.SourceVision),
		model.Absent(model.SourceSearch),
	)
	d := NewEngine(Config{}).Decide(Input{
		Bundle:            b,
		ConfidencePercent: 0,
		Profile:           responseProfile(),
		Text:              "nike",
	})

	require.Len(t, d.RiskFactors, 2)
	bySource := map[string]model.Severity{}
	for _, r := range d.RiskFactors {
		require.Equal(t, model.RiskAbsentEvidence, r.Kind)
		bySource[r.Detail] = r.Severity
	}
	assert.Equal(t, model.SeverityHigh, bySource["no usable evidence from vision"])
	assert.Equal(t, model.SeverityMedium, bySource["no usable evidence from search"])
}

func TestDecide_VisionTimeoutFallsBackToSearchOnlyReview(t *testing.T) {
	// Search alone can reach at most 40 on the response scale, so the
	// decision lands in review rather than approval.
	b := model.NewEvidenceBundle(
		model.Absent(model.SourceVision),
		model.Evidence{Source: model.SourceSearch, Present: true, MatchedLabel: "Nike", Strength: 0.9, Tier: model.TierHigh, DomainTrust: 1},
	)
	profile := responseProfile()
	fused := fusion.Fuse(profile, b, fusion.RequestContext{})
	conf := profile.ToPercent(fused)
	require.Equal(t, 40, conf)

	d := NewEngine(Config{}).Decide(Input{
		Bundle:            b,
		ConfidencePercent: conf,
		Profile:           profile,
		Text:              "nike",
	})
	assert.Equal(t, model.ActionReview, d.Action)
}

func TestDecide_CustomThresholds(t *testing.T) {
	e := NewEngine(Config{ApproveMin: 90, RejectBelow: 20})

	d := e.Decide(Input{
		Bundle:            fullBundle(),
		ConfidencePercent: 85,
		Profile:           responseProfile(),
		Text:              "nike",
	})
	assert.Equal(t, model.ActionReview, d.Action)

	d = e.Decide(Input{
		Bundle:            fullBundle(),
		ConfidencePercent: 25,
		Profile:           responseProfile(),
		Text:              "nike",
	})
	assert.Equal(t, model.ActionReview, d.Action, "25 clears the lowered reject threshold")
}
