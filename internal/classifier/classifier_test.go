package classifier

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surveylens/brandcheck/internal/model"
)

func TestClassify_UnclearOnEmptyBundle(t *testing.T) {
	cls := Default().Classify(model.NewEvidenceBundle(), Context{})

	assert.Equal(t, "unclear", cls.RuleName)
	assert.Equal(t, 0, cls.ConfidencePercent)
}

func TestClassify_UnclearOnAllAbsent(t *testing.T) {
	b := model.NewEvidenceBundle(
		model.Absent(model.SourceVision),
		model.Absent(model.SourceSearch),
		model.Absent(model.SourceKnownEntity),
		model.Absent(model.SourceEmbedding),
	)

	cls := Default().Classify(b, Context{})
	assert.Equal(t, "unclear", cls.RuleName)
	assert.Equal(t, 0, cls.ConfidencePercent)
	assert.Contains(t, cls.Rationale, "no signal from")
}

func TestClassify_ClearMatch(t *testing.T) {
	b := model.NewEvidenceBundle(
		model.Evidence{Source: model.SourceVision, Present: true, MatchedLabel: "Nike", Strength: 0.9, Tier: model.TierHigh},
		model.Evidence{Source: model.SourceSearch, Present: true, MatchedLabel: "Nike", Strength: 0.8, Tier: model.TierHigh},
	)

	cls := Default().Classify(b, Context{})
	require.Equal(t, "clear_match", cls.RuleName)
	assert.Contains(t, cls.Rationale, "nike")
	assert.Len(t, cls.SupportingEvidence, 2)
	assert.GreaterOrEqual(t, cls.ConfidencePercent, 60)
}

func TestClassify_AmbiguousWhenComparableCandidates(t *testing.T) {
	b := model.NewEvidenceBundle(
		model.Evidence{Source: model.SourceVision, Present: true, MatchedLabel: "Adidas", Strength: 0.55, Tier: model.TierMedium},
		model.Evidence{Source: model.SourceSearch, Present: true, MatchedLabel: "Nike", Strength: 0.5, Tier: model.TierMedium},
	)

	cls := Default().Classify(b, Context{})
	require.Equal(t, "ambiguous_descriptor", cls.RuleName)
	assert.Contains(t, cls.Rationale, "adidas")
	assert.Contains(t, cls.Rationale, "nike")
}

func TestClassify_CategoryValidatedWinsOverClearMatch(t *testing.T) {
	// Bundle satisfies both CategoryValidated and ClearMatch; priority 0 wins.
	b := model.NewEvidenceBundle(
		model.Evidence{
			Source: model.SourceSearch, Present: true, MatchedLabel: "Nike",
			Strength: 0.9, Tier: model.TierHigh, Tags: []string{model.TagCategoryConfirmed},
		},
	)
	ctx := Context{CategoryDeclared: true, Category: "apparel"}

	cls := Default().Classify(b, ctx)
	require.Equal(t, "category_validated", cls.RuleName)
	assert.Equal(t, 95, cls.ConfidencePercent)
	assert.Contains(t, cls.Rationale, "apparel")
}

func TestClassify_CategoryErrorOnContradiction(t *testing.T) {
	b := model.NewEvidenceBundle(
		model.Evidence{
			Source: model.SourceSearch, Present: true, MatchedLabel: "Nike",
			Strength: 0.9, Tier: model.TierHigh, Tags: []string{model.TagCategoryContradicts},
		},
		model.Evidence{
			Source: model.SourceVision, Present: true, MatchedLabel: "Nike",
			Strength: 0.8, Tier: model.TierHigh, Tags: []string{model.TagCategoryConfirmed},
		},
	)
	ctx := Context{CategoryDeclared: true, Category: "groceries"}

	// A contradiction disqualifies CategoryValidated even when another
	// source confirms.
	cls := Default().Classify(b, ctx)
	require.Equal(t, "category_error", cls.RuleName)
	assert.Contains(t, cls.Rationale, "groceries")
}

func TestClassify_NoCategoryRulesWithoutContext(t *testing.T) {
	b := model.NewEvidenceBundle(
		model.Evidence{
			Source: model.SourceSearch, Present: true, MatchedLabel: "Nike",
			Strength: 0.9, Tier: model.TierHigh, Tags: []string{model.TagCategoryConfirmed},
		},
	)

	cls := Default().Classify(b, Context{})
	assert.Equal(t, "clear_match", cls.RuleName)
}

func TestClassify_ConflictBlocksClearMatch(t *testing.T) {
	b := model.NewEvidenceBundle(
		model.Evidence{Source: model.SourceVision, Present: true, MatchedLabel: "Nike", Strength: 0.95, Tier: model.TierHigh},
		model.Evidence{Source: model.SourceSearch, Present: true, MatchedLabel: "Nike", Strength: 0.1, Tier: model.TierLow},
	)

	cls := Default().Classify(b, Context{})
	assert.Equal(t, "unclear", cls.RuleName)
}

func TestClassify_ExactlyOneRuleSelected(t *testing.T) {
	// Totality under randomized bundles: classification always succeeds and
	// always names a known rule.
	known := map[string]bool{}
	for _, r := range DefaultRules() {
		known[r.Name] = true
	}

	rng := rand.New(rand.NewPCG(7, 11))
	tiers := []model.Tier{model.TierHigh, model.TierMedium, model.TierLow}
	labels := []string{"", "Nike", "Adidas", "Puma"}
	tags := [][]string{nil, {model.TagCategoryConfirmed}, {model.TagCategoryContradicts}}

	for i := 0; i < 1000; i++ {
		var evs []model.Evidence
		for _, src := range model.AllSources() {
			evs = append(evs, model.Evidence{
				Source:       src,
				Present:      rng.IntN(3) > 0,
				MatchedLabel: labels[rng.IntN(len(labels))],
				Strength:     rng.Float64(),
				Tier:         tiers[rng.IntN(len(tiers))],
				Tags:         tags[rng.IntN(len(tags))],
			})
		}
		ctx := Context{CategoryDeclared: rng.IntN(2) == 0, Category: "snacks"}

		cls := Default().Classify(model.NewEvidenceBundle(evs...), ctx)
		require.True(t, known[cls.RuleName], "unknown rule %q", cls.RuleName)
		require.GreaterOrEqual(t, cls.ConfidencePercent, 0)
		require.LessOrEqual(t, cls.ConfidencePercent, 100)
	}
}

func TestNew_SortsByPriority(t *testing.T) {
	rules := DefaultRules()
	// Shuffle deliberately.
	rules[0], rules[4] = rules[4], rules[0]
	rules[1], rules[3] = rules[3], rules[1]

	c := New(rules...)
	ordered := c.Rules()
	for i := 1; i < len(ordered); i++ {
		assert.Less(t, ordered[i-1].Priority, ordered[i].Priority)
	}
	assert.Equal(t, "category_validated", ordered[0].Name)
	assert.Equal(t, "unclear", ordered[len(ordered)-1].Name)
}
