package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDetection(t *testing.T) {
	d, err := parseDetection(`{"label":"Nike","label_counts":{"Nike":2},"tier":"high"}`)
	require.NoError(t, err)
	assert.Equal(t, "Nike", d.Label)
	assert.Equal(t, 2, d.LabelCounts["Nike"])
	assert.Equal(t, "high", d.Tier)
}

func TestParseDetection_CodeFenced(t *testing.T) {
	raw := "Here is the result:\n```json\n{\"label\":\"Adidas\",\"label_counts\":{\"Adidas\":1},\"tier\":\"medium\"}\n```"
	d, err := parseDetection(raw)
	require.NoError(t, err)
	assert.Equal(t, "Adidas", d.Label)
	assert.Equal(t, "medium", d.Tier)
}

func TestParseDetection_EmptyLabel(t *testing.T) {
	d, err := parseDetection(`{"label":"","label_counts":{},"tier":"low"}`)
	require.NoError(t, err)
	assert.Empty(t, d.Label)
	assert.Equal(t, "low", d.Tier)
}

func TestParseDetection_Malformed(t *testing.T) {
	_, err := parseDetection("I could not identify any brand.")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "malformed")
}

func TestParseDetection_UnknownTier(t *testing.T) {
	_, err := parseDetection(`{"label":"Nike","tier":"certain"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tier")
}

func TestNew_Options(t *testing.T) {
	c := New("key", WithModel("claude-sonnet-4-5-20250929"), WithMaxTokens(256))
	assert.Equal(t, "claude-sonnet-4-5-20250929", c.model)
	assert.Equal(t, int64(256), c.maxTokens)
}
