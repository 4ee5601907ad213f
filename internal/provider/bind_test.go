package provider

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surveylens/brandcheck/internal/model"
	"github.com/surveylens/brandcheck/pkg/knownentity"
	"github.com/surveylens/brandcheck/pkg/vision"
)

type fakeDetector struct {
	detection *vision.Detection
	err       error
}

func (f *fakeDetector) Detect(_ context.Context, _ []string, _ string) (*vision.Detection, error) {
	return f.detection, f.err
}

func TestVisionAdapter_MapsTier(t *testing.T) {
	a := &visionAdapter{client: &fakeDetector{detection: &vision.Detection{
		Label:       "Nike",
		LabelCounts: map[string]int{"Nike": 3},
		Tier:        "high",
	}}}

	res, err := a.Analyze(context.Background(), []string{"https://img.example/1.jpg"}, "nike")
	require.NoError(t, err)
	assert.Equal(t, "Nike", res.Label)
	assert.Equal(t, 3, res.LabelCounts["Nike"])
	assert.Equal(t, model.TierHigh, res.Tier)
}

func TestVisionAdapter_UnknownTier(t *testing.T) {
	a := &visionAdapter{client: &fakeDetector{detection: &vision.Detection{Label: "Nike", Tier: "certain"}}}

	_, err := a.Analyze(context.Background(), []string{"https://img.example/1.jpg"}, "nike")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown vision tier")
}

func TestVisionAdapter_PropagatesError(t *testing.T) {
	a := &visionAdapter{client: &fakeDetector{err: eris.New("model unavailable")}}

	_, err := a.Analyze(context.Background(), []string{"https://img.example/1.jpg"}, "nike")
	require.Error(t, err)
}

func TestSearchAdapter_Analyze(t *testing.T) {
	a := BindSearch([]string{"wikipedia.org"})

	results := []model.SearchResult{
		{Title: "Nike - Wikipedia", URL: "https://en.wikipedia.org/wiki/Nike,_Inc.", Snippet: "Nike makes athletic apparel", Language: "en"},
		{Title: "shoe reviews", URL: "https://blog.example.net", Snippet: "sneaker roundup", Language: "en"},
	}

	res, err := a.Analyze(context.Background(), "nike", results, SearchOptions{LanguageCode: "en", Category: "apparel"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalResults)
	assert.Equal(t, 1, res.TrustedDomainHits)
	assert.InDelta(t, 0.5, res.RelevantFraction, 0.001)
	assert.True(t, res.QueryLanguageMatches)
	assert.Equal(t, CategoryConfirmed, res.CategorySupport)
	assert.Equal(t, "Nike", res.TopLabel)
}

func TestSearchAdapter_EmptyResults(t *testing.T) {
	a := BindSearch(nil)

	res, err := a.Analyze(context.Background(), "nike", nil, SearchOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.TotalResults)
	assert.Equal(t, CategoryUnknown, res.CategorySupport)
}

func TestDirectoryAdapter_Match(t *testing.T) {
	a := BindDirectory(knownentity.New([]string{"Nike", "Adidas"}))

	m, err := a.FuzzyMatch(context.Background(), "adibas")
	require.NoError(t, err)
	assert.Equal(t, "Adidas", m.MatchedName)
	assert.Greater(t, m.Score, 0.6)
}

func TestDirectoryAdapter_NoMatch(t *testing.T) {
	a := BindDirectory(knownentity.New(nil))

	_, err := a.FuzzyMatch(context.Background(), "nike")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no directory match")
}
