package provider

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/surveylens/brandcheck/internal/model"
	"github.com/surveylens/brandcheck/pkg/embedding"
	"github.com/surveylens/brandcheck/pkg/knownentity"
	"github.com/surveylens/brandcheck/pkg/searchintel"
	"github.com/surveylens/brandcheck/pkg/vision"
)

// The embedding client already speaks the provider contract.
var _ EmbeddingProvider = (*embedding.Client)(nil)

// visionDetector is the slice of pkg/vision the adapter needs.
type visionDetector interface {
	Detect(ctx context.Context, imageURLs []string, candidate string) (*vision.Detection, error)
}

// visionAdapter adapts the vision client to VisionProvider.
type visionAdapter struct {
	client visionDetector
}

// BindVision wraps a vision client as a VisionProvider.
func BindVision(client *vision.Client) VisionProvider {
	return &visionAdapter{client: client}
}

func (a *visionAdapter) Analyze(ctx context.Context, images []string, candidateText string) (*VisionResult, error) {
	d, err := a.client.Detect(ctx, images, candidateText)
	if err != nil {
		return nil, err
	}
	tier, err := tierFromString(d.Tier)
	if err != nil {
		return nil, err
	}
	return &VisionResult{
		Label:       d.Label,
		LabelCounts: d.LabelCounts,
		Tier:        tier,
	}, nil
}

func tierFromString(s string) (model.Tier, error) {
	switch s {
	case "high":
		return model.TierHigh, nil
	case "medium":
		return model.TierMedium, nil
	case "low":
		return model.TierLow, nil
	default:
		return model.TierNone, eris.Errorf("provider: unknown vision tier %q", s)
	}
}

// searchAdapter adapts the searchintel analyzer to SearchAnalyzer. The
// trusted-domain list is fixed at construction; per-request context comes
// in through SearchOptions.
type searchAdapter struct {
	trustedDomains []string
}

// BindSearch builds a SearchAnalyzer over the local result-set analyzer.
func BindSearch(trustedDomains []string) SearchAnalyzer {
	return &searchAdapter{trustedDomains: trustedDomains}
}

func (a *searchAdapter) Analyze(_ context.Context, query string, results []model.SearchResult, opts SearchOptions) (*SearchAnalysis, error) {
	converted := make([]searchintel.Result, len(results))
	for i, r := range results {
		converted[i] = searchintel.Result{
			Title:    r.Title,
			URL:      r.URL,
			Snippet:  r.Snippet,
			Language: r.Language,
		}
	}

	analysis := searchintel.Analyze(query, converted, searchintel.Options{
		LanguageCode:   opts.LanguageCode,
		Category:       opts.Category,
		TrustedDomains: a.trustedDomains,
	})

	return &SearchAnalysis{
		TopLabel:             analysis.TopLabel,
		RelevantFraction:     analysis.RelevantFraction,
		TrustedDomainHits:    analysis.TrustedDomainHits,
		TotalResults:         analysis.TotalResults,
		QueryLanguageMatches: analysis.QueryLanguageMatches,
		CategorySupport:      categorySupport(analysis.CategoryVerdict),
	}, nil
}

func categorySupport(v searchintel.Verdict) CategorySupport {
	switch v {
	case searchintel.VerdictConfirmed:
		return CategoryConfirmed
	case searchintel.VerdictContradicted:
		return CategoryContradicted
	default:
		return CategoryUnknown
	}
}

// directoryAdapter adapts the brand directory to KnownEntityProvider.
type directoryAdapter struct {
	dir *knownentity.Directory
}

// BindDirectory wraps a brand directory as a KnownEntityProvider.
func BindDirectory(dir *knownentity.Directory) KnownEntityProvider {
	return &directoryAdapter{dir: dir}
}

func (a *directoryAdapter) FuzzyMatch(_ context.Context, name string) (*EntityMatch, error) {
	m := a.dir.Best(name)
	if m.Name == "" {
		return nil, eris.Errorf("provider: no directory match for %q", name)
	}
	return &EntityMatch{MatchedName: m.Name, Score: m.Score}, nil
}
