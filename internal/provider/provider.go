// Package provider defines the contracts for the external evidence sources
// consumed by the collector. Implementations live under pkg/; the engine
// core only ever sees these interfaces.
package provider

import (
	"context"

	"github.com/surveylens/brandcheck/internal/model"
)

// VisionResult is the raw payload from an image-recognition provider.
type VisionResult struct {
	// Label is the dominant brand label detected across the images.
	Label string
	// LabelCounts maps each detected label to its occurrence count.
	LabelCounts map[string]int
	// Tier is the provider's qualitative confidence band.
	Tier model.Tier
}

// VisionProvider analyzes respondent-supplied images against a candidate.
type VisionProvider interface {
	Analyze(ctx context.Context, images []string, candidateText string) (*VisionResult, error)
}

// CategorySupport is the search analyzer's verdict on a declared category.
type CategorySupport int

const (
	// CategoryUnknown means no category was declared or the results are
	// inconclusive about it.
	CategoryUnknown CategorySupport = iota
	// CategoryConfirmed means the results corroborate the declared category.
	CategoryConfirmed
	// CategoryContradicted means the results point to a different category.
	CategoryContradicted
)

// SearchAnalysis is the raw payload from local analysis of pre-fetched
// search results. No network call is involved.
type SearchAnalysis struct {
	// TopLabel is the candidate form that appeared most often in results.
	TopLabel string
	// RelevantFraction is the share of results mentioning the candidate.
	RelevantFraction float64
	// TrustedDomainHits counts results from the trusted-domain list.
	TrustedDomainHits int
	// TotalResults is the size of the analyzed result set.
	TotalResults int
	// QueryLanguageMatches reports whether the results match the
	// respondent's original language.
	QueryLanguageMatches bool
	// CategorySupport is the verdict on the declared category, if any.
	CategorySupport CategorySupport
}

// SearchAnalyzer scores a pre-fetched search result set against a query.
type SearchAnalyzer interface {
	Analyze(ctx context.Context, query string, results []model.SearchResult, opts SearchOptions) (*SearchAnalysis, error)
}

// SearchOptions carries per-request context into the search analyzer.
type SearchOptions struct {
	LanguageCode string // respondent's original language, BCP-47
	Category     string // declared category, may be empty
}

// EntityMatch is the raw payload from a known-entity fuzzy lookup.
type EntityMatch struct {
	MatchedName string
	Score       float64 // [0,1]
}

// KnownEntityProvider fuzzy-matches a candidate name against a directory
// of known brands.
type KnownEntityProvider interface {
	FuzzyMatch(ctx context.Context, name string) (*EntityMatch, error)
}

// EmbeddingProvider computes semantic similarity between a candidate text
// and a reference set, as cosine similarity in [0,1].
type EmbeddingProvider interface {
	Similarity(ctx context.Context, text string, referenceSet []string) (float64, error)
}

// Set bundles the configured providers for the collector. A nil field means
// the source is not configured and will be recorded as absent evidence.
type Set struct {
	Vision      VisionProvider
	Search      SearchAnalyzer
	KnownEntity KnownEntityProvider
	Embedding   EmbeddingProvider
}
