package model

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrInvalidInput is returned when a request fails validation before any
// provider call is made.
var ErrInvalidInput = eris.New("invalid input")

// SearchResult is one pre-fetched web search result supplied by an upstream
// collaborator. The engine analyzes these locally and never performs a
// network search itself.
type SearchResult struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	Snippet  string `json:"snippet"`
	Language string `json:"language,omitempty"` // BCP-47, if known
}

// ResponseRequest describes one respondent answer to validate
// (response-validation profile).
type ResponseRequest struct {
	Text          string         `json:"text"`
	Images        []string       `json:"images,omitempty"` // image references (URLs)
	SearchResults []SearchResult `json:"search_results,omitempty"`
	LanguageCode  string         `json:"language_code,omitempty"` // BCP-47
	Category      string         `json:"category,omitempty"`      // declared survey category
}

// Validate fails fast on input the engine cannot classify.
func (r ResponseRequest) Validate() error {
	if strings.TrimSpace(r.Text) == "" {
		return eris.Wrap(ErrInvalidInput, "response text is empty")
	}
	return nil
}

// CacheKey returns a stable content hash over the fields that affect the
// decision: normalized text, sorted image references and language code.
func (r ResponseRequest) CacheKey() string {
	images := make([]string, len(r.Images))
	copy(images, r.Images)
	sort.Strings(images)

	parts := []string{"response", normalizeText(r.Text), strings.ToLower(r.LanguageCode), strings.ToLower(r.Category)}
	parts = append(parts, images...)
	return hashKey(parts)
}

// EntityRequest describes one brand candidate to validate
// (entity-validation profile).
type EntityRequest struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`

	// Overrides supplies precomputed evidence records that replace provider
	// calls for their source. Used when an upstream stage already ran a
	// provider and the caller wants to avoid paying for it twice.
	Overrides []Evidence `json:"overrides,omitempty"`
}

// Validate fails fast on input the engine cannot classify.
func (r EntityRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return eris.Wrap(ErrInvalidInput, "candidate name is empty")
	}
	return nil
}

// CacheKey returns a stable content hash over candidate name and category
// context. Overrides are intentionally excluded: they are a caller-side
// optimization, not part of request identity.
func (r EntityRequest) CacheKey() string {
	return hashKey([]string{"entity", normalizeText(r.Name), strings.ToLower(r.Category)})
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func hashKey(parts []string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return "brandcheck:v1:" + hex.EncodeToString(h.Sum(nil))
}
