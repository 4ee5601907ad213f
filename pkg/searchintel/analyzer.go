// Package searchintel scores a pre-fetched web search result set against a
// candidate brand answer. It performs no network calls; upstream
// collaborators supply the results.
package searchintel

import (
	"strings"

	"github.com/surveylens/brandcheck/internal/lang"
)

// Result is one pre-fetched search result.
type Result struct {
	Title    string
	URL      string
	Snippet  string
	Language string // BCP-47, if known
}

// Verdict is the analyzer's view of a declared category.
type Verdict int

const (
	// VerdictUnknown means no category was declared or the results say
	// nothing useful about it.
	VerdictUnknown Verdict = iota
	// VerdictConfirmed means the results mention the declared category
	// alongside the candidate.
	VerdictConfirmed
	// VerdictContradicted means the candidate is well supported but the
	// declared category never appears with it.
	VerdictContradicted
)

// Analysis is the scored summary of one result set.
type Analysis struct {
	// TopLabel is the candidate form that appeared most often, preserving
	// the casing seen in results.
	TopLabel string
	// RelevantFraction is the share of results mentioning the candidate.
	RelevantFraction float64
	// TrustedDomainHits counts results whose host is on the trusted list.
	TrustedDomainHits int
	TotalResults      int
	// QueryLanguageMatches reports whether a majority of language-tagged
	// results match the respondent's language.
	QueryLanguageMatches bool
	CategoryVerdict      Verdict
}

// Options tunes one analysis.
type Options struct {
	// LanguageCode is the respondent's original language, BCP-47.
	LanguageCode string
	// Category is the declared survey category, may be empty.
	Category string
	// TrustedDomains lists host suffixes that count as trustworthy, e.g.
	// "wikipedia.org". Empty means no trusted-domain scoring.
	TrustedDomains []string
}

// Thresholds for the category verdict: the candidate must be this well
// supported before a missing category counts as a contradiction.
const (
	contradictionMinRelevance = 0.5
	contradictionMinResults   = 3
)

// Analyze scores the result set. It is pure and deterministic.
func Analyze(query string, results []Result, opts Options) *Analysis {
	a := &Analysis{TotalResults: len(results)}
	if len(results) == 0 {
		return a
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	category := strings.ToLower(strings.TrimSpace(opts.Category))

	relevant := 0
	categoryHits := 0
	langTagged := 0
	langMatched := 0

	for _, r := range results {
		text := strings.ToLower(r.Title + " " + r.Snippet)

		if needle != "" && strings.Contains(text, needle) {
			relevant++
			if category != "" && strings.Contains(text, category) {
				categoryHits++
			}
			if a.TopLabel == "" {
				a.TopLabel = extractLabel(r.Title+" "+r.Snippet, needle)
			}
		}

		if trustedHost(r.URL, opts.TrustedDomains) {
			a.TrustedDomainHits++
		}

		if r.Language != "" {
			langTagged++
			if lang.SameLanguage(r.Language, opts.LanguageCode) {
				langMatched++
			}
		}
	}

	a.RelevantFraction = float64(relevant) / float64(len(results))
	a.QueryLanguageMatches = langTagged > 0 && langMatched*2 > langTagged

	if category != "" {
		switch {
		case categoryHits > 0:
			a.CategoryVerdict = VerdictConfirmed
		case relevant >= contradictionMinResults &&
			a.RelevantFraction >= contradictionMinRelevance:
			a.CategoryVerdict = VerdictContradicted
		}
	}
	return a
}

// extractLabel pulls the candidate as it was actually cased in the result
// text.
func extractLabel(text, needle string) string {
	lower := strings.ToLower(text)
	i := strings.Index(lower, needle)
	if i < 0 {
		return ""
	}
	return text[i : i+len(needle)]
}

func trustedHost(rawURL string, trusted []string) bool {
	if len(trusted) == 0 {
		return false
	}
	host := rawURL
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	host = strings.ToLower(host)
	for _, t := range trusted {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if host == t || strings.HasSuffix(host, "."+t) {
			return true
		}
	}
	return false
}
