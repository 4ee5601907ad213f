// Package evidence collects raw provider payloads concurrently and
// normalizes them into the common evidence shape consumed by fusion and
// classification.
package evidence

import (
	"github.com/surveylens/brandcheck/internal/model"
	"github.com/surveylens/brandcheck/internal/provider"
)

// Vision tier anchors. The vision provider reports a qualitative band; the
// normalizer maps it onto the shared [0,1] strength scale.
const (
	visionHighStrength   = 1.0
	visionMediumStrength = 0.6
	visionLowStrength    = 0.2
)

// Search sub-score weights. Domain trust and result relevance carry equal
// weight; language fidelity adds a smaller bonus on top.
const (
	searchTrustWeight     = 0.45
	searchRelevanceWeight = 0.45
	searchLanguageWeight  = 0.10
)

// NormalizeVision converts a raw vision payload into evidence. Occurrences
// counts how many times the dominant label was detected across the images.
func NormalizeVision(r *provider.VisionResult) model.Evidence {
	strength := visionLowStrength
	switch r.Tier {
	case model.TierHigh:
		strength = visionHighStrength
	case model.TierMedium:
		strength = visionMediumStrength
	}

	occurrences := r.LabelCounts[r.Label]
	if occurrences == 0 && r.Label != "" {
		occurrences = 1
	}

	return model.Evidence{
		Source:       model.SourceVision,
		MatchedLabel: r.Label,
		Strength:     strength,
		Tier:         r.Tier,
		Present:      true,
		Occurrences:  occurrences,
	}
}

// NormalizeSearch converts a search analysis into evidence. Strength blends
// domain trust and relevance equally with a small language-fidelity bonus;
// category verdicts become tags so the classifier can act on them.
func NormalizeSearch(a *provider.SearchAnalysis) model.Evidence {
	trust := 0.0
	if a.TotalResults > 0 {
		trust = model.Clamp01(float64(a.TrustedDomainHits) / float64(a.TotalResults))
	}

	strength := searchTrustWeight*trust + searchRelevanceWeight*model.Clamp01(a.RelevantFraction)
	if a.QueryLanguageMatches {
		strength += searchLanguageWeight
	}
	strength = model.Clamp01(strength)

	var tags []string
	switch a.CategorySupport {
	case provider.CategoryConfirmed:
		tags = append(tags, model.TagCategoryConfirmed)
	case provider.CategoryContradicted:
		tags = append(tags, model.TagCategoryContradicts)
	}
	if a.TrustedDomainHits > 0 {
		tags = append(tags, model.TagTrustedDomain)
	}
	if a.QueryLanguageMatches {
		tags = append(tags, model.TagLanguageMatch)
	}

	return model.Evidence{
		Source:        model.SourceSearch,
		MatchedLabel:  a.TopLabel,
		Strength:      strength,
		Tier:          model.TierFromStrength(strength),
		Tags:          tags,
		Present:       true,
		DomainTrust:   trust,
		LanguageMatch: a.QueryLanguageMatches,
	}
}

// NormalizeEntity converts a fuzzy directory match into evidence.
func NormalizeEntity(m *provider.EntityMatch) model.Evidence {
	strength := model.Clamp01(m.Score)
	return model.Evidence{
		Source:       model.SourceKnownEntity,
		MatchedLabel: m.MatchedName,
		Strength:     strength,
		Tier:         model.TierFromStrength(strength),
		Present:      true,
	}
}

// NormalizeEmbedding converts a cosine similarity into evidence. Embedding
// evidence carries no label; it corroborates whichever candidate the other
// sources name.
func NormalizeEmbedding(similarity float64) model.Evidence {
	strength := model.Clamp01(similarity)
	return model.Evidence{
		Source:   model.SourceEmbedding,
		Strength: strength,
		Tier:     model.TierFromStrength(strength),
		Present:  true,
	}
}
