package engine

import (
	"strings"

	"countyq/internal/models"
	"countyq/internal/textutil"
)

// Intent holds everything the extractor could read out of a question. Every
// field is a best-effort guess; zero values mean "no signal found".
type Intent struct {
	County       string // display-form county name, "" when none matched
	Metric       models.Metric
	Region       models.Region
	AsksRegion   bool
	WantsPercent bool
	WantsTotal   bool
	Clarity      float64
}

var (
	projectedWords  = []string{"projected", "proj"}
	hispanicWords   = []string{"hispanic", "spanish"}
	populationWords = []string{"population", "pop", "people", "residents"}
	percentWords    = []string{"percent", "percentage", "ratio", "portion", "share"}
	totalWords      = []string{"total", "overall", "combined", "all counties", "sum"}
)

// clarityVocabulary is the fixed set of domain-relevant terms used to score
// how answerable a question looks.
var clarityVocabulary = buildVocabulary(
	projectedWords, hispanicWords, populationWords, percentWords,
	[]string{"total", "overall", "combined", "sum"},
	[]string{"east", "west", "central", "region", "area"},
	[]string{"county", "counties"},
)

func buildVocabulary(groups ...[]string) map[string]bool {
	vocab := make(map[string]bool)
	for _, group := range groups {
		for _, w := range group {
			for _, token := range strings.Fields(w) {
				vocab[token] = true
			}
		}
	}
	return vocab
}

// extractIntent runs every extraction function over the question against the
// given snapshot. Total for any input, including the empty string.
func extractIntent(snap *models.Snapshot, question string) Intent {
	q := textutil.Normalize(question)
	tokens := strings.Fields(q)

	county := extractCounty(snap, q, tokens)

	it := Intent{
		County:       county,
		Metric:       guessMetric(tokens),
		Region:       extractRegion(q),
		AsksRegion:   asksForRegion(q),
		WantsPercent: wantsPercentage(q),
		Clarity:      clarityScore(tokens),
	}

	// A total request is meaningless once a county is pinned down, and a
	// percentage question is never a totals question.
	it.WantsTotal = wantsTotal(q, county != "") && !it.WantsPercent

	return it
}

// extractCounty finds a county mentioned in the question. An exact token
// match against a known county's normalized name is the strong signal; the
// fallback is the pattern "<county> county" anywhere in the question. The
// display form comes from the first matching row.
func extractCounty(snap *models.Snapshot, q string, tokens []string) string {
	if snap == nil {
		return ""
	}

	tokenSet := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		tokenSet[t] = true
	}

	for _, row := range snap.Rows {
		if tokenSet[textutil.Normalize(row.County)] {
			return row.County
		}
	}

	for _, row := range snap.Rows {
		norm := textutil.Normalize(row.County)
		if norm != "" && strings.Contains(q, norm+" county") {
			return row.County
		}
	}

	return ""
}

// guessMetric resolves the target metric with an ordered cascade. The order
// is a deliberate tie-break: "projected hispanic" resolves to projected, not
// hispanic.
func guessMetric(tokens []string) models.Metric {
	hasProjected := hasAnyToken(tokens, projectedWords)
	hasHispanic := hasAnyToken(tokens, hispanicWords)

	switch {
	case hasProjected && hasHispanic:
		return models.MetricProjected
	case hasHispanic:
		return models.MetricHispanic
	case hasProjected:
		return models.MetricProjected
	case hasAnyToken(tokens, populationWords):
		return models.MetricPopulation
	default:
		return models.MetricPopulation
	}
}

// extractRegion matches the three region names as substrings. Single-letter
// codes are an ingestion-side convenience only and are not accepted here.
func extractRegion(q string) models.Region {
	switch {
	case strings.Contains(q, "east"):
		return models.RegionEast
	case strings.Contains(q, "west"):
		return models.RegionWest
	case strings.Contains(q, "central"):
		return models.RegionCentral
	}
	return ""
}

func asksForRegion(q string) bool {
	return strings.HasPrefix(q, "which region") ||
		strings.Contains(q, "what region") ||
		strings.Contains(q, "which area")
}

func wantsPercentage(q string) bool {
	return containsAny(q, percentWords)
}

func wantsTotal(q string, countyFound bool) bool {
	if countyFound {
		return false
	}
	return containsAny(q, totalWords)
}

// clarityScore is the fraction of the question's tokens drawn from the
// domain vocabulary. Empty questions score zero.
func clarityScore(tokens []string) float64 {
	if len(tokens) == 0 {
		return 0
	}
	hits := 0
	for _, t := range tokens {
		if clarityVocabulary[t] {
			hits++
		}
	}
	return float64(hits) / float64(len(tokens))
}

func hasAnyToken(tokens []string, words []string) bool {
	for _, t := range tokens {
		for _, w := range words {
			if t == w {
				return true
			}
		}
	}
	return false
}

func containsAny(q string, words []string) bool {
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}
