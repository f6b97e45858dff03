package search

import (
	"regexp"
	"sort"
	"strings"

	"github.com/poiesic/semdex/core"
)

// Boost magnitudes are additive on whatever score scale the previous stage
// produced (cosine similarity or reranker relevance). Tunable constants.
const (
	boostRegisterDefinition float32 = 0.20
	boostAnnotated          float32 = 0.10
	boostBody               float32 = 0.05
)

// queryTermPattern matches identifier-like technical terms in a query,
// e.g. AFIO_MAPR2, GPIO_CRL, TIM1_CH1.
var queryTermPattern = regexp.MustCompile(`\b([A-Z]{2,}[0-9]*_[A-Z0-9_]+)\b`)

// QueryTerms extracts identifier-like terms from a query, uppercased and
// deduplicated in first-seen order.
func QueryTerms(query string) []string {
	matches := queryTermPattern.FindAllString(strings.ToUpper(query), -1)

	seen := make(map[string]bool, len(matches))
	terms := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m] {
			continue
		}
		seen[m] = true
		terms = append(terms, m)
	}
	return terms
}

type termMatcher struct {
	// exact matches the whole term only: AFIO_MAPR must not score
	// against text containing just AFIO_MAPR2, or vice versa.
	exact       *regexp.Regexp
	registerDef *regexp.Regexp
}

func newTermMatcher(term string) termMatcher {
	quoted := regexp.QuoteMeta(term)
	return termMatcher{
		exact:       regexp.MustCompile(`\b` + quoted + `\b`),
		registerDef: regexp.MustCompile(`REGISTER DEFINITION:\s*` + quoted + `\b`),
	}
}

// ApplyKeywordBoost re-scores candidates by exact query-term matches.
// Per matched term: +0.20 when the term is the subject of a REGISTER
// DEFINITION headline, +0.10 when the text carries a [KEY: annotation,
// +0.05 for any other exact match. Boosts sum per candidate and scores are
// deliberately not capped, so boosted results stay differentiated. The
// pre-boost score is preserved in OriginalScore unless an earlier stage
// already set it. Candidates are re-sorted descending; ties keep their
// prior relative order.
func ApplyKeywordBoost(query string, results []*core.SearchResult) []*core.SearchResult {
	terms := QueryTerms(query)
	if len(terms) == 0 {
		return results
	}

	matchers := make([]termMatcher, len(terms))
	for i, term := range terms {
		matchers[i] = newTermMatcher(term)
	}

	for _, result := range results {
		textUpper := strings.ToUpper(result.Chunk.Text)

		var boost float32
		for _, m := range matchers {
			if !m.exact.MatchString(textUpper) {
				continue
			}
			switch {
			case m.registerDef.MatchString(textUpper):
				boost += boostRegisterDefinition
			case strings.Contains(result.Chunk.Text, "[KEY:"):
				boost += boostAnnotated
			default:
				boost += boostBody
			}
		}

		result.SetOriginalScore(result.Score)
		result.KeywordBoost = boost
		result.Score += boost
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
