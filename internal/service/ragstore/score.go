package ragstore

import (
	"strings"

	"github.com/gridscope/gridscope/pkg/gameclock"
)

// baseRelevance maps known event-type substrings to a base relevance value.
// Ordered: the first matching entry wins.
var baseRelevance = []struct {
	key   string
	score float64
}{
	{"pass", 0.70},
	{"run", 0.70},
	{"turnover", 0.90},
	{"scoring", 0.95},
	{"sack", 0.80},
	{"interception", 0.90},
	{"fumble", 0.90},
	{"touchdown", 0.95},
	{"field_goal", 0.85},
}

const (
	defaultRelevance  = 0.5
	neutralRecency    = 0.5
	queryMatchBoost   = 0.3
	keywordMatchBoost = 0.1
	minKeywordLength  = 4
)

// relevanceScore is a heuristic lexical-overlap scorer, deliberately not an
// embedding similarity: the store sits on the hot path of every insertion
// and retrieval.
func relevanceScore(eventType, description, query string) float64 {
	score := defaultRelevance

	typeLower := strings.ToLower(eventType)
	for _, entry := range baseRelevance {
		if strings.Contains(typeLower, entry.key) {
			score = entry.score
			break
		}
	}

	if query != "" {
		queryLower := strings.ToLower(query)
		descLower := strings.ToLower(description)

		if strings.Contains(descLower, queryLower) {
			score = min1(score + queryMatchBoost)
		}

		for _, kw := range strings.Fields(queryLower) {
			if len(kw) >= minKeywordLength && strings.Contains(descLower, kw) {
				score = min1(score + keywordMatchBoost)
			}
		}
	}

	return clamp01(score)
}

// recencyScore maps a "MM:SS" game clock onto [0,1], modeling a 15-minute
// quarter: 1 - seconds/900. Smaller clock values score higher. The formula
// does not disambiguate quarters ("15:00" of Q1 and Q4 score identically);
// that conflation is a known modeling limit kept on purpose to match the
// established ranking behavior. Malformed clocks score a neutral 0.5 rather
// than failing -- live-feed timestamps cannot be trusted.
func recencyScore(timestamp string) float64 {
	totalSeconds, err := gameclock.Parse(timestamp)
	if err != nil {
		return neutralRecency
	}
	return clamp01(1.0 - float64(totalSeconds)/float64(gameclock.SecondsPerQuarter))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	return min1(v)
}

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
