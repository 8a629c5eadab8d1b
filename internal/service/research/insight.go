package research

import (
	"regexp"
	"strings"
)

// StrategyInsight is a structured tactical recommendation parsed from a
// model response.
type StrategyInsight struct {
	Title                 string                 `json:"title"`
	Description           string                 `json:"description"`
	Confidence            float64                `json:"confidence"`
	PlayerRecommendations []PlayerRecommendation `json:"player_recommendations"`
	PlayTypes             []string               `json:"play_types"`
	Reasoning             string                 `json:"reasoning"`
	QuarterContext        string                 `json:"quarter_context"`
}

// PlayerRecommendation is one "use this player this way" suggestion.
type PlayerRecommendation struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Action   string `json:"action"`
}

var (
	confidenceRe = regexp.MustCompile(`(?i)confidence[:\s]+(\d+)%?`)
	playerRecRe  = regexp.MustCompile(`(?i)PLAYER:\s*([^|\n]+)\s*\|\s*POSITION:\s*([^|\n]+)\s*\|\s*ACTION:\s*([^|\n]+)`)
)

// playSchemeKeywords are the scheme names surfaced as PlayTypes when the
// model mentions them.
var playSchemeKeywords = []string{
	"power running", "spread", "screen pass", "deep ball", "short slant", "play action",
}

const (
	insightDefaultConfidence = 0.75
	titleLimit               = 50
	descriptionLimit         = 200
)

// parseConfidence extracts a "confidence: NN%" figure as a fraction.
func parseConfidence(text string) float64 {
	m := confidenceRe.FindStringSubmatch(text)
	if m == nil {
		return insightDefaultConfidence
	}
	var pct float64
	for _, d := range m[1] {
		pct = pct*10 + float64(d-'0')
	}
	frac := pct / 100
	if frac < 0 {
		return 0
	}
	if frac > 1 {
		return 1
	}
	return frac
}

// parsePlayerRecommendations extracts "PLAYER: x | POSITION: y | ACTION: z"
// lines.
func parsePlayerRecommendations(text string) []PlayerRecommendation {
	var recs []PlayerRecommendation
	for _, m := range playerRecRe.FindAllStringSubmatch(text, -1) {
		recs = append(recs, PlayerRecommendation{
			Name:     strings.TrimSpace(m[1]),
			Position: strings.TrimSpace(m[2]),
			Action:   strings.TrimSpace(m[3]),
		})
	}
	return recs
}

func parsePlayTypes(text string) []string {
	lower := strings.ToLower(text)
	var types []string
	for _, kw := range playSchemeKeywords {
		if strings.Contains(lower, kw) {
			types = append(types, kw)
		}
	}
	return types
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// parseStrategyInsight builds a structured insight out of free-form model
// output. It never fails; unparseable responses degrade to the raw text with
// default confidence.
func parseStrategyInsight(responseText, query, quarterContext string) *StrategyInsight {
	return &StrategyInsight{
		Title:                 truncate(query, titleLimit),
		Description:           truncate(responseText, descriptionLimit),
		Confidence:            parseConfidence(responseText),
		PlayerRecommendations: parsePlayerRecommendations(responseText),
		PlayTypes:             parsePlayTypes(responseText),
		Reasoning:             responseText,
		QuarterContext:        quarterContext,
	}
}
