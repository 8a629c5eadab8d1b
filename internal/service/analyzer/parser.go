package analyzer

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gridscope/gridscope/internal/core"
)

var (
	eventRe      = regexp.MustCompile(`(?im)^\s*EVENT:\s*(.+?)\s*$`)
	detailsRe    = regexp.MustCompile(`(?im)^\s*DETAILS:\s*(.+?)\s*$`)
	confidenceRe = regexp.MustCompile(`(?i)CONFIDENCE:\s*([\d.]+)`)

	homeTeamRe   = regexp.MustCompile(`(?i)HOME_TEAM:\s*([A-Z]{2,3})`)
	awayTeamRe   = regexp.MustCompile(`(?i)AWAY_TEAM:\s*([A-Z]{2,3})`)
	homeScoreRe  = regexp.MustCompile(`(?i)HOME_SCORE:\s*(\d+)`)
	awayScoreRe  = regexp.MustCompile(`(?i)AWAY_SCORE:\s*(\d+)`)
	quarterRe    = regexp.MustCompile(`(?i)QUARTER:\s*(\d+|OT)`)
	gameTimeRe   = regexp.MustCompile(`(?i)GAME_TIME:\s*([\d:]+)`)
	downRe       = regexp.MustCompile(`(?i)DOWN:\s*(\d)`)
	distanceRe   = regexp.MustCompile(`(?i)DISTANCE:\s*(\d+)`)
	possessionRe = regexp.MustCompile(`(?i)POSSESSION:\s*([A-Z]{2,3})`)
)

const defaultConfidence = 0.75

// Scoreboard is the game state read off the on-screen graphics, when the
// model reported one. Zero values mean "not seen": scores are -1 when
// absent so that 0-0 stays distinguishable.
type Scoreboard struct {
	HomeTeam   string
	AwayTeam   string
	HomeScore  int
	AwayScore  int
	Quarter    int
	Clock      string
	Down       int
	Distance   int
	Possession string
}

func (sb Scoreboard) Empty() bool {
	return sb.HomeTeam == "" && sb.AwayTeam == "" && sb.HomeScore < 0 &&
		sb.AwayScore < 0 && sb.Quarter == 0 && sb.Clock == "" &&
		sb.Down == 0 && sb.Distance == 0 && sb.Possession == ""
}

// parseScoreboard scans the whole response for scoreboard fields.
func parseScoreboard(text string) Scoreboard {
	sb := Scoreboard{HomeScore: -1, AwayScore: -1}

	if m := homeTeamRe.FindStringSubmatch(text); m != nil {
		sb.HomeTeam = strings.ToUpper(m[1])
	}
	if m := awayTeamRe.FindStringSubmatch(text); m != nil {
		sb.AwayTeam = strings.ToUpper(m[1])
	}
	if m := homeScoreRe.FindStringSubmatch(text); m != nil {
		sb.HomeScore, _ = strconv.Atoi(m[1])
	}
	if m := awayScoreRe.FindStringSubmatch(text); m != nil {
		sb.AwayScore, _ = strconv.Atoi(m[1])
	}
	if m := quarterRe.FindStringSubmatch(text); m != nil {
		if strings.EqualFold(m[1], "OT") {
			sb.Quarter = 5
		} else {
			sb.Quarter, _ = strconv.Atoi(m[1])
		}
	}
	if m := gameTimeRe.FindStringSubmatch(text); m != nil {
		sb.Clock = m[1]
	}
	if m := downRe.FindStringSubmatch(text); m != nil {
		sb.Down, _ = strconv.Atoi(m[1])
	}
	if m := distanceRe.FindStringSubmatch(text); m != nil {
		sb.Distance, _ = strconv.Atoi(m[1])
	}
	if m := possessionRe.FindStringSubmatch(text); m != nil {
		sb.Possession = strings.ToUpper(m[1])
	}
	return sb
}

// parseAnalysis splits a model response into events. Blocks are separated by
// "---"; each block carries EVENT, DETAILS, and CONFIDENCE lines. Blocks
// below minConfidence are dropped, and a block without an EVENT line is
// ignored entirely.
func parseAnalysis(text, timestamp string, minConfidence float64) []core.AnalysisResult {
	var results []core.AnalysisResult

	for _, block := range strings.Split(text, "---") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		eventMatch := eventRe.FindStringSubmatch(block)
		if eventMatch == nil {
			continue
		}
		event := strings.TrimSpace(eventMatch[1])

		details := "Analysis in progress"
		if m := detailsRe.FindStringSubmatch(block); m != nil {
			details = strings.TrimSpace(m[1])
		}

		confidence := defaultConfidence
		if m := confidenceRe.FindStringSubmatch(block); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				confidence = clampConfidence(v)
			}
		}

		if confidence < minConfidence {
			continue
		}

		results = append(results, core.AnalysisResult{
			Timestamp:  timestamp,
			Event:      event,
			Details:    details,
			Confidence: confidence,
		})
	}

	return results
}

func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
