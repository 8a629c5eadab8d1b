package analytics

import (
	"regexp"
	"strconv"
	"strings"
)

// PlayType categorizes a football play.
type PlayType string

const (
	PlayPass         PlayType = "Pass"
	PlayRun          PlayType = "Run"
	PlaySack         PlayType = "Sack"
	PlayScramble     PlayType = "Scramble"
	PlayInterception PlayType = "Interception"
	PlayFumble       PlayType = "Fumble"
	PlayTouchdown    PlayType = "Touchdown"
	PlayFieldGoal    PlayType = "Field Goal"
	PlayPunt         PlayType = "Punt"
	PlayKickoff      PlayType = "Kickoff"
	PlayPenalty      PlayType = "Penalty"
	PlayTimeout      PlayType = "Timeout"
	PlayTwoPoint     PlayType = "Two Point Conversion"
	PlayUnknown      PlayType = "Unknown"
)

var playKeywords = map[PlayType][]string{
	PlayPass:         {"pass", "throw", "completion", "incomplete", "caught", "reception", "target", "air yards", "deep ball"},
	PlayRun:          {"run", "rush", "carry", "hand-off", "handoff", "ground", "up the middle", "off tackle", "outside run"},
	PlaySack:         {"sack", "tackled behind", "quarterback down"},
	PlayScramble:     {"scramble", "qb run", "quarterback runs"},
	PlayInterception: {"interception", "intercepted", "pick", "int"},
	PlayFumble:       {"fumble", "fumbled", "lost ball", "turnover"},
	PlayTouchdown:    {"touchdown", "td", "score", "end zone"},
	PlayFieldGoal:    {"field goal", "fg", "kick", "kicker"},
	PlayPunt:         {"punt", "punter", "kick away"},
	PlayKickoff:      {"kickoff", "kick off", "opening kick"},
	PlayPenalty:      {"penalty", "flag", "foul", "holding", "offside"},
	PlayTimeout:      {"timeout", "time out"},
	PlayTwoPoint:     {"two point", "two-point", "2pt", "conversion"},
}

// classifyPriority resolves multi-keyword descriptions: turnovers beat
// scores beat regular plays.
var classifyPriority = []PlayType{
	PlayTouchdown,
	PlayInterception,
	PlayFumble,
	PlaySack,
	PlayFieldGoal,
	PlayPass,
	PlayRun,
	PlayScramble,
	PlayPunt,
	PlayKickoff,
	PlayPenalty,
	PlayTwoPoint,
	PlayTimeout,
}

// PlayClassifier classifies plays from free-text descriptions. It is a
// deliberately simple keyword matcher; callers treat it as a pluggable text
// classifier, not an NLP contract.
type PlayClassifier struct{}

func (PlayClassifier) Classify(description string) PlayType {
	if description == "" {
		return PlayUnknown
	}

	descLower := strings.ToLower(description)

	matched := make(map[PlayType]bool)
	for playType, keywords := range playKeywords {
		for _, kw := range keywords {
			if strings.Contains(descLower, kw) {
				matched[playType] = true
				break
			}
		}
	}

	for _, pt := range classifyPriority {
		if matched[pt] {
			return pt
		}
	}
	return PlayUnknown
}

var yardPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\s*yard`),
	regexp.MustCompile(`gain of (\d+)`),
	regexp.MustCompile(`loss of (\d+)`),
	regexp.MustCompile(`for (\d+)`),
}

// ExtractYards pulls a yardage figure out of a description. Losses come back
// negative. Returns ok=false when no yardage is mentioned.
func (PlayClassifier) ExtractYards(description string) (int, bool) {
	descLower := strings.ToLower(description)
	for _, re := range yardPatterns {
		if m := re.FindStringSubmatch(descLower); m != nil {
			yards, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}
			if strings.Contains(descLower, "loss") {
				yards = -yards
			}
			return yards, true
		}
	}
	return 0, false
}

// IsTurnover reports whether the play type changes possession.
func (PlayClassifier) IsTurnover(pt PlayType) bool {
	return pt == PlayInterception || pt == PlayFumble
}

// IsScoring reports whether the play type puts points on the board.
func (PlayClassifier) IsScoring(pt PlayType) bool {
	return pt == PlayTouchdown || pt == PlayFieldGoal || pt == PlayTwoPoint
}
