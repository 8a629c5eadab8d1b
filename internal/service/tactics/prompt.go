package tactics

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gridscope/gridscope/internal/core"
)

func half(quarter int) string {
	if quarter > 2 {
		return "Second"
	}
	return "First"
}

func buildHalftimePrompt(gs core.GameState, possessionTeam, defenseTeam, contextSummary string) string {
	var b strings.Builder

	b.WriteString(`You are an elite NFL offensive and defensive coordinator with Super Bowl experience.
Analyze the first half and generate comprehensive halftime adjustments and tactics.

FIRST HALF SUMMARY:
`)
	b.WriteString(contextSummary)

	fmt.Fprintf(&b, `

GAME STATE:
- Quarter: %d
- Half: %s
- Current Score: %d - %d
- Possession: %s
- Down & Distance: %d & %d
- Clock: %s

TEAMS:
- Offensive Team: %s
- Defensive Team: %s
`, gs.Quarter, half(gs.Quarter), gs.Score.Home, gs.Score.Away, possessionTeam,
		gs.Down, gs.Distance, gs.Clock, possessionTeam, defenseTeam)

	fmt.Fprintf(&b, `
ANALYZE AND PROVIDE:

1. OFFENSIVE STRATEGY (for %s): weaknesses exploited so far, expected
   defensive adjustments, key formations and play calling priorities.
2. DEFENSIVE STRATEGY (for %s): the opponent's success patterns, coverage
   adjustments, key personnel assignments.
3. PERSONNEL ADJUSTMENTS: which players to feature more or less.
4. TACTICAL PLAYBOOK: 5-7 specific plays with expected success rates and
   situational uses.
5. COUNTER STRATEGIES: expected opponent adjustments and how to answer them.
6. PROBABILITY ANALYSIS: estimated win probability with these tactics.

Format your response as valid JSON with this structure:
{
  "title": "Second Half Tactical Game Plan",
  "summary": "Brief overview of strategy",
  "offensive_strategy": "Detailed offensive approach",
  "defensive_strategy": "Detailed defensive approach",
  "key_formations": [
    {"name": "formation name", "when_to_use": "situation", "success_rate": 0.65}
  ],
  "personnel_adjustments": [
    {"player": "name", "action": "feature more/less/rotate", "reason": "why"}
  ],
  "play_calling_priorities": ["priority 1", "priority 2", "priority 3"],
  "counter_measures": ["counter 1", "counter 2"],
  "probability_of_success": 0.72,
  "confidence": 0.85,
  "reasoning": "detailed analysis",
  "simulation_playbook": [
    {"play_number": 1, "play_type": "pass", "formation": "11 personnel", "key_personnel": ["QB", "WR", "TE"], "expected_yards": 8, "success_probability": 0.68}
  ]
}`, possessionTeam, defenseTeam)

	return b.String()
}

func buildNextPlayPrompt(gs core.GameState, recentPlays []core.StoredEvent, possessionTeam string) string {
	type recentPlay struct {
		Timestamp string `json:"timestamp"`
		EventType string `json:"event_type"`
		Details   string `json:"details"`
		Yards     int    `json:"yards,omitempty"`
	}

	plays := make([]recentPlay, 0, len(recentPlays))
	for _, p := range recentPlays {
		plays = append(plays, recentPlay{
			Timestamp: p.Timestamp,
			EventType: p.EventType,
			Details:   p.Details,
			Yards:     p.Yards,
		})
	}
	playsJSON, _ := json.MarshalIndent(plays, "", "  ")

	return fmt.Sprintf(`Analyze this football situation and suggest the optimal next play:

GAME STATE:
- Quarter: %d
- Time: %s
- Down: %d
- Distance: %d yards
- Possession: %s
- Score: %d - %d

RECENT PLAYS:
%s

ANALYZE AND RECOMMEND:
1. Optimal play type (Pass/Run/Screen/Trick)
2. Formation to use
3. Key personnel
4. Expected success probability
5. Alternative options

Format as JSON with fields: play_type, formation, key_personnel, success_probability, reasoning`,
		gs.Quarter, gs.Clock, gs.Down, gs.Distance, possessionTeam,
		gs.Score.Home, gs.Score.Away, playsJSON)
}
