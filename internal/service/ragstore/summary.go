package ragstore

import (
	"fmt"
	"strings"
)

// GameStateView is the slice of game state the summary header needs. All
// fields are optional; zero values render as the kickoff defaults.
type GameStateView struct {
	Quarter    int
	Clock      string
	ScoreHome  int
	ScoreAway  int
	Down       int
	Distance   int
	Possession string
}

func (v *GameStateView) withDefaults() GameStateView {
	out := *v
	if out.Quarter == 0 {
		out.Quarter = 1
	}
	if out.Clock == "" {
		out.Clock = "15:00"
	}
	if out.Down == 0 {
		out.Down = 1
	}
	if out.Distance == 0 {
		out.Distance = 10
	}
	if out.Possession == "" {
		out.Possession = "Team"
	}
	return out
}

// BuildSummary renders ranked items plus an optional game-state header into
// a single text block for the prompt layer. Pure rendering: deterministic
// for the same inputs, no external calls.
func BuildSummary(items []Item, gameState *GameStateView) string {
	var b strings.Builder

	if gameState != nil {
		gs := gameState.withDefaults()
		fmt.Fprintf(&b, "Quarter: %d\n", gs.Quarter)
		fmt.Fprintf(&b, "Clock: %s\n", gs.Clock)
		fmt.Fprintf(&b, "Score: %d - %d\n", gs.ScoreHome, gs.ScoreAway)
		fmt.Fprintf(&b, "Down/Distance: %d/%d\n", gs.Down, gs.Distance)
		fmt.Fprintf(&b, "Possession: %s\n", gs.Possession)
		b.WriteString("\n")
	}

	b.WriteString("Recent Events:")
	for _, item := range items {
		fmt.Fprintf(&b, "\n[%s] %s (%s) - %s",
			item.Timestamp,
			strings.ToUpper(item.EventType),
			item.Importance,
			item.Description,
		)
		if item.PlayerName != "" {
			fmt.Fprintf(&b, "\n  Player: %s", item.PlayerName)
		}
		if item.Team != "" {
			fmt.Fprintf(&b, "\n  Team: %s", item.Team)
		}
	}

	return b.String()
}
