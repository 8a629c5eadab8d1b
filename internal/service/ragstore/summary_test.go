package ragstore

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSummary_NoGameState(t *testing.T) {
	items := []Item{
		{Timestamp: "10:00", EventType: "touchdown", Importance: ImportanceCritical, Description: "50 yard strike"},
	}

	got := BuildSummary(items, nil)

	assert.NotContains(t, got, "Quarter:")
	assert.Contains(t, got, "Recent Events:")
	assert.Contains(t, got, "[10:00] TOUCHDOWN (critical) - 50 yard strike")
}

func TestBuildSummary_GameStateHeaderWithDefaults(t *testing.T) {
	got := BuildSummary(nil, &GameStateView{ScoreHome: 14, ScoreAway: 7})

	assert.Contains(t, got, "Quarter: 1")
	assert.Contains(t, got, "Clock: 15:00")
	assert.Contains(t, got, "Score: 14 - 7")
	assert.Contains(t, got, "Down/Distance: 1/10")
	assert.Contains(t, got, "Possession: Team")
}

func TestBuildSummary_PlayerAndTeamSubLines(t *testing.T) {
	items := []Item{
		{
			Timestamp:   "08:45",
			EventType:   "interception",
			Importance:  ImportanceCritical,
			Description: "pass picked off over the middle",
			PlayerName:  "T. Smith",
			Team:        "PHI",
		},
	}

	got := BuildSummary(items, nil)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "  Player: T. Smith", lines[2])
	assert.Equal(t, "  Team: PHI", lines[3])
}

func TestStoreSummary_Deterministic(t *testing.T) {
	ctx := context.Background()
	s := New(Config{})
	addEvent(t, s, Event{Type: "touchdown", Description: "goal line plunge", Timestamp: "02:15", Importance: ImportanceCritical, Team: "KC"})
	addEvent(t, s, Event{Type: "pass", Description: "quick out", Timestamp: "03:40"})

	gs := &GameStateView{Quarter: 2, Clock: "02:15", ScoreHome: 10, ScoreAway: 3, Down: 2, Distance: 7, Possession: "KC"}

	first := s.Summary(ctx, gs)
	second := s.Summary(ctx, gs)
	require.Equal(t, first, second)

	assert.Contains(t, first, "Quarter: 2")
	assert.Contains(t, first, "[02:15] TOUCHDOWN (critical) - goal line plunge")
	assert.Contains(t, first, "  Team: KC")
}
