package analytics

import (
	"testing"

	"github.com/gridscope/gridscope/internal/core"
)

func TestWinProbability_Calculate(t *testing.T) {
	var wp WinProbability

	tests := []struct {
		name  string
		in    WinProbInput
		check func(t *testing.T, prob float64)
	}{
		{
			name: "tied_game_with_possession",
			in:   WinProbInput{ScoreDiff: 0, SecondsRemaining: 3600, HasPossession: true, YardLine: 50, IsOwnTerritory: true},
			check: func(t *testing.T, prob float64) {
				if prob <= 0.5 {
					t.Errorf("possession should nudge above 0.5, got %v", prob)
				}
			},
		},
		{
			name: "big_lead_late",
			in:   WinProbInput{ScoreDiff: 21, SecondsRemaining: 120, HasPossession: true, YardLine: 50, IsOwnTerritory: true},
			check: func(t *testing.T, prob float64) {
				if prob < 0.9 {
					t.Errorf("three score lead late should be near-certain, got %v", prob)
				}
			},
		},
		{
			name: "big_deficit_late",
			in:   WinProbInput{ScoreDiff: -21, SecondsRemaining: 120, HasPossession: true, YardLine: 50, IsOwnTerritory: true},
			check: func(t *testing.T, prob float64) {
				if prob > 0.1 {
					t.Errorf("three score deficit late should be near-zero, got %v", prob)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prob := wp.Calculate(tt.in)
			if prob < 0 || prob > 1 {
				t.Fatalf("probability out of range: %v", prob)
			}
			tt.check(t, prob)
		})
	}
}

func TestWinProbability_FromGameState(t *testing.T) {
	var wp WinProbability

	gs := core.NewGameState("KC", "PHI")
	gs.Score = core.Score{Home: 14, Away: 7}
	gs.Quarter = 4
	gs.Clock = "02:00"
	gs.Possession = "KC"

	leading := wp.FromGameState(gs)
	if leading <= 50 {
		t.Errorf("leading possession team should be above 50%%, got %v", leading)
	}

	gs.Possession = "PHI"
	trailing := wp.FromGameState(gs)
	if trailing >= 50 {
		t.Errorf("trailing possession team should be below 50%%, got %v", trailing)
	}
}

func TestEPACalculator_ExpectedPoints(t *testing.T) {
	var epa EPACalculator

	midfield := epa.ExpectedPoints(Situation{Down: 1, Distance: 10, YardLine: 50, IsOwnTerritory: true})
	if midfield != 1.5 {
		t.Errorf("first and ten at midfield = %v, want 1.5", midfield)
	}

	// Third down is worth less than first from the same spot.
	third := epa.ExpectedPoints(Situation{Down: 3, Distance: 10, YardLine: 50, IsOwnTerritory: true})
	if third >= midfield {
		t.Errorf("third down EP %v should be below first down EP %v", third, midfield)
	}

	// Long distance carries a penalty.
	longYardage := epa.ExpectedPoints(Situation{Down: 1, Distance: 20, YardLine: 50, IsOwnTerritory: true})
	if longYardage != 1.0 {
		t.Errorf("first and twenty = %v, want 1.0", longYardage)
	}

	// Interpolation between table rows.
	interp := epa.ExpectedPoints(Situation{Down: 1, Distance: 10, YardLine: 47, IsOwnTerritory: true})
	if interp <= 1.2 || interp >= 1.5 {
		t.Errorf("yard line 47 should interpolate between 1.2 and 1.5, got %v", interp)
	}
}

func TestEPACalculator_EPA(t *testing.T) {
	var epa EPACalculator

	pre := Situation{Down: 1, Distance: 10, YardLine: 25, IsOwnTerritory: true}

	td := epa.EPA(pre, Situation{}, false, true)
	if td != 7.0 {
		t.Errorf("touchdown from own 25 = %v, want 7.0", td)
	}

	// A gain to midfield is positive.
	gain := epa.EPA(pre, Situation{Down: 1, Distance: 10, YardLine: 50, IsOwnTerritory: true}, false, false)
	if gain <= 0 {
		t.Errorf("first down gain should add points, got %v", gain)
	}

	// A turnover at midfield is strongly negative.
	turnover := epa.EPA(pre, Situation{Down: 1, Distance: 10, YardLine: 50, IsOwnTerritory: false}, true, false)
	if turnover >= 0 {
		t.Errorf("turnover should cost points, got %v", turnover)
	}
}

func TestPlayClassifier_Classify(t *testing.T) {
	var pc PlayClassifier

	tests := []struct {
		description string
		want        PlayType
	}{
		{"Mahomes completes a pass over the middle", PlayPass},
		{"Pacheco carries up the middle for six", PlayRun},
		{"quarterback sacked for a loss of 8", PlaySack},
		{"pass intercepted at the goal line", PlayInterception},
		{"ball fumbled and recovered", PlayFumble},
		{"touchdown pass to the corner of the end zone", PlayTouchdown},
		{"48 yard field goal is good", PlayFieldGoal},
		{"punt downed at the 12", PlayPunt},
		{"flag on the play, holding", PlayPenalty},
		{"", PlayUnknown},
		{"players walk to the line", PlayUnknown},
	}

	for _, tt := range tests {
		t.Run(string(tt.want), func(t *testing.T) {
			if got := pc.Classify(tt.description); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.description, got, tt.want)
			}
		})
	}
}

func TestPlayClassifier_PriorityOrder(t *testing.T) {
	var pc PlayClassifier

	// "touchdown" and "pass" both match: the score wins.
	if got := pc.Classify("touchdown pass deep left"); got != PlayTouchdown {
		t.Errorf("want Touchdown over Pass, got %v", got)
	}
	// "intercepted" and "pass" both match: the turnover wins.
	if got := pc.Classify("pass intercepted over the middle"); got != PlayInterception {
		t.Errorf("want Interception over Pass, got %v", got)
	}
}

func TestPlayClassifier_ExtractYards(t *testing.T) {
	var pc PlayClassifier

	yards, ok := pc.ExtractYards("carries for a 12 yard gain")
	if !ok || yards != 12 {
		t.Errorf("got %d/%v, want 12/true", yards, ok)
	}

	yards, ok = pc.ExtractYards("sacked for a loss of 7 yards")
	if !ok || yards != -7 {
		t.Errorf("got %d/%v, want -7/true", yards, ok)
	}

	if _, ok = pc.ExtractYards("incomplete pass"); ok {
		t.Error("expected no yardage in an incompletion")
	}
}

func TestPlayClassifier_Predicates(t *testing.T) {
	var pc PlayClassifier

	if !pc.IsTurnover(PlayInterception) || !pc.IsTurnover(PlayFumble) {
		t.Error("interceptions and fumbles are turnovers")
	}
	if pc.IsTurnover(PlayPass) {
		t.Error("a pass is not a turnover")
	}
	if !pc.IsScoring(PlayTouchdown) || !pc.IsScoring(PlayFieldGoal) {
		t.Error("touchdowns and field goals are scoring plays")
	}
	if pc.IsScoring(PlayPunt) {
		t.Error("a punt is not a scoring play")
	}
}
