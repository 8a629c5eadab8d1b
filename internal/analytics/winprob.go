// Package analytics holds the pure game-analytics models: win probability,
// expected points, and play classification. Everything here is CPU-only and
// deterministic.
package analytics

import (
	"math"

	"github.com/gridscope/gridscope/internal/core"
	"github.com/gridscope/gridscope/pkg/gameclock"
)

// WinProbability is a simplified logistic model over score differential,
// time remaining, possession, and field position.
type WinProbability struct{}

// Model coefficients.
const (
	wpScoreDiffCoef  = 0.15   // per point of differential
	wpTimeCoef       = -0.001 // per second remaining, scaled by |differential|
	wpPossessionCoef = 0.1
	wpFieldPosCoef   = 0.01 // per yard past midfield
	wpCrunchTime     = 300  // last five minutes sharpen the score term
)

type WinProbInput struct {
	ScoreDiff        int // positive = leading
	SecondsRemaining int
	HasPossession    bool
	YardLine         int
	IsOwnTerritory   bool
}

// Calculate returns the win probability in [0,1] for the team described by
// the input.
func (WinProbability) Calculate(in WinProbInput) float64 {
	if in.YardLine == 0 {
		in.YardLine = 50
	}

	fieldPos := in.YardLine
	if !in.IsOwnTerritory {
		fieldPos = 100 - in.YardLine
	}

	logit := wpScoreDiffCoef * float64(in.ScoreDiff)
	logit += wpTimeCoef * float64(in.SecondsRemaining) * math.Abs(float64(in.ScoreDiff))
	if in.HasPossession {
		logit += wpPossessionCoef
	} else {
		logit -= wpPossessionCoef
	}
	logit += wpFieldPosCoef * float64(fieldPos-50)

	if in.SecondsRemaining < wpCrunchTime {
		logit += wpScoreDiffCoef * float64(in.ScoreDiff) * 0.5
	}

	prob := 1.0 / (1.0 + math.Exp(-logit))
	return math.Round(prob*10000) / 10000
}

// FromGameState computes the possession team's win probability as a
// percentage from the live game state.
func (w WinProbability) FromGameState(gs core.GameState) float64 {
	totalSeconds := gameclock.GameSecondsRemaining(gs.Clock, gs.Quarter)

	scoreDiff := gs.Score.Home - gs.Score.Away
	if gs.Possession != gs.HomeTeam {
		scoreDiff = -scoreDiff
	}

	prob := w.Calculate(WinProbInput{
		ScoreDiff:        scoreDiff,
		SecondsRemaining: totalSeconds,
		HasPossession:    true,
		IsOwnTerritory:   true,
	})
	return math.Round(prob*1000) / 10
}
