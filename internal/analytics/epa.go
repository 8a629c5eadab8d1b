package analytics

import (
	"math"
	"sort"
)

// EPACalculator estimates Expected Points Added from down, distance, and
// field position using a lookup table with linear interpolation.
type EPACalculator struct{}

// fieldPositionEP maps unified field position (1-99, higher = closer to the
// opponent end zone) to expected points.
var fieldPositionEP = map[int]float64{
	1: -1.5, 5: -1.2, 10: -0.8, 15: -0.5, 20: -0.2,
	25: 0.0, 30: 0.3, 35: 0.6, 40: 0.9, 45: 1.2, 50: 1.5,
	55: 1.8, 60: 2.1, 65: 2.4, 70: 2.8, 75: 3.2,
	80: 3.6, 85: 4.0, 90: 4.5, 95: 5.2, 99: 6.0,
}

var fieldPositionKeys = func() []int {
	keys := make([]int, 0, len(fieldPositionEP))
	for k := range fieldPositionEP {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}()

var downAdjustments = map[int]float64{
	1: 0.0,
	2: -0.3,
	3: -0.8,
	4: -1.5,
}

const distancePenaltyPerYard = 0.05

// Situation describes the ball before or after a play.
type Situation struct {
	Down           int
	Distance       int
	YardLine       int
	IsOwnTerritory bool
}

// ExpectedPoints returns the expected points for a situation.
func (EPACalculator) ExpectedPoints(s Situation) float64 {
	fieldPos := s.YardLine
	if !s.IsOwnTerritory {
		fieldPos = 100 - s.YardLine
	}

	ep := interpolateEP(fieldPos)
	ep += downAdjustments[s.Down]
	if s.Distance > 10 {
		ep -= float64(s.Distance-10) * distancePenaltyPerYard
	}
	return round2(ep)
}

// EPA computes the Expected Points Added of a play from the situations
// before and after it. Touchdowns are worth seven minus the pre-snap
// expectation; turnovers flip the post-snap expectation to the opponent.
func (c EPACalculator) EPA(pre, post Situation, isTurnover, isTouchdown bool) float64 {
	if isTouchdown {
		return round2(7.0 - c.ExpectedPoints(pre))
	}

	preEP := c.ExpectedPoints(pre)

	var postEP float64
	if isTurnover {
		flipped := Situation{
			Down:           1,
			Distance:       10,
			YardLine:       post.YardLine,
			IsOwnTerritory: !post.IsOwnTerritory,
		}
		postEP = -c.ExpectedPoints(flipped)
	} else {
		postEP = c.ExpectedPoints(post)
	}

	return round2(postEP - preEP)
}

func interpolateEP(fieldPos int) float64 {
	if fieldPos < 1 {
		fieldPos = 1
	}
	if fieldPos > 99 {
		fieldPos = 99
	}

	lower, upper := fieldPositionKeys[0], fieldPositionKeys[len(fieldPositionKeys)-1]
	for _, k := range fieldPositionKeys {
		if k <= fieldPos {
			lower = k
		}
		if k >= fieldPos {
			upper = k
			break
		}
	}

	if lower == upper {
		return fieldPositionEP[lower]
	}

	ratio := float64(fieldPos-lower) / float64(upper-lower)
	return fieldPositionEP[lower] + ratio*(fieldPositionEP[upper]-fieldPositionEP[lower])
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
