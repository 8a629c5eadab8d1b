// Package gameclock parses in-game countdown clocks in "MM:SS" form.
// Game clocks are distinct from wall-clock time: they count down within a
// 15-minute quarter and arrive as free text from vision analysis, so parsing
// must tolerate garbage.
package gameclock

import (
	"fmt"
	"strconv"
	"strings"
)

// SecondsPerQuarter is the regulation length of a single quarter.
const SecondsPerQuarter = 15 * 60

// Parse converts a "MM:SS" clock string into total seconds.
// A bare "MM" is accepted with seconds defaulting to zero.
func Parse(clock string) (int, error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) == 0 || parts[0] == "" {
		return 0, fmt.Errorf("empty clock value %q", clock)
	}

	minutes, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, fmt.Errorf("invalid minutes in %q: %w", clock, err)
	}

	seconds := 0
	if len(parts) > 1 {
		seconds, err = strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return 0, fmt.Errorf("invalid seconds in %q: %w", clock, err)
		}
	}

	if minutes < 0 || seconds < 0 {
		return 0, fmt.Errorf("negative clock value %q", clock)
	}

	return minutes*60 + seconds, nil
}

// Format renders total seconds back into "MM:SS".
func Format(totalSeconds int) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}

// GameSecondsRemaining returns the seconds left in regulation given a quarter
// clock and the current quarter (1-4).
func GameSecondsRemaining(clock string, quarter int) int {
	quarterSeconds, err := Parse(clock)
	if err != nil {
		quarterSeconds = SecondsPerQuarter
	}
	remaining := 4 - quarter
	if remaining < 0 {
		remaining = 0
	}
	return quarterSeconds + remaining*SecondsPerQuarter
}
