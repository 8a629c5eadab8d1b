// Package ragstore maintains a bounded, ranked collection of live match
// events used to ground LLM prompts. Items are scored by recency, lexical
// relevance, and importance; the store compresses itself by evicting
// low-ranked items once it grows past a threshold.
//
// The store performs no I/O and is not guarded internally. Callers running
// ingestion and retrieval on separate goroutines must serialize access;
// rescoring during retrieval is idempotent, so a single-writer discipline
// with eventually-consistent readers is sufficient.
package ragstore

import (
	"fmt"
	"strings"
)

// Importance classifies how much an event matters for retrieval.
type Importance string

const (
	ImportanceCritical Importance = "critical" // turnovers, scoring plays, key stops
	ImportanceHigh     Importance = "high"     // explosive plays, formation changes
	ImportanceMedium   Importance = "medium"   // regular plays
	ImportanceLow      Importance = "low"      // routine events
)

// importanceRank defines the total order CRITICAL > HIGH > MEDIUM > LOW used
// by minimum-importance filtering. The order is explicit; comparing the
// string values would be meaningless.
var importanceRank = map[Importance]int{
	ImportanceCritical: 3,
	ImportanceHigh:     2,
	ImportanceMedium:   1,
	ImportanceLow:      0,
}

// importanceWeight is the multiplicative rank weight per level.
var importanceWeight = map[Importance]float64{
	ImportanceCritical: 1.0,
	ImportanceHigh:     0.8,
	ImportanceMedium:   0.6,
	ImportanceLow:      0.4,
}

// Valid reports whether the level is one of the four defined values.
func (i Importance) Valid() bool {
	_, ok := importanceRank[i]
	return ok
}

// Weight returns the rank multiplier for the level, in [0.4, 1.0].
func (i Importance) Weight() float64 {
	return importanceWeight[i]
}

// AtLeast reports whether the level is at least as important as min.
func (i Importance) AtLeast(min Importance) bool {
	return importanceRank[i] >= importanceRank[min]
}

// ParseImportance validates a raw importance string.
func ParseImportance(s string) (Importance, error) {
	imp := Importance(s)
	if !imp.Valid() {
		return "", fmt.Errorf("unknown importance level %q", s)
	}
	return imp, nil
}

// eventImportance maps event-type keywords to importance, first match wins.
var eventImportance = []struct {
	keyword string
	level   Importance
}{
	{"turnover", ImportanceCritical},
	{"interception", ImportanceCritical},
	{"fumble", ImportanceCritical},
	{"sack", ImportanceCritical},
	{"scoring", ImportanceCritical},
	{"touchdown", ImportanceCritical},
	{"field_goal", ImportanceCritical},
	{"formation_change", ImportanceHigh},
	{"explosive_play", ImportanceHigh},
	{"pass", ImportanceMedium},
	{"run", ImportanceMedium},
	{"tackle", ImportanceLow},
}

// ImportanceForEvent derives the importance level for a detected event type.
// Unrecognized types are medium.
func ImportanceForEvent(eventType string) Importance {
	lower := strings.ToLower(eventType)
	for _, e := range eventImportance {
		if strings.Contains(lower, e.keyword) {
			return e.level
		}
	}
	return ImportanceMedium
}

// Item is a single scored match event held by the store.
//
// Importance is immutable after creation. RecencyScore and RelevanceScore
// are derived values recomputed on every retrieval; they are never
// authoritative and are not meaningful across compression passes.
type Item struct {
	ID          string         `json:"id"`
	Timestamp   string         `json:"timestamp"` // game clock, "MM:SS"
	EventType   string         `json:"event_type"`
	Description string         `json:"description"`
	Importance  Importance     `json:"importance"`
	Team        string         `json:"team,omitempty"`
	PlayerName  string         `json:"player_name,omitempty"`
	Details     map[string]any `json:"details,omitempty"`

	RecencyScore   float64 `json:"recency_score"`
	RelevanceScore float64 `json:"relevance_score"`
}

// RankScore combines the current scores into the retrieval ordering metric.
// It is a pure function of the two score fields and the importance weight.
func (it *Item) RankScore() float64 {
	return (it.RecencyScore + it.RelevanceScore) / 2 * it.Importance.Weight()
}
