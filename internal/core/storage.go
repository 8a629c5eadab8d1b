package core

import (
	"context"
	"time"
)

type MatchStatus string

const (
	MatchActive    MatchStatus = "active"
	MatchPaused    MatchStatus = "paused"
	MatchCompleted MatchStatus = "completed"
)

// Match is one live analysis session. A new match is created each time the
// user starts analysis.
type Match struct {
	ID         string      `json:"id"`
	HomeTeam   string      `json:"home_team"`
	AwayTeam   string      `json:"away_team"`
	HomeScore  int         `json:"home_score"`
	AwayScore  int         `json:"away_score"`
	Quarter    int         `json:"quarter"`
	Clock      string      `json:"clock"`
	Possession string      `json:"possession"`
	Down       int         `json:"down"`
	Distance   int         `json:"distance"`
	Status     MatchStatus `json:"status"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  *time.Time  `json:"updated_at,omitempty"`
}

// StoredEvent is an analysis event persisted for a match.
type StoredEvent struct {
	ID          int64          `json:"id"`
	MatchID     string         `json:"match_id"`
	Timestamp   string         `json:"timestamp"`
	EventType   string         `json:"event_type"`
	Details     string         `json:"details"`
	Confidence  float64        `json:"confidence"`
	PlayerName  string         `json:"player_name,omitempty"`
	Team        string         `json:"team,omitempty"`
	Yards       int            `json:"yards,omitempty"`
	PlayType    string         `json:"play_type,omitempty"`
	Formation   string         `json:"formation,omitempty"`
	IsExplosive bool           `json:"is_explosive"`
	IsTurnover  bool           `json:"is_turnover"`
	IsScoring   bool           `json:"is_scoring"`
	EPAValue    float64        `json:"epa_value"`
	RawData     map[string]any `json:"raw_data,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Highlight is a captured highlight moment, optionally with frame imagery.
type Highlight struct {
	ID          string    `json:"id"`
	MatchID     string    `json:"match_id"`
	Timestamp   string    `json:"timestamp"`
	EventType   string    `json:"event_type"`
	Description string    `json:"description"`
	Confidence  float64   `json:"confidence"`
	PlayerName  string    `json:"player_name,omitempty"`
	ImageData   string    `json:"image_data,omitempty"` // base64 frame capture
	CreatedAt   time.Time `json:"created_at"`
}

// FormationCount is one entry of the per-match formation histogram.
type FormationCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// MatchMetrics are aggregates maintained incrementally as events arrive.
type MatchMetrics struct {
	MatchID              string           `json:"match_id"`
	TotalEPA             float64          `json:"total_epa"`
	WinProbability       float64          `json:"win_probability"`
	TurnoversForced      int              `json:"turnovers_forced"`
	TurnoversLost        int              `json:"turnovers_lost"`
	RedZoneAttempts      int              `json:"red_zone_attempts"`
	RedZoneTouchdowns    int              `json:"red_zone_touchdowns"`
	ThirdDownAttempts    int              `json:"third_down_attempts"`
	ThirdDownConversions int              `json:"third_down_conversions"`
	ExplosiveRuns        int              `json:"explosive_runs"`
	ExplosivePasses      int              `json:"explosive_passes"`
	PassPlays            int              `json:"pass_plays"`
	RunPlays             int              `json:"run_plays"`
	SpecialPlays         int              `json:"special_plays"`
	Formations           []FormationCount `json:"formations"`
	UpdatedAt            *time.Time       `json:"updated_at,omitempty"`
}

// Position is a 2D field coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Snapshot is a simulation state capture tied to a match.
type Snapshot struct {
	ID           string              `json:"id"`
	MatchID      string              `json:"match_id"`
	Timestamp    string              `json:"timestamp"`
	PlayCycle    int                 `json:"play_cycle"`
	SecRemaining int                 `json:"sim_seconds_remaining"`
	Quarter      int                 `json:"quarter"`
	Clock        string              `json:"clock"`
	Score        Score               `json:"score"`
	Down         int                 `json:"down"`
	Distance     int                 `json:"distance"`
	Possession   string              `json:"possession"`
	Ball         Position            `json:"ball_position"`
	Players      map[string]Position `json:"player_positions,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

type MatchRepository interface {
	CreateMatch(ctx context.Context, match *Match) error
	GetMatch(ctx context.Context, id string) (*Match, error)
	GetLatestActiveMatch(ctx context.Context) (*Match, error)
	UpdateMatchState(ctx context.Context, match *Match) error
	SetMatchStatus(ctx context.Context, id string, status MatchStatus) error
	ListMatches(ctx context.Context, limit int) ([]Match, error)
}

type EventRepository interface {
	AddEvent(ctx context.Context, event *StoredEvent) error
	GetEvents(ctx context.Context, matchID string, limit, offset int) ([]StoredEvent, error)
}

type HighlightRepository interface {
	AddHighlight(ctx context.Context, h *Highlight) error
	GetHighlights(ctx context.Context, matchID string) ([]Highlight, error)
}

type MetricsRepository interface {
	InitMetrics(ctx context.Context, matchID string) error
	GetMetrics(ctx context.Context, matchID string) (*MatchMetrics, error)
	SaveMetrics(ctx context.Context, metrics *MatchMetrics) error
}

type SnapshotRepository interface {
	AddSnapshot(ctx context.Context, s *Snapshot) error
	GetSnapshots(ctx context.Context, matchID string, limit int) ([]Snapshot, error)
}
