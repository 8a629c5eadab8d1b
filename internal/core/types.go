package core

const (
	GridName          = "GridScope"
	GridUserAgent     = "GridScope-Backend/0.2"
	GridRepositoryURL = "https://github.com/gridscope/gridscope"
	GridVersion       = "0.2.0"
)

// Score is the current scoreboard.
type Score struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// GameState is the live state of the game as assembled from video analysis.
// Clock is an in-game countdown in "MM:SS" form, not wall-clock time.
type GameState struct {
	Clock             string  `json:"clock"`
	Quarter           int     `json:"quarter"`
	Score             Score   `json:"score"`
	Down              int     `json:"down"`
	Distance          int     `json:"distance"`
	Possession        string  `json:"possession"`
	HomeTeam          string  `json:"homeTeam"`
	AwayTeam          string  `json:"awayTeam"`
	LastPlay          string  `json:"lastPlay"`
	WinProb           float64 `json:"winProb"`
	OffensiveEPA      float64 `json:"offensiveEpa"`
	DefensiveStopRate float64 `json:"defensiveStopRate"`
}

// NewGameState returns the kickoff state for a fresh match.
func NewGameState(homeTeam, awayTeam string) GameState {
	return GameState{
		Clock:             "15:00",
		Quarter:           1,
		Score:             Score{},
		Down:              1,
		Distance:          10,
		Possession:        homeTeam,
		HomeTeam:          homeTeam,
		AwayTeam:          awayTeam,
		LastPlay:          "Ready for kickoff.",
		WinProb:           50.0,
		OffensiveEPA:      0.0,
		DefensiveStopRate: 50.0,
	}
}

// AnalysisResult is a single event detected in a video frame.
type AnalysisResult struct {
	Timestamp   string         `json:"timestamp"`
	Event       string         `json:"event"`
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
}
