// Package tactics generates halftime game plans and next-play suggestions
// from the accumulated first-half context. It keeps its own event store so
// a wiped research context does not erase the tactical record.
package tactics

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/gridscope/gridscope/internal/core"
	"github.com/gridscope/gridscope/internal/service/ragstore"
	"github.com/gridscope/gridscope/pkg/log"
)

// Formation is one recommended formation with its situational use.
type Formation struct {
	Name        string  `json:"name"`
	WhenToUse   string  `json:"when_to_use"`
	SuccessRate float64 `json:"success_rate"`
}

// PersonnelAdjustment is a player usage change for the second half.
type PersonnelAdjustment struct {
	Player string `json:"player"`
	Action string `json:"action"`
	Reason string `json:"reason"`
}

// PlaybookEntry is one scripted play for the simulation playbook.
type PlaybookEntry struct {
	PlayNumber         int      `json:"play_number"`
	PlayType           string   `json:"play_type"`
	Formation          string   `json:"formation"`
	KeyPersonnel       []string `json:"key_personnel"`
	ExpectedYards      float64  `json:"expected_yards"`
	SuccessProbability float64  `json:"success_probability"`
}

// HalftimeTactics is the full structured game plan.
type HalftimeTactics struct {
	Title                 string                `json:"title"`
	Summary               string                `json:"summary"`
	OffensiveStrategy     string                `json:"offensive_strategy"`
	DefensiveStrategy     string                `json:"defensive_strategy"`
	KeyFormations         []Formation           `json:"key_formations"`
	PersonnelAdjustments  []PersonnelAdjustment `json:"personnel_adjustments"`
	PlayCallingPriorities []string              `json:"play_calling_priorities"`
	CounterMeasures       []string              `json:"counter_measures"`
	ProbabilityOfSuccess  float64               `json:"probability_of_success"`
	Confidence            float64               `json:"confidence"`
	Reasoning             string                `json:"reasoning"`
	SimulationPlaybook    []PlaybookEntry       `json:"simulation_playbook"`
}

// PlaySuggestion is the recommended next play. Raw carries the model text
// when it did not produce parseable JSON.
type PlaySuggestion struct {
	PlayType           string   `json:"play_type"`
	Formation          string   `json:"formation"`
	KeyPersonnel       []string `json:"key_personnel"`
	SuccessProbability float64  `json:"success_probability"`
	Reasoning          string   `json:"reasoning"`
	Raw                string   `json:"raw,omitempty"`
}

// Service drives the deep-think tactical analysis.
type Service struct {
	mu       sync.Mutex
	store    *ragstore.Store
	provider core.AIProvider
}

func NewService(provider core.AIProvider, storeCfg ragstore.Config) *Service {
	return &Service{
		store:    ragstore.New(storeCfg),
		provider: provider,
	}
}

// AddGameEvent records an event for later tactical analysis.
func (s *Service) AddGameEvent(ctx context.Context, event core.StoredEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.store.AddEvent(ctx, ragstore.Event{
		Type:        event.EventType,
		Description: event.Details,
		Timestamp:   event.Timestamp,
		Importance:  ragstore.ImportanceForEvent(event.EventType),
		Team:        event.Team,
		PlayerName:  event.PlayerName,
	})
	return err
}

// GenerateHalftimeTactics builds a second-half game plan for the possession
// team against the defense team.
func (s *Service) GenerateHalftimeTactics(ctx context.Context, gs core.GameState, possessionTeam, defenseTeam string) (*HalftimeTactics, error) {
	s.mu.Lock()
	summary := s.store.Summary(ctx, &ragstore.GameStateView{
		Quarter:    gs.Quarter,
		Clock:      gs.Clock,
		ScoreHome:  gs.Score.Home,
		ScoreAway:  gs.Score.Away,
		Down:       gs.Down,
		Distance:   gs.Distance,
		Possession: gs.Possession,
	})
	s.mu.Unlock()

	prompt := buildHalftimePrompt(gs, possessionTeam, defenseTeam, summary)

	response, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("halftime tactics generation failed: %w", err)
	}

	tactics, err := parseHalftimeTactics(response)
	if err != nil {
		return nil, err
	}

	log.FromCtx(ctx).Info().
		Float64("win_probability", tactics.ProbabilityOfSuccess).
		Int("playbook_size", len(tactics.SimulationPlaybook)).
		Msg("generated halftime tactics")
	return tactics, nil
}

// NextPlaySuggestion recommends the next play from the current situation and
// the most recent plays.
func (s *Service) NextPlaySuggestion(ctx context.Context, gs core.GameState, recentPlays []core.StoredEvent, possessionTeam string) (*PlaySuggestion, error) {
	prompt := buildNextPlayPrompt(gs, recentPlays, possessionTeam)

	response, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("play suggestion failed: %w", err)
	}

	var suggestion PlaySuggestion
	if raw, ok := extractJSON(response); ok {
		if err := json.Unmarshal([]byte(raw), &suggestion); err == nil {
			return &suggestion, nil
		}
	}
	return &PlaySuggestion{Raw: strings.TrimSpace(response)}, nil
}

// ResetContext drops the accumulated events for a new match.
func (s *Service) ResetContext(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Clear(ctx)
}

// parseHalftimeTactics pulls the JSON object out of a model response, which
// often wraps it in prose or a code fence.
func parseHalftimeTactics(response string) (*HalftimeTactics, error) {
	raw, ok := extractJSON(response)
	if !ok {
		return nil, fmt.Errorf("no JSON object in tactics response")
	}

	tactics := &HalftimeTactics{
		Title:                "Second Half Strategy",
		ProbabilityOfSuccess: 0.5,
		Confidence:           0.7,
	}
	if err := json.Unmarshal([]byte(raw), tactics); err != nil {
		return nil, fmt.Errorf("failed to parse tactics JSON: %w", err)
	}
	return tactics, nil
}

// extractJSON returns the outermost {...} span of the text.
func extractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
