// Package match manages analysis sessions: one match per run of live
// analysis, with events, highlights, metrics, and simulation snapshots
// persisted through the relational repositories.
package match

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gridscope/gridscope/internal/analytics"
	"github.com/gridscope/gridscope/internal/core"
	"github.com/gridscope/gridscope/pkg/log"
)

type Service struct {
	matches    core.MatchRepository
	events     core.EventRepository
	highlights core.HighlightRepository
	metrics    core.MetricsRepository
	snapshots  core.SnapshotRepository

	classifier analytics.PlayClassifier

	mu             sync.Mutex
	currentMatchID string
}

func NewService(
	matches core.MatchRepository,
	events core.EventRepository,
	highlights core.HighlightRepository,
	metrics core.MetricsRepository,
	snapshots core.SnapshotRepository,
) *Service {
	return &Service{
		matches:    matches,
		events:     events,
		highlights: highlights,
		metrics:    metrics,
		snapshots:  snapshots,
	}
}

// CurrentMatchID returns the active match ID, or "" when none is active.
func (s *Service) CurrentMatchID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentMatchID
}

func (s *Service) setCurrentMatchID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentMatchID = id
}

// CreateMatch starts a new analysis session and its metrics row.
func (s *Service) CreateMatch(ctx context.Context, homeTeam, awayTeam string) (*core.Match, error) {
	m := &core.Match{
		ID:         uuid.NewString(),
		HomeTeam:   homeTeam,
		AwayTeam:   awayTeam,
		Quarter:    1,
		Clock:      "15:00",
		Possession: homeTeam,
		Down:       1,
		Distance:   10,
		Status:     core.MatchActive,
		CreatedAt:  time.Now(),
	}
	if err := s.matches.CreateMatch(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create match: %w", err)
	}
	if err := s.metrics.InitMetrics(ctx, m.ID); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	s.setCurrentMatchID(m.ID)
	log.FromCtx(ctx).Info().Str("match_id", m.ID).Msg("created new match")
	return m, nil
}

func (s *Service) GetMatch(ctx context.Context, id string) (*core.Match, error) {
	return s.matches.GetMatch(ctx, id)
}

// ActiveMatch returns the current active match, falling back to the most
// recently created active match in storage.
func (s *Service) ActiveMatch(ctx context.Context) (*core.Match, error) {
	if id := s.CurrentMatchID(); id != "" {
		m, err := s.matches.GetMatch(ctx, id)
		if err != nil {
			return nil, err
		}
		if m != nil && m.Status == core.MatchActive {
			return m, nil
		}
	}

	m, err := s.matches.GetLatestActiveMatch(ctx)
	if err != nil {
		return nil, err
	}
	if m != nil {
		s.setCurrentMatchID(m.ID)
	}
	return m, nil
}

// ActiveOrNewMatch returns the active match, creating one when none exists.
func (s *Service) ActiveOrNewMatch(ctx context.Context, homeTeam, awayTeam string) (*core.Match, error) {
	m, err := s.ActiveMatch(ctx)
	if err != nil {
		return nil, err
	}
	if m != nil {
		return m, nil
	}
	return s.CreateMatch(ctx, homeTeam, awayTeam)
}

// EndMatch completes a match. History is preserved.
func (s *Service) EndMatch(ctx context.Context, id string) error {
	if err := s.matches.SetMatchStatus(ctx, id, core.MatchCompleted); err != nil {
		return fmt.Errorf("failed to end match: %w", err)
	}
	if s.CurrentMatchID() == id {
		s.setCurrentMatchID("")
	}
	log.FromCtx(ctx).Info().Str("match_id", id).Msg("ended match")
	return nil
}

// RestartMatch ends the current match (if any) and starts a fresh one.
func (s *Service) RestartMatch(ctx context.Context, homeTeam, awayTeam string) (*core.Match, error) {
	oldID := s.CurrentMatchID()
	if oldID != "" {
		if err := s.EndMatch(ctx, oldID); err != nil {
			return nil, err
		}
	}

	m, err := s.CreateMatch(ctx, homeTeam, awayTeam)
	if err != nil {
		return nil, err
	}
	log.FromCtx(ctx).Info().Str("old", oldID).Str("new", m.ID).Msg("restarted match")
	return m, nil
}

// AddAnalysisEvent enriches a detected event with extracted player, team,
// yardage, play type, and formation, persists it, and folds it into the
// match metrics.
func (s *Service) AddAnalysisEvent(ctx context.Context, matchID string, result core.AnalysisResult) (*core.StoredEvent, error) {
	playType := s.classifier.Classify(result.Details)
	yards, _ := s.classifier.ExtractYards(result.Details)

	event := &core.StoredEvent{
		MatchID:     matchID,
		Timestamp:   result.Timestamp,
		EventType:   result.Event,
		Details:     result.Details,
		Confidence:  result.Confidence,
		PlayerName:  ExtractPlayerName(result.Details),
		Team:        ExtractTeam(result.Details + " " + result.Event),
		Yards:       yards,
		PlayType:    playTypeLabel(playType),
		Formation:   ExtractFormation(result.Details),
		IsTurnover:  IsTurnoverText(result.Details, result.Event),
		IsScoring:   IsScoringText(result.Details, result.Event),
		EPAValue:    eventEPA(result.Details, result.Event, yards),
		RawData:     result.RawData,
		CreatedAt:   time.Now(),
	}
	event.IsExplosive = isExplosive(yards, event.PlayType)

	if err := s.events.AddEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to store analysis event: %w", err)
	}

	if err := s.updateMetrics(ctx, matchID, event); err != nil {
		// Metrics are derived aggregates; losing one update is tolerable.
		log.FromCtx(ctx).Error().Err(err).Str("match_id", matchID).Msg("failed to update metrics")
	}

	return event, nil
}

// AddHighlight stores a highlight capture, extracting a player name when the
// caller did not provide one.
func (s *Service) AddHighlight(ctx context.Context, matchID string, h core.Highlight) (*core.Highlight, error) {
	h.ID = uuid.NewString()
	h.MatchID = matchID
	h.CreatedAt = time.Now()
	if h.PlayerName == "" {
		h.PlayerName = ExtractPlayerName(h.Description)
	}

	if err := s.highlights.AddHighlight(ctx, &h); err != nil {
		return nil, fmt.Errorf("failed to store highlight: %w", err)
	}
	return &h, nil
}

func (s *Service) Events(ctx context.Context, matchID string, limit, offset int) ([]core.StoredEvent, error) {
	if limit <= 0 {
		limit = 100
	}
	return s.events.GetEvents(ctx, matchID, limit, offset)
}

func (s *Service) Highlights(ctx context.Context, matchID string) ([]core.Highlight, error) {
	return s.highlights.GetHighlights(ctx, matchID)
}

func (s *Service) Metrics(ctx context.Context, matchID string) (*core.MatchMetrics, error) {
	return s.metrics.GetMetrics(ctx, matchID)
}

func (s *Service) Matches(ctx context.Context, limit int) ([]core.Match, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.matches.ListMatches(ctx, limit)
}

// SaveSnapshot persists a simulation state capture.
func (s *Service) SaveSnapshot(ctx context.Context, snapshot core.Snapshot) (*core.Snapshot, error) {
	snapshot.ID = uuid.NewString()
	snapshot.CreatedAt = time.Now()
	if err := s.snapshots.AddSnapshot(ctx, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to store snapshot: %w", err)
	}
	return &snapshot, nil
}

func (s *Service) Snapshots(ctx context.Context, matchID string, limit int) ([]core.Snapshot, error) {
	if limit <= 0 {
		limit = 500
	}
	return s.snapshots.GetSnapshots(ctx, matchID, limit)
}

// updateMetrics folds one event into the aggregated match metrics.
func (s *Service) updateMetrics(ctx context.Context, matchID string, event *core.StoredEvent) error {
	metrics, err := s.metrics.GetMetrics(ctx, matchID)
	if err != nil {
		return err
	}
	if metrics == nil {
		if err := s.metrics.InitMetrics(ctx, matchID); err != nil {
			return err
		}
		metrics = &core.MatchMetrics{MatchID: matchID, WinProbability: 50.0}
	}

	metrics.TotalEPA += event.EPAValue
	wpaShift := event.EPAValue * 1.5
	metrics.WinProbability = clampF(metrics.WinProbability+wpaShift, 5, 95)

	switch event.PlayType {
	case "pass":
		metrics.PassPlays++
	case "run":
		metrics.RunPlays++
	case "special":
		metrics.SpecialPlays++
	}

	if event.IsExplosive {
		if event.PlayType == "pass" {
			metrics.ExplosivePasses++
		} else {
			metrics.ExplosiveRuns++
		}
	}

	detailsLower := strings.ToLower(event.Details)
	if event.IsTurnover {
		if containsAny(detailsLower, "forced", "recovered") {
			metrics.TurnoversForced++
		} else {
			metrics.TurnoversLost++
		}
	}

	if containsAny(detailsLower, "third down", "3rd down") {
		metrics.ThirdDownAttempts++
		if containsAny(detailsLower, "conversion", "first down") {
			metrics.ThirdDownConversions++
		}
	}

	if containsAny(detailsLower, "red zone", "inside 20") {
		metrics.RedZoneAttempts++
		if event.IsScoring {
			metrics.RedZoneTouchdowns++
		}
	}

	if event.Formation != "" {
		found := false
		for i := range metrics.Formations {
			if metrics.Formations[i].Name == event.Formation {
				metrics.Formations[i].Count++
				found = true
				break
			}
		}
		if !found {
			metrics.Formations = append(metrics.Formations, core.FormationCount{Name: event.Formation, Count: 1})
		}
	}

	return s.metrics.SaveMetrics(ctx, metrics)
}

// playTypeLabel reduces the classifier's taxonomy to the three buckets the
// metrics track.
func playTypeLabel(pt analytics.PlayType) string {
	switch pt {
	case analytics.PlayPass, analytics.PlayInterception:
		return "pass"
	case analytics.PlayRun, analytics.PlayScramble:
		return "run"
	case analytics.PlayFieldGoal, analytics.PlayPunt, analytics.PlayKickoff:
		return "special"
	case analytics.PlayUnknown:
		return ""
	default:
		return strings.ToLower(string(pt))
	}
}

func isExplosive(yards int, playType string) bool {
	switch playType {
	case "run":
		return yards >= 12
	case "pass":
		return yards >= 20
	default:
		return false
	}
}

// eventEPA is the fast heuristic EPA used during live ingestion, when the
// full pre/post situation needed by analytics.EPACalculator is unknown.
func eventEPA(details, eventType string, yards int) float64 {
	detailsLower := strings.ToLower(details)
	eventLower := strings.ToLower(eventType)

	switch {
	case strings.Contains(detailsLower, "touchdown") || strings.Contains(eventLower, "score"):
		if strings.Contains(detailsLower, "pass") {
			return 6.5
		}
		return 6.0
	case strings.Contains(detailsLower, "first down"):
		return 1.5
	case containsAny(detailsLower, "interception", "fumble"):
		if containsAny(detailsLower, "forced", "recovered") {
			return 3.0
		}
		return -4.5
	case strings.Contains(detailsLower, "sack"):
		return -1.5
	case strings.Contains(detailsLower, "incomplete"):
		return -0.5
	case containsAny(detailsLower, "gain", "yard"):
		if yards != 0 {
			return float64(yards-4) * 0.15
		}
	}
	return 0.0
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
