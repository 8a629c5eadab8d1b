// Package research answers tactical questions about the live match. It owns
// the ranked context store, grounds every prompt in retrieved events, and
// keeps a short rolling conversation with the language model.
package research

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/pkoukk/tiktoken-go"

	"github.com/gridscope/gridscope/internal/core"
	"github.com/gridscope/gridscope/internal/service/ragstore"
	"github.com/gridscope/gridscope/pkg/log"
)

const (
	maxHistoryEntries = 10

	// contextTokenBudget caps the retrieved-context portion of a prompt so
	// long games cannot push the question itself out of the model window.
	contextTokenBudget = 4000

	retrievalTopK       = 15
	recommendationsTopK = 20
)

var (
	tk     *tiktoken.Tiktoken
	tkOnce sync.Once
)

func getTokenizer() *tiktoken.Tiktoken {
	tkOnce.Do(func() {
		var err error
		tk, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			panic("failed to load tiktoken: " + err.Error())
		}
	})
	return tk
}

// truncateToTokens cuts text to at most max tokens. A token encodes at
// least one byte, so short texts skip the tokenizer entirely.
func truncateToTokens(text string, max int) string {
	if len(text) <= max {
		return text
	}
	tokens := getTokenizer().Encode(text, nil, nil)
	if len(tokens) <= max {
		return text
	}
	return getTokenizer().Decode(tokens[:max])
}

type Exchange struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Service is the deep research engine. All store and history access is
// serialized through the mutex; the store itself has no internal locking.
type Service struct {
	mu       sync.Mutex
	store    *ragstore.Store
	provider core.AIProvider
	history  []Exchange
}

func NewService(provider core.AIProvider, storeCfg ragstore.Config) *Service {
	return &Service{
		store:    ragstore.New(storeCfg),
		provider: provider,
	}
}

// AddLiveEvent feeds an enriched match event into the context store, deriving
// its importance from the event type.
func (s *Service) AddLiveEvent(ctx context.Context, event core.StoredEvent) error {
	var details map[string]any
	if event.Yards != 0 || event.PlayType != "" {
		details = map[string]any{}
		if event.Yards != 0 {
			details["yards"] = event.Yards
		}
		if event.PlayType != "" {
			details["play_type"] = event.PlayType
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.store.AddEvent(ctx, ragstore.Event{
		Type:        event.EventType,
		Description: event.Details,
		Timestamp:   event.Timestamp,
		Importance:  ragstore.ImportanceForEvent(event.EventType),
		Team:        event.Team,
		PlayerName:  event.PlayerName,
		Details:     details,
	})
	return err
}

// AnswerQuestion answers a free-form question grounded in the current match
// context.
func (s *Service) AnswerQuestion(ctx context.Context, query string, gs core.GameState) (string, error) {
	s.mu.Lock()
	summary := s.store.Summary(ctx, gameStateView(gs))
	relevant, err := s.store.Retrieve(ctx, ragstore.Query{Text: query, TopK: retrievalTopK})
	s.mu.Unlock()
	if err != nil {
		return "", fmt.Errorf("failed to retrieve context: %w", err)
	}

	prompt := buildQuestionPrompt(query, truncateToTokens(summary, contextTokenBudget), relevant)

	response, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to answer question: %w", err)
	}
	response = strings.TrimSpace(response)

	s.recordExchange(query, response)
	return response, nil
}

// AnalyzeStrategy produces a structured tactical recommendation for a
// coaching question.
func (s *Service) AnalyzeStrategy(ctx context.Context, query string, gs core.GameState) (*StrategyInsight, error) {
	s.mu.Lock()
	summary := s.store.Summary(ctx, gameStateView(gs))
	s.mu.Unlock()

	prompt := buildStrategyPrompt(query, truncateToTokens(summary, contextTokenBudget))

	response, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("strategy analysis failed: %w", err)
	}

	s.recordExchange(query, response)

	quarterContext := fmt.Sprintf("Q%d %s", gs.Quarter, gs.Clock)
	insight := parseStrategyInsight(response, query, quarterContext)

	log.FromCtx(ctx).Debug().
		Float64("confidence", insight.Confidence).
		Int("player_recs", len(insight.PlayerRecommendations)).
		Msg("parsed strategy insight")
	return insight, nil
}

// PlayerRecommendations suggests players and actions for the current
// situation, optionally focused on one team.
func (s *Service) PlayerRecommendations(ctx context.Context, gs core.GameState, focusTeam string) ([]PlayerRecommendation, error) {
	s.mu.Lock()
	summary := s.store.Summary(ctx, gameStateView(gs))
	_, err := s.store.Retrieve(ctx, ragstore.Query{
		Text: "player performance strength weakness",
		TopK: recommendationsTopK,
		Team: focusTeam,
	})
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve player context: %w", err)
	}

	if focusTeam == "" {
		focusTeam = gs.Possession
	}
	prompt := buildPlayerPrompt(truncateToTokens(summary, contextTokenBudget), focusTeam)

	response, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("player recommendations failed: %w", err)
	}

	return parsePlayerRecommendations(response), nil
}

func (s *Service) recordExchange(query, response string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history,
		Exchange{Role: "user", Content: query},
		Exchange{Role: "assistant", Content: response},
	)
	if len(s.history) > maxHistoryEntries {
		s.history = s.history[len(s.history)-maxHistoryEntries:]
	}
}

// History returns a copy of the rolling conversation.
func (s *Service) History() []Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Exchange, len(s.history))
	copy(out, s.history)
	return out
}

// ClearConversation drops the conversation history but keeps the context.
func (s *Service) ClearConversation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

// ResetContext wipes the store and the conversation for a new match.
func (s *Service) ResetContext(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store.Clear(ctx)
	s.history = nil
}

// ContextStats reports store health for the monitoring endpoint.
func (s *Service) ContextStats() ragstore.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Stats()
}

func gameStateView(gs core.GameState) *ragstore.GameStateView {
	return &ragstore.GameStateView{
		Quarter:    gs.Quarter,
		Clock:      gs.Clock,
		ScoreHome:  gs.Score.Home,
		ScoreAway:  gs.Score.Away,
		Down:       gs.Down,
		Distance:   gs.Distance,
		Possession: gs.Possession,
	}
}
