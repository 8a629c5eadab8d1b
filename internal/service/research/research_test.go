package research

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridscope/gridscope/internal/core"
	"github.com/gridscope/gridscope/internal/service/ragstore"
)

type fakeProvider struct {
	response string
	err      error
	prompts  []string
}

func (p *fakeProvider) Generate(ctx context.Context, prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	return p.response, p.err
}

func (p *fakeProvider) GenerateWithImage(ctx context.Context, prompt, imageB64, mimeType string) (string, error) {
	return p.response, p.err
}

func testGameState() core.GameState {
	gs := core.NewGameState("KC", "PHI")
	gs.Quarter = 3
	gs.Clock = "07:12"
	gs.Score = core.Score{Home: 21, Away: 17}
	return gs
}

func seedEvents(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()
	events := []core.StoredEvent{
		{Timestamp: "10:00", EventType: "pass", Details: "quick slant to the left side", Team: "KC"},
		{Timestamp: "09:30", EventType: "run", Details: "draw play up the middle for 5 yards", Team: "PHI"},
		{Timestamp: "08:45", EventType: "touchdown", Details: "deep touchdown pass down the sideline", Team: "KC", PlayerName: "Travis Kelce"},
	}
	for _, ev := range events {
		require.NoError(t, svc.AddLiveEvent(ctx, ev))
	}
}

func TestAddLiveEvent_ImportanceMapping(t *testing.T) {
	svc := NewService(&fakeProvider{}, ragstore.Config{})
	seedEvents(t, svc)

	stats := svc.ContextStats()
	assert.Equal(t, 3, stats.TotalItems)
	assert.Equal(t, 1, stats.ItemsByImportance[ragstore.ImportanceCritical])
	assert.Equal(t, 2, stats.ItemsByImportance[ragstore.ImportanceMedium])
}

func TestAnswerQuestion_PromptCarriesContext(t *testing.T) {
	provider := &fakeProvider{response: "KC should keep attacking the sideline. Confidence: 80%"}
	svc := NewService(provider, ragstore.Config{})
	seedEvents(t, svc)

	answer, err := svc.AnswerQuestion(context.Background(), "what is working for KC?", testGameState())
	require.NoError(t, err)
	assert.Contains(t, answer, "sideline")

	require.Len(t, provider.prompts, 1)
	prompt := provider.prompts[0]
	assert.Contains(t, prompt, "QUESTION: what is working for KC?")
	assert.Contains(t, prompt, "Quarter: 3")
	assert.Contains(t, prompt, "deep touchdown pass")
}

func TestAnswerQuestion_ProviderError(t *testing.T) {
	provider := &fakeProvider{err: errors.New("rate limited")}
	svc := NewService(provider, ragstore.Config{})

	_, err := svc.AnswerQuestion(context.Background(), "anything", testGameState())
	require.Error(t, err)
	assert.Empty(t, svc.History())
}

func TestAnalyzeStrategy_ParsesStructuredInsight(t *testing.T) {
	provider := &fakeProvider{response: `The defense is vulnerable to play action on early downs.

PLAYER: Travis Kelce | POSITION: TE | ACTION: seam routes against single-high coverage
PLAYER: Isiah Pacheco | POSITION: RB | ACTION: outside zone to the weak side

Expect success with deep ball shots. Confidence: 85%`}
	svc := NewService(provider, ragstore.Config{})
	seedEvents(t, svc)

	insight, err := svc.AnalyzeStrategy(context.Background(), "what adjustments should our offensive line make against their interior pressure?", testGameState())
	require.NoError(t, err)

	assert.Equal(t, 0.85, insight.Confidence)
	assert.Equal(t, "Q3 07:12", insight.QuarterContext)
	assert.Equal(t, []string{"deep ball", "play action"}, insight.PlayTypes)

	require.Len(t, insight.PlayerRecommendations, 2)
	assert.Equal(t, "Travis Kelce", insight.PlayerRecommendations[0].Name)
	assert.Equal(t, "TE", insight.PlayerRecommendations[0].Position)
	assert.Equal(t, "outside zone to the weak side", insight.PlayerRecommendations[1].Action)

	assert.True(t, strings.HasSuffix(insight.Title, "..."))
	assert.LessOrEqual(t, len(insight.Title), titleLimit+3)
}

func TestAnalyzeStrategy_UnstructuredResponseDegrades(t *testing.T) {
	provider := &fakeProvider{response: "Just run the ball."}
	svc := NewService(provider, ragstore.Config{})

	insight, err := svc.AnalyzeStrategy(context.Background(), "short question", testGameState())
	require.NoError(t, err)

	assert.Equal(t, insightDefaultConfidence, insight.Confidence)
	assert.Empty(t, insight.PlayerRecommendations)
	assert.Equal(t, "short question", insight.Title)
	assert.Equal(t, "Just run the ball.", insight.Reasoning)
}

func TestPlayerRecommendations(t *testing.T) {
	provider := &fakeProvider{response: `PLAYER: Jalen Hurts | POSITION: QB | ACTION: designed runs on third and short`}
	svc := NewService(provider, ragstore.Config{})
	seedEvents(t, svc)

	recs, err := svc.PlayerRecommendations(context.Background(), testGameState(), "PHI")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Jalen Hurts", recs[0].Name)

	require.Len(t, provider.prompts, 1)
	assert.Contains(t, provider.prompts[0], "TEAM TO ANALYZE: PHI")
}

func TestConversationHistoryBounded(t *testing.T) {
	provider := &fakeProvider{response: "answer"}
	svc := NewService(provider, ragstore.Config{})

	for i := 0; i < 12; i++ {
		_, err := svc.AnswerQuestion(context.Background(), "question", testGameState())
		require.NoError(t, err)
	}

	history := svc.History()
	assert.Len(t, history, maxHistoryEntries)
	assert.Equal(t, "assistant", history[len(history)-1].Role)
}

func TestResetContext(t *testing.T) {
	provider := &fakeProvider{response: "answer"}
	svc := NewService(provider, ragstore.Config{})
	seedEvents(t, svc)

	_, err := svc.AnswerQuestion(context.Background(), "question", testGameState())
	require.NoError(t, err)

	svc.ResetContext(context.Background())
	assert.Zero(t, svc.ContextStats().TotalItems)
	assert.Empty(t, svc.History())
}
