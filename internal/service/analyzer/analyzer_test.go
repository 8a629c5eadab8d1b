package analyzer

import (
	"context"
	"errors"
	"testing"

	"github.com/gridscope/gridscope/internal/core"
	"github.com/gridscope/gridscope/internal/service/match"
	"github.com/gridscope/gridscope/internal/service/state"
)

type stubProvider struct {
	response string
	err      error
}

func (p *stubProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return p.response, p.err
}

func (p *stubProvider) GenerateWithImage(ctx context.Context, prompt, imageB64, mimeType string) (string, error) {
	return p.response, p.err
}

type stubSink struct {
	events []core.StoredEvent
}

func (s *stubSink) AddLiveEvent(ctx context.Context, event core.StoredEvent) error {
	s.events = append(s.events, event)
	return nil
}

type stubRepos struct {
	match  *core.Match
	events []core.StoredEvent
}

func (r *stubRepos) CreateMatch(ctx context.Context, m *core.Match) error {
	cp := *m
	r.match = &cp
	return nil
}

func (r *stubRepos) GetMatch(ctx context.Context, id string) (*core.Match, error) {
	if r.match != nil && r.match.ID == id {
		cp := *r.match
		return &cp, nil
	}
	return nil, nil
}

func (r *stubRepos) GetLatestActiveMatch(ctx context.Context) (*core.Match, error) {
	if r.match != nil && r.match.Status == core.MatchActive {
		cp := *r.match
		return &cp, nil
	}
	return nil, nil
}

func (r *stubRepos) UpdateMatchState(ctx context.Context, m *core.Match) error { return nil }

func (r *stubRepos) SetMatchStatus(ctx context.Context, id string, status core.MatchStatus) error {
	if r.match != nil && r.match.ID == id {
		r.match.Status = status
	}
	return nil
}

func (r *stubRepos) ListMatches(ctx context.Context, limit int) ([]core.Match, error) {
	return nil, nil
}

func (r *stubRepos) AddEvent(ctx context.Context, e *core.StoredEvent) error {
	e.ID = int64(len(r.events) + 1)
	r.events = append(r.events, *e)
	return nil
}

func (r *stubRepos) GetEvents(ctx context.Context, matchID string, limit, offset int) ([]core.StoredEvent, error) {
	return r.events, nil
}

func (r *stubRepos) AddHighlight(ctx context.Context, h *core.Highlight) error { return nil }

func (r *stubRepos) GetHighlights(ctx context.Context, matchID string) ([]core.Highlight, error) {
	return nil, nil
}

func (r *stubRepos) InitMetrics(ctx context.Context, matchID string) error { return nil }

func (r *stubRepos) GetMetrics(ctx context.Context, matchID string) (*core.MatchMetrics, error) {
	return &core.MatchMetrics{MatchID: matchID, WinProbability: 50}, nil
}

func (r *stubRepos) SaveMetrics(ctx context.Context, m *core.MatchMetrics) error { return nil }

func (r *stubRepos) AddSnapshot(ctx context.Context, s *core.Snapshot) error { return nil }

func (r *stubRepos) GetSnapshots(ctx context.Context, matchID string, limit int) ([]core.Snapshot, error) {
	return nil, nil
}

func newTestAnalyzer(provider core.AIProvider) (*FrameAnalyzer, *stubRepos, *stubSink, *state.Manager) {
	repos := &stubRepos{}
	sink := &stubSink{}
	matches := match.NewService(repos, repos, repos, repos, repos)
	st := state.NewManager("KC", "PHI")
	return New(provider, matches, sink, st, 0.5), repos, sink, st
}

func TestAnalyzeFrame_IngestsParsedEvents(t *testing.T) {
	ctx := context.Background()
	provider := &stubProvider{response: sampleResponse}
	analyzer, repos, sink, st := newTestAnalyzer(provider)

	results, err := analyzer.AnalyzeFrame(ctx, "aGVsbG8=", "image/jpeg", "08:42")
	if err != nil {
		t.Fatalf("AnalyzeFrame failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if len(repos.events) != 2 {
		t.Errorf("persisted %d events, want 2", len(repos.events))
	}
	if len(sink.events) != 2 {
		t.Errorf("sink received %d events, want 2", len(sink.events))
	}

	gs := st.State()
	if gs.Score.Home != 21 || gs.Score.Away != 17 {
		t.Errorf("scoreboard not applied: %d-%d", gs.Score.Home, gs.Score.Away)
	}
	if gs.Quarter != 3 || gs.Clock != "8:42" {
		t.Errorf("clock not applied: Q%d %s", gs.Quarter, gs.Clock)
	}
	if gs.Possession != "KC" {
		t.Errorf("possession = %q", gs.Possession)
	}
	if gs.LastPlay == "Ready for kickoff." {
		t.Error("last play not updated")
	}
}

func TestAnalyzeFrame_ProviderFailureFallsBack(t *testing.T) {
	ctx := context.Background()
	provider := &stubProvider{err: errors.New("upstream unavailable")}
	analyzer, repos, sink, _ := newTestAnalyzer(provider)

	results, err := analyzer.AnalyzeFrame(ctx, "aGVsbG8=", "", "03:00")
	if err != nil {
		t.Fatalf("fallback should not error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected single fallback result, got %d", len(results))
	}
	if results[0].Event != "frame_captured" {
		t.Errorf("event = %q", results[0].Event)
	}

	if len(repos.events) != 0 || len(sink.events) != 0 {
		t.Error("fallback result must not be persisted")
	}
}

func TestAnalyzeFrame_NothingParsedFallsBack(t *testing.T) {
	ctx := context.Background()
	provider := &stubProvider{response: "nothing structured here"}
	analyzer, repos, _, _ := newTestAnalyzer(provider)

	results, err := analyzer.AnalyzeFrame(ctx, "aGVsbG8=", "image/png", "03:00")
	if err != nil {
		t.Fatalf("AnalyzeFrame failed: %v", err)
	}
	if len(results) != 1 || results[0].Event != "frame_captured" {
		t.Fatalf("expected fallback result, got %+v", results)
	}
	if len(repos.events) != 0 {
		t.Error("fallback result must not be persisted")
	}
}
