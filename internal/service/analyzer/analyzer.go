// Package analyzer turns video frames into structured game events. It
// prompts the vision model, parses the block-formatted response, reads the
// on-screen scoreboard, and fans the results out to the match service, the
// research context, and the live game state.
package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/gridscope/gridscope/internal/core"
	"github.com/gridscope/gridscope/internal/service/match"
	"github.com/gridscope/gridscope/internal/service/state"
	"github.com/gridscope/gridscope/pkg/log"
)

const framePrompt = `You are an expert NFL analyst. Analyze this football frame and identify
formations, play types, key events, and player actions.

For each event, provide:
- EVENT: The type of event (e.g., "Pass Completion", "Run Play", "Sack", "Formation")
- DETAILS: Specific description including player names/numbers if visible
- CONFIDENCE: Your confidence level (0.0-1.0)

ALWAYS read the scoreboard/on-screen graphics when visible and report:
- HOME_TEAM / AWAY_TEAM: Team abbreviations (e.g., KC, PHI)
- HOME_SCORE / AWAY_SCORE: Numbers
- QUARTER: 1-4 or OT
- GAME_TIME: Clock time (e.g., "8:42")
- DOWN: 1-4 and DISTANCE: yards to go
- POSSESSION: Team with the ball

Be concise and data-driven. Separate multiple events with ---`

// DefaultMinConfidence drops low-certainty detections before ingestion.
const DefaultMinConfidence = 0.5

// EventSink receives enriched events for retrieval grounding.
type EventSink interface {
	AddLiveEvent(ctx context.Context, event core.StoredEvent) error
}

// FrameAnalyzer runs a single frame through the vision provider and ingests
// whatever it detects.
type FrameAnalyzer struct {
	provider      core.AIProvider
	matches       *match.Service
	sink          EventSink
	state         *state.Manager
	minConfidence float64
}

func New(provider core.AIProvider, matches *match.Service, sink EventSink, st *state.Manager, minConfidence float64) *FrameAnalyzer {
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}
	return &FrameAnalyzer{
		provider:      provider,
		matches:       matches,
		sink:          sink,
		state:         st,
		minConfidence: minConfidence,
	}
}

// AnalyzeFrame analyzes one base64-encoded frame. When the provider fails
// the frame is not lost: a neutral low-confidence result is returned so the
// caller's pipeline keeps moving, but nothing is persisted.
func (f *FrameAnalyzer) AnalyzeFrame(ctx context.Context, imageB64, mimeType, timestamp string) ([]core.AnalysisResult, error) {
	if timestamp == "" {
		timestamp = time.Now().Format("04:05")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	raw, err := f.provider.GenerateWithImage(ctx, framePrompt, imageB64, mimeType)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("frame analysis provider failed")
		return []core.AnalysisResult{fallbackResult(timestamp)}, nil
	}

	results := parseAnalysis(raw, timestamp, f.minConfidence)
	if len(results) == 0 {
		return []core.AnalysisResult{fallbackResult(timestamp)}, nil
	}

	f.applyScoreboard(ctx, parseScoreboard(raw))

	if err := f.ingest(ctx, results); err != nil {
		return results, fmt.Errorf("failed to ingest frame events: %w", err)
	}
	return results, nil
}

// Ingest records externally produced analysis results, for replays and
// simulated feeds that bypass the vision provider.
func (f *FrameAnalyzer) Ingest(ctx context.Context, results []core.AnalysisResult) error {
	return f.ingest(ctx, results)
}

func (f *FrameAnalyzer) ingest(ctx context.Context, results []core.AnalysisResult) error {
	gs := f.state.State()
	m, err := f.matches.ActiveOrNewMatch(ctx, gs.HomeTeam, gs.AwayTeam)
	if err != nil {
		return err
	}

	for _, result := range results {
		event, err := f.matches.AddAnalysisEvent(ctx, m.ID, result)
		if err != nil {
			return err
		}

		if f.sink != nil {
			if err := f.sink.AddLiveEvent(ctx, *event); err != nil {
				// Retrieval grounding is best-effort; the event is already
				// persisted.
				log.FromCtx(ctx).Error().Err(err).Str("event_type", event.EventType).Msg("failed to add event to research context")
			}
		}

		f.state.UpdatePlay(event.Details, -1, event.EPAValue)
	}
	return nil
}

// applyScoreboard pushes whatever the model read off the broadcast graphics
// into the live game state.
func (f *FrameAnalyzer) applyScoreboard(ctx context.Context, sb Scoreboard) {
	if sb.Empty() {
		return
	}

	if sb.HomeScore >= 0 || sb.AwayScore >= 0 {
		f.state.UpdateScore(sb.HomeScore, sb.AwayScore)
	}
	if sb.Clock != "" {
		f.state.UpdateClock(sb.Clock, sb.Quarter)
	} else if sb.Quarter > 0 {
		f.state.UpdateClock(f.state.State().Clock, sb.Quarter)
	}
	if sb.Possession != "" {
		f.state.UpdatePossession(sb.Possession, sb.Down, sb.Distance)
	}

	log.FromCtx(ctx).Debug().
		Str("clock", sb.Clock).
		Int("quarter", sb.Quarter).
		Str("possession", sb.Possession).
		Msg("applied scoreboard read")
}

func fallbackResult(timestamp string) core.AnalysisResult {
	return core.AnalysisResult{
		Timestamp:  timestamp,
		Event:      "frame_captured",
		Details:    "Frame captured, no detailed analysis available",
		Confidence: 0.3,
	}
}
