package ragstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gridscope/gridscope/pkg/log"
)

const (
	DefaultMaxItems             = 500
	DefaultCompressionThreshold = 100

	// compressionKeepRatio is the fraction of items, by rank, retained on a
	// compression pass.
	compressionKeepRatio = 0.6

	defaultTopK = 20
	summaryTopK = 15
)

// Store is a bounded in-memory ranking index over live match events. It is a
// derived view: the authoritative event history lives in the relational
// store, and the index can be rebuilt by replaying it.
type Store struct {
	maxItems             int
	compressionThreshold int

	items   map[string]*Item
	order   []string // insertion order, the stable tiebreak for equal ranks
	counter int

	creationTime    time.Time
	lastCompression time.Time
}

// Config bounds the store. Zero values fall back to the defaults.
type Config struct {
	MaxItems             int
	CompressionThreshold int
}

func New(cfg Config) *Store {
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = DefaultMaxItems
	}
	if cfg.CompressionThreshold <= 0 {
		cfg.CompressionThreshold = DefaultCompressionThreshold
	}
	now := time.Now()
	return &Store{
		maxItems:             cfg.MaxItems,
		compressionThreshold: cfg.CompressionThreshold,
		items:                make(map[string]*Item),
		creationTime:         now,
		lastCompression:      now,
	}
}

// Event is the input to AddEvent. Importance defaults to medium.
type Event struct {
	Type        string
	Description string
	Timestamp   string // game clock, "MM:SS"; malformed values are tolerated
	Importance  Importance
	Team        string
	PlayerName  string
	Details     map[string]any
}

// AddEvent scores and inserts a new event, returning its generated ID. The
// ID uniquely identifies the item until it is evicted. Insertion never fails
// on malformed timestamps; an unknown importance level is a programming
// error.
func (s *Store) AddEvent(ctx context.Context, ev Event) (string, error) {
	if ev.Importance == "" {
		ev.Importance = ImportanceMedium
	}
	if !ev.Importance.Valid() {
		return "", fmt.Errorf("unknown importance level %q", ev.Importance)
	}

	s.counter++
	id := fmt.Sprintf("event_%d_%s", s.counter, strings.ReplaceAll(ev.Timestamp, ":", ""))

	item := &Item{
		ID:          id,
		Timestamp:   ev.Timestamp,
		EventType:   ev.Type,
		Description: ev.Description,
		Importance:  ev.Importance,
		Team:        ev.Team,
		PlayerName:  ev.PlayerName,
		Details:     ev.Details,
		// Fresh events start at maximum recency; relevance has no query
		// context yet and is scored from the event content alone.
		RecencyScore:   1.0,
		RelevanceScore: relevanceScore(ev.Type, ev.Description, ""),
	}

	s.items[id] = item
	s.order = append(s.order, id)

	log.FromCtx(ctx).Debug().
		Str("id", id).
		Str("importance", string(ev.Importance)).
		Msg("added context item")

	if len(s.items) > s.compressionThreshold {
		s.compress(ctx)
	}

	return id, nil
}

// Query selects and ranks items. A zero TopK means the default of 20.
// Importance, when set, is a minimum level under the order
// CRITICAL > HIGH > MEDIUM > LOW. Team is an exact match.
type Query struct {
	Text       string
	TopK       int
	Importance Importance
	Team       string
}

// Retrieve returns the top-ranked items for the query, at most TopK, ordered
// by descending rank with insertion order breaking ties. Relevance is
// recomputed against the query text (when given) and recency against each
// item's own stored timestamp, so repeated calls with unchanged contents are
// deterministic and idempotent. Filters that match nothing yield an empty
// slice, not an error.
func (s *Store) Retrieve(ctx context.Context, q Query) ([]Item, error) {
	if q.TopK < 0 {
		return nil, fmt.Errorf("negative top_k %d", q.TopK)
	}
	if q.TopK == 0 {
		q.TopK = defaultTopK
	}
	if q.Importance != "" && !q.Importance.Valid() {
		return nil, fmt.Errorf("unknown importance level %q", q.Importance)
	}

	// Walk in insertion order so the later stable sort has a deterministic
	// tiebreak.
	candidates := make([]*Item, 0, len(s.order))
	for _, id := range s.order {
		item := s.items[id]
		if q.Importance != "" && !item.Importance.AtLeast(q.Importance) {
			continue
		}
		if q.Team != "" && item.Team != q.Team {
			continue
		}
		candidates = append(candidates, item)
	}

	for _, item := range candidates {
		if q.Text != "" {
			item.RelevanceScore = relevanceScore(item.EventType, item.Description, q.Text)
		}
		item.RecencyScore = recencyScore(item.Timestamp)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].RankScore() > candidates[j].RankScore()
	})

	if len(candidates) > q.TopK {
		candidates = candidates[:q.TopK]
	}

	// Copy out: the store owns its items, callers get value snapshots.
	out := make([]Item, len(candidates))
	for i, item := range candidates {
		out[i] = *item
	}
	return out, nil
}

// Summary renders the current top-ranked context (pure importance/recency
// ranking, no query) into a compact text block for prompt construction.
func (s *Store) Summary(ctx context.Context, gameState *GameStateView) string {
	top, err := s.Retrieve(ctx, Query{TopK: summaryTopK})
	if err != nil {
		// Unreachable with a well-formed query; keep the summary best-effort.
		top = nil
	}
	return BuildSummary(top, gameState)
}

// compress evicts the lowest-ranked items, keeping the top 60% by count
// (floor) of the currently stored scores. Scores are not refreshed against
// any query: compression ranks what retrieval last observed. The hard cap of
// maxItems is enforced even if the keep ratio alone would not get there.
func (s *Store) compress(ctx context.Context) {
	logger := log.FromCtx(ctx)
	before := len(s.items)
	logger.Info().Int("size", before).Msg("compressing context store")

	ranked := make([]string, len(s.order))
	copy(ranked, s.order)
	sort.SliceStable(ranked, func(i, j int) bool {
		return s.items[ranked[i]].RankScore() > s.items[ranked[j]].RankScore()
	})

	keep := int(float64(before) * compressionKeepRatio)
	if keep > s.maxItems {
		keep = s.maxItems
	}

	retained := make(map[string]struct{}, keep)
	for _, id := range ranked[:keep] {
		retained[id] = struct{}{}
	}

	order := s.order[:0]
	for _, id := range s.order {
		if _, ok := retained[id]; ok {
			order = append(order, id)
		} else {
			delete(s.items, id)
		}
	}
	s.order = order
	s.lastCompression = time.Now()

	logger.Info().
		Int("removed", before-len(s.items)).
		Int("size", len(s.items)).
		Msg("evicted low-ranking context items")
}

// Len returns the current number of stored items.
func (s *Store) Len() int {
	return len(s.items)
}

// Clear empties the store and resets the insertion counter. Used when a new
// match session begins.
func (s *Store) Clear(ctx context.Context) {
	s.items = make(map[string]*Item)
	s.order = nil
	s.counter = 0
	log.FromCtx(ctx).Info().Msg("context store cleared")
}

// Stats is a read-only snapshot of store health for monitoring endpoints.
type Stats struct {
	TotalItems        int                `json:"total_items"`
	MaxItems          int                `json:"max_items"`
	ItemsByImportance map[Importance]int `json:"items_by_importance"`
	CreationTime      time.Time          `json:"creation_time"`
	LastCompression   time.Time          `json:"last_compression"`
}

func (s *Store) Stats() Stats {
	byImportance := make(map[Importance]int)
	for _, item := range s.items {
		byImportance[item.Importance]++
	}
	return Stats{
		TotalItems:        len(s.items),
		MaxItems:          s.maxItems,
		ItemsByImportance: byImportance,
		CreationTime:      s.creationTime,
		LastCompression:   s.lastCompression,
	}
}
