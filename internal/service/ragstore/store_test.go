package ragstore

import (
	"context"
	"fmt"
	"testing"
)

func addEvent(t *testing.T, s *Store, ev Event) string {
	t.Helper()
	id, err := s.AddEvent(context.Background(), ev)
	if err != nil {
		t.Fatalf("AddEvent failed: %v", err)
	}
	return id
}

func TestStore_AddEventAssignsUniqueIDs(t *testing.T) {
	s := New(Config{})
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		id := addEvent(t, s, Event{Type: "pass", Description: "short pass", Timestamp: "12:00"})
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestStore_AddEventRejectsUnknownImportance(t *testing.T) {
	s := New(Config{})
	if _, err := s.AddEvent(context.Background(), Event{
		Type:       "pass",
		Timestamp:  "10:00",
		Importance: Importance("urgent"),
	}); err == nil {
		t.Fatal("expected error for unknown importance level")
	}
}

func TestStore_CompressionBoundsSize(t *testing.T) {
	s := New(Config{MaxItems: 500, CompressionThreshold: 100})

	for i := 0; i < 120; i++ {
		addEvent(t, s, Event{
			Type:        "pass",
			Description: fmt.Sprintf("play %d", i),
			Timestamp:   "10:00",
		})
		if s.Len() > 100 {
			t.Fatalf("store exceeded compression threshold after insert %d: %d", i+1, s.Len())
		}
		// The 101st insertion pushes size past the threshold and compresses
		// down to floor(101 * 0.6).
		if i == 100 && s.Len() != 60 {
			t.Fatalf("expected 60 items after first compression, got %d", s.Len())
		}
	}
}

func TestStore_CompressionEnforcesHardCap(t *testing.T) {
	// A keep ratio above max_items must still land on the hard cap.
	s := New(Config{MaxItems: 5, CompressionThreshold: 10})
	for i := 0; i < 11; i++ {
		addEvent(t, s, Event{Type: "run", Description: "carry", Timestamp: "08:00"})
	}
	if s.Len() != 5 {
		t.Fatalf("expected hard cap of 5 items, got %d", s.Len())
	}
}

func TestStore_CompressionPrefersHighRank(t *testing.T) {
	s := New(Config{MaxItems: 100, CompressionThreshold: 10})

	// Five critical touchdowns rank well above six routine low events; the
	// 11th insert triggers compression keeping floor(11*0.6) = 6.
	for i := 0; i < 5; i++ {
		addEvent(t, s, Event{
			Type:        "touchdown",
			Description: "touchdown pass to the corner",
			Timestamp:   "01:00",
			Importance:  ImportanceCritical,
		})
	}
	for i := 0; i < 6; i++ {
		addEvent(t, s, Event{
			Type:        "huddle",
			Description: "offense huddles",
			Timestamp:   "14:30",
			Importance:  ImportanceLow,
		})
	}

	if s.Len() != 6 {
		t.Fatalf("expected 6 items after compression, got %d", s.Len())
	}

	got, err := s.Retrieve(context.Background(), Query{TopK: 20})
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	critical := 0
	for _, item := range got {
		if item.Importance == ImportanceCritical {
			critical++
		}
	}
	if critical != 5 {
		t.Errorf("expected all 5 critical items retained, got %d", critical)
	}
}

func TestStore_RetrieveDeterministic(t *testing.T) {
	s := New(Config{})
	addEvent(t, s, Event{Type: "pass", Description: "deep ball to the sideline", Timestamp: "12:10"})
	addEvent(t, s, Event{Type: "run", Description: "draw up the middle", Timestamp: "11:40"})
	addEvent(t, s, Event{Type: "sack", Description: "quarterback brought down", Timestamp: "11:05", Importance: ImportanceHigh})

	first, err := s.Retrieve(context.Background(), Query{Text: "deep ball", TopK: 10})
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	second, err := s.Retrieve(context.Background(), Query{Text: "deep ball", TopK: 10})
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("result lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("order differs at %d: %s vs %s", i, first[i].ID, second[i].ID)
		}
		if first[i].RankScore() != second[i].RankScore() {
			t.Errorf("rank score differs at %d: %v vs %v", i, first[i].RankScore(), second[i].RankScore())
		}
	}
}

func TestStore_RankingMonotonicInImportance(t *testing.T) {
	s := New(Config{})
	lowID := addEvent(t, s, Event{Type: "pass", Description: "screen pass", Timestamp: "09:00", Importance: ImportanceLow})
	critID := addEvent(t, s, Event{Type: "pass", Description: "screen pass", Timestamp: "09:00", Importance: ImportanceCritical})

	got, err := s.Retrieve(context.Background(), Query{TopK: 2})
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].ID != critID || got[1].ID != lowID {
		t.Errorf("expected critical item first, got order %s, %s", got[0].ID, got[1].ID)
	}
	if got[0].RankScore() < got[1].RankScore() {
		t.Errorf("critical item ranked below low item")
	}
}

func TestStore_TeamFilterExactMatch(t *testing.T) {
	s := New(Config{})
	addEvent(t, s, Event{Type: "pass", Description: "completion", Timestamp: "10:00", Team: "KC"})
	addEvent(t, s, Event{Type: "run", Description: "carry", Timestamp: "10:00", Team: "PHI"})
	addEvent(t, s, Event{Type: "sack", Description: "pressure", Timestamp: "10:00"}) // no team

	got, err := s.Retrieve(context.Background(), Query{Team: "KC", TopK: 10})
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 item for team KC, got %d", len(got))
	}
	if got[0].Team != "KC" {
		t.Errorf("got team %q, want KC", got[0].Team)
	}
}

func TestStore_ImportanceFilterIsMinimumLevel(t *testing.T) {
	s := New(Config{})
	addEvent(t, s, Event{Type: "tackle", Description: "routine tackle", Timestamp: "10:00", Importance: ImportanceLow})
	addEvent(t, s, Event{Type: "pass", Description: "first down", Timestamp: "10:00", Importance: ImportanceMedium})
	addEvent(t, s, Event{Type: "fumble", Description: "ball out", Timestamp: "10:00", Importance: ImportanceCritical})

	got, err := s.Retrieve(context.Background(), Query{Importance: ImportanceMedium, TopK: 10})
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 items at medium or above, got %d", len(got))
	}
	for _, item := range got {
		if !item.Importance.AtLeast(ImportanceMedium) {
			t.Errorf("item %s below requested importance: %s", item.ID, item.Importance)
		}
	}
}

func TestStore_RetrieveRejectsNegativeTopK(t *testing.T) {
	s := New(Config{})
	if _, err := s.Retrieve(context.Background(), Query{TopK: -1}); err == nil {
		t.Fatal("expected error for negative top_k")
	}
}

func TestStore_EmptyFilterResultIsNotAnError(t *testing.T) {
	s := New(Config{})
	addEvent(t, s, Event{Type: "pass", Description: "completion", Timestamp: "10:00", Team: "KC"})

	got, err := s.Retrieve(context.Background(), Query{Team: "DAL", TopK: 10})
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty result, got %d items", len(got))
	}
}

func TestStore_CriticalTouchdownRanksFirst(t *testing.T) {
	s := New(Config{})
	addEvent(t, s, Event{Type: "pass", Description: "checkdown completion", Timestamp: "15:00", Importance: ImportanceMedium})
	tdID := addEvent(t, s, Event{Type: "touchdown", Description: "50 yard touchdown strike", Timestamp: "10:00", Importance: ImportanceCritical})
	addEvent(t, s, Event{Type: "tackle", Description: "tackle after short gain", Timestamp: "05:00", Importance: ImportanceLow})

	got, err := s.Retrieve(context.Background(), Query{TopK: 3})
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}
	if got[0].ID != tdID {
		t.Errorf("expected touchdown first, got %s (%s)", got[0].ID, got[0].EventType)
	}
}

func TestStore_MalformedTimestampIsTolerated(t *testing.T) {
	s := New(Config{})
	id, err := s.AddEvent(context.Background(), Event{
		Type:        "pass",
		Description: "completion",
		Timestamp:   "garbage",
	})
	if err != nil {
		t.Fatalf("AddEvent must not fail on malformed timestamps: %v", err)
	}

	got, err := s.Retrieve(context.Background(), Query{TopK: 10})
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != id {
		t.Fatalf("expected the malformed-timestamp item to be retrievable")
	}
	if got[0].RecencyScore != 0.5 {
		t.Errorf("expected neutral recency 0.5, got %v", got[0].RecencyScore)
	}
}

func TestStore_ClearResetsEverything(t *testing.T) {
	s := New(Config{})
	addEvent(t, s, Event{Type: "pass", Description: "completion", Timestamp: "10:00"})
	addEvent(t, s, Event{Type: "run", Description: "carry", Timestamp: "09:00"})

	s.Clear(context.Background())

	stats := s.Stats()
	if stats.TotalItems != 0 {
		t.Errorf("expected 0 items after clear, got %d", stats.TotalItems)
	}

	// The counter restarts, so the next id matches a fresh store.
	id := addEvent(t, s, Event{Type: "pass", Description: "completion", Timestamp: "10:00"})
	if id != "event_1_1000" {
		t.Errorf("expected counter reset, got id %q", id)
	}
}

func TestStore_Stats(t *testing.T) {
	s := New(Config{MaxItems: 200})
	addEvent(t, s, Event{Type: "touchdown", Description: "td", Timestamp: "10:00", Importance: ImportanceCritical})
	addEvent(t, s, Event{Type: "pass", Description: "completion", Timestamp: "10:00"})
	addEvent(t, s, Event{Type: "run", Description: "carry", Timestamp: "10:00"})

	stats := s.Stats()
	if stats.TotalItems != 3 {
		t.Errorf("total = %d, want 3", stats.TotalItems)
	}
	if stats.MaxItems != 200 {
		t.Errorf("max = %d, want 200", stats.MaxItems)
	}
	if stats.ItemsByImportance[ImportanceCritical] != 1 {
		t.Errorf("critical = %d, want 1", stats.ItemsByImportance[ImportanceCritical])
	}
	if stats.ItemsByImportance[ImportanceMedium] != 2 {
		t.Errorf("medium = %d, want 2", stats.ItemsByImportance[ImportanceMedium])
	}
}
