package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gridscope/gridscope/internal/core"
	"github.com/gridscope/gridscope/pkg/log"
)

type EventsRepo struct {
	db *sql.DB
}

func NewEventsRepo(db *sql.DB) *EventsRepo {
	return &EventsRepo{db: db}
}

func (r *EventsRepo) AddEvent(ctx context.Context, event *core.StoredEvent) error {
	rawJSON := ""
	if len(event.RawData) > 0 {
		b, err := json.Marshal(event.RawData)
		if err != nil {
			return fmt.Errorf("failed to marshal raw data: %w", err)
		}
		rawJSON = string(b)
	}

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO analysis_events
		(match_id, timestamp, event_type, details, confidence, player_name, team,
		 yards, play_type, formation, is_explosive, is_turnover, is_scoring,
		 epa_value, raw_data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		event.MatchID, event.Timestamp, event.EventType, event.Details, event.Confidence,
		event.PlayerName, event.Team, event.Yards, event.PlayType, event.Formation,
		event.IsExplosive, event.IsTurnover, event.IsScoring,
		event.EPAValue, rawJSON, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	event.ID = id

	return nil
}

func (r *EventsRepo) GetEvents(ctx context.Context, matchID string, limit, offset int) ([]core.StoredEvent, error) {
	// Fetch the last window by ordering DESC, then restore chronological order.
	query := `SELECT id, match_id, timestamp, event_type, details, confidence,
		player_name, team, yards, play_type, formation,
		is_explosive, is_turnover, is_scoring, epa_value, raw_data, created_at
		FROM analysis_events WHERE match_id = ? ORDER BY id DESC LIMIT ? OFFSET ?`

	rows, err := r.db.QueryContext(ctx, query, matchID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []core.StoredEvent
	for rows.Next() {
		var e core.StoredEvent
		var playerName, team, playType, formation, rawData sql.NullString

		err := rows.Scan(&e.ID, &e.MatchID, &e.Timestamp, &e.EventType, &e.Details,
			&e.Confidence, &playerName, &team, &e.Yards, &playType, &formation,
			&e.IsExplosive, &e.IsTurnover, &e.IsScoring, &e.EPAValue, &rawData, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		e.PlayerName = playerName.String
		e.Team = team.String
		e.PlayType = playType.String
		e.Formation = formation.String

		if rawData.Valid && rawData.String != "" {
			if err := json.Unmarshal([]byte(rawData.String), &e.RawData); err != nil {
				return nil, fmt.Errorf("failed to unmarshal raw data: %w", err)
			}
		}

		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}

	log.FromCtx(ctx).Debug().Str("match_id", matchID).Int("count", len(events)).Msg("loaded analysis events")
	return events, nil
}
