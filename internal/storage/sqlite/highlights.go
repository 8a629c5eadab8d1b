package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gridscope/gridscope/internal/core"
)

type HighlightsRepo struct {
	db *sql.DB
}

func NewHighlightsRepo(db *sql.DB) *HighlightsRepo {
	return &HighlightsRepo{db: db}
}

func (r *HighlightsRepo) AddHighlight(ctx context.Context, h *core.Highlight) error {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO match_highlights
		(id, match_id, timestamp, event_type, description, confidence, player_name, image_data, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		h.ID, h.MatchID, h.Timestamp, h.EventType, h.Description,
		h.Confidence, h.PlayerName, h.ImageData, h.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert highlight: %w", err)
	}

	return nil
}

func (r *HighlightsRepo) GetHighlights(ctx context.Context, matchID string) ([]core.Highlight, error) {
	query := `SELECT id, match_id, timestamp, event_type, description, confidence, player_name, image_data, created_at
		FROM match_highlights WHERE match_id = ? ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query highlights: %w", err)
	}
	defer rows.Close()

	var highlights []core.Highlight
	for rows.Next() {
		var h core.Highlight
		var playerName, imageData sql.NullString

		err := rows.Scan(&h.ID, &h.MatchID, &h.Timestamp, &h.EventType, &h.Description,
			&h.Confidence, &playerName, &imageData, &h.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan highlight: %w", err)
		}

		h.PlayerName = playerName.String
		h.ImageData = imageData.String
		highlights = append(highlights, h)
	}

	return highlights, rows.Err()
}
