package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gridscope/gridscope/internal/core"
)

type SnapshotsRepo struct {
	db *sql.DB
}

func NewSnapshotsRepo(db *sql.DB) *SnapshotsRepo {
	return &SnapshotsRepo{db: db}
}

func (r *SnapshotsRepo) AddSnapshot(ctx context.Context, s *core.Snapshot) error {
	playersJSON := ""
	if len(s.Players) > 0 {
		b, err := json.Marshal(s.Players)
		if err != nil {
			return fmt.Errorf("failed to marshal player positions: %w", err)
		}
		playersJSON = string(b)
	}

	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO simulation_snapshots
		(id, match_id, timestamp, play_cycle, sim_seconds_remaining,
		 quarter, clock, score_home, score_away, down, distance, possession,
		 ball_x, ball_y, player_positions, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.MatchID, s.Timestamp, s.PlayCycle, s.SecRemaining,
		s.Quarter, s.Clock, s.Score.Home, s.Score.Away,
		s.Down, s.Distance, s.Possession,
		s.Ball.X, s.Ball.Y, playersJSON, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}

	return nil
}

func (r *SnapshotsRepo) GetSnapshots(ctx context.Context, matchID string, limit int) ([]core.Snapshot, error) {
	query := `SELECT id, match_id, timestamp, play_cycle, sim_seconds_remaining,
		quarter, clock, score_home, score_away, down, distance, possession,
		ball_x, ball_y, player_positions, created_at
		FROM simulation_snapshots WHERE match_id = ?
		ORDER BY created_at DESC LIMIT ?`

	rows, err := r.db.QueryContext(ctx, query, matchID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []core.Snapshot
	for rows.Next() {
		var s core.Snapshot
		var players sql.NullString

		err := rows.Scan(&s.ID, &s.MatchID, &s.Timestamp, &s.PlayCycle, &s.SecRemaining,
			&s.Quarter, &s.Clock, &s.Score.Home, &s.Score.Away,
			&s.Down, &s.Distance, &s.Possession,
			&s.Ball.X, &s.Ball.Y, &players, &s.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}

		if players.Valid && players.String != "" {
			if err := json.Unmarshal([]byte(players.String), &s.Players); err != nil {
				return nil, fmt.Errorf("failed to unmarshal player positions: %w", err)
			}
		}

		snapshots = append(snapshots, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Oldest first for playback.
	for i, j := 0, len(snapshots)-1; i < j; i, j = i+1, j-1 {
		snapshots[i], snapshots[j] = snapshots[j], snapshots[i]
	}

	return snapshots, nil
}
