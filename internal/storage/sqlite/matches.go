package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/gridscope/gridscope/internal/core"
)

type MatchesRepo struct {
	db *sql.DB
}

func NewMatchesRepo(db *sql.DB) *MatchesRepo {
	return &MatchesRepo{db: db}
}

func (r *MatchesRepo) CreateMatch(ctx context.Context, match *core.Match) error {
	if match.CreatedAt.IsZero() {
		match.CreatedAt = time.Now().UTC()
	}

	query := `INSERT INTO matches
		(id, home_team, away_team, home_score, away_score, quarter, clock, possession, down, distance, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		match.ID, match.HomeTeam, match.AwayTeam,
		match.HomeScore, match.AwayScore,
		match.Quarter, match.Clock, match.Possession,
		match.Down, match.Distance,
		string(match.Status), match.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert match: %w", err)
	}

	return nil
}

func (r *MatchesRepo) GetMatch(ctx context.Context, id string) (*core.Match, error) {
	query := matchSelect + ` WHERE id = ?`
	return r.scanMatch(r.db.QueryRowContext(ctx, query, id))
}

func (r *MatchesRepo) GetLatestActiveMatch(ctx context.Context) (*core.Match, error) {
	query := matchSelect + ` WHERE status = ? ORDER BY created_at DESC LIMIT 1`
	return r.scanMatch(r.db.QueryRowContext(ctx, query, string(core.MatchActive)))
}

func (r *MatchesRepo) UpdateMatchState(ctx context.Context, match *core.Match) error {
	query := `UPDATE matches SET
		home_score = ?, away_score = ?, quarter = ?, clock = ?,
		possession = ?, down = ?, distance = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		match.HomeScore, match.AwayScore, match.Quarter, match.Clock,
		match.Possession, match.Down, match.Distance, time.Now().UTC(),
		match.ID)
	if err != nil {
		return fmt.Errorf("failed to update match state: %w", err)
	}

	return requireRowAffected(res, match.ID)
}

func (r *MatchesRepo) SetMatchStatus(ctx context.Context, id string, status core.MatchStatus) error {
	query := `UPDATE matches SET status = ?, updated_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, string(status), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to set match status: %w", err)
	}

	return requireRowAffected(res, id)
}

func (r *MatchesRepo) ListMatches(ctx context.Context, limit int) ([]core.Match, error) {
	query := matchSelect + ` ORDER BY created_at DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	var matches []core.Match
	for rows.Next() {
		m, err := r.scanMatch(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *m)
	}

	return matches, rows.Err()
}

const matchSelect = `SELECT id, home_team, away_team, home_score, away_score,
	quarter, clock, possession, down, distance, status, created_at, updated_at
	FROM matches`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *MatchesRepo) scanMatch(row rowScanner) (*core.Match, error) {
	var m core.Match
	var status string
	var updatedAt sql.NullTime

	err := row.Scan(&m.ID, &m.HomeTeam, &m.AwayTeam, &m.HomeScore, &m.AwayScore,
		&m.Quarter, &m.Clock, &m.Possession, &m.Down, &m.Distance,
		&status, &m.CreatedAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan match: %w", err)
	}

	m.Status = core.MatchStatus(status)
	if updatedAt.Valid {
		t := updatedAt.Time
		m.UpdatedAt = &t
	}

	return &m, nil
}

func requireRowAffected(res sql.Result, matchID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("match %s: %w", matchID, core.ErrMatchNotFound)
	}
	return nil
}
