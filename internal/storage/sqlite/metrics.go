package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gridscope/gridscope/internal/core"
)

type MetricsRepo struct {
	db *sql.DB
}

func NewMetricsRepo(db *sql.DB) *MetricsRepo {
	return &MetricsRepo{db: db}
}

func (r *MetricsRepo) InitMetrics(ctx context.Context, matchID string) error {
	query := `INSERT INTO match_metrics (match_id) VALUES (?)
		ON CONFLICT(match_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, matchID); err != nil {
		return fmt.Errorf("failed to init metrics: %w", err)
	}
	return nil
}

func (r *MetricsRepo) GetMetrics(ctx context.Context, matchID string) (*core.MatchMetrics, error) {
	query := `SELECT match_id, total_epa, win_probability,
		turnovers_forced, turnovers_lost,
		red_zone_attempts, red_zone_touchdowns,
		third_down_attempts, third_down_conversions,
		explosive_runs, explosive_passes,
		pass_plays, run_plays, special_plays,
		formations, updated_at
		FROM match_metrics WHERE match_id = ?`

	var m core.MatchMetrics
	var formations sql.NullString
	var updatedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, matchID).Scan(
		&m.MatchID, &m.TotalEPA, &m.WinProbability,
		&m.TurnoversForced, &m.TurnoversLost,
		&m.RedZoneAttempts, &m.RedZoneTouchdowns,
		&m.ThirdDownAttempts, &m.ThirdDownConversions,
		&m.ExplosiveRuns, &m.ExplosivePasses,
		&m.PassPlays, &m.RunPlays, &m.SpecialPlays,
		&formations, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan metrics: %w", err)
	}

	if formations.Valid && formations.String != "" {
		if err := json.Unmarshal([]byte(formations.String), &m.Formations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal formations: %w", err)
		}
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		m.UpdatedAt = &t
	}

	return &m, nil
}

func (r *MetricsRepo) SaveMetrics(ctx context.Context, metrics *core.MatchMetrics) error {
	formationsJSON := ""
	if len(metrics.Formations) > 0 {
		b, err := json.Marshal(metrics.Formations)
		if err != nil {
			return fmt.Errorf("failed to marshal formations: %w", err)
		}
		formationsJSON = string(b)
	}

	query := `INSERT INTO match_metrics
		(match_id, total_epa, win_probability,
		 turnovers_forced, turnovers_lost,
		 red_zone_attempts, red_zone_touchdowns,
		 third_down_attempts, third_down_conversions,
		 explosive_runs, explosive_passes,
		 pass_plays, run_plays, special_plays,
		 formations, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(match_id) DO UPDATE SET
		 total_epa = excluded.total_epa,
		 win_probability = excluded.win_probability,
		 turnovers_forced = excluded.turnovers_forced,
		 turnovers_lost = excluded.turnovers_lost,
		 red_zone_attempts = excluded.red_zone_attempts,
		 red_zone_touchdowns = excluded.red_zone_touchdowns,
		 third_down_attempts = excluded.third_down_attempts,
		 third_down_conversions = excluded.third_down_conversions,
		 explosive_runs = excluded.explosive_runs,
		 explosive_passes = excluded.explosive_passes,
		 pass_plays = excluded.pass_plays,
		 run_plays = excluded.run_plays,
		 special_plays = excluded.special_plays,
		 formations = excluded.formations,
		 updated_at = excluded.updated_at`
	_, err := r.db.ExecContext(ctx, query,
		metrics.MatchID, metrics.TotalEPA, metrics.WinProbability,
		metrics.TurnoversForced, metrics.TurnoversLost,
		metrics.RedZoneAttempts, metrics.RedZoneTouchdowns,
		metrics.ThirdDownAttempts, metrics.ThirdDownConversions,
		metrics.ExplosiveRuns, metrics.ExplosivePasses,
		metrics.PassPlays, metrics.RunPlays, metrics.SpecialPlays,
		formationsJSON, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save metrics: %w", err)
	}

	return nil
}
