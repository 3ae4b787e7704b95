package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/UmudovRavan/taskflow/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PerformanceRepository handles database operations for performance points.
type PerformanceRepository struct {
	pool *pgxpool.Pool
}

// NewPerformanceRepository creates a new PerformanceRepository.
func NewPerformanceRepository(pool *pgxpool.Pool) *PerformanceRepository {
	return &PerformanceRepository{pool: pool}
}

// Create inserts one performance point row through db. The unique index on
// task_id rejects a second row for the same task.
func (r *PerformanceRepository) Create(ctx context.Context, db DBTX, pp *domain.PerformancePoint) error {
	query, args, err := psql.
		Insert("performance_points").
		Columns("task_id", "recipient_id", "points", "reason").
		Values(pp.TaskID, pp.RecipientID, pp.Points, pp.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	err = db.QueryRow(ctx, query, args...).Scan(&pp.ID, &pp.CreatedAt)
	if err != nil {
		return fmt.Errorf("create performance point: %w", err)
	}

	return nil
}

// GetByTask retrieves the performance point recorded for a task, if any.
func (r *PerformanceRepository) GetByTask(ctx context.Context, taskID string) (*domain.PerformancePoint, error) {
	var pp domain.PerformancePoint
	err := r.pool.QueryRow(ctx, `
		SELECT id, task_id, recipient_id, points, reason, created_at
		FROM performance_points
		WHERE task_id = $1
	`, taskID).Scan(&pp.ID, &pp.TaskID, &pp.RecipientID, &pp.Points, &pp.Reason, &pp.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: task %s", domain.ErrPerformancePointNotFound, taskID)
	}
	if err != nil {
		return nil, fmt.Errorf("query performance point: %w", err)
	}
	return &pp, nil
}

// Leaderboard aggregates total points per recipient, highest first. Ties
// break in favor of the user who scored first. An empty table yields an
// empty slice, not an error.
func (r *PerformanceRepository) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	query := `
		SELECT p.recipient_id, u.display_name, SUM(p.points) AS total_points
		FROM performance_points p
		JOIN users u ON u.id = p.recipient_id
		GROUP BY p.recipient_id, u.display_name
		ORDER BY total_points DESC, MIN(p.created_at) ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []domain.LeaderboardEntry{}
	for rows.Next() {
		var entry domain.LeaderboardEntry
		if err := rows.Scan(&entry.UserID, &entry.DisplayName, &entry.TotalPoints); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leaderboard rows: %w", err)
	}

	return entries, nil
}
