package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/UmudovRavan/taskflow/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CommentRepository handles database operations for task comments.
type CommentRepository struct {
	pool *pgxpool.Pool
}

// NewCommentRepository creates a new CommentRepository.
func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

// Create inserts a comment. Comments are immutable after creation.
func (r *CommentRepository) Create(ctx context.Context, db DBTX, comment *domain.TaskComment) error {
	if comment.Mentions == nil {
		comment.Mentions = []string{}
	}

	query, args, err := psql.
		Insert("task_comments").
		Columns("task_id", "author_id", "content", "mentions").
		Values(comment.TaskID, comment.AuthorID, comment.Content, comment.Mentions).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	err = db.QueryRow(ctx, query, args...).Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("create task comment: %w", err)
	}

	return nil
}

// ListByTask retrieves all comments for a task, oldest first.
func (r *CommentRepository) ListByTask(ctx context.Context, taskID string) ([]*domain.TaskComment, error) {
	query, args, err := psql.
		Select("id", "task_id", "author_id", "content", "mentions", "created_at").
		From("task_comments").
		Where(sq.Eq{"task_id": taskID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query task comments: %w", err)
	}
	defer rows.Close()

	var comments []*domain.TaskComment
	for rows.Next() {
		var comment domain.TaskComment
		err := rows.Scan(
			&comment.ID,
			&comment.TaskID,
			&comment.AuthorID,
			&comment.Content,
			&comment.Mentions,
			&comment.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan task comment: %w", err)
		}
		comments = append(comments, &comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return comments, nil
}
