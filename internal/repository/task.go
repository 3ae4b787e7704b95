package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/UmudovRavan/taskflow/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// taskColumns is the shared list of columns for task queries.
var taskColumns = []string{
	"id", "title", "description", "difficulty", "deadline", "status",
	"creator_id", "assignee_id", "parent_id", "created_at", "updated_at",
}

// TaskRepository handles database operations for tasks.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// scanTask scans a single row into a Task struct.
func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Difficulty,
		&task.Deadline,
		&task.Status,
		&task.CreatorID,
		&task.AssigneeID,
		&task.ParentID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &task, nil
}

// scanTasks scans multiple rows into a slice of Task structs.
func scanTasks(rows pgx.Rows) ([]*domain.Task, error) {
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, nil
}

// GetByID retrieves a task by ID.
func (r *TaskRepository) GetByID(ctx context.Context, taskID string) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for task: %w", err)
	}

	return scanTask(r.pool.QueryRow(ctx, query, args...))
}

// GetByIDForUpdate retrieves a task by ID with FOR UPDATE lock (within transaction).
func (r *TaskRepository) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, taskID string) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByIDForUpdate query for task %s: %w", taskID, err)
	}

	return scanTask(tx.QueryRow(ctx, query, args...))
}

// UpdateState updates the task status and assignee with optimistic locking.
// Returns ErrTaskConflict if the task was modified concurrently (the status
// predicate no longer matches).
func (r *TaskRepository) UpdateState(
	ctx context.Context,
	db DBTX,
	taskID string,
	oldStatus domain.TaskStatus,
	newStatus domain.TaskStatus,
	assigneeID *string,
) error {
	query, args, err := psql.
		Update("tasks").
		Set("status", newStatus).
		Set("assignee_id", assigneeID).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{
			"id":     taskID,
			"status": oldStatus,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build UpdateState query for task %s: %w", taskID, err)
	}

	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update task state: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrTaskConflict
	}

	return nil
}

// Create creates a new task. Returns the task with ID, CreatedAt, and
// UpdatedAt populated.
func (r *TaskRepository) Create(ctx context.Context, db DBTX, task *domain.Task) (*domain.Task, error) {
	if task.Status == "" {
		task.Status = domain.TaskStatusPending
	}

	query, args, err := psql.
		Insert("tasks").
		Columns(
			"title", "description", "difficulty", "deadline", "status",
			"creator_id", "assignee_id", "parent_id",
		).
		Values(
			task.Title,
			task.Description,
			task.Difficulty,
			task.Deadline,
			task.Status,
			task.CreatorID,
			task.AssigneeID,
			task.ParentID,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for task: %w", err)
	}

	err = db.QueryRow(ctx, query, args...).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	return task, nil
}

// FindOverdue finds all tasks past their deadline in a non-terminal state.
func (r *TaskRepository) FindOverdue(ctx context.Context) ([]*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where("deadline < NOW()").
		Where(sq.Eq{"status": []domain.TaskStatus{
			domain.TaskStatusPending,
			domain.TaskStatusAssigned,
			domain.TaskStatusInProgress,
			domain.TaskStatusUnderReview,
		}}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build FindOverdue query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query overdue tasks: %w", err)
	}

	return scanTasks(rows)
}

// TaskListFilters holds the supported filters for task listing.
type TaskListFilters struct {
	Statuses   []string
	CreatorID  *string
	AssigneeID *string
	Unassigned bool
	Limit      int
	Offset     int
}

// List retrieves tasks with filters and pagination, newest first.
func (r *TaskRepository) List(ctx context.Context, filters TaskListFilters) ([]*domain.Task, error) {
	qb := psql.Select(taskColumns...).From("tasks")

	if len(filters.Statuses) > 0 {
		qb = qb.Where(sq.Eq{"status": filters.Statuses})
	}
	if filters.CreatorID != nil {
		qb = qb.Where(sq.Eq{"creator_id": *filters.CreatorID})
	}
	if filters.Unassigned {
		qb = qb.Where(sq.Eq{"assignee_id": nil})
	} else if filters.AssigneeID != nil {
		qb = qb.Where(sq.Eq{"assignee_id": *filters.AssigneeID})
	}

	qb = qb.OrderBy("created_at DESC")
	if filters.Limit > 0 {
		qb = qb.Limit(uint64(filters.Limit))
	}
	if filters.Offset > 0 {
		qb = qb.Offset(uint64(filters.Offset))
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build List query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}

	return scanTasks(rows)
}
