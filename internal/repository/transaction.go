package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/UmudovRavan/taskflow/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TransactionRepository is the append-only audit ledger of lifecycle
// transitions. It only ever inserts and reads; there are no update or
// delete operations.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

// Create appends one audit record. The write joins the caller's transaction
// through db so an unaudited state change can never commit.
func (r *TransactionRepository) Create(
	ctx context.Context,
	db DBTX,
	txn *domain.TaskTransaction,
) error {
	if err := txn.Validate(); err != nil {
		return err
	}

	query, args, err := psql.
		Insert("task_transactions").
		Columns("task_id", "from_user_id", "to_user_id", "comment").
		Values(txn.TaskID, txn.FromUserID, txn.ToUserID, txn.Comment).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build query: %w", err)
	}

	err = db.QueryRow(ctx, query, args...).Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("create task transaction: %w", err)
	}

	return nil
}

// ListByTask retrieves all audit records for a task, oldest first.
func (r *TransactionRepository) ListByTask(ctx context.Context, taskID string) ([]*domain.TaskTransaction, error) {
	query, args, err := psql.
		Select("id", "task_id", "from_user_id", "to_user_id", "comment", "created_at").
		From("task_transactions").
		Where(sq.Eq{"task_id": taskID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query task transactions: %w", err)
	}
	defer rows.Close()

	var txns []*domain.TaskTransaction
	for rows.Next() {
		var txn domain.TaskTransaction
		err := rows.Scan(
			&txn.ID,
			&txn.TaskID,
			&txn.FromUserID,
			&txn.ToUserID,
			&txn.Comment,
			&txn.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan task transaction: %w", err)
		}
		txns = append(txns, &txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return txns, nil
}
