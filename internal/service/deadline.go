package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UmudovRavan/taskflow/internal/domain"
)

// ExpireOverdue finds all tasks past their deadline in a non-terminal state
// and transitions each to EXPIRED in its own transaction. Returns the
// number of tasks successfully expired, and an error if any tasks failed.
func (s *TaskService) ExpireOverdue(ctx context.Context) (int, error) {
	tasks, err := s.taskRepo.FindOverdue(ctx)
	if err != nil {
		return 0, fmt.Errorf("find overdue tasks: %w", err)
	}

	if len(tasks) == 0 {
		slog.Info("no overdue tasks found")
		return 0, nil
	}

	count := 0
	var errs []error
	for _, task := range tasks {
		if err := s.expireTask(ctx, task); err != nil {
			slog.Error("failed to expire task",
				"task_id", task.ID,
				"error", err,
			)
			errs = append(errs, fmt.Errorf("task %s: %w", task.ID, err))
			continue
		}
		count++
	}

	failedCount := len(tasks) - count
	slog.Info("processed overdue tasks",
		"total", len(tasks),
		"expired", count,
		"failed", failedCount,
	)

	if len(errs) > 0 {
		return count, fmt.Errorf("expired %d/%d tasks, %d failures: %v",
			count, len(tasks), failedCount, errs)
	}

	return count, nil
}

// expireTask transitions a single task to EXPIRED status and notifies both
// parties.
func (s *TaskService) expireTask(ctx context.Context, task *domain.Task) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	err = s.taskRepo.UpdateState(ctx, tx, task.ID, task.Status, domain.TaskStatusExpired, task.AssigneeID)
	if err != nil {
		return err
	}

	// Deadline expiry has no acting user; the ledger records the creator on
	// both sides of a system transition, or creator to assignee when one is
	// held.
	auditTo := task.CreatorID
	if task.AssigneeID != nil {
		auditTo = *task.AssigneeID
	}
	if err := s.audit(ctx, tx, task.ID, task.CreatorID, auditTo, "Task expired"); err != nil {
		return err
	}

	message := fmt.Sprintf("Task expired: %s", task.Title)
	var pending []*domain.Notification

	n, err := s.fanout.NotifyLifecycleEvent(ctx, tx, task.CreatorID, task.ID, message)
	if err != nil {
		return err
	}
	pending = append(pending, n)

	if task.AssigneeID != nil && *task.AssigneeID != task.CreatorID {
		n, err := s.fanout.NotifyLifecycleEvent(ctx, tx, *task.AssigneeID, task.ID, message)
		if err != nil {
			return err
		}
		pending = append(pending, n)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task expired",
		"task_id", task.ID,
		"old_status", task.Status,
	)

	s.fanout.Push(ctx, pending...)

	return nil
}
