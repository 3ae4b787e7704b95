package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UmudovRavan/taskflow/internal/domain"
)

// CompleteWithScore closes the review on a task: it awards the assignee
// difficulty-based points, transitions UNDER_REVIEW to COMPLETED, and
// records the audit entry, all in one transaction. Either everything
// persists or nothing does; a racing second completion loses on the
// optimistic status predicate.
func (s *TaskService) CompleteWithScore(ctx context.Context, taskID, reviewerID, reason string) (*domain.Task, error) {
	if reason == "" {
		return nil, domain.ErrEmptyReason
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	if err := CanComplete(task, reviewerID); err != nil {
		return nil, err
	}

	assigneeID := *task.AssigneeID
	points := task.Difficulty.Points()
	if points == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidDifficulty, task.Difficulty)
	}

	pp := &domain.PerformancePoint{
		TaskID:      taskID,
		RecipientID: assigneeID,
		Points:      points,
		Reason:      reason,
	}
	if err := s.performanceRepo.Create(ctx, tx, pp); err != nil {
		return nil, err
	}

	if err := s.taskRepo.UpdateState(ctx, tx, taskID, domain.TaskStatusUnderReview, domain.TaskStatusCompleted, task.AssigneeID); err != nil {
		return nil, err
	}

	if err := s.audit(ctx, tx, taskID, reviewerID, assigneeID, "Performance Point Added"); err != nil {
		return nil, err
	}

	n, err := s.notifyCounterparty(ctx, tx, reviewerID, assigneeID, taskID,
		fmt.Sprintf("Task completed: %s (+%d points)", task.Title, points))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task completed",
		"task_id", taskID,
		"reviewer_id", reviewerID,
		"recipient_id", assigneeID,
		"points", points,
	)

	if n != nil {
		s.fanout.Push(ctx, n)
	}

	task.Status = domain.TaskStatusCompleted
	return task, nil
}

// Leaderboard returns users ranked by their summed performance points,
// highest first. Zero scored tasks yields an empty list.
func (s *TaskService) Leaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	return s.performanceRepo.Leaderboard(ctx)
}
