package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UmudovRavan/taskflow/internal/domain"
	"github.com/UmudovRavan/taskflow/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskService coordinates task lifecycle transitions. Every operation runs
// as one serializable unit against the task row: guard check, state
// mutation, audit write, and notification persistence commit together, and
// only then is the push transport tried.
type TaskService struct {
	pool            *pgxpool.Pool
	taskRepo        *repository.TaskRepository
	ledger          *repository.TransactionRepository
	commentRepo     *repository.CommentRepository
	performanceRepo *repository.PerformanceRepository
	userRepo        *repository.UserRepository
	fanout          *NotificationFanout
	mentions        *MentionResolver
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	pool *pgxpool.Pool,
	taskRepo *repository.TaskRepository,
	ledger *repository.TransactionRepository,
	commentRepo *repository.CommentRepository,
	performanceRepo *repository.PerformanceRepository,
	userRepo *repository.UserRepository,
	fanout *NotificationFanout,
) *TaskService {
	return &TaskService{
		pool:            pool,
		taskRepo:        taskRepo,
		ledger:          ledger,
		commentRepo:     commentRepo,
		performanceRepo: performanceRepo,
		userRepo:        userRepo,
		fanout:          fanout,
		mentions:        NewMentionResolver(userRepo),
	}
}

// rollback rolls a transaction back, tolerating the closed-after-commit case.
func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && err.Error() != "tx is closed" {
		slog.Error("failed to rollback transaction", "error", err)
	}
}

// audit appends one ledger record inside the transaction.
func (s *TaskService) audit(ctx context.Context, tx pgx.Tx, taskID, fromUserID, toUserID, comment string) error {
	txn := &domain.TaskTransaction{
		TaskID:     taskID,
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Comment:    comment,
	}
	if err := s.ledger.Create(ctx, tx, txn); err != nil {
		return fmt.Errorf("record transaction: %w", err)
	}
	return nil
}

// notifyCounterparty persists a lifecycle notification unless the recipient
// is the actor. Self-notification is dropped, not an error.
func (s *TaskService) notifyCounterparty(
	ctx context.Context,
	tx pgx.Tx,
	actorID, recipientID, taskID, message string,
) (*domain.Notification, error) {
	if recipientID == "" || recipientID == actorID {
		return nil, nil
	}
	return s.fanout.NotifyLifecycleEvent(ctx, tx, recipientID, taskID, message)
}

// AssignTask hands the task to an assignee. Only the creator may assign,
// and never to themself. Legal from any state.
func (s *TaskService) AssignTask(ctx context.Context, taskID, actorID, assigneeID string) (*domain.Task, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByID(ctx, assigneeID); err != nil {
		return nil, err
	}

	if err := CanAssign(task, actorID, assigneeID); err != nil {
		return nil, err
	}

	if err := s.taskRepo.UpdateState(ctx, tx, taskID, task.Status, domain.TaskStatusAssigned, &assigneeID); err != nil {
		return nil, err
	}

	if err := s.audit(ctx, tx, taskID, actorID, assigneeID, "Task assigned"); err != nil {
		return nil, err
	}

	n, err := s.fanout.NotifyAssignment(ctx, tx, assigneeID, taskID, task.Title)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task assigned",
		"task_id", taskID,
		"actor_id", actorID,
		"assignee_id", assigneeID,
	)

	s.fanout.Push(ctx, n)

	task.Status = domain.TaskStatusAssigned
	task.AssigneeID = &assigneeID
	return task, nil
}

// UnassignTask clears the task's assignee without changing its status.
// Only the creator may unassign.
func (s *TaskService) UnassignTask(ctx context.Context, taskID, actorID string) (*domain.Task, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	if err := CanUnassign(task, actorID); err != nil {
		return nil, err
	}

	if err := s.taskRepo.UpdateState(ctx, tx, taskID, task.Status, task.Status, nil); err != nil {
		return nil, err
	}

	// The ledger requires a counterparty; fall back to the creator when the
	// task had no assignee.
	auditTo := task.CreatorID
	var previousAssignee string
	if task.AssigneeID != nil {
		previousAssignee = *task.AssigneeID
		auditTo = previousAssignee
	}

	if err := s.audit(ctx, tx, taskID, actorID, auditTo, "Task unassigned"); err != nil {
		return nil, err
	}

	n, err := s.notifyCounterparty(ctx, tx, actorID, previousAssignee, taskID,
		fmt.Sprintf("You were unassigned from task: %s", task.Title))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task unassigned",
		"task_id", taskID,
		"actor_id", actorID,
	)

	if n != nil {
		s.fanout.Push(ctx, n)
	}

	task.AssigneeID = nil
	return task, nil
}

// AcceptTask moves an assigned task into progress. Only the current
// assignee may accept.
func (s *TaskService) AcceptTask(ctx context.Context, taskID, actorID string) (*domain.Task, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	if err := CanAccept(task, actorID); err != nil {
		return nil, err
	}

	if err := s.taskRepo.UpdateState(ctx, tx, taskID, domain.TaskStatusAssigned, domain.TaskStatusInProgress, task.AssigneeID); err != nil {
		return nil, err
	}

	if err := s.audit(ctx, tx, taskID, actorID, task.CreatorID, "Task accepted"); err != nil {
		return nil, err
	}

	n, err := s.notifyCounterparty(ctx, tx, actorID, task.CreatorID, taskID,
		fmt.Sprintf("Task accepted: %s", task.Title))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task accepted",
		"task_id", taskID,
		"actor_id", actorID,
	)

	if n != nil {
		s.fanout.Push(ctx, n)
	}

	task.Status = domain.TaskStatusInProgress
	return task, nil
}

// RejectTask sends an assigned task back to the creator: the status stays
// ASSIGNED but the assignee is cleared. A non-empty reason is required.
func (s *TaskService) RejectTask(ctx context.Context, taskID, actorID, reason string) (*domain.Task, error) {
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

	if err := CanReject(task, actorID); err != nil {
		return nil, err
	}

	if err := s.taskRepo.UpdateState(ctx, tx, taskID, domain.TaskStatusAssigned, domain.TaskStatusAssigned, nil); err != nil {
		return nil, err
	}

	if err := s.audit(ctx, tx, taskID, actorID, task.CreatorID, fmt.Sprintf("Task rejected: %s", reason)); err != nil {
		return nil, err
	}

	n, err := s.notifyCounterparty(ctx, tx, actorID, task.CreatorID, taskID,
		fmt.Sprintf("Task rejected: %s (%s)", task.Title, reason))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task rejected",
		"task_id", taskID,
		"actor_id", actorID,
		"reason", reason,
	)

	if n != nil {
		s.fanout.Push(ctx, n)
	}

	task.AssigneeID = nil
	return task, nil
}

// FinishTask submits an in-progress task for review. Only the current
// assignee may finish.
func (s *TaskService) FinishTask(ctx context.Context, taskID, actorID string) (*domain.Task, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	task, err := s.taskRepo.GetByIDForUpdate(ctx, tx, taskID)
	if err != nil {
		return nil, err
	}

	if err := CanFinish(task, actorID); err != nil {
		return nil, err
	}

	if err := s.taskRepo.UpdateState(ctx, tx, taskID, domain.TaskStatusInProgress, domain.TaskStatusUnderReview, task.AssigneeID); err != nil {
		return nil, err
	}

	if err := s.audit(ctx, tx, taskID, actorID, task.CreatorID, "Task finished"); err != nil {
		return nil, err
	}

	n, err := s.notifyCounterparty(ctx, tx, actorID, task.CreatorID, taskID,
		fmt.Sprintf("Task ready for review: %s", task.Title))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task finished",
		"task_id", taskID,
		"actor_id", actorID,
	)

	if n != nil {
		s.fanout.Push(ctx, n)
	}

	task.Status = domain.TaskStatusUnderReview
	return task, nil
}

// ReturnForRevision sends a task under review back to the assignee for
// more work. Only the creator may return, and a reason is required.
func (s *TaskService) ReturnForRevision(ctx context.Context, taskID, actorID, reason string) (*domain.Task, error) {
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

	if err := CanReturnForRevision(task, actorID); err != nil {
		return nil, err
	}

	if err := s.taskRepo.UpdateState(ctx, tx, taskID, domain.TaskStatusUnderReview, domain.TaskStatusInProgress, task.AssigneeID); err != nil {
		return nil, err
	}

	auditTo := task.CreatorID
	var assigneeID string
	if task.AssigneeID != nil {
		assigneeID = *task.AssigneeID
		auditTo = assigneeID
	}

	if err := s.audit(ctx, tx, taskID, actorID, auditTo, fmt.Sprintf("Task returned for revision: %s", reason)); err != nil {
		return nil, err
	}

	n, err := s.notifyCounterparty(ctx, tx, actorID, assigneeID, taskID,
		fmt.Sprintf("Task returned for revision: %s (%s)", task.Title, reason))
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("task returned for revision",
		"task_id", taskID,
		"actor_id", actorID,
		"reason", reason,
	)

	if n != nil {
		s.fanout.Push(ctx, n)
	}

	task.Status = domain.TaskStatusInProgress
	return task, nil
}
