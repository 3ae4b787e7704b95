package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UmudovRavan/taskflow/internal/domain"
)

// AddComment records a comment on a task and fans notifications out to
// every @mentioned user plus the task counterparty. The comment row and
// all notification rows commit together; pushes run after commit and fail
// independently.
func (s *TaskService) AddComment(ctx context.Context, taskID, authorID, text string) (*domain.TaskComment, error) {
	if text == "" {
		return nil, domain.ErrEmptyComment
	}

	task, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	mentioned, err := s.mentions.Resolve(ctx, authorID, text)
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer rollback(ctx, tx)

	comment := &domain.TaskComment{
		TaskID:   taskID,
		AuthorID: authorID,
		Content:  text,
		Mentions: mentioned,
	}
	if err := s.commentRepo.Create(ctx, tx, comment); err != nil {
		return nil, err
	}

	messages := make(map[string]string, len(mentioned))
	for _, userID := range mentioned {
		messages[userID] = fmt.Sprintf("%s mentioned you in task: %s", author.DisplayName, task.Title)
	}

	pending, err := s.fanout.NotifyMentions(ctx, tx, taskID, messages)
	if err != nil {
		return nil, err
	}

	// The other side of the task hears about the comment too, unless they
	// were already mentioned.
	counterparty := task.CreatorID
	if task.IsCreatedBy(authorID) {
		counterparty = ""
		if task.AssigneeID != nil {
			counterparty = *task.AssigneeID
		}
	}
	if _, alreadyNotified := messages[counterparty]; !alreadyNotified {
		n, err := s.notifyCounterparty(ctx, tx, authorID, counterparty, taskID,
			fmt.Sprintf("%s commented on task: %s", author.DisplayName, task.Title))
		if err != nil {
			return nil, err
		}
		if n != nil {
			pending = append(pending, n)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	slog.Info("comment added",
		"task_id", taskID,
		"author_id", authorID,
		"mentions", len(mentioned),
	)

	s.fanout.Push(ctx, pending...)

	return comment, nil
}
