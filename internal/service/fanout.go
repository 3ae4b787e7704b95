package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/UmudovRavan/taskflow/internal/domain"
	"github.com/UmudovRavan/taskflow/internal/repository"
)

// pushConcurrency bounds how many push calls run at once during fanout.
const pushConcurrency = 8

// Pusher delivers a notification payload to a connected client. Any
// transport satisfies it; delivery failures are the transport's problem,
// not this core's.
type Pusher interface {
	Push(ctx context.Context, userID string, payload []byte) error
}

// NotificationStore persists notification rows. Writes take a
// repository.DBTX so rows join the caller's transaction: persistence always
// commits with the state change that caused it, before any push is tried.
type NotificationStore interface {
	Create(ctx context.Context, db repository.DBTX, n *domain.Notification) error
	CreateBatch(ctx context.Context, db repository.DBTX, ns []*domain.Notification) error
}

// NotificationFanout builds notification rows for one or many recipients,
// persists them, and pushes them to the external transport after commit.
type NotificationFanout struct {
	store  NotificationStore
	pusher Pusher
}

// NewNotificationFanout creates a new NotificationFanout.
func NewNotificationFanout(store NotificationStore, pusher Pusher) *NotificationFanout {
	return &NotificationFanout{store: store, pusher: pusher}
}

// NotifyAssignment persists the single assignment notification.
func (f *NotificationFanout) NotifyAssignment(
	ctx context.Context,
	db repository.DBTX,
	recipientID, taskID, taskTitle string,
) (*domain.Notification, error) {
	n := &domain.Notification{
		RecipientID: recipientID,
		Message:     fmt.Sprintf("New task: %s assigned", taskTitle),
		TaskID:      &taskID,
	}
	if err := f.store.Create(ctx, db, n); err != nil {
		return nil, fmt.Errorf("persist assignment notification: %w", err)
	}
	return n, nil
}

// NotifyLifecycleEvent persists one notification about a status change.
func (f *NotificationFanout) NotifyLifecycleEvent(
	ctx context.Context,
	db repository.DBTX,
	recipientID, taskID, message string,
) (*domain.Notification, error) {
	n := &domain.Notification{
		RecipientID: recipientID,
		Message:     message,
		TaskID:      &taskID,
	}
	if err := f.store.Create(ctx, db, n); err != nil {
		return nil, fmt.Errorf("persist lifecycle notification: %w", err)
	}
	return n, nil
}

// NotifyMentions persists one notification per recipient in a single batch
// write. Recipients are ordered by ID so the batch is deterministic.
func (f *NotificationFanout) NotifyMentions(
	ctx context.Context,
	db repository.DBTX,
	taskID string,
	messages map[string]string,
) ([]*domain.Notification, error) {
	if len(messages) == 0 {
		return nil, nil
	}

	recipients := make([]string, 0, len(messages))
	for recipientID := range messages {
		recipients = append(recipients, recipientID)
	}
	sort.Strings(recipients)

	ns := make([]*domain.Notification, 0, len(recipients))
	for _, recipientID := range recipients {
		ns = append(ns, &domain.Notification{
			RecipientID: recipientID,
			Message:     messages[recipientID],
			TaskID:      &taskID,
		})
	}

	if err := f.store.CreateBatch(ctx, db, ns); err != nil {
		return nil, fmt.Errorf("persist mention notifications: %w", err)
	}
	return ns, nil
}

// pushPayload is the JSON document handed to the transport.
type pushPayload struct {
	NotificationID string    `json:"notification_id"`
	Message        string    `json:"message"`
	TaskID         *string   `json:"task_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// Push delivers already-persisted notifications, each to its own recipient.
// Deliveries run concurrently with bounded parallelism and fail
// independently: a dead transport for one recipient never blocks the
// others, and failures are logged, not retried.
func (f *NotificationFanout) Push(ctx context.Context, ns ...*domain.Notification) {
	if len(ns) == 0 {
		return
	}

	sem := make(chan struct{}, pushConcurrency)
	var wg sync.WaitGroup

	for _, n := range ns {
		wg.Add(1)
		sem <- struct{}{}
		go func(n *domain.Notification) {
			defer wg.Done()
			defer func() { <-sem }()

			payload, err := json.Marshal(pushPayload{
				NotificationID: n.ID,
				Message:        n.Message,
				TaskID:         n.TaskID,
				CreatedAt:      n.CreatedAt,
			})
			if err != nil {
				slog.Error("failed to encode push payload",
					"notification_id", n.ID,
					"error", err,
				)
				return
			}

			if err := f.pusher.Push(ctx, n.RecipientID, payload); err != nil {
				slog.Error("failed to push notification",
					"notification_id", n.ID,
					"recipient_id", n.RecipientID,
					"error", err,
				)
			}
		}(n)
	}

	wg.Wait()
}
