package domain

import "time"

// TaskTransaction is an append-only audit record of a lifecycle transition.
// Records are created once per transition and never mutated or deleted.
type TaskTransaction struct {
	ID         string
	TaskID     string
	FromUserID string
	ToUserID   string
	Comment    string
	CreatedAt  time.Time
}

// Validate checks that all required identifiers are present.
func (t *TaskTransaction) Validate() error {
	if t.TaskID == "" || t.FromUserID == "" || t.ToUserID == "" {
		return ErrEmptyIdentifier
	}
	return nil
}
