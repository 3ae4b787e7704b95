package domain

import "time"

// Notification is a message surfaced to a single recipient about activity
// on a task. Rows are never deleted; only the read flag is ever flipped.
type Notification struct {
	ID          string
	RecipientID string
	Message     string
	TaskID      *string
	IsRead      bool
	CreatedAt   time.Time
}
