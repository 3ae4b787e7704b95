package domain

import "time"

// TaskComment is a free-text comment on a task, immutable after creation.
// Mentions holds the resolved user IDs of @username tokens in the content,
// de-duplicated in order of first appearance.
type TaskComment struct {
	ID        string
	TaskID    string
	AuthorID  string
	Content   string
	Mentions  []string
	CreatedAt time.Time
}
