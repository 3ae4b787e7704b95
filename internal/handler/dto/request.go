package dto

import "time"

// CreateTaskRequest represents the request body for POST /tasks.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  string     `json:"difficulty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	ParentID    *string    `json:"parent_id,omitempty"`
}

// AssignTaskRequest represents the request body for POST /tasks/:id/assign.
type AssignTaskRequest struct {
	AssigneeID string `json:"assignee_id"`
}

// RejectTaskRequest represents the request body for POST /tasks/:id/reject.
type RejectTaskRequest struct {
	Reason string `json:"reason"`
}

// ReturnTaskRequest represents the request body for POST /tasks/:id/return.
type ReturnTaskRequest struct {
	Reason string `json:"reason"`
}

// CompleteTaskRequest represents the request body for POST /tasks/:id/complete.
type CompleteTaskRequest struct {
	Reason string `json:"reason"`
}

// CommentTaskRequest represents the request body for POST /tasks/:id/comments.
type CommentTaskRequest struct {
	Content string `json:"content"`
}
