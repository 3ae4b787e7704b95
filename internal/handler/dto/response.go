package dto

import (
	"time"

	"github.com/UmudovRavan/taskflow/internal/domain"
)

// TaskResponse represents a task in API responses.
type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  string     `json:"difficulty"`
	Deadline    *time.Time `json:"deadline"`
	Status      string     `json:"status"`
	CreatorID   string     `json:"creator_id"`
	AssigneeID  *string    `json:"assignee_id"`
	ParentID    *string    `json:"parent_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskDetailResponse represents full task details with the audit trail and
// comments.
type TaskDetailResponse struct {
	Task         TaskResponse          `json:"task"`
	Transactions []TransactionResponse `json:"transactions"`
	Comments     []CommentResponse     `json:"comments"`
}

// TasksListResponse represents the response for GET /tasks.
type TasksListResponse struct {
	Tasks []TaskResponse `json:"tasks"`
}

// TransactionResponse represents one audit record.
type TransactionResponse struct {
	ID         string    `json:"id"`
	TaskID     string    `json:"task_id"`
	FromUserID string    `json:"from_user_id"`
	ToUserID   string    `json:"to_user_id"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// CommentResponse represents one task comment.
type CommentResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	Mentions  []string  `json:"mentions"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationResponse represents one notification.
type NotificationResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	TaskID    *string   `json:"task_id"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationsListResponse represents the response for GET /notifications.
type NotificationsListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
}

// LeaderboardEntryResponse represents one leaderboard row.
type LeaderboardEntryResponse struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	TotalPoints int    `json:"total_points"`
}

// LeaderboardResponse represents the response for GET /leaderboard.
type LeaderboardResponse struct {
	Entries []LeaderboardEntryResponse `json:"entries"`
}

// ToTaskResponse converts domain.Task to TaskResponse.
func ToTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Difficulty:  string(task.Difficulty),
		Deadline:    task.Deadline,
		Status:      string(task.Status),
		CreatorID:   task.CreatorID,
		AssigneeID:  task.AssigneeID,
		ParentID:    task.ParentID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTransactionResponse converts domain.TaskTransaction to TransactionResponse.
func ToTransactionResponse(txn *domain.TaskTransaction) TransactionResponse {
	return TransactionResponse{
		ID:         txn.ID,
		TaskID:     txn.TaskID,
		FromUserID: txn.FromUserID,
		ToUserID:   txn.ToUserID,
		Comment:    txn.Comment,
		CreatedAt:  txn.CreatedAt,
	}
}

// ToCommentResponse converts domain.TaskComment to CommentResponse.
func ToCommentResponse(comment *domain.TaskComment) CommentResponse {
	mentions := comment.Mentions
	if mentions == nil {
		mentions = []string{}
	}
	return CommentResponse{
		ID:        comment.ID,
		TaskID:    comment.TaskID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		Mentions:  mentions,
		CreatedAt: comment.CreatedAt,
	}
}

// ToNotificationResponse converts domain.Notification to NotificationResponse.
func ToNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Message:   n.Message,
		TaskID:    n.TaskID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

// ToLeaderboardResponse converts leaderboard entries to the response form.
func ToLeaderboardResponse(entries []domain.LeaderboardEntry) LeaderboardResponse {
	out := make([]LeaderboardEntryResponse, len(entries))
	for i, entry := range entries {
		out[i] = LeaderboardEntryResponse{
			UserID:      entry.UserID,
			DisplayName: entry.DisplayName,
			TotalPoints: entry.TotalPoints,
		}
	}
	return LeaderboardResponse{Entries: out}
}
