package domain

import (
	"fmt"
	"time"
)

// TaskStatus represents the status of a task in the lifecycle state machine.
type TaskStatus string

const (
	TaskStatusPending     TaskStatus = "PENDING"
	TaskStatusAssigned    TaskStatus = "ASSIGNED"
	TaskStatusInProgress  TaskStatus = "IN_PROGRESS"
	TaskStatusUnderReview TaskStatus = "UNDER_REVIEW"
	TaskStatusCompleted   TaskStatus = "COMPLETED"
	TaskStatusExpired     TaskStatus = "EXPIRED"
)

// IsTerminal returns true if the status is terminal (no transitions allowed).
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusExpired
}

// IsValid checks if the status is one of the allowed values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusAssigned, TaskStatusInProgress,
		TaskStatusUnderReview, TaskStatusCompleted, TaskStatusExpired:
		return true
	default:
		return false
	}
}

// ParseTaskStatus converts a raw string into a TaskStatus.
func ParseTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %s", ErrInvalidStatus, s)
	}
	return status, nil
}

// TaskDifficulty represents the difficulty grade of a task.
type TaskDifficulty string

const (
	TaskDifficultyEasy   TaskDifficulty = "EASY"
	TaskDifficultyMedium TaskDifficulty = "MEDIUM"
	TaskDifficultyHard   TaskDifficulty = "HARD"
)

// IsValid checks if the difficulty is one of the allowed values.
func (d TaskDifficulty) IsValid() bool {
	switch d {
	case TaskDifficultyEasy, TaskDifficultyMedium, TaskDifficultyHard:
		return true
	default:
		return false
	}
}

// Points returns the performance points awarded for completing a task
// of this difficulty. The table is fixed, not configurable at runtime.
func (d TaskDifficulty) Points() int {
	switch d {
	case TaskDifficultyEasy:
		return 10
	case TaskDifficultyMedium:
		return 20
	case TaskDifficultyHard:
		return 30
	default:
		return 0
	}
}

// Task represents a unit of work moving between a creator and an assignee.
type Task struct {
	ID          string
	Title       string
	Description string
	Difficulty  TaskDifficulty
	Deadline    *time.Time
	Status      TaskStatus
	CreatorID   string
	AssigneeID  *string
	ParentID    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsCreatedBy checks if the task was created by the given user.
func (t *Task) IsCreatedBy(userID string) bool {
	return t.CreatorID == userID
}

// IsAssignedTo checks if the task is currently held by the given user.
func (t *Task) IsAssignedTo(userID string) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}

// IsOverdue returns true if the task has a deadline in the past and is
// still in a non-terminal state.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.Deadline != nil && t.Deadline.Before(now) && !t.Status.IsTerminal()
}
