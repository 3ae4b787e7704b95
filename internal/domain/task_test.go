package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTaskStatus_IsTerminal(t *testing.T) {
	assert.True(t, TaskStatusCompleted.IsTerminal())
	assert.True(t, TaskStatusExpired.IsTerminal())
	assert.False(t, TaskStatusPending.IsTerminal())
	assert.False(t, TaskStatusAssigned.IsTerminal())
	assert.False(t, TaskStatusInProgress.IsTerminal())
	assert.False(t, TaskStatusUnderReview.IsTerminal())
}

func TestTaskStatus_IsValid(t *testing.T) {
	for _, s := range []TaskStatus{
		TaskStatusPending, TaskStatusAssigned, TaskStatusInProgress,
		TaskStatusUnderReview, TaskStatusCompleted, TaskStatusExpired,
	} {
		assert.True(t, s.IsValid(), "status %s", s)
	}
	assert.False(t, TaskStatus("DONE").IsValid())
	assert.False(t, TaskStatus("").IsValid())
}

func TestParseTaskStatus(t *testing.T) {
	status, err := ParseTaskStatus("IN_PROGRESS")
	assert.NoError(t, err)
	assert.Equal(t, TaskStatusInProgress, status)

	_, err = ParseTaskStatus("DONE")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = ParseTaskStatus("")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestTaskDifficulty_Points(t *testing.T) {
	tests := []struct {
		difficulty TaskDifficulty
		points     int
	}{
		{TaskDifficultyEasy, 10},
		{TaskDifficultyMedium, 20},
		{TaskDifficultyHard, 30},
		{TaskDifficulty("IMPOSSIBLE"), 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.points, tt.difficulty.Points(), "difficulty %s", tt.difficulty)
	}
}

func TestTask_Relationships(t *testing.T) {
	assignee := "user-2"
	task := &Task{
		ID:         "task-1",
		CreatorID:  "user-1",
		AssigneeID: &assignee,
	}

	assert.True(t, task.IsCreatedBy("user-1"))
	assert.False(t, task.IsCreatedBy("user-2"))
	assert.True(t, task.IsAssignedTo("user-2"))
	assert.False(t, task.IsAssignedTo("user-1"))

	task.AssigneeID = nil
	assert.False(t, task.IsAssignedTo("user-2"))
}

func TestTask_IsOverdue(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	task := &Task{Status: TaskStatusInProgress, Deadline: &past}
	assert.True(t, task.IsOverdue(now))

	task.Deadline = &future
	assert.False(t, task.IsOverdue(now))

	task.Deadline = nil
	assert.False(t, task.IsOverdue(now))

	// Terminal tasks are never overdue
	task.Deadline = &past
	task.Status = TaskStatusCompleted
	assert.False(t, task.IsOverdue(now))
}
