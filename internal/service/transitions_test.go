package service

import (
	"testing"

	"github.com/UmudovRavan/taskflow/internal/domain"
	"github.com/stretchr/testify/assert"
)

const (
	creatorID  = "00000000-0000-0000-0000-000000000001"
	assigneeID = "00000000-0000-0000-0000-000000000002"
	strangerID = "00000000-0000-0000-0000-000000000003"
)

func makeTask(status domain.TaskStatus, assignee *string) *domain.Task {
	return &domain.Task{
		ID:         "00000000-0000-0000-0000-000000000100",
		Title:      "Test task",
		Status:     status,
		CreatorID:  creatorID,
		AssigneeID: assignee,
	}
}

func TestCanAssign(t *testing.T) {
	tests := []struct {
		name       string
		actorID    string
		assigneeID string
		wantErr    error
	}{
		{"creator assigns someone else", creatorID, assigneeID, nil},
		{"not creator", strangerID, assigneeID, domain.ErrNotTaskCreator},
		{"self assignment", creatorID, creatorID, domain.ErrSelfAssignment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanAssign(makeTask(domain.TaskStatusPending, nil), tt.actorID, tt.assigneeID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCanUnassign(t *testing.T) {
	task := makeTask(domain.TaskStatusAssigned, &[]string{assigneeID}[0])
	assert.NoError(t, CanUnassign(task, creatorID))
	assert.ErrorIs(t, CanUnassign(task, assigneeID), domain.ErrNotTaskCreator)
}

// Accept succeeds iff status is ASSIGNED and the actor is the assignee;
// any other actor or status fails and leaves the task untouched.
func TestCanAccept(t *testing.T) {
	assignee := assigneeID

	tests := []struct {
		name     string
		status   domain.TaskStatus
		assignee *string
		actorID  string
		wantErr  error
	}{
		{"assignee accepts assigned task", domain.TaskStatusAssigned, &assignee, assigneeID, nil},
		{"creator cannot accept", domain.TaskStatusAssigned, &assignee, creatorID, domain.ErrNotTaskAssignee},
		{"stranger cannot accept", domain.TaskStatusAssigned, &assignee, strangerID, domain.ErrNotTaskAssignee},
		{"wrong state pending", domain.TaskStatusPending, &assignee, assigneeID, domain.ErrInvalidTransition},
		{"wrong state in progress", domain.TaskStatusInProgress, &assignee, assigneeID, domain.ErrInvalidTransition},
		{"wrong state completed", domain.TaskStatusCompleted, &assignee, assigneeID, domain.ErrInvalidTransition},
		{"no assignee", domain.TaskStatusAssigned, nil, assigneeID, domain.ErrNotTaskAssignee},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanAccept(makeTask(tt.status, tt.assignee), tt.actorID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCanFinish(t *testing.T) {
	assignee := assigneeID

	assert.NoError(t, CanFinish(makeTask(domain.TaskStatusInProgress, &assignee), assigneeID))
	assert.ErrorIs(t,
		CanFinish(makeTask(domain.TaskStatusAssigned, &assignee), assigneeID),
		domain.ErrInvalidTransition)
	assert.ErrorIs(t,
		CanFinish(makeTask(domain.TaskStatusInProgress, &assignee), creatorID),
		domain.ErrNotTaskAssignee)
}

func TestCanReturnForRevision(t *testing.T) {
	assignee := assigneeID

	assert.NoError(t, CanReturnForRevision(makeTask(domain.TaskStatusUnderReview, &assignee), creatorID))
	assert.ErrorIs(t,
		CanReturnForRevision(makeTask(domain.TaskStatusUnderReview, &assignee), assigneeID),
		domain.ErrNotTaskCreator)
	assert.ErrorIs(t,
		CanReturnForRevision(makeTask(domain.TaskStatusInProgress, &assignee), creatorID),
		domain.ErrInvalidTransition)
}

func TestCanComplete(t *testing.T) {
	assignee := assigneeID

	tests := []struct {
		name     string
		status   domain.TaskStatus
		assignee *string
		actorID  string
		wantErr  error
	}{
		{"creator completes reviewed task", domain.TaskStatusUnderReview, &assignee, creatorID, nil},
		{"assignee cannot complete", domain.TaskStatusUnderReview, &assignee, assigneeID, domain.ErrNotTaskCreator},
		{"wrong state", domain.TaskStatusInProgress, &assignee, creatorID, domain.ErrInvalidTransition},
		{"missing assignee", domain.TaskStatusUnderReview, nil, creatorID, domain.ErrMissingAssignee},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CanComplete(makeTask(tt.status, tt.assignee), tt.actorID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
