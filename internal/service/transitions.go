package service

import (
	"fmt"

	"github.com/UmudovRavan/taskflow/internal/domain"
)

// Transition guards. Each guard is a pure check over the loaded task and the
// acting user, so every rule is defined once and applies identically to every
// call site. A guard failure names the precondition that was violated: the
// current state, the actor's relationship to the task, or self-assignment.

// CanAssign validates that actor may hand the task to assignee.
func CanAssign(task *domain.Task, actorID, assigneeID string) error {
	if !task.IsCreatedBy(actorID) {
		return fmt.Errorf("%w: user %s is not creator of task %s", domain.ErrNotTaskCreator, actorID, task.ID)
	}
	if actorID == assigneeID {
		return fmt.Errorf("%w: user %s on task %s", domain.ErrSelfAssignment, actorID, task.ID)
	}
	return nil
}

// CanUnassign validates that actor may clear the task's assignee.
func CanUnassign(task *domain.Task, actorID string) error {
	if !task.IsCreatedBy(actorID) {
		return fmt.Errorf("%w: user %s is not creator of task %s", domain.ErrNotTaskCreator, actorID, task.ID)
	}
	return nil
}

// CanAccept validates that actor may accept the assigned task.
func CanAccept(task *domain.Task, actorID string) error {
	if task.Status != domain.TaskStatusAssigned {
		return fmt.Errorf("%w: task %s is in %s status, expected ASSIGNED", domain.ErrInvalidTransition, task.ID, task.Status)
	}
	if !task.IsAssignedTo(actorID) {
		return fmt.Errorf("%w: user %s is not assignee of task %s", domain.ErrNotTaskAssignee, actorID, task.ID)
	}
	return nil
}

// CanReject validates that actor may reject the assigned task. The guard is
// the same relationship check as accept: only the current assignee, and only
// while the task sits in ASSIGNED.
func CanReject(task *domain.Task, actorID string) error {
	return CanAccept(task, actorID)
}

// CanFinish validates that actor may submit the task for review.
func CanFinish(task *domain.Task, actorID string) error {
	if task.Status != domain.TaskStatusInProgress {
		return fmt.Errorf("%w: task %s is in %s status, expected IN_PROGRESS", domain.ErrInvalidTransition, task.ID, task.Status)
	}
	if !task.IsAssignedTo(actorID) {
		return fmt.Errorf("%w: user %s is not assignee of task %s", domain.ErrNotTaskAssignee, actorID, task.ID)
	}
	return nil
}

// CanReturnForRevision validates that actor may send the task back to the
// assignee for more work.
func CanReturnForRevision(task *domain.Task, actorID string) error {
	if task.Status != domain.TaskStatusUnderReview {
		return fmt.Errorf("%w: task %s is in %s status, expected UNDER_REVIEW", domain.ErrInvalidTransition, task.ID, task.Status)
	}
	if !task.IsCreatedBy(actorID) {
		return fmt.Errorf("%w: user %s is not creator of task %s", domain.ErrNotTaskCreator, actorID, task.ID)
	}
	return nil
}

// CanComplete validates that actor may close the review and score the task.
// Checks run in a fixed order: state first, then the reviewer relationship,
// then the assignee invariant.
func CanComplete(task *domain.Task, actorID string) error {
	if task.Status != domain.TaskStatusUnderReview {
		return fmt.Errorf("%w: task %s is in %s status, expected UNDER_REVIEW", domain.ErrInvalidTransition, task.ID, task.Status)
	}
	if !task.IsCreatedBy(actorID) {
		return fmt.Errorf("%w: user %s is not creator of task %s", domain.ErrNotTaskCreator, actorID, task.ID)
	}
	if task.AssigneeID == nil {
		return fmt.Errorf("%w: task %s", domain.ErrMissingAssignee, task.ID)
	}
	return nil
}
