package domain

import "errors"

// Domain-specific errors for business logic validation.
var (
	// Not-found errors
	ErrTaskNotFound             = errors.New("task not found")
	ErrUserNotFound             = errors.New("user not found")
	ErrNotificationNotFound     = errors.New("notification not found")
	ErrPerformancePointNotFound = errors.New("performance point not found")

	// Permission errors
	ErrNotTaskCreator  = errors.New("not task creator")
	ErrNotTaskAssignee = errors.New("not task assignee")
	ErrSelfAssignment  = errors.New("cannot assign task to yourself")

	// State errors
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTaskConflict      = errors.New("task modified concurrently")
	ErrMissingAssignee   = errors.New("task has no assignee")

	// Validation errors
	ErrInvalidStatus     = errors.New("invalid task status")
	ErrInvalidDifficulty = errors.New("invalid task difficulty")
	ErrEmptyComment      = errors.New("comment is required")
	ErrEmptyReason       = errors.New("reason is required")
	ErrEmptyIdentifier   = errors.New("identifier is required")
	ErrInvalidToken      = errors.New("invalid authentication token")
)
