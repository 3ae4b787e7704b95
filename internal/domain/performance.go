package domain

import "time"

// PerformancePoint records the points awarded to the assignee of a
// completed task. Exactly one row exists per completed task.
type PerformancePoint struct {
	ID          string
	TaskID      string
	RecipientID string
	Points      int
	Reason      string
	CreatedAt   time.Time
}

// LeaderboardEntry is a derived ranking row: a user and the sum of their
// performance points. Entries are recomputed on demand, never stored.
type LeaderboardEntry struct {
	UserID      string
	DisplayName string
	TotalPoints int
}
