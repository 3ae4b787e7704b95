package domain

import "time"

// User represents a registered user of the system.
type User struct {
	ID          string
	Username    string
	DisplayName string
	Token       string
	CreatedAt   time.Time
}
