package domain

import "time"

// StaffAccount models an operator login: a system admin, a property
// superintendent, or a maintenance worker. WorkerID links worker accounts to
// their Worker aggregate.
type StaffAccount struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	PropertyID   *string
	WorkerID     *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
