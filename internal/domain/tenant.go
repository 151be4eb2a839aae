package domain

import "time"

// TenantStatus represents lifecycle states for a tenant account.
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "ACTIVE"
	TenantStatusSuspended TenantStatus = "SUSPENDED"
)

// Tenant is the domain model for renters who raise maintenance requests.
type Tenant struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	PropertyID   string
	Unit         string
	Status       TenantStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
