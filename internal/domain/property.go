package domain

import "time"

// Property represents a rental building whose units raise maintenance
// requests.
type Property struct {
	ID                  string
	Name                string
	Address             string
	Phone               string
	SuperintendentName  string
	SuperintendentEmail string
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
