package domain

import "time"

// SubjectType differentiates tenant vs staff tokens.
type SubjectType string

const (
	SubjectTypeTenant SubjectType = "TENANT"
	SubjectTypeStaff  SubjectType = "STAFF"
)

// Token represents issued authentication tokens (JWT or opaque) metadata.
type Token struct {
	ID        string
	SubjectID string
	Subject   SubjectType
	Role      *Role
	ExpiresAt time.Time
	IssuedAt  time.Time
}
