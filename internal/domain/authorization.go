package domain

import "fmt"

// Role enumerates business roles. Lower value means higher privilege; the
// ordering resolves conflicting claims, it never bypasses the status guard.
type Role int

const (
	RoleSystemAdmin Role = iota
	RolePropertySuperintendent
	RoleWorker
	RoleTenant
)

var roleNames = map[Role]string{
	RoleSystemAdmin:            "SystemAdmin",
	RolePropertySuperintendent: "PropertySuperintendent",
	RoleWorker:                 "Worker",
	RoleTenant:                 "Tenant",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// MarshalText encodes the role as its business-layer name.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses the business-layer role name.
func (r *Role) UnmarshalText(text []byte) error {
	role, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = role
	return nil
}

// ParseRole converts the role string supplied by the calling layer.
func ParseRole(s string) (Role, error) {
	for role, name := range roleNames {
		if name == s {
			return role, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// OutranksOrEquals reports whether r has at least the privilege of other.
func (r Role) OutranksOrEquals(other Role) bool {
	return r <= other
}

// Action enumerates operations a role may perform on a request.
type Action string

const (
	ActionEdit         Action = "Edit"
	ActionSubmit       Action = "Submit"
	ActionCancel       Action = "Cancel"
	ActionAssignWorker Action = "AssignWorker"
	ActionSchedule     Action = "Schedule"
	ActionReschedule   Action = "Reschedule"
	ActionCompleteWork Action = "CompleteWork"
	ActionReportIssue  Action = "ReportIssue"
	ActionDecline      Action = "Decline"
	ActionClose        Action = "Close"
)

// managerActions holds the shared SystemAdmin / PropertySuperintendent grant
// per status. Workers and tenants get narrower tables below.
var managerActions = map[RequestStatus][]Action{
	RequestStatusDraft:     {ActionEdit, ActionCancel},
	RequestStatusSubmitted: {ActionEdit, ActionCancel, ActionAssignWorker, ActionSchedule, ActionDecline},
	RequestStatusScheduled: {ActionEdit, ActionReschedule},
	RequestStatusFailed:    {ActionEdit, ActionSchedule},
	RequestStatusDone:      {ActionClose},
	RequestStatusDeclined:  {ActionClose},
	RequestStatusClosed:    {},
}

var workerActions = map[RequestStatus][]Action{
	RequestStatusScheduled: {ActionCompleteWork, ActionReportIssue},
}

var tenantActions = map[RequestStatus][]Action{
	RequestStatusDraft:     {ActionEdit, ActionSubmit, ActionCancel},
	RequestStatusSubmitted: {ActionCancel},
}

// AllowedActions returns the actions a role may perform at the given status.
func AllowedActions(role Role, status RequestStatus) []Action {
	switch role {
	case RoleSystemAdmin, RolePropertySuperintendent:
		return append([]Action(nil), managerActions[status]...)
	case RoleWorker:
		return append([]Action(nil), workerActions[status]...)
	case RoleTenant:
		return append([]Action(nil), tenantActions[status]...)
	default:
		return nil
	}
}

// RoleCanPerform reports whether the role may perform the action at the status.
func RoleCanPerform(role Role, status RequestStatus, action Action) bool {
	for _, allowed := range AllowedActions(role, status) {
		if allowed == action {
			return true
		}
	}
	return false
}

// transitionActions maps each edge of the status graph to its triggering action.
type transitionKey struct {
	from RequestStatus
	to   RequestStatus
}

var transitionActions = map[transitionKey]Action{
	{RequestStatusDraft, RequestStatusSubmitted}:     ActionSubmit,
	{RequestStatusSubmitted, RequestStatusScheduled}: ActionSchedule,
	{RequestStatusFailed, RequestStatusScheduled}:    ActionSchedule,
	{RequestStatusSubmitted, RequestStatusDeclined}:  ActionDecline,
	{RequestStatusScheduled, RequestStatusDone}:      ActionCompleteWork,
	{RequestStatusScheduled, RequestStatusFailed}:    ActionReportIssue,
	{RequestStatusDone, RequestStatusClosed}:         ActionClose,
	{RequestStatusDeclined, RequestStatusClosed}:     ActionClose,
}

// CanRolePerformTransition validates the edge against the status graph, then
// checks the role may perform its triggering action at the source status.
// Both checks must hold.
func CanRolePerformTransition(role Role, from, to RequestStatus) bool {
	if !CanTransition(from, to) {
		return false
	}
	action, ok := transitionActions[transitionKey{from, to}]
	if !ok {
		return false
	}
	return RoleCanPerform(role, from, action)
}
