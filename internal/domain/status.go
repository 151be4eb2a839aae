package domain

// RequestStatus enumerates lifecycle states for maintenance requests.
type RequestStatus string

const (
	RequestStatusDraft     RequestStatus = "DRAFT"
	RequestStatusSubmitted RequestStatus = "SUBMITTED"
	RequestStatusScheduled RequestStatus = "SCHEDULED"
	RequestStatusDone      RequestStatus = "DONE"
	RequestStatusFailed    RequestStatus = "FAILED"
	RequestStatusDeclined  RequestStatus = "DECLINED"
	RequestStatusClosed    RequestStatus = "CLOSED"
)

var allowedTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusDraft:     {RequestStatusSubmitted},
	RequestStatusSubmitted: {RequestStatusScheduled, RequestStatusDeclined},
	RequestStatusScheduled: {RequestStatusDone, RequestStatusFailed},
	RequestStatusFailed:    {RequestStatusScheduled},
	RequestStatusDone:      {RequestStatusClosed},
	RequestStatusDeclined:  {RequestStatusClosed},
	RequestStatusClosed:    {},
}

// CanTransition reports whether the status graph contains the edge current -> next.
func CanTransition(current, next RequestStatus) bool {
	for _, candidate := range allowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsEditable reports whether request fields may still change in this status.
func (s RequestStatus) IsEditable() bool {
	switch s {
	case RequestStatusDone, RequestStatusClosed, RequestStatusDeclined:
		return false
	default:
		return true
	}
}

// IsCancellable reports whether the tenant may still withdraw the request.
func (s RequestStatus) IsCancellable() bool {
	return s == RequestStatusDraft || s == RequestStatusSubmitted
}

// IsFinal reports whether the status has no outgoing transitions.
func (s RequestStatus) IsFinal() bool {
	return s == RequestStatusClosed
}

// InvalidTransitionError reports an attempted status change outside the graph.
type InvalidTransitionError struct {
	From RequestStatus
	To   RequestStatus
}

func (e *InvalidTransitionError) Error() string {
	return "invalid status transition from " + string(e.From) + " to " + string(e.To)
}
