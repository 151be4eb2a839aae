package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from    RequestStatus
		to      RequestStatus
		allowed bool
	}{
		{RequestStatusDraft, RequestStatusSubmitted, true},
		{RequestStatusSubmitted, RequestStatusScheduled, true},
		{RequestStatusSubmitted, RequestStatusDeclined, true},
		{RequestStatusScheduled, RequestStatusDone, true},
		{RequestStatusScheduled, RequestStatusFailed, true},
		{RequestStatusFailed, RequestStatusScheduled, true},
		{RequestStatusDone, RequestStatusClosed, true},
		{RequestStatusDeclined, RequestStatusClosed, true},

		{RequestStatusDraft, RequestStatusScheduled, false},
		{RequestStatusDraft, RequestStatusDeclined, false},
		{RequestStatusSubmitted, RequestStatusDone, false},
		{RequestStatusDone, RequestStatusScheduled, false},
		{RequestStatusClosed, RequestStatusDone, false},
		{RequestStatusClosed, RequestStatusDraft, false},
		{RequestStatusFailed, RequestStatusDone, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestStatusPredicates(t *testing.T) {
	assert.True(t, RequestStatusDraft.IsEditable())
	assert.True(t, RequestStatusSubmitted.IsEditable())
	assert.True(t, RequestStatusScheduled.IsEditable())
	assert.True(t, RequestStatusFailed.IsEditable())
	assert.False(t, RequestStatusDone.IsEditable())
	assert.False(t, RequestStatusDeclined.IsEditable())
	assert.False(t, RequestStatusClosed.IsEditable())

	assert.True(t, RequestStatusDraft.IsCancellable())
	assert.True(t, RequestStatusSubmitted.IsCancellable())
	assert.False(t, RequestStatusScheduled.IsCancellable())
	assert.False(t, RequestStatusClosed.IsCancellable())

	assert.True(t, RequestStatusClosed.IsFinal())
	assert.False(t, RequestStatusDone.IsFinal())
	assert.False(t, RequestStatusDeclined.IsFinal())
}

func TestClosedHasNoOutgoingEdges(t *testing.T) {
	for _, status := range []RequestStatus{
		RequestStatusDraft, RequestStatusSubmitted, RequestStatusScheduled,
		RequestStatusDone, RequestStatusFailed, RequestStatusDeclined, RequestStatusClosed,
	} {
		assert.False(t, CanTransition(RequestStatusClosed, status))
	}
}
