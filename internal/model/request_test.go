package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{RequestStatusPending, RequestStatusApproved, true},
		{RequestStatusPending, RequestStatusRejected, true},
		{RequestStatusApproved, RequestStatusFulfilled, true},
		{RequestStatusPending, RequestStatusFulfilled, false},
		{RequestStatusApproved, RequestStatusRejected, false},
		{RequestStatusRejected, RequestStatusApproved, false},
		{RequestStatusFulfilled, RequestStatusApproved, false},
		{RequestStatusApproved, RequestStatusPending, false},
		{"", RequestStatusApproved, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

// REJECTED and FULFILLED admit no further transitions
func TestTerminalStatusesHaveNoEdges(t *testing.T) {
	for _, terminal := range []string{RequestStatusRejected, RequestStatusFulfilled} {
		for _, to := range []string{RequestStatusPending, RequestStatusApproved, RequestStatusRejected, RequestStatusFulfilled} {
			assert.False(t, CanTransition(terminal, to), "%s -> %s", terminal, to)
		}
	}
}
