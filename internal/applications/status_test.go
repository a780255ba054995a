package applications

import (
	"testing"

	"servicenova/pkg/types"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := map[[2]types.ApplicationStatus]bool{
		{types.ApplicationStatusPending, types.ApplicationStatusInterviewScheduled}:  true,
		{types.ApplicationStatusPending, types.ApplicationStatusRejected}:            true,
		{types.ApplicationStatusInterviewScheduled, types.ApplicationStatusApproved}: true,
		{types.ApplicationStatusInterviewScheduled, types.ApplicationStatusRejected}: true,
	}

	for _, from := range types.AllApplicationStatuses {
		for _, to := range types.AllApplicationStatuses {
			want := allowed[[2]types.ApplicationStatus{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}

	assert.False(t, CanTransition("archived", types.ApplicationStatusPending))
}

func TestNextStatuses(t *testing.T) {
	assert.Equal(t, []types.ApplicationStatus{
		types.ApplicationStatusInterviewScheduled,
		types.ApplicationStatusRejected,
	}, NextStatuses(types.ApplicationStatusPending))
	assert.Empty(t, NextStatuses(types.ApplicationStatusApproved))

	next := NextStatuses(types.ApplicationStatusPending)
	next[0] = types.ApplicationStatusApproved
	assert.True(t, CanTransition(types.ApplicationStatusPending, types.ApplicationStatusInterviewScheduled))
}
