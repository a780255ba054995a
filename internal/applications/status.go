package applications

import (
	"slices"

	"servicenova/pkg/types"
)

// transitions is the complete workflow. Statuses missing from the map, and
// the terminal ones mapped to nil, accept nothing.
var transitions = map[types.ApplicationStatus][]types.ApplicationStatus{
	types.ApplicationStatusPending: {
		types.ApplicationStatusInterviewScheduled,
		types.ApplicationStatusRejected,
	},
	types.ApplicationStatusInterviewScheduled: {
		types.ApplicationStatusApproved,
		types.ApplicationStatusRejected,
	},
	types.ApplicationStatusApproved: nil,
	types.ApplicationStatusRejected: nil,
}

func CanTransition(from, to types.ApplicationStatus) bool {
	return slices.Contains(transitions[from], to)
}

// NextStatuses lists the statuses reachable from the given one.
func NextStatuses(from types.ApplicationStatus) []types.ApplicationStatus {
	return slices.Clone(transitions[from])
}

func checkTransition(application *types.ProviderApplication, to types.ApplicationStatus) error {
	if CanTransition(application.Status, to) {
		return nil
	}

	return &types.TransitionError{
		ApplicationID: application.ID,
		From:          application.Status,
		To:            to,
	}
}
