package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestWorkflowCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	w := NewWorkflow(reg)

	w.Transition("pending", "interview_scheduled", "ok")
	w.Transition("approved", "rejected", "invalid")
	w.Transition("approved", "rejected", "invalid")
	w.Notification(true)
	w.Notification(false)
	w.Resolution("provider")
	w.Submission("")

	assert.Equal(t, 1.0, testutil.ToFloat64(w.transitions.WithLabelValues("pending", "interview_scheduled", "ok")))
	assert.Equal(t, 2.0, testutil.ToFloat64(w.transitions.WithLabelValues("approved", "rejected", "invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(w.notifications.WithLabelValues("sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(w.notifications.WithLabelValues("failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(w.resolutions.WithLabelValues("provider")))
	assert.Equal(t, 1.0, testutil.ToFloat64(w.submissions.WithLabelValues("unknown")))
}

func TestNilWorkflowIsNoop(t *testing.T) {
	var w *Workflow
	assert.NotPanics(t, func() {
		w.Transition("a", "b", "ok")
		w.Notification(true)
		NewWorkflow(nil).Resolution("client")
	})
}
