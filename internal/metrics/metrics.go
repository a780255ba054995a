package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Workflow records provider application lifecycle events.
type Workflow struct {
	submissions   *prometheus.CounterVec
	transitions   *prometheus.CounterVec
	notifications *prometheus.CounterVec
	resolutions   *prometheus.CounterVec
}

// NewWorkflow registers the workflow metrics on the provided registerer. A nil
// registerer yields a no-op recorder.
func NewWorkflow(reg prometheus.Registerer) *Workflow {
	if reg == nil {
		return &Workflow{}
	}

	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "provider_application_submissions_total",
		Help: "Provider application submissions by outcome.",
	}, []string{"result"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "provider_application_transitions_total",
		Help: "Provider application status transitions by outcome.",
	}, []string{"from", "to", "result"})
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "interview_notifications_total",
		Help: "Interview notification deliveries by outcome.",
	}, []string{"result"})
	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "role_resolutions_total",
		Help: "Role resolutions by resolved role.",
	}, []string{"role"})

	reg.MustRegister(submissions, transitions, notifications, resolutions)

	return &Workflow{
		submissions:   submissions,
		transitions:   transitions,
		notifications: notifications,
		resolutions:   resolutions,
	}
}

func (w *Workflow) Submission(result string) {
	if w == nil || w.submissions == nil {
		return
	}
	w.submissions.WithLabelValues(normalizeLabel(result)).Inc()
}

func (w *Workflow) Transition(from, to, result string) {
	if w == nil || w.transitions == nil {
		return
	}
	w.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to), normalizeLabel(result)).Inc()
}

func (w *Workflow) Notification(sent bool) {
	if w == nil || w.notifications == nil {
		return
	}
	result := "failed"
	if sent {
		result = "sent"
	}
	w.notifications.WithLabelValues(result).Inc()
}

func (w *Workflow) Resolution(role string) {
	if w == nil || w.resolutions == nil {
		return
	}
	w.resolutions.WithLabelValues(normalizeLabel(role)).Inc()
}

func normalizeLabel(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "unknown"
	}
	return v
}
