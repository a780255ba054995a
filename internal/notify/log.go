package notify

import (
	"context"

	"github.com/sirupsen/logrus"
)

// LogDispatcher writes notifications to the log instead of sending them.
// Used when no email provider is configured.
type LogDispatcher struct {
	logger *logrus.Logger
}

func NewLogDispatcher(logger *logrus.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Send(_ context.Context, n InterviewNotification) error {
	if err := n.Validate(); err != nil {
		return err
	}

	d.logger.WithFields(logrus.Fields{
		"to":             n.To,
		"applicant_name": n.ApplicantName,
		"interview_date": n.InterviewDate.Format("2006-01-02T15:04:05Z07:00"),
		"meeting_link":   n.MeetingLink,
	}).Info("interview notification (not sent, no email provider configured)")

	return nil
}
