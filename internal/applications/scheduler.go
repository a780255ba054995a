package applications

import (
	"context"
	"errors"
	"strings"

	"servicenova/internal/notify"
	"servicenova/internal/utils"
	"servicenova/pkg/types"

	"github.com/sirupsen/logrus"
)

var errNoRecipient = errors.New("application has no email address")

// ScheduleResult is the outcome of a committed interview scheduling.
// NotificationErr is non-nil when the applicant could not be told; the
// transition stands regardless.
type ScheduleResult struct {
	Application     *types.ProviderApplication
	MeetingLink     string
	NotificationErr *types.NotificationError
}

func (r *ScheduleResult) Notified() bool {
	return r.NotificationErr == nil
}

// ScheduleInterview moves a pending application to interview_scheduled with
// a fresh meeting link, then notifies the applicant. The status change is
// committed before, and independently of, notification delivery.
func (s *Service) ScheduleInterview(ctx context.Context, applicationID string) (*ScheduleResult, error) {
	to := types.ApplicationStatusInterviewScheduled

	application, err := s.repo.Application(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if err := checkTransition(application, to); err != nil {
		s.rejectTransition(application, to, err)
		return nil, err
	}

	link := s.meetingLink()
	updated, err := s.repo.UpdateApplication(ctx, applicationID, application.Status, types.ApplicationUpdate{
		Status:        &to,
		InterviewLink: &link,
	})
	if err != nil {
		if errors.Is(err, types.ErrInvalidTransition) {
			s.rejectTransition(application, to, err)
		}
		return nil, err
	}

	s.metrics.Transition(application.Status.String(), to.String(), "ok")
	s.logger.WithFields(logrus.Fields{
		"application_id": applicationID,
		"from":           application.Status,
		"to":             to,
	}).Info("interview scheduled")

	result := &ScheduleResult{
		Application: updated,
		MeetingLink: link,
	}
	result.NotificationErr = s.notifyInterview(ctx, updated, link)

	return result, nil
}

func (s *Service) notifyInterview(ctx context.Context, application *types.ProviderApplication, link string) *types.NotificationError {
	recipient := utils.PtrString(application.Email)

	var err error
	if recipient == "" {
		err = errNoRecipient
	} else {
		err = s.dispatcher.Send(ctx, notify.InterviewNotification{
			To:            recipient,
			ApplicantName: application.FullName,
			InterviewDate: utils.PtrTime(application.PreferredInterviewDate),
			MeetingLink:   link,
		})
	}

	s.metrics.Notification(err == nil)
	if err == nil {
		return nil
	}

	s.logger.WithError(err).WithFields(logrus.Fields{
		"application_id": application.ID,
		"to":             recipient,
	}).Warn("interview scheduled but notification failed")

	return &types.NotificationError{Recipient: recipient, Err: err}
}

func (s *Service) meetingLink() string {
	return strings.TrimSuffix(s.meetingBaseURL, "/") + "/" + s.meetingCode()
}

// SetStatus approves or rejects an application. Only the terminal statuses
// are reachable this way; interview scheduling goes through
// ScheduleInterview so the meeting link is always set with it.
func (s *Service) SetStatus(ctx context.Context, applicationID string, to types.ApplicationStatus, adminNotes *string) (*types.ProviderApplication, error) {
	application, err := s.repo.Application(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	if !to.IsTerminal() {
		err := &types.TransitionError{ApplicationID: applicationID, From: application.Status, To: to}
		s.rejectTransition(application, to, err)
		return nil, err
	}

	if err := checkTransition(application, to); err != nil {
		s.rejectTransition(application, to, err)
		return nil, err
	}

	update := types.ApplicationUpdate{Status: &to}
	if notes := utils.TrimmedPtr(utils.PtrString(adminNotes)); notes != nil {
		update.AdminNotes = notes
	}

	updated, err := s.repo.UpdateApplication(ctx, applicationID, application.Status, update)
	if err != nil {
		if errors.Is(err, types.ErrInvalidTransition) {
			s.rejectTransition(application, to, err)
		}
		return nil, err
	}

	s.metrics.Transition(application.Status.String(), to.String(), "ok")
	s.logger.WithFields(logrus.Fields{
		"application_id": applicationID,
		"from":           application.Status,
		"to":             to,
	}).Info("application status updated")

	return updated, nil
}

func (s *Service) rejectTransition(application *types.ProviderApplication, to types.ApplicationStatus, err error) {
	s.metrics.Transition(application.Status.String(), to.String(), "invalid")
	s.logger.WithError(err).WithField("application_id", application.ID).Info("rejected status transition")
}
