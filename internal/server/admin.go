package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"servicenova/internal/applications"
	"servicenova/pkg/types"

	"github.com/sirupsen/logrus"
)

const adminApplicationsPath = "/admin/applications"

func (s *Service) handleGetAdminApplications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	all, err := s.applications.Applications(ctx)
	if err != nil {
		s.logger.WithError(err).Error("failed to list applications")
		s.internalServerError(w)
		return
	}

	data := &types.AdminApplicationsPageData{
		BasePageData: types.BasePageData{Title: "Provider Applications"},
		Notice:       strings.TrimSpace(r.URL.Query().Get("notice")),
		Error:        strings.TrimSpace(r.URL.Query().Get("error")),
		Pending:      make([]types.AdminApplicationRow, 0),
		Reviewed:     make([]types.AdminApplicationRow, 0),
	}

	for _, application := range all {
		row := types.AdminApplicationRow{
			Application:        application,
			IdentityProofURL:   s.applications.DocumentURL(application.IdentityProofRef),
			ExperienceProofURL: s.applications.DocumentURL(application.ExperienceProofRef),
			CanSchedule:        applications.CanTransition(application.Status, types.ApplicationStatusInterviewScheduled),
			CanApprove:         applications.CanTransition(application.Status, types.ApplicationStatusApproved),
			CanReject:          applications.CanTransition(application.Status, types.ApplicationStatusRejected),
		}

		if application.Status.IsTerminal() {
			data.Reviewed = append(data.Reviewed, row)
		} else {
			data.Pending = append(data.Pending, row)
		}
	}

	if err := s.renderTemplate(w, r, "page.admin.applications", data); err != nil {
		s.logger.WithError(err).Error("failed to render admin applications page")
		s.internalServerError(w)
		return
	}
}

// requireFreshAdmin re-resolves the caller's role without the session cache.
// Status mutations are never authorized from a cached role.
func (s *Service) requireFreshAdmin(w http.ResponseWriter, r *http.Request) bool {
	identity, ok := identityFromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return false
	}

	role, err := s.resolveRole(w, r, identity, false)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", identity.UserID).Error("failed to re-resolve admin role")
		s.redirectWithError(w, r, adminApplicationsPath, "We could not confirm your admin access. Please try again.")
		return false
	}

	if role != types.RoleAdmin {
		s.logger.WithFields(logrus.Fields{
			"user_id": identity.UserID,
			"role":    role,
		}).Warn("status change attempted without admin role")
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return false
	}

	return true
}

func (s *Service) handlePostScheduleInterview(w http.ResponseWriter, r *http.Request) {
	if !s.requireFreshAdmin(w, r) {
		return
	}

	applicationID := strings.TrimSpace(r.PathValue("id"))

	result, err := s.applications.ScheduleInterview(r.Context(), applicationID)
	if err != nil {
		s.redirectWithError(w, r, adminApplicationsPath, s.transitionErrorMessage(err, applicationID))
		return
	}

	notice := fmt.Sprintf("Interview scheduled for %s.", result.Application.FullName)
	if result.Notified() {
		s.redirectWithNotice(w, r, adminApplicationsPath, notice+" The applicant has been emailed the meeting link.")
		return
	}

	v := url.Values{}
	v.Set("notice", notice)
	v.Set("error", fmt.Sprintf("The applicant could not be emailed (%v). Share the meeting link manually: %s", result.NotificationErr.Err, result.MeetingLink))
	http.Redirect(w, r, adminApplicationsPath+"?"+v.Encode(), http.StatusSeeOther)
}

func (s *Service) handlePostApplicationStatus(w http.ResponseWriter, r *http.Request) {
	if !s.requireFreshAdmin(w, r) {
		return
	}

	applicationID := strings.TrimSpace(r.PathValue("id"))

	if err := r.ParseForm(); err != nil {
		s.redirectWithError(w, r, adminApplicationsPath, "invalid form payload")
		return
	}

	var form types.AdminStatusForm
	if err := decoder.Decode(&form, r.PostForm); err != nil {
		s.logger.WithError(err).Error("failed to decode status form")
		s.redirectWithError(w, r, adminApplicationsPath, "invalid form payload")
		return
	}

	status, err := types.ParseApplicationStatus(form.Status)
	if err != nil {
		s.redirectWithError(w, r, adminApplicationsPath, fmt.Sprintf("Unknown status %q.", form.Status))
		return
	}

	notes := form.AdminNotes
	updated, err := s.applications.SetStatus(r.Context(), applicationID, status, &notes)
	if err != nil {
		s.redirectWithError(w, r, adminApplicationsPath, s.transitionErrorMessage(err, applicationID))
		return
	}

	s.redirectWithNotice(w, r, adminApplicationsPath, fmt.Sprintf("%s is now %s.", updated.FullName, strings.ReplaceAll(updated.Status.String(), "_", " ")))
}

func (s *Service) transitionErrorMessage(err error, applicationID string) string {
	var transitionErr *types.TransitionError

	switch {
	case errors.Is(err, types.ErrApplicationNotFound):
		return "Application not found."
	case errors.As(err, &transitionErr):
		return fmt.Sprintf("Cannot move an application from %s to %s.",
			strings.ReplaceAll(transitionErr.From.String(), "_", " "),
			strings.ReplaceAll(transitionErr.To.String(), "_", " "))
	default:
		s.logger.WithError(err).WithField("application_id", applicationID).Error("failed to update application status")
		return "Something went wrong updating the application. Please try again."
	}
}
