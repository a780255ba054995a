package server

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"servicenova/internal/applications"
	"servicenova/internal/roles"
	"servicenova/internal/utils"
	"servicenova/pkg/types"
)

const applicationFormTemplate = "page.provider.application"

// profileIdentity fills the email from the stored user record when the token
// did not carry one.
func (s *Service) profileIdentity(ctx context.Context, identity types.Identity) types.Identity {
	if identity.Email != "" {
		return identity
	}

	user, err := s.users.User(ctx, identity.UserID)
	if err != nil {
		if !errors.Is(err, types.ErrUserNotFound) {
			s.logger.WithError(err).WithField("user_id", identity.UserID).Warn("failed to load user profile")
		}
		return identity
	}

	identity.Email = utils.PtrString(user.Email)
	if identity.Name == "" {
		identity.Name = strings.TrimSpace(utils.PtrString(user.GivenName) + " " + utils.PtrString(user.FamilyName))
	}
	return identity
}

func (s *Service) handleGetApplicationForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := identityFromContext(ctx)
	if !ok {
		s.internalServerError(w)
		return
	}

	existing, err := s.applications.ApplicationsByUser(ctx, identity.UserID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", identity.UserID).Error("failed to load existing applications")
		s.internalServerError(w)
		return
	}

	for _, application := range existing {
		if application.Status == types.ApplicationStatusApproved {
			http.Redirect(w, r, "/provider/dashboard", http.StatusSeeOther)
			return
		}
		if application.Status.IsOpen() {
			s.redirectWithNotice(w, r, "/", "Your provider application is already under review.")
			return
		}
	}

	identity = s.profileIdentity(ctx, identity)

	data := &types.ApplicationFormPageData{
		BasePageData: types.BasePageData{Title: "Become a Provider"},
		Form: types.ApplicationForm{
			FullName: identity.Name,
			Email:    identity.Email,
		},
		ServiceTypes: types.AllServiceTypes,
	}

	if err := s.renderTemplate(w, r, applicationFormTemplate, data); err != nil {
		s.logger.WithError(err).Error("failed to render application form")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handlePostApplicationForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := identityFromContext(ctx)
	if !ok {
		s.internalServerError(w)
		return
	}

	data := &types.ApplicationFormPageData{
		BasePageData: types.BasePageData{Title: "Become a Provider"},
		ServiceTypes: types.AllServiceTypes,
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.config.MaxUploadBytes); err != nil {
		s.logger.WithError(err).WithField("user_id", identity.UserID).Info("failed to parse application form")

		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			data.Error = fmt.Sprintf("Your files are too large. The limit is %d MB in total.", s.config.MaxUploadBytes>>20)
		} else {
			data.Error = "We could not read your application. Please try again."
		}
		s.renderApplicationForm(w, r, http.StatusBadRequest, data)
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	if err := decoder.Decode(&data.Form, r.PostForm); err != nil {
		s.logger.WithError(err).Error("failed to decode application form")
		data.Error = "We could not read your application. Please try again."
		s.renderApplicationForm(w, r, http.StatusBadRequest, data)
		return
	}

	identityProof, closeIdentity := formDocument(r, "identity_proof")
	defer closeIdentity()
	experienceProof, closeExperience := formDocument(r, "experience_proof")
	defer closeExperience()

	identity = s.profileIdentity(ctx, identity)

	submission, verr := applications.ParseForm(identity, data.Form, identityProof, experienceProof)
	if verr != nil {
		data.Error = "Please fix the highlighted fields."
		data.FieldErrors = verr.Fields
		s.renderApplicationForm(w, r, http.StatusUnprocessableEntity, data)
		return
	}

	application, err := s.applications.Submit(ctx, submission)
	if err != nil {
		var validationErr *types.ValidationError
		var uploadErr *types.UploadError

		switch {
		case errors.As(err, &validationErr):
			data.Error = "Please fix the highlighted fields."
			data.FieldErrors = validationErr.Fields
			s.renderApplicationForm(w, r, http.StatusUnprocessableEntity, data)
		case errors.Is(err, types.ErrApplicationOpen):
			s.redirectWithError(w, r, "/", "You already have an application under review or approved.")
		case errors.As(err, &uploadErr):
			data.Error = fmt.Sprintf("We could not upload your %s document. Please try again.", uploadErr.DocumentType)
			s.renderApplicationForm(w, r, http.StatusBadGateway, data)
		default:
			s.logger.WithError(err).WithField("user_id", identity.UserID).Error("failed to submit provider application")
			data.Error = "Something went wrong while submitting your application. Please try again."
			s.renderApplicationForm(w, r, http.StatusInternalServerError, data)
		}
		return
	}

	http.Redirect(w, r, "/provider/application/success?id="+application.ID, http.StatusSeeOther)
}

func (s *Service) renderApplicationForm(w http.ResponseWriter, r *http.Request, status int, data *types.ApplicationFormPageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.renderTemplate(w, r, applicationFormTemplate, data); err != nil {
		s.logger.WithError(err).Error("failed to render application form with errors")
	}
}

// formDocument returns the uploaded file for field, or nil when none was
// sent. The returned func closes the file.
func formDocument(r *http.Request, field string) (*applications.Document, func()) {
	file, header, err := r.FormFile(field)
	if err != nil {
		return nil, func() {}
	}

	if header.Size == 0 {
		_ = file.Close()
		return nil, func() {}
	}

	return &applications.Document{
		FileName:    header.Filename,
		ContentType: documentContentType(header),
		Size:        header.Size,
		Body:        file,
	}, func() { _ = file.Close() }
}

func documentContentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

func (s *Service) handleGetApplicationSuccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := identityFromContext(ctx)
	if !ok {
		s.internalServerError(w)
		return
	}

	applicationID := strings.TrimSpace(r.URL.Query().Get("id"))
	application, err := s.applications.Application(ctx, applicationID)
	if err != nil || application.UserID != identity.UserID {
		if err != nil && !errors.Is(err, types.ErrApplicationNotFound) {
			s.logger.WithError(err).WithField("application_id", applicationID).Error("failed to load application")
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := &types.ApplicationSuccessPageData{
		BasePageData: types.BasePageData{Title: "Application Submitted"},
		Application:  application,
	}

	if err := s.renderTemplate(w, r, "page.provider.application.success", data); err != nil {
		s.logger.WithError(err).Error("failed to render application success page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handleGetProviderDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, ok := identityFromContext(ctx)
	if !ok {
		s.internalServerError(w)
		return
	}

	existing, err := s.applications.ApplicationsByUser(ctx, identity.UserID)
	if err != nil {
		s.logger.WithError(err).WithField("user_id", identity.UserID).Error("failed to load applications for dashboard")
		s.internalServerError(w)
		return
	}

	resolution := roles.Derive(false, existing)
	if resolution.Application == nil {
		// The cached role was stale; drop it so the next page resolves again.
		s.clearRoleSession(w)
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	data := &types.ProviderDashboardPageData{
		BasePageData:       types.BasePageData{Title: "Provider Dashboard"},
		Application:        resolution.Application,
		IdentityProofURL:   s.applications.DocumentURL(resolution.Application.IdentityProofRef),
		ExperienceProofURL: s.applications.DocumentURL(resolution.Application.ExperienceProofRef),
	}

	if err := s.renderTemplate(w, r, "page.provider.dashboard", data); err != nil {
		s.logger.WithError(err).Error("failed to render provider dashboard")
		s.internalServerError(w)
		return
	}
}
