package server

import (
	"net/http"
	"strings"

	"servicenova/pkg/types"
)

func (s *Service) handleHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data := &types.HomePageData{
		BasePageData: types.BasePageData{Title: "ServiceNova"},
		Notice:       strings.TrimSpace(r.URL.Query().Get("notice")),
		Error:        strings.TrimSpace(r.URL.Query().Get("error")),
	}

	if identity, ok := identityFromContext(ctx); ok {
		existing, err := s.applications.ApplicationsByUser(ctx, identity.UserID)
		if err != nil {
			s.logger.WithError(err).WithField("user_id", identity.UserID).Error("failed to load applications for home page")
		} else if len(existing) > 0 {
			data.LatestApplication = existing[0]
		}
	}

	if err := s.renderTemplate(w, r, "page.home", data); err != nil {
		s.logger.WithError(err).Error("failed to render home page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Service) internalServerError(w http.ResponseWriter) {
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
