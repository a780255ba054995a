package server

import (
	"net/http"

	"servicenova/pkg/types"
)

func (s *Service) renderTemplate(w http.ResponseWriter, r *http.Request, templateName string, data any) error {
	if setter, ok := data.(types.NavbarDataSetter); ok {
		navbar := types.NavbarData{}

		if identity, ok := identityFromContext(r.Context()); ok {
			navbar.IsAuthenticated = true
			navbar.UserID = identity.UserID
			navbar.UserEmail = identity.Email

			navbar.Role = roleFromContext(r.Context())
			if navbar.Role == "" {
				navbar.Role = s.cachedRole(r, identity)
			}
		}

		setter.SetNavbarData(navbar)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return s.templates.ExecuteTemplate(w, templateName, data)
}
