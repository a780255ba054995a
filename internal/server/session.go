package server

import (
	"net/http"
	"time"

	"servicenova/internal"
	"servicenova/internal/roles"
	"servicenova/pkg/types"
)

func (s *Service) roleCacheTTL() time.Duration {
	return time.Duration(s.config.RoleCacheTTLSec) * time.Second
}

func (s *Service) readRoleSession(r *http.Request) (roles.Session, bool) {
	cookie, err := r.Cookie(internal.COOKIE_ROLE_SESSION_NAME)
	if err != nil {
		return roles.Session{}, false
	}

	var session roles.Session
	if err := s.cookie.Decode(internal.COOKIE_ROLE_SESSION_NAME, cookie.Value, &session); err != nil {
		s.logger.WithError(err).Debug("discarding unreadable role session")
		return roles.Session{}, false
	}

	return session, true
}

func (s *Service) writeRoleSession(w http.ResponseWriter, session roles.Session) {
	if s.roleCacheTTL() <= 0 {
		return
	}

	encoded, err := s.cookie.Encode(internal.COOKIE_ROLE_SESSION_NAME, session)
	if err != nil {
		s.logger.WithError(err).Warn("failed to encode role session")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ROLE_SESSION_NAME,
		Value:    encoded,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(s.roleCacheTTL().Seconds()),
	})
}

func (s *Service) clearRoleSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     internal.COOKIE_ROLE_SESSION_NAME,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// cachedRole returns the role from a still valid session cookie, or "".
func (s *Service) cachedRole(r *http.Request, identity types.Identity) types.Role {
	session, ok := s.readRoleSession(r)
	if !ok || !session.ValidFor(identity.UserID, s.now(), s.roleCacheTTL()) {
		return ""
	}
	return session.Role
}

// resolveRole answers from the session cookie when allowed and fresh, and
// otherwise asks the resolver and refreshes the cookie.
func (s *Service) resolveRole(w http.ResponseWriter, r *http.Request, identity types.Identity, allowCache bool) (types.Role, error) {
	if allowCache {
		if role := s.cachedRole(r, identity); role != "" {
			return role, nil
		}
	}

	resolution, err := s.roles.Resolve(r.Context(), identity)
	if err != nil {
		return "", err
	}

	s.writeRoleSession(w, roles.NewSession(identity.UserID, resolution, s.now()))

	return resolution.Role, nil
}
