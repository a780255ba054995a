package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"servicenova/internal"
	"servicenova/internal/gate"
	"servicenova/pkg/types"

	"github.com/sirupsen/logrus"
)

// Context key types to avoid collisions
type contextKey string

const (
	contextKeyIdentity contextKey = "identity"
	contextKeyRole     contextKey = "role"
)

var errNoAccessToken = errors.New("no access token cookie found")

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Service) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		s.logger.WithFields(logrus.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rw.statusCode,
			"duration_ms": time.Since(started).Milliseconds(),
		}).Info("http request")
	})
}

// authenticate reads and verifies the access token cookie.
func (s *Service) authenticate(r *http.Request) (types.Identity, error) {
	cookie, err := r.Cookie(internal.COOKIE_ACCESS_TOKEN_NAME)
	if err != nil {
		return types.Identity{}, errNoAccessToken
	}

	var accessToken string
	err = s.cookie.Decode(internal.COOKIE_ACCESS_TOKEN_NAME, cookie.Value, &accessToken)
	if err != nil {
		return types.Identity{}, err
	}

	return s.verifier.Verify(r.Context(), accessToken)
}

// RequireAuth middleware checks for valid access token and adds the identity
// to the request context. Signed out callers are sent to login with the
// requested page remembered.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := s.authenticate(r)
		if err != nil {
			if errors.Is(err, errNoAccessToken) {
				s.logger.WithError(err).Debug("unauthenticated request")
			} else {
				s.logger.WithError(err).Warn("rejected access token")
			}

			decision := gate.Evaluate(gate.Route{Path: r.URL.RequestURI()}, true, nil, "")
			s.setRedirectCookie(w, gate.SafeNext(r.URL.RequestURI()), time.Minute*5)
			http.Redirect(w, r, decision.Redirect, http.StatusSeeOther)
			return
		}

		s.logger.WithField("user_id", identity.UserID).Debug("authenticated user")

		ctx := context.WithValue(r.Context(), contextKeyIdentity, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth adds the identity to the context when a valid token is
// present and otherwise lets the request through untouched.
func (s *Service) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := s.authenticate(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyIdentity, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole admits only callers whose resolved role matches. It must run
// after RequireAuth. Mismatches are redirected home without an error page.
// A mismatch against a cached role is re-resolved once before redirecting.
func (s *Service) RequireRole(required types.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := gate.Route{Path: r.URL.Path, Required: required}

			identity, ok := identityFromContext(r.Context())
			if !ok {
				decision := gate.Evaluate(route, true, nil, "")
				http.Redirect(w, r, decision.Redirect, http.StatusSeeOther)
				return
			}

			cached := s.cachedRole(r, identity) != ""
			role, err := s.resolveRole(w, r, identity, true)
			decision := gate.Evaluate(route, true, &identity, role)

			// A cached role may admit a caller but never turns one away; a
			// refusal is confirmed against the current applications first.
			if err == nil && cached && decision.State == gate.Unauthorized {
				role, err = s.resolveRole(w, r, identity, false)
				decision = gate.Evaluate(route, true, &identity, role)
			}

			if err != nil {
				s.logger.WithError(err).WithField("user_id", identity.UserID).Error("failed to resolve role")
				s.redirectWithError(w, r, "/", "We could not check your access right now. Please try again.")
				return
			}

			switch decision.State {
			case gate.Authorized:
				ctx := context.WithValue(r.Context(), contextKeyRole, role)
				next.ServeHTTP(w, r.WithContext(ctx))
			case gate.Unauthorized, gate.Unauthenticated:
				s.logger.WithFields(logrus.Fields{
					"user_id":  identity.UserID,
					"role":     role,
					"required": required,
					"path":     r.URL.Path,
				}).Info("role gate redirect")
				http.Redirect(w, r, decision.Redirect, http.StatusSeeOther)
			default:
				w.Header().Set("Retry-After", "1")
				http.Error(w, "access check in progress", http.StatusServiceUnavailable)
			}
		})
	}
}

func (s *Service) StripTrailingSlash(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		// Only strip if path is not root and has trailing slash
		if path != "/" && strings.HasSuffix(path, "/") {
			newURL := *r.URL
			newURL.Path = strings.TrimSuffix(path, "/")

			http.Redirect(w, r, newURL.String(), http.StatusMovedPermanently)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func identityFromContext(ctx context.Context) (types.Identity, bool) {
	identity, ok := ctx.Value(contextKeyIdentity).(types.Identity)
	if !ok || identity.UserID == "" {
		return types.Identity{}, false
	}
	return identity, true
}

func roleFromContext(ctx context.Context) types.Role {
	role, _ := ctx.Value(contextKeyRole).(types.Role)
	return role
}
