// Package gate decides whether a request for a protected page is rendered or
// redirected, given what is known about the caller so far.
package gate

import (
	"net/url"
	"strings"

	"servicenova/pkg/types"
)

type State int

const (
	// Unknown is the initial state; nothing about the caller is known yet.
	Unknown State = iota
	Unauthenticated
	// RoleUnknown means the caller is signed in but their role has not been
	// resolved. Nothing is rendered and nobody is redirected.
	RoleUnknown
	Authorized
	Unauthorized
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case RoleUnknown:
		return "role_unknown"
	case Authorized:
		return "authorized"
	case Unauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

const (
	LoginPath = "/login"
	HomePath  = "/"
)

// Route is a protected page. An empty Required role admits any signed-in
// caller.
type Route struct {
	Path     string
	Required types.Role
}

// Decision is the outcome of one gate evaluation. Redirect is set for the
// Unauthenticated and Unauthorized states only.
type Decision struct {
	State    State
	Redirect string
}

func (d Decision) Render() bool {
	return d.State == Authorized
}

func (d Decision) Pending() bool {
	return d.State == Unknown || d.State == RoleUnknown
}

// Evaluate walks Unknown → Unauthenticated | RoleUnknown → Authorized |
// Unauthorized. identityKnown is false while authentication is still being
// established; identity is nil when the caller is known to be signed out; role
// is empty until resolution completes.
func Evaluate(route Route, identityKnown bool, identity *types.Identity, role types.Role) Decision {
	if !identityKnown {
		return Decision{State: Unknown}
	}

	if identity == nil || identity.UserID == "" {
		return Decision{State: Unauthenticated, Redirect: LoginRedirect(route.Path)}
	}

	if role == "" {
		return Decision{State: RoleUnknown}
	}

	if route.Required != "" && route.Required != role {
		return Decision{State: Unauthorized, Redirect: HomePath}
	}

	return Decision{State: Authorized}
}

// LoginRedirect builds the login URL carrying the page to return to.
func LoginRedirect(requested string) string {
	next := SafeNext(requested)
	if next == HomePath {
		return LoginPath
	}

	v := url.Values{}
	v.Set("next", next)
	return LoginPath + "?" + v.Encode()
}

// SafeNext restricts a post-login target to a local path. Anything else,
// including protocol-relative and absolute URLs, falls back to home.
func SafeNext(next string) string {
	next = strings.TrimSpace(next)
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return HomePath
	}

	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return HomePath
	}

	if u.Path == LoginPath {
		return HomePath
	}

	return next
}
