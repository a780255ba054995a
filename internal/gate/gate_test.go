package gate

import (
	"testing"

	"servicenova/pkg/types"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	asha := &types.Identity{UserID: "user-asha"}
	adminRoute := Route{Path: "/admin/applications", Required: types.RoleAdmin}
	providerRoute := Route{Path: "/provider/dashboard", Required: types.RoleProvider}
	anyRoute := Route{Path: "/provider/application"}

	tests := []struct {
		name          string
		route         Route
		identityKnown bool
		identity      *types.Identity
		role          types.Role
		want          Decision
	}{
		{
			name:  "nothing known yet",
			route: adminRoute,
			want:  Decision{State: Unknown},
		},
		{
			name:          "signed out",
			route:         providerRoute,
			identityKnown: true,
			want:          Decision{State: Unauthenticated, Redirect: "/login?next=%2Fprovider%2Fdashboard"},
		},
		{
			name:          "role still resolving",
			route:         adminRoute,
			identityKnown: true,
			identity:      asha,
			want:          Decision{State: RoleUnknown},
		},
		{
			name:          "role mismatch goes home",
			route:         adminRoute,
			identityKnown: true,
			identity:      asha,
			role:          types.RoleProvider,
			want:          Decision{State: Unauthorized, Redirect: "/"},
		},
		{
			name:          "client on provider page",
			route:         providerRoute,
			identityKnown: true,
			identity:      asha,
			role:          types.RoleClient,
			want:          Decision{State: Unauthorized, Redirect: "/"},
		},
		{
			name:          "matching role",
			route:         providerRoute,
			identityKnown: true,
			identity:      asha,
			role:          types.RoleProvider,
			want:          Decision{State: Authorized},
		},
		{
			name:          "no role required",
			route:         anyRoute,
			identityKnown: true,
			identity:      asha,
			role:          types.RoleClient,
			want:          Decision{State: Authorized},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.route, tt.identityKnown, tt.identity, tt.role)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got.State == Authorized, got.Render())
		})
	}
}

func TestPendingStatesNeverRedirect(t *testing.T) {
	for _, d := range []Decision{
		Evaluate(Route{Path: "/admin/applications"}, false, nil, ""),
		Evaluate(Route{Path: "/admin/applications"}, true, &types.Identity{UserID: "u"}, ""),
	} {
		assert.True(t, d.Pending())
		assert.False(t, d.Render())
		assert.Empty(t, d.Redirect)
	}
}

func TestSafeNext(t *testing.T) {
	tests := map[string]string{
		"":                          "/",
		"/provider/dashboard":       "/provider/dashboard",
		"/admin/applications?x=1":   "/admin/applications?x=1",
		"https://evil.example.com/": "/",
		"//evil.example.com":        "/",
		"/\\evil.example.com":       "/",
		"dashboard":                 "/",
		"/login":                    "/",
	}

	for in, want := range tests {
		assert.Equal(t, want, SafeNext(in), "SafeNext(%q)", in)
	}
}

func TestLoginRedirect(t *testing.T) {
	assert.Equal(t, "/login", LoginRedirect("/"))
	assert.Equal(t, "/login", LoginRedirect("https://evil.example.com"))
	assert.Equal(t, "/login?next=%2Fadmin%2Fapplications", LoginRedirect("/admin/applications"))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unknown", Unknown.String())
	assert.Equal(t, "role_unknown", RoleUnknown.String())
	assert.Equal(t, "unauthorized", Unauthorized.String())
}
