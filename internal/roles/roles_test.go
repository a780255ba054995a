package roles

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"servicenova/internal/applications"
	"servicenova/internal/metrics"
	"servicenova/internal/notify"
	"servicenova/internal/store"
	"servicenova/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	cognitotypes "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticAdmins map[string]bool

func (s staticAdmins) IsAdmin(_ context.Context, identity types.Identity) (bool, error) {
	return s[identity.UserID], nil
}

type failingAdmins struct{}

func (failingAdmins) IsAdmin(context.Context, types.Identity) (bool, error) {
	return false, errors.New("cognito unavailable")
}

func application(id string, status types.ApplicationStatus, updated time.Time) *types.ProviderApplication {
	return &types.ProviderApplication{ID: id, UserID: "u1", Status: status, UpdatedAt: updated}
}

func TestDerive(t *testing.T) {
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name         string
		isAdmin      bool
		applications []*types.ProviderApplication
		wantRole     types.Role
		wantApp      string
	}{
		{name: "no applications", wantRole: types.RoleClient},
		{
			name:         "admin overrides approval",
			isAdmin:      true,
			applications: []*types.ProviderApplication{application("a1", types.ApplicationStatusApproved, base)},
			wantRole:     types.RoleAdmin,
		},
		{
			name: "only open or rejected",
			applications: []*types.ProviderApplication{
				application("a1", types.ApplicationStatusRejected, base),
				application("a2", types.ApplicationStatusInterviewScheduled, base.Add(time.Hour)),
			},
			wantRole: types.RoleClient,
		},
		{
			name: "most recently updated approval wins",
			applications: []*types.ProviderApplication{
				application("old", types.ApplicationStatusApproved, base),
				application("rejected", types.ApplicationStatusRejected, base.Add(48*time.Hour)),
				application("new", types.ApplicationStatusApproved, base.Add(24*time.Hour)),
			},
			wantRole: types.RoleProvider,
			wantApp:  "new",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(tt.isAdmin, tt.applications)
			assert.Equal(t, tt.wantRole, got.Role)
			if tt.wantApp == "" {
				assert.Nil(t, got.Application)
				return
			}
			require.NotNil(t, got.Application)
			assert.Equal(t, tt.wantApp, got.Application.ID)

			again := Derive(tt.isAdmin, tt.applications)
			assert.Equal(t, got, again)
		})
	}
}

type lifecycle struct {
	svc      *applications.Service
	resolver *Resolver
	registry *prometheus.Registry
}

func newLifecycle(t *testing.T, admins AdminPolicy) *lifecycle {
	t.Helper()

	logger, _ := test.NewNullLogger()
	registry := prometheus.NewRegistry()
	workflow := metrics.NewWorkflow(registry)

	repo := store.NewMemoryApplicationRepository()
	svc := applications.New(logger, repo, discardDocuments{}, notify.NewLogDispatcher(logger), workflow, "https://meet.google.com")

	return &lifecycle{
		svc:      svc,
		resolver: NewResolver(logger, admins, repo, workflow),
		registry: registry,
	}
}

type discardDocuments struct{}

func (discardDocuments) Put(_ context.Context, key string, _ io.Reader, _ int64, _ string) (string, error) {
	return key, nil
}

func (discardDocuments) Delete(context.Context, string) error { return nil }

func (discardDocuments) PublicURL(key string) string { return key }

func (l *lifecycle) submit(t *testing.T, userID string) *types.ProviderApplication {
	t.Helper()

	interview := time.Date(2026, 3, 2, 15, 30, 0, 0, time.UTC)
	application, err := l.svc.Submit(context.Background(), &applications.Submission{
		Identity:               types.Identity{UserID: userID, Email: userID + "@example.com"},
		FullName:               "Asha",
		Address:                "12 MG Road",
		Age:                    29,
		ServiceType:            "chef",
		YearsExperience:        5,
		PreferredInterviewDate: &interview,
		IdentityProof: &applications.Document{
			FileName: "id.pdf",
			Body:     bytes.NewReader([]byte("id")),
		},
	})
	require.NoError(t, err)
	return application
}

func TestResolveAfterApproval(t *testing.T) {
	ctx := context.Background()
	l := newLifecycle(t, staticAdmins{})
	identity := types.Identity{UserID: "user-asha"}

	application := l.submit(t, identity.UserID)

	before, err := l.resolver.Resolve(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, types.RoleClient, before.Role)

	_, err = l.svc.ScheduleInterview(ctx, application.ID)
	require.NoError(t, err)
	_, err = l.svc.SetStatus(ctx, application.ID, types.ApplicationStatusApproved, nil)
	require.NoError(t, err)

	after, err := l.resolver.Resolve(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, types.RoleProvider, after.Role)
	require.NotNil(t, after.Application)
	assert.Equal(t, application.ID, after.Application.ID)

	expected := `
# HELP role_resolutions_total Role resolutions by resolved role.
# TYPE role_resolutions_total counter
role_resolutions_total{role="client"} 1
role_resolutions_total{role="provider"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(l.registry, strings.NewReader(expected), "role_resolutions_total"))
}

func TestResolveAfterRejectionWithoutInterview(t *testing.T) {
	ctx := context.Background()
	l := newLifecycle(t, staticAdmins{})
	identity := types.Identity{UserID: "user-ravi"}

	application := l.submit(t, identity.UserID)

	_, err := l.svc.SetStatus(ctx, application.ID, types.ApplicationStatusRejected, nil)
	require.NoError(t, err)

	resolution, err := l.resolver.Resolve(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, types.RoleClient, resolution.Role)
	assert.Nil(t, resolution.Application)
}

func TestResolveAdmin(t *testing.T) {
	l := newLifecycle(t, staticAdmins{"user-admin": true})

	resolution, err := l.resolver.Resolve(context.Background(), types.Identity{UserID: "user-admin"})
	require.NoError(t, err)
	assert.Equal(t, types.RoleAdmin, resolution.Role)
}

func TestResolveErrors(t *testing.T) {
	l := newLifecycle(t, failingAdmins{})

	_, err := l.resolver.Resolve(context.Background(), types.Identity{UserID: "u1"})
	assert.ErrorContains(t, err, "cognito unavailable")

	_, err = l.resolver.Resolve(context.Background(), types.Identity{})
	assert.ErrorIs(t, err, types.ErrUserNotFound)
}

type fakeCognito struct {
	pages [][]string
	calls []*cognitoidentityprovider.AdminListGroupsForUserInput
}

func (f *fakeCognito) AdminListGroupsForUser(_ context.Context, params *cognitoidentityprovider.AdminListGroupsForUserInput, _ ...func(*cognitoidentityprovider.Options)) (*cognitoidentityprovider.AdminListGroupsForUserOutput, error) {
	page := len(f.calls)
	f.calls = append(f.calls, params)

	out := &cognitoidentityprovider.AdminListGroupsForUserOutput{}
	for _, name := range f.pages[page] {
		out.Groups = append(out.Groups, cognitotypes.GroupType{GroupName: aws.String(name)})
	}
	if page+1 < len(f.pages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func TestCognitoAdminPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("member on a later page", func(t *testing.T) {
		client := &fakeCognito{pages: [][]string{{"staff"}, {"admin"}}}
		policy := NewCognitoAdminPolicy(client, "pool-1", "admin")

		isAdmin, err := policy.IsAdmin(ctx, types.Identity{UserID: "u1"})
		require.NoError(t, err)
		assert.True(t, isAdmin)
		require.Len(t, client.calls, 2)
		assert.Equal(t, "pool-1", aws.ToString(client.calls[0].UserPoolId))
		assert.Equal(t, "u1", aws.ToString(client.calls[0].Username))
		assert.Equal(t, "next", aws.ToString(client.calls[1].NextToken))
	})

	t.Run("not a member", func(t *testing.T) {
		client := &fakeCognito{pages: [][]string{{"staff"}}}
		isAdmin, err := NewCognitoAdminPolicy(client, "pool-1", "admin").IsAdmin(ctx, types.Identity{UserID: "u1"})
		require.NoError(t, err)
		assert.False(t, isAdmin)
	})

	t.Run("no group configured", func(t *testing.T) {
		client := &fakeCognito{}
		isAdmin, err := NewCognitoAdminPolicy(client, "pool-1", "").IsAdmin(ctx, types.Identity{UserID: "u1"})
		require.NoError(t, err)
		assert.False(t, isAdmin)
		assert.Empty(t, client.calls)
	})
}

func TestSessionValidFor(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	session := NewSession("u1", Resolution{Role: types.RoleProvider}, now)

	assert.True(t, session.ValidFor("u1", now.Add(30*time.Second), time.Minute))
	assert.False(t, session.ValidFor("u1", now.Add(time.Minute), time.Minute), "expired")
	assert.False(t, session.ValidFor("u2", now, time.Minute), "other user")
	assert.False(t, session.ValidFor("u1", now.Add(-time.Second), time.Minute), "clock skew")
	assert.False(t, session.ValidFor("u1", now, 0), "caching disabled")
	assert.False(t, Session{}.ValidFor("", now, time.Minute))
}
