package roles

import (
	"context"
	"fmt"

	"servicenova/internal/metrics"
	"servicenova/pkg/types"

	"github.com/sirupsen/logrus"
)

// AdminPolicy decides admin membership. There is exactly one production
// implementation, CognitoAdminPolicy.
type AdminPolicy interface {
	IsAdmin(ctx context.Context, identity types.Identity) (bool, error)
}

type ApplicationLister interface {
	ApplicationsByUser(ctx context.Context, userID string) ([]*types.ProviderApplication, error)
}

// Resolution is a resolved role. Application is the authoritative approved
// application when Role is provider, nil otherwise.
type Resolution struct {
	Role        types.Role
	Application *types.ProviderApplication
}

// Derive maps admin membership and a user's applications to one role. Admin
// wins outright; otherwise any approved application makes the user a
// provider, the most recently updated one being authoritative.
func Derive(isAdmin bool, applications []*types.ProviderApplication) Resolution {
	if isAdmin {
		return Resolution{Role: types.RoleAdmin}
	}

	var latest *types.ProviderApplication
	for _, application := range applications {
		if application == nil || application.Status != types.ApplicationStatusApproved {
			continue
		}
		if latest == nil || application.UpdatedAt.After(latest.UpdatedAt) {
			latest = application
		}
	}

	if latest != nil {
		return Resolution{Role: types.RoleProvider, Application: latest}
	}

	return Resolution{Role: types.RoleClient}
}

type Resolver struct {
	logger       *logrus.Logger
	admins       AdminPolicy
	applications ApplicationLister
	metrics      *metrics.Workflow
}

func NewResolver(logger *logrus.Logger, admins AdminPolicy, applications ApplicationLister, workflowMetrics *metrics.Workflow) *Resolver {
	return &Resolver{
		logger:       logger,
		admins:       admins,
		applications: applications,
		metrics:      workflowMetrics,
	}
}

// Resolve reads current membership and application state. Nothing is
// cached here; callers that cache hold a Session.
func (r *Resolver) Resolve(ctx context.Context, identity types.Identity) (Resolution, error) {
	if identity.UserID == "" {
		return Resolution{}, fmt.Errorf("resolve role: %w", types.ErrUserNotFound)
	}

	isAdmin, err := r.admins.IsAdmin(ctx, identity)
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to check admin membership: %w", err)
	}

	var applications []*types.ProviderApplication
	if !isAdmin {
		applications, err = r.applications.ApplicationsByUser(ctx, identity.UserID)
		if err != nil {
			return Resolution{}, fmt.Errorf("failed to load applications for role: %w", err)
		}
	}

	resolution := Derive(isAdmin, applications)

	r.metrics.Resolution(resolution.Role.String())
	r.logger.WithFields(logrus.Fields{
		"user_id": identity.UserID,
		"role":    resolution.Role,
	}).Debug("resolved role")

	return resolution, nil
}
