package seed

import (
	"context"
	"fmt"

	"servicenova/internal/applications"
	"servicenova/internal/notify"

	"github.com/sirupsen/logrus"
)

// Seed creates the fake users and walks their applications through the
// workflow. It builds its own application service so interview
// notifications only ever reach the log, whatever dispatcher the server
// itself is configured with.
func Seed(ctx context.Context, logger *logrus.Logger, users UserStore, repo applications.Repository, documents applications.DocumentStore, meetingBaseURL string) error {
	svc := applications.New(logger, repo, documents, notify.NewLogDispatcher(logger), nil, meetingBaseURL)

	logger.Info("Seeding users...")
	if err := SeedFakeUsers(ctx, logger, users); err != nil {
		return fmt.Errorf("failed to seed users: %w", err)
	}

	logger.Info("Seeding applications...")
	if err := SeedApplications(ctx, logger, svc); err != nil {
		return fmt.Errorf("failed to seed applications: %w", err)
	}

	return nil
}
