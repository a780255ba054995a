package main

import (
	"context"
	"fmt"

	"servicenova/internal/applications"
	"servicenova/internal/db"
	"servicenova/internal/metrics"
	"servicenova/internal/notify"
	"servicenova/internal/storage"
	"servicenova/internal/store"
	"servicenova/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

type userRepository interface {
	User(ctx context.Context, userID string) (*types.User, error)
	UpsertIdentity(ctx context.Context, userID, email, givenName, familyName string) error
}

// repositories opens the record stores. In memory mode nothing is persisted
// and no database is needed. The returned func releases the pool.
func repositories(ctx context.Context, cfg *types.Config, logger *logrus.Logger, inMemory bool) (applications.Repository, userRepository, func(), error) {
	if inMemory {
		logger.Warn("using in-memory repositories, data is lost on exit")
		return store.NewMemoryApplicationRepository(), store.NewMemoryUserRepository(), func() {}, nil
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	return store.NewApplicationRepository(pool), store.NewUserRepository(pool), pool.Close, nil
}

func documentStore(cfg *types.Config, awsConfig aws.Config) (applications.DocumentStore, error) {
	switch cfg.DocumentBackend {
	case "s3":
		return storage.NewS3DocumentStore(s3.NewFromConfig(awsConfig), cfg.S3BucketName, cfg.S3PublicBaseURL), nil
	case "supabase":
		return storage.NewSupabaseStorage(cfg.SupabaseProjectID, cfg.SupabaseAPIKey, cfg.SupabaseBucketName), nil
	default:
		return nil, fmt.Errorf("unsupported document backend %q", cfg.DocumentBackend)
	}
}

func dispatcher(cfg *types.Config, logger *logrus.Logger) applications.Dispatcher {
	if cfg.ResendAPIKey == "" {
		logger.Warn("RESEND_API_KEY not set, interview notifications will only be logged")
		return notify.NewLogDispatcher(logger)
	}
	return notify.NewResendDispatcher(cfg.ResendBaseURL, cfg.ResendAPIKey, cfg.ResendFrom)
}

func applicationService(cfg *types.Config, logger *logrus.Logger, repo applications.Repository, awsConfig aws.Config, notifications applications.Dispatcher, workflow *metrics.Workflow) (*applications.Service, error) {
	documents, err := documentStore(cfg, awsConfig)
	if err != nil {
		return nil, err
	}

	return applications.New(logger, repo, documents, notifications, workflow, cfg.MeetingBaseURL), nil
}
