package main

import (
	"context"
	"fmt"
	"strings"

	"servicenova/pkg/types"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

func loadConfig(requireDatabase bool) (*types.Config, error) {
	// A local .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	c := new(types.Config)
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if requireDatabase && c.DatabaseURL == "" {
		return nil, fmt.Errorf("set DATABASE_URL")
	}

	if c.ServerPort == 0 {
		c.ServerPort = 8080
	}

	if c.ReadTimeoutSec == 0 {
		c.ReadTimeoutSec = 10
	}

	if c.WriteTimeoutSec == 0 {
		c.WriteTimeoutSec = 15
	}

	c.DocumentBackend = strings.ToLower(strings.TrimSpace(c.DocumentBackend))
	switch c.DocumentBackend {
	case "s3":
		if c.S3BucketName == "" {
			return nil, fmt.Errorf("set S3_BUCKET_NAME")
		}
	case "supabase":
		if c.SupabaseProjectID == "" || c.SupabaseAPIKey == "" {
			return nil, fmt.Errorf("set SUPABASE_PROJECT_ID and SUPABASE_API_KEY")
		}
	default:
		return nil, fmt.Errorf("unsupported DOCUMENT_BACKEND %q, use s3 or supabase", c.DocumentBackend)
	}

	return c, nil
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	config, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load aws config: %w", err)
	}

	return config, nil
}

func newLogger(cfg *types.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "development" {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}
