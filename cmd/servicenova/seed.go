package main

import (
	"context"
	"fmt"

	"servicenova/internal/seed"

	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Seed the database with fake users and applications",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(true)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()
		logger := newLogger(cfg)

		awsConfig, err := loadAWSConfig(ctx)
		if err != nil {
			return err
		}

		applicationRepo, userRepo, closeRepos, err := repositories(ctx, cfg, logger, false)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer closeRepos()

		logger.Info("Connected to database")

		documents, err := documentStore(cfg, awsConfig)
		if err != nil {
			return err
		}

		if err := seed.Seed(ctx, logger, userRepo, applicationRepo, documents, cfg.MeetingBaseURL); err != nil {
			return err
		}

		logger.Info("Seed data created successfully")

		return nil
	},
}
