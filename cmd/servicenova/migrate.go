package main

import (
	"context"
	"fmt"

	"servicenova/internal/db"

	"github.com/urfave/cli/v2"
)

var migrateCommand = &cli.Command{
	Name:      "migrate",
	Usage:     "Run database migrations (up, down, status, redo, version)",
	ArgsUsage: "[command] [args...]",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(true)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		command := "up"
		if c.Args().Present() {
			command = c.Args().First()
		}

		return db.Migrate(context.Background(), cfg.DatabaseURL, command, c.Args().Tail()...)
	},
}
