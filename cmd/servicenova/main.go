package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "servicenova",
		Usage: "Provider applications and role-gated pages for the ServiceNova staffing marketplace",
		Commands: []*cli.Command{
			serveCommand,
			migrateCommand,
			seedCommand,
			applicationsCommand,
			nanoidCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("application failed")
	}
}
