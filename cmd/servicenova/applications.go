package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"servicenova/internal/applications"
	"servicenova/pkg/types"

	"github.com/k0kubun/pp/v3"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var applicationsCommand = &cli.Command{
	Name:  "applications",
	Usage: "Inspect and review provider applications from the terminal",
	Subcommands: []*cli.Command{
		{
			Name:   "list",
			Usage:  "List every application, newest first",
			Action: withApplications(listApplications),
		},
		{
			Name:      "show",
			Usage:     "Print one application",
			ArgsUsage: "<application-id>",
			Action:    withApplications(showApplication),
		},
		{
			Name:      "schedule",
			Usage:     "Schedule an interview for a pending application and notify the applicant",
			ArgsUsage: "<application-id>",
			Action:    withApplications(scheduleApplication),
		},
		{
			Name:      "set-status",
			Usage:     "Approve or reject an application",
			ArgsUsage: "<application-id> <approved|rejected>",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "notes",
					Usage: "Admin notes stored with the decision",
				},
			},
			Action: withApplications(setApplicationStatus),
		},
	},
}

type applicationsAction func(c *cli.Context, logger *logrus.Logger, svc *applications.Service) error

func withApplications(action applicationsAction) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := loadConfig(true)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := c.Context
		if ctx == nil {
			ctx = context.Background()
		}
		logger := newLogger(cfg)

		awsConfig, err := loadAWSConfig(ctx)
		if err != nil {
			return err
		}

		applicationRepo, _, closeRepos, err := repositories(ctx, cfg, logger, false)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer closeRepos()

		svc, err := applicationService(cfg, logger, applicationRepo, awsConfig, dispatcher(cfg, logger), nil)
		if err != nil {
			return err
		}

		return action(c, logger, svc)
	}
}

func applicationID(c *cli.Context) (string, error) {
	id := c.Args().First()
	if id == "" {
		return "", fmt.Errorf("application id is required")
	}
	return id, nil
}

func listApplications(c *cli.Context, _ *logrus.Logger, svc *applications.Service) error {
	all, err := svc.Applications(c.Context)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSERVICE\tSTATUS\tSUBMITTED")
	for _, application := range all {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			application.ID,
			application.FullName,
			application.ServiceType,
			application.Status,
			application.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	return w.Flush()
}

func showApplication(c *cli.Context, _ *logrus.Logger, svc *applications.Service) error {
	id, err := applicationID(c)
	if err != nil {
		return err
	}

	application, err := svc.Application(c.Context, id)
	if err != nil {
		return err
	}

	pp.Println(application)
	return nil
}

func scheduleApplication(c *cli.Context, logger *logrus.Logger, svc *applications.Service) error {
	id, err := applicationID(c)
	if err != nil {
		return err
	}

	result, err := svc.ScheduleInterview(c.Context, id)
	if err != nil {
		return err
	}

	fmt.Printf("interview scheduled: %s\n", result.MeetingLink)
	if !result.Notified() {
		logger.WithError(result.NotificationErr).Warn("applicant was not notified, share the link manually")
	}
	return nil
}

func setApplicationStatus(c *cli.Context, _ *logrus.Logger, svc *applications.Service) error {
	id, err := applicationID(c)
	if err != nil {
		return err
	}

	status, err := types.ParseApplicationStatus(c.Args().Get(1))
	if err != nil {
		return err
	}

	var notes *string
	if c.IsSet("notes") {
		v := c.String("notes")
		notes = &v
	}

	application, err := svc.SetStatus(c.Context, id, status, notes)
	if err != nil {
		return err
	}

	fmt.Printf("application %s is now %s\n", application.ID, application.Status)
	return nil
}
