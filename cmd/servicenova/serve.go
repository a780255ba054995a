package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"servicenova/internal/metrics"
	"servicenova/internal/roles"
	"servicenova/internal/seed"
	"servicenova/internal/server"

	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
)

var serveCommand = &cli.Command{
	Name:  "serve",
	Usage: "Start the HTTP server",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "memory",
			Usage: "Keep users and applications in memory instead of Postgres",
		},
		&cli.BoolFlag{
			Name:  "seed",
			Usage: "Seed fake users and applications before serving",
		},
	},
	Action: serve,
}

func serve(cCtx *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	inMemory := cCtx.Bool("memory")

	config, err := loadConfig(!inMemory)
	if err != nil {
		return err
	}

	logger := newLogger(config)

	awsConfig, err := loadAWSConfig(ctx)
	if err != nil {
		return err
	}

	cognitoClient := cognitoidentityprovider.NewFromConfig(awsConfig)

	applicationRepo, userRepo, closeRepos, err := repositories(ctx, config, logger, inMemory)
	if err != nil {
		return err
	}
	defer closeRepos()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	workflow := metrics.NewWorkflow(registry)

	applicationSvc, err := applicationService(config, logger, applicationRepo, awsConfig, dispatcher(config, logger), workflow)
	if err != nil {
		return err
	}

	if cCtx.Bool("seed") {
		documents, err := documentStore(config, awsConfig)
		if err != nil {
			return err
		}
		if err := seed.Seed(ctx, logger, userRepo, applicationRepo, documents, config.MeetingBaseURL); err != nil {
			return err
		}
	}

	adminPolicy := roles.NewCognitoAdminPolicy(cognitoClient, config.CognitoUserPoolID, config.CognitoAdminGroup)
	resolver := roles.NewResolver(logger, adminPolicy, applicationRepo, workflow)

	jwkCache, err := jwk.NewCache(context.Background(), httprc.NewClient())
	if err != nil {
		return fmt.Errorf("failed to initilaize jwk cache: %w", err)
	}

	jwksURL := fmt.Sprintf("%s/.well-known/jwks.json", config.CognitoIssuerURL)

	err = jwkCache.Register(context.Background(), jwksURL)
	if err != nil {
		return fmt.Errorf("failed to register cognito jwk with cache: %w", err)
	}

	srv, err := server.New(
		config,
		logger,
		cognitoClient,
		server.NewJWKSVerifier(jwkCache, jwksURL),
		userRepo,
		applicationSvc,
		resolver,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	)
	if err != nil {
		return err
	}

	go func() {
		logger.WithField("port", config.ServerPort).Infof("server starting http://localhost:%d", config.ServerPort)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Stop(shutdownCtx)
}
