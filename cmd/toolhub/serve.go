package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NeuralTrust/toolhub/pkg/config"
	"github.com/NeuralTrust/toolhub/pkg/dependency_container"
	"github.com/NeuralTrust/toolhub/pkg/infra/database"
	infraLogger "github.com/NeuralTrust/toolhub/pkg/infra/logger"
	_ "github.com/NeuralTrust/toolhub/pkg/infra/migrations"
	"github.com/NeuralTrust/toolhub/pkg/server"
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const shutdownGrace = 10 * time.Second

var serveRoles = []string{config.RoleAggregator, config.RoleServerA, config.RoleServerB}

type serveOptions struct {
	*rootOptions
	migrate     bool
	swaggerFile string
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:       "serve <aggregator|server_a|server_b>",
		Short:     "Run one toolhub role",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: serveRoles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts, args[0])
		},
	}
	cmd.Flags().BoolVar(&opts.migrate, "migrate", true, "apply pending migrations before serving")
	cmd.Flags().StringVar(&opts.swaggerFile, "swagger", "./docs/swagger.json", "OpenAPI document served by the aggregator under /docs")
	return cmd
}

func runServe(ctx context.Context, opts *serveOptions, role string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(role); err != nil {
		return err
	}

	logger, closeLogs := infraLogger.NewLogger(role)
	defer closeLogs()

	db, err := database.NewDB(logger, &database.Config{
		URL:          cfg.Database.URL,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		logger.WithError(err).Error("failed to initialize database")
		return err
	}
	defer func() { _ = db.Close() }()

	if opts.migrate {
		if err := db.Migrate(ctx); err != nil {
			return err
		}
	}

	container, err := dependency_container.NewContainer(dependency_container.ContainerDI{
		Cfg:    cfg,
		Logger: logger,
		DB:     db,
		Role:   role,
	})
	if err != nil {
		logger.WithError(err).Error("failed to initialize dependencies")
		return err
	}
	defer func() { _ = container.Close() }()

	shutdown := make(chan struct{})
	srv, err := buildServer(ctx, container, role, opts.swaggerFile, shutdown)
	if err != nil {
		logger.WithError(err).Error("failed to build server")
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			logger.WithError(err).Error("server stopped")
		}
		return err
	case sig := <-quit:
		logger.WithFields(logrus.Fields{"role": role, "signal": sig.String()}).Info("shutting down")
	}

	close(shutdown)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
		return err
	}
	logger.WithField("role", role).Info("server exited")
	return nil
}

func buildServer(
	ctx context.Context,
	container *dependency_container.Container,
	role string,
	swaggerFile string,
	shutdown <-chan struct{},
) (server.Server, error) {
	switch role {
	case config.RoleAggregator:
		if _, err := os.Stat(swaggerFile); err != nil {
			container.Logger.WithField("path", swaggerFile).Warn("swagger document not found, /docs disabled")
			swaggerFile = ""
		}
		r, err := container.AggregatorRouter(swaggerFile)
		if err != nil {
			return nil, err
		}
		return server.NewAggregatorServer(server.AggregatorServerDI{
			Config: container.Cfg,
			Logger: container.Logger,
			Router: r,
		}), nil
	case config.RoleServerA, config.RoleServerB:
		r, err := container.ToolServerRouter(ctx, role, shutdown)
		if err != nil {
			return nil, err
		}
		return server.NewToolServer(server.ToolServerDI{
			Config: container.Cfg,
			Logger: container.Logger,
			Role:   role,
			Router: r,
		}), nil
	default:
		return nil, errors.Newf("unknown role %q", role)
	}
}
