// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Taskward Contributors

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskward/taskward/internal/auth"
	authpg "github.com/taskward/taskward/internal/auth/postgres"
	"github.com/taskward/taskward/internal/config"
	"github.com/taskward/taskward/internal/httpapi"
	"github.com/taskward/taskward/internal/logging"
	"github.com/taskward/taskward/internal/observability"
	"github.com/taskward/taskward/internal/store"
	"github.com/taskward/taskward/internal/todo"
	todopg "github.com/taskward/taskward/internal/todo/postgres"
)

const readHeaderTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the HTTP API server: authentication endpoints under
/api/auth, todos under /api/todos, and a health probe at /health.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return runServe(cmd.Context(), cfg, cmd)
		},
	}

	cmd.Flags().String("listen-addr", config.DefaultListenAddr, "API listen address")
	cmd.Flags().String("metrics-addr", config.DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().String("database-url", "", "PostgreSQL connection string (or DATABASE_URL)")
	cmd.Flags().String("jwt-secret", "", "token signing secret (or TASKWARD_JWT_SECRET)")
	cmd.Flags().Duration("token-lifetime", config.DefaultTokenLifetime, "access token lifetime")
	cmd.Flags().Int("bcrypt-cost", config.Default().BcryptCost, "bcrypt work factor")
	cmd.Flags().String("log-format", config.DefaultLogFormat, "log format (json or text)")
	cmd.Flags().Duration("shutdown-timeout", config.DefaultShutdownTimeout, "graceful shutdown timeout")
	cmd.Flags().Bool("auto-migrate", true, "apply pending schema migrations at startup")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config, cmd *cobra.Command) error {
	logging.SetDefault("taskward", version, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	slog.Info("connected to database")

	if cfg.AutoMigrate {
		if err := runAutoMigrate(cfg.DatabaseURL); err != nil {
			return err
		}
	}

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	codec, err := auth.NewTokenCodec(cfg.JWTSecret, auth.WithLifetime(cfg.TokenLifetime))
	if err != nil {
		return fmt.Errorf("failed to create token codec: %w", err)
	}

	authService, err := auth.NewService(authpg.NewUserRepository(pool), hasher, codec, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create auth service: %w", err)
	}
	todoService, err := todo.NewService(todopg.NewTodoRepository(pool), slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create todo service: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Start observability server if configured
	var obsServer *observability.Server
	var metrics *observability.Metrics
	if cfg.MetricsAddr != "" {
		obsServer = observability.NewServer(cfg.MetricsAddr, func() bool {
			pingCtx, pingCancel := context.WithTimeout(context.Background(), time.Second)
			defer pingCancel()
			return pool.Ping(pingCtx) == nil
		})
		obsErrCh, err := obsServer.Start()
		if err != nil {
			return fmt.Errorf("failed to start observability server: %w", err)
		}
		metrics = obsServer.Metrics()
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
	}

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Auth:    authService,
		Todos:   todoService,
		Tokens:  authService,
		Logger:  slog.Default(),
		Metrics: metrics,
	})

	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErrCh := make(chan error, 1)
	go func() {
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			serveErrCh <- serveErr
		}
	}()

	cmd.Println("API server started")
	slog.Info("api server ready", "addr", cfg.ListenAddr)

	// Wait for shutdown signal or server failure
	select {
	case err := <-serveErrCh:
		return fmt.Errorf("api server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutting down...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("error shutting down api server", "error", err)
	}
	if obsServer != nil {
		if err := obsServer.Stop(shutdownCtx); err != nil {
			slog.Warn("error stopping observability server", "error", err)
		}
	}

	slog.Info("shutdown complete")
	return nil
}

// runAutoMigrate applies pending migrations before the server starts taking
// traffic.
func runAutoMigrate(databaseURL string) error {
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			slog.Debug("error closing migrator", "error", closeErr)
		}
	}()

	if err := migrator.Up(); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	schemaVersion, dirty, err := migrator.Version()
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}
	slog.Info("schema migrations applied", "version", schemaVersion, "dirty", dirty)
	return nil
}

// monitorServerErrors cancels the run context when a background server
// reports a failure, so the main loop shuts everything down.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if ok && err != nil {
			slog.Error("server failed", "server", serverName, "error", err)
			cancel()
		}
	case <-ctx.Done():
	}
}
