// SPDX-License-Identifier: MIT
// Copyright 2026 UNB Services

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/unbservices/uuiduser/internal/observability"
	"github.com/unbservices/uuiduser/internal/store"
)

const shutdownTimeout = 10 * time.Second

// connectPool is replaced in tests.
var connectPool = store.Connect

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve metrics and health endpoints",
		Long: `Run the observability server: Prometheus metrics on /metrics and
Kubernetes-style probes on /healthz/liveness and /healthz/readiness.
Readiness reflects database connectivity.`,
		RunE: runServe,
	}

	cmd.Flags().String("database_url", "", "PostgreSQL connection URL")
	cmd.Flags().String("metrics_addr", "", "listen address for metrics and health endpoints")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	pool, err := connectPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	server := observability.NewServer(cfg.MetricsAddr, databaseReadiness(pool))
	errCh, err := server.Start()
	if err != nil {
		return err
	}

	slog.Info("serving", "metrics_addr", server.Addr())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		slog.Info("shutting down", "signal", sig.String())
	case serveErr, ok := <-errCh:
		if ok && serveErr != nil {
			return serveErr
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Stop(shutdownCtx)
}

// databaseReadiness reports ready while the database answers pings.
func databaseReadiness(pool *pgxpool.Pool) observability.ReadinessChecker {
	return func() bool {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return pool.Ping(ctx) == nil
	}
}
