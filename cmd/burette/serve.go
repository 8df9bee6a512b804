package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/burette"
	httpadapter "github.com/aretw0/burette/pkg/adapters/http"
	"github.com/aretw0/burette/pkg/observability"
	"github.com/aretw0/burette/pkg/persistence/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the titration workbench as an HTTP server: runs are created
and controlled over a JSON API, curve updates stream over SSE and
Prometheus metrics are exposed on /metrics.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runServe(cmd); err != nil {
			fatal(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Listen address (default from BURETTE_ADDR or :8080)")
	serveCmd.Flags().Duration("shutdown-timeout", 5*time.Second, "Graceful shutdown deadline")
	serveCmd.Flags().Int("retain-samples", 0, "Cap persisted samples per run (0 = unlimited)")
}

func runServe(cmd *cobra.Command) error {
	env, err := environment(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(env)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		env.Addr = v
	}
	timeout, _ := cmd.Flags().GetDuration("shutdown-timeout")

	store, closeStore, err := openStore(env)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	middlewares := []middleware.Middleware{middleware.NewLogging(logger)}
	if retain, _ := cmd.Flags().GetInt("retain-samples"); retain > 0 {
		middlewares = append(middlewares, middleware.NewRetention(retain))
	}
	wrapped := middleware.Chain(store, middlewares...)

	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	bench := burette.NewBench(wrapped,
		burette.WithBenchLogger(logger),
		burette.WithBenchHooks(metrics.Hooks()),
	)
	api := httpadapter.NewServer(bench,
		httpadapter.WithLogger(logger),
		httpadapter.WithVersion(burette.Version),
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("/", api.Handler())

	srv := &http.Server{
		Addr:    env.Addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting burette server", "addr", srv.Addr, "store", env.Store)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info("shutting down", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown did not complete", "err", err)
			if err := srv.Close(); err != nil {
				return fmt.Errorf("closing server: %w", err)
			}
		}
		logger.Info("server stopped")
	}
	return nil
}
