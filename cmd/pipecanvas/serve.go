package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/pipecanvas/internal/presentation/tui"
	httpAdapter "github.com/aretw0/pipecanvas/pkg/adapters/http"
	"github.com/aretw0/pipecanvas/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the validation backend and editor API",
	Long: `Starts the HTTP server: POST /pipelines/parse answers DAG checks for the
canvas, and the /nodes, /edges and /pipeline routes edit a shared canvas.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.Addr, _ = cmd.Flags().GetString("addr")
		}
		logger := newLogger(cfg)

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)
		streams := httpAdapter.NewStreamManager()

		ed, closeStore, err := newEditor(cmd.Context(), cfg, logger, observability.MergeHooks(metrics.Hooks(), streams.Hooks()))
		if err != nil {
			return fmt.Errorf("error initializing editor: %w", err)
		}
		defer closeStore()

		handler := httpAdapter.NewHandler(ed, ed.Store(), ed.Catalog(),
			httpAdapter.WithLogger(logger),
			httpAdapter.WithAllowedOrigins(cfg.Origins...),
			httpAdapter.WithMetrics(metrics, reg),
			httpAdapter.WithStreams(streams),
		)

		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			tui.PrintBanner(cmd.ErrOrStderr())
			logger.Info("Starting pipecanvas server", "addr", srv.Addr, "store", cfg.Store, "origins", cfg.Origins)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("Start shutdown", "signal", sig.String())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("Graceful shutdown did not complete", "timeout", 5*time.Second, "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("pipecanvas server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8000", "Address to listen on")
}
