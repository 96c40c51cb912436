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

	"github.com/spf13/cobra"

	"github.com/dgallez/jobhawk/internal/api"
	"github.com/dgallez/jobhawk/internal/digest"
	"github.com/dgallez/jobhawk/internal/scoring"
	"github.com/dgallez/jobhawk/internal/store"
)

const dbPath = "jobhawk.db"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and digest scheduler",
	Long:  "Serves the job API and schedules the periodic digest; blocks until SIGINT/SIGTERM.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("config loaded",
		"port", cfg.Server.Port,
		"adapter_timeout", cfg.Fetch.AdapterTimeout.String(),
		"digest_enabled", cfg.Digest.Enabled,
		"digest_spec", cfg.Digest.CronSpec,
	)

	sqlStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		logger.Error("failed to open status store", "error", err)
		os.Exit(1)
	}
	defer sqlStore.Close()

	httpClient := newHTTPClient()
	pipe := buildPipeline(cfg, sqlStore, httpClient, logger)

	settings := digest.NewSettings(cfg.Digest.Enabled)
	dig := digest.New(pipe, setupNotifier(cfg, httpClient, logger), settings, cfg.Digest.Window, cfg.Digest.MinScore, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := dig.Start(ctx, cfg.Digest.CronSpec); err != nil {
		logger.Error("failed to start digest scheduler", "error", err)
		os.Exit(1)
	}
	defer dig.Stop()

	handler := api.NewHandler(api.Deps{
		Pipeline: pipe,
		Store:    sqlStore,
		Scorer:   scoring.NewKeywordScorer(),
		Digest:   dig,
		Settings: settings,
		Logger:   logger,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("goodbye")
	return nil
}
