package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dgallez/jobhawk/internal/digest"
	"github.com/dgallez/jobhawk/internal/notifier"
	"github.com/dgallez/jobhawk/internal/store"
)

var digestForce bool

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Build and send one digest now",
	Long:  "Runs the pipeline, selects recent relevant offers, and sends them through the configured notifier.",
	RunE:  runDigest,
}

var digestTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test notification",
	Long:  "Sends a dummy offer through the configured notifier to verify the integration.",
	RunE:  runDigestTest,
}

func init() {
	digestCmd.Flags().BoolVar(&digestForce, "force", false, "send even when the digest toggle is off")
	digestCmd.AddCommand(digestTestCmd)
	rootCmd.AddCommand(digestCmd)
}

func runDigest(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

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

	return dig.Send(ctx, digestForce)
}

func runDigestTest(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	n := setupNotifier(cfg, newHTTPClient(), logger)
	if err := notifier.SendTestMessage(n); err != nil {
		logger.Error("test notification failed", "error", err)
		os.Exit(1)
	}
	logger.Info("test notification sent successfully")
	return nil
}
