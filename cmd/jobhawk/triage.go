package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallez/jobhawk/internal/model"
	"github.com/dgallez/jobhawk/internal/store"
	"github.com/dgallez/jobhawk/internal/triage"
)

var triageCmd = &cobra.Command{
	Use:   "triage",
	Short: "Work through fetched offers interactively (TUI)",
	Long:  "Runs one aggregation pass, then opens the triage view. Status keys write through the store immediately.",
	RunE:  runTriage,
}

func init() {
	rootCmd.AddCommand(triageCmd)
}

func runTriage(cmd *cobra.Command, args []string) error {
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

	// The pipeline runs behind the TUI loader; any log output before the
	// alt-screen starts corrupts the display, so use a discard logger.
	silentLogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pipe := buildPipeline(cfg, sqlStore, newHTTPClient(), silentLogger)

	jobs, err := triage.RunLoader(func(ctx context.Context) []model.JobOffer {
		return pipe.Run(ctx)
	})
	if err != nil {
		return fmt.Errorf("fetching offers: %w", err)
	}

	return triage.Run(jobs, sqlStore)
}
