package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dgallez/jobhawk/internal/model"
	"github.com/dgallez/jobhawk/internal/store"
)

var (
	fetchJSON   bool
	fetchDryRun bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Run one aggregation pass, print the enriched list, exit",
	Long:  "One-shot run: fetches all sources, scores and overlays statuses, prints the result. Does not write to the store.",
	RunE:  runFetch,
}

func init() {
	fetchCmd.Flags().BoolVar(&fetchJSON, "json", false, "print the list as JSON")
	fetchCmd.Flags().BoolVar(&fetchDryRun, "dry-run", false, "skip the status db entirely, every job shows as NEW")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Statuses are still overlaid from the db when present; fetch never writes.
	var statusStore model.StatusStore = store.NewNopStore()
	if !fetchDryRun {
		sqlStore, err := store.NewSQLiteStore(dbPath)
		if err != nil {
			logger.Error("failed to open status store", "error", err)
			os.Exit(1)
		}
		defer sqlStore.Close()
		statusStore = sqlStore
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pipe := buildPipeline(cfg, statusStore, newHTTPClient(), logger)
	jobs := pipe.Run(ctx)

	if fetchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(jobs)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tFIT\tSTATUT\tTITRE\tENTREPRISE\tLIEU\tSCOPE")
	for _, j := range jobs {
		fmt.Fprintf(w, "%s\t%d%%\t%s\t%s\t%s\t%s\t%s\n",
			j.Date.Format("02/01 15:04"), j.FitScore, j.Status, j.Title, j.Company, j.Location, j.Scope)
	}
	return w.Flush()
}
