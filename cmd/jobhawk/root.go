package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallez/jobhawk/internal/adapter"
	"github.com/dgallez/jobhawk/internal/aggregate"
	"github.com/dgallez/jobhawk/internal/config"
	"github.com/dgallez/jobhawk/internal/model"
	"github.com/dgallez/jobhawk/internal/notifier"
	"github.com/dgallez/jobhawk/internal/pipeline"
	"github.com/dgallez/jobhawk/internal/ratelimit"
	"github.com/dgallez/jobhawk/internal/retry"
	"github.com/dgallez/jobhawk/internal/scoring"
)

var (
	cfgPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobhawk",
	Short: "Job-hunt radar: aggregate, score, triage",
	Long:  "Jobhawk aggregates job offers from several sources, scores them against your profile, and tracks your triage decisions.",
	// Default to `serve` so that `jobhawk` with no args runs the daemon.
	RunE: runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBHAWK_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// loadConfig resolves the config path and parses it.
// Priority: explicit path arg > JOBHAWK_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		if env := os.Getenv("JOBHAWK_CONFIG"); env != "" {
			path = env
		} else {
			path = "config.yaml"
		}
	}
	return config.Load(path)
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "webhook":
		logger.Info("using webhook notifier")
		return notifier.NewWebhookNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

// buildAdapters assembles the configured sources in registration order. Order
// matters: it decides which duplicate survives dedup. Network-bound adapters
// get the retry and rate-limit decorators; the meta-search generator makes no
// network calls and stays bare.
func buildAdapters(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) []model.SourceAdapter {
	limiter := ratelimit.NewSourceRateLimiter(cfg.Fetch.SourceDelay)

	wrap := func(a model.SourceAdapter) model.SourceAdapter {
		return ratelimit.Wrap(retry.Wrap(a, cfg.Fetch.MaxRetries, cfg.Fetch.RetryBaseDelay, logger), limiter)
	}

	var adapters []model.SourceAdapter
	if cfg.Sources.Forem.Enabled {
		adapters = append(adapters, wrap(adapter.NewForemAdapter(cfg.Sources.Forem, httpClient, logger)))
		logger.Info("registered source", "source", "forem")
	}
	for _, careers := range cfg.Sources.Careers {
		if !careers.Enabled {
			continue
		}
		a := adapter.NewCareersAdapter(careers.Company, careers.BaseURL, httpClient)
		adapters = append(adapters, wrap(a))
		logger.Info("registered source", "source", a.Name())
	}
	if cfg.Sources.MetaSearch.Enabled {
		adapters = append(adapters, adapter.NewMetaSearchAdapter(cfg.Sources.MetaSearch))
		logger.Info("registered source", "source", "metasearch")
	}

	return adapters
}

func buildPipeline(cfg *config.Config, store model.StatusStore, httpClient *http.Client, logger *slog.Logger) *pipeline.Pipeline {
	adapters := buildAdapters(cfg, httpClient, logger)
	engine := aggregate.New(adapters, cfg.Fetch.AdapterTimeout, logger)
	matcher := scoring.NewProfileMatcher(cfg.Profile)
	return pipeline.New(engine, matcher, store, logger)
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}
