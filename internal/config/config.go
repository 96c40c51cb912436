package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for jobhawk.
type Config struct {
	Server       ServerConfig
	Fetch        FetchConfig
	Profile      ProfileConfig
	Sources      SourcesConfig
	Digest       DigestConfig
	Notification NotificationConfig
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// FetchConfig controls the aggregation fan-out.
type FetchConfig struct {
	AdapterTimeout time.Duration // per-adapter budget, timeout == adapter failure
	SourceDelay    time.Duration // minimum gap between requests to the same source
	MaxRetries     int
	RetryBaseDelay time.Duration
}

// ProfileConfig is the fixed candidate profile jobs are scored against.
// It is immutable for the lifetime of the process.
type ProfileConfig struct {
	Name         string              `yaml:"name"`
	HomeLat      float64             `yaml:"home_lat"`
	HomeLng      float64             `yaml:"home_lng"`
	MaxDistance  float64             `yaml:"max_distance_km"`
	Skills       []string            `yaml:"skills"`
	SkillAliases map[string][]string `yaml:"skill_aliases"` // canonical skill → synonyms
	TargetRoles  []string            `yaml:"target_roles"`
}

// SourcesConfig enables and tunes the individual source adapters.
type SourcesConfig struct {
	Forem      ForemConfig      `yaml:"forem"`
	Careers    []CareersConfig  `yaml:"careers"`
	MetaSearch MetaSearchConfig `yaml:"meta_search"`
}

// ForemConfig drives the Le Forem open-data adapter.
type ForemConfig struct {
	Enabled          bool     `yaml:"enabled"`
	BaseURL          string   `yaml:"base_url"`
	Keywords         []string `yaml:"keywords"`
	ExcludeKeywords  []string `yaml:"exclude_keywords"`
	ResultsPerSearch int      `yaml:"results_per_search"`
}

// CareersConfig describes one company careers page to scrape.
type CareersConfig struct {
	Enabled bool   `yaml:"enabled"`
	Company string `yaml:"company"`
	BaseURL string `yaml:"base_url"`
}

// MetaSearchConfig drives the generated search-intent source.
type MetaSearchConfig struct {
	Enabled bool     `yaml:"enabled"`
	Queries []string `yaml:"queries"`
}

// DigestConfig controls the periodic digest report.
type DigestConfig struct {
	Enabled  bool
	CronSpec string        // when to send, cron format
	Window   time.Duration // how far back a job counts as recent
	MinScore int           // include jobs at or above this fit score
}

// NotificationConfig selects the digest notifier.
type NotificationConfig struct {
	Type       string `yaml:"type"`        // "log" or "webhook"
	WebhookURL string `yaml:"webhook_url"` // required if type is "webhook"
}

// rawConfig is used for YAML unmarshaling (durations as strings).
type rawConfig struct {
	Server       ServerConfig       `yaml:"server"`
	Fetch        rawFetchConfig     `yaml:"fetch"`
	Profile      ProfileConfig      `yaml:"profile"`
	Sources      SourcesConfig      `yaml:"sources"`
	Digest       rawDigestConfig    `yaml:"digest"`
	Notification NotificationConfig `yaml:"notification"`
}

type rawFetchConfig struct {
	AdapterTimeout string `yaml:"adapter_timeout"`
	SourceDelay    string `yaml:"source_delay"`
	MaxRetries     *int   `yaml:"max_retries"`
	RetryBaseDelay string `yaml:"retry_base_delay"`
}

type rawDigestConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CronSpec string `yaml:"cron_spec"`
	Window   string `yaml:"window"`
	MinScore *int   `yaml:"min_score"`
}

const defaultForemBaseURL = "https://odwb.be/api/explore/v2.1/catalog/datasets/offres-d-emploi-forem/records"

// Load reads and parses the YAML config at path, expands environment
// variables, applies defaults, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	var raw rawConfig
	if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	adapterTimeout := 10 * time.Second
	if raw.Fetch.AdapterTimeout != "" {
		adapterTimeout, err = time.ParseDuration(raw.Fetch.AdapterTimeout)
		if err != nil {
			return nil, fmt.Errorf("parse fetch.adapter_timeout %q: %w", raw.Fetch.AdapterTimeout, err)
		}
	}

	sourceDelay := 2 * time.Second
	if raw.Fetch.SourceDelay != "" {
		sourceDelay, err = time.ParseDuration(raw.Fetch.SourceDelay)
		if err != nil {
			return nil, fmt.Errorf("parse fetch.source_delay %q: %w", raw.Fetch.SourceDelay, err)
		}
	}

	maxRetries := 2
	if raw.Fetch.MaxRetries != nil {
		maxRetries = *raw.Fetch.MaxRetries
	}

	retryBaseDelay := 5 * time.Second
	if raw.Fetch.RetryBaseDelay != "" {
		retryBaseDelay, err = time.ParseDuration(raw.Fetch.RetryBaseDelay)
		if err != nil {
			return nil, fmt.Errorf("parse fetch.retry_base_delay %q: %w", raw.Fetch.RetryBaseDelay, err)
		}
	}

	window := 14 * time.Hour
	if raw.Digest.Window != "" {
		window, err = time.ParseDuration(raw.Digest.Window)
		if err != nil {
			return nil, fmt.Errorf("parse digest.window %q: %w", raw.Digest.Window, err)
		}
	}

	minScore := 70
	if raw.Digest.MinScore != nil {
		minScore = *raw.Digest.MinScore
	}

	cronSpec := raw.Digest.CronSpec
	if cronSpec == "" {
		cronSpec = "30 5,17 * * *" // morning and evening reports
	}

	port := raw.Server.Port
	if port == 0 {
		port = 3001
	}

	if raw.Sources.Forem.BaseURL == "" {
		raw.Sources.Forem.BaseURL = defaultForemBaseURL
	}
	if raw.Sources.Forem.ResultsPerSearch == 0 {
		raw.Sources.Forem.ResultsPerSearch = 20
	}

	cfg := &Config{
		Server: ServerConfig{Port: port},
		Fetch: FetchConfig{
			AdapterTimeout: adapterTimeout,
			SourceDelay:    sourceDelay,
			MaxRetries:     maxRetries,
			RetryBaseDelay: retryBaseDelay,
		},
		Profile: raw.Profile,
		Sources: raw.Sources,
		Digest: DigestConfig{
			Enabled:  raw.Digest.Enabled,
			CronSpec: cronSpec,
			Window:   window,
			MinScore: minScore,
		},
		Notification: raw.Notification,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Profile.HomeLat == 0 && c.Profile.HomeLng == 0 {
		return fmt.Errorf("profile.home_lat/home_lng are required")
	}
	if c.Profile.MaxDistance <= 0 {
		return fmt.Errorf("profile.max_distance_km must be positive")
	}
	if c.Notification.Type == "webhook" && c.Notification.WebhookURL == "" {
		return fmt.Errorf("notification.webhook_url is required when type is \"webhook\"")
	}
	return nil
}
