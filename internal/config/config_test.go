package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

const minimalConfig = `
profile:
  name: Test Candidate
  home_lat: 50.4761
  home_lng: 4.0061
  max_distance_km: 60
`

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3001 {
		t.Errorf("expected default port 3001, got %d", cfg.Server.Port)
	}
	if cfg.Fetch.AdapterTimeout != 10*time.Second {
		t.Errorf("expected default adapter timeout 10s, got %v", cfg.Fetch.AdapterTimeout)
	}
	if cfg.Fetch.SourceDelay != 2*time.Second {
		t.Errorf("expected default source delay 2s, got %v", cfg.Fetch.SourceDelay)
	}
	if cfg.Fetch.MaxRetries != 2 {
		t.Errorf("expected default max retries 2, got %d", cfg.Fetch.MaxRetries)
	}
	if cfg.Digest.CronSpec != "30 5,17 * * *" {
		t.Errorf("unexpected default cron spec %q", cfg.Digest.CronSpec)
	}
	if cfg.Digest.MinScore != 70 {
		t.Errorf("expected default min score 70, got %d", cfg.Digest.MinScore)
	}
	if cfg.Sources.Forem.BaseURL == "" {
		t.Error("expected a default forem base url")
	}
	if cfg.Sources.Forem.ResultsPerSearch != 20 {
		t.Errorf("expected default results per search 20, got %d", cfg.Sources.Forem.ResultsPerSearch)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  port: 8080
fetch:
  adapter_timeout: 15s
  source_delay: 500ms
  max_retries: 0
  retry_base_delay: 2s
profile:
  name: Test Candidate
  home_lat: 50.4761
  home_lng: 4.0061
  max_distance_km: 45
  skills: [Achats, Négociation]
  skill_aliases:
    Achats: [buying, procurement]
  target_roles: [Category Manager]
sources:
  forem:
    enabled: true
    keywords: [category manager, acheteur]
    exclude_keywords: [ouvrier]
  careers:
    - enabled: true
      company: Leonidas
      base_url: https://jobs.leonidas.com
  meta_search:
    enabled: true
    queries: [head of category]
digest:
  enabled: true
  cron_spec: "0 8 * * *"
  window: 336h
  min_score: 60
notification:
  type: log
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Fetch.AdapterTimeout != 15*time.Second {
		t.Errorf("expected 15s adapter timeout, got %v", cfg.Fetch.AdapterTimeout)
	}
	if cfg.Fetch.SourceDelay != 500*time.Millisecond {
		t.Errorf("expected 500ms source delay, got %v", cfg.Fetch.SourceDelay)
	}
	// An explicit zero is not overwritten by the default.
	if cfg.Fetch.MaxRetries != 0 {
		t.Errorf("expected max retries 0, got %d", cfg.Fetch.MaxRetries)
	}
	if len(cfg.Profile.Skills) != 2 {
		t.Errorf("expected 2 skills, got %v", cfg.Profile.Skills)
	}
	if got := cfg.Profile.SkillAliases["Achats"]; len(got) != 2 {
		t.Errorf("expected 2 aliases for Achats, got %v", got)
	}
	if len(cfg.Sources.Careers) != 1 || cfg.Sources.Careers[0].Company != "Leonidas" {
		t.Errorf("unexpected careers config %+v", cfg.Sources.Careers)
	}
	if cfg.Digest.Window != 336*time.Hour {
		t.Errorf("expected 336h window, got %v", cfg.Digest.Window)
	}
	if cfg.Digest.MinScore != 60 {
		t.Errorf("expected min score 60, got %d", cfg.Digest.MinScore)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_WEBHOOK_URL", "https://hooks.example.com/T123")

	cfg, err := Load(writeConfig(t, minimalConfig+`
notification:
  type: webhook
  webhook_url: ${TEST_WEBHOOK_URL}
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Notification.WebhookURL != "https://hooks.example.com/T123" {
		t.Errorf("env var not expanded, got %q", cfg.Notification.WebhookURL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "profile: [unclosed")); err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	if _, err := Load(writeConfig(t, minimalConfig+`
fetch:
  adapter_timeout: soon
`)); err == nil {
		t.Fatal("expected a duration parse error")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name: "missing home coordinates",
			content: `
profile:
  max_distance_km: 60
`,
		},
		{
			name: "non-positive max distance",
			content: `
profile:
  home_lat: 50.4761
  home_lng: 4.0061
`,
		},
		{
			name: "webhook without url",
			content: minimalConfig + `
notification:
  type: webhook
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tt.content)); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}
