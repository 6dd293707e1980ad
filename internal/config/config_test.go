package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadAndValidate(t *testing.T) {
	// Create temp config file
	content := `
backend:
  base_url: "https://sideline.example.com/api/v1"
  timeout: 20s

matchup:
  default_league: nfl
  season: "2024-25"
  games_back: 5
  stats_concurrency: 4

server:
  addr: ":9090"
  cors_origins:
    - "https://app.example.com"

telegram:
  bot_token: "test_token"
  chat_id: "12345"
  enabled: true
  top_n: 2

logging:
  level: "debug"
  format: "text"
`
	tmpfile, err := os.CreateTemp("", "config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	// Test Load
	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Verify values
	if cfg.Backend.BaseURL != "https://sideline.example.com/api/v1" {
		t.Errorf("Unexpected base URL: %s", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Timeout != 20*time.Second {
		t.Errorf("Unexpected timeout: %v", cfg.Backend.Timeout)
	}
	if cfg.Backend.MaxRetries != 0 {
		t.Errorf("Expected default max_retries 0, got %d", cfg.Backend.MaxRetries)
	}
	if cfg.Matchup.GamesBack != 5 {
		t.Errorf("Unexpected games_back: %d", cfg.Matchup.GamesBack)
	}
	if len(cfg.Server.CORSOrigins) != 1 {
		t.Errorf("Expected 1 CORS origin, got %d", len(cfg.Server.CORSOrigins))
	}
	if !cfg.Server.MetricsEnabled {
		t.Error("Expected metrics enabled by default")
	}

	// Test Validate
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	t.Setenv("SIDELINE_BACKEND_BASE_URL", "https://env.example.com")
	t.Setenv("SIDELINE_MATCHUP_GAMES_BACK", "7")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Backend.BaseURL != "https://env.example.com" {
		t.Errorf("Expected env override, got %s", cfg.Backend.BaseURL)
	}
	if cfg.Matchup.GamesBack != 7 {
		t.Errorf("Expected games_back 7 from env, got %d", cfg.Matchup.GamesBack)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Expected default logging level info, got %s", cfg.Logging.Level)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/sideline.yaml"); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func validConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL: "https://example.com",
			Timeout: 15 * time.Second,
		},
		Matchup: MatchupConfig{
			GamesBack:        10,
			StatsConcurrency: 8,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "missing base url",
			mutate:  func(c *Config) { c.Backend.BaseURL = "" },
			wantErr: true,
		},
		{
			name:    "base url without scheme",
			mutate:  func(c *Config) { c.Backend.BaseURL = "example.com" },
			wantErr: true,
		},
		{
			name:    "timeout too short",
			mutate:  func(c *Config) { c.Backend.Timeout = 100 * time.Millisecond },
			wantErr: true,
		},
		{
			name:    "negative retries",
			mutate:  func(c *Config) { c.Backend.MaxRetries = -1 },
			wantErr: true,
		},
		{
			name:    "games back out of range",
			mutate:  func(c *Config) { c.Matchup.GamesBack = 21 },
			wantErr: true,
		},
		{
			name:    "zero stats concurrency",
			mutate:  func(c *Config) { c.Matchup.StatsConcurrency = 0 },
			wantErr: true,
		},
		{
			name: "missing telegram token when enabled",
			mutate: func(c *Config) {
				c.Telegram = TelegramConfig{Enabled: true, ChatID: "1", TopN: 3}
			},
			wantErr: true,
		},
		{
			name:    "invalid log level",
			mutate:  func(c *Config) { c.Logging.Level = "trace" },
			wantErr: true,
		},
		{
			name:    "invalid log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
