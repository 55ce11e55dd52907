package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Hermes   HermesConfig   `yaml:"hermes"`
	Fetch    FetchConfig    `yaml:"fetch"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int      `yaml:"port"`
	MetricsPort int      `yaml:"metrics_port"`
	AdminToken  string   `yaml:"admin_token"`
	CORSOrigins []string `yaml:"cors_origins"`
	// FixturesDir is served under /tests/ so the default report URL can
	// point back at this service.
	FixturesDir string   `yaml:"fixtures_dir"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type HermesConfig struct {
	URL string `yaml:"url"`
}

type FetchConfig struct {
	ReportURL     string `yaml:"report_url"`
	TimeoutMs     int    `yaml:"timeout_ms"`
	// PollIntervalS reloads ReportURL on this period. Zero disables polling.
	PollIntervalS int    `yaml:"poll_interval_s"`
}

type ScoringConfig struct {
	Weights ScoringWeights `yaml:"weights"`
}

// ScoringWeights holds the raw weight input for each category. Values are
// kept as text and coerced when read, so "abc" or "-5" load fine and count
// as 0.
type ScoringWeights struct {
	Performance   string `yaml:"performance"`
	Accessibility string `yaml:"accessibility"`
	BestPractices string `yaml:"best_practices"`
	SEO           string `yaml:"seo"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutMs) * time.Millisecond
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Fetch.PollIntervalS) * time.Second
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
			CORSOrigins: []string{"*"},
			FixturesDir: "testdata",
		},
		Fetch: FetchConfig{
			ReportURL: "http://localhost:8700/tests/lighthouse-report.json",
			TimeoutMs: 10000,
		},
		Scoring: ScoringConfig{
			Weights: ScoringWeights{
				Performance:   "25",
				Accessibility: "25",
				BestPractices: "25",
				SEO:           "25",
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("BEACON_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("BEACON_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("BEACON_ADMIN_TOKEN"); v != "" {
		cfg.Server.AdminToken = v
	}
	if v := os.Getenv("BEACON_CORS_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		cfg.Server.CORSOrigins = origins
	}
	if v := os.Getenv("BEACON_FIXTURES_DIR"); v != "" {
		cfg.Server.FixturesDir = v
	}
	if v := os.Getenv("BEACON_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("BEACON_HERMES_URL"); v != "" {
		cfg.Hermes.URL = v
	}
	if v := os.Getenv("BEACON_REPORT_URL"); v != "" {
		cfg.Fetch.ReportURL = v
	}
	if v := os.Getenv("BEACON_FETCH_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Fetch.TimeoutMs = n
		}
	}
	if v := os.Getenv("BEACON_FETCH_POLL_INTERVAL_S"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Fetch.PollIntervalS = n
		}
	}
	// Weight values are kept verbatim; coercion happens at read.
	if v := os.Getenv("BEACON_WEIGHT_PERFORMANCE"); v != "" {
		cfg.Scoring.Weights.Performance = v
	}
	if v := os.Getenv("BEACON_WEIGHT_ACCESSIBILITY"); v != "" {
		cfg.Scoring.Weights.Accessibility = v
	}
	if v := os.Getenv("BEACON_WEIGHT_BEST_PRACTICES"); v != "" {
		cfg.Scoring.Weights.BestPractices = v
	}
	if v := os.Getenv("BEACON_WEIGHT_SEO"); v != "" {
		cfg.Scoring.Weights.SEO = v
	}
	if v := os.Getenv("BEACON_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
