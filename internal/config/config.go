package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the service configuration. Values come from config.yaml
// (path overridable via CONFIG_PATH) with environment variables taking
// precedence over file values.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	DBPath     string `yaml:"db_path"`

	// External scoring process
	ScorerCommand string   `yaml:"scorer_command"`
	ScorerArgs    []string `yaml:"scorer_args"`
	ExchangeDir   string   `yaml:"exchange_dir"`

	RunTimeoutSeconds int  `yaml:"run_timeout_seconds"`
	FallbackEnabled   bool `yaml:"fallback_enabled"`

	// Standard 5-field cron expression for the scorer availability probe.
	HealthProbeSchedule string `yaml:"health_probe_schedule"`
}

const (
	defaultListenAddr    = ":8080"
	defaultDBPath        = "./churn.db"
	defaultExchangeDir   = "./exchange"
	defaultRunTimeout    = 60 * time.Second
	defaultProbeSchedule = "*/5 * * * *"
	defaultScorerCommand = "python3"
)

// Load reads the configuration, applying defaults and env overrides.
func Load() (Config, error) {
	cfg := Config{FallbackEnabled: true}

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", configPath, err)
		}
	}

	envOverride(&cfg.ListenAddr, "LISTEN_ADDR")
	envOverride(&cfg.DBPath, "DB_PATH")
	envOverride(&cfg.ScorerCommand, "SCORER_COMMAND")
	envOverride(&cfg.ExchangeDir, "EXCHANGE_DIR")
	envOverride(&cfg.HealthProbeSchedule, "HEALTH_PROBE_SCHEDULE")
	envOverrideInt(&cfg.RunTimeoutSeconds, "RUN_TIMEOUT_SECONDS")
	envOverrideBool(&cfg.FallbackEnabled, "FALLBACK_ENABLED")

	applyDefaults(&cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = defaultListenAddr
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.ScorerCommand == "" {
		cfg.ScorerCommand = defaultScorerCommand
		if len(cfg.ScorerArgs) == 0 {
			cfg.ScorerArgs = []string{"main.py"}
		}
	}
	if cfg.ExchangeDir == "" {
		cfg.ExchangeDir = defaultExchangeDir
	}
	if cfg.RunTimeoutSeconds <= 0 {
		cfg.RunTimeoutSeconds = int(defaultRunTimeout / time.Second)
	}
	if cfg.HealthProbeSchedule == "" {
		cfg.HealthProbeSchedule = defaultProbeSchedule
	}
}

// RunTimeout returns the per-run deadline for the scoring process.
func (c Config) RunTimeout() time.Duration {
	return time.Duration(c.RunTimeoutSeconds) * time.Second
}

func envOverride(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func envOverrideInt(target *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}

func envOverrideBool(target *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*target = b
		}
	}
}
