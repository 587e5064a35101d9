package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	defaultComponentME = 10
	defaultComponentTE = 20
)

// registerViperDefaults seeds keys whose zero value is a legitimate setting
func registerViperDefaults(v *viper.Viper) {
	v.SetDefault("planner.component_me", defaultComponentME)
	v.SetDefault("planner.component_te", defaultComponentTE)
}

// Defaults returns a fully defaulted configuration
func Defaults() *Config {
	cfg := &Config{}
	cfg.Planner.ComponentME = defaultComponentME
	cfg.Planner.ComponentTE = defaultComponentTE
	SetDefaults(cfg)
	return cfg
}

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "industry"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "industry_planner"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 25
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 5
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// ESI defaults
	if cfg.ESI.BaseURL == "" {
		cfg.ESI.BaseURL = "https://esi.evetech.net/latest"
	}
	if cfg.ESI.Datasource == "" {
		cfg.ESI.Datasource = "tranquility"
	}
	if cfg.ESI.UserAgent == "" {
		cfg.ESI.UserAgent = "industry-planner"
	}
	if cfg.ESI.Timeout == 0 {
		cfg.ESI.Timeout = 15 * time.Second
	}
	if cfg.ESI.RateLimit.Requests == 0 {
		cfg.ESI.RateLimit.Requests = 10
	}
	if cfg.ESI.RateLimit.Burst == 0 {
		cfg.ESI.RateLimit.Burst = 20
	}
	if cfg.ESI.Retry.MaxAttempts == 0 {
		cfg.ESI.Retry.MaxAttempts = 3
	}
	if cfg.ESI.Retry.BackoffBase == 0 {
		cfg.ESI.Retry.BackoffBase = 1 * time.Second
	}
	if cfg.ESI.CircuitBreaker.MaxFailures == 0 {
		cfg.ESI.CircuitBreaker.MaxFailures = 5
	}
	if cfg.ESI.CircuitBreaker.Timeout == 0 {
		cfg.ESI.CircuitBreaker.Timeout = 60 * time.Second
	}

	// Feed defaults
	if cfg.Feed.Concurrency == 0 {
		cfg.Feed.Concurrency = 4
	}

	// Planner defaults (component ME/TE come from viper defaults)
	if cfg.Planner.MaxDepth == 0 {
		cfg.Planner.MaxDepth = 32
	}
	if cfg.Planner.DefaultMaxDurationDays == 0 {
		cfg.Planner.DefaultMaxDurationDays = 30
	}
	if cfg.Planner.BonusCacheSize == 0 {
		cfg.Planner.BonusCacheSize = 1024
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	// Metrics defaults
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "industry_planner"
	}
}
