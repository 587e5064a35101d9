package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the planner reads at startup
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	ESI      ESIConfig      `mapstructure:"esi"`
	Feed     FeedConfig     `mapstructure:"feed"`
	Planner  PlannerConfig  `mapstructure:"planner"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// envKeys are the settings overridable as IND_<SECTION>_<KEY>
var envKeys = []string{
	"database.type", "database.url", "database.host", "database.port", "database.user",
	"database.password", "database.name", "database.sslmode", "database.path",
	"esi.base_url", "esi.datasource", "esi.user_agent", "esi.timeout",
	"feed.concurrency",
	"planner.component_me", "planner.component_te", "planner.max_depth",
	"planner.default_max_duration_days", "planner.bonus_cache_size",
	"logging.level", "logging.format", "logging.output", "logging.file_path",
	"metrics.enabled", "metrics.textfile_path", "metrics.namespace",
}

// LoadConfig resolves IND_* variables over the YAML file over built-in defaults.
// An empty configPath searches ., ./configs and /etc/industry-planner for config.yaml.
func LoadConfig(configPath string) (*Config, error) {
	_ = godotenv.Load()

	v, err := readSources(configPath)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	SetDefaults(&cfg)
	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func readSources(configPath string) (*viper.Viper, error) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, dir := range []string{".", "./configs", "/etc/industry-planner"} {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix("IND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	registerViperDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var missing viper.ConfigFileNotFoundError
		if !errors.As(err, &missing) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// hosted Postgres hands out a bare DATABASE_URL
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		v.Set("database.url", dbURL)
	}
	return v, nil
}

// LoadConfigOrDefault falls back to built-in defaults when loading fails
func LoadConfigOrDefault(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return Defaults()
	}
	return cfg
}
