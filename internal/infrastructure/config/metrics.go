package config

// MetricsConfig holds metrics collection configuration
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active
	Enabled bool `mapstructure:"enabled"`

	// Node exporter textfile the CLI writes after each command
	TextfilePath string `mapstructure:"textfile_path" validate:"required_if=Enabled true"`

	// Namespace prefix for every metric name
	Namespace string `mapstructure:"namespace"`
}
