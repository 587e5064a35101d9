package config

import (
	"fmt"
	"time"
)

// DatabaseConfig selects the project store. Postgres is the shared deployment;
// sqlite serves single-user setups and tests.
type DatabaseConfig struct {
	Type string `mapstructure:"type" validate:"required,oneof=postgres sqlite"`

	// URL wins over the discrete postgres fields when set
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`

	// Path is the sqlite file; empty means an in-memory database
	Path string `mapstructure:"path"`

	AutoMigrate bool       `mapstructure:"auto_migrate"`
	Pool        PoolConfig `mapstructure:"pool"`
}

// PoolConfig sizes the postgres connection pool
type PoolConfig struct {
	MaxOpen     int           `mapstructure:"max_open" validate:"min=1"`
	MaxIdle     int           `mapstructure:"max_idle" validate:"min=1"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}

// DSN returns the driver connection string for the configured type
func (c DatabaseConfig) DSN() string {
	if c.Type == "sqlite" {
		if c.Path == "" {
			return ":memory:"
		}
		return c.Path
	}
	if c.URL != "" {
		return c.URL
	}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, sslMode)
}
