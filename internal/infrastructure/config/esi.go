package config

import "time"

// ESIConfig holds the game API client configuration used by the job and price feeds
type ESIConfig struct {
	// Base URL of the public API
	BaseURL string `mapstructure:"base_url" validate:"required,url"`

	// Datasource query parameter sent with every request
	Datasource string `mapstructure:"datasource" validate:"required"`

	// User agent identifying this application to the API operators
	UserAgent string `mapstructure:"user_agent"`

	// Per-request timeout
	Timeout time.Duration `mapstructure:"timeout" validate:"required"`

	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	Retry RetryConfig `mapstructure:"retry"`

	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	// Maximum requests per second
	Requests int `mapstructure:"requests" validate:"min=1"`

	// Burst size for token bucket
	Burst int `mapstructure:"burst" validate:"min=1"`
}

// RetryConfig holds retry configuration for failed requests
type RetryConfig struct {
	// Maximum number of retry attempts
	MaxAttempts int `mapstructure:"max_attempts" validate:"min=0"`

	// Base duration for exponential backoff
	BackoffBase time.Duration `mapstructure:"backoff_base"`
}

// CircuitBreakerConfig holds the breaker guarding the API client
type CircuitBreakerConfig struct {
	// Consecutive failures before the circuit opens
	MaxFailures int `mapstructure:"max_failures" validate:"min=1"`

	// Time the circuit stays open before one trial request is allowed
	Timeout time.Duration `mapstructure:"timeout"`
}

// FeedConfig controls how external feeds are fanned out
type FeedConfig struct {
	// Maximum characters whose job feeds are read concurrently
	Concurrency int `mapstructure:"concurrency" validate:"min=1,max=64"`
}
