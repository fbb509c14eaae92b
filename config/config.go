package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Satellite   SatelliteConfig
	Cache       CacheConfig
	Diagnostics DiagnosticsConfig
	Log         LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	APIAccessKey    string        `mapstructure:"api_access_key"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SatelliteConfig holds upstream imagery fetch configuration
type SatelliteConfig struct {
	FetchTimeout  time.Duration `mapstructure:"fetch_timeout"`
	RetryAttempts int           `mapstructure:"retry_attempts"`
	MinImageBytes int           `mapstructure:"min_image_bytes"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	RateBurst     int           `mapstructure:"rate_burst"`
}

// CacheConfig holds image cache configuration
type CacheConfig struct {
	ImageTTL       time.Duration `mapstructure:"image_ttl"`
	PlaceholderTTL time.Duration `mapstructure:"placeholder_ttl"`
	MaxEntries     int           `mapstructure:"max_entries"`
}

// DiagnosticsConfig gates the cache-stats/debug/metrics endpoints
type DiagnosticsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/solvurder/")

	// Environment variable settings
	v.SetEnvPrefix("SOLVURDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.api_access_key", "")
	v.SetDefault("server.shutdown_timeout", "10s")

	// Upstream fetch defaults
	v.SetDefault("satellite.fetch_timeout", "15s")
	v.SetDefault("satellite.retry_attempts", 2)
	v.SetDefault("satellite.min_image_bytes", 1000)
	v.SetDefault("satellite.rate_per_second", 5.0)
	v.SetDefault("satellite.rate_burst", 10)

	// Cache defaults: real imagery is stable for a day, placeholders
	// should self-heal quickly once providers recover
	v.SetDefault("cache.image_ttl", "24h")
	v.SetDefault("cache.placeholder_ttl", "2m")
	v.SetDefault("cache.max_entries", 500)

	// Diagnostics endpoints are opt-in
	v.SetDefault("diagnostics.enabled", false)

	// Logging defaults
	v.SetDefault("log.level", "info")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Satellite.FetchTimeout < time.Second {
		return fmt.Errorf("satellite fetch timeout must be at least 1s, got: %s", config.Satellite.FetchTimeout)
	}

	if config.Satellite.RetryAttempts < 1 || config.Satellite.RetryAttempts > 3 {
		return fmt.Errorf("satellite retry attempts must be between 1 and 3, got: %d", config.Satellite.RetryAttempts)
	}

	if config.Satellite.MinImageBytes < 0 {
		return fmt.Errorf("satellite min image bytes must not be negative, got: %d", config.Satellite.MinImageBytes)
	}

	if config.Cache.MaxEntries <= 0 {
		return fmt.Errorf("cache max entries must be positive, got: %d", config.Cache.MaxEntries)
	}

	if config.Cache.ImageTTL <= 0 || config.Cache.PlaceholderTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}

	return nil
}
