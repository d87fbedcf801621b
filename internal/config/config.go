// Package config provides configuration management for the rinkwar application.
package config

import (
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	EAAPI     EAAPIConfig     `mapstructure:"ea_api" validate:"required"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Secrets   SecretsConfig   `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration.
// Storage is optional; the other fields are only checked when enabled.
type DatabaseConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	Host               string `mapstructure:"host" validate:"required_if=Enabled true"`
	Port               int    `mapstructure:"port" validate:"gte=0,lte=65535"`
	Name               string `mapstructure:"name" validate:"required_if=Enabled true"`
	User               string `mapstructure:"user" validate:"required_if=Enabled true"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"gte=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"gte=0"`
}

// EAAPIConfig represents the EA clubs API configuration
type EAAPIConfig struct {
	BaseURL           string   `mapstructure:"base_url" validate:"required,url"`
	Platform          string   `mapstructure:"platform" validate:"required"`
	MatchType         string   `mapstructure:"match_type" validate:"required,matchtype"`
	ClubIDs           []string `mapstructure:"club_ids" validate:"dive,numeric"`
	TimeoutSeconds    int      `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts     int      `mapstructure:"retry_attempts" validate:"gte=0,lte=10"`
	RequestsPerSecond float64  `mapstructure:"requests_per_second" validate:"required,gt=0"`
	Burst             int      `mapstructure:"burst" validate:"required,gt=0"`
	CooldownSeconds   int      `mapstructure:"circuit_cooldown_seconds" validate:"gte=0"`
	UserAgent         string   `mapstructure:"user_agent"`
}

// PipelineConfig represents WAR pipeline tuning
type PipelineConfig struct {
	Workers               int     `mapstructure:"workers" validate:"gte=0"`
	MinGamesQualified     int     `mapstructure:"min_games_qualified" validate:"required,gt=0"`
	ReplacementPercentile float64 `mapstructure:"replacement_percentile" validate:"required,gt=0,lt=1"`
	CacheTTLSeconds       int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	OutputFormat          string  `mapstructure:"output_format" validate:"required,oneof=json csv table"`
}

// SchedulerConfig represents periodic recompute scheduling
type SchedulerConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"gte=0,lte=65535"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// SecretsConfig points at an AWS Secrets Manager secret overlaid on load
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region" validate:"required_if=Enabled true"`
	SecretName string `mapstructure:"secret_name" validate:"required_if=Enabled true"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetEATimeout returns the EA API request timeout
func (c *Config) GetEATimeout() time.Duration {
	return time.Duration(c.EAAPI.TimeoutSeconds) * time.Second
}

// GetCacheTTL returns the replacement table cache TTL
func (c *Config) GetCacheTTL() time.Duration {
	return time.Duration(c.Pipeline.CacheTTLSeconds) * time.Second
}
