package datasource

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/rinkwar/internal/config"
)

// HTTPClientConfigFrom maps the ea_api section onto client settings
func HTTPClientConfigFrom(cfg config.EAAPIConfig) HTTPClientConfig {
	httpCfg := DefaultHTTPClientConfig()
	if cfg.TimeoutSeconds > 0 {
		httpCfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	httpCfg.MaxRetries = cfg.RetryAttempts
	if cfg.RequestsPerSecond > 0 {
		httpCfg.RateLimit = cfg.RequestsPerSecond
	}
	if cfg.Burst > 0 {
		httpCfg.Burst = cfg.Burst
	}
	if cfg.CooldownSeconds > 0 {
		httpCfg.CircuitCooldown = time.Duration(cfg.CooldownSeconds) * time.Second
	}
	if cfg.UserAgent != "" {
		httpCfg.UserAgent = cfg.UserAgent
	}
	return httpCfg
}

// NewEAClientFromConfig builds the EA client and its HTTP client from configuration
func NewEAClientFromConfig(cfg config.EAAPIConfig, logger *logrus.Logger) *EAClient {
	httpClient := NewRateLimitedHTTPClient(HTTPClientConfigFrom(cfg), logger)
	return NewEAClient(httpClient, cfg.BaseURL, cfg.Platform, cfg.MatchType, logger)
}
