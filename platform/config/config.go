// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetAPIRatePerMinute() int
}

// SteamConfig provides settings for the Steam store API client.
type SteamConfig interface {
	GetSteamStoreBaseURL() string
	GetSteamLanguage() string
	GetSteamCountryCode() string
	GetSteamHTTPTimeout() time.Duration
	GetSteamRatePerMinute() int
	GetSteamRateBurst() int
}

// CacheConfig provides settings for the app details cache.
type CacheConfig interface {
	GetDetailsCacheTTL() time.Duration
	GetRedisURL() string
	IsDetailsCacheEnabled() bool
}

// SchedulerConfig provides settings for the asynq prefetch queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// PrefetchConfig provides settings for warming the details cache after a search.
type PrefetchConfig interface {
	IsPrefetchEnabled() bool
	GetPrefetchLimit() int
}

// PanelConfig provides settings for the panel session registry.
type PanelConfig interface {
	GetPanelSessionIdleTTL() time.Duration
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                string
	HTTPAddr           string
	CORSAllowAll       bool
	CORSOrigins        []string
	CORSAllowCreds     bool
	APIRatePerMinute   int
	SteamStoreBaseURL  string
	SteamLanguage      string
	SteamCountryCode   string
	SteamHTTPTimeout   time.Duration
	SteamRatePerMinute int
	SteamRateBurst     int
	DetailsCacheTTL    time.Duration
	RedisURL           string
	RedisTLSInsecure   bool
	AsynqQueueName     string
	AsynqConcurrency   int
	PrefetchEnabled    bool
	PrefetchLimit      int
	PanelSessionIdle   time.Duration
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }
func (c *Config) GetAPIRatePerMinute() int { return c.APIRatePerMinute }

// SteamConfig implementation
func (c *Config) GetSteamStoreBaseURL() string        { return c.SteamStoreBaseURL }
func (c *Config) GetSteamLanguage() string            { return c.SteamLanguage }
func (c *Config) GetSteamCountryCode() string         { return c.SteamCountryCode }
func (c *Config) GetSteamHTTPTimeout() time.Duration  { return c.SteamHTTPTimeout }
func (c *Config) GetSteamRatePerMinute() int          { return c.SteamRatePerMinute }
func (c *Config) GetSteamRateBurst() int              { return c.SteamRateBurst }

// CacheConfig implementation
func (c *Config) GetDetailsCacheTTL() time.Duration { return c.DetailsCacheTTL }
func (c *Config) GetRedisURL() string               { return c.RedisURL }
func (c *Config) IsDetailsCacheEnabled() bool       { return c.DetailsCacheTTL > 0 }

// SchedulerConfig implementation
func (c *Config) GetRedisTLSInsecure() bool  { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string  { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int   { return c.AsynqConcurrency }

// PrefetchConfig implementation
func (c *Config) IsPrefetchEnabled() bool {
	return c.PrefetchEnabled && c.RedisURL != "" && c.IsDetailsCacheEnabled()
}
func (c *Config) GetPrefetchLimit() int { return c.PrefetchLimit }

// PanelConfig implementation
func (c *Config) GetPanelSessionIdleTTL() time.Duration { return c.PanelSessionIdle }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                getEnv("APP_ENV", "development"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:       corsAllowAll,
		CORSOrigins:        corsOrigins,
		CORSAllowCreds:     strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		APIRatePerMinute:   mustInt(getEnv("API_RATE_PER_MINUTE", "600")),
		SteamStoreBaseURL:  strings.TrimRight(getEnv("STEAM_STORE_BASE_URL", "https://store.steampowered.com"), "/"),
		SteamLanguage:      getEnv("STEAM_LANGUAGE", "english"),
		SteamCountryCode:   getEnv("STEAM_COUNTRY_CODE", "US"),
		SteamHTTPTimeout:   mustDuration(getEnv("STEAM_HTTP_TIMEOUT", "10s")),
		SteamRatePerMinute: mustInt(getEnv("STEAM_RATE_PER_MINUTE", "40")),
		SteamRateBurst:     mustInt(getEnv("STEAM_RATE_BURST", "10")),
		DetailsCacheTTL:    mustDuration(getEnv("DETAILS_CACHE_TTL", "0")),
		RedisURL:           getEnv("REDIS_URL", ""),
		RedisTLSInsecure:   strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:     getEnv("ASYNQ_QUEUE", "steam"),
		AsynqConcurrency:   mustInt(getEnv("ASYNQ_CONCURRENCY", "4")),
		PrefetchEnabled:    strings.EqualFold(getEnv("PREFETCH_ENABLED", "false"), "true"),
		PrefetchLimit:      mustInt(getEnv("PREFETCH_LIMIT", "3")),
		PanelSessionIdle:   mustDuration(getEnv("PANEL_SESSION_IDLE_TTL", "30m")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	parsed, err := url.Parse(c.SteamStoreBaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("STEAM_STORE_BASE_URL must be an absolute URL")
	}
	if c.SteamHTTPTimeout <= 0 {
		return fmt.Errorf("STEAM_HTTP_TIMEOUT must be a positive duration")
	}
	if c.SteamRatePerMinute <= 0 || c.SteamRateBurst <= 0 {
		return fmt.Errorf("STEAM_RATE_PER_MINUTE and STEAM_RATE_BURST must be positive")
	}
	if c.CORSAllowAll && c.CORSAllowCreds {
		return fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if c.PanelSessionIdle <= 0 {
		return fmt.Errorf("PANEL_SESSION_IDLE_TTL must be a positive duration")
	}
	if c.PrefetchEnabled && c.RedisURL == "" {
		return fmt.Errorf("REDIS_URL is required when PREFETCH_ENABLED is true")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
