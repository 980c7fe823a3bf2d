// Package redisclient opens the shared go-redis connection used by the
// details cache and readiness checks.
package redisclient

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"steam_search_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// Config is the subset of configuration needed to reach redis.
type Config interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
}

// Open parses the redis URL and pings the server, retrying with quadratic
// backoff. Returns nil, nil when no URL is configured.
func Open(ctx context.Context, cfg Config, log *logger.Logger) (*redis.Client, error) {
	if cfg.GetRedisURL() == "" {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.GetRedisURL())
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if cfg.GetRedisTLSInsecure() {
		if opt.TLSConfig == nil {
			opt.TLSConfig = &tls.Config{}
		}
		opt.TLSConfig.InsecureSkipVerify = true
	}

	client := redis.NewClient(opt)
	if err := WithRetry(ctx, log, "redis connection", 5, time.Second, func() error {
		return client.Ping(ctx).Err()
	}); err != nil {
		_ = client.Close()
		return nil, err
	}

	log.Info("redis connection established", "addr", opt.Addr, "db", opt.DB)
	return client, nil
}

// WithRetry runs fn up to attempts times, sleeping attempt² × baseDelay
// between failures.
func WithRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}

// HealthAdapter exposes a redis client as a readiness checker.
type HealthAdapter struct {
	client *redis.Client
}

// NewHealthAdapter wraps client for readiness checks.
func NewHealthAdapter(client *redis.Client) *HealthAdapter {
	return &HealthAdapter{client: client}
}

// Ping checks the redis connection.
func (h *HealthAdapter) Ping(ctx context.Context) error {
	return h.client.Ping(ctx).Err()
}
