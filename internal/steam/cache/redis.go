package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"steam_search_backend/internal/steam/transport"
	"steam_search_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

const detailsKeyPrefix = "steam:details:"

// Redis shares cached details between API replicas and the scheduler.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedis creates a redis-backed cache. The caller owns client.
func NewRedis(client *redis.Client, ttl time.Duration, log *logger.Logger) *Redis {
	return &Redis{client: client, ttl: ttl, log: log}
}

// Get returns cached details. Redis errors are logged and reported as a miss.
func (r *Redis) Get(ctx context.Context, appID string) (*transport.GameDetails, bool) {
	raw, err := r.client.Get(ctx, detailsKey(appID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.log.Warn("details cache read failed", "appId", appID, "error", err)
		}
		return nil, false
	}

	var details transport.GameDetails
	if err := json.Unmarshal(raw, &details); err != nil {
		r.log.Warn("details cache entry corrupt", "appId", appID, "error", err)
		return nil, false
	}
	return &details, true
}

// Set stores details with the configured TTL.
func (r *Redis) Set(ctx context.Context, details *transport.GameDetails) {
	if details == nil {
		return
	}

	raw, err := json.Marshal(details)
	if err != nil {
		r.log.Warn("details cache encode failed", "appId", details.AppID, "error", err)
		return
	}
	if err := r.client.Set(ctx, detailsKey(details.AppID), raw, r.ttl).Err(); err != nil {
		r.log.Warn("details cache write failed", "appId", details.AppID, "error", err)
	}
}

func detailsKey(appID string) string {
	return detailsKeyPrefix + appID
}
