package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rudylameme/bvp-planning-sub000/internal/config"
)

const (
	planKeyPrefix  = "plan"
	planScanCount  = 100
	planDialTimeout = 5 * time.Second

	defaultPlanRedisHost = "127.0.0.1"
	defaultPlanRedisPort = "6379"
)

// dialPlanStore connects to the redis instance holding plan snapshots and
// checks it answers before the service starts serving plans from it.
func dialPlanStore(cfg config.CacheConfig) (*redis.Client, error) {
	opts, err := planRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), planDialTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("plan cache unreachable at %s: %w", opts.Addr, err)
	}

	return client, nil
}

// planRedisOptions prefers REDIS_URL and falls back to host/port.
func planRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("plan cache redis url: %w", err)
		}
		return opt, nil
	}

	host, port := cfg.RedisHost, cfg.RedisPort
	if host == "" {
		host = defaultPlanRedisHost
	}
	if port == "" {
		port = defaultPlanRedisPort
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

// planKey is plan:<session>:<sha1(session@revision)>, so every revision of a
// session shares the sessionPlans pattern.
func planKey(sessionID string, revision int) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s@%d", sessionID, revision)))
	return fmt.Sprintf("%s:%s:%s", planKeyPrefix, sessionID, hex.EncodeToString(sum[:]))
}

func sessionPlans(sessionID string) string {
	return fmt.Sprintf("%s:%s:*", planKeyPrefix, sessionID)
}

// dropSessionPlans removes the cached plans of every revision of a session
// and reports how many were removed.
func dropSessionPlans(ctx context.Context, client *redis.Client, sessionID string) (int, error) {
	var (
		cursor  uint64
		dropped int
	)
	for {
		keys, next, err := client.Scan(ctx, cursor, sessionPlans(sessionID), planScanCount).Result()
		if err != nil {
			return dropped, fmt.Errorf("scan plans of session %s: %w", sessionID, err)
		}

		if len(keys) > 0 {
			n, err := client.Del(ctx, keys...).Result()
			if err != nil {
				return dropped, fmt.Errorf("drop plans of session %s: %w", sessionID, err)
			}
			dropped += int(n)
		}

		cursor = next
		if cursor == 0 {
			return dropped, nil
		}
	}
}
