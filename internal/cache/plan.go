package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rudylameme/bvp-planning-sub000/internal/config"
	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
)

const defaultPlanTTL = 5 * time.Minute

// PlanCache keeps computed plan snapshots per session revision. Cached plans
// carry no input; callers reattach it from the session.
type PlanCache interface {
	Get(ctx context.Context, sessionID string, revision int) (*domain.Plan, bool, error)
	Set(ctx context.Context, sessionID string, revision int, plan *domain.Plan) error
	Invalidate(ctx context.Context, sessionID string) error
}

type redisPlanCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopPlanCache struct{}

func NewPlanCache(cfg config.CacheConfig) (PlanCache, error) {
	if !cfg.Enabled {
		return &noopPlanCache{}, nil
	}

	client, err := dialPlanStore(cfg)
	if err != nil {
		return nil, err
	}
	return NewRedisPlanCache(client, cfg.PlanTTL()), nil
}

// NewRedisPlanCache wraps an existing client.
func NewRedisPlanCache(client *redis.Client, ttl time.Duration) PlanCache {
	if ttl <= 0 {
		ttl = defaultPlanTTL
	}
	return &redisPlanCache{client: client, ttl: ttl}
}

func NewNoopPlanCache() PlanCache {
	return &noopPlanCache{}
}

func (c *redisPlanCache) Get(ctx context.Context, sessionID string, revision int) (*domain.Plan, bool, error) {
	payload, err := c.client.Get(ctx, planKey(sessionID, revision)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached plan of session %s: %w", sessionID, err)
	}

	var plan domain.Plan
	if err := json.Unmarshal(payload, &plan); err != nil {
		return nil, false, fmt.Errorf("decode cached plan of session %s: %w", sessionID, err)
	}
	return &plan, true, nil
}

func (c *redisPlanCache) Set(ctx context.Context, sessionID string, revision int, plan *domain.Plan) error {
	payload, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode plan of session %s: %w", sessionID, err)
	}

	if err := c.client.Set(ctx, planKey(sessionID, revision), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("store plan of session %s: %w", sessionID, err)
	}
	return nil
}

// Invalidate drops every cached revision of the session.
func (c *redisPlanCache) Invalidate(ctx context.Context, sessionID string) error {
	_, err := dropSessionPlans(ctx, c.client, sessionID)
	return err
}

func (n *noopPlanCache) Get(ctx context.Context, sessionID string, revision int) (*domain.Plan, bool, error) {
	return nil, false, nil
}

func (n *noopPlanCache) Set(ctx context.Context, sessionID string, revision int, plan *domain.Plan) error {
	return nil
}

func (n *noopPlanCache) Invalidate(ctx context.Context, sessionID string) error {
	return nil
}
