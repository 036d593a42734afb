package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rudylameme/bvp-planning-sub000/internal/config"
	"github.com/rudylameme/bvp-planning-sub000/internal/domain"
)

func newTestPlanCache(t *testing.T) (PlanCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisPlanCache(client, time.Minute), mr
}

func samplePlan() *domain.Plan {
	day := domain.Tuesday
	return &domain.Plan{
		Entries: []domain.PlanEntry{{
			Day: domain.Monday, Shelf: domain.ShelfBakery, BakingProgram: "Baguettes",
			ProductID: "p1", Label: "Baguette",
			SlotQuantities: domain.SlotQuantities{Morning: 20, Midday: 12, Evening: 8},
			Total:          40, Units: 40, UnitsPerTray: 12, Trays: 3.5,
		}},
		Lost: []domain.LostQuantity{{ProductID: "p1", Day: domain.Sunday, HalfDay: domain.PM, Quantity: 3, Reason: domain.LostEndOfWeek}},
		Warnings: []domain.Warning{
			{Kind: domain.WarnZeroTrafficDay, Day: &day, Message: "no tickets"},
		},
	}
}

func TestRedisPlanCacheRoundTrip(t *testing.T) {
	c, mr := newTestPlanCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "s1", 3)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "s1", 3, samplePlan()))

	got, ok, err := c.Get(ctx, "s1", 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, samplePlan().Entries, got.Entries)
	assert.Equal(t, samplePlan().Lost, got.Lost)
	require.Len(t, got.Warnings, 1)
	assert.Equal(t, domain.Tuesday, *got.Warnings[0].Day)

	_, ok, err = c.Get(ctx, "s1", 4)
	require.NoError(t, err)
	assert.False(t, ok, "another revision is a miss")

	key := planKey("s1", 3)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))
}

func TestRedisPlanCacheInvalidate(t *testing.T) {
	c, mr := newTestPlanCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "s1", 1, samplePlan()))
	require.NoError(t, c.Set(ctx, "s1", 2, samplePlan()))
	require.NoError(t, c.Set(ctx, "s2", 1, samplePlan()))

	require.NoError(t, c.Invalidate(ctx, "s1"))

	for _, key := range mr.Keys() {
		assert.False(t, strings.HasPrefix(key, "plan:s1:"), key)
	}
	assert.True(t, mr.Exists(planKey("s2", 1)))
}

func TestRedisPlanCacheExpires(t *testing.T) {
	c, mr := newTestPlanCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "s1", 1, samplePlan()))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "s1", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewPlanCacheDisabled(t *testing.T) {
	c, err := NewPlanCache(config.CacheConfig{Enabled: false})
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "s1", 1, samplePlan()))
	_, ok, err := c.Get(ctx, "s1", 1)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Invalidate(ctx, "s1"))
}

func TestNewPlanCacheEnabled(t *testing.T) {
	mr := miniredis.RunT(t)
	c, err := NewPlanCache(config.CacheConfig{Enabled: true, RedisURL: "redis://" + mr.Addr() + "/0", PlanTTLSeconds: 30})
	require.NoError(t, err)

	require.NoError(t, c.Set(context.Background(), "s1", 1, samplePlan()))
	assert.Equal(t, 30*time.Second, mr.TTL(planKey("s1", 1)))
}

func TestPlanRedisOptions(t *testing.T) {
	opts, err := planRedisOptions(config.CacheConfig{RedisHost: "cache", RedisPort: "6380", RedisDB: 2})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)

	_, err = planRedisOptions(config.CacheConfig{RedisURL: "://bad"})
	assert.Error(t, err)
}

func TestDropSessionPlans(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	ctx := context.Background()

	for rev := 1; rev <= 3; rev++ {
		require.NoError(t, mr.Set(planKey("s1", rev), "{}"))
	}
	require.NoError(t, mr.Set(planKey("s10", 1), "{}"))

	dropped, err := dropSessionPlans(ctx, client, "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, dropped)
	assert.Equal(t, []string{planKey("s10", 1)}, mr.Keys())
}

func TestDialPlanStoreUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewPlanCache(config.CacheConfig{Enabled: true, RedisURL: "redis://" + addr + "/0"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "plan cache unreachable")
}
