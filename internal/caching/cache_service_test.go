package caching

import (
	"context"
	"testing"
	"time"

	"navhub/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisCacheService_JSONRoundTrip(t *testing.T) {
	cache := NewRedisCacheService(testhelpers.SetupTestRedis(t))
	ctx := context.Background()

	type payload struct {
		Title string `json:"title"`
	}

	var got payload
	hit, err := cache.GetJSON(ctx, SiteSettingsKey, &got)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.SetJSON(ctx, SiteSettingsKey, payload{Title: "Nav"}, time.Minute))
	hit, err = cache.GetJSON(ctx, SiteSettingsKey, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Nav", got.Title)

	require.NoError(t, cache.Delete(ctx, SiteSettingsKey, CategoriesKey))
	hit, err = cache.GetJSON(ctx, SiteSettingsKey, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCacheService_LoginFailures(t *testing.T) {
	cache := NewRedisCacheService(testhelpers.SetupTestRedis(t))
	ctx := context.Background()
	ip := "203.0.113.7"

	for i := 1; i <= 3; i++ {
		count, err := cache.RecordLoginFailure(ctx, ip, 15*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, int64(i), count)
	}

	count, ttl, err := cache.LoginFailures(ctx, ip)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Greater(t, ttl, 14*time.Minute)

	require.NoError(t, cache.ClearLoginFailures(ctx, ip))
	count, _, err = cache.LoginFailures(ctx, ip)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestLoginFailureKey(t *testing.T) {
	assert.Equal(t, "navhub:login:failures:10.0.0.1", loginFailureKey("10.0.0.1"))
}
