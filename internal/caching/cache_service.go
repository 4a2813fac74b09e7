package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "navhub:"

// Keys of cached public reads.
const (
	CategoriesKey   = keyPrefix + "public:categories"
	SiteSettingsKey = keyPrefix + "public:site-settings"
)

type CacheService interface {
	// Public read cache
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// Login failure tracking
	RecordLoginFailure(ctx context.Context, ip string, lockout time.Duration) (int64, error)
	LoginFailures(ctx context.Context, ip string) (int64, time.Duration, error)
	ClearLoginFailures(ctx context.Context, ip string) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client redis.UniversalClient
}

// NewRedisClient builds a client for addr, accepting a bare host:port or a
// redis:// URL.
func NewRedisClient(addr, password string, db int) *redis.Client {
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if opts, err := redis.ParseURL(addr); err == nil {
			if password != "" {
				opts.Password = password
			}
			return redis.NewClient(opts)
		}
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisCacheService(client redis.UniversalClient) CacheService {
	if err := client.Ping(context.Background()).Err(); err != nil {
		slog.Warn("redis ping failed on initialization", "error", err)
	} else {
		slog.Debug("redis connection established")
	}
	return &redisCacheService{client: client}
}

func loginFailureKey(ip string) string {
	return fmt.Sprintf("%slogin:failures:%s", keyPrefix, ip)
}

func (r *redisCacheService) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil // cache miss
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (r *redisCacheService) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

// RecordLoginFailure counts one failure for ip. The counter expires lockout
// after the latest failure, so a locked IP stays locked for the full period.
func (r *redisCacheService) RecordLoginFailure(ctx context.Context, ip string, lockout time.Duration) (int64, error) {
	key := loginFailureKey(ip)
	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, lockout)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// LoginFailures returns the failure count for ip and the time until it resets.
func (r *redisCacheService) LoginFailures(ctx context.Context, ip string) (int64, time.Duration, error) {
	key := loginFailureKey(ip)
	count, err := r.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, 0, nil
		}
		return 0, 0, err
	}
	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	return count, ttl, nil
}

func (r *redisCacheService) ClearLoginFailures(ctx context.Context, ip string) error {
	return r.client.Del(ctx, loginFailureKey(ip)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
