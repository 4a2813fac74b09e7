package services

import (
	"context"
	"log/slog"
	"time"

	"navhub/internal/caching"
	"navhub/internal/common"
)

// LoginGuard locks out a client address after repeated failed password
// checks. Login, hidden verification and bookmark auth share one counter.
type LoginGuard interface {
	// Check returns common.ErrTooManyAttempts while ip is locked.
	Check(ctx context.Context, ip string) error
	Fail(ctx context.Context, ip string)
	Reset(ctx context.Context, ip string)
}

type loginGuard struct {
	cache       caching.CacheService
	maxAttempts int64
	lockout     time.Duration
}

func NewLoginGuard(cache caching.CacheService, maxAttempts int, lockout time.Duration) LoginGuard {
	return &loginGuard{cache: cache, maxAttempts: int64(maxAttempts), lockout: lockout}
}

// Check fails open when the counter store is unreachable so an outage of the
// cache does not lock everyone out.
func (g *loginGuard) Check(ctx context.Context, ip string) error {
	count, ttl, err := g.cache.LoginFailures(ctx, ip)
	if err != nil {
		slog.WarnContext(ctx, "login guard unavailable", "ip", ip, "error", err)
		return nil
	}
	if count < g.maxAttempts {
		return nil
	}
	if ttl <= 0 {
		ttl = g.lockout
	}
	minutes := int(ttl/time.Minute) + 1
	return common.NewError(common.ErrTooManyAttempts,
		"too many failed attempts, try again in %d minutes", minutes)
}

func (g *loginGuard) Fail(ctx context.Context, ip string) {
	count, err := g.cache.RecordLoginFailure(ctx, ip, g.lockout)
	if err != nil {
		slog.WarnContext(ctx, "failed to record login failure", "ip", ip, "error", err)
		return
	}
	if count >= g.maxAttempts {
		slog.WarnContext(ctx, "client locked out", "ip", ip, "failures", count, "lockout", g.lockout)
	}
}

func (g *loginGuard) Reset(ctx context.Context, ip string) {
	if err := g.cache.ClearLoginFailures(ctx, ip); err != nil {
		slog.WarnContext(ctx, "failed to clear login failures", "ip", ip, "error", err)
	}
}
