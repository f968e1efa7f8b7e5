// Package ratelimit throttles repeated login attempts per account and
// source address, backed by Redis so the window survives restarts and is
// shared between replicas.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	goredis "github.com/redis/go-redis/v9"
)

// LoginLimiter counts failed-or-pending login attempts in fixed windows.
// A nil *LoginLimiter is valid and allows everything; the limiter is an
// optional hardening layer, not a dependency of the login flow.
type LoginLimiter struct {
	rdb    *goredis.Client
	clock  clockwork.Clock
	limit  int
	window time.Duration
}

func NewLoginLimiter(rdb *goredis.Client, clock clockwork.Clock, limit int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		rdb:    rdb,
		clock:  clock,
		limit:  limit,
		window: window,
	}
}

func (l *LoginLimiter) key(username, ip string) string {
	bucket := l.clock.Now().Unix() / int64(l.window.Seconds())
	return fmt.Sprintf("login_attempts:%s:%s:%d", username, ip, bucket)
}

// Allow records one attempt and reports whether it is within the limit.
// Redis failures fail open: a broken limiter must not lock everyone out.
func (l *LoginLimiter) Allow(ctx context.Context, username, ip string) bool {
	if l == nil {
		return true
	}

	key := l.key(username, ip)
	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return true
	}
	if count == 1 {
		// Two windows keeps the key alive slightly past its bucket.
		l.rdb.Expire(ctx, key, 2*l.window)
	}

	return count <= int64(l.limit)
}

// Reset forgets the current window for the given identity, called after a
// successful login so earlier typos stop counting against the user.
func (l *LoginLimiter) Reset(ctx context.Context, username, ip string) {
	if l == nil {
		return
	}
	l.rdb.Del(ctx, l.key(username, ip))
}
