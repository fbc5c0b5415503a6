package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	// ErrLimited is returned once the attempt budget for a window is spent.
	ErrLimited = errors.New("too many login attempts")

	// ErrUnavailable wraps Redis failures.
	ErrUnavailable = errors.New("login limiter unavailable")
)

const keyPrefix = "jobboard:login:"

// incrWindow counts an attempt and starts the window. The expiry is set
// whenever the key has none, so a counter can never outlive its window.
var incrWindow = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// LoginLimiter counts login attempts per email and client IP in fixed
// windows stored in Redis.
type LoginLimiter struct {
	client      redis.Cmdable
	maxAttempts int64
	window      time.Duration
}

// NewLoginLimiter allows maxAttempts logins per email and IP within window.
func NewLoginLimiter(client redis.Cmdable, maxAttempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{client: client, maxAttempts: int64(maxAttempts), window: window}
}

// Allow records an attempt and returns ErrLimited when the budget for the
// current window is exceeded. Known and unknown emails are counted alike.
func (l *LoginLimiter) Allow(ctx context.Context, email, ip string) error {
	key := attemptKey(email, ip)

	count, err := incrWindow.Run(ctx, l.client, []string{key}, l.window.Milliseconds()).Int64()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if count > l.maxAttempts {
		return ErrLimited
	}
	return nil
}

// Reset clears the attempt counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email, ip string) error {
	if err := l.client.Del(ctx, attemptKey(email, ip)).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

// attemptKey hashes the email so addresses are not stored in Redis.
func attemptKey(email, ip string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return keyPrefix + hex.EncodeToString(sum[:16]) + ":" + ip
}
