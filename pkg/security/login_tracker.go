package security

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// LoginTrackerConfig holds configuration for login tracking
type LoginTrackerConfig struct {
	MaxAttempts   int           // failed attempts before a block
	AttemptWindow time.Duration // window the failure counter lives for
	BlockDuration time.Duration // how long a block lasts
	UseIPTracking bool          // also block the client IP
}

func DefaultLoginTrackerConfig() LoginTrackerConfig {
	return LoginTrackerConfig{
		MaxAttempts:   5,
		AttemptWindow: 15 * time.Minute,
		BlockDuration: 15 * time.Minute,
		UseIPTracking: true,
	}
}

// LoginTracker counts failed logins in Redis and blocks an email (and IP)
// once MaxAttempts is reached. With no Redis client it fails open.
type LoginTracker struct {
	client *goredis.Client
	config LoginTrackerConfig
	logger *SecurityLogger
}

func NewLoginTracker(client *goredis.Client, config LoginTrackerConfig, logger *SecurityLogger) *LoginTracker {
	return &LoginTracker{client: client, config: config, logger: logger}
}

const (
	failLoginUserPrefix    = "fail:login:user:"
	failLoginIPPrefix      = "fail:login:ip:"
	blockedLoginUserPrefix = "blocked:login:user:"
	blockedLoginIPPrefix   = "blocked:login:ip:"
)

// KEYS[1] = counter key, ARGV[1] = TTL seconds. Returns the new count.
var incrWithTTL = goredis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
return count
`)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (lt *LoginTracker) IsBlocked(ctx context.Context, email, ip string) (bool, error) {
	if lt.client == nil {
		return false, nil
	}

	keys := []string{blockedLoginUserPrefix + normalizeEmail(email)}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, blockedLoginIPPrefix+ip)
	}
	exists, err := lt.client.Exists(ctx, keys...).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check login block: %w", err)
	}
	return exists > 0, nil
}

// RecordFailedAttempt returns whether the attempt triggered a block and the
// current failure count.
func (lt *LoginTracker) RecordFailedAttempt(ctx context.Context, email, ip, userAgent, requestID string) (bool, int, error) {
	lt.logger.LogLoginFailed(ctx, email, ip, userAgent, requestID, "invalid_credentials")
	if lt.client == nil {
		return false, 0, errors.New("redis not available for login tracking")
	}

	ttlSeconds := int(lt.config.AttemptWindow.Seconds())
	email = normalizeEmail(email)

	count, err := incrWithTTL.Run(ctx, lt.client, []string{failLoginUserPrefix + email}, ttlSeconds).Int()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment login failures: %w", err)
	}
	if lt.config.UseIPTracking && ip != "" {
		_, _ = incrWithTTL.Run(ctx, lt.client, []string{failLoginIPPrefix + ip}, ttlSeconds).Int()
	}

	if count < lt.config.MaxAttempts {
		return false, count, nil
	}

	pipe := lt.client.TxPipeline()
	pipe.Set(ctx, blockedLoginUserPrefix+email, "1", lt.config.BlockDuration)
	if lt.config.UseIPTracking && ip != "" {
		pipe.Set(ctx, blockedLoginIPPrefix+ip, "1", lt.config.BlockDuration)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return true, count, fmt.Errorf("failed to create login block: %w", err)
	}
	lt.logger.LogLoginBlocked(ctx, email, ip, requestID, int(lt.config.BlockDuration.Minutes()))
	return true, count, nil
}

// ClearAttempts drops the failure counters after a successful login.
func (lt *LoginTracker) ClearAttempts(ctx context.Context, email, ip string) error {
	if lt.client == nil {
		return nil
	}
	keys := []string{failLoginUserPrefix + normalizeEmail(email)}
	if lt.config.UseIPTracking && ip != "" {
		keys = append(keys, failLoginIPPrefix+ip)
	}
	if err := lt.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to clear login attempts: %w", err)
	}
	return nil
}

// BlockTTL returns how long the email stays blocked.
func (lt *LoginTracker) BlockTTL(ctx context.Context, email string) (time.Duration, bool, error) {
	if lt.client == nil {
		return 0, false, nil
	}
	ttl, err := lt.client.TTL(ctx, blockedLoginUserPrefix+normalizeEmail(email)).Result()
	if err != nil {
		return 0, false, fmt.Errorf("failed to get block TTL: %w", err)
	}
	if ttl < 0 {
		return 0, false, nil
	}
	return ttl, true, nil
}
