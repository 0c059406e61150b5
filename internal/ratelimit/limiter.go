package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/salesops/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const (
	keyCalculateClient = "salesops:calculate:client:%s"
	keyReportPushLock  = "salesops:report:push:%s"
)

// Limiter guards the public calculation endpoint and serializes report pushes
// across replicas. A nil Limiter allows everything.
type Limiter struct {
	bucket *TokenBucket
	locker *Locker

	calculateRate  float64
	calculateBurst int
	reportLockTTL  time.Duration
}

type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Config config.Config
	Log    *zap.Logger
}

func NewLimiter(p Params) (*Limiter, error) {
	limitCfg := p.Config.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.CalculateRate <= 0 || limitCfg.CalculateBurst <= 0 {
		return nil, errors.New("calculate rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				p.Log.Warn("rate limit redis unreachable", zap.String("addr", addr), zap.Error(err))
			}
			return nil
		},
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})

	return newLimiter(client, limitCfg), nil
}

func newLimiter(client *redis.Client, cfg config.RateLimitConfig) *Limiter {
	ttl := time.Duration(cfg.ReportLockTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &Limiter{
		bucket:         NewTokenBucket(client),
		locker:         NewLocker(client),
		calculateRate:  cfg.CalculateRate,
		calculateBurst: cfg.CalculateBurst,
		reportLockTTL:  ttl,
	}
}

func (l *Limiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

// AllowCalculate takes one token from the client's bucket.
func (l *Limiter) AllowCalculate(ctx context.Context, clientKey string) (*RateLimitResult, error) {
	if !l.Enabled() {
		return &RateLimitResult{Allowed: true}, nil
	}
	return l.bucket.Allow(ctx, calculateKey(clientKey), l.calculateRate, l.calculateBurst)
}

// TryLockReportPush claims the push slot for a period for lease, or the configured
// TTL when lease is not positive. The returned token releases it early.
func (l *Limiter) TryLockReportPush(ctx context.Context, period string, lease time.Duration) (string, bool, error) {
	if !l.Enabled() {
		return "", true, nil
	}
	if lease <= 0 {
		lease = l.reportLockTTL
	}
	return l.locker.TryLock(ctx, reportPushKey(period), lease)
}

func (l *Limiter) ReleaseReportPush(ctx context.Context, period, token string) error {
	if !l.Enabled() {
		return nil
	}
	return l.locker.Release(ctx, reportPushKey(period), token)
}

func calculateKey(clientKey string) string {
	clientKey = strings.TrimSpace(clientKey)
	if clientKey == "" {
		clientKey = "anonymous"
	}
	return fmt.Sprintf(keyCalculateClient, clientKey)
}

func reportPushKey(period string) string {
	return fmt.Sprintf(keyReportPushLock, strings.TrimSpace(period))
}
