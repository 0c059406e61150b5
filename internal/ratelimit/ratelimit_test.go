package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/salesops/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

func TestNewLimiterDisabled(t *testing.T) {
	l, err := NewLimiter(Params{Lc: fxtest.NewLifecycle(t), Config: config.Config{}, Log: zap.NewNop()})
	require.NoError(t, err)
	assert.Nil(t, l)
	assert.False(t, l.Enabled())

	res, err := l.AllowCalculate(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)

	token, ok, err := l.TryLockReportPush(context.Background(), "2024-04", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, token)
	assert.NoError(t, l.ReleaseReportPush(context.Background(), "2024-04", token))
}

func TestNewLimiterValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.RateLimitConfig
	}{
		{"missing redis addr", config.RateLimitConfig{Enabled: true, CalculateRate: 1, CalculateBurst: 1}},
		{"zero rate", config.RateLimitConfig{Enabled: true, RedisAddr: "localhost:6379", CalculateBurst: 1}},
		{"zero burst", config.RateLimitConfig{Enabled: true, RedisAddr: "localhost:6379", CalculateRate: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLimiter(Params{
				Lc:     fxtest.NewLifecycle(t),
				Config: config.Config{RateLimit: tt.cfg},
				Log:    zap.NewNop(),
			})
			assert.Error(t, err)
		})
	}
}

func TestTokenBucketRejectsBadArguments(t *testing.T) {
	var missing *TokenBucket
	res, err := missing.Allow(context.Background(), "k", 1, 1)
	assert.Error(t, err)
	assert.False(t, res.Allowed)

	var locker *Locker
	_, _, err = locker.TryLock(context.Background(), "k", time.Second)
	assert.ErrorIs(t, err, ErrLockNotConfigured)
	assert.NoError(t, locker.Release(context.Background(), "k", "token"))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "salesops:calculate:client:10.0.0.1", calculateKey(" 10.0.0.1 "))
	assert.Equal(t, "salesops:calculate:client:anonymous", calculateKey(""))
	assert.Equal(t, "salesops:report:push:2024-04", reportPushKey("2024-04"))
}

func TestDefaultBucketTTL(t *testing.T) {
	assert.Equal(t, 8*time.Second, defaultBucketTTL(5, 20))
	assert.Equal(t, time.Second, defaultBucketTTL(100, 1))
	assert.Equal(t, time.Second, defaultBucketTTL(0, 1))
}

func TestCastHelpers(t *testing.T) {
	assert.Equal(t, int64(3), castToInt(int64(3)))
	assert.Equal(t, int64(2), castToInt(2.9))
	assert.Equal(t, int64(0), castToInt("x"))
	assert.Equal(t, 1.5, castToFloat("1.5"))
	assert.Equal(t, 4.0, castToFloat(int64(4)))
	assert.Equal(t, 0.0, castToFloat(nil))
}
