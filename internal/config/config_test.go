package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("OTEL_ENABLED", "")

	cfg := Load()
	assert.Equal(t, "postgres", cfg.DBType)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.False(t, cfg.OtelEnabled)
	assert.Equal(t, int64(1), cfg.NodeID)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DATABASE_TYPE", "SQLite")
	t.Setenv("RATE_CATALOG_PATH", " /etc/salesops/commission.yml ")
	t.Setenv("OTEL_ENABLED", "yes")
	t.Setenv("NODE_ID", "7")
	t.Setenv("DATABASE_MAX_OPEN_CONN", "not-a-number")
	t.Setenv("ENVIRONMENT", "Production")

	cfg := Load()
	assert.Equal(t, "sqlite", cfg.DBType)
	assert.Equal(t, "/etc/salesops/commission.yml", cfg.RateCatalogPath)
	assert.True(t, cfg.OtelEnabled)
	assert.Equal(t, int64(7), cfg.NodeID)
	assert.Equal(t, 20, cfg.DBMaxOpenConn)
	assert.True(t, cfg.IsProduction())
}

func TestLoadReportPushAndRateLimit(t *testing.T) {
	t.Setenv("REPORT_PUSH_ENABLED", "true")
	t.Setenv("REPORT_PUSH_EXPORTER", " Prometheus_Pushgateway ")
	t.Setenv("REPORT_PUSH_ENDPOINT", "http://pushgateway:9091")
	t.Setenv("RATE_LIMIT_ENABLED", "1")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("RATE_LIMIT_CALCULATE_RATE", "2.5")

	cfg := Load()
	assert.True(t, cfg.ReportPush.Enabled)
	assert.Equal(t, "prometheus_pushgateway", cfg.ReportPush.Exporter)
	assert.Equal(t, 900, cfg.ReportPush.IntervalSeconds)
	assert.True(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "redis:6379", cfg.RateLimit.RedisAddr)
	assert.Equal(t, 2.5, cfg.RateLimit.CalculateRate)
	assert.Equal(t, 20, cfg.RateLimit.CalculateBurst)
}
