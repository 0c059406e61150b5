package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string
	NodeID      int64
	SeedDemo    bool

	LogLevel  string
	LogFormat string

	OtelEnabled       bool
	OTLPEndpoint      string
	OTLPProtocol      string
	OtelSamplingRatio float64

	RateCatalogPath string
	AuthzEnabled    bool

	ReportPush ReportPushConfig
	RateLimit  RateLimitConfig

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBPath            string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int
}

// ReportPushConfig controls the periodic export of commission report gauges.
type ReportPushConfig struct {
	Enabled         bool
	Exporter        string
	Endpoint        string
	AuthToken       string
	IntervalSeconds int
}

type RateLimitConfig struct {
	Enabled       bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	CalculateRate  float64
	CalculateBurst int

	ReportLockTTLSeconds int
}

var Module = fx.Module("config",
	fx.Provide(Load),
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	environment := getenv("ENVIRONMENT", "development")

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "salesops"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: environment,
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		NodeID:      getenvInt64("NODE_ID", 1),
		SeedDemo:    getenvBool("SEED_DEMO", false),

		LogLevel:  strings.ToLower(strings.TrimSpace(getenv("LOG_LEVEL", "info"))),
		LogFormat: strings.ToLower(strings.TrimSpace(getenv("LOG_FORMAT", "json"))),

		OtelEnabled:       getenvBool("OTEL_ENABLED", false),
		OTLPEndpoint:      strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")),
		OTLPProtocol:      strings.ToLower(strings.TrimSpace(getenv("OTEL_EXPORTER_OTLP_PROTOCOL", "grpc"))),
		OtelSamplingRatio: getenvFloat("OTEL_SAMPLING_RATIO", 0.1),

		RateCatalogPath: strings.TrimSpace(getenv("RATE_CATALOG_PATH", "")),
		AuthzEnabled:    getenvBool("AUTHZ_ENABLED", false),

		ReportPush: ReportPushConfig{
			Enabled:         getenvBool("REPORT_PUSH_ENABLED", false),
			Exporter:        strings.ToLower(strings.TrimSpace(getenv("REPORT_PUSH_EXPORTER", ""))),
			Endpoint:        strings.TrimSpace(getenv("REPORT_PUSH_ENDPOINT", "")),
			AuthToken:       strings.TrimSpace(getenv("REPORT_PUSH_AUTH_TOKEN", "")),
			IntervalSeconds: int(getenvInt64("REPORT_PUSH_INTERVAL_SECONDS", 900)),
		},
		RateLimit: RateLimitConfig{
			Enabled:              getenvBool("RATE_LIMIT_ENABLED", false),
			RedisAddr:            strings.TrimSpace(getenv("REDIS_ADDR", "")),
			RedisPassword:        getenv("REDIS_PASSWORD", ""),
			RedisDB:              int(getenvInt64("REDIS_DB", 0)),
			CalculateRate:        getenvFloat("RATE_LIMIT_CALCULATE_RATE", 5),
			CalculateBurst:       int(getenvInt64("RATE_LIMIT_CALCULATE_BURST", 20)),
			ReportLockTTLSeconds: int(getenvInt64("RATE_LIMIT_REPORT_LOCK_TTL_SECONDS", 120)),
		},

		DBType:            strings.ToLower(getenv("DATABASE_TYPE", "postgres")),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "salesops"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBPath:            getenv("DATABASE_PATH", "salesops.db"),
		DBMaxIdleConn:     int(getenvInt64("DATABASE_MAX_IDLE_CONN", 5)),
		DBMaxOpenConn:     int(getenvInt64("DATABASE_MAX_OPEN_CONN", 20)),
		DBConnMaxLifetime: int(getenvInt64("DATABASE_CONN_MAX_LIFETIME", 300)),
		DBConnMaxIdleTime: int(getenvInt64("DATABASE_CONN_MAX_IDLE_TIME", 60)),
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvFloat(key string, def float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return def
	}
	return parsed
}
