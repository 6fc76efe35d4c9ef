package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Counter update modes for view and download counters.
const (
	CounterModeAtomic   = "atomic"
	CounterModeLastRead = "last_read"
)

// Config holds application configuration.
type Config struct {
	Port               string
	Env                string
	CORSAllowOrigin    []string
	PublicBaseURL      string
	ObjectStoreType    string
	LocalStoreDir      string
	AWSRegion          string
	S3Bucket           string
	S3Prefix           string
	S3PublicBaseURL    string
	SSEKMSKeyID        string
	S3Endpoint         string
	S3AccessKeyID      string
	S3SecretAccessKey  string
	DatabaseURL        string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	UIRedirectURL      string
	LogLevel           string
	LogFile            string

	ShortIDLength       int
	MaxUploadBytes      int64
	OpenDelay           time.Duration
	AnalyticsWindowDays int
	TopResumesLimit     int
	CounterMode         string

	TrackingWorkers     int
	TrackingQueueSize   int
	TrackingJobTimeout  time.Duration
	TrackingSQSQueueURL string

	RedisURL          string
	ResolveRatePerSec float64
	ResolveBurst      int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	port := getEnv("PORT", "8080")

	return Config{
		Port:               port,
		Env:                env,
		CORSAllowOrigin:    splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		PublicBaseURL:      strings.TrimRight(getEnv("PUBLIC_BASE_URL", "http://localhost:"+strings.TrimPrefix(port, ":")), "/"),
		ObjectStoreType:    normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:      getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:          getEnv("AWS_REGION", ""),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3Prefix:           getEnv("S3_PREFIX", ""),
		S3PublicBaseURL:    strings.TrimRight(getEnv("S3_PUBLIC_BASE_URL", ""), "/"),
		SSEKMSKeyID:        getEnv("SSE_KMS_KEY_ID", ""),
		S3Endpoint:         getEnv("S3_ENDPOINT", ""),
		S3AccessKeyID:      getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretAccessKey:  getEnv("S3_SECRET_ACCESS_KEY", ""),
		DatabaseURL:        dbURL,
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),
		UIRedirectURL:      getEnv("UI_REDIRECT_URL", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFile:            getEnv("LOG_FILE", ""),

		ShortIDLength:       getEnvInt("SHORT_ID_LENGTH", 8),
		MaxUploadBytes:      int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),
		OpenDelay:           getEnvDuration("OPEN_DELAY", 2*time.Second),
		AnalyticsWindowDays: getEnvInt("ANALYTICS_WINDOW_DAYS", 30),
		TopResumesLimit:     getEnvInt("TOP_RESUMES_LIMIT", 5),
		CounterMode:         normalizeCounterMode(getEnv("COUNTER_MODE", CounterModeAtomic)),

		TrackingWorkers:     getEnvInt("TRACKING_WORKERS", 4),
		TrackingQueueSize:   getEnvInt("TRACKING_QUEUE_SIZE", 256),
		TrackingJobTimeout:  getEnvDuration("TRACKING_JOB_TIMEOUT", 5*time.Second),
		TrackingSQSQueueURL: getEnv("TRACKING_SQS_QUEUE_URL", ""),

		RedisURL:          getEnv("REDIS_URL", ""),
		ResolveRatePerSec: getEnvFloat("RESOLVE_RATE_PER_SEC", 5),
		ResolveBurst:      getEnvInt("RESOLVE_BURST", 20),
	}
}

// IsDevLike reports whether env tolerates missing infrastructure.
func IsDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config %s invalid int %q, using %d", key, raw, def)
		return def
	}
	return val
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("config %s invalid float %q, using %v", key, raw, def)
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("config %s invalid duration %q, using %s", key, raw, def)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeCounterMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case CounterModeLastRead, "last-read", "lastread":
		return CounterModeLastRead
	default:
		return CounterModeAtomic
	}
}
