package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	// AnalyzerURL is the base URL of the analysis backend.
	AnalyzerURL string

	// DatabaseURL selects the Postgres state store; empty keeps state in memory.
	DatabaseURL string

	// ReportStore archives generated reports: "none", "local" or "s3".
	ReportStore   string
	LocalStoreDir string
	AWSRegion     string
	S3Bucket      string
	S3Prefix      string
	SSEKMSKeyID   string

	ReportAttribution string
	ReportLineFactor  float64

	// RateLimitPerMinute bounds requests per session; 0 disables limiting.
	RateLimitPerMinute int
	RateLimitBurst     int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is not set in production; analysis state will not survive restarts")
	}

	return Config{
		Port:               getEnv("PORT", "8080"),
		Env:                env,
		CORSAllowOrigin:    splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		AnalyzerURL:        strings.TrimRight(getEnv("ANALYZER_URL", "http://localhost:8000"), "/"),
		DatabaseURL:        dbURL,
		ReportStore:        normalizeStoreType(getEnv("REPORT_STORE", "none")),
		LocalStoreDir:      getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:          getEnv("AWS_REGION", ""),
		S3Bucket:           getEnv("S3_BUCKET", ""),
		S3Prefix:           getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:        getEnv("SSE_KMS_KEY_ID", ""),
		ReportAttribution:  getEnv("REPORT_ATTRIBUTION", "Generated by Resume Inspector"),
		ReportLineFactor:   getFloat("REPORT_LINE_FACTOR", 0.4),
		RateLimitPerMinute: getInt("RATE_LIMIT_PER_MINUTE", 60),
		RateLimitBurst:     getInt("RATE_LIMIT_BURST", 10),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		log.Printf("invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return n
}

func getFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f <= 0 {
		log.Printf("invalid %s=%q, using %g", key, raw, def)
		return def
	}
	return f
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
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	case "local":
		return "local"
	default:
		return "none"
	}
}
