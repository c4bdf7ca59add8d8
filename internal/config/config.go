package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	ServerPort string
	Debug      bool

	// Word catalog: "embedded", "file" or "database"
	CatalogSource string
	CatalogPath   string

	// Database configuration
	DatabaseType string // "sqlite", "postgres" or "mysql"
	DatabasePath string // SQLite file path
	DatabaseURL  string // PostgreSQL/MySQL connection URL

	// Speech
	AudioPath       string
	TTSProvider     string // "translate", "cloud" or "none"
	GoogleTTSAPIKey string
	AudioMaxAge     time.Duration

	// Quiz sessions
	SessionSecret      string
	SessionDuration    time.Duration
	SessionIdleTimeout time.Duration
	NextQuestionDelay  time.Duration
	ResultsDelay       time.Duration
	DistractorScope    string // "list" or "catalog"

	// Results email (SES)
	AWSRegion    string
	SESFromEmail string
	SESFromName  string
	AppBaseURL   string

	// Admin endpoints
	AdminUser     string
	AdminPassHash string

	CORSOrigins []string
}

// Load reads configuration from environment variables with sensible defaults
func Load() *Config {
	return &Config{
		ServerPort: getEnv("PORT", "8080"),
		Debug:      getEnvBool("DEBUG", false),

		CatalogSource: strings.ToLower(getEnv("CATALOG_SOURCE", "embedded")),
		CatalogPath:   getEnv("CATALOG_PATH", ""),

		DatabaseType: getEnv("DATABASE_TYPE", "sqlite"),
		DatabasePath: getEnv("DB_PATH", "./spellingvocab.db"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),

		AudioPath:       getEnv("AUDIO_PATH", "./static/audio"),
		TTSProvider:     strings.ToLower(getEnv("TTS_PROVIDER", "translate")),
		GoogleTTSAPIKey: getEnv("GOOGLE_TTS_API_KEY", ""),
		AudioMaxAge:     getEnvDuration("AUDIO_MAX_AGE", 30*24*time.Hour),

		SessionSecret:      getEnv("SESSION_SECRET", ""),
		SessionDuration:    getEnvDuration("SESSION_DURATION", 24*time.Hour),
		SessionIdleTimeout: getEnvDuration("SESSION_IDLE_TIMEOUT", 2*time.Hour),
		NextQuestionDelay:  getEnvDuration("NEXT_QUESTION_DELAY", time.Second),
		ResultsDelay:       getEnvDuration("RESULTS_DELAY", 500*time.Millisecond),
		DistractorScope:    strings.ToLower(getEnv("DISTRACTOR_SCOPE", "list")),

		AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "Spelling & Vocabulary"),
		AppBaseURL:   getEnv("APP_BASE_URL", "http://localhost:8080"),

		AdminUser:     getEnv("ADMIN_USER", "admin"),
		AdminPassHash: getEnv("ADMIN_PASS_HASH", ""),

		CORSOrigins: getEnvList("CORS_ORIGINS", nil),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

// getEnvDuration accepts Go durations ("750ms") or a bare number of seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
