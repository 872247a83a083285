package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server configuration
	Port string
	Mode string

	// Database configuration
	DatabaseURL string

	// Redis configuration
	RedisURL string

	// Auth configuration
	JWTSecret string

	// Media signing configuration
	MediaSigningSecret  string
	MediaBaseURL        string
	MediaDefaultTTLSecs int
	MediaMinTTLSecs     int
	MediaMaxTTLSecs     int

	// Recurring generation configuration
	GenerationHour      int
	GenerationCooldownM int

	// Receipt accrual rates (cents per kg by quality class)
	RateOkCentsPerKg        int
	RateAttentionCentsPerKg int

	// Ops alert webhook (optional fan-out to an external ops backend)
	OpsWebhookURL    string
	OpsWebhookSecret string

	ServiceName string

	// Feature flags
	Features FeatureFlags
}

// FeatureFlags gates whole admin/public sections
type FeatureFlags struct {
	Anchors bool
	Galpao  bool
	Gov     bool
	Pilot   bool
	Learn   bool
}

var AppConfig *Config

func InitConfig() error {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		// Ignore error if .env file doesn't exist
	}

	AppConfig = &Config{
		Port:                    getEnv("PORT", "8080"),
		Mode:                    getEnv("GIN_MODE", "debug"),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		RedisURL:                getEnv("REDIS_URL", "redis://localhost:6379/0"),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		MediaSigningSecret:      getEnv("MEDIA_SIGNING_SECRET", ""),
		MediaBaseURL:            getEnv("MEDIA_BASE_URL", ""),
		MediaDefaultTTLSecs:     getEnvInt("MEDIA_URL_DEFAULT_TTL", 120),
		MediaMinTTLSecs:         getEnvInt("MEDIA_URL_MIN_TTL", 60),
		MediaMaxTTLSecs:         getEnvInt("MEDIA_URL_MAX_TTL", 300),
		GenerationHour:          getEnvInt("GENERATION_HOUR", 5),
		GenerationCooldownM:     getEnvInt("GENERATION_COOLDOWN_MINUTES", 1),
		RateOkCentsPerKg:        getEnvInt("RATE_OK_CENTS_PER_KG", 50),
		RateAttentionCentsPerKg: getEnvInt("RATE_ATTENTION_CENTS_PER_KG", 30),
		OpsWebhookURL:           getEnv("OPS_WEBHOOK_URL", ""),
		OpsWebhookSecret:        getEnv("OPS_WEBHOOK_SECRET", ""),
		ServiceName:             getEnv("SERVICE_NAME", "Coopeco Service"),
		Features: FeatureFlags{
			Anchors: getEnvBool("ECO_FEATURES_ANCHORS", false),
			Galpao:  getEnvBool("ECO_FEATURES_GALPAO", false),
			Gov:     getEnvBool("ECO_FEATURES_GOV", false),
			Pilot:   getEnvBool("ECO_FEATURES_PILOT", false),
			Learn:   getEnvBool("ECO_FEATURES_LEARN", false),
		},
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
