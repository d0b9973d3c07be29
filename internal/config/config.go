package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Messaging MessagingConfig
	Analysis  AnalysisConfig
	Telemetry TelemetryConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	SessionTTL         time.Duration
}

// MessagingConfig holds the optional brokers. An empty URL disables the broker.
type MessagingConfig struct {
	NatsURL  string
	RedisURL string
}

type AnalysisConfig struct {
	Delay time.Duration
}

type TelemetryConfig struct {
	Enabled      bool
	OTLPEndpoint string
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			SessionTTL:         getEnvAsDuration("SESSION_TTL_MINUTES", time.Minute, 60*time.Minute),
		},
		Messaging: MessagingConfig{
			NatsURL:  getEnv("NATS_URL", ""),
			RedisURL: getEnv("REDIS_URL", ""),
		},
		Analysis: AnalysisConfig{
			Delay: getEnvAsDuration("ANALYSIS_DELAY_MS", time.Millisecond, 3000*time.Millisecond),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getEnvAsBool("OTEL_ENABLED", false),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

// getEnvAsDuration reads an integer count of unit. Negative values fall back.
func getEnvAsDuration(key string, unit time.Duration, fallback time.Duration) time.Duration {
	n := getEnvAsInt(key, -1)
	if n < 0 {
		return fallback
	}
	return time.Duration(n) * unit
}
