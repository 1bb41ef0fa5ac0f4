package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	// Server
	Port        int
	Environment string

	// Auth. An empty secret leaves the API unauthenticated (dev mode).
	JWTSecret string

	// Queue
	QueueName string
	Workers   int // 0 means host default

	// CORS
	AllowedOrigins []string

	// Logging
	LogLevel string
}

func Load() (*Config, error) {
	return &Config{
		Port:        getEnvInt("PORT", 8080),
		Environment: getEnv("ENVIRONMENT", "development"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		QueueName: getEnv("QUEUE_NAME", "default"),
		Workers:   getEnvInt("WORKERS", 0),

		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", "*"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}, nil
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

func getEnvList(key, defaultValue string) []string {
	value := getEnv(key, defaultValue)
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
