package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenPort    string
	APIBaseURL    string
	PushURL       string
	AuthToken     string
	Environment   string
	SendRateLimit int
}

func Load() (*Config, error) {
	godotenv.Load()

	config := &Config{
		ListenPort:    getEnv("LISTEN_PORT", "7420"),
		APIBaseURL:    getEnv("CLINIC_API_URL", "http://localhost:5000/api"),
		PushURL:       getEnv("CLINIC_PUSH_URL", "ws://localhost:5000/ws"),
		AuthToken:     getEnv("CLINIC_AUTH_TOKEN", ""),
		Environment:   getEnv("ENVIRONMENT", "development"),
		SendRateLimit: getEnvAsInt("SEND_RATE_LIMIT", 10), // messages per minute
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		intValue, err := strconv.Atoi(value)
		if err == nil {
			return intValue
		}
	}
	return defaultValue
}
