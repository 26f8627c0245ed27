package config

import (
	"os"
)

type Config struct {
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string
	AppBaseURL    string
	EmailAPIURL   string
	EmailAPIKey   string
	EmailFrom     string
	ShareSecret   string
	OpenAIAPIKey  string
}

func Load() *Config {
	return &Config{
		DBDriver:      getEnv("DB_DRIVER", "postgres"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "officialid"),
		DBPassword:    getEnv("DB_PASSWORD", "officialid"),
		DBName:        getEnv("DB_NAME", "officialid"),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		AppBaseURL:    getEnv("APP_BASE_URL", "http://localhost:8080"),
		EmailAPIURL:   getEnv("EMAIL_API_URL", "https://api.resend.com"),
		EmailAPIKey:   getEnv("EMAIL_API_KEY", ""),
		EmailFrom:     getEnv("EMAIL_FROM", "Official ID <noreply@officialid.app>"),
		ShareSecret:   getEnv("SHARE_TOKEN_SECRET", "default-share-secret-change-me"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
