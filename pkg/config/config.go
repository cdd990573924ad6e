package config

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port        string
	Env         string
	PostgresURL string
	MongoURI    string

	JWTSecret  string
	BcryptCost int

	UploadsDir string
	AppBaseURL string

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

// Load reads configuration from the environment. The JWT secret is required
// outside development so there is no silent fallback credential in production.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		PostgresURL: getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:    getEnv("MONGO_URI", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		BcryptCost:  getEnvInt("BCRYPT_COST", bcrypt.DefaultCost),
		UploadsDir:  getEnv("UPLOADS_DIR", "./uploads"),
		AppBaseURL:  getEnv("APP_BASE_URL", "http://localhost:8080"),
		SMTPHost:    getEnv("SMTP_HOST", ""),
		SMTPPort:    getEnv("SMTP_PORT", "587"),
		SMTPUser:    getEnv("SMTP_USER", ""),
		SMTPPass:    getEnv("SMTP_PASS", ""),
		SMTPFrom:    getEnv("SMTP_FROM", "noreply@journalme.com"),
	}

	if cfg.JWTSecret == "" {
		if cfg.Env != "development" {
			return nil, fmt.Errorf("JWT_SECRET environment variable not set")
		}
		cfg.JWTSecret = "devsecret"
	}

	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST out of range: %d", cfg.BcryptCost)
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
