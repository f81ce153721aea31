package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	ServerPort   int
	DatabasePath string

	JWTSecret string
	TokenTTL  time.Duration

	RedisAddr     string // empty disables the listing cache
	RedisPassword string

	AllowedOrigins []string
	AppBaseURL     string // used in password reset links
	AppEnv         string // "production" enables secure cookies and real mail

	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	ContactInbox string // recipient for contact form submissions

	// Standard cron expression for the reset-token purge, e.g. "*/15 * * * *".
	CleanupSchedule string
}

// Load loads configuration from environment variables or sets defaults.
func Load() (*Config, error) {
	portStr := getEnv("PORT", "8080")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT %q: %w", portStr, err)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	ttlHours, err := strconv.Atoi(getEnv("TOKEN_TTL_HOURS", "24"))
	if err != nil || ttlHours <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL_HOURS")
	}

	origins := strings.Split(getEnv("ALLOWED_ORIGINS", "http://localhost:3000"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return &Config{
		ServerPort:      port,
		DatabasePath:    getEnv("DATABASE_PATH", "./topia.db"),
		JWTSecret:       secret,
		TokenTTL:        time.Duration(ttlHours) * time.Hour,
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		AllowedOrigins:  origins,
		AppBaseURL:      getEnv("APP_BASE_URL", "http://localhost:3000"),
		AppEnv:          getEnv("APP_ENV", "development"),
		SMTPHost:        os.Getenv("EMAIL_HOST"),
		SMTPPort:        getEnv("EMAIL_PORT", "587"),
		SMTPUser:        os.Getenv("EMAIL_USER"),
		SMTPPass:        os.Getenv("EMAIL_PASS"),
		SMTPFrom:        getEnv("EMAIL_FROM", os.Getenv("EMAIL_USER")),
		ContactInbox:    getEnv("CONTACT_INBOX", os.Getenv("EMAIL_USER")),
		CleanupSchedule: getEnv("CLEANUP_SCHEDULE", "*/15 * * * *"),
	}, nil
}

// IsProduction reports whether the app runs with production hardening.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Helper to get an environment variable with a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
