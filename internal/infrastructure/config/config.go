// internal/infrastructure/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// App
	AppVersion string
	AppBaseURL string

	// Server
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string

	// MongoDB
	MongoURI      string
	MongoDB       string
	MongoUser     string
	MongoPassword string

	// PostgreSQL (pricing catalog)
	PostgresURI string

	// Google sign-in
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	// Gmail mailer
	GmailClientID     string
	GmailClientSecret string
	GmailRefreshToken string
	MailFrom          string
	ContactInbox      string

	// Access control
	AdminEmails      []string
	ClientEmails     []string
	PilotEmails      []string
	AdminEmailDomain string
	RoleCacheTTL     time.Duration

	// Rate limiting
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	RateLimitMax    int64
	RateLimitWindow time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		AppVersion: getEnv("APP_VERSION", "1.0.0"),
		AppBaseURL: getEnv("APP_BASE_URL", "https://sleepysquid.com"),

		Port:           getEnv("PORT", "8080"),
		ReadTimeout:    time.Duration(getEnvAsInt("READ_TIMEOUT", 30)) * time.Second,
		WriteTimeout:   time.Duration(getEnvAsInt("WRITE_TIMEOUT", 30)) * time.Second,
		AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", "https://sleepysquid.com"),

		MongoURI:      getEnv("MONGODB_DSN", "mongodb://localhost:27017"),
		MongoDB:       getEnv("MONGO_DB", "sleepysquid"),
		MongoUser:     getEnv("MONGO_USER", ""),
		MongoPassword: getEnv("MONGO_PASSWORD", ""),

		PostgresURI: getEnv("POSTGRES_DSN", "host=localhost user=postgres dbname=sleepysquid port=5432 sslmode=disable"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", ""),

		GmailClientID:     getEnv("GMAIL_CLIENT_ID", ""),
		GmailClientSecret: getEnv("GMAIL_CLIENT_SECRET", ""),
		GmailRefreshToken: getEnv("GMAIL_REFRESH_TOKEN", ""),
		MailFrom:          getEnv("MAIL_FROM", "no-reply@sleepysquid.com"),
		ContactInbox:      getEnv("CONTACT_INBOX", "hello@sleepysquid.com"),

		AdminEmails:      getEnvAsList("ADMIN_EMAILS", ""),
		ClientEmails:     getEnvAsList("CLIENT_EMAILS", ""),
		PilotEmails:      getEnvAsList("PILOT_EMAILS", ""),
		AdminEmailDomain: getEnv("ADMIN_EMAIL_DOMAIN", "sleepysquid.com"),
		RoleCacheTTL:     time.Duration(getEnvAsInt("ROLE_CACHE_TTL", 300)) * time.Second,

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvAsInt("REDIS_DB", 0),
		RateLimitMax:    int64(getEnvAsInt("RATE_LIMIT_MAX", 10)),
		RateLimitWindow: time.Duration(getEnvAsInt("RATE_LIMIT_WINDOW", 60)) * time.Second,
	}

	return config, nil
}

// Helper functions to get environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
