package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPHost            string
	HTTPPort            string
	MySQLDSN            string
	LogLevel            string
	JWTSecret           string
	SessionTokenTTL     time.Duration
	ConfirmationCodeTTL time.Duration
	Mail                MailConfig
}

type MailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	From         string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignores error if not found)
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is required")
	}

	mysqlDSN := os.Getenv("MYSQL_DSN")
	if mysqlDSN == "" {
		return nil, errors.New("MYSQL_DSN environment variable is required")
	}

	return &Config{
		HTTPHost:            getEnv("HTTP_HOST", ""),
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		MySQLDSN:            mysqlDSN,
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		JWTSecret:           jwtSecret,
		SessionTokenTTL:     getDurationEnv("SESSION_TOKEN_TTL", 30*24*time.Hour),
		ConfirmationCodeTTL: getDurationEnv("CONFIRMATION_CODE_TTL", time.Hour),
		Mail: MailConfig{
			SMTPHost:     getEnv("SMTP_HOST", "localhost"),
			SMTPPort:     getIntEnv("SMTP_PORT", 25),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			From:         getEnv("MAIL_FROM", "from@example.com"),
		},
	}, nil
}

func (c *Config) DSN() string {
	return c.MySQLDSN
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if minutes, err := strconv.Atoi(value); err == nil {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
