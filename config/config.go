package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config carries all runtime settings, loaded from the environment.
type Config struct {
	Port          string
	SessionSecret string

	DB   DBConfig
	Mail MailConfig
}

// DBConfig holds the MySQL connection settings.
type DBConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string
}

// DSN builds the MySQL connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

// MailConfig holds the SMTP settings for outbound verification codes.
type MailConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromName    string
	FromAddress string
	UseTLS      bool
}

// Load reads configuration from the environment. A .env file is applied first
// when present; real environment variables take precedence.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Port:          envOr("PORT", "8080"),
		SessionSecret: envOr("SESSION_SECRET", "change-me"),
		DB: DBConfig{
			User:     envOr("DB_USER", "booktrader"),
			Password: os.Getenv("DB_PASSWORD"),
			Host:     envOr("DB_HOST", "127.0.0.1"),
			Port:     envOr("DB_PORT", "3306"),
			Name:     envOr("DB_NAME", "booktrader"),
		},
		Mail: MailConfig{
			Host:        envOr("MAIL_HOST", "127.0.0.1"),
			Port:        envIntOr("MAIL_PORT", 587),
			Username:    os.Getenv("MAIL_USERNAME"),
			Password:    os.Getenv("MAIL_PASSWORD"),
			FromName:    envOr("MAIL_FROM_NAME", "Book Trader"),
			FromAddress: envOr("MAIL_FROM_ADDRESS", "noreply@booktrader.local"),
			UseTLS:      envOr("MAIL_USE_TLS", "true") == "true",
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
