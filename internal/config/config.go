package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	DatabaseURL   string
	Port          string
	JWTSecret     string
	RedisAddr     string
	RedisPassword string
	EmailHost     string
	EmailPort     int
	EmailUser     string
	EmailPass     string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:      "8080", // default port
		RedisAddr: "localhost:6379",
	}

	// Load DATABASE_URL (required)
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	cfg.DatabaseURL = databaseURL

	// Load JWT_SECRET (required)
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	cfg.JWTSecret = jwtSecret

	// Load PORT (optional, defaults to 8080)
	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}

	// Load REDIS_ADDR (optional, defaults to localhost:6379)
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.RedisAddr = addr
	}
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")

	// SMTP settings (all required; OTP delivery cannot degrade)
	emailHost := os.Getenv("EMAIL_HOST")
	emailPort := os.Getenv("EMAIL_PORT")
	cfg.EmailUser = os.Getenv("EMAIL_USER")
	cfg.EmailPass = os.Getenv("EMAIL_PASS")
	if emailHost == "" || emailPort == "" || cfg.EmailUser == "" || cfg.EmailPass == "" {
		return nil, fmt.Errorf("EMAIL_HOST, EMAIL_PORT, EMAIL_USER and EMAIL_PASS environment variables are required")
	}
	cfg.EmailHost = emailHost

	port, err := strconv.Atoi(emailPort)
	if err != nil || port <= 0 {
		return nil, fmt.Errorf("EMAIL_PORT must be a positive integer, got %q", emailPort)
	}
	cfg.EmailPort = port

	return cfg, nil
}
