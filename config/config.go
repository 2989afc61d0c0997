package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTest        = "test"
)

type DBConfig struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	Path     string
}

// DSN returns the connection string for the configured driver.
func (c DBConfig) DSN() string {
	if c.Driver == "sqlite" {
		return c.Path
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type Config struct {
	Port               string
	Env                string
	DB                 DBConfig
	JWTSecret          []byte
	JWTExpiration      time.Duration
	UploadDir          string
	MaxImageWidth      int
	CORSAllowedOrigins []string
	LoginRateLimit     int
	MetricsEnabled     bool
}

func (c Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Load reads .env when present and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("APP_ENV", EnvDevelopment),
		DB: DBConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "itblog"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			Path:     getEnv("DB_PATH", "data/itblog.db"),
		},
		UploadDir:          getEnv("UPLOAD_DIR", "uploads"),
		CORSAllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
	}

	var err error
	if cfg.JWTExpiration, err = time.ParseDuration(getEnv("JWT_EXPIRATION", "24h")); err != nil {
		return Config{}, fmt.Errorf("JWT_EXPIRATION: %w", err)
	}
	if cfg.MaxImageWidth, err = strconv.Atoi(getEnv("MAX_IMAGE_WIDTH", "1200")); err != nil {
		return Config{}, fmt.Errorf("MAX_IMAGE_WIDTH: %w", err)
	}
	if cfg.LoginRateLimit, err = strconv.Atoi(getEnv("LOGIN_RATE_LIMIT", "10")); err != nil {
		return Config{}, fmt.Errorf("LOGIN_RATE_LIMIT: %w", err)
	}
	if cfg.MetricsEnabled, err = strconv.ParseBool(getEnv("METRICS_ENABLED", "true")); err != nil {
		return Config{}, fmt.Errorf("METRICS_ENABLED: %w", err)
	}

	switch cfg.DB.Driver {
	case "postgres", "sqlite":
	default:
		return Config{}, fmt.Errorf("DB_DRIVER: unsupported driver %q", cfg.DB.Driver)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if !cfg.IsDevelopment() {
			return Config{}, errors.New("JWT_SECRET is required outside development")
		}
		secret = "development-secret-change-me"
	}
	cfg.JWTSecret = []byte(secret)

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
