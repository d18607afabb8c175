package config

import (
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

const (
	defaultHTTPAddr       = ":8080"
	defaultJWTSecret      = "change-me-jwt-secret"
	defaultJWTTTL         = 24 * time.Hour
	defaultTimezone       = "Asia/Krasnoyarsk"
	defaultNotifySchedule = "@every 1m"
	defaultSMTPPort       = 587
	defaultSignature      = "Car Wash"
)

type Config struct {
	AppEnv      string `validate:"required,oneof=dev test prod production release"`
	HTTPAddr    string `validate:"required"`
	DatabaseURL string `validate:"required"`

	JWTSecret string        `validate:"required"`
	JWTTTL    time.Duration `validate:"gt=0"`

	Timezone string `validate:"required"`
	Location *time.Location

	Log  Log
	CORS CORS
	SMTP SMTP

	Notify Notify
}

type Log struct {
	Mode string `validate:"oneof=development production"`
	File string
}

type CORS struct {
	AllowedOrigins []string
}

type SMTP struct {
	Host     string
	Port     int `validate:"gt=0,lte=65535"`
	Username string
	Password string
	From     string `validate:"omitempty,email"`
}

type Notify struct {
	Enabled   bool
	Schedule  string `validate:"required"`
	Signature string
}

// Load reads the process environment, seeded from .env when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:      strings.ToLower(env("APP_ENV", "dev")),
		HTTPAddr:    env("HTTP_ADDR", defaultHTTPAddr),
		DatabaseURL: env("DATABASE_URL", ""),
		JWTSecret:   env("JWT_SECRET", defaultJWTSecret),
		JWTTTL:      envDuration("JWT_TTL", defaultJWTTTL),
		Timezone:    env("TIMEZONE", defaultTimezone),

		Log: Log{
			Mode: env("LOG_MODE", "development"),
			File: env("LOG_FILE", ""),
		},
		CORS: CORS{
			AllowedOrigins: splitCSV(env("CORS_ALLOWED_ORIGINS", "")),
		},
		SMTP: SMTP{
			Host:     env("SMTP_HOST", ""),
			Port:     envInt("SMTP_PORT", defaultSMTPPort),
			Username: env("SMTP_USERNAME", ""),
			Password: env("SMTP_PASSWORD", ""),
			From:     env("MAIL_FROM", ""),
		},
		Notify: Notify{
			Enabled:   envBool("NOTIFY_ENABLED", false),
			Schedule:  env("NOTIFY_SCHEDULE", defaultNotifySchedule),
			Signature: env("NOTIFY_SIGNATURE", defaultSignature),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if c.IsProd() && strings.TrimSpace(c.JWTSecret) == defaultJWTSecret {
		return fmt.Errorf("in prod JWT_SECRET must be set and not default")
	}
	if c.Notify.Enabled && c.SMTP.Host == "" {
		return fmt.Errorf("NOTIFY_ENABLED requires SMTP_HOST")
	}
	return nil
}

func (c *Config) IsProd() bool {
	return c.AppEnv == "prod" || c.AppEnv == "production" || c.AppEnv == "release"
}

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := cast.ToIntE(strings.TrimSpace(v)); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := cast.ToBoolE(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return fallback
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
