package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	AI        AIConfig
	RateLimit RateLimitConfig
	TokenKey  string
	LogLevel  slog.Level
}

type ServerConfig struct {
	Addr      string
	TLSCert   string
	TLSKey    string
	UploadDir string
}

// TLS reports whether both certificate and key are configured.
func (c ServerConfig) TLS() bool { return c.TLSCert != "" && c.TLSKey != "" }

type DatabaseConfig struct {
	URL string
}

type AIConfig struct {
	URL            string
	PredictTimeout time.Duration
	HealthTimeout  time.Duration
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// Load reads configuration from the environment. A .env file in the working
// directory is merged in first when present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	var errs []error
	cfg := &Config{
		Server: ServerConfig{
			Addr:      getEnv("SERVER_ADDR", ":8080"),
			TLSCert:   getEnv("TLS_CERT", ""),
			TLSKey:    getEnv("TLS_KEY", ""),
			UploadDir: getEnv("UPLOAD_DIR", "./static/uploads"),
		},
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		AI: AIConfig{
			URL:            getEnv("AI_API_URL", "http://localhost:8000"),
			PredictTimeout: getDuration("AI_PREDICT_TIMEOUT", 30*time.Second, &errs),
			HealthTimeout:  getDuration("AI_HEALTH_TIMEOUT", 5*time.Second, &errs),
		},
		RateLimit: RateLimitConfig{
			RPS:   getFloat("RATE_LIMIT_RPS", 1, &errs),
			Burst: getInt("RATE_LIMIT_BURST", 3, &errs),
		},
		TokenKey: os.Getenv("TOKEN_KEY"),
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}
	if cfg.TokenKey == "" {
		errs = append(errs, errors.New("TOKEN_KEY environment variable is not set"))
	}
	if (cfg.Server.TLSCert == "") != (cfg.Server.TLSKey == "") {
		errs = append(errs, errors.New("TLS_CERT and TLS_KEY must be set together"))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, def time.Duration, errs *[]error) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		*errs = append(*errs, fmt.Errorf("%s: invalid duration %q", key, raw))
		return def
	}
	return d
}

func getFloat(key string, def float64, errs *[]error) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		*errs = append(*errs, fmt.Errorf("%s: invalid number %q", key, raw))
		return def
	}
	return v
}

func getInt(key string, def int, errs *[]error) int {
	raw := getEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		*errs = append(*errs, fmt.Errorf("%s: invalid integer %q", key, raw))
		return def
	}
	return v
}
