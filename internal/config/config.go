package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	envFileVar     = "HOMEZEN_ENV"
	defaultEnvFile = ".env"

	DefaultListenAddr = ":8082"
	DefaultAPITimeout = 15 * time.Second
)

var ErrMissing = errors.New("required setting is not set")

type Config struct {
	ListenAddr    string
	APIBaseURL    string
	SessionSecret string
	CookieSecure  bool
	APITimeout    time.Duration

	LogLevel  string
	LogFormat string

	OTLPEndpoint string
	OTLPInsecure bool
}

// Load reads an optional env file and then the process environment.
// The file named by HOMEZEN_ENV must exist; the default .env may not.
func Load() (*Config, error) {
	file, explicit := os.LookupEnv(envFileVar)
	if !explicit || file == "" {
		file = defaultEnvFile
	}
	if err := godotenv.Load(file); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", file, err)
		}
	}

	cfg := &Config{
		ListenAddr:    getenv("LISTEN_ADDR", DefaultListenAddr),
		APIBaseURL:    os.Getenv("API_BASE_URL"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		LogFormat:     getenv("LOG_FORMAT", "text"),
		OTLPEndpoint:  os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	var err error
	if cfg.CookieSecure, err = boolEnv("COOKIE_SECURE"); err != nil {
		return nil, err
	}
	if cfg.OTLPInsecure, err = boolEnv("OTEL_EXPORTER_OTLP_INSECURE"); err != nil {
		return nil, err
	}
	cfg.APITimeout = DefaultAPITimeout
	if raw := os.Getenv("API_TIMEOUT"); raw != "" {
		if cfg.APITimeout, err = time.ParseDuration(raw); err != nil {
			return nil, fmt.Errorf("API_TIMEOUT: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL: %w", ErrMissing)
	}
	if c.SessionSecret == "" {
		return fmt.Errorf("SESSION_SECRET: %w", ErrMissing)
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func boolEnv(key string) (bool, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
