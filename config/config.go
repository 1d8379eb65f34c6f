package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds console configuration loaded from environment.
type Config struct {
	Gateway GatewayConfig
	Form    FormConfig
	Stub    StubConfig
	Log     LogConfig
}

// GatewayConfig holds remote user-store connection settings.
type GatewayConfig struct {
	BaseURL string // e.g. http://localhost:9090/api
}

// FormConfig holds create/edit form behavior settings.
type FormConfig struct {
	SettleDelay time.Duration // pause after a successful submit before the form closes
}

// StubConfig holds fixture-server settings (dev and manual testing only).
type StubConfig struct {
	Port               string
	ListShape          string // users | bare | paginated
	CORSAllowedOrigins string // comma-separated list; credentialed, so no "*"
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string // debug / info / warn / error
	JSON  bool
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env

	cfg := &Config{
		Gateway: GatewayConfig{
			BaseURL: getEnv("GATEWAY_BASE_URL", "http://localhost:9090/api"),
		},
		Form: FormConfig{
			SettleDelay: time.Duration(getEnvInt("FORM_SETTLE_MS", 1200)) * time.Millisecond,
		},
		Stub: StubConfig{
			Port:               getEnv("STUB_PORT", "9090"),
			ListShape:          getEnv("STUB_LIST_SHAPE", "users"),
			CORSAllowedOrigins: getEnv("STUB_CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			JSON:  getEnv("LOG_JSON", "") == "true",
		},
	}
	return cfg, nil
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
