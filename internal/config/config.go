// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as the bot credential, database address, email delivery, external API
// endpoints, and server timeouts.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// EmailConfig defines SMTP delivery settings. Delivery is optional: when any
// field is missing the mailer runs disabled and sends are reported as failed.
type EmailConfig struct {
	Host     string // EMAIL_HOST
	Port     int    // EMAIL_PORT (465 implicit TLS, otherwise STARTTLS)
	User     string // EMAIL_USER (also the From address)
	Password string // EMAIL_PASSWORD
	Operator string // ADMIN_EMAIL, receives operator notifications
}

// Enabled reports whether all mandatory SMTP fields are present.
func (e EmailConfig) Enabled() bool {
	return e.Host != "" && e.Port > 0 && e.User != "" && e.Password != ""
}

// CompletionConfig defines the chat-completion collaborator settings.
type CompletionConfig struct {
	APIKey      string        // COMPLETION_API_KEY
	BaseURL     string        // COMPLETION_API_URL
	Model       string        // COMPLETION_MODEL
	MaxTokens   int           // COMPLETION_MAX_TOKENS
	Temperature float64       // COMPLETION_TEMPERATURE
	Timeout     time.Duration // COMPLETION_TIMEOUT
}

// RatesConfig defines the currency-rate lookup collaborator settings.
type RatesConfig struct {
	BaseURL string        // RATES_API_URL
	Timeout time.Duration // RATES_TIMEOUT
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	// Bot
	BotToken      string // BOT_TOKEN (mandatory)
	WebhookSecret string // WEBHOOK_SECRET, optional shared secret on /webhook
	AdminUserID   int64  // ADMIN_USER_ID, unlocks the operator commands (0 disables them)

	// Database: a postgres:// URL or a sqlite file path.
	DatabaseURL string // DATABASE_URL (mandatory)

	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	GinMode           string        // debug|release|test

	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // pretty console logs in dev

	// Business timezone for slot computation and displayed timestamps.
	Timezone string // TIMEZONE

	// KBPath points at an optional Markdown fact sheet used to answer
	// assistant questions when the completion API is unavailable.
	KBPath string // KB_PATH

	// Rate limiting on the webhook (per user id).
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	Email      EmailConfig
	Completion CompletionConfig
	Rates      RatesConfig
	OTEL       OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		BotToken:      getenv("BOT_TOKEN", ""),
		WebhookSecret: getenv("WEBHOOK_SECRET", ""),
		AdminUserID:   getint64("ADMIN_USER_ID", 0),
		DatabaseURL:   getenv("DATABASE_URL", ""),

		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),

		Timezone: getenv("TIMEZONE", "Europe/Brussels"),
		KBPath:   getenv("KB_PATH", ""),

		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		Email: EmailConfig{
			Host:     getenv("EMAIL_HOST", ""),
			Port:     getint("EMAIL_PORT", 0),
			User:     getenv("EMAIL_USER", ""),
			Password: getenv("EMAIL_PASSWORD", ""),
			Operator: getenv("ADMIN_EMAIL", "info@studyua.org"),
		},
		Completion: CompletionConfig{
			APIKey:      getenv("COMPLETION_API_KEY", ""),
			BaseURL:     getenv("COMPLETION_API_URL", "https://api.deepseek.com/v1"),
			Model:       getenv("COMPLETION_MODEL", "deepseek-chat"),
			MaxTokens:   getint("COMPLETION_MAX_TOKENS", 500),
			Temperature: getfloat("COMPLETION_TEMPERATURE", 0.7),
			Timeout:     getdur("COMPLETION_TIMEOUT", 30*time.Second),
		},
		Rates: RatesConfig{
			BaseURL: getenv("RATES_API_URL", "https://api.frankfurter.app"),
			Timeout: getdur("RATES_TIMEOUT", 5*time.Second),
		},
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-booking-bot"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	// Missing bot credential or database address is the only abort-worthy
	// condition; everything else degrades at runtime.
	if strings.TrimSpace(cfg.BotToken) == "" {
		return cfg, errors.New("BOT_TOKEN must not be empty")
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return cfg, errors.New("DATABASE_URL must not be empty")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if strings.TrimSpace(cfg.Timezone) == "" {
		return cfg, errors.New("TIMEZONE must not be empty")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Completion.Timeout <= 0 || cfg.Rates.Timeout <= 0 {
		return cfg, errors.New("collaborator timeouts must be positive durations")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// IsPostgres reports whether the database address points at a Postgres server
// rather than a sqlite file.
func (c Config) IsPostgres() bool {
	return strings.HasPrefix(c.DatabaseURL, "postgres://") ||
		strings.HasPrefix(c.DatabaseURL, "postgresql://")
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint64(k string, def int64) int64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
