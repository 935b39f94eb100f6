package config

import (
	"strings"
	"testing"
	"time"
)

// setRequired provides the two mandatory variables so Load can succeed.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("DATABASE_URL", "bot.db")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.Timezone != "Europe/Brussels" {
		t.Errorf("Timezone = %q", cfg.Timezone)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q", cfg.GinMode)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if cfg.RateRPS != 5.0 || cfg.RateBurst != 10 {
		t.Errorf("rate limits = %v/%d", cfg.RateRPS, cfg.RateBurst)
	}
	if cfg.Completion.Model != "deepseek-chat" || cfg.Completion.MaxTokens != 500 {
		t.Errorf("completion defaults = %+v", cfg.Completion)
	}
	if cfg.Completion.Timeout != 30*time.Second {
		t.Errorf("completion timeout = %v", cfg.Completion.Timeout)
	}
	if cfg.Rates.BaseURL != "https://api.frankfurter.app" {
		t.Errorf("rates url = %q", cfg.Rates.BaseURL)
	}
	if cfg.Email.Operator == "" {
		t.Errorf("operator inbox default missing")
	}
	if cfg.AdminUserID != 0 {
		t.Errorf("AdminUserID = %d", cfg.AdminUserID)
	}
}

func TestLoad_MissingMandatory(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("DATABASE_URL", "bot.db")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "BOT_TOKEN") {
		t.Fatalf("expected BOT_TOKEN error, got %v", err)
	}

	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("expected DATABASE_URL error, got %v", err)
	}
}

func TestLoad_NormalizesAliases(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "warning")
	t.Setenv("GIN_MODE", "bogus")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn", cfg.LogLevel)
	}
	if cfg.GinMode != "release" {
		t.Errorf("GinMode = %q, want release", cfg.GinMode)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	cases := []struct {
		key, val, wantSub string
	}{
		{"LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"RATE_RPS", "-1", "RATE_RPS"},
		{"OTEL_TRACES_SAMPLER_ARG", "1.5", "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tc.key, tc.val)
			if _, err := Load(); err == nil || !strings.Contains(err.Error(), tc.wantSub) {
				t.Fatalf("expected %s error, got %v", tc.wantSub, err)
			}
		})
	}
}

func TestLoad_OverridesAndParsing(t *testing.T) {
	setRequired(t)
	t.Setenv("ADMIN_USER_ID", "4242")
	t.Setenv("RATE_RPS", "2.5")
	t.Setenv("RATE_BURST", "3")
	t.Setenv("READ_TIMEOUT", "5s")
	t.Setenv("EMAIL_HOST", "smtp.example.com")
	t.Setenv("EMAIL_PORT", "465")
	t.Setenv("EMAIL_USER", "bot@example.com")
	t.Setenv("EMAIL_PASSWORD", "secret")
	t.Setenv("KB_PATH", "/etc/bot/kb.md")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.AdminUserID != 4242 {
		t.Errorf("AdminUserID = %d", cfg.AdminUserID)
	}
	if cfg.RateRPS != 2.5 || cfg.RateBurst != 3 {
		t.Errorf("rate limits = %v/%d", cfg.RateRPS, cfg.RateBurst)
	}
	if cfg.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v", cfg.ReadTimeout)
	}
	if !cfg.Email.Enabled() {
		t.Errorf("email should be enabled with all fields set")
	}
	if cfg.KBPath != "/etc/bot/kb.md" {
		t.Errorf("KBPath = %q", cfg.KBPath)
	}
}

func TestIsPostgres(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"postgres://u:p@host/db", true},
		{"postgresql://u:p@host/db", true},
		{"bot.db", false},
		{"/var/lib/bot/bot.db", false},
	}
	for _, tc := range cases {
		if got := (Config{DatabaseURL: tc.url}).IsPostgres(); got != tc.want {
			t.Errorf("IsPostgres(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}

func TestEmailConfig_Enabled(t *testing.T) {
	full := EmailConfig{Host: "h", Port: 465, User: "u", Password: "p"}
	if !full.Enabled() {
		t.Fatalf("complete config must be enabled")
	}
	for _, partial := range []EmailConfig{
		{Port: 465, User: "u", Password: "p"},
		{Host: "h", User: "u", Password: "p"},
		{Host: "h", Port: 465, Password: "p"},
		{Host: "h", Port: 465, User: "u"},
	} {
		if partial.Enabled() {
			t.Fatalf("partial config must be disabled: %+v", partial)
		}
	}
}
