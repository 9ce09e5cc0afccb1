package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration loaded from environment variables or a .env file.
// It is built once at start-up and handed to every component that needs it.
type Config struct {
	AppEnv          string        `mapstructure:"APP_ENV" validate:"required,oneof=dev development test staging production"`
	AppPort         string        `mapstructure:"APP_PORT" validate:"required"`
	AppSecret       string        `mapstructure:"APP_SECRET" validate:"required"`
	TokenTTL        time.Duration `mapstructure:"APP_TOKEN_TTL" validate:"gt=0"`
	CORSOrigins     string        `mapstructure:"APP_CORS_ORIGINS"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT" validate:"gt=0"`

	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"required,oneof=debug info warn error"`
	LogFormat string `mapstructure:"LOG_FORMAT" validate:"required,oneof=json console"`

	DatabaseURL string `mapstructure:"DATABASE_URL" validate:"required"`
	RedisURL    string `mapstructure:"REDIS_URL"`
	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`

	AuditConsumerEnabled bool `mapstructure:"AUDIT_CONSUMER_ENABLED"`

	ProjectCreateDailyLimit int    `mapstructure:"PROJECT_CREATE_DAILY_LIMIT" validate:"gte=1"`
	ReportDailyLimit        int    `mapstructure:"REPORT_DAILY_LIMIT" validate:"gte=1"`
	AutoHideReportThreshold int    `mapstructure:"AUTO_HIDE_REPORT_THRESHOLD" validate:"gte=1"`
	AllowedCategories       string `mapstructure:"ALLOWED_CATEGORIES" validate:"required"`
}

var keys = []string{
	"APP_ENV",
	"APP_PORT",
	"APP_SECRET",
	"APP_TOKEN_TTL",
	"APP_CORS_ORIGINS",
	"SHUTDOWN_TIMEOUT",
	"LOG_LEVEL",
	"LOG_FORMAT",
	"DATABASE_URL",
	"REDIS_URL",
	"RABBITMQ_URL",
	"AUDIT_CONSUMER_ENABLED",
	"PROJECT_CREATE_DAILY_LIMIT",
	"REPORT_DAILY_LIMIT",
	"AUTO_HIDE_REPORT_THRESHOLD",
	"ALLOWED_CATEGORIES",
}

// Load reads .env (if present), applies defaults, binds env vars, and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_TOKEN_TTL", "24h")
	v.SetDefault("APP_CORS_ORIGINS", "*")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("AUDIT_CONSUMER_ENABLED", true)
	v.SetDefault("PROJECT_CREATE_DAILY_LIMIT", 5)
	v.SetDefault("REPORT_DAILY_LIMIT", 20)
	v.SetDefault("AUTO_HIDE_REPORT_THRESHOLD", 5)
	v.SetDefault("ALLOWED_CATEGORIES", "DeFi,Infrastructure,Tooling,NFTs,Gaming,Social,Other")

	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config unmarshal error: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// MustLoad loads configuration or exits the process on failure.
func MustLoad() *Config {
	c, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	return c
}

// Validate checks struct constraints and that at least one category is allowed.
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if len(c.Categories()) == 0 {
		return fmt.Errorf("invalid configuration: ALLOWED_CATEGORIES has no entries")
	}
	return nil
}

// IsDevelopment reports whether the insecure development conveniences may be enabled.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "dev" || c.AppEnv == "development"
}

// Categories returns the allow-list, trimmed, deduplicated and sorted.
func (c *Config) Categories() []string {
	seen := map[string]struct{}{}
	for _, cat := range splitList(c.AllowedCategories) {
		seen[cat] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for cat := range seen {
		out = append(out, cat)
	}
	sort.Strings(out)
	return out
}

// CORSOriginList returns the configured origins; a lone "*" means any origin.
func (c *Config) CORSOriginList() []string {
	return splitList(c.CORSOrigins)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
