package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	// Database
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"10"`

	// HTTP
	Port            int    `env:"PORT" envDefault:"8080"`
	CORSAllowOrigin string `env:"CORS_ALLOW_ORIGIN" envDefault:"*"`

	// Source page
	SourceURL        string `env:"GOLD_SOURCE_URL" envDefault:"https://www.goldtraders.or.th/"`
	ElementID        string `env:"GOLD_ELEMENT_ID" envDefault:"DetailPlace_uc_goldprices1_lblBLSell"`
	FetchMaxAttempts int    `env:"FETCH_MAX_ATTEMPTS" envDefault:"1"`

	// Notifications
	WebhookURL string `env:"WEBHOOK_URL"`
	NotifyName string `env:"NOTIFY_NAME" envDefault:"GoldScraper"`

	Log LogConfig `envPrefix:"LOG_"`
}

type LogConfig struct {
	Level       string `env:"LEVEL" envDefault:"info"`
	Encoding    string `env:"ENCODING" envDefault:"json"`
	Development bool   `env:"DEVELOPMENT" envDefault:"false"`
}

// Load reads an optional .env file and then the process environment.
// A missing DATABASE_URL is an error here, before anything dials the store.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []string

	if strings.TrimSpace(c.DatabaseURL) == "" {
		errs = append(errs, "DATABASE_URL is required")
	}
	if c.DBMaxConns <= 0 {
		errs = append(errs, "DB_MAX_CONNS must be positive")
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Sprintf("PORT out of range: %d", c.Port))
	}
	if u, err := url.Parse(c.SourceURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Sprintf("GOLD_SOURCE_URL is not an http(s) URL: %q", c.SourceURL))
	}
	if strings.TrimSpace(c.ElementID) == "" {
		errs = append(errs, "GOLD_ELEMENT_ID must not be empty")
	}
	if c.FetchMaxAttempts < 1 {
		errs = append(errs, "FETCH_MAX_ATTEMPTS must be at least 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// Print logs the effective configuration with secrets redacted.
func (c *Config) Print(log *zap.Logger) {
	log.Info("configuration loaded",
		zap.String("database", redactDSN(c.DatabaseURL)),
		zap.Int32("db_max_conns", c.DBMaxConns),
		zap.Int("port", c.Port),
		zap.String("source_url", c.SourceURL),
		zap.String("element_id", c.ElementID),
		zap.Int("fetch_max_attempts", c.FetchMaxAttempts),
		zap.String("webhook", boolLabel(c.WebhookURL != "", "configured", "not set")),
		zap.String("cors_allow_origin", c.CORSAllowOrigin),
	)
	if c.FetchMaxAttempts > 1 {
		log.Warn("fetch retries enabled", zap.Int("attempts", c.FetchMaxAttempts))
	}
}

// --- helpers ---

func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "(set)"
	}
	return u.Redacted()
}

func boolLabel(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
