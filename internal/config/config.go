package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr    string `env:"CMS_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr    string `env:"CMS_GRPC_ADDR" envDefault:":9090"`
	GRPCEnabled bool   `env:"CMS_GRPC_ENABLED" envDefault:"true"`

	// DB
	Env    string `env:"CMS_ENV" envDefault:"dev"`      // "dev" | "prod"
	Store  string `env:"CMS_STORE" envDefault:"sqlite"` // "sqlite" | "memory"
	DBPath string `env:"CMS_DB_PATH" envDefault:"./data/cms.db"`

	// Auth
	JWTSecret          string        `env:"CMS_JWT_SECRET"`
	SessionTTL         time.Duration `env:"CMS_SESSION_TTL" envDefault:"12h"`
	LoginRatePerMinute int           `env:"CMS_LOGIN_RATE_PER_MIN" envDefault:"10"`
	SeedAdminUser      string        `env:"CMS_SEED_ADMIN_USER" envDefault:"admin"`
	SeedAdminPassword  string        `env:"CMS_SEED_ADMIN_PASSWORD"`

	// Reports
	ReportTimezone string `env:"CMS_REPORT_TZ" envDefault:"UTC"`

	// Orphaned attendance audit; 0 disables the loop.
	OrphanAuditInterval time.Duration `env:"CMS_ORPHAN_AUDIT_INTERVAL" envDefault:"6h"`

	// Telemetry
	OTelEndpoint string `env:"CMS_OTEL_ENDPOINT"`
	ServiceName  string `env:"CMS_SERVICE_NAME" envDefault:"cms-server"`
}

// FromEnv loads configuration from the process environment.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	if c.Env != "dev" && c.Env != "prod" {
		// fail-soft: treat unknown as dev
		c.Env = "dev"
	}
	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	if c.Store != "memory" {
		c.Store = "sqlite"
	}
	if c.LoginRatePerMinute <= 0 {
		c.LoginRatePerMinute = 10
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 12 * time.Hour
	}
	if c.OrphanAuditInterval < 0 {
		c.OrphanAuditInterval = 0
	}
}

// ReportLocation resolves ReportTimezone, falling back to UTC.
func (c Config) ReportLocation() *time.Location {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
