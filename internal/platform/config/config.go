package config

import (
	"errors"
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const Production = "production"

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"

	RateLimitStorageMemory = "memory"
	RateLimitStorageRedis  = "redis"
)

type Config struct {
	Addr        string `env:"APP_ADDR" envDefault:":8080"`
	Environment string `env:"APP_ENV" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	JWTSecret           string        `env:"JWT_SECRET"`
	TokenTTL            time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	AuthRecheckIdentity bool          `env:"AUTH_RECHECK_IDENTITY" envDefault:"true"`
	DataEncryptionKey   string        `env:"DATA_ENCRYPTION_KEY"`

	StoreDriver   string `env:"STORE_DRIVER" envDefault:"memory"`
	DatabaseURL   string `env:"DATABASE_URL"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
	SeedDemoData  bool   `env:"SEED_DEMO_DATA" envDefault:"true"`

	FrontendDir        string   `env:"FRONTEND_DIR" envDefault:"public"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	MaxBodyBytes       int64    `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	RateLimitPerMinute int    `env:"RATE_LIMIT_PER_MINUTE" envDefault:"120"`
	RateLimitStorage   string `env:"RATE_LIMIT_STORAGE" envDefault:"memory"`
	RedisURL           string `env:"REDIS_URL"`

	// TrustedProxies lists addresses or CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	MetricsEnabled bool `env:"METRICS_ENABLED" envDefault:"true"`

	EmailEnabled bool   `env:"EMAIL_ENABLED" envDefault:"false"`
	EmailFrom    string `env:"EMAIL_FROM" envDefault:"no-reply@example.com"`
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPUseTLS   bool   `env:"SMTP_USE_TLS" envDefault:"true"`
}

// Load reads .env and .env.local when present, then the process environment.
func Load() (Config, error) {
	if err := loadEnvFiles(".env", ".env.local"); err != nil {
		return Config{}, err
	}
	return Parse()
}

// Parse reads the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.StoreDriver = strings.ToLower(strings.TrimSpace(cfg.StoreDriver))
	cfg.RateLimitStorage = strings.ToLower(strings.TrimSpace(cfg.RateLimitStorage))
	return cfg, nil
}

func loadEnvFiles(files ...string) error {
	existing := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func (c Config) IsProduction() bool {
	return c.Environment == Production
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory:
	case DriverPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return errors.New("DATABASE_URL is required when STORE_DRIVER is postgres")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q", DriverMemory, DriverPostgres)
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.IsProduction() {
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if strings.TrimSpace(c.DataEncryptionKey) == "" {
			return errors.New("DATA_ENCRYPTION_KEY must be set in production for encryption at rest")
		}
		if c.SeedDemoData {
			return errors.New("SEED_DEMO_DATA must be disabled in production")
		}
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return errors.New("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return errors.New("RATE_LIMIT_PER_MINUTE must be positive")
	}
	switch c.RateLimitStorage {
	case RateLimitStorageMemory:
	case RateLimitStorageRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return errors.New("REDIS_URL must be set when RATE_LIMIT_STORAGE is redis")
		}
	default:
		return fmt.Errorf("RATE_LIMIT_STORAGE must be %q or %q", RateLimitStorageMemory, RateLimitStorageRedis)
	}
	if _, err := c.TrustedProxyPrefixes(); err != nil {
		return err
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return errors.New("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	return nil
}

// TrustedProxyPrefixes parses TrustedProxies; a bare address becomes a single-host prefix.
func (c Config) TrustedProxyPrefixes() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		value := strings.TrimSpace(raw)
		if value == "" {
			continue
		}
		if strings.Contains(value, "/") {
			prefix, err := netip.ParsePrefix(value)
			if err != nil {
				return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(value)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}
