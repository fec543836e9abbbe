// Package config builds the process-wide configuration of the news site.
//
// Values are layered: built-in defaults, then an optional YAML file named by
// CONFIG_FILE, then environment variables (a .env file is loaded first when
// present). The result is validated once at startup and passed explicitly to
// the components that need it.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	pkgconfig "newsdesk/pkg/config"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

// MinSecretLength is the minimum length of SESSION_SECRET_KEY (256 bits).
const MinSecretLength = 32

// weakSecrets are rejected even when padded to the minimum length.
var weakSecrets = []string{"secret", "password", "changeme", "test", "admin", "default", "supersecret"}

// Config is the validated application configuration.
type Config struct {
	Addr        string         `yaml:"addr"`
	Version     string         `yaml:"version"`
	DatabaseURL string         `yaml:"database_url"`
	Database    DatabaseConfig `yaml:"database"`
	Session     SessionConfig  `yaml:"session"`
	Security    SecurityConfig `yaml:"security"`
	Log         LogConfig      `yaml:"log"`
	Tracing     TracingConfig  `yaml:"tracing"`
}

// DatabaseConfig holds connection pool settings.
type DatabaseConfig struct {
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`
}

// SessionConfig controls the admin session cookie.
type SessionConfig struct {
	// SecretKey signs the cookie. It is only read from the environment.
	SecretKey    string        `yaml:"-"`
	TTL          time.Duration `yaml:"ttl"`
	CookieName   string        `yaml:"cookie_name"`
	CookieSecure bool          `yaml:"cookie_secure"`
}

// SecurityConfig groups password hashing, login throttling and headers.
type SecurityConfig struct {
	BcryptCost      int           `yaml:"bcrypt_cost"`
	LoginRateLimit  int           `yaml:"login_rate_limit"`
	LoginRateWindow time.Duration `yaml:"login_rate_window"`
	CSPEnabled      bool          `yaml:"csp_enabled"`
	CSPReportOnly   bool          `yaml:"csp_report_only"`
	// TrustedProxies is a comma separated list of IPs or CIDRs whose
	// X-Forwarded-For header is honoured.
	TrustedProxies string `yaml:"trusted_proxies"`
	MaxBodyBytes   int64  `yaml:"max_body_bytes"`
}

// LogConfig selects the slog level and handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TracingConfig controls span export. Spans are always recorded so request
// logs carry a trace id; they leave the process only when OTLPEndpoint is set.
type TracingConfig struct {
	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Addr:    ":8000",
		Version: "dev",
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Hour,
			ConnMaxIdleTime: 30 * time.Minute,
		},
		Session: SessionConfig{
			TTL:        time.Hour,
			CookieName: "newsdesk_session",
		},
		Security: SecurityConfig{
			BcryptCost:      12,
			LoginRateLimit:  5,
			LoginRateWindow: time.Minute,
			CSPEnabled:      true,
			MaxBodyBytes:    1 << 20,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads .env (ENV_FILE, default ".env"), the optional YAML file named by
// CONFIG_FILE and the environment, then validates the result.
func Load() (*Config, error) {
	if err := loadDotEnv(pkgconfig.GetEnvString("ENV_FILE", ".env")); err != nil {
		return nil, err
	}

	cfg := Default()
	if path := pkgconfig.GetEnvString("CONFIG_FILE", ""); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv loads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// mergeFile overlays the YAML document at path onto c. Unknown keys are errors.
func (c *Config) mergeFile(path string) error {
	// #nosec G304 -- path comes from the operator's CONFIG_FILE, not from requests
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides c with environment variables. Current values act as defaults.
func (c *Config) applyEnv() {
	c.Addr = pkgconfig.GetEnvString("ADDR", c.Addr)
	if os.Getenv("ADDR") == "" {
		if port := pkgconfig.GetEnvString("PORT", ""); port != "" {
			c.Addr = ":" + port
		}
	}
	c.Version = pkgconfig.GetEnvString("VERSION", c.Version)
	c.DatabaseURL = pkgconfig.GetEnvString("DATABASE_URL", c.DatabaseURL)

	c.Database.MaxOpenConns = pkgconfig.GetEnvInt("DB_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = pkgconfig.GetEnvInt("DB_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.ConnMaxLifetime = pkgconfig.GetEnvDuration("DB_CONN_MAX_LIFETIME", c.Database.ConnMaxLifetime)
	c.Database.ConnMaxIdleTime = pkgconfig.GetEnvDuration("DB_CONN_MAX_IDLE_TIME", c.Database.ConnMaxIdleTime)

	c.Session.SecretKey = os.Getenv("SESSION_SECRET_KEY")
	c.Session.TTL = pkgconfig.GetEnvDuration("SESSION_TTL", c.Session.TTL)
	c.Session.CookieName = pkgconfig.GetEnvString("SESSION_COOKIE_NAME", c.Session.CookieName)
	c.Session.CookieSecure = pkgconfig.GetEnvBool("SESSION_COOKIE_SECURE", c.Session.CookieSecure)

	c.Security.BcryptCost = pkgconfig.GetEnvInt("BCRYPT_COST", c.Security.BcryptCost)
	c.Security.LoginRateLimit = pkgconfig.GetEnvInt("LOGIN_RATE_LIMIT", c.Security.LoginRateLimit)
	c.Security.LoginRateWindow = pkgconfig.GetEnvDuration("LOGIN_RATE_WINDOW", c.Security.LoginRateWindow)
	c.Security.CSPEnabled = pkgconfig.GetEnvBool("CSP_ENABLED", c.Security.CSPEnabled)
	c.Security.CSPReportOnly = pkgconfig.GetEnvBool("CSP_REPORT_ONLY", c.Security.CSPReportOnly)
	c.Security.TrustedProxies = strings.Join(
		pkgconfig.GetEnvStringList("TRUSTED_PROXIES", splitList(c.Security.TrustedProxies)), ",")

	c.Log.Level = pkgconfig.GetEnvString("LOG_LEVEL", c.Log.Level)
	c.Log.Format = pkgconfig.GetEnvString("LOG_FORMAT", c.Log.Format)

	c.Tracing.OTLPEndpoint = pkgconfig.GetEnvString("OTEL_EXPORTER_OTLP_ENDPOINT", c.Tracing.OTLPEndpoint)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("ADDR must not be empty"))
	}
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if err := ValidateSecret(c.Session.SecretKey); err != nil {
		errs = append(errs, err)
	}
	if err := pkgconfig.ValidateDurationRange(c.Session.TTL, time.Minute, 24*time.Hour); err != nil {
		errs = append(errs, fmt.Errorf("SESSION_TTL: %w", err))
	}
	if c.Session.CookieName == "" {
		errs = append(errs, errors.New("SESSION_COOKIE_NAME must not be empty"))
	}
	if c.Security.BcryptCost < bcrypt.MinCost || c.Security.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d, got %d",
			bcrypt.MinCost, bcrypt.MaxCost, c.Security.BcryptCost))
	}
	if c.Security.LoginRateLimit <= 0 {
		errs = append(errs, fmt.Errorf("LOGIN_RATE_LIMIT must be positive, got %d", c.Security.LoginRateLimit))
	}
	if err := pkgconfig.ValidatePositiveDuration(c.Security.LoginRateWindow); err != nil {
		errs = append(errs, fmt.Errorf("LOGIN_RATE_WINDOW: %w", err))
	}
	if c.Security.MaxBodyBytes <= 0 {
		errs = append(errs, errors.New("security.max_body_bytes must be positive"))
	}
	if c.Database.MaxOpenConns > 0 && c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		errs = append(errs, fmt.Errorf("DB_MAX_IDLE_CONNS (%d) exceeds DB_MAX_OPEN_CONNS (%d)",
			c.Database.MaxIdleConns, c.Database.MaxOpenConns))
	}

	return errors.Join(errs...)
}

// ValidateSecret checks the session signing key.
func ValidateSecret(secret string) error {
	if secret == "" {
		return errors.New("SESSION_SECRET_KEY is required")
	}
	if len(secret) < MinSecretLength {
		return fmt.Errorf("SESSION_SECRET_KEY must be at least %d characters", MinSecretLength)
	}
	lower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if strings.Trim(lower, weak+"0123456789") == "" {
			return errors.New("SESSION_SECRET_KEY must not be a common weak value")
		}
	}
	if strings.Count(secret, secret[:1]) == len(secret) {
		return errors.New("SESSION_SECRET_KEY must not repeat a single character")
	}
	return nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
