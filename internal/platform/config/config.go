// Package config loads the service configuration.
// Sources are applied in order: defaults, the YAML file named by CONFIG_FILE,
// a .env file in the working directory, then environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	GinMode         string        `yaml:"gin_mode"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DatabaseConfig selects the store. ConnectTimeout bounds the startup retry loop.
// Socket, when set, replaces Host and Port for mysql (Cloud SQL style unix sockets).
type DatabaseConfig struct {
	Driver         string        `yaml:"driver"`
	Path           string        `yaml:"path"`
	DSN            string        `yaml:"dsn"`
	Host           string        `yaml:"host"`
	Port           string        `yaml:"port"`
	Socket         string        `yaml:"socket"`
	User           string        `yaml:"user"`
	Password       string        `yaml:"password"`
	Name           string        `yaml:"name"`
	SSLMode        string        `yaml:"sslmode"`
	RunMigrations  bool          `yaml:"run_migrations"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// EffectivePort returns Port, or the driver's well-known port when unset.
func (d DatabaseConfig) EffectivePort() string {
	if d.Port != "" {
		return d.Port
	}
	switch d.Driver {
	case "postgres":
		return "5432"
	case "mysql":
		return "3306"
	}
	return ""
}

type RedisConfig struct {
	Host     string        `yaml:"host"`
	Port     string        `yaml:"port"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// Enabled reports whether a Redis host is configured.
func (r RedisConfig) Enabled() bool { return r.Host != "" }

// Addr returns host:port.
func (r RedisConfig) Addr() string { return r.Host + ":" + r.Port }

type SessionConfig struct {
	Secret     string        `yaml:"secret"`
	Issuer     string        `yaml:"issuer"`
	CookieName string        `yaml:"cookie_name"`
	TTL        time.Duration `yaml:"ttl"`
	Secure     bool          `yaml:"secure"`
	MaxPerUser int           `yaml:"max_per_user"`
}

// RateLimitConfig limits register and login per client IP. RPS <= 0 disables it.
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Session   SessionConfig   `yaml:"session"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			GinMode:         "release",
			ShutdownTimeout: 10 * time.Second,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Database: DatabaseConfig{
			Driver:         "sqlite",
			Path:           "nutriapp.db",
			SSLMode:        "disable",
			RunMigrations:  true,
			ConnectTimeout: 60 * time.Second,
		},
		Redis: RedisConfig{Port: "6379", CacheTTL: 5 * time.Minute},
		Session: SessionConfig{
			Issuer:     "nutriapp",
			CookieName: "session",
			TTL:        24 * time.Hour,
			MaxPerUser: 5,
		},
		RateLimit: RateLimitConfig{RPS: 1, Burst: 10},
	}
}

// Load builds the configuration from all sources.
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()
	return LoadFrom(os.Getenv("CONFIG_FILE"), os.LookupEnv)
}

// LoadFrom applies the YAML file at path (if any) and then the variables
// returned by lookup on top of the defaults.
func LoadFrom(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := applyEnv(cfg, lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	switch c.HTTP.GinMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, fmt.Errorf("unsupported gin mode %q", c.HTTP.GinMode))
	}
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			errs = append(errs, errors.New("database.path is required for sqlite"))
		}
	case "postgres":
		if c.Database.DSN == "" && c.Database.Host == "" {
			errs = append(errs, errors.New("database.dsn or database.host is required for postgres"))
		}
	case "mysql":
		if c.Database.DSN == "" && c.Database.Host == "" && c.Database.Socket == "" {
			errs = append(errs, errors.New("database.dsn, database.host or database.socket is required for mysql"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.Database.Driver))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("session.ttl must be positive"))
	}
	if c.Session.MaxPerUser < 0 {
		errs = append(errs, errors.New("session.max_per_user must not be negative"))
	}
	return errors.Join(errs...)
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	e := envReader{lookup: lookup}

	e.str("HTTP_ADDR", &cfg.HTTP.Addr)
	if port, ok := lookup("PORT"); ok && port != "" {
		cfg.HTTP.Addr = ":" + port
	}
	e.str("GIN_MODE", &cfg.HTTP.GinMode)
	e.list("CORS_ALLOWED_ORIGINS", &cfg.HTTP.CORSOrigins)
	e.duration("SHUTDOWN_TIMEOUT", &cfg.HTTP.ShutdownTimeout)

	e.str("LOG_LEVEL", &cfg.Log.Level)
	e.str("LOG_FORMAT", &cfg.Log.Format)

	e.str("DB_DRIVER", &cfg.Database.Driver)
	e.str("DB_PATH", &cfg.Database.Path)
	e.str("DATABASE_URL", &cfg.Database.DSN)
	e.str("DB_HOST", &cfg.Database.Host)
	e.str("DB_PORT", &cfg.Database.Port)
	e.str("DB_SOCKET", &cfg.Database.Socket)
	e.str("DB_USER", &cfg.Database.User)
	e.str("DB_PASSWORD", &cfg.Database.Password)
	e.str("DB_NAME", &cfg.Database.Name)
	e.str("DB_SSLMODE", &cfg.Database.SSLMode)
	e.boolean("RUN_MIGRATIONS", &cfg.Database.RunMigrations)
	e.duration("DB_CONNECT_TIMEOUT", &cfg.Database.ConnectTimeout)

	e.str("REDIS_HOST", &cfg.Redis.Host)
	e.str("REDIS_PORT", &cfg.Redis.Port)
	e.str("REDIS_PASSWORD", &cfg.Redis.Password)
	e.integer("REDIS_DB", &cfg.Redis.DB)
	e.duration("CACHE_TTL", &cfg.Redis.CacheTTL)

	e.str("SESSION_SECRET", &cfg.Session.Secret)
	e.str("SESSION_ISSUER", &cfg.Session.Issuer)
	e.str("SESSION_COOKIE_NAME", &cfg.Session.CookieName)
	e.duration("SESSION_TTL", &cfg.Session.TTL)
	e.boolean("SESSION_SECURE", &cfg.Session.Secure)
	e.integer("SESSION_MAX_PER_USER", &cfg.Session.MaxPerUser)

	e.float("RATE_LIMIT_RPS", &cfg.RateLimit.RPS)
	e.integer("RATE_LIMIT_BURST", &cfg.RateLimit.Burst)

	return errors.Join(e.errs...)
}

// envReader overwrites fields with non-empty variables and collects parse errors.
type envReader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (e *envReader) get(key string) (string, bool) {
	v, ok := e.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (e *envReader) str(key string, dst *string) {
	if v, ok := e.get(key); ok {
		*dst = v
	}
}

func (e *envReader) list(key string, dst *[]string) {
	v, ok := e.get(key)
	if !ok {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*dst = out
}

func (e *envReader) boolean(key string, dst *bool) {
	if v, ok := e.get(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = b
	}
}

func (e *envReader) integer(key string, dst *int) {
	if v, ok := e.get(key); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = n
	}
}

func (e *envReader) float(key string, dst *float64) {
	if v, ok := e.get(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = f
	}
}

func (e *envReader) duration(key string, dst *time.Duration) {
	if v, ok := e.get(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = d
	}
}
