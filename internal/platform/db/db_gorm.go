// Package db opens the GORM connection for the configured driver.
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	gmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	authadapters "nutriapp/internal/feature/auth/adapters"
	"nutriapp/internal/feature/auth/domain/entity"
	dishadapters "nutriapp/internal/feature/dishes/adapters"
	"nutriapp/internal/platform/config"
)

const defaultRetryInterval = 3 * time.Second

// BuildDSN returns the connection string for the configured driver.
// An explicit DSN wins over the individual fields.
func BuildDSN(cfg config.DatabaseConfig) string {
	switch cfg.Driver {
	case "postgres":
		if cfg.DSN != "" {
			return cfg.DSN
		}
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(cfg.User, cfg.Password),
			Host:   cfg.Host + ":" + cfg.EffectivePort(),
			Path:   "/" + cfg.Name,
		}
		if cfg.SSLMode != "" {
			u.RawQuery = "sslmode=" + url.QueryEscape(cfg.SSLMode)
		}
		return u.String()
	case "mysql":
		if cfg.DSN != "" {
			return cfg.DSN
		}
		return mysqlConfig(cfg).FormatDSN()
	default:
		if cfg.DSN != "" {
			return cfg.DSN
		}
		return cfg.Path
	}
}

// mysqlConfig yields user:pass@tcp(host:port)/name?charset=utf8mb4&parseTime=true&loc=Local,
// or the unix(socket) form when a socket is configured.
func mysqlConfig(cfg config.DatabaseConfig) *mysql.Config {
	mc := mysql.NewConfig()
	mc.User = cfg.User
	mc.Passwd = cfg.Password
	mc.DBName = cfg.Name
	mc.ParseTime = true
	mc.Loc = time.Local
	mc.Params = map[string]string{"charset": "utf8mb4"}
	if cfg.Socket != "" {
		mc.Net = "unix"
		mc.Addr = cfg.Socket
	} else {
		mc.Net = "tcp"
		mc.Addr = cfg.Host + ":" + cfg.EffectivePort()
	}
	return mc
}

// Dialector returns the GORM dialector for cfg without connecting.
// Postgres connections go through pgx's database/sql driver.
func Dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	dsn := BuildDSN(cfg)
	switch cfg.Driver {
	case "sqlite", "":
		return sqlite.Open(dsn), nil
	case "postgres":
		pgCfg, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("invalid postgres dsn: %w", err)
		}
		return postgres.New(postgres.Config{Conn: stdlib.OpenDB(*pgCfg)}), nil
	case "mysql":
		if _, err := mysql.ParseDSN(dsn); err != nil {
			return nil, fmt.Errorf("invalid mysql dsn: %w", err)
		}
		return gmysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// ConnectWithRetry calls open until it succeeds or timeout elapses.
func ConnectWithRetry(timeout, interval time.Duration, open func() (*gorm.DB, error)) (*gorm.DB, error) {
	if interval <= 0 {
		interval = defaultRetryInterval
	}
	deadline := time.Now().Add(timeout)
	for attempt := 1; ; attempt++ {
		db, err := open()
		if err == nil {
			return db, nil
		}
		if time.Now().Add(interval).After(deadline) {
			return nil, fmt.Errorf("db connect failed after %d attempts: %w", attempt, err)
		}
		slog.Warn("db connect failed, retrying", "attempt", attempt, "error", err)
		time.Sleep(interval)
	}
}

// OpenDB connects to the configured database, retrying until cfg.ConnectTimeout,
// and runs migrations when cfg.RunMigrations is set.
func OpenDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}

	db, err := ConnectWithRetry(cfg.ConnectTimeout, defaultRetryInterval, func() (*gorm.DB, error) {
		dialector, err := Dialector(cfg)
		if err != nil {
			return nil, err
		}
		return gorm.Open(dialector, gormCfg)
	})
	if err != nil {
		return nil, err
	}

	if cfg.Driver == "sqlite" || cfg.Driver == "" {
		// SQLite allows a single writer.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if cfg.RunMigrations {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}
	slog.Info("database ready", "driver", cfg.Driver, "dsn", Redact(BuildDSN(cfg)), "migrated", cfg.RunMigrations)
	return db, nil
}

// Migrate creates or updates the users, sessions and dishes tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entity.User{},
		&authadapters.SessionModel{},
		&dishadapters.DishModel{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Redact hides the password in a DSN for logging.
func Redact(dsn string) string {
	if !strings.Contains(dsn, "://") {
		if mc, err := mysql.ParseDSN(dsn); err == nil && mc.Passwd != "" {
			mc.Passwd = "xxxxx"
			return mc.FormatDSN()
		}
	}
	u, err := url.Parse(dsn)
	if err != nil || u.User == nil {
		if i := strings.Index(dsn, "password="); i >= 0 {
			end := strings.IndexByte(dsn[i:], ' ')
			if end < 0 {
				return dsn[:i] + "password=xxxxx"
			}
			return dsn[:i] + "password=xxxxx" + dsn[i+end:]
		}
		return dsn
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
