package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"user-management-service/internal/config"
	"user-management-service/pkg/logger"
)

// NewDatabase opens the configured store and verifies it is reachable.
// Connecting is retried up to DB_MAX_RETRIES times with a fixed delay,
// whatever the failure.
func NewDatabase(ctx context.Context, cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	gormLogger := logger.NewGormLogger(l, cfg.Logger.SlowQuerySeconds, cfg.Logger.Level)

	dialector, err := dialectorFor(&cfg.DB)
	if err != nil {
		return nil, err
	}

	attempts := cfg.DB.MaxRetries
	if attempts < 1 {
		attempts = 1
	}
	delay := time.Duration(cfg.DB.RetryDelayMs) * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := connect(ctx, dialector, gormLogger, &cfg.DB)
		if err == nil {
			l.Info("database connected successfully",
				zap.String("driver", cfg.DB.Driver),
				zap.Int("attempt", attempt),
				zap.Int("max_open_conns", cfg.DB.MaxOpenConns),
				zap.Int("max_idle_conns", cfg.DB.MaxIdleConns),
				zap.Int("conn_max_idle_time_seconds", cfg.DB.ConnMaxIdleTime),
			)
			return db, nil
		}

		lastErr = err
		l.Warn("database connection attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err),
		)

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("database connection aborted: %w", ctx.Err())
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, lastErr)
}

func dialectorFor(c *config.DatabaseConfig) (gorm.Dialector, error) {
	switch c.Driver {
	case config.DriverPostgres, "":
		return pgdriver.Open(c.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(c.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", c.Driver)
	}
}

func connect(ctx context.Context, d gorm.Dialector, gl *logger.GormLogger, c *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(d, &gorm.Config{Logger: gl})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpen := c.MaxOpenConns
	if c.Driver == config.DriverSQLite {
		// sqlite allows a single writer; extra connections only contend for the lock
		maxOpen = 1
	}
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	sqlDB.SetConnMaxIdleTime(time.Duration(c.ConnMaxIdleTime) * time.Second)

	pingCtx, cancel := context.WithTimeout(ctx, time.Duration(c.AcquireTimeout)*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// CloseDatabase closes the database connection
func CloseDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
