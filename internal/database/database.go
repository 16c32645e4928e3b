// Package database owns the process-wide gorm handle. The handle is created
// empty and filled by Connect, so the HTTP listener can come up first and
// queries issued before the connection exists fail with ErrNotConnected.
package database

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tunehub/backend/internal/config"
	"tunehub/backend/internal/model"
)

var ErrNotConnected = errors.New("database not connected")

type DB struct {
	cfg    config.DatabaseConfig
	logger *zap.Logger

	mu   sync.RWMutex
	conn *gorm.DB
}

func New(cfg config.DatabaseConfig, logger *zap.Logger) *DB {
	return &DB{cfg: cfg, logger: logger}
}

// NewFromGorm wraps an already open connection.
func NewFromGorm(conn *gorm.DB) *DB {
	return &DB{logger: zap.NewNop(), conn: conn}
}

// Connect opens the configured database, tunes the pool, pings it and runs
// migrations when enabled. Calling Connect on a connected handle is a no-op.
func (d *DB) Connect(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn != nil {
		return nil
	}

	conn, err := open(d.cfg)
	if err != nil {
		return fmt.Errorf("open %s: %w", d.cfg.Driver, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	if d.cfg.Driver == "postgres" {
		sqlDB.SetMaxIdleConns(d.cfg.Postgres.MaxIdleConns)
		sqlDB.SetMaxOpenConns(d.cfg.Postgres.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(d.cfg.Postgres.ConnMaxLifetime)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("ping %s: %w", d.cfg.Driver, err)
	}

	if d.cfg.Driver != "postgres" || d.cfg.Postgres.AutoMigrate {
		if err := model.AutoMigrate(conn.WithContext(ctx)); err != nil {
			_ = sqlDB.Close()
			return fmt.Errorf("auto-migrate: %w", err)
		}
		d.logger.Info("database migration completed")
	}

	d.conn = conn
	d.logger.Info("database connected", zap.String("driver", d.cfg.Driver))
	return nil
}

func open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	switch cfg.Driver {
	case "postgres":
		p := cfg.Postgres
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			p.Host, p.Port, p.User, p.Password, p.DB, p.SSLMode)
		return gorm.Open(postgres.Open(dsn), gormCfg)
	case "sqlite":
		return gorm.Open(sqlite.Open(cfg.SQLite.Path), gormCfg)
	default:
		return nil, fmt.Errorf("unsupported driver %q", cfg.Driver)
	}
}

// Conn returns the connection bound to ctx.
func (d *DB) Conn(ctx context.Context) (*gorm.DB, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.conn == nil {
		return nil, ErrNotConnected
	}
	return d.conn.WithContext(ctx), nil
}

func (d *DB) Connected() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.conn != nil
}

func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return nil
	}
	sqlDB, err := d.conn.DB()
	if err != nil {
		return err
	}
	d.conn = nil
	return sqlDB.Close()
}
