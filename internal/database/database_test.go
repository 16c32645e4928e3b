package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"tunehub/backend/internal/config"
)

func TestConnNotConnected(t *testing.T) {
	db := New(config.DatabaseConfig{Driver: "sqlite"}, zap.NewNop())
	if _, err := db.Conn(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
	if db.Connected() {
		t.Fatalf("expected not connected")
	}
}

func TestConnectSQLiteMigrates(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver: "sqlite",
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "test.db")},
	}
	db := New(cfg, zap.NewNop())
	if err := db.Connect(context.Background()); err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	defer db.Close()

	conn, err := db.Conn(context.Background())
	if err != nil {
		t.Fatalf("Conn error: %v", err)
	}
	for _, table := range []string{"users", "albums", "songs", "messages"} {
		if !conn.Migrator().HasTable(table) {
			t.Fatalf("expected table %s", table)
		}
	}
	if err := db.Connect(context.Background()); err != nil {
		t.Fatalf("second Connect should be a no-op, got %v", err)
	}
}

func TestConnectUnsupportedDriver(t *testing.T) {
	db := New(config.DatabaseConfig{Driver: "oracle"}, zap.NewNop())
	if err := db.Connect(context.Background()); err == nil {
		t.Fatalf("expected error for unsupported driver")
	}
}
