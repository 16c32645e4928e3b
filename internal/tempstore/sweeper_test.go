package tempstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewSweeperRejectsBadSchedule(t *testing.T) {
	if _, err := NewSweeper(New(t.TempDir()), "not a schedule", zap.NewNop()); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestSweeperNextRunIsTopOfHour(t *testing.T) {
	s, err := NewSweeper(New(t.TempDir()), "", zap.NewNop())
	if err != nil {
		t.Fatalf("NewSweeper error: %v", err)
	}
	next := s.Next()
	if next.Minute() != 0 || next.Second() != 0 {
		t.Fatalf("expected next run on the hour, got %s", next)
	}
	if d := time.Until(next); d <= 0 || d > time.Hour {
		t.Fatalf("expected next run within the hour, got %s", d)
	}
}

func TestSweeperRunOnce(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "orphan-1", "orphan-2")
	s, err := NewSweeper(New(dir), DefaultSchedule, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSweeper error: %v", err)
	}

	results := s.RunOnce(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if s.State() != Idle {
		t.Fatalf("expected idle after sweep, got %s", s.State())
	}
	if n := countEntries(t, dir); n != 0 {
		t.Fatalf("expected empty dir, got %d entries", n)
	}
}

func TestSweeperRunOnceMissingDir(t *testing.T) {
	s, err := NewSweeper(New(filepath.Join(t.TempDir(), "absent")), DefaultSchedule, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSweeper error: %v", err)
	}
	if results := s.RunOnce(context.Background()); len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}

func TestSweeperStartStop(t *testing.T) {
	s, err := NewSweeper(New(t.TempDir()), DefaultSchedule, zap.NewNop())
	if err != nil {
		t.Fatalf("NewSweeper error: %v", err)
	}
	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	if s.State() != Idle {
		t.Fatalf("expected idle after stop, got %s", s.State())
	}
}
