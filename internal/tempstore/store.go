// Package tempstore holds uploaded files between request staging and their
// persistence elsewhere, and sweeps whatever the consuming handlers left behind.
package tempstore

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const sweepConcurrency = 8

// TempFile is one staged upload.
type TempFile struct {
	Path        string    `json:"-"`
	FieldName   string    `json:"field_name"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// Outcome classifies what happened to one entry during a sweep.
type Outcome int

const (
	Removed Outcome = iota
	AlreadyGone
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Removed:
		return "removed"
	case AlreadyGone:
		return "already_gone"
	default:
		return "failed"
	}
}

// Result is the outcome of removing a single directory entry.
type Result struct {
	Name    string
	Outcome Outcome
	Err     error
}

// Store is a flat scratch directory. It takes no locks: a file staged while a
// sweep is running may or may not be removed by that sweep.
type Store struct {
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string { return s.dir }

// EnsureDir creates the directory if it is missing.
func (s *Store) EnsureDir() error {
	return os.MkdirAll(s.dir, 0o755)
}

// Create opens a new file under a fresh unique name.
func (s *Store) Create() (*os.File, error) {
	if err := s.EnsureDir(); err != nil {
		return nil, err
	}
	return os.OpenFile(filepath.Join(s.dir, uuid.NewString()), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
}

// Remove deletes a staged file. Missing files are not an error.
func (s *Store) Remove(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Sweep removes every immediate entry of the directory and reports one Result
// per entry. A missing or unreadable directory yields no results.
func (s *Store) Sweep(ctx context.Context) []Result {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}

	results := make([]Result, len(entries))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(sweepConcurrency)
	for i, entry := range entries {
		g.Go(func() error {
			results[i] = s.removeEntry(entry.Name())
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *Store) removeEntry(name string) Result {
	err := os.Remove(filepath.Join(s.dir, name))
	switch {
	case err == nil:
		return Result{Name: name, Outcome: Removed}
	case errors.Is(err, fs.ErrNotExist):
		return Result{Name: name, Outcome: AlreadyGone}
	default:
		return Result{Name: name, Outcome: Failed, Err: err}
	}
}
