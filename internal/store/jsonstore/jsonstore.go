package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/idilsaglam/sliders/internal/model"
	"github.com/idilsaglam/sliders/internal/store"
)

// JSON-backed storage. Single file, human-readable, portable.
// No locking; fine for a local single-user tool.

type Store struct {
	path string
}

var _ store.Store = (*Store)(nil)

// New returns a store backed by path. A relative path is resolved against
// the working directory.
func New(path string) (*Store, error) {
	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		path = filepath.Join(wd, path)
	}
	return &Store{path: path}, nil
}

func (s *Store) Load(ctx context.Context) ([]model.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Entry{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	return Decode(b)
}

func (s *Store) Save(ctx context.Context, entries []model.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if entries == nil {
		entries = []model.Entry{}
	}
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return nil }

// Decode parses an entry array. Records missing id, name or value fail the
// whole decode.
func Decode(b []byte) ([]model.Entry, error) {
	var entries []model.Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if entries == nil {
		entries = []model.Entry{}
	}
	return entries, nil
}
