package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// JSON-backed key-value storage. Single file, human-readable, portable.
// Each key maps to a raw JSON value. No locking; one local user.

// DefaultFileName is used when no data file is configured.
const DefaultFileName = "lister.json"

var (
	// ErrCorrupt is returned by Get when the file is not a JSON object.
	ErrCorrupt = errors.New("jsonstore: corrupt data file")
	// ErrInvalidValue is returned by Set for values that are not valid JSON.
	ErrInvalidValue = errors.New("jsonstore: value is not valid JSON")
)

// Store is a key-value store backed by a single JSON file.
type Store struct {
	path string
}

// New returns a store for path. An empty path means DefaultFileName in the
// working directory.
func New(path string) (*Store, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getwd: %w", err)
		}
		path = filepath.Join(wd, DefaultFileName)
	}
	return &Store{path: path}, nil
}

// Path reports the backing file.
func (s *Store) Path() string { return s.path }

func (s *Store) read() (map[string]json.RawMessage, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("read file: %w", err)
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if entries == nil {
		entries = map[string]json.RawMessage{}
	}
	return entries, nil
}

// Get returns the raw value stored under key.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	entries, err := s.read()
	if err != nil {
		return nil, false, err
	}
	v, ok := entries[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

// Set overwrites key with value. A corrupt file is replaced by a fresh object.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	if !json.Valid(value) {
		return ErrInvalidValue
	}
	entries, err := s.read()
	if errors.Is(err, ErrCorrupt) {
		entries = map[string]json.RawMessage{}
	} else if err != nil {
		return err
	}
	entries[key] = json.RawMessage(value)

	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	return writeAtomic(s.path, append(b, '\n'))
}

// Close is a no-op; the file is opened per call.
func (s *Store) Close() error { return nil }

func writeAtomic(path string, b []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
