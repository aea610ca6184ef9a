package prompts

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// Store serves the active template set and reloads it from an optional file.
type Store struct {
	path    string
	logger  *slog.Logger
	current atomic.Pointer[Templates]
	loads   atomic.Int64
}

// NewStore creates a store. With an empty path the built-in templates are
// used and Reload is a no-op. Otherwise the file must exist and be valid.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		path:   path,
		logger: logger.With("component", "prompts"),
	}
	s.current.Store(Default())

	if path == "" {
		return s, nil
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the override file path, or "" when none is configured.
func (s *Store) Path() string {
	return s.path
}

// Current returns the active templates. The returned value must not be
// modified.
func (s *Store) Current() *Templates {
	return s.current.Load()
}

// Loads returns how many times the override file has been applied.
func (s *Store) Loads() int64 {
	return s.loads.Load()
}

// Reload re-reads the override file. On failure the previous templates stay
// active.
func (s *Store) Reload() error {
	if s.path == "" {
		return nil
	}

	t, err := LoadFile(s.path)
	if err != nil {
		return err
	}

	s.current.Store(t)
	s.loads.Add(1)
	s.logger.Info("prompt templates loaded", "path", s.path)
	return nil
}

// LoadFile reads a YAML template override file. Fields left empty fall back
// to the built-in templates.
func LoadFile(path string) (*Templates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("prompt template file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read prompt template file: %w", err)
	}

	var t Templates
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse prompt template file %s: %w", path, err)
	}

	merged := t.withDefaults()
	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("invalid prompt template file %s: %w", path, err)
	}
	return merged, nil
}
