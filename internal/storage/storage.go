// Package storage provides file system operations for .hris/ directories.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jacksmith/hris/internal/model"
	"gopkg.in/yaml.v3"
)

const (
	// hrisDir is the name of the hris workspace directory.
	hrisDir = ".hris"
	// stateFile holds the client-local key/value items within .hris/.
	stateFile = "state.yaml"
	// configFile is the name of the config file within .hris/.
	configFile = "config.yaml"
)

// StorageConfig contains settings stored in .hris/config.yaml.
type StorageConfig struct {
	Version int `yaml:"version"`
}

// Storage provides access to a .hris/ directory.
type Storage struct {
	root string // path to directory containing .hris/

	mu sync.Mutex // serializes read-modify-write of state.yaml
}

// Open returns a Storage for the given directory.
// Returns error if .hris/ does not exist.
func Open(dir string) (*Storage, error) {
	hrisPath := filepath.Join(dir, hrisDir)
	info, err := os.Stat(hrisPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf(".hris/ directory not found in %s (run 'hris init' first)", dir)
		}
		return nil, fmt.Errorf("failed to access .hris/: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf(".hris is not a directory")
	}

	return &Storage{root: dir}, nil
}

// Init creates the .hris/ directory with an empty state file.
// Returns error if .hris/ already exists.
func Init(dir string) (*Storage, error) {
	hrisPath := filepath.Join(dir, hrisDir)

	if _, err := os.Stat(hrisPath); err == nil {
		return nil, fmt.Errorf(".hris/ directory already exists in %s", dir)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to check for .hris/: %w", err)
	}

	if err := os.MkdirAll(hrisPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create .hris/: %w", err)
	}

	cfg := StorageConfig{Version: 1}
	cfgData, err := yaml.Marshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	cfgPath := filepath.Join(hrisPath, configFile)
	if err := os.WriteFile(cfgPath, cfgData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write config.yaml: %w", err)
	}

	s := &Storage{root: dir}
	if err := model.SaveState(s.statePath(), map[string]string{}); err != nil {
		// Clean up on failure
		os.RemoveAll(hrisPath)
		return nil, fmt.Errorf("failed to create state file: %w", err)
	}

	return s, nil
}

// Root returns the root directory containing .hris/.
func (s *Storage) Root() string {
	return s.root
}

// HrisPath returns the path to the .hris/ directory.
func (s *Storage) HrisPath() string {
	return filepath.Join(s.root, hrisDir)
}

// statePath returns the path to the key/value state file.
func (s *Storage) statePath() string {
	return filepath.Join(s.root, hrisDir, stateFile)
}

// GetItem returns the value stored under key and whether it was present.
func (s *Storage) GetItem(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := model.LoadState(s.statePath())
	if err != nil {
		return "", false, err
	}
	value, ok := items[key]
	return value, ok, nil
}

// loadForWrite loads the state ahead of a modification. A corrupt state
// file yields an empty map and reset=true, so the write replaces it.
func (s *Storage) loadForWrite() (items map[string]string, reset bool, err error) {
	items, err = model.LoadState(s.statePath())
	if errors.Is(err, model.ErrCorruptState) {
		return map[string]string{}, true, nil
	}
	return items, false, err
}

// SetItem stores value under key, replacing any previous value.
// A state file that cannot be parsed is overwritten.
func (s *Storage) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, reset, err := s.loadForWrite()
	if err != nil {
		return err
	}
	if current, ok := items[key]; ok && current == value && !reset {
		return nil
	}
	items[key] = value
	return model.SaveState(s.statePath(), items)
}

// RemoveItem deletes key. Removing an absent key is not an error.
// A state file that cannot be parsed is replaced with an empty one.
func (s *Storage) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, reset, err := s.loadForWrite()
	if err != nil {
		return err
	}
	if _, ok := items[key]; !ok && !reset {
		return nil
	}
	delete(items, key)
	return model.SaveState(s.statePath(), items)
}
