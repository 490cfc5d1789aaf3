package blockchainwallet

import (
	"fmt"
	"log/slog"
	"sync"
)

type ConfigStore struct {
	mu   sync.RWMutex
	cfg  *Config
	path string
}

// NewConfigStore creates a threadsafe config holder for the file at path.
func NewConfigStore(path string, cfg *Config) *ConfigStore {
	return &ConfigStore{
		path: path,
		cfg:  cfg.Clone(),
	}
}

// Get returns a clone so callers cannot mutate shared state.
func (s *ConfigStore) Get() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Clone()
}

func (s *ConfigStore) Path() string {
	return s.path
}

// Set validates cfg and swaps it in as a whole. An invalid config leaves the
// current one in place.
func (s *ConfigStore) Set(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	next := cfg.Clone()
	next.Normalize()
	if err := next.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	s.cfg = next
	s.mu.Unlock()
	slog.Debug("config applied in memory", "path", s.path)
	return nil
}
