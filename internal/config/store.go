// Hookbridge - Media Server Webhook Notification Dispatcher
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hookbridge

package config

import (
	"sync"

	"github.com/tomtom215/hookbridge/internal/hooks"
	"github.com/tomtom215/hookbridge/internal/logging"
)

// Store holds the live configuration and serves the hook list to the
// matcher. It is the hot-reload boundary: a successful file reload swaps
// the whole Config atomically, a failed one keeps the last good state.
//
// Store implements hooks.HookProvider.
type Store struct {
	mu   sync.RWMutex
	cfg  *Config
	path string
}

// NewStore creates a store around an initially loaded configuration.
// path is the config file the store watches and reloads; empty disables
// hot-reload.
func NewStore(cfg *Config, path string) *Store {
	return &Store{cfg: cfg, path: path}
}

// Config returns the current configuration snapshot.
func (s *Store) Config() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Hooks returns the current ordered hook list. Callers treat the returned
// slice as read-only; reload replaces it rather than mutating it.
func (s *Store) Hooks() []hooks.Hook {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Hooks
}

// Replace swaps in a new configuration.
func (s *Store) Replace(cfg *Config) {
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// Watch starts watching the store's config file and reloads it on change.
// A reload that fails to parse or validate is logged and discarded; the
// running configuration stays untouched. No-op without a config file.
func (s *Store) Watch() error {
	if s.path == "" {
		return nil
	}

	path := s.path
	return WatchConfigFile(path, func() {
		cfg, err := LoadFile(path)
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("config reload failed, keeping previous configuration")
			return
		}
		s.Replace(cfg)
		logging.Info().Str("path", path).Int("hooks", len(cfg.Hooks)).Msg("configuration reloaded")
	})
}

// FindConfigFile exposes the config file search so the caller can record
// which file the process runs on (and hand it to NewStore for watching).
func FindConfigFile() string {
	return findConfigFile()
}
