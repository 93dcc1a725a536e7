// Hookbridge - Media Server Webhook Notification Dispatcher
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hookbridge

// Package sessions keeps the last known playback session snapshot per
// device, populated from inbound playback signals. It backs the renderer's
// position fallback and the stale-session guard: a device whose playback
// stopped has no now-playing item, so pause/resume renders for it are
// skipped.
package sessions

import (
	"sync"

	"github.com/tomtom215/hookbridge/internal/models"
)

// Store is an in-memory session snapshot map keyed by device ID.
type Store struct {
	mu       sync.RWMutex
	byDevice map[string]models.SessionSnapshot
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{byDevice: make(map[string]models.SessionSnapshot)}
}

// Update records the snapshot as the device's current session. Snapshots
// without a device ID are ignored.
func (s *Store) Update(snap models.SessionSnapshot) {
	if snap.DeviceID == "" {
		return
	}
	s.mu.Lock()
	s.byDevice[snap.DeviceID] = snap
	s.mu.Unlock()
}

// MarkStopped clears the device's now-playing state while keeping its
// identity fields, so later pause/resume signals for the dead session are
// recognized as stale.
func (s *Store) MarkStopped(deviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.byDevice[deviceID]
	if !ok {
		return
	}
	snap.NowPlaying = nil
	snap.PositionTicks = nil
	s.byDevice[deviceID] = snap
}

// Lookup returns the device's last known session snapshot.
func (s *Store) Lookup(deviceID string) (models.SessionSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.byDevice[deviceID]
	return snap, ok
}
