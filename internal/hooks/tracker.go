// Hookbridge - Media Server Webhook Notification Dispatcher
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hookbridge

package hooks

import (
	"sync"
)

// DeviceStateTracker records the last classified playback action per device
// and derives pause/resume transitions from the raw paused flag carried on
// progress signals.
//
// Entries are created lazily on first observation and retained for the
// process lifetime; device cardinality is bounded by connected clients.
// Each entry has its own mutex so unrelated devices never serialize on
// one another.
type DeviceStateTracker struct {
	mu      sync.RWMutex
	devices map[string]*deviceState
}

type deviceState struct {
	mu         sync.Mutex
	lastAction Action
}

// NewDeviceStateTracker creates an empty tracker.
func NewDeviceStateTracker() *DeviceStateTracker {
	return &DeviceStateTracker{devices: make(map[string]*deviceState)}
}

// entry returns the state for a device, creating it on first observation.
func (t *DeviceStateTracker) entry(deviceID string) *deviceState {
	t.mu.RLock()
	d, ok := t.devices[deviceID]
	t.mu.RUnlock()
	if ok {
		return d
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if d, ok = t.devices[deviceID]; ok {
		return d
	}
	d = &deviceState{}
	t.devices[deviceID] = d
	return d
}

// Observe classifies a raw progress signal for the device and, when a
// transition fires, records it as the device's last action in the same
// critical section. At most one transition is emitted per signal; redundant
// signals (repeated ticks in an unchanged state) emit none.
//
// A first-ever paused observation classifies as Paused: the empty prior
// state is distinct from Paused and Stopped.
func (t *DeviceStateTracker) Observe(deviceID string, isPaused bool) (Action, bool) {
	d := t.entry(deviceID)
	d.mu.Lock()
	defer d.mu.Unlock()

	switch {
	case isPaused && d.lastAction != ActionPaused && d.lastAction != ActionStopped:
		d.lastAction = ActionPaused
		return ActionPaused, true
	case !isPaused && d.lastAction == ActionPaused:
		d.lastAction = ActionResumed
		return ActionResumed, true
	default:
		return ActionNone, false
	}
}

// Record stores an explicitly reported action (Playing, Stopped, or an
// already classified transition) as the device's last action.
func (t *DeviceStateTracker) Record(deviceID string, action Action) {
	d := t.entry(deviceID)
	d.mu.Lock()
	d.lastAction = action
	d.mu.Unlock()
}

// LastAction returns the device's last recorded action, or ActionNone for
// a device never observed.
func (t *DeviceStateTracker) LastAction(deviceID string) Action {
	t.mu.RLock()
	d, ok := t.devices[deviceID]
	t.mu.RUnlock()
	if !ok {
		return ActionNone
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastAction
}
