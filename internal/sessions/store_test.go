// Hookbridge - Media Server Webhook Notification Dispatcher
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hookbridge

package sessions

import (
	"testing"

	"github.com/tomtom215/hookbridge/internal/models"
)

func TestStoreUpdateAndLookup(t *testing.T) {
	s := NewStore()

	if _, ok := s.Lookup("dev"); ok {
		t.Fatal("lookup on empty store should miss")
	}

	position := int64(4200)
	s.Update(models.SessionSnapshot{
		DeviceID:      "dev",
		UserName:      "miles",
		PositionTicks: &position,
		NowPlaying:    &models.MediaItem{Name: "Kind of Blue"},
	})

	snap, ok := s.Lookup("dev")
	if !ok {
		t.Fatal("lookup after update should hit")
	}
	if snap.UserName != "miles" || snap.NowPlaying == nil || snap.NowPlaying.Name != "Kind of Blue" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
}

func TestStoreIgnoresEmptyDeviceID(t *testing.T) {
	s := NewStore()
	s.Update(models.SessionSnapshot{UserName: "nobody"})
	if _, ok := s.Lookup(""); ok {
		t.Error("snapshot without device ID should not be stored")
	}
}

func TestStoreUpdateReplaces(t *testing.T) {
	s := NewStore()
	s.Update(models.SessionSnapshot{DeviceID: "dev", UserName: "first"})
	s.Update(models.SessionSnapshot{DeviceID: "dev", UserName: "second"})

	snap, _ := s.Lookup("dev")
	if snap.UserName != "second" {
		t.Errorf("UserName = %q, want latest snapshot retained", snap.UserName)
	}
}

func TestMarkStoppedClearsPlaybackKeepsIdentity(t *testing.T) {
	s := NewStore()
	position := int64(99)
	s.Update(models.SessionSnapshot{
		DeviceID:      "dev",
		UserName:      "miles",
		DeviceName:    "Kitchen Tablet",
		PositionTicks: &position,
		NowPlaying:    &models.MediaItem{Name: "Kind of Blue"},
	})

	s.MarkStopped("dev")

	snap, ok := s.Lookup("dev")
	if !ok {
		t.Fatal("stopped session should remain looked up by identity")
	}
	if snap.NowPlaying != nil || snap.PositionTicks != nil {
		t.Errorf("playback state not cleared: %+v", snap)
	}
	if snap.UserName != "miles" || snap.DeviceName != "Kitchen Tablet" {
		t.Errorf("identity fields lost: %+v", snap)
	}
}

func TestMarkStoppedUnknownDevice(t *testing.T) {
	s := NewStore()
	s.MarkStopped("ghost")
	if _, ok := s.Lookup("ghost"); ok {
		t.Error("marking an unknown device should not create an entry")
	}
}
