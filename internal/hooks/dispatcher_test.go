// Hookbridge - Media Server Webhook Notification Dispatcher
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hookbridge

package hooks

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/hookbridge/internal/bus"
	"github.com/tomtom215/hookbridge/internal/models"
	"github.com/tomtom215/hookbridge/internal/sessions"
)

type delivery struct {
	hook    string
	payload string
}

// recordSink captures deliveries synchronously for assertions.
type recordSink struct {
	mu         sync.Mutex
	deliveries []delivery
	notify     chan delivery
}

func (s *recordSink) Deliver(hook Hook, payload string) {
	s.mu.Lock()
	s.deliveries = append(s.deliveries, delivery{hook: hook.Name, payload: payload})
	s.mu.Unlock()
	if s.notify != nil {
		s.notify <- delivery{hook: hook.Name, payload: payload}
	}
}

func (s *recordSink) all() []delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]delivery, len(s.deliveries))
	copy(out, s.deliveries)
	return out
}

func catchAllHook() Hook {
	return Hook{
		Name:              "all",
		URL:               "http://example.test/hook",
		OnPlay:            true,
		OnPause:           true,
		OnStop:            true,
		OnResume:          true,
		OnItemAdded:       true,
		WithMovies:        true,
		WithEpisodes:      true,
		WithSongs:         true,
		PlaybackTemplate:  "{{Event}}:{{ItemName}}",
		ItemAddedTemplate: "{{Event}}:{{ItemName}}",
	}
}

func newTestDispatcher(t *testing.T, hooks ...Hook) (*Dispatcher, *recordSink) {
	t.Helper()
	sink := &recordSink{}
	d := NewDispatcher(
		&staticProvider{hooks: hooks},
		NewDeviceStateTracker(),
		NewRenderer(),
		sink,
		sessions.NewStore(),
		models.ServerInfo{ID: "srv-1", Name: "den"},
	)
	return d, sink
}

func movieItem(name string) *models.MediaItem {
	return &models.MediaItem{ID: "itm-1", Name: name, Type: "Movie", MediaType: "Video"}
}

func playbackSignal(event models.PlaybackEventKind, device string, paused bool, item *models.MediaItem) *models.PlaybackSignal {
	sig := &models.PlaybackSignal{
		Event:    event,
		DeviceID: device,
		IsPaused: paused,
		Item:     item,
	}
	if item != nil {
		sig.Session = &models.SessionSnapshot{DeviceID: device, NowPlaying: item}
	}
	return sig
}

func TestDispatcherExplicitStartAndStop(t *testing.T) {
	d, sink := newTestDispatcher(t, catchAllHook())
	ctx := context.Background()
	item := movieItem("Heat")

	d.HandlePlaybackSignal(ctx, playbackSignal(models.PlaybackStart, "dev", false, item))
	d.HandlePlaybackSignal(ctx, playbackSignal(models.PlaybackStop, "dev", false, item))

	got := sink.all()
	want := []delivery{
		{hook: "all", payload: "Playing:Heat"},
		{hook: "all", payload: "Stopped:Heat"},
	}
	if len(got) != len(want) {
		t.Fatalf("deliveries = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("deliveries[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDispatcherClassifiesPauseAndResumeFromProgress(t *testing.T) {
	d, sink := newTestDispatcher(t, catchAllHook())
	ctx := context.Background()
	item := movieItem("Heat")

	d.HandlePlaybackSignal(ctx, playbackSignal(models.PlaybackStart, "dev", false, item))
	d.HandlePlaybackSignal(ctx, playbackSignal(models.PlaybackProgress, "dev", true, item))
	d.HandlePlaybackSignal(ctx, playbackSignal(models.PlaybackProgress, "dev", true, item))
	d.HandlePlaybackSignal(ctx, playbackSignal(models.PlaybackProgress, "dev", false, item))
	d.HandlePlaybackSignal(ctx, playbackSignal(models.PlaybackProgress, "dev", false, item))

	got := sink.all()
	want := []delivery{
		{hook: "all", payload: "Playing:Heat"},
		{hook: "all", payload: "Paused:Heat"},
		{hook: "all", payload: "Resumed:Heat"},
	}
	if len(got) != len(want) {
		t.Fatalf("deliveries = %v, want %v", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("deliveries[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestDispatcherIgnoresPausedTickAfterStop(t *testing.T) {
	d, sink := newTestDispatcher(t, catchAllHook())
	ctx := context.Background()
	item := movieItem("Heat")

	d.HandlePlaybackSignal(ctx, playbackSignal(models.PlaybackStart, "dev", false, item))
	d.HandlePlaybackSignal(ctx, playbackSignal(models.PlaybackStop, "dev", false, item))
	// A straggler tick from the dead session.
	d.HandlePlaybackSignal(ctx, playbackSignal(models.PlaybackProgress, "dev", true, nil))

	got := sink.all()
	if len(got) != 2 {
		t.Fatalf("deliveries = %v, want only Playing and Stopped", got)
	}
}

func TestDispatcherSkipsStalePauseRender(t *testing.T) {
	d, sink := newTestDispatcher(t, catchAllHook())
	ctx := context.Background()
	item := movieItem("Heat")

	d.HandlePlaybackSignal(ctx, playbackSignal(models.PlaybackStart, "dev", false, item))
	d.HandlePlaybackSignal(ctx, playbackSignal(models.PlaybackStop, "dev", false, item))
	// An explicit pause arriving after the session ended: matched, but the
	// stored session no longer has a now-playing item, so no payload.
	d.HandlePlaybackTransition(ctx, &models.PlaybackSignal{
		Event:    models.PlaybackProgress,
		DeviceID: "dev",
		Item:     item,
	}, EventPause)

	got := sink.all()
	if len(got) != 2 {
		t.Fatalf("deliveries = %v, want stale pause suppressed", got)
	}
}

func TestDispatcherFiltersByContentType(t *testing.T) {
	moviesOnly := catchAllHook()
	moviesOnly.Name = "movies"
	moviesOnly.WithEpisodes = false
	moviesOnly.WithSongs = false

	d, sink := newTestDispatcher(t, moviesOnly)
	ctx := context.Background()

	song := &models.MediaItem{ID: "itm-2", Name: "So What", Type: "Audio", MediaType: "Audio"}
	d.HandlePlaybackSignal(ctx, playbackSignal(models.PlaybackStart, "dev", false, song))
	d.HandlePlaybackSignal(ctx, playbackSignal(models.PlaybackStart, "dev", false, movieItem("Heat")))

	got := sink.all()
	if len(got) != 1 || got[0].payload != "Playing:Heat" {
		t.Fatalf("deliveries = %v, want only the movie start", got)
	}
}

func TestDispatcherTracksStateWithoutMatchingHooks(t *testing.T) {
	// No hooks at all: transitions still have to be classified exactly once
	// so a later-added hook sees correct state.
	d, sink := newTestDispatcher(t)
	ctx := context.Background()
	item := movieItem("Heat")

	d.HandlePlaybackSignal(ctx, playbackSignal(models.PlaybackStart, "dev", false, item))
	d.HandlePlaybackSignal(ctx, playbackSignal(models.PlaybackProgress, "dev", true, item))

	if len(sink.all()) != 0 {
		t.Fatal("no hooks configured, nothing should be delivered")
	}
	if got := d.tracker.LastAction("dev"); got != ActionPaused {
		t.Errorf("LastAction = %q, want Paused recorded despite no matching hooks", got)
	}
}

func TestDispatcherItemAdded(t *testing.T) {
	tests := []struct {
		name string
		sig  *models.ItemAddedSignal
		want []delivery
	}{
		{
			name: "movie delivered",
			sig:  &models.ItemAddedSignal{Item: movieItem("Heat")},
			want: []delivery{{hook: "all", payload: "Added:Heat"}},
		},
		{
			name: "virtual item skipped",
			sig:  &models.ItemAddedSignal{Item: movieItem("Heat"), IsVirtual: true},
		},
		{
			name: "non-media item skipped",
			sig:  &models.ItemAddedSignal{Item: &models.MediaItem{Name: "Dune", Type: "Book", MediaType: "Book"}},
		},
		{
			name: "unclassified video skipped",
			sig:  &models.ItemAddedSignal{Item: &models.MediaItem{Name: "Clip", Type: "Trailer", MediaType: "Video"}},
		},
		{
			name: "nil item skipped",
			sig:  &models.ItemAddedSignal{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, sink := newTestDispatcher(t, catchAllHook())
			d.HandleItemAdded(context.Background(), tt.sig)
			got := sink.all()
			if len(got) != len(tt.want) {
				t.Fatalf("deliveries = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("deliveries[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDispatcherServerIdentityFallback(t *testing.T) {
	hook := catchAllHook()
	hook.PlaybackTemplate = "{{ServerName}}"
	d, sink := newTestDispatcher(t, hook)
	ctx := context.Background()

	d.HandlePlaybackSignal(ctx, playbackSignal(models.PlaybackStart, "dev-a", false, movieItem("Heat")))

	carried := playbackSignal(models.PlaybackStart, "dev-b", false, movieItem("Heat"))
	carried.Server = &models.ServerInfo{ID: "srv-9", Name: "attic"}
	d.HandlePlaybackSignal(ctx, carried)

	got := sink.all()
	if len(got) != 2 || got[0].payload != "den" || got[1].payload != "attic" {
		t.Fatalf("deliveries = %v, want configured identity then event-carried identity", got)
	}
}

func TestDispatcherConsumesFromBus(t *testing.T) {
	sink := &recordSink{notify: make(chan delivery, 4)}
	d := NewDispatcher(
		&staticProvider{hooks: []Hook{catchAllHook()}},
		NewDeviceStateTracker(),
		NewRenderer(),
		sink,
		sessions.NewStore(),
		models.ServerInfo{ID: "srv-1", Name: "den"},
	)

	b := bus.New()
	defer b.Close()

	if err := d.Start(context.Background(), b); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer d.Stop()

	if err := b.PublishPlayback(playbackSignal(models.PlaybackStart, "dev", false, movieItem("Heat"))); err != nil {
		t.Fatalf("PublishPlayback() error: %v", err)
	}
	if err := b.PublishLibrary(&models.ItemAddedSignal{Item: movieItem("Ran")}); err != nil {
		t.Fatalf("PublishLibrary() error: %v", err)
	}

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case dl := <-sink.notify:
			got[dl.payload] = true
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for deliveries, got %v", got)
		}
	}
	if !got["Playing:Heat"] || !got["Added:Ran"] {
		t.Fatalf("deliveries = %v, want playback and library events", got)
	}
}

func TestDispatcherStartStopIdempotent(t *testing.T) {
	d, _ := newTestDispatcher(t, catchAllHook())
	b := bus.New()
	defer b.Close()

	ctx := context.Background()
	if err := d.Start(ctx, b); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := d.Start(ctx, b); err != nil {
		t.Fatalf("second Start() error: %v", err)
	}
	d.Stop()
	d.Stop()
}
