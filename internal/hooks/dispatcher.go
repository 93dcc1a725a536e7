// Hookbridge - Media Server Webhook Notification Dispatcher
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hookbridge

package hooks

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tomtom215/hookbridge/internal/bus"
	"github.com/tomtom215/hookbridge/internal/logging"
	"github.com/tomtom215/hookbridge/internal/metrics"
	"github.com/tomtom215/hookbridge/internal/models"
)

// SessionStore is the session lookup collaborator: the last known session
// snapshot per device, maintained from inbound playback signals.
type SessionStore interface {
	Update(snap models.SessionSnapshot)
	MarkStopped(deviceID string)
	Lookup(deviceID string) (models.SessionSnapshot, bool)
}

// EventSource delivers inbound event messages by topic. Satisfied by
// *bus.Bus.
type EventSource interface {
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
}

// Dispatcher converts inbound media-server events into webhook deliveries:
// it tracks device state, asks the matcher for interested hooks, renders
// each hook's payload, and hands the payloads to the delivery sink.
//
// All collaborators are passed in explicitly; the dispatcher holds no
// package-level state. Errors never propagate back to the event source —
// every failure inside the pipeline is absorbed and logged.
type Dispatcher struct {
	matcher  *Matcher
	tracker  *DeviceStateTracker
	renderer *Renderer
	sink     Sink
	sessions SessionStore
	server   models.ServerInfo

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDispatcher wires the pipeline. server is the identity used for
// {{ServerID}}/{{ServerName}} when an event does not carry its own.
func NewDispatcher(
	provider HookProvider,
	tracker *DeviceStateTracker,
	renderer *Renderer,
	sink Sink,
	sessions SessionStore,
	server models.ServerInfo,
) *Dispatcher {
	return &Dispatcher{
		matcher:  NewMatcher(provider),
		tracker:  tracker,
		renderer: renderer,
		sink:     sink,
		sessions: sessions,
		server:   server,
	}
}

// Start attaches the dispatcher to the event source, consuming playback
// and library topics until Stop is called or the context is canceled.
// Starting an already started dispatcher is a no-op.
func (d *Dispatcher) Start(ctx context.Context, source EventSource) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)

	playback, err := source.Subscribe(runCtx, bus.TopicPlayback)
	if err != nil {
		cancel()
		return err
	}
	library, err := source.Subscribe(runCtx, bus.TopicLibrary)
	if err != nil {
		cancel()
		return err
	}

	d.cancel = cancel
	d.wg.Add(2)
	go d.consume(playback, d.handlePlaybackMessage)
	go d.consume(library, d.handleLibraryMessage)

	logging.Info().Msg("dispatcher attached to event source")
	return nil
}

// Stop detaches the dispatcher and waits for its consumers to drain.
// Idempotent and safe to call without a prior Start.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	cancel := d.cancel
	d.cancel = nil
	d.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	d.wg.Wait()
	logging.Info().Msg("dispatcher detached from event source")
}

// consume drains one topic stream. Malformed messages are acked and
// dropped; the stream itself must keep flowing.
func (d *Dispatcher) consume(msgs <-chan *message.Message, handle func(*message.Message)) {
	defer d.wg.Done()
	for msg := range msgs {
		handle(msg)
		msg.Ack()
	}
}

func (d *Dispatcher) handlePlaybackMessage(msg *message.Message) {
	var sig models.PlaybackSignal
	if err := json.Unmarshal(msg.Payload, &sig); err != nil {
		logging.Err(err).Str("message_id", msg.UUID).Msg("dropping malformed playback event")
		return
	}
	d.HandlePlaybackSignal(context.Background(), &sig)
}

func (d *Dispatcher) handleLibraryMessage(msg *message.Message) {
	var sig models.ItemAddedSignal
	if err := json.Unmarshal(msg.Payload, &sig); err != nil {
		logging.Err(err).Str("message_id", msg.UUID).Msg("dropping malformed library event")
		return
	}
	d.HandleItemAdded(context.Background(), &sig)
}

// HandlePlaybackSignal routes an inbound playback signal. Explicit start
// and stop signals dispatch directly; progress signals go through the
// device state tracker, and only a classified pause/resume transition
// re-enters as if that explicit event had fired. Redundant ticks are
// dropped silently.
func (d *Dispatcher) HandlePlaybackSignal(ctx context.Context, sig *models.PlaybackSignal) {
	if sig == nil || sig.DeviceID == "" {
		return
	}

	switch sig.Event {
	case models.PlaybackStart:
		d.HandlePlaybackTransition(ctx, sig, EventPlay)
	case models.PlaybackStop:
		d.HandlePlaybackTransition(ctx, sig, EventStop)
	case models.PlaybackProgress:
		d.recordSession(sig)
		action, ok := d.tracker.Observe(sig.DeviceID, sig.IsPaused)
		if !ok {
			return
		}
		metrics.TransitionsClassified.WithLabelValues(string(action)).Inc()
		kind, _ := EventFor(action)
		d.HandlePlaybackTransition(ctx, sig, kind)
	default:
		logging.Warn().Str("event", string(sig.Event)).Msg("unknown playback event kind")
	}
}

// HandlePlaybackTransition dispatches one playback transition: the device
// state is recorded first so tracker state stays consistent even when no
// hook matches, then matched hooks are rendered and delivered.
func (d *Dispatcher) HandlePlaybackTransition(_ context.Context, sig *models.PlaybackSignal, kind EventKind) {
	action := ActionFor(kind)
	if action == ActionNone || sig == nil || sig.DeviceID == "" {
		return
	}

	d.tracker.Record(sig.DeviceID, action)

	switch kind {
	case EventPlay:
		d.recordSession(sig)
	case EventStop:
		d.recordSession(sig)
		d.sessions.MarkStopped(sig.DeviceID)
	}

	contentType := ContentTypeOf(sig.Item)
	matched := d.matcher.HooksFor(contentType, kind)
	if len(matched) == 0 {
		logging.Debug().
			Str("action", string(action)).
			Str("content_type", string(contentType)).
			Str("device_id", sig.DeviceID).
			Msg("no hooks interested, event dropped")
		return
	}
	metrics.HooksMatched.WithLabelValues(string(kind)).Add(float64(len(matched)))

	session := d.sessionFor(sig)
	rctx := RenderContext{
		Action:        action,
		Server:        d.serverFor(sig.Server),
		Item:          playbackItem(sig, session),
		ItemType:      contentType,
		Session:       session,
		PositionTicks: sig.PositionTicks,
	}

	for _, h := range matched {
		payload, ok := d.renderer.Render(h.Template(kind), rctx, h.QuoteValues)
		if !ok {
			metrics.RendersSkipped.Inc()
			logging.Debug().
				Str("hook", h.Name).
				Str("device_id", sig.DeviceID).
				Msg("session already ended, render skipped")
			continue
		}
		d.sink.Deliver(h, payload)
	}
}

// HandleItemAdded dispatches a library item-added event. Only non-virtual
// video and audio items are candidates; everything else is dropped before
// matching.
func (d *Dispatcher) HandleItemAdded(_ context.Context, sig *models.ItemAddedSignal) {
	if sig == nil || sig.Item == nil || sig.IsVirtual {
		return
	}
	if sig.Item.MediaType != "Video" && sig.Item.MediaType != "Audio" {
		return
	}

	contentType := ContentTypeOf(sig.Item)
	matched := d.matcher.HooksFor(contentType, EventItemAdded)
	if len(matched) == 0 {
		logging.Debug().
			Str("content_type", string(contentType)).
			Str("item", sig.Item.Name).
			Msg("no hooks interested, item-added event dropped")
		return
	}
	metrics.HooksMatched.WithLabelValues(string(EventItemAdded)).Add(float64(len(matched)))

	rctx := RenderContext{
		Action:   ActionAdded,
		Server:   d.serverFor(sig.Server),
		Item:     sig.Item,
		ItemType: contentType,
	}

	for _, h := range matched {
		payload, _ := d.renderer.Render(h.ItemAddedTemplate, rctx, h.QuoteValues)
		d.sink.Deliver(h, payload)
	}
}

// recordSession stores the freshest session snapshot carried on a signal.
func (d *Dispatcher) recordSession(sig *models.PlaybackSignal) {
	if sig.Session == nil {
		return
	}
	snap := *sig.Session
	if snap.DeviceID == "" {
		snap.DeviceID = sig.DeviceID
	}
	d.sessions.Update(snap)
}

// sessionFor resolves the session snapshot a render observes: the stored
// snapshot when present, otherwise whatever the signal itself carried,
// otherwise an empty snapshot bearing only the device identity.
func (d *Dispatcher) sessionFor(sig *models.PlaybackSignal) *models.SessionSnapshot {
	if snap, ok := d.sessions.Lookup(sig.DeviceID); ok {
		return &snap
	}
	if sig.Session != nil {
		snap := *sig.Session
		if snap.DeviceID == "" {
			snap.DeviceID = sig.DeviceID
		}
		return &snap
	}
	return &models.SessionSnapshot{DeviceID: sig.DeviceID, AppName: sig.ClientName}
}

func (d *Dispatcher) serverFor(info *models.ServerInfo) models.ServerInfo {
	if info != nil {
		return *info
	}
	return d.server
}

// playbackItem picks the item a playback render describes, preferring the
// session's now-playing item over the signal's copy.
func playbackItem(sig *models.PlaybackSignal, session *models.SessionSnapshot) *models.MediaItem {
	if session != nil && session.NowPlaying != nil {
		return session.NowPlaying
	}
	return sig.Item
}
