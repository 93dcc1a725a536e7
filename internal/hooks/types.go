// Hookbridge - Media Server Webhook Notification Dispatcher
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hookbridge

// Package hooks implements the event-to-notification pipeline: device state
// tracking, hook matching, template rendering, and outbound delivery.
package hooks

import (
	"github.com/tomtom215/hookbridge/internal/models"
)

// EventKind identifies the event a hook can subscribe to.
type EventKind string

const (
	EventPlay      EventKind = "play"
	EventPause     EventKind = "pause"
	EventStop      EventKind = "stop"
	EventResume    EventKind = "resume"
	EventItemAdded EventKind = "item_added"
)

// Action is the classified playback action recorded per device and exposed
// to templates as the {{Event}} label.
type Action string

const (
	ActionNone    Action = ""
	ActionPlaying Action = "Playing"
	ActionPaused  Action = "Paused"
	ActionStopped Action = "Stopped"
	ActionResumed Action = "Resumed"

	// ActionAdded is the {{Event}} label for item-added notifications.
	// It is never recorded in device state.
	ActionAdded Action = "Added"
)

// actionEvents maps classified playback actions to the hook event kind
// that gates them.
var actionEvents = map[Action]EventKind{
	ActionPlaying: EventPlay,
	ActionPaused:  EventPause,
	ActionStopped: EventStop,
	ActionResumed: EventResume,
}

// EventFor returns the hook event kind gating the given playback action.
func EventFor(action Action) (EventKind, bool) {
	kind, ok := actionEvents[action]
	return kind, ok
}

// ActionFor returns the template label for an explicit playback event kind.
func ActionFor(kind EventKind) Action {
	for action, k := range actionEvents {
		if k == kind {
			return action
		}
	}
	return ActionNone
}

// ContentType is the closed content classification hooks match against.
// It is derived once per item; anything outside the closed set is Other
// and never matches a hook.
type ContentType string

const (
	ContentMovie   ContentType = "movie"
	ContentEpisode ContentType = "episode"
	ContentSong    ContentType = "song"
	ContentOther   ContentType = "other"
)

// ContentTypeOf classifies a media item by its server-reported type.
func ContentTypeOf(item *models.MediaItem) ContentType {
	if item == nil {
		return ContentOther
	}
	switch item.Type {
	case "Movie":
		return ContentMovie
	case "Episode":
		return ContentEpisode
	case "Audio", "Song":
		return ContentSong
	default:
		return ContentOther
	}
}

// Hook is one operator-configured notification rule: a content-type filter
// and event-type filter bound to a destination URL and message templates.
type Hook struct {
	Name string `koanf:"name" json:"name"`
	URL  string `koanf:"url" json:"url" validate:"required,url"`

	OnPlay      bool `koanf:"on_play" json:"on_play"`
	OnPause     bool `koanf:"on_pause" json:"on_pause"`
	OnStop      bool `koanf:"on_stop" json:"on_stop"`
	OnResume    bool `koanf:"on_resume" json:"on_resume"`
	OnItemAdded bool `koanf:"on_item_added" json:"on_item_added"`

	WithMovies   bool `koanf:"with_movies" json:"with_movies"`
	WithEpisodes bool `koanf:"with_episodes" json:"with_episodes"`
	WithSongs    bool `koanf:"with_songs" json:"with_songs"`

	// PlaybackTemplate renders play/pause/stop/resume notifications;
	// ItemAddedTemplate renders library notifications. Templates are
	// literal text with {{Placeholder}} tokens, typically hand-authored
	// JSON.
	PlaybackTemplate  string `koanf:"playback_template" json:"playback_template"`
	ItemAddedTemplate string `koanf:"item_added_template" json:"item_added_template"`

	// QuoteValues wraps substituted string values in double quotes so
	// operators can write bare {{Tokens}} inside JSON templates.
	QuoteValues bool `koanf:"quote_values" json:"quote_values"`

	// Headers are additional headers sent with each delivery.
	Headers map[string]string `koanf:"headers" json:"headers,omitempty"`

	// RateLimitMs is the minimum spacing between deliveries to this
	// hook's endpoint. 0 disables outbound rate limiting.
	RateLimitMs int `koanf:"rate_limit_ms" json:"rate_limit_ms" validate:"gte=0"`
}

// WantsEvent reports whether the hook subscribed to the given event kind.
func (h *Hook) WantsEvent(kind EventKind) bool {
	switch kind {
	case EventPlay:
		return h.OnPlay
	case EventPause:
		return h.OnPause
	case EventStop:
		return h.OnStop
	case EventResume:
		return h.OnResume
	case EventItemAdded:
		return h.OnItemAdded
	default:
		return false
	}
}

// WantsContent reports whether the hook subscribed to the given content type.
func (h *Hook) WantsContent(ct ContentType) bool {
	switch ct {
	case ContentMovie:
		return h.WithMovies
	case ContentEpisode:
		return h.WithEpisodes
	case ContentSong:
		return h.WithSongs
	default:
		return false
	}
}

// Template returns the template used for the given event kind.
func (h *Hook) Template(kind EventKind) string {
	if kind == EventItemAdded {
		return h.ItemAddedTemplate
	}
	return h.PlaybackTemplate
}

// HookProvider exposes the current ordered hook configuration.
// The configuration store implements this; the matcher consumes it.
type HookProvider interface {
	Hooks() []Hook
}
