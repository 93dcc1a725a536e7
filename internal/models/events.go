// Hookbridge - Media Server Webhook Notification Dispatcher
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hookbridge

package models

import "time"

// ============================================================================
// Inbound Media Server Event Models
// ============================================================================
// These structures represent event callbacks posted by a Jellyfin/Emby-style
// media server (or a bridge plugin) to the Hookbridge ingest endpoints.
// Field names follow the Jellyfin/Emby PascalCase wire convention.

// PlaybackEventKind identifies the kind of an inbound playback signal.
type PlaybackEventKind string

const (
	// PlaybackStart marks the beginning of a playback session.
	PlaybackStart PlaybackEventKind = "start"
	// PlaybackStop marks the end of a playback session.
	PlaybackStop PlaybackEventKind = "stop"
	// PlaybackProgress is the continuous progress tick carrying the raw
	// paused flag; pause/resume transitions are derived from it.
	PlaybackProgress PlaybackEventKind = "progress"
)

// MediaItem carries the library metadata of the item an event refers to.
// Optional numeric fields are pointers; absence renders as the type's
// zero sentinel in templates.
type MediaItem struct {
	ID              string     `json:"Id"`
	Name            string     `json:"Name"`
	Type            string     `json:"Type"`      // "Movie", "Episode", "Audio", ...
	MediaType       string     `json:"MediaType"` // "Video", "Audio", "Photo", "Book", ...
	ParentName      string     `json:"ParentName,omitempty"`
	GrandparentName string     `json:"GrandparentName,omitempty"`
	RunTimeTicks    *int64     `json:"RunTimeTicks,omitempty"`
	IndexNumber     *int       `json:"IndexNumber,omitempty"`
	ParentIndex     *int       `json:"ParentIndexNumber,omitempty"`
	CriticRating    *float64   `json:"CriticRating,omitempty"`
	CommunityRating *float64   `json:"CommunityRating,omitempty"`
	PremiereDate    *time.Time `json:"PremiereDate,omitempty"`
	DateAdded       *time.Time `json:"DateCreated,omitempty"`
	ProductionYear  *int       `json:"ProductionYear,omitempty"`
	Bitrate         *int64     `json:"TotalBitrate,omitempty"`
	Genres          []string   `json:"Genres,omitempty"`
}

// SessionSnapshot is the last known state of a playback session on one
// device, as reported by the media server.
type SessionSnapshot struct {
	SessionID      string     `json:"Id"`
	UserID         string     `json:"UserId"`
	UserName       string     `json:"UserName"`
	AppName        string     `json:"Client"`
	DeviceID       string     `json:"DeviceId"`
	DeviceName     string     `json:"DeviceName"`
	RemoteEndpoint string     `json:"RemoteEndPoint"`
	PositionTicks  *int64     `json:"PositionTicks,omitempty"`
	NowPlaying     *MediaItem `json:"NowPlayingItem,omitempty"`
}

// ServerInfo identifies the media server an event originated from.
type ServerInfo struct {
	ID   string `json:"Id"`
	Name string `json:"Name"`
}

// PlaybackSignal is the body of POST /api/v1/events/playback.
//
// Progress signals carry IsPaused; pause/resume semantics are derived from
// the stream of progress signals, not reported explicitly by the server.
// PositionTicks may be absent on pause/resume-triggering ticks; rendering
// falls back to the session's last known position.
type PlaybackSignal struct {
	Event         PlaybackEventKind `json:"Event"`
	DeviceID      string            `json:"DeviceId"`
	ClientName    string            `json:"ClientName,omitempty"`
	IsPaused      bool              `json:"IsPaused,omitempty"`
	PositionTicks *int64            `json:"PositionTicks,omitempty"`
	Item          *MediaItem        `json:"Item"`
	Session       *SessionSnapshot  `json:"Session,omitempty"`
	Server        *ServerInfo       `json:"Server,omitempty"`
}

// ItemAddedSignal is the body of POST /api/v1/events/library.
type ItemAddedSignal struct {
	Item      *MediaItem  `json:"Item"`
	IsVirtual bool        `json:"IsVirtual,omitempty"`
	Server    *ServerInfo `json:"Server,omitempty"`
}
