// Hookbridge - Media Server Webhook Notification Dispatcher
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hookbridge

package config

import (
	"time"

	"github.com/tomtom215/hookbridge/internal/hooks"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: Built-in sensible defaults for all optional settings
//  2. Config File: Optional YAML config file (config.yaml) for persistent
//     settings, including the hook list
//  3. Environment Variables: Override any scalar setting
//
// Hooks are file-only: a hook is a structured record (filters, templates,
// headers) that does not map onto flat environment variables.
//
// Thread Safety:
// Config is immutable after Load() and safe for concurrent read access.
// Hot-reload replaces the hook list through the Store, never mutates it.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Ingest   IngestConfig   `koanf:"ingest"`
	Delivery DeliveryConfig `koanf:"delivery"`
	Media    MediaConfig    `koanf:"media_server"`
	Logging  LoggingConfig  `koanf:"logging"`
	Hooks    []hooks.Hook   `koanf:"hooks"`
}

// ServerConfig holds HTTP server settings for the ingest API.
//
// Environment Variables:
//   - HTTP_HOST: Listen address (default: 0.0.0.0)
//   - HTTP_PORT: Listen port (default: 8090)
//   - HTTP_TIMEOUT: Read/write timeout (default: 30s)
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// IngestConfig holds settings for the inbound event endpoints.
//
// WebhookSecret enables HMAC-SHA256 verification of inbound payloads via the
// X-Hook-Signature header. Empty disables verification; intended only for
// deployments where the media server and Hookbridge share a trusted network.
type IngestConfig struct {
	WebhookSecret   string        `koanf:"webhook_secret"`
	RateLimitReqs   int           `koanf:"rate_limit_requests"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes"`
}

// DeliveryConfig holds settings for outbound webhook deliveries.
type DeliveryConfig struct {
	// RequestTimeout bounds a single outbound POST. 0 disables the bound.
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

// MediaConfig is the fallback identity of the media server this instance
// serves, used for {{ServerID}}/{{ServerName}} when an inbound event does
// not carry its own server identity.
type MediaConfig struct {
	ID   string `koanf:"id"`
	Name string `koanf:"name"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: debug, info, warn, error (default: info)
//   - LOG_FORMAT: json or console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
