// Hookbridge - Media Server Webhook Notification Dispatcher
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hookbridge

package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/tomtom215/hookbridge/internal/validation"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateIngest(); err != nil {
		return err
	}

	if err := c.validateDelivery(); err != nil {
		return err
	}

	if err := c.validateHooks(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got: %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got: %s", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateIngest() error {
	if c.Ingest.RateLimitReqs < 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must not be negative, got: %d", c.Ingest.RateLimitReqs)
	}
	if c.Ingest.RateLimitReqs > 0 && c.Ingest.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive when rate limiting is enabled, got: %s", c.Ingest.RateLimitWindow)
	}
	if c.Ingest.MaxBodyBytes <= 0 {
		return fmt.Errorf("INGEST_MAX_BODY_BYTES must be positive, got: %d", c.Ingest.MaxBodyBytes)
	}
	return nil
}

func (c *Config) validateDelivery() error {
	if c.Delivery.RequestTimeout < 0 {
		return fmt.Errorf("DELIVERY_REQUEST_TIMEOUT must not be negative, got: %s", c.Delivery.RequestTimeout)
	}
	return nil
}

// validateHooks checks every configured hook: struct tags via the shared
// validator, then webhook URL shape and name uniqueness.
func (c *Config) validateHooks() error {
	seen := make(map[string]struct{}, len(c.Hooks))
	for i, h := range c.Hooks {
		label := h.Name
		if label == "" {
			label = fmt.Sprintf("hooks[%d]", i)
		}

		if verr := validation.ValidateStruct(&h); verr != nil {
			return fmt.Errorf("hook %s: %s", label, verr.Error())
		}
		if err := validateWebhookURL(h.URL); err != nil {
			return fmt.Errorf("hook %s: %w", label, err)
		}

		if h.Name != "" {
			if _, dup := seen[h.Name]; dup {
				return fmt.Errorf("hook name %q is configured more than once", h.Name)
			}
			seen[h.Name] = struct{}{}
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got: %s", c.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("LOG_FORMAT must be json or console, got: %s", c.Logging.Format)
	}

	return nil
}

// validateWebhookURL validates a hook destination URL. Unlike a base service
// URL, a webhook endpoint may carry a path and query string.
func validateWebhookURL(rawURL string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("url failed to parse: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got: %s", parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("url host is required")
	}

	return nil
}

// applyHookDefaults fills derived hook fields after unmarshaling: hooks
// without a name get a stable positional one so logs and the hooks API can
// always refer to them.
func (c *Config) applyHookDefaults() {
	for i := range c.Hooks {
		if c.Hooks[i].Name == "" {
			c.Hooks[i].Name = fmt.Sprintf("hook-%d", i+1)
		}
	}
}
