// Hookbridge - Media Server Webhook Notification Dispatcher
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hookbridge

package api

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/hookbridge/internal/logging"
	"github.com/tomtom215/hookbridge/internal/metrics"
	"github.com/tomtom215/hookbridge/internal/models"
)

// EventsPlayback handles incoming playback event callbacks.
// POST /api/v1/events/playback
//
// The media server (or its bridge plugin) posts start, stop, and progress
// signals here. Accepted signals are published to the in-process bus and the
// endpoint returns 202 immediately; hook matching and delivery happen on the
// dispatcher's goroutines.
//
// Security:
//   - Verifies HMAC-SHA256 signature (X-Hook-Signature) when
//     INGEST_WEBHOOK_SECRET is configured
//   - Body size capped by INGEST_MAX_BODY_BYTES
//   - Rate limited per source IP
func (h *Handler) EventsPlayback(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, ok := h.readSignedBody(w, r)
	if !ok {
		return
	}

	var sig models.PlaybackSignal
	if err := json.Unmarshal(body, &sig); err != nil {
		metrics.IngestRejected.WithLabelValues("invalid_payload").Inc()
		respondError(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Failed to parse event JSON", err)
		return
	}

	switch sig.Event {
	case models.PlaybackStart, models.PlaybackStop, models.PlaybackProgress:
	default:
		metrics.IngestRejected.WithLabelValues("validation").Inc()
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Event must be start, stop, or progress", nil)
		return
	}
	if sig.DeviceID == "" {
		metrics.IngestRejected.WithLabelValues("validation").Inc()
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "DeviceId is required", nil)
		return
	}

	logger := logging.FromContext(r.Context())
	logger.Info().
		Str("event", sanitizeLogValue(string(sig.Event))).
		Str("device_id", sanitizeLogValue(sig.DeviceID)).
		Str("item", sanitizeLogValue(itemName(sig.Item))).
		Msg("Playback event received")

	metrics.EventsReceived.WithLabelValues(string(sig.Event)).Inc()

	if err := h.publisher.PublishPlayback(&sig); err != nil {
		respondError(w, http.StatusInternalServerError, "PUBLISH_FAILED", "Failed to enqueue event", err)
		return
	}

	respondAccepted(w, string(sig.Event), start)
}

// EventsLibrary handles incoming library item-added callbacks.
// POST /api/v1/events/library
func (h *Handler) EventsLibrary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, ok := h.readSignedBody(w, r)
	if !ok {
		return
	}

	var sig models.ItemAddedSignal
	if err := json.Unmarshal(body, &sig); err != nil {
		metrics.IngestRejected.WithLabelValues("invalid_payload").Inc()
		respondError(w, http.StatusBadRequest, "INVALID_PAYLOAD", "Failed to parse event JSON", err)
		return
	}

	if sig.Item == nil {
		metrics.IngestRejected.WithLabelValues("validation").Inc()
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Item is required", nil)
		return
	}

	logger := logging.FromContext(r.Context())
	logger.Info().
		Str("item", sanitizeLogValue(sig.Item.Name)).
		Str("type", sanitizeLogValue(sig.Item.Type)).
		Bool("virtual", sig.IsVirtual).
		Msg("Library event received")

	metrics.EventsReceived.WithLabelValues("item_added").Inc()

	if err := h.publisher.PublishLibrary(&sig); err != nil {
		respondError(w, http.StatusInternalServerError, "PUBLISH_FAILED", "Failed to enqueue event", err)
		return
	}

	respondAccepted(w, "item_added", start)
}

// readSignedBody reads the request body within the configured size cap and
// verifies the HMAC signature when a secret is configured. On failure the
// error response has been written and ok is false.
func (h *Handler) readSignedBody(w http.ResponseWriter, r *http.Request) (body []byte, ok bool) {
	cfg := h.store.Config()

	r.Body = http.MaxBytesReader(w, r.Body, cfg.Ingest.MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		metrics.IngestRejected.WithLabelValues("invalid_payload").Inc()
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Failed to read request body", err)
		return nil, false
	}
	defer r.Body.Close()

	if secret := cfg.Ingest.WebhookSecret; secret != "" {
		signature := r.Header.Get("X-Hook-Signature")
		if signature == "" {
			metrics.IngestRejected.WithLabelValues("invalid_signature").Inc()
			respondError(w, http.StatusUnauthorized, "MISSING_SIGNATURE", "X-Hook-Signature header required", nil)
			return nil, false
		}
		if !verifySignature(body, signature, secret) {
			metrics.IngestRejected.WithLabelValues("invalid_signature").Inc()
			respondError(w, http.StatusUnauthorized, "INVALID_SIGNATURE", "Event signature verification failed", nil)
			return nil, false
		}
	}

	return body, true
}

// verifySignature verifies the HMAC-SHA256 signature of the event payload.
func verifySignature(body []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(signature), []byte(expected))
}

// respondAccepted writes the 202 acknowledgment for an enqueued event.
func respondAccepted(w http.ResponseWriter, event string, start time.Time) {
	respondJSON(w, http.StatusAccepted, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"received": true,
			"event":    event,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

func itemName(item *models.MediaItem) string {
	if item == nil {
		return ""
	}
	return item.Name
}
