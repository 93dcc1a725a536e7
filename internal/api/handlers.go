// Hookbridge - Media Server Webhook Notification Dispatcher
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hookbridge

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/hookbridge/internal/config"
	"github.com/tomtom215/hookbridge/internal/models"
)

// Version is the reported application version.
const Version = "1.0.0"

// EventPublisher hands accepted inbound events to the dispatch pipeline.
// Satisfied by *bus.Bus.
type EventPublisher interface {
	PublishPlayback(sig *models.PlaybackSignal) error
	PublishLibrary(sig *models.ItemAddedSignal) error
}

// Handler holds dependencies for all HTTP handlers.
type Handler struct {
	store     *config.Store
	publisher EventPublisher
	startTime time.Time
}

// NewHandler creates a handler backed by the live configuration store and
// the event publisher.
func NewHandler(store *config.Store, publisher EventPublisher) *Handler {
	return &Handler{
		store:     store,
		publisher: publisher,
		startTime: time.Now(),
	}
}

// Health handles GET /api/v1/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := models.HealthStatus{
		Status:  "healthy",
		Version: Version,
		Hooks:   len(h.store.Hooks()),
		Uptime:  time.Since(h.startTime).Seconds(),
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   health,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthLive handles GET /api/v1/health/live. Process-up liveness probe.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   map[string]interface{}{"alive": true},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles GET /api/v1/health/ready. Ready once the pipeline
// collaborators exist; there is no external dependency to wait on.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := h.publisher != nil && h.store != nil
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   map[string]interface{}{"ready": ready},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
