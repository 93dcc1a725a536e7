// Hookbridge - Media Server Webhook Notification Dispatcher
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hookbridge

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/hookbridge/internal/hooks"
	"github.com/tomtom215/hookbridge/internal/models"
)

// HooksList handles GET /api/v1/hooks, returning the current hook
// configuration as summaries. Templates and header values are omitted;
// operator-configured headers may carry credentials.
func (h *Handler) HooksList(w http.ResponseWriter, r *http.Request) {
	configured := h.store.Hooks()
	summaries := make([]models.HookSummary, 0, len(configured))
	for i := range configured {
		summaries = append(summaries, summarizeHook(&configured[i]))
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"hooks": summaries,
			"count": len(summaries),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

func summarizeHook(h *hooks.Hook) models.HookSummary {
	var events []string
	for _, kind := range []hooks.EventKind{
		hooks.EventPlay, hooks.EventPause, hooks.EventStop, hooks.EventResume, hooks.EventItemAdded,
	} {
		if h.WantsEvent(kind) {
			events = append(events, string(kind))
		}
	}

	var contentTypes []string
	for _, ct := range []hooks.ContentType{hooks.ContentMovie, hooks.ContentEpisode, hooks.ContentSong} {
		if h.WantsContent(ct) {
			contentTypes = append(contentTypes, string(ct))
		}
	}

	return models.HookSummary{
		Name:         h.Name,
		URL:          h.URL,
		Events:       events,
		ContentTypes: contentTypes,
		QuoteValues:  h.QuoteValues,
		RateLimitMs:  h.RateLimitMs,
	}
}
