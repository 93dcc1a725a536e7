// Hookbridge - Media Server Webhook Notification Dispatcher
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hookbridge

// Package metrics provides Prometheus instrumentation for the notification
// pipeline: ingest volume, classified transitions, hook matching, rendering
// skips, and outbound delivery outcomes.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EventsReceived counts inbound media-server events by kind
	// (start, stop, progress, item_added).
	EventsReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hookbridge_events_received_total",
			Help: "Total inbound media server events accepted by the ingest API",
		},
		[]string{"kind"},
	)

	// IngestRejected counts inbound events rejected before dispatch.
	IngestRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hookbridge_ingest_rejected_total",
			Help: "Total inbound events rejected by the ingest API",
		},
		[]string{"reason"}, // "invalid_payload", "invalid_signature", "validation"
	)

	// TransitionsClassified counts pause/resume transitions derived from
	// raw progress signals.
	TransitionsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hookbridge_transitions_classified_total",
			Help: "Total playback transitions derived from progress signals",
		},
		[]string{"action"},
	)

	// HooksMatched counts hook matches per event kind.
	HooksMatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hookbridge_hooks_matched_total",
			Help: "Total hooks matched against dispatched events",
		},
		[]string{"event"},
	)

	// RendersSkipped counts renders skipped by the stale-session guard.
	RendersSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hookbridge_renders_skipped_total",
			Help: "Total renders skipped because the session had already ended",
		},
	)

	// DeliveriesTotal counts outbound webhook deliveries by outcome.
	DeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hookbridge_deliveries_total",
			Help: "Total outbound webhook deliveries",
		},
		[]string{"outcome", "status_code"},
	)

	// DeliveryDuration observes outbound delivery latency.
	DeliveryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hookbridge_delivery_duration_seconds",
			Help:    "Outbound webhook delivery duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// APIRequestsTotal counts HTTP requests against the ingest API.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hookbridge_api_requests_total",
			Help: "Total HTTP API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// APIRequestDuration observes HTTP request latency per endpoint.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hookbridge_api_request_duration_seconds",
			Help:    "HTTP API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "endpoint"},
	)

	// APIActiveRequests tracks in-flight HTTP requests.
	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hookbridge_api_active_requests",
			Help: "Number of HTTP API requests currently being served",
		},
	)
)

// RecordDelivery records one delivery outcome. statusCode is 0 for
// transport failures that produced no response.
func RecordDelivery(outcome string, statusCode int, elapsed time.Duration) {
	code := ""
	if statusCode > 0 {
		code = strconv.Itoa(statusCode)
	}
	DeliveriesTotal.WithLabelValues(outcome, code).Inc()
	DeliveryDuration.Observe(elapsed.Seconds())
}

// RecordAPIRequest records an HTTP API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight HTTP requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
