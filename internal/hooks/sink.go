// Hookbridge - Media Server Webhook Notification Dispatcher
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hookbridge

package hooks

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/hookbridge/internal/logging"
	"github.com/tomtom215/hookbridge/internal/metrics"
)

// Sink initiates delivery of a rendered payload to a hook's endpoint.
type Sink interface {
	Deliver(hook Hook, payload string)
}

// HTTPSink posts rendered payloads as application/json, fire-and-forget.
// Each delivery runs in its own goroutine with its own log-and-drop error
// scope: the dispatching event path never waits for a remote response, and
// a failed delivery never affects another hook or a later event.
//
// Connections are not reused across deliveries.
type HTTPSink struct {
	client *http.Client

	mu       sync.Mutex
	limiters map[string]*rate.Limiter

	wg sync.WaitGroup
}

// NewHTTPSink creates a sink whose requests time out after requestTimeout
// (0 means no timeout; the hung call leaks but never blocks event
// processing either way).
func NewHTTPSink(requestTimeout time.Duration) *HTTPSink {
	return &HTTPSink{
		client: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				DisableKeepAlives: true,
			},
		},
		limiters: make(map[string]*rate.Limiter),
	}
}

// Deliver initiates one HTTP POST for the hook and returns immediately.
func (s *HTTPSink) Deliver(hook Hook, payload string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.send(hook, payload)
	}()
}

// Close waits for in-flight deliveries to finish.
func (s *HTTPSink) Close() {
	s.wg.Wait()
}

// send performs the POST and records the outcome. Failures are logged and
// dropped; nothing is retried or surfaced.
func (s *HTTPSink) send(hook Hook, payload string) {
	if lim := s.limiter(hook); lim != nil {
		if err := lim.Wait(context.Background()); err != nil {
			return
		}
	}

	start := time.Now()

	req, err := http.NewRequest(http.MethodPost, hook.URL, strings.NewReader(payload))
	if err != nil {
		logging.Err(err).Str("hook", hook.Name).Str("url", hook.URL).Msg("invalid delivery request")
		metrics.RecordDelivery("transport_error", 0, time.Since(start))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range hook.Headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		logging.Warn().Err(err).Str("hook", hook.Name).Str("url", hook.URL).Msg("webhook delivery failed")
		metrics.RecordDelivery("transport_error", 0, elapsed)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		logging.Warn().
			Str("hook", hook.Name).
			Str("url", hook.URL).
			Int("status", resp.StatusCode).
			Msg("webhook endpoint returned error status")
		metrics.RecordDelivery("http_error", resp.StatusCode, elapsed)
		return
	}

	logging.Debug().
		Str("hook", hook.Name).
		Str("url", hook.URL).
		Int("status", resp.StatusCode).
		Dur("elapsed", elapsed).
		Msg("webhook delivered")
	metrics.RecordDelivery("success", resp.StatusCode, elapsed)
}

// limiter returns the hook's outbound rate limiter, or nil when the hook
// has no rate limit configured. Limiters are keyed by destination URL so
// multiple hooks pointing at one endpoint share spacing.
func (s *HTTPSink) limiter(hook Hook) *rate.Limiter {
	if hook.RateLimitMs <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	lim, ok := s.limiters[hook.URL]
	if !ok {
		lim = rate.NewLimiter(rate.Every(time.Duration(hook.RateLimitMs)*time.Millisecond), 1)
		s.limiters[hook.URL] = lim
	}
	return lim
}
