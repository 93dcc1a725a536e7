// Hookbridge - Media Server Webhook Notification Dispatcher
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hookbridge

package services

import (
	"context"
	"fmt"

	"github.com/tomtom215/hookbridge/internal/hooks"
)

// DispatchService runs the event dispatcher as a supervised service.
//
// The dispatcher attaches to the event bus on Serve and detaches on
// context cancellation. If the subscription fails, the error propagates
// to the supervisor, which restarts the service with backoff.
type DispatchService struct {
	dispatcher *hooks.Dispatcher
	source     hooks.EventSource
	name       string
}

// NewDispatchService wraps a dispatcher and its event source.
func NewDispatchService(dispatcher *hooks.Dispatcher, source hooks.EventSource) *DispatchService {
	return &DispatchService{
		dispatcher: dispatcher,
		source:     source,
		name:       "dispatcher",
	}
}

// Serve implements suture.Service. It blocks until the context is canceled,
// then stops the dispatcher and waits for its consumers to drain.
func (s *DispatchService) Serve(ctx context.Context) error {
	if err := s.dispatcher.Start(ctx, s.source); err != nil {
		return fmt.Errorf("dispatcher start failed: %w", err)
	}

	<-ctx.Done()
	s.dispatcher.Stop()
	return ctx.Err()
}

// String implements fmt.Stringer for logging.
func (s *DispatchService) String() string {
	return s.name
}
