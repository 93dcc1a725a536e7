// Hookbridge - Media Server Webhook Notification Dispatcher
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hookbridge

// Package bus provides the in-process event bus between the ingest API and
// the dispatcher, built on Watermill's gochannel pub/sub. Ingest handlers
// publish accepted signals and return immediately; the dispatcher consumes
// them on its own goroutines, so a slow webhook endpoint can never stall
// the media server's event callbacks.
package bus

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/hookbridge/internal/models"
)

// Topics carried on the bus.
const (
	TopicPlayback = "events.playback"
	TopicLibrary  = "events.library"
)

// Bus wraps a gochannel pub/sub with typed publish helpers.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// New creates an in-process bus. Output buffering keeps ingest handlers
// from blocking on a briefly busy dispatcher.
func New() *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			newLoggerAdapter(),
		),
	}
}

// PublishPlayback publishes a playback signal to the dispatcher.
func (b *Bus) PublishPlayback(sig *models.PlaybackSignal) error {
	return b.publish(TopicPlayback, sig)
}

// PublishLibrary publishes an item-added signal to the dispatcher.
func (b *Bus) PublishLibrary(sig *models.ItemAddedSignal) error {
	return b.publish(TopicLibrary, sig)
}

func (b *Bus) publish(topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}
	msg := message.NewMessage(uuid.New().String(), data)
	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}
	return nil
}

// Subscribe returns the message stream for a topic. The stream closes when
// the context is canceled or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, topic)
}

// Close shuts the bus down, closing all subscriber channels.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
