// Hookbridge - Media Server Webhook Notification Dispatcher
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/hookbridge

// Package main is the entry point for the Hookbridge server application.
//
// Hookbridge turns Jellyfin/Emby-style media server event callbacks into
// user-configured webhook notifications. The media server (or its bridge
// plugin) posts playback and library events to the ingest API; Hookbridge
// classifies them (play, pause, stop, resume, item added), renders the
// matching hooks' templates, and fires the payloads at their destinations.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Load settings from environment variables and config files (Koanf v2)
//  2. Event Bus: In-process Watermill pub/sub between ingest and dispatch
//  3. Dispatch Pipeline: Device state tracking, hook matching, template
//     rendering, HTTP delivery
//  4. HTTP Server: Ingest API with health probes and Prometheus metrics
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables
//   - Config file (config.yaml)
//   - Built-in defaults
//
// Hooks are defined in the config file only; the file is watched and the
// hook list hot-reloads on change without dropping in-flight deliveries.
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete (10s timeout)
//   - Detaches the dispatcher and drains pending webhook deliveries
//
// # Example Usage
//
// Minimal run with a config file:
//
//	export CONFIG_PATH=/etc/hookbridge/config.yaml
//	./hookbridge
//
// With signed ingest and debug logging:
//
//	export INGEST_WEBHOOK_SECRET=$(openssl rand -hex 32)
//	export LOG_LEVEL=debug
//	./hookbridge
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/hookbridge/internal/api"
	"github.com/tomtom215/hookbridge/internal/bus"
	"github.com/tomtom215/hookbridge/internal/config"
	"github.com/tomtom215/hookbridge/internal/hooks"
	"github.com/tomtom215/hookbridge/internal/logging"
	"github.com/tomtom215/hookbridge/internal/models"
	"github.com/tomtom215/hookbridge/internal/sessions"
	"github.com/tomtom215/hookbridge/internal/supervisor"
	"github.com/tomtom215/hookbridge/internal/supervisor/services"
)

func main() {
	// Load configuration first to get logging settings
	configPath := config.FindConfigFile()
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", api.Version).
		Int("hooks", len(cfg.Hooks)).
		Str("config_file", configPath).
		Msg("Starting Hookbridge with supervisor tree")

	// Live configuration store; the hot-reload boundary for the hook list
	store := config.NewStore(cfg, configPath)
	if err := store.Watch(); err != nil {
		logging.Warn().Err(err).Msg("Config file watching unavailable, hooks will not hot-reload")
	}

	// In-process event bus between ingest handlers and the dispatcher
	eventBus := bus.New()
	defer func() {
		if err := eventBus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	// Dispatch pipeline
	sink := hooks.NewHTTPSink(cfg.Delivery.RequestTimeout)
	defer sink.Close()

	dispatcher := hooks.NewDispatcher(
		store,
		hooks.NewDeviceStateTracker(),
		hooks.NewRenderer(),
		sink,
		sessions.NewStore(),
		models.ServerInfo{ID: cfg.Media.ID, Name: cfg.Media.Name},
	)

	// Ingest API
	handler := api.NewHandler(store, eventBus)
	router := api.NewRouter(handler, api.NewChiMiddleware(&api.ChiMiddlewareConfig{
		RateLimitRequests: cfg.Ingest.RateLimitReqs,
		RateLimitWindow:   cfg.Ingest.RateLimitWindow,
	}))

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create structured logger for supervisor using our slog adapter
	// This bridges zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	// Create supervisor tree
	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddPipelineService(services.NewDispatchService(dispatcher, eventBus))
	tree.AddAPIService(services.NewHTTPServerService(httpServer, 10*time.Second))

	// Run the tree in the background and wait for a shutdown signal
	errCh := tree.ServeBackground(ctx)

	logging.Info().
		Str("addr", httpServer.Addr).
		Msg("Hookbridge is ready")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel()
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree exited with error")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Fatal().Err(err).Msg("Supervisor tree failed")
		}
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", fmt.Sprintf("%v", svc.Service)).Msg("Service did not stop within timeout")
		}
	}

	logging.Info().Msg("Hookbridge stopped")
}
