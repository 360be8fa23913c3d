// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides the aicrm HTTP API.
//
// The server is a presentation layer like the dashboard: it drives the same
// session state machine through Exchange and Reset and renders snapshots as
// JSON. It never talks to the generative endpoint except through the
// session. A chat request whose caller disconnects still runs to completion
// so the shared conversation receives the reply.
//
// # Endpoints
//
//   - POST   /api/chat         - {"message": "..."}; 400 when blank, 409 while a reply is pending
//   - GET    /api/conversation - Snapshot of messages, state and error
//   - DELETE /api/conversation - Reset (409 while a reply is pending)
//   - GET    /api/dashboard    - Metric cards and chart series
//   - GET    /api/dashboard/metrics/{key} - One card; 404 for an unknown key
//   - PUT    /api/dashboard/metrics/{key} - {"value": N}; updates an existing card
//   - GET    /api/health       - Health check
//   - GET    /metrics          - Prometheus exposition
//
// # Key Types
//
//   - Server: chi router with logging, recovery, CORS and metrics middleware
//   - Group: Runs the server and the config watcher under one context
//
// # Usage
//
//	srv := server.New(server.Config{Addr: ":8787"}, sess, client, store,
//		server.WithLogger(log), server.WithMetrics(metrics, registry))
//	err := server.Group{srv, watcher}.Run(ctx)
package server
