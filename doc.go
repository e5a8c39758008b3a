// Copyright (c) 2025 the QuickPoll authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the QuickPoll API server.

QuickPoll is a lightweight polling service: a creator publishes a
short multiple-choice poll, anonymous voters cast one vote each, and
live results stream to connected viewers over server-sent events.

# Starting the Server

The server is configured through environment variables or CLI flags:

	DATABASE_URL=postgres://... DATABASE_TYPE=postgres go run main.go

Or with flags:

	go run main.go -p 8080 -d quickpoll.db

# Configuration

Settings:

  - DATABASE_URL (-d): connection string or sqlite file path (required)
  - DATABASE_TYPE (-t): sqlite (default) or postgres
  - PORT (-p): server port (default: 8080)
  - BASE_URL (-base-url): public API URL used in share links
  - FRONTEND_URL (-frontend-url): frontend URL used in redirects

# Architecture

The server uses a handler-based architecture with dependency injection:

  - ledger: atomic vote recording and per-option tallies
  - ratelimit: fixed-window per-device abuse limiter
  - insight: leader/closeness summary from tallies
  - hub: per-poll fan-out to live subscribers (public and creator)
  - handlers: HTTP request handlers (polls, voting, streams, sharing)
  - router: route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: request/response/domain types
  - auth: secret keys, voter tokens, device fingerprints
  - db: schema creation
  - cliparse: configuration parsing

See package documentation for each component.
*/
package main
