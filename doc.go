// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Soapbox API server.

Soapbox alternates a shared debate floor between a voting period (open
topic submission and voting) and a debate period (one winning topic
active, submissions locked). Connected clients hold a websocket and render
a countdown to the next period change.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=file:soapbox.db JWT_SECRET=... go run main.go

Or with flags:

	go run main.go -p 3002 -d "postgres://..." -t postgres -tick

# Configuration

Required settings:

  - DATABASE_URL (-d): Database connection string
  - JWT_SECRET (-jwt-secret): Secret for wallet session tokens

Optional settings:

  - PORT (-p): Server port (default: 3002)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - PERIOD_INTERVAL (-period): Period length (default: 5m)
  - RUN_TICKER (-tick): Run the built-in period ticker; otherwise an
    external scheduler must POST /cron on the same cadence

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (auth, topics, period)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response and domain types
  - auth: Wallet sign-in and session tokens
  - store: Topics, votes, and the period state singleton
  - period: The voting/debate state machine controller
  - session: Countdown window hub and websocket fan-out
  - db: Schema creation and driver selection
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
