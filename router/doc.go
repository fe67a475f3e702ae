// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router wires URL patterns to handlers.

# Routes

Uses Go 1.22+ method-aware routing:

	GET  /health            Liveness check
	GET  /auth/nonce        Nonce + message to sign
	POST /auth/login        Wallet sign-in, returns bearer token
	GET  /topics            Top topics with period info
	POST /topics            Create a topic (auth, voting period)
	POST /topics/{id}/vote  Cast a vote (auth)
	GET  /period            Period state singleton
	POST /cron              External trigger for the period tick
	GET  /ws                Countdown window websocket
	GET  /                  API banner

# Construction

	mux := router.NewRouter(store, hub, controller, cfg)

All JSON routes are wrapped in middleware.WithLogging. The websocket route
is mounted directly from the session hub.
*/
package router
