// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session broadcasts the current countdown window to connected
clients over websockets.

# Hub

Hub holds the authoritative in-memory window and a subscriber set:

	hub := session.NewHub()
	hub.StartWindow(5 * time.Minute) // called by the period controller

StartWindow publishes to every subscriber with a non-blocking send; slow
subscribers are skipped rather than queued. The window is not persisted -
after a restart clients resync on reconnect or the next tick.

# WebSocket Endpoint

Hub.Handler serves GET /ws. Each client gets the current window the moment
it connects, then every subsequent change:

	{"start_time": 1735689600000, "end_time": 1735689900000}

Timestamps are unix milliseconds. Delivery is fire-and-forget; a failed
send drops that one connection and never fails the publishing caller.
*/
package session
