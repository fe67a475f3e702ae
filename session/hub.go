// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"log/slog"
	"sync"
	"time"
)

// Window is the countdown interval shown to connected clients. It lives
// only in memory; after a restart clients resynchronize on reconnect or on
// the next period tick.
type Window struct {
	StartTime time.Time
	EndTime   time.Time
}

// IsZero reports whether no window has been started yet.
func (w Window) IsZero() bool {
	return w.StartTime.IsZero()
}

// Hub owns the current window and fans it out to subscribers. Publishing
// is best-effort and at-most-once: a subscriber that cannot keep up is
// skipped and resyncs on the next window change.
type Hub struct {
	mu     sync.Mutex
	window Window
	subs   map[chan Window]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[chan Window]struct{}),
	}
}

// StartWindow begins a new countdown window of the given duration and
// publishes it to every subscriber.
func (h *Hub) StartWindow(d time.Duration) Window {
	now := time.Now()
	w := Window{StartTime: now, EndTime: now.Add(d)}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.window = w
	for c := range h.subs {
		select {
		case c <- w:
		default:
			slog.Warn("skipping slow session subscriber")
		}
	}
	return w
}

// Window returns the current window snapshot.
func (h *Hub) Window() Window {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.window
}

// Subscribe registers a channel to receive window changes. The caller owns
// the channel and must Unsubscribe before abandoning it.
func (h *Hub) Subscribe(c chan Window) {
	h.mu.Lock()
	h.subs[c] = struct{}{}
	h.mu.Unlock()
}

// Unsubscribe removes a previously registered channel.
func (h *Hub) Unsubscribe(c chan Window) {
	h.mu.Lock()
	delete(h.subs, c)
	h.mu.Unlock()
}
