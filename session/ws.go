// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/net/websocket"
)

// windowFrame is the wire shape pushed to clients; timestamps are unix
// milliseconds so the frontend can feed them straight into Date math.
type windowFrame struct {
	StartTime int64 `json:"start_time"`
	EndTime   int64 `json:"end_time"`
}

func frame(w Window) windowFrame {
	return windowFrame{
		StartTime: w.StartTime.UnixMilli(),
		EndTime:   w.EndTime.UnixMilli(),
	}
}

// Handler returns the GET /ws endpoint. Each client receives the current
// window immediately on connect (late joiners don't wait for the next
// tick) and then every window change until it disconnects. Send failures
// drop the connection without affecting other clients.
func (h *Hub) Handler() http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		defer conn.Close()

		updates := make(chan Window, 4)
		h.Subscribe(updates)
		defer h.Unsubscribe(updates)

		slog.Info("session client connected", "remote", conn.Request().RemoteAddr)

		if current := h.Window(); !current.IsZero() {
			if err := websocket.JSON.Send(conn, frame(current)); err != nil {
				return
			}
		}

		// Consume (and discard) client frames so we notice the close.
		done := make(chan struct{})
		go func() {
			defer close(done)
			io.Copy(io.Discard, conn)
		}()

		for {
			select {
			case w := <-updates:
				if err := websocket.JSON.Send(conn, frame(w)); err != nil {
					slog.Info("session client dropped", "remote", conn.Request().RemoteAddr)
					return
				}
			case <-done:
				slog.Info("session client disconnected", "remote", conn.Request().RemoteAddr)
				return
			}
		}
	})
}
