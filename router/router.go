// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/soapbox/cliparse"
	"github.com/danielhkuo/soapbox/handlers"
	"github.com/danielhkuo/soapbox/middleware"
	"github.com/danielhkuo/soapbox/period"
	"github.com/danielhkuo/soapbox/session"
	"github.com/danielhkuo/soapbox/store"
)

func NewRouter(s *store.Store, hub *session.Hub, controller *period.Controller, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg)
	topicHandler := handlers.NewTopicHandler(s, cfg)
	periodHandler := handlers.NewPeriodHandler(s, controller, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Wallet sign-in
	mux.HandleFunc("GET /auth/nonce", middleware.WithLogging(authHandler.Nonce))
	mux.HandleFunc("POST /auth/login", middleware.WithLogging(authHandler.Login))

	// Topics and voting
	mux.HandleFunc("GET /topics", middleware.WithLogging(topicHandler.List))
	mux.HandleFunc("POST /topics", middleware.WithLogging(topicHandler.Create))
	mux.HandleFunc("POST /topics/{id}/vote", middleware.WithLogging(topicHandler.Vote))

	// Period state machine
	mux.HandleFunc("GET /period", middleware.WithLogging(periodHandler.Get))
	mux.HandleFunc("POST /cron", middleware.WithLogging(periodHandler.Tick))

	// Countdown websocket
	mux.Handle("GET /ws", hub.Handler())

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("soapbox API v1"))
	})

	return mux
}
