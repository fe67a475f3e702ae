// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/soapbox/cliparse"
	"github.com/danielhkuo/soapbox/db"
	"github.com/danielhkuo/soapbox/middleware"
	"github.com/danielhkuo/soapbox/period"
	"github.com/danielhkuo/soapbox/router"
	"github.com/danielhkuo/soapbox/session"
	"github.com/danielhkuo/soapbox/store"
)

func main() {
	var err error

	// Load .env for local development; absence is fine
	_ = godotenv.Load()

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the database
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Verify connection
	if err := dbConn.Ping(); err != nil {
		slog.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready")

	// Wire the core
	st := store.New(dbConn)
	hub := session.NewHub()
	controller := period.New(st, hub, cfg.PeriodInterval)

	// Give connected clients a countdown before the first tick
	hub.StartWindow(controller.Interval())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.RunTicker {
		go controller.Run(ctx)
	} else {
		slog.Info("built-in ticker disabled; expecting POST /cron", "interval", cfg.PeriodInterval.String())
	}

	// Create router
	mux := router.NewRouter(st, hub, controller, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		cancel()
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
