// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3002)
  - DatabaseURL: Database connection string (required)
  - DatabaseType: "sqlite" or "postgres" (default: sqlite)
  - JWTSecret: Secret for signing wallet session tokens (required)
  - PeriodInterval: Voting/debate period length (default: 5m)
  - RunTicker: Run the built-in period ticker

# CLI Flags

	-p          Server port
	-d          Database URL
	-t          Database type
	-period     Period length (Go duration, e.g. 5m)
	-tick       Enable the built-in ticker
	-jwt-secret JWT signing secret

# Environment Variables

Flags fall back to environment variables:

	PORT            → -p
	DATABASE_URL    → -d
	DATABASE_TYPE   → -t
	PERIOD_INTERVAL → -period
	RUN_TICKER      → -tick
	JWT_SECRET      → -jwt-secret

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if required values are missing or malformed:

  - DATABASE_URL must be provided
  - DATABASE_TYPE must be sqlite or postgres
  - JWT_SECRET must be provided
  - PERIOD_INTERVAL must be at least 1s

# Example

	// In main.go
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	// ...
	mux := router.NewRouter(conn, cfg)
*/
package cliparse
