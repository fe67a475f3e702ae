// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
//
// The statements stick to the dialect subset shared by PostgreSQL and
// SQLite so the same schema serves both drivers.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Topics
CREATE TABLE IF NOT EXISTS topic (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL UNIQUE,
    votes INTEGER NOT NULL DEFAULT 0,
    debated BOOLEAN NOT NULL DEFAULT FALSE,
    debated_at TIMESTAMP,
    created_by TEXT NOT NULL UNIQUE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_topic_votes ON topic(votes);
CREATE INDEX IF NOT EXISTS idx_topic_debated ON topic(debated);

-- Votes. The primary key on voter enforces at most one outstanding vote
-- per wallet across all topics; rows are deleted when a voting period
-- resets, which is what makes a wallet eligible to vote again.
CREATE TABLE IF NOT EXISTS topic_vote (
    voter TEXT PRIMARY KEY,
    topic_id TEXT NOT NULL REFERENCES topic(id) ON DELETE CASCADE,
    voted_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_topic_vote_topic ON topic_vote(topic_id);

-- Period state singleton. The CHECK keeps it a single row.
CREATE TABLE IF NOT EXISTS period_state (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    period TEXT NOT NULL CHECK (period IN ('voting', 'debate')),
    last_updated TIMESTAMP NOT NULL,
    next_change TIMESTAMP NOT NULL,
    active_topic_id TEXT
);
`
