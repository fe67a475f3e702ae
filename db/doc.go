// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

The schema includes:

  - topic: Debate topics with tallies and the debated flag
  - topic_vote: One row per outstanding vote (voter is the primary key)
  - period_state: Single-row period state machine record

# Relationships

	topic 1──* topic_vote
	period_state *──1 topic (active_topic_id, debate period only)

topic_vote uses ON DELETE CASCADE.

# Constraints

Business rules enforced at the store level:

  - topic.title (unique): no duplicate topic titles
  - topic.created_by (unique): one topic per wallet
  - topic_vote.voter (primary key): one outstanding vote per wallet
  - period_state.id CHECK (id = 1): at most one period row

# Dialects

The statements use only the subset shared by PostgreSQL (lib/pq) and
SQLite (modernc.org/sqlite), selected at startup by DATABASE_TYPE.
*/
package db
