// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the persistence layer for topics, votes, and the period
state singleton.

# Design

All race-sensitive business rules are pushed onto the database rather than
application-level locking:

  - unique index on topic.title: no duplicate titles
  - unique index on topic.created_by: one topic per wallet
  - primary key on topic_vote.voter: one outstanding vote per wallet
    across all topics

Read-then-check sequences inside transactions produce precise errors for
the common path; the constraints are the backstop when two writers race.
A vote is two statements in one transaction (vote row insert + counter
increment), which keeps votes == len(voted_by) at all times.

# Operations

Gateway-facing:

	CreateTopic(ctx, title, wallet, now)
	CastVote(ctx, topicID, wallet, now)
	TopTopics(ctx, viewer)
	GetTopic(ctx, topicID, viewer)
	CountTopics(ctx)
	PeriodState(ctx, now)

Controller-facing:

	DebateCandidate(ctx)
	BeginDebate(ctx, topicID, now, next)
	EndDebate(ctx, now, next)
	ExtendWindow(ctx, now, next)

# Errors

Business-rule failures are sentinel errors (ErrTitleTaken, ErrVoteSpent,
ErrNoCandidate, ...) that handlers map to HTTP statuses with errors.Is.
Infrastructure failures are wrapped with context and surface as 500s.

# Period Bootstrap

PeriodState lazily creates the singleton row in the voting period using
INSERT ... ON CONFLICT DO NOTHING, so concurrent first readers and
duplicate controller ticks are safe.
*/
package store
