// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Soapbox API.

# Handler Types

Each handler is a struct with store and config dependencies:

  - AuthHandler: Wallet sign-in (nonce, login)
  - TopicHandler: Topic listing, creation, and voting
  - PeriodHandler: Period state and the cron tick endpoint

Handlers are created via constructor functions:

	topicHandler := handlers.NewTopicHandler(store, cfg)

# Sign-In Flow

Wallets authenticate by signing a nonce message:

	GET  /auth/nonce  → Nonce (nonce + message to sign)
	POST /auth/login  → Login (returns bearer token)

Authenticated operations require the Authorization: Bearer header.

# Voting Flow

During the voting period wallets submit and vote on topics:

	GET  /topics            → List (top 15 by votes, has_voted per topic)
	POST /topics            → Create (one topic per wallet, voting period only)
	POST /topics/{id}/vote  → Vote (one outstanding vote per wallet)

Votes are accepted in either period; creation is gated to voting.

# Period Flow

The state machine advances on the cron cadence:

	GET  /period → Get (singleton state for initial render)
	POST /cron   → Tick (advance; reports the outcome distinctly)

Tick outcomes: debate_started, no_candidates, voting_started, skipped.

# Error Mapping

Store sentinel errors map to statuses with errors.Is: ErrTitleTaken → 409,
ErrTopicNotFound → 404, period/quota/duplicate-vote rules → 403, missing
or invalid tokens → 401, store failures → 500 with the detail logged only.
*/
package handlers
