// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateTopicRequest: title
  - LoginRequest: wallet_address, signature, message

# Response Types

Types for JSON responses:

  - NonceResponse: nonce, message
  - LoginResponse: token, wallet_address
  - TopicListResponse: topics, current_period, active_topic_id
  - TopicResponse: topic
  - VoteResponse: topic, has_voted
  - TickResponse: outcome, message, active_topic_id
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Topic: a debate topic with its tally and voter audit trail
  - PeriodState: the singleton period row (voting or debate)

# Constants

Period values:

	PeriodVoting = "voting"
	PeriodDebate = "debate"

Limits:

	MaxTopics      = 15
	MaxTitleLength = 200
*/
package models
