// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Period constants
const (
	PeriodVoting = "voting"
	PeriodDebate = "debate"
)

// MaxTopics is the hard cap on concurrently existing topics. Listings are
// truncated to the same number.
const MaxTopics = 15

// MaxTitleLength bounds topic titles, matching the frontend input limit.
const MaxTitleLength = 200

// Request types

type CreateTopicRequest struct {
	Title string `json:"title"`
}

type LoginRequest struct {
	WalletAddress string `json:"wallet_address"`
	Signature     string `json:"signature"`
	Message       string `json:"message"`
}

// Response types

type NonceResponse struct {
	Nonce   string `json:"nonce"`
	Message string `json:"message"`
}

type LoginResponse struct {
	Token         string `json:"token"`
	WalletAddress string `json:"wallet_address"`
}

type TopicListResponse struct {
	Topics        []Topic `json:"topics"`
	CurrentPeriod string  `json:"current_period"`
	ActiveTopicID *string `json:"active_topic_id,omitempty"`
}

type TopicResponse struct {
	Topic Topic `json:"topic"`
}

type VoteResponse struct {
	Topic    Topic `json:"topic"`
	HasVoted bool  `json:"has_voted"`
}

type TickResponse struct {
	Outcome       string  `json:"outcome"`
	Message       string  `json:"message"`
	ActiveTopicID *string `json:"active_topic_id,omitempty"`
}

// Domain types

type Topic struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Votes     int        `json:"votes"`
	VotedBy   []string   `json:"voted_by"`
	Debated   bool       `json:"debated"`
	DebatedAt *time.Time `json:"debated_at,omitempty"`
	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	HasVoted  bool       `json:"has_voted"`
}

type PeriodState struct {
	Period        string    `json:"period"`
	LastUpdated   time.Time `json:"last_updated"`
	NextChange    time.Time `json:"next_change"`
	ActiveTopicID *string   `json:"active_topic_id,omitempty"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
