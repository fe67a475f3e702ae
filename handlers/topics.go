// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/soapbox/auth"
	"github.com/danielhkuo/soapbox/cliparse"
	"github.com/danielhkuo/soapbox/middleware"
	"github.com/danielhkuo/soapbox/models"
	"github.com/danielhkuo/soapbox/store"
)

type TopicHandler struct {
	store *store.Store
	cfg   cliparse.Config
}

func NewTopicHandler(s *store.Store, cfg cliparse.Config) *TopicHandler {
	return &TopicHandler{store: s, cfg: cfg}
}

// List handles GET /topics
// Returns the top topics by votes along with the current period. Works
// without authentication; a valid bearer token adds per-topic has_voted.
func (h *TopicHandler) List(w http.ResponseWriter, r *http.Request) {
	// An absent or invalid token just means an anonymous viewer here.
	wallet, err := auth.WalletFromRequest(r, h.cfg.JWTSecret)
	if err != nil {
		wallet = ""
	}

	topics, err := h.store.TopTopics(r.Context(), wallet)
	if err != nil {
		slog.Error("failed to list topics", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch topics")
		return
	}

	state, err := h.store.PeriodState(r.Context(), time.Now())
	if err != nil {
		slog.Error("failed to load period state", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch topics")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.TopicListResponse{
		Topics:        topics,
		CurrentPeriod: state.Period,
		ActiveTopicID: state.ActiveTopicID,
	})
}

// Create handles POST /topics
func (h *TopicHandler) Create(w http.ResponseWriter, r *http.Request) {
	wallet, err := auth.WalletFromRequest(r, h.cfg.JWTSecret)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req models.CreateTopicRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if len(title) > models.MaxTitleLength {
		middleware.ErrorResponse(w, http.StatusBadRequest,
			fmt.Sprintf("title cannot be more than %d characters", models.MaxTitleLength))
		return
	}

	topic, err := h.store.CreateTopic(r.Context(), title, wallet, time.Now())
	switch {
	case err == nil:
	case errors.Is(err, store.ErrTitleTaken):
		middleware.ErrorResponse(w, http.StatusConflict, "A topic with this title already exists")
		return
	case errors.Is(err, store.ErrDebatePeriod):
		middleware.ErrorResponse(w, http.StatusForbidden, "Topics cannot be created during the debate period")
		return
	case errors.Is(err, store.ErrCreatorHasTopic):
		middleware.ErrorResponse(w, http.StatusForbidden, "You can only create one topic")
		return
	case errors.Is(err, store.ErrTopicLimitReached):
		middleware.ErrorResponse(w, http.StatusForbidden,
			fmt.Sprintf("Maximum number of topics (%d) has been reached", models.MaxTopics))
		return
	default:
		slog.Error("failed to create topic", "error", err, "wallet", wallet)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create topic")
		return
	}

	slog.Info("topic created", "topic_id", topic.ID, "title", topic.Title, "wallet", wallet)

	middleware.JSONResponse(w, http.StatusCreated, models.TopicResponse{Topic: topic})
}

// Vote handles POST /topics/{id}/vote
func (h *TopicHandler) Vote(w http.ResponseWriter, r *http.Request) {
	wallet, err := auth.WalletFromRequest(r, h.cfg.JWTSecret)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	topicID := r.PathValue("id")
	if topicID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "topic id is required")
		return
	}

	topic, err := h.store.CastVote(r.Context(), topicID, wallet, time.Now())
	switch {
	case err == nil:
	case errors.Is(err, store.ErrTopicNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Topic not found")
		return
	case errors.Is(err, store.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusForbidden, "You have already voted on this topic")
		return
	case errors.Is(err, store.ErrVoteSpent):
		middleware.ErrorResponse(w, http.StatusForbidden, "You can only vote on one topic per session")
		return
	default:
		slog.Error("failed to cast vote", "error", err, "topic_id", topicID, "wallet", wallet)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to vote on topic")
		return
	}

	slog.Info("vote cast", "topic_id", topic.ID, "votes", topic.Votes, "wallet", wallet)

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		Topic:    topic,
		HasVoted: true,
	})
}
