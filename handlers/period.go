// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/soapbox/cliparse"
	"github.com/danielhkuo/soapbox/middleware"
	"github.com/danielhkuo/soapbox/models"
	"github.com/danielhkuo/soapbox/period"
	"github.com/danielhkuo/soapbox/store"
)

type PeriodHandler struct {
	store      *store.Store
	controller *period.Controller
	cfg        cliparse.Config
}

func NewPeriodHandler(s *store.Store, c *period.Controller, cfg cliparse.Config) *PeriodHandler {
	return &PeriodHandler{store: s, controller: c, cfg: cfg}
}

// Get handles GET /period
// Returns the period singleton for the initial page render; live countdown
// updates arrive over the websocket.
func (h *PeriodHandler) Get(w http.ResponseWriter, r *http.Request) {
	state, err := h.store.PeriodState(r.Context(), time.Now())
	if err != nil {
		slog.Error("failed to load period state", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to fetch period")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, state)
}

// Tick handles POST /cron
// The external scheduler's entry point. Duplicate and overlapping
// invocations are tolerated; the outcome says what actually happened.
func (h *PeriodHandler) Tick(w http.ResponseWriter, r *http.Request) {
	result, err := h.controller.Tick(r.Context())
	if err != nil {
		slog.Error("period tick failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to advance period")
		return
	}

	resp := models.TickResponse{Outcome: string(result.Outcome)}
	switch result.Outcome {
	case period.OutcomeDebateStarted:
		resp.Message = "Debate period started"
		resp.ActiveTopicID = &result.Topic.ID
	case period.OutcomeNoCandidates:
		resp.Message = "No topics to debate; voting period continues"
	case period.OutcomeVotingStarted:
		resp.Message = "Voting period started"
	case period.OutcomeSkipped:
		resp.Message = "A tick is already in progress"
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}
