// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package period

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/soapbox/models"
	"github.com/danielhkuo/soapbox/session"
	"github.com/danielhkuo/soapbox/store"
)

// Outcome reports what a tick did.
type Outcome string

const (
	// OutcomeDebateStarted: the top-voted topic was selected and the
	// debate period began.
	OutcomeDebateStarted Outcome = "debate_started"
	// OutcomeNoCandidates: every topic has already been debated (or none
	// exist); the voting period continues.
	OutcomeNoCandidates Outcome = "no_candidates"
	// OutcomeVotingStarted: the debate ended and the voting period
	// reopened with undebated tallies reset.
	OutcomeVotingStarted Outcome = "voting_started"
	// OutcomeSkipped: another tick was still running.
	OutcomeSkipped Outcome = "skipped"
)

// Result is the tick outcome, with the selected topic when a debate
// started.
type Result struct {
	Outcome Outcome
	Topic   *models.Topic
}

// Controller advances the voting/debate state machine. Ticks come from the
// built-in ticker (Run) or from the external cron endpoint; either way a
// tick never runs concurrently with itself.
type Controller struct {
	store    *store.Store
	hub      *session.Hub
	interval time.Duration

	mu sync.Mutex
}

func New(s *store.Store, hub *session.Hub, interval time.Duration) *Controller {
	return &Controller{store: s, hub: hub, interval: interval}
}

// Interval returns the configured period length.
func (c *Controller) Interval() time.Duration {
	return c.interval
}

// Tick evaluates one transition of the state machine. Duplicate or
// overlapping invocations are safe: overlaps are skipped, and re-running
// after a partial failure converges because debated topics are never
// candidates again.
func (c *Controller) Tick(ctx context.Context) (Result, error) {
	if !c.mu.TryLock() {
		slog.Warn("period tick skipped; previous tick still running")
		return Result{Outcome: OutcomeSkipped}, nil
	}
	defer c.mu.Unlock()

	now := time.Now()
	next := now.Add(c.interval)

	state, err := c.store.PeriodState(ctx, now)
	if err != nil {
		return Result{}, err
	}

	switch state.Period {
	case models.PeriodDebate:
		if err := c.store.EndDebate(ctx, now, next); err != nil {
			return Result{}, err
		}
		c.hub.StartWindow(c.interval)
		slog.Info("voting period started",
			"next_change", humanize.Time(next),
		)
		return Result{Outcome: OutcomeVotingStarted}, nil

	default: // voting
		topic, err := c.store.DebateCandidate(ctx)
		if errors.Is(err, store.ErrNoCandidate) {
			if err := c.store.ExtendWindow(ctx, now, next); err != nil {
				return Result{}, err
			}
			c.hub.StartWindow(c.interval)
			slog.Info("no topics to debate; staying in voting period",
				"next_change", humanize.Time(next),
			)
			return Result{Outcome: OutcomeNoCandidates}, nil
		}
		if err != nil {
			return Result{}, err
		}

		if err := c.store.BeginDebate(ctx, topic.ID, now, next); err != nil {
			return Result{}, err
		}
		c.hub.StartWindow(c.interval)
		slog.Info("debate period started",
			"topic_id", topic.ID,
			"title", topic.Title,
			"votes", topic.Votes,
			"next_change", humanize.Time(next),
		)
		return Result{Outcome: OutcomeDebateStarted, Topic: &topic}, nil
	}
}

// Run ticks on the configured interval until ctx is cancelled. Tick
// failures are logged and retried on the next scheduled tick.
func (c *Controller) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	slog.Info("period ticker started", "interval", c.interval.String())
	for {
		select {
		case <-ctx.Done():
			slog.Info("period ticker stopped")
			return
		case <-ticker.C:
			if _, err := c.Tick(ctx); err != nil {
				slog.Error("period tick failed", "error", err)
			}
		}
	}
}
