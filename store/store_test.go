// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/soapbox/db"
	"github.com/danielhkuo/soapbox/models"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	conn, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return New(conn)
}

func TestCreateTopic(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	topic, err := s.CreateTopic(ctx, "Best programming language", "wallet1", time.Now())
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}
	if topic.ID == "" {
		t.Error("Expected generated topic ID")
	}
	if topic.Votes != 0 {
		t.Errorf("Expected 0 votes, got %d", topic.Votes)
	}
	if len(topic.VotedBy) != 0 {
		t.Errorf("Expected empty voter set, got %v", topic.VotedBy)
	}
	if topic.Debated {
		t.Error("New topic must not be marked debated")
	}

	// Duplicate title
	if _, err := s.CreateTopic(ctx, "Best programming language", "wallet2", time.Now()); !errors.Is(err, ErrTitleTaken) {
		t.Errorf("Expected ErrTitleTaken, got %v", err)
	}

	// Same creator, different title
	if _, err := s.CreateTopic(ctx, "Another topic", "wallet1", time.Now()); !errors.Is(err, ErrCreatorHasTopic) {
		t.Errorf("Expected ErrCreatorHasTopic, got %v", err)
	}
}

func TestCreateTopic_DebatePeriod(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	topic, err := s.CreateTopic(ctx, "Seed topic", "wallet1", time.Now())
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}
	now := time.Now()
	if err := s.BeginDebate(ctx, topic.ID, now, now.Add(5*time.Minute)); err != nil {
		t.Fatalf("BeginDebate failed: %v", err)
	}

	if _, err := s.CreateTopic(ctx, "Too late", "wallet2", time.Now()); !errors.Is(err, ErrDebatePeriod) {
		t.Errorf("Expected ErrDebatePeriod, got %v", err)
	}
}

func TestCreateTopic_Cap(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	for i := 0; i < models.MaxTopics; i++ {
		wallet := "wallet" + string(rune('A'+i))
		if _, err := s.CreateTopic(ctx, "Topic "+wallet, wallet, time.Now()); err != nil {
			t.Fatalf("CreateTopic %d failed: %v", i, err)
		}
	}

	_, err := s.CreateTopic(ctx, "One too many", "walletZ", time.Now())
	if !errors.Is(err, ErrTopicLimitReached) {
		t.Errorf("Expected ErrTopicLimitReached for 16th topic, got %v", err)
	}

	count, err := s.CountTopics(ctx)
	if err != nil {
		t.Fatalf("CountTopics failed: %v", err)
	}
	if count != models.MaxTopics {
		t.Errorf("Expected %d topics after the rejected create, got %d", models.MaxTopics, count)
	}
}

// The cap has no unique constraint behind it; racing creators are
// serialized on the period_state row inside the create transaction, so
// the count-then-insert can never admit a 16th topic.
func TestCreateTopic_ConcurrentCap(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	numCreators := models.MaxTopics + 5
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numCreators; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			title := fmt.Sprintf("Racing topic %02d", idx)
			creator := fmt.Sprintf("wallet%02d", idx)
			if _, err := s.CreateTopic(ctx, title, creator, time.Now()); err == nil {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	count, err := s.CountTopics(ctx)
	if err != nil {
		t.Fatalf("CountTopics failed: %v", err)
	}
	if count > models.MaxTopics {
		t.Errorf("Topic cap breached: %d topics", count)
	}
	if int(successCount.Load()) != count {
		t.Errorf("Success count (%d) and stored topics (%d) disagree", successCount.Load(), count)
	}
}

func TestCastVote(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	a, err := s.CreateTopic(ctx, "Topic A", "creatorA", time.Now())
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}
	b, err := s.CreateTopic(ctx, "Topic B", "creatorB", time.Now())
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}

	voted, err := s.CastVote(ctx, a.ID, "voterX", time.Now())
	if err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	if voted.Votes != 1 {
		t.Errorf("Expected 1 vote, got %d", voted.Votes)
	}
	if len(voted.VotedBy) != 1 || voted.VotedBy[0] != "voterX" {
		t.Errorf("Expected voter set [voterX], got %v", voted.VotedBy)
	}
	if !voted.HasVoted {
		t.Error("Expected HasVoted for the voter")
	}

	// Same topic again
	if _, err := s.CastVote(ctx, a.ID, "voterX", time.Now()); !errors.Is(err, ErrAlreadyVoted) {
		t.Errorf("Expected ErrAlreadyVoted, got %v", err)
	}

	// Different topic, same session
	if _, err := s.CastVote(ctx, b.ID, "voterX", time.Now()); !errors.Is(err, ErrVoteSpent) {
		t.Errorf("Expected ErrVoteSpent, got %v", err)
	}

	// Unknown topic
	if _, err := s.CastVote(ctx, "nope", "voterY", time.Now()); !errors.Is(err, ErrTopicNotFound) {
		t.Errorf("Expected ErrTopicNotFound, got %v", err)
	}
}

// The tally and the voter set must never drift apart.
func TestVoteTallyMatchesVoterSet(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	topic, err := s.CreateTopic(ctx, "Tally check", "creator", time.Now())
	if err != nil {
		t.Fatalf("CreateTopic failed: %v", err)
	}

	voters := []string{"v1", "v2", "v3", "v4"}
	for _, v := range voters {
		if _, err := s.CastVote(ctx, topic.ID, v, time.Now()); err != nil {
			t.Fatalf("CastVote(%s) failed: %v", v, err)
		}
	}

	got, err := s.GetTopic(ctx, topic.ID, "")
	if err != nil {
		t.Fatalf("GetTopic failed: %v", err)
	}
	if got.Votes != len(got.VotedBy) {
		t.Errorf("votes (%d) != len(voted_by) (%d)", got.Votes, len(got.VotedBy))
	}
	if got.Votes != len(voters) {
		t.Errorf("Expected %d votes, got %d", len(voters), got.Votes)
	}
}

func TestTopTopicsOrdering(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	low, _ := s.CreateTopic(ctx, "Low", "c1", time.Now())
	high, _ := s.CreateTopic(ctx, "High", "c2", time.Now())
	mid, _ := s.CreateTopic(ctx, "Mid", "c3", time.Now())

	if _, err := s.CastVote(ctx, low.ID, "a1", time.Now()); err != nil {
		t.Fatal(err)
	}
	for _, v := range []string{"b1", "b2", "b3"} {
		if _, err := s.CastVote(ctx, high.ID, v, time.Now()); err != nil {
			t.Fatal(err)
		}
	}
	for _, v := range []string{"c1v", "c2v"} {
		if _, err := s.CastVote(ctx, mid.ID, v, time.Now()); err != nil {
			t.Fatal(err)
		}
	}

	topics, err := s.TopTopics(ctx, "b2")
	if err != nil {
		t.Fatalf("TopTopics failed: %v", err)
	}
	if len(topics) != 3 {
		t.Fatalf("Expected 3 topics, got %d", len(topics))
	}
	if topics[0].ID != high.ID || topics[1].ID != mid.ID || topics[2].ID != low.ID {
		t.Errorf("Wrong order: %s, %s, %s", topics[0].Title, topics[1].Title, topics[2].Title)
	}
	if !topics[0].HasVoted {
		t.Error("Expected has_voted for viewer b2 on the top topic")
	}
	if topics[1].HasVoted || topics[2].HasVoted {
		t.Error("Viewer b2 must not appear voted on other topics")
	}
}

func TestDebateCandidate_TieBreak(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	// Created first, so it wins the tie on created_at
	first, _ := s.CreateTopic(ctx, "First", "c1", time.Now())
	time.Sleep(2 * time.Millisecond)
	second, _ := s.CreateTopic(ctx, "Second", "c2", time.Now())

	if _, err := s.CastVote(ctx, first.ID, "v1", time.Now()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CastVote(ctx, second.ID, "v2", time.Now()); err != nil {
		t.Fatal(err)
	}

	candidate, err := s.DebateCandidate(ctx)
	if err != nil {
		t.Fatalf("DebateCandidate failed: %v", err)
	}
	if candidate.ID != first.ID {
		t.Errorf("Expected earliest-created topic to win the tie, got %q", candidate.Title)
	}
}

func TestPeriodState_LazyBootstrap(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	state, err := s.PeriodState(ctx, time.Now())
	if err != nil {
		t.Fatalf("PeriodState failed: %v", err)
	}
	if state.Period != models.PeriodVoting {
		t.Errorf("Expected voting period on bootstrap, got %q", state.Period)
	}
	if state.ActiveTopicID != nil {
		t.Error("Expected no active topic on bootstrap")
	}

	// Idempotent: a second read must not reinsert or change the row
	again, err := s.PeriodState(ctx, time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("PeriodState failed: %v", err)
	}
	if !again.LastUpdated.Equal(state.LastUpdated) {
		t.Error("Bootstrap must be idempotent")
	}
}

func TestBeginAndEndDebate(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	winner, _ := s.CreateTopic(ctx, "Winner", "c1", time.Now())
	loser, _ := s.CreateTopic(ctx, "Loser", "c2", time.Now())
	for _, v := range []string{"v1", "v2"} {
		if _, err := s.CastVote(ctx, winner.ID, v, time.Now()); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.CastVote(ctx, loser.ID, "v3", time.Now()); err != nil {
		t.Fatal(err)
	}

	now := time.Now()
	if err := s.BeginDebate(ctx, winner.ID, now, now.Add(5*time.Minute)); err != nil {
		t.Fatalf("BeginDebate failed: %v", err)
	}

	state, err := s.PeriodState(ctx, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if state.Period != models.PeriodDebate {
		t.Errorf("Expected debate period, got %q", state.Period)
	}
	if state.ActiveTopicID == nil || *state.ActiveTopicID != winner.ID {
		t.Error("Expected the winner as active topic")
	}

	got, _ := s.GetTopic(ctx, winner.ID, "")
	if !got.Debated || got.DebatedAt == nil {
		t.Error("Winner must be marked debated with a timestamp")
	}

	// End the debate: the undebated loser resets, the winner keeps its tally
	if err := s.EndDebate(ctx, now.Add(5*time.Minute), now.Add(10*time.Minute)); err != nil {
		t.Fatalf("EndDebate failed: %v", err)
	}

	state, _ = s.PeriodState(ctx, time.Now())
	if state.Period != models.PeriodVoting {
		t.Errorf("Expected voting period, got %q", state.Period)
	}
	if state.ActiveTopicID != nil {
		t.Error("Active topic must be cleared in the voting period")
	}

	gotLoser, _ := s.GetTopic(ctx, loser.ID, "")
	if gotLoser.Votes != 0 || len(gotLoser.VotedBy) != 0 {
		t.Errorf("Undebated topic must reset, got %d votes, %v", gotLoser.Votes, gotLoser.VotedBy)
	}

	gotWinner, _ := s.GetTopic(ctx, winner.ID, "")
	if gotWinner.Votes != 2 || len(gotWinner.VotedBy) != 2 {
		t.Errorf("Debated topic must keep its tally, got %d votes", gotWinner.Votes)
	}

	// The reset frees the loser's voter for a new vote this period
	if _, err := s.CastVote(ctx, loser.ID, "v3", time.Now()); err != nil {
		t.Errorf("Voter must be eligible again after reset: %v", err)
	}
}

func TestDebateCandidate_SkipsDebated(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	only, _ := s.CreateTopic(ctx, "Only one", "c1", time.Now())
	now := time.Now()
	if err := s.BeginDebate(ctx, only.ID, now, now.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}

	if _, err := s.DebateCandidate(ctx); !errors.Is(err, ErrNoCandidate) {
		t.Errorf("Debated topics must never be candidates again, got %v", err)
	}
}
