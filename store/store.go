// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/danielhkuo/soapbox/models"
)

var (
	ErrTopicNotFound     = errors.New("topic not found")
	ErrTitleTaken        = errors.New("a topic with this title already exists")
	ErrDebatePeriod      = errors.New("topics cannot be created during the debate period")
	ErrCreatorHasTopic   = errors.New("wallet has already created a topic")
	ErrTopicLimitReached = errors.New("maximum number of topics reached")
	ErrAlreadyVoted      = errors.New("already voted on this topic")
	ErrVoteSpent         = errors.New("one vote per session")
	ErrNoCandidate       = errors.New("no topics eligible for debate")
)

// Store is the persistence layer for topics, votes, and the period state
// singleton. Race-sensitive invariants (unique titles, one topic per
// creator, one outstanding vote per wallet) are enforced by the schema's
// unique constraints; the read-then-check sequences below exist to turn
// constraint violations into precise errors before the insert races them.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// dbtx is satisfied by both *sql.DB and *sql.Tx.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// CreateTopic inserts a new topic after checking, in order: duplicate
// title, current period, one-topic-per-creator, and the topic cap. The
// checks and the insert share one transaction.
func (s *Store) CreateTopic(ctx context.Context, title, createdBy string, now time.Time) (models.Topic, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Topic{}, fmt.Errorf("begin create topic: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM topic WHERE title = $1)`, title).Scan(&exists)
	if err != nil {
		return models.Topic{}, fmt.Errorf("check title: %w", err)
	}
	if exists {
		return models.Topic{}, ErrTitleTaken
	}

	state, err := periodState(ctx, tx, now)
	if err != nil {
		return models.Topic{}, err
	}
	if state.Period == models.PeriodDebate {
		return models.Topic{}, ErrDebatePeriod
	}

	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM topic WHERE created_by = $1)`, createdBy).Scan(&exists)
	if err != nil {
		return models.Topic{}, fmt.Errorf("check creator: %w", err)
	}
	if exists {
		return models.Topic{}, ErrCreatorHasTopic
	}

	// The cap has no unique constraint to backstop it, so racing creators
	// are serialized on the singleton row: under read committed two
	// transactions could otherwise both count 14 and both insert. The
	// self-assignment takes a row lock in Postgres; SQLite has a single
	// writer anyway. periodState above guarantees the row exists.
	_, err = tx.ExecContext(ctx, `UPDATE period_state SET id = 1 WHERE id = 1`)
	if err != nil {
		return models.Topic{}, fmt.Errorf("lock period state: %w", err)
	}

	var count int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM topic`).Scan(&count)
	if err != nil {
		return models.Topic{}, fmt.Errorf("count topics: %w", err)
	}
	if count >= models.MaxTopics {
		return models.Topic{}, ErrTopicLimitReached
	}

	topic := models.Topic{
		ID:        uuid.NewString(),
		Title:     title,
		VotedBy:   []string{},
		CreatedBy: createdBy,
		CreatedAt: now.UTC(),
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO topic (id, title, votes, debated, created_by, created_at)
		VALUES ($1, $2, 0, FALSE, $3, $4)
	`, topic.ID, topic.Title, topic.CreatedBy, topic.CreatedAt)
	if err != nil {
		// Unique indexes are the backstop for two creators racing the
		// checks above.
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "title") {
				return models.Topic{}, ErrTitleTaken
			}
			return models.Topic{}, ErrCreatorHasTopic
		}
		return models.Topic{}, fmt.Errorf("insert topic: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Topic{}, fmt.Errorf("commit create topic: %w", err)
	}
	return topic, nil
}

// CastVote records a vote for the topic. The vote row insert and the
// counter increment commit together, so votes == len(voted_by) always
// holds. The primary key on topic_vote.voter is what makes "one vote per
// session" hold under concurrent requests.
func (s *Store) CastVote(ctx context.Context, topicID, voter string, now time.Time) (models.Topic, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Topic{}, fmt.Errorf("begin cast vote: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM topic WHERE id = $1)`, topicID).Scan(&exists)
	if err != nil {
		return models.Topic{}, fmt.Errorf("check topic: %w", err)
	}
	if !exists {
		return models.Topic{}, ErrTopicNotFound
	}

	var votedTopicID string
	err = tx.QueryRowContext(ctx,
		`SELECT topic_id FROM topic_vote WHERE voter = $1`, voter).Scan(&votedTopicID)
	switch {
	case err == sql.ErrNoRows:
		// Eligible to vote.
	case err != nil:
		return models.Topic{}, fmt.Errorf("check outstanding vote: %w", err)
	case votedTopicID == topicID:
		return models.Topic{}, ErrAlreadyVoted
	default:
		return models.Topic{}, ErrVoteSpent
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO topic_vote (voter, topic_id, voted_at)
		VALUES ($1, $2, $3)
	`, voter, topicID, now.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return models.Topic{}, ErrVoteSpent
		}
		return models.Topic{}, fmt.Errorf("insert vote: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE topic SET votes = votes + 1 WHERE id = $1`, topicID)
	if err != nil {
		return models.Topic{}, fmt.Errorf("increment votes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Topic{}, fmt.Errorf("commit cast vote: %w", err)
	}

	return s.GetTopic(ctx, topicID, voter)
}

// GetTopic fetches one topic with its voter list. viewer may be empty;
// when set, HasVoted reflects whether that wallet voted for this topic.
func (s *Store) GetTopic(ctx context.Context, topicID, viewer string) (models.Topic, error) {
	topic, err := scanTopic(s.db.QueryRowContext(ctx, `
		SELECT id, title, votes, debated, debated_at, created_by, created_at
		FROM topic
		WHERE id = $1
	`, topicID))
	if err == sql.ErrNoRows {
		return models.Topic{}, ErrTopicNotFound
	}
	if err != nil {
		return models.Topic{}, fmt.Errorf("query topic: %w", err)
	}

	if err := s.attachVoters(ctx, []*models.Topic{&topic}, viewer); err != nil {
		return models.Topic{}, err
	}
	return topic, nil
}

// TopTopics returns up to MaxTopics topics ordered by votes descending.
// Ties break on earliest creation time, then id, so the order is
// deterministic for the controller's winner selection as well.
func (s *Store) TopTopics(ctx context.Context, viewer string) ([]models.Topic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, votes, debated, debated_at, created_by, created_at
		FROM topic
		ORDER BY votes DESC, created_at ASC, id ASC
		LIMIT $1
	`, models.MaxTopics)
	if err != nil {
		return nil, fmt.Errorf("query topics: %w", err)
	}
	defer rows.Close()

	topics := []models.Topic{}
	for rows.Next() {
		topic, err := scanTopic(rows)
		if err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, topic)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topics: %w", err)
	}

	refs := make([]*models.Topic, len(topics))
	for i := range topics {
		refs[i] = &topics[i]
	}
	if err := s.attachVoters(ctx, refs, viewer); err != nil {
		return nil, err
	}
	return topics, nil
}

// CountTopics returns the total number of topics.
func (s *Store) CountTopics(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM topic`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count topics: %w", err)
	}
	return count, nil
}

// DebateCandidate returns the highest-voted topic that has not yet been
// debated. Returns ErrNoCandidate when the pool is empty.
func (s *Store) DebateCandidate(ctx context.Context) (models.Topic, error) {
	topic, err := scanTopic(s.db.QueryRowContext(ctx, `
		SELECT id, title, votes, debated, debated_at, created_by, created_at
		FROM topic
		WHERE debated = FALSE
		ORDER BY votes DESC, created_at ASC, id ASC
		LIMIT 1
	`))
	if err == sql.ErrNoRows {
		return models.Topic{}, ErrNoCandidate
	}
	if err != nil {
		return models.Topic{}, fmt.Errorf("query candidate: %w", err)
	}

	if err := s.attachVoters(ctx, []*models.Topic{&topic}, ""); err != nil {
		return models.Topic{}, err
	}
	return topic, nil
}

// PeriodState returns the singleton period row, lazily creating it in the
// voting period if absent.
func (s *Store) PeriodState(ctx context.Context, now time.Time) (models.PeriodState, error) {
	return periodState(ctx, s.db, now)
}

// BeginDebate marks the topic debated and flips the singleton to the
// debate period. The topic update commits before the state update inside
// the transaction; marking debated is terminal per topic, so a crashed or
// duplicated tick cannot select a second winner on retry.
func (s *Store) BeginDebate(ctx context.Context, topicID string, now, next time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin debate: %w", err)
	}
	defer tx.Rollback()

	if _, err := periodState(ctx, tx, now); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE topic SET debated = TRUE, debated_at = $1
		WHERE id = $2 AND debated = FALSE
	`, now.UTC(), topicID)
	if err != nil {
		return fmt.Errorf("mark debated: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE period_state
		SET period = $1, last_updated = $2, next_change = $3, active_topic_id = $4
		WHERE id = 1
	`, models.PeriodDebate, now.UTC(), next.UTC(), topicID)
	if err != nil {
		return fmt.Errorf("enter debate period: %w", err)
	}

	return tx.Commit()
}

// EndDebate flips the singleton back to the voting period and re-opens the
// pool: every not-yet-debated topic is reset to zero votes and an empty
// voter set. Debated topics keep their final tallies as history.
func (s *Store) EndDebate(ctx context.Context, now, next time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("end debate: %w", err)
	}
	defer tx.Rollback()

	if _, err := periodState(ctx, tx, now); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM topic_vote
		WHERE topic_id IN (SELECT id FROM topic WHERE debated = FALSE)
	`)
	if err != nil {
		return fmt.Errorf("clear votes: %w", err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE topic SET votes = 0 WHERE debated = FALSE`)
	if err != nil {
		return fmt.Errorf("reset tallies: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE period_state
		SET period = $1, last_updated = $2, next_change = $3, active_topic_id = NULL
		WHERE id = 1
	`, models.PeriodVoting, now.UTC(), next.UTC())
	if err != nil {
		return fmt.Errorf("enter voting period: %w", err)
	}

	return tx.Commit()
}

// ExtendWindow pushes next_change forward without recording a transition.
// Used by no-op ticks so connected countdowns stay aligned with the real
// cadence.
func (s *Store) ExtendWindow(ctx context.Context, now, next time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("extend window: %w", err)
	}
	defer tx.Rollback()

	if _, err := periodState(ctx, tx, now); err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx,
		`UPDATE period_state SET next_change = $1 WHERE id = 1`, next.UTC())
	if err != nil {
		return fmt.Errorf("extend window: %w", err)
	}
	return tx.Commit()
}

// periodState reads the singleton row, inserting the voting-period default
// first if it does not exist. ON CONFLICT DO NOTHING makes the bootstrap
// idempotent under concurrent callers in both dialects.
func periodState(ctx context.Context, q dbtx, now time.Time) (models.PeriodState, error) {
	_, err := q.ExecContext(ctx, `
		INSERT INTO period_state (id, period, last_updated, next_change)
		VALUES (1, $1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`, models.PeriodVoting, now.UTC(), now.UTC())
	if err != nil {
		return models.PeriodState{}, fmt.Errorf("init period state: %w", err)
	}

	var state models.PeriodState
	var activeTopicID sql.NullString
	err = q.QueryRowContext(ctx, `
		SELECT period, last_updated, next_change, active_topic_id
		FROM period_state
		WHERE id = 1
	`).Scan(&state.Period, &state.LastUpdated, &state.NextChange, &activeTopicID)
	if err != nil {
		return models.PeriodState{}, fmt.Errorf("query period state: %w", err)
	}
	if activeTopicID.Valid {
		state.ActiveTopicID = &activeTopicID.String
	}
	return state, nil
}

// attachVoters fills VotedBy (in cast order) and HasVoted for the given
// topics.
func (s *Store) attachVoters(ctx context.Context, topics []*models.Topic, viewer string) error {
	if len(topics) == 0 {
		return nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT voter, topic_id FROM topic_vote ORDER BY voted_at ASC, voter ASC`)
	if err != nil {
		return fmt.Errorf("query voters: %w", err)
	}
	defer rows.Close()

	byTopic := make(map[string][]string)
	for rows.Next() {
		var voter, topicID string
		if err := rows.Scan(&voter, &topicID); err != nil {
			return fmt.Errorf("scan voter: %w", err)
		}
		byTopic[topicID] = append(byTopic[topicID], voter)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate voters: %w", err)
	}

	for _, topic := range topics {
		voters := byTopic[topic.ID]
		if voters == nil {
			voters = []string{}
		}
		topic.VotedBy = voters
		if viewer != "" {
			for _, v := range voters {
				if v == viewer {
					topic.HasVoted = true
					break
				}
			}
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTopic(row rowScanner) (models.Topic, error) {
	var topic models.Topic
	var debatedAt sql.NullTime
	err := row.Scan(&topic.ID, &topic.Title, &topic.Votes, &topic.Debated,
		&debatedAt, &topic.CreatedBy, &topic.CreatedAt)
	if err != nil {
		return models.Topic{}, err
	}
	if debatedAt.Valid {
		t := debatedAt.Time
		topic.DebatedAt = &t
	}
	topic.VotedBy = []string{}
	return topic, nil
}

// isUniqueViolation recognizes unique-constraint errors from both drivers.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
