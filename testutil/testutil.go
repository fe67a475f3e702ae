// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/soapbox/auth"
	"github.com/danielhkuo/soapbox/cliparse"
	"github.com/danielhkuo/soapbox/db"
	"github.com/danielhkuo/soapbox/models"
)

// SetupTestDB creates a private in-memory database with the full schema.
// Each call returns an isolated database, closed when the test ends.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:           3002,
		DatabaseURL:    ":memory:",
		DatabaseType:   "sqlite",
		JWTSecret:      "test-jwt-secret",
		PeriodInterval: 5 * time.Minute,
	}
}

// CreateTestTopic inserts a topic directly and returns its ID.
func CreateTestTopic(t *testing.T, conn *sql.DB, title, createdBy string, debated bool) string {
	t.Helper()

	topicID := uuid.NewString()
	var debatedAt *time.Time
	if debated {
		now := time.Now().UTC()
		debatedAt = &now
	}

	_, err := conn.Exec(`
		INSERT INTO topic (id, title, votes, debated, debated_at, created_by, created_at)
		VALUES ($1, $2, 0, $3, $4, $5, $6)
	`, topicID, title, debated, debatedAt, createdBy, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test topic: %v", err)
	}

	return topicID
}

// AddTestVotes casts a vote for each voter on the topic, keeping the
// tally and the vote rows consistent.
func AddTestVotes(t *testing.T, conn *sql.DB, topicID string, voters ...string) {
	t.Helper()

	for _, voter := range voters {
		_, err := conn.Exec(`
			INSERT INTO topic_vote (voter, topic_id, voted_at)
			VALUES ($1, $2, $3)
		`, voter, topicID, time.Now().UTC())
		if err != nil {
			t.Fatalf("Failed to add test vote: %v", err)
		}
	}

	_, err := conn.Exec(`UPDATE topic SET votes = votes + $1 WHERE id = $2`,
		len(voters), topicID)
	if err != nil {
		t.Fatalf("Failed to update test tally: %v", err)
	}
}

// SetTestPeriod forces the period singleton into the given state.
func SetTestPeriod(t *testing.T, conn *sql.DB, periodName string, activeTopicID *string) {
	t.Helper()

	now := time.Now().UTC()
	_, err := conn.Exec(`
		INSERT INTO period_state (id, period, last_updated, next_change, active_topic_id)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET period = $1, last_updated = $2, next_change = $3, active_topic_id = $4
	`, periodName, now, now.Add(5*time.Minute), activeTopicID)
	if err != nil {
		t.Fatalf("Failed to set test period: %v", err)
	}

	if periodName == models.PeriodDebate && activeTopicID == nil {
		t.Fatal("debate period requires an active topic id")
	}
}

// AuthHeader returns the Authorization header for a wallet.
func AuthHeader(t *testing.T, cfg cliparse.Config, wallet string) map[string]string {
	t.Helper()

	token, err := auth.IssueToken(wallet, cfg.JWTSecret, time.Now())
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
