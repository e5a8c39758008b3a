// Copyright (c) 2025 the QuickPoll authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/quickpoll/backend/auth"
	"github.com/quickpoll/backend/cliparse"
	"github.com/quickpoll/backend/db"
)

// SetupTestDB opens a fresh in-memory sqlite database with the full
// schema. The pool is pinned to one connection so transactions
// serialize instead of hitting sqlite busy errors.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         8080,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		BaseURL:      "http://localhost:8080",
		FrontendURL:  "http://localhost:5173",
	}
}

// CreateTestPoll inserts a poll expiring `expiry` from now and returns
// its ID and secret key. Pass a negative expiry for an expired poll.
func CreateTestPoll(t *testing.T, conn *sql.DB, expiry time.Duration) (pollID, secretKey string) {
	t.Helper()

	pollID = uuid.NewString()
	secretKey, err := auth.GenerateSecretKey()
	if err != nil {
		t.Fatalf("Failed to generate secret key: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO polls (id, question, expires_at, results_visible, secret_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, pollID, "Pizza or sushi?", time.Now().Add(expiry), false, secretKey, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return pollID, secretKey
}

// AddTestOption adds an option to a poll and returns the option ID
func AddTestOption(t *testing.T, conn *sql.DB, pollID, text string, position int) string {
	t.Helper()

	optionID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO poll_options (id, poll_id, option_text, votes, position)
		VALUES ($1, $2, $3, 0, $4)
	`, optionID, pollID, text, position)
	if err != nil {
		t.Fatalf("Failed to create test option: %v", err)
	}

	return optionID
}

// CastTestVotes inserts n votes for the option, each under a distinct
// voter token, and bumps the tally to match.
func CastTestVotes(t *testing.T, conn *sql.DB, pollID, optionID string, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		token, err := auth.GenerateVoterToken()
		if err != nil {
			t.Fatalf("Failed to generate voter token: %v", err)
		}
		_, err = conn.Exec(`
			INSERT INTO votes (id, poll_id, option_id, voter_token, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.NewString(), pollID, optionID, token, time.Now())
		if err != nil {
			t.Fatalf("Failed to insert test vote: %v", err)
		}
	}

	_, err := conn.Exec(`UPDATE poll_options SET votes = votes + $1 WHERE id = $2`, n, optionID)
	if err != nil {
		t.Fatalf("Failed to bump test tally: %v", err)
	}
}

// OptionVotes reads an option's current tally straight from the table.
func OptionVotes(t *testing.T, conn *sql.DB, optionID string) int {
	t.Helper()

	var votes int
	if err := conn.QueryRow(`SELECT votes FROM poll_options WHERE id = $1`, optionID).Scan(&votes); err != nil {
		t.Fatalf("Failed to read option votes: %v", err)
	}
	return votes
}

// MakeRequest creates an HTTP test request with an optional JSON body
func MakeRequest(method, path string, body any, headers map[string]string) *http.Request {
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

// DecodeResponse unmarshals a recorded JSON response body into v
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()

	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}

// RequireStatus fails the test when the recorded status differs
func RequireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()

	if w.Code != want {
		t.Fatalf("Expected status %d, got %d: %s", want, w.Code, w.Body.String())
	}
}

// UniqueToken returns a voter token that is readable in failures
func UniqueToken(prefix string) string {
	return fmt.Sprintf("%s-%s", prefix, uuid.NewString())
}
