// Copyright (c) 2025 the QuickPoll authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quickpoll/backend/models"
)

var (
	ErrPollNotFound  = errors.New("poll not found")
	ErrPollExpired   = errors.New("poll has expired")
	ErrUnknownOption = errors.New("option does not belong to poll")
	ErrAlreadyVoted  = errors.New("voter has already voted on this poll")
)

// Ledger is the authoritative record of which voter tokens have voted
// on which poll, and the single point of truth for tally increments.
// It only mutates state; notification is the caller's concern.
type Ledger struct {
	db *sql.DB
}

func New(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// HasVoted reports whether a vote exists for the (poll, voter token)
// pair. Callers may use it as an early exit only; RecordVote re-checks
// atomically and must not be skipped on its account.
func (l *Ledger) HasVoted(pollID, voterToken string) (bool, error) {
	var exists bool
	err := l.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM votes WHERE poll_id = $1 AND voter_token = $2
		)
	`, pollID, voterToken).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check vote: %w", err)
	}
	return exists, nil
}

// VotedOptionID returns the option the voter chose on the poll, or ""
// if they have not voted.
func (l *Ledger) VotedOptionID(pollID, voterToken string) (string, error) {
	var optionID string
	err := l.db.QueryRow(`
		SELECT option_id FROM votes WHERE poll_id = $1 AND voter_token = $2
	`, pollID, voterToken).Scan(&optionID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up vote: %w", err)
	}
	return optionID, nil
}

// RecordVote records one vote and increments the chosen option's tally
// in a single transaction, returning the poll's full tally afterward.
// The UNIQUE(poll_id, voter_token) constraint is the atomic boundary:
// under concurrent submissions for the same token exactly one insert
// wins and every other call gets ErrAlreadyVoted. Expiry is checked
// against the wall clock at call time.
func (l *Ledger) RecordVote(pollID, optionID, voterToken string) (models.TallySnapshot, error) {
	var zero models.TallySnapshot

	tx, err := l.db.Begin()
	if err != nil {
		return zero, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var expiresAt time.Time
	err = tx.QueryRow(`SELECT expires_at FROM polls WHERE id = $1`, pollID).Scan(&expiresAt)
	if err == sql.ErrNoRows {
		return zero, ErrPollNotFound
	}
	if err != nil {
		return zero, fmt.Errorf("failed to query poll: %w", err)
	}
	if time.Now().After(expiresAt) {
		return zero, ErrPollExpired
	}

	var optionPollID string
	err = tx.QueryRow(`SELECT poll_id FROM poll_options WHERE id = $1`, optionID).Scan(&optionPollID)
	if err == sql.ErrNoRows {
		return zero, ErrUnknownOption
	}
	if err != nil {
		return zero, fmt.Errorf("failed to query option: %w", err)
	}
	if optionPollID != pollID {
		return zero, ErrUnknownOption
	}

	_, err = tx.Exec(`
		INSERT INTO votes (id, poll_id, option_id, voter_token, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), pollID, optionID, voterToken, time.Now())
	if err != nil {
		if isUniqueViolation(err) {
			return zero, ErrAlreadyVoted
		}
		return zero, fmt.Errorf("failed to insert vote: %w", err)
	}

	_, err = tx.Exec(`UPDATE poll_options SET votes = votes + 1 WHERE id = $1`, optionID)
	if err != nil {
		return zero, fmt.Errorf("failed to increment tally: %w", err)
	}

	snap, err := tally(tx, pollID)
	if err != nil {
		return zero, err
	}

	if err := tx.Commit(); err != nil {
		return zero, fmt.Errorf("failed to commit vote: %w", err)
	}

	return snap, nil
}

// Tally returns the poll's current per-option counts without mutating
// anything.
func (l *Ledger) Tally(pollID string) (models.TallySnapshot, error) {
	return tally(l.db, pollID)
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	Query(query string, args ...any) (*sql.Rows, error)
}

func tally(q querier, pollID string) (models.TallySnapshot, error) {
	snap := models.TallySnapshot{PollID: pollID}

	rows, err := q.Query(`
		SELECT id, option_text, votes
		FROM poll_options
		WHERE poll_id = $1
		ORDER BY position, id
	`, pollID)
	if err != nil {
		return snap, fmt.Errorf("failed to query tally: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.OptionTally
		if err := rows.Scan(&t.OptionID, &t.OptionText, &t.Votes); err != nil {
			return snap, fmt.Errorf("failed to scan tally row: %w", err)
		}
		snap.TotalVotes += t.Votes
		snap.Options = append(snap.Options, t)
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("failed to read tally rows: %w", err)
	}

	return snap, nil
}

// isUniqueViolation matches the constraint error text of both drivers;
// neither modernc.org/sqlite nor lib/pq exposes a shared error type.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value violates unique constraint")
}
