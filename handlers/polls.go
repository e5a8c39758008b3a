// Copyright (c) 2025 the QuickPoll authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quickpoll/backend/auth"
	"github.com/quickpoll/backend/hub"
	"github.com/quickpoll/backend/insight"
	"github.com/quickpoll/backend/ledger"
	"github.com/quickpoll/backend/middleware"
	"github.com/quickpoll/backend/models"
)

type PollHandler struct {
	db     *sql.DB
	hub    *hub.Hub
	ledger *ledger.Ledger
}

func NewPollHandler(db *sql.DB, h *hub.Hub, l *ledger.Ledger) *PollHandler {
	return &PollHandler{db: db, hub: h, ledger: l}
}

// CreatePoll handles POST /api/polls
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if strings.TrimSpace(req.Question) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "question is required")
		return
	}

	optionTexts := splitOptions(req.Options)
	if len(optionTexts) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "at least one option is required")
		return
	}

	expiryHours := req.ExpiryHours
	if expiryHours <= 0 {
		expiryHours = models.DefaultExpiryHours
	}

	secretKey, err := auth.GenerateSecretKey()
	if err != nil {
		slog.Error("failed to generate secret key", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	pollID := uuid.NewString()
	now := time.Now()
	expiresAt := now.Add(time.Duration(expiryHours) * time.Hour)

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO polls (id, question, expires_at, results_visible, secret_key, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, pollID, req.Question, expiresAt, false, secretKey, now)
	if err != nil {
		slog.Error("failed to insert poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	options := make([]models.OptionResponse, 0, len(optionTexts))
	for i, text := range optionTexts {
		optionID := uuid.NewString()
		_, err = tx.Exec(`
			INSERT INTO poll_options (id, poll_id, option_text, votes, position)
			VALUES ($1, $2, $3, 0, $4)
		`, optionID, pollID, text, i)
		if err != nil {
			slog.Error("failed to insert option", "error", err, "poll_id", pollID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
			return
		}
		options = append(options, models.OptionResponse{ID: optionID, OptionText: text})
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	slog.Info("poll created", "poll_id", pollID, "options", len(options), "expires_at", expiresAt)

	// The secret key appears here and nowhere else
	middleware.JSONResponse(w, http.StatusCreated, models.PollResponse{
		ID:             pollID,
		Question:       req.Question,
		ExpiresAt:      expiresAt,
		ResultsVisible: false,
		SecretKey:      secretKey,
		Options:        options,
	})
}

// GetPoll handles GET /api/polls/{id}
// Accepts an optional voterToken query param to report the caller's own vote
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	poll, err := loadPoll(h.db, pollID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp := models.PollResponse{
		ID:             poll.ID,
		Question:       poll.Question,
		ExpiresAt:      poll.ExpiresAt,
		ResultsVisible: poll.ResultsVisible,
		Options:        make([]models.OptionResponse, 0, len(poll.Options)),
	}

	tallies := make([]models.OptionTally, 0, len(poll.Options))
	for _, opt := range poll.Options {
		resp.Options = append(resp.Options, models.OptionResponse{
			ID:         opt.ID,
			OptionText: opt.OptionText,
			Votes:      opt.Votes,
		})
		tallies = append(tallies, models.OptionTally{
			OptionID:   opt.ID,
			OptionText: opt.OptionText,
			Votes:      opt.Votes,
		})
	}

	if text, ok := insight.Compute(tallies); ok {
		resp.Insight = text
	}

	if voterToken := r.URL.Query().Get("voterToken"); voterToken != "" {
		optionID, err := h.ledger.VotedOptionID(pollID, voterToken)
		if err != nil {
			slog.Error("failed to look up voter's option", "error", err, "poll_id", pollID)
		} else {
			resp.UserVotedOptionID = optionID
		}
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// ToggleResults handles POST /api/polls/{id}/toggle-results
// Authenticated by the poll's secret key; publishes the change to all
// live subscribers
func (h *PollHandler) ToggleResults(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	visible, err := strconv.ParseBool(r.URL.Query().Get("visible"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "visible must be true or false")
		return
	}

	var secretKey string
	err = h.db.QueryRow(`SELECT secret_key FROM polls WHERE id = $1`, pollID).Scan(&secretKey)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := auth.ValidateSecretKey(secretKey, r.URL.Query().Get("secretKey")); err != nil {
		middleware.ErrorResponse(w, http.StatusForbidden, "Invalid secret key")
		return
	}

	if err := setResultsVisible(h.db, h.hub, pollID, visible); err != nil {
		slog.Error("failed to update visibility", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update visibility")
		return
	}

	slog.Info("results visibility toggled", "poll_id", pollID, "visible", visible)

	middleware.JSONResponse(w, http.StatusOK, models.ToggleResultsResponse{
		Message:        "Result visibility updated",
		ResultsVisible: visible,
	})
}

// setResultsVisible persists the flag and notifies every live
// subscriber of the poll. Shared by the toggle endpoint and the vote
// path, which forces results open on each recorded vote.
func setResultsVisible(db *sql.DB, h *hub.Hub, pollID string, visible bool) error {
	if _, err := db.Exec(`UPDATE polls SET results_visible = $1 WHERE id = $2`, visible, pollID); err != nil {
		return err
	}

	h.Publish(pollID, models.EventVisibilityChange, models.VisibilityPayload{ResultsVisible: visible})
	return nil
}

// loadPoll reads a poll and its options in creation order.
func loadPoll(db *sql.DB, pollID string) (models.Poll, error) {
	var poll models.Poll
	err := db.QueryRow(`
		SELECT id, question, expires_at, results_visible, secret_key, created_at
		FROM polls
		WHERE id = $1
	`, pollID).Scan(
		&poll.ID, &poll.Question, &poll.ExpiresAt,
		&poll.ResultsVisible, &poll.SecretKey, &poll.CreatedAt,
	)
	if err != nil {
		return poll, err
	}

	rows, err := db.Query(`
		SELECT id, poll_id, option_text, votes
		FROM poll_options
		WHERE poll_id = $1
		ORDER BY position, id
	`, pollID)
	if err != nil {
		return poll, err
	}
	defer rows.Close()

	for rows.Next() {
		var opt models.Option
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.OptionText, &opt.Votes); err != nil {
			return poll, err
		}
		poll.Options = append(poll.Options, opt)
	}

	return poll, rows.Err()
}

// splitOptions breaks the delimited options string on '|', ',' or '/'
// and keeps at most MaxOptionsPerPoll non-empty entries.
func splitOptions(raw string) []string {
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == '|' || r == ',' || r == '/'
	})

	out := make([]string, 0, models.MaxOptionsPerPoll)
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
		if len(out) == models.MaxOptionsPerPoll {
			break
		}
	}
	return out
}
