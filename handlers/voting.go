// Copyright (c) 2025 the QuickPoll authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/quickpoll/backend/auth"
	"github.com/quickpoll/backend/hub"
	"github.com/quickpoll/backend/insight"
	"github.com/quickpoll/backend/ledger"
	"github.com/quickpoll/backend/middleware"
	"github.com/quickpoll/backend/models"
	"github.com/quickpoll/backend/ratelimit"
)

type VotingHandler struct {
	db      *sql.DB
	hub     *hub.Hub
	ledger  *ledger.Ledger
	limiter *ratelimit.Limiter
}

func NewVotingHandler(db *sql.DB, h *hub.Hub, l *ledger.Ledger, lim *ratelimit.Limiter) *VotingHandler {
	return &VotingHandler{db: db, hub: h, ledger: l, limiter: lim}
}

// SubmitVote handles POST /api/polls/{id}/votes
//
// Sequencing: limiter, then ledger, then insight, then broadcast. The
// ledger is the atomic boundary for duplicates; the HasVoted call here
// is only a cheap early exit.
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.VoterToken == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Voter token is required")
		return
	}
	if req.OptionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Option id is required")
		return
	}

	var expiresAt time.Time
	err := h.db.QueryRow(`SELECT expires_at FROM polls WHERE id = $1`, pollID).Scan(&expiresAt)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if time.Now().After(expiresAt) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Poll has expired, voting is closed.")
		return
	}

	fingerprint := auth.FingerprintDevice(middleware.GetClientIP(r), r.UserAgent())
	if !h.limiter.Allow(fingerprint, pollID) {
		slog.Warn("vote rate limited", "poll_id", pollID, "fingerprint", fingerprint)
		middleware.ErrorResponse(w, http.StatusTooManyRequests,
			"Too many voting attempts from your device. Please try later.")
		return
	}

	// Early exit; RecordVote re-checks atomically
	if voted, err := h.ledger.HasVoted(pollID, req.VoterToken); err == nil && voted {
		middleware.ErrorResponse(w, http.StatusBadRequest, "You have already voted.")
		return
	}

	snap, err := h.ledger.RecordVote(pollID, req.OptionID, req.VoterToken)
	if err != nil {
		switch {
		case errors.Is(err, ledger.ErrAlreadyVoted):
			middleware.ErrorResponse(w, http.StatusBadRequest, "You have already voted.")
		case errors.Is(err, ledger.ErrUnknownOption):
			middleware.ErrorResponse(w, http.StatusBadRequest, "Option not found")
		case errors.Is(err, ledger.ErrPollExpired):
			middleware.ErrorResponse(w, http.StatusBadRequest, "Poll has expired, voting is closed.")
		case errors.Is(err, ledger.ErrPollNotFound):
			middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		default:
			slog.Error("failed to record vote", "error", err, "poll_id", pollID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to record vote")
		}
		return
	}

	h.hub.Publish(pollID, models.EventVoteUpdate, voteUpdatePayload(snap))

	if text, ok := insight.Compute(snap.Options); ok {
		h.hub.Publish(pollID, models.EventAutoInsight, models.InsightPayload{Insight: text})
	}

	// Recording a vote forces results open. Longstanding observable
	// behavior; the explicit toggle endpoint can close them again.
	if err := setResultsVisible(h.db, h.hub, pollID, true); err != nil {
		slog.Error("failed to open results after vote", "error", err, "poll_id", pollID)
	}

	slog.Info("vote recorded", "poll_id", pollID, "option_id", req.OptionID, "total_votes", snap.TotalVotes)

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		Message: "Vote recorded successfully.",
	})
}

// voteUpdatePayload shapes a tally snapshot for the live stream.
func voteUpdatePayload(snap models.TallySnapshot) models.VoteUpdatePayload {
	payload := models.VoteUpdatePayload{
		PollID:     snap.PollID,
		TotalVotes: snap.TotalVotes,
		Options:    make(map[string]models.OptionCount, len(snap.Options)),
	}

	for _, opt := range snap.Options {
		pct := 0.0
		if snap.TotalVotes > 0 {
			pct = float64(opt.Votes) * 100.0 / float64(snap.TotalVotes)
		}
		payload.Options[opt.OptionID] = models.OptionCount{
			Votes:      opt.Votes,
			Percentage: pct,
		}
	}

	return payload
}
