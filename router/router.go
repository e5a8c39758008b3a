// Copyright (c) 2025 the QuickPoll authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/quickpoll/backend/cliparse"
	"github.com/quickpoll/backend/handlers"
	"github.com/quickpoll/backend/hub"
	"github.com/quickpoll/backend/ledger"
	"github.com/quickpoll/backend/middleware"
	"github.com/quickpoll/backend/ratelimit"
)

func NewRouter(db *sql.DB, cfg cliparse.Config, limiter *ratelimit.Limiter) *http.ServeMux {
	mux := http.NewServeMux()

	// One hub and one ledger shared by every handler
	broadcast := hub.New()
	votes := ledger.New(db)

	pollHandler := handlers.NewPollHandler(db, broadcast, votes)
	votingHandler := handlers.NewVotingHandler(db, broadcast, votes, limiter)
	streamHandler := handlers.NewStreamHandler(db, broadcast)
	shareHandler := handlers.NewShareHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Poll management
	mux.HandleFunc("POST /api/polls", middleware.WithLogging(pollHandler.CreatePoll))
	mux.HandleFunc("GET /api/polls/{id}", middleware.WithLogging(pollHandler.GetPoll))
	mux.HandleFunc("POST /api/polls/{id}/toggle-results", middleware.WithLogging(pollHandler.ToggleResults))

	// Voting
	mux.HandleFunc("POST /api/polls/{id}/votes", middleware.WithLogging(votingHandler.SubmitVote))

	// Live streams (no logging wrapper: these requests never complete)
	mux.HandleFunc("GET /api/stream/poll/{id}", streamHandler.StreamPoll)
	mux.HandleFunc("GET /api/stream/poll/{id}/creator", streamHandler.StreamCreator)

	// Sharing
	mux.HandleFunc("GET /poll/{id}", middleware.WithLogging(shareHandler.SharePage))
	mux.HandleFunc("GET /share/poll/{id}", middleware.WithLogging(shareHandler.OGPage))
	mux.HandleFunc("GET /share/poll/{id}/qr", middleware.WithLogging(shareHandler.QRCode))
	mux.HandleFunc("GET /share/poll/{id}/urls", middleware.WithLogging(shareHandler.ShareURLs))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("QuickPoll API v1"))
	})

	return mux
}
