// Copyright (c) 2025 the QuickPoll authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/quickpoll/backend/auth"
	"github.com/quickpoll/backend/hub"
	"github.com/quickpoll/backend/middleware"
)

// keepaliveInterval paces SSE comment pings so dead connections are
// noticed even on quiet polls.
const keepaliveInterval = 30 * time.Second

type StreamHandler struct {
	db  *sql.DB
	hub *hub.Hub
}

func NewStreamHandler(db *sql.DB, h *hub.Hub) *StreamHandler {
	return &StreamHandler{db: db, hub: h}
}

// StreamPoll handles GET /api/stream/poll/{id}
// Public live results stream.
func (h *StreamHandler) StreamPoll(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, hub.Public)
}

// StreamCreator handles GET /api/stream/poll/{id}/creator
// Same events as the public stream; requires the poll's secret key.
func (h *StreamHandler) StreamCreator(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, hub.Creator)
}

func (h *StreamHandler) stream(w http.ResponseWriter, r *http.Request, class hub.Class) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	var secretKey string
	err := h.db.QueryRow(`SELECT secret_key FROM polls WHERE id = $1`, pollID).Scan(&secretKey)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if class == hub.Creator {
		if err := auth.ValidateSecretKey(secretKey, r.URL.Query().Get("secretKey")); err != nil {
			middleware.ErrorResponse(w, http.StatusForbidden, "Invalid secret key")
			return
		}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sub := h.hub.Subscribe(pollID, class)
	defer sub.Close()

	slog.Info("stream opened", "poll_id", pollID, "class", class.String())
	defer slog.Info("stream closed", "poll_id", pollID, "class", class.String())

	keepalive := time.NewTicker(keepaliveInterval)
	defer keepalive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return

		case <-keepalive.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case ev, ok := <-sub.Events():
			if !ok {
				// Dropped by the hub after a failed delivery
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, ev.Data); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
