// Copyright (c) 2025 the QuickPoll authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/quickpoll/backend/cliparse"
	"github.com/quickpoll/backend/middleware"
	"github.com/quickpoll/backend/models"
)

const qrSize = 400

type ShareHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewShareHandler(db *sql.DB, cfg cliparse.Config) *ShareHandler {
	return &ShareHandler{db: db, cfg: cfg}
}

// SharePage handles GET /poll/{id}
// Social-media crawlers get the OG preview page; everyone else is
// redirected to the frontend.
func (h *ShareHandler) SharePage(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	if isSocialMediaBot(r.UserAgent()) {
		slog.Info("crawler detected on share link", "poll_id", pollID, "user_agent", r.UserAgent())
		h.renderOGPage(w, pollID)
		return
	}

	http.Redirect(w, r, h.cfg.FrontendURL+"/poll/"+pollID, http.StatusFound)
}

// OGPage handles GET /share/poll/{id}
func (h *ShareHandler) OGPage(w http.ResponseWriter, r *http.Request) {
	h.renderOGPage(w, r.PathValue("id"))
}

// QRCode handles GET /share/poll/{id}/qr
// Returns a PNG QR code pointing at the frontend poll page.
func (h *ShareHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

	var exists bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM polls WHERE id = $1)`, pollID).Scan(&exists)
	if err != nil {
		slog.Error("failed to query poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}

	png, err := qrcode.Encode(h.cfg.FrontendURL+"/poll/"+pollID, qrcode.Medium, qrSize)
	if err != nil {
		slog.Error("failed to encode QR code", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Header().Set("Cache-Control", "max-age=3600")
	w.Write(png)
}

// ShareURLs handles GET /share/poll/{id}/urls
func (h *ShareHandler) ShareURLs(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")

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

	middleware.JSONResponse(w, http.StatusOK, models.ShareURLsResponse{
		PollURL:    h.cfg.FrontendURL + "/poll/" + pollID,
		CreatorURL: h.cfg.FrontendURL + "/poll/" + pollID + "?secret=" + poll.SecretKey,
		QRCodeURL:  h.cfg.BaseURL + "/share/poll/" + pollID + "/qr",
		ShareURL:   h.cfg.BaseURL + "/poll/" + pollID,
	})
}

var ogTemplate = template.Must(template.New("poll-share").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Question}} - QuickPoll</title>
<meta property="og:title" content="{{.Question}}">
<meta property="og:description" content="{{.OptionsText}} &middot; {{.VotesText}} &middot; created {{.CreatedText}}">
<meta property="og:type" content="website">
<meta property="og:url" content="{{.ShareURL}}">
<meta property="og:image" content="{{.QRImageURL}}">
<meta property="og:site_name" content="QuickPoll">
<meta http-equiv="refresh" content="0; url={{.ShareURL}}">
</head>
<body>
<p><a href="{{.ShareURL}}">{{.Question}}</a></p>
</body>
</html>
`))

type ogPageData struct {
	Question    string
	OptionsText string
	VotesText   string
	CreatedText string
	ShareURL    string
	QRImageURL  string
}

func (h *ShareHandler) renderOGPage(w http.ResponseWriter, pollID string) {
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

	totalVotes := 0
	optionTexts := make([]string, 0, len(poll.Options))
	for _, opt := range poll.Options {
		totalVotes += opt.Votes
		optionTexts = append(optionTexts, opt.OptionText)
	}

	votesText := humanize.Comma(int64(totalVotes)) + " votes"
	if totalVotes == 1 {
		votesText = "1 vote"
	}

	data := ogPageData{
		Question:    poll.Question,
		OptionsText: strings.Join(optionTexts, " vs "),
		VotesText:   votesText,
		CreatedText: humanize.Time(poll.CreatedAt),
		ShareURL:    h.cfg.FrontendURL + "/poll/" + pollID,
		QRImageURL:  h.cfg.BaseURL + "/share/poll/" + pollID + "/qr",
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := ogTemplate.Execute(w, data); err != nil {
		slog.Error("failed to render share page", "error", err, "poll_id", pollID)
	}
}

// isSocialMediaBot reports whether the user agent belongs to a link
// preview crawler rather than a person.
func isSocialMediaBot(userAgent string) bool {
	if userAgent == "" {
		return false
	}

	ua := strings.ToLower(userAgent)
	markers := []string{
		"facebookexternalhit",
		"whatsapp",
		"twitterbot",
		"linkedinbot",
		"telegrambot",
		"discordbot",
		"slackbot",
		"facebot",
		"ia_archiver",
		"googlebot",
		"bingbot",
		"crawler",
		"spider",
		"bot",
	}
	for _, m := range markers {
		if strings.Contains(ua, m) {
			return true
		}
	}
	return false
}
