// Copyright (c) 2025 the QuickPoll authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/quickpoll/backend/models"
	"github.com/quickpoll/backend/testutil"
)

func TestSharePageRedirectsBrowsers(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := NewShareHandler(conn, testutil.GetTestConfig())

	pollID, _ := testutil.CreateTestPoll(t, conn, time.Hour)

	req := testutil.MakeRequest("GET", "/poll/"+pollID, nil, map[string]string{
		"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) Safari/605.1.15",
	})
	req.SetPathValue("id", pollID)
	w := httptest.NewRecorder()

	h.SharePage(w, req)
	testutil.RequireStatus(t, w, 302)

	want := testutil.GetTestConfig().FrontendURL + "/poll/" + pollID
	if got := w.Header().Get("Location"); got != want {
		t.Errorf("Expected redirect to %s, got %s", want, got)
	}
}

func TestSharePageServesCrawlerPreview(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := NewShareHandler(conn, testutil.GetTestConfig())

	pollID, _ := testutil.CreateTestPoll(t, conn, time.Hour)
	testutil.AddTestOption(t, conn, pollID, "Pizza", 0)
	testutil.AddTestOption(t, conn, pollID, "Sushi", 1)

	req := testutil.MakeRequest("GET", "/poll/"+pollID, nil, map[string]string{
		"User-Agent": "Twitterbot/1.0",
	})
	req.SetPathValue("id", pollID)
	w := httptest.NewRecorder()

	h.SharePage(w, req)
	testutil.RequireStatus(t, w, 200)

	body := w.Body.String()
	if !strings.Contains(body, "og:title") {
		t.Error("Preview page missing OG tags")
	}
	if !strings.Contains(body, "Pizza or sushi?") {
		t.Error("Preview page missing poll question")
	}
	if !strings.Contains(body, "Pizza vs Sushi") {
		t.Error("Preview page missing option summary")
	}
}

func TestQRCodeReturnsPNG(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := NewShareHandler(conn, testutil.GetTestConfig())

	pollID, _ := testutil.CreateTestPoll(t, conn, time.Hour)

	req := testutil.MakeRequest("GET", "/share/poll/"+pollID+"/qr", nil, nil)
	req.SetPathValue("id", pollID)
	w := httptest.NewRecorder()

	h.QRCode(w, req)
	testutil.RequireStatus(t, w, 200)

	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")) {
		t.Error("Response body is not a PNG")
	}
}

func TestQRCodeUnknownPoll(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	h := NewShareHandler(conn, testutil.GetTestConfig())

	req := testutil.MakeRequest("GET", "/share/poll/nope/qr", nil, nil)
	req.SetPathValue("id", "nope")
	w := httptest.NewRecorder()

	h.QRCode(w, req)
	testutil.RequireStatus(t, w, 404)
}

func TestShareURLs(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	h := NewShareHandler(conn, cfg)

	pollID, secretKey := testutil.CreateTestPoll(t, conn, time.Hour)

	req := testutil.MakeRequest("GET", "/share/poll/"+pollID+"/urls", nil, nil)
	req.SetPathValue("id", pollID)
	w := httptest.NewRecorder()

	h.ShareURLs(w, req)
	testutil.RequireStatus(t, w, 200)

	var resp models.ShareURLsResponse
	testutil.DecodeResponse(t, w, &resp)

	if resp.PollURL != cfg.FrontendURL+"/poll/"+pollID {
		t.Errorf("Unexpected poll URL: %s", resp.PollURL)
	}
	if !strings.Contains(resp.CreatorURL, "secret="+secretKey) {
		t.Errorf("Creator URL missing secret: %s", resp.CreatorURL)
	}
	if resp.QRCodeURL != cfg.BaseURL+"/share/poll/"+pollID+"/qr" {
		t.Errorf("Unexpected QR URL: %s", resp.QRCodeURL)
	}
}

func TestIsSocialMediaBot(t *testing.T) {
	tests := []struct {
		userAgent string
		want      bool
	}{
		{"facebookexternalhit/1.1", true},
		{"WhatsApp/2.23.2", true},
		{"Twitterbot/1.0", true},
		{"Mozilla/5.0 (compatible; Discordbot/2.0)", true},
		{"Slackbot-LinkExpanding 1.0", true},
		{"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) Safari/605.1.15", false},
		{"curl/8.1.2", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := isSocialMediaBot(tt.userAgent); got != tt.want {
			t.Errorf("isSocialMediaBot(%q) = %v, want %v", tt.userAgent, got, tt.want)
		}
	}
}
