// Copyright (c) 2025 the QuickPoll authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quickpoll/backend/models"
	"github.com/quickpoll/backend/ratelimit"
	"github.com/quickpoll/backend/testutil"
)

func TestHealthEndpoint(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	mux := NewRouter(conn, testutil.GetTestConfig(), ratelimit.New())

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/health", nil, nil))
	testutil.RequireStatus(t, w, 200)

	if w.Body.String() != "OK" {
		t.Errorf("Expected OK, got %q", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	mux := NewRouter(conn, testutil.GetTestConfig(), ratelimit.New())

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/", nil, nil))
	testutil.RequireStatus(t, w, 200)
}

// TestVoteFlowThroughRouter exercises the full create-then-vote path
// with real routing, confirming path values reach the handlers.
func TestVoteFlowThroughRouter(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	mux := NewRouter(conn, testutil.GetTestConfig(), ratelimit.New())

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/api/polls", models.CreatePollRequest{
		Question: "Pizza or sushi?",
		Options:  "Pizza|Sushi",
	}, nil))
	testutil.RequireStatus(t, w, 201)

	var poll models.PollResponse
	testutil.DecodeResponse(t, w, &poll)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("POST", "/api/polls/"+poll.ID+"/votes", models.VoteRequest{
		OptionID:   poll.Options[0].ID,
		VoterToken: testutil.UniqueToken("voter"),
	}, nil))
	testutil.RequireStatus(t, w, 200)

	w = httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("GET", "/api/polls/"+poll.ID, nil, nil))
	testutil.RequireStatus(t, w, 200)

	var fetched models.PollResponse
	testutil.DecodeResponse(t, w, &fetched)
	if fetched.Options[0].Votes != 1 {
		t.Errorf("Expected 1 vote after routing round trip, got %+v", fetched.Options)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	mux := NewRouter(conn, testutil.GetTestConfig(), ratelimit.New())

	w := httptest.NewRecorder()
	mux.ServeHTTP(w, testutil.MakeRequest("DELETE", "/api/polls", nil, nil))
	testutil.RequireStatus(t, w, 405)
}

func TestShareRoutesRegistered(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	mux := NewRouter(conn, testutil.GetTestConfig(), ratelimit.New())

	pollID, _ := testutil.CreateTestPoll(t, conn, time.Hour)

	paths := []string{
		"/share/poll/" + pollID,
		"/share/poll/" + pollID + "/qr",
		"/share/poll/" + pollID + "/urls",
	}
	for _, path := range paths {
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, testutil.MakeRequest("GET", path, nil, nil))
		testutil.RequireStatus(t, w, 200)
	}
}
