// Copyright (c) 2025 the QuickPoll authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines the route table using Go 1.22+ method and
pattern routing on the standard ServeMux.

# Routes

Poll management:

	POST /api/polls
	GET  /api/polls/{id}
	POST /api/polls/{id}/toggle-results

Voting:

	POST /api/polls/{id}/votes

Live streams (server-sent events):

	GET /api/stream/poll/{id}
	GET /api/stream/poll/{id}/creator

Sharing:

	GET /poll/{id}
	GET /share/poll/{id}
	GET /share/poll/{id}/qr
	GET /share/poll/{id}/urls

NewRouter constructs the shared broadcast hub and vote ledger and
injects them into the handlers; the abuse limiter is passed in by main
so it can also run the limiter's purge ticker.
*/
package router
