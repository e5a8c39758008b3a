// Copyright (c) 2025 the QuickPoll authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers implements the HTTP request handlers.

# Handler Groups

  - PollHandler: poll creation, retrieval, results visibility toggle
  - VotingHandler: vote submission (the limiter/ledger/insight/hub
    orchestrator)
  - StreamHandler: public and creator server-sent event streams
  - ShareHandler: share links, OG preview page, QR code PNG

# Vote Submission Flow

SubmitVote sequences the core components:

 1. poll lookup and expiry check
 2. device fingerprint -> abuse limiter (429 when limited)
 3. ledger.RecordVote (atomic duplicate/option/expiry enforcement)
 4. hub: vote-update, then auto-insight when the sample is large
    enough, then visibility-change (a recorded vote forces results
    open)

Rejections are expected outcomes and map to 4xx responses; only
storage failures surface as 500.

# Streams

Stream handlers adapt hub subscriptions to the SSE wire format: one
named event per push, flushed immediately, with comment keepalives.
The creator stream requires the poll's secret key; both streams carry
identical events.
*/
package handlers
