// Copyright (c) 2025 the QuickPoll authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, domain, and stream payload
types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreatePollRequest: question, options (delimited string), expiryHours
  - VoteRequest: optionId, voterToken

# Response Types

Types for JSON responses:

  - PollResponse: poll with options, tallies, and optional insight
  - OptionResponse: option with current vote count
  - VoteResponse: confirmation message
  - ToggleResultsResponse: new visibility flag
  - ShareURLsResponse: canonical share links for a poll
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Poll: question, expiry, visibility flag, secret key
  - Option: display text and vote count
  - Vote: one voter token's choice on a poll
  - OptionTally, TallySnapshot: per-option counts returned by the ledger

# Stream Payloads

Shapes serialized into server-sent events:

  - VoteUpdatePayload: pollId, totalVotes, per-option votes + percentage
  - InsightPayload: derived insight text
  - VisibilityPayload: resultsVisible flag

Event names:

	EventConnected        = "connected"
	EventVoteUpdate       = "vote-update"
	EventAutoInsight      = "auto-insight"
	EventVisibilityChange = "visibility-change"
*/
package models
