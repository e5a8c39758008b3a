// Copyright (c) 2025 the QuickPoll authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger records votes and maintains per-option tallies.

RecordVote is the atomic boundary for "one vote per voter token": the
vote insert and the tally increment happen in one transaction, and the
votes table's UNIQUE(poll_id, voter_token) constraint decides the
winner under contention. A check-then-act split across HasVoted and a
later write would race; HasVoted exists only as a cheap early exit for
handlers.

Expected failures are sentinel errors the handlers map to HTTP
statuses:

	ErrPollNotFound
	ErrPollExpired
	ErrUnknownOption
	ErrAlreadyVoted

The ledger never notifies subscribers. The voting handler sequences
limiter, ledger, insight, and hub so the ledger stays a pure
state-transition component.
*/
package ledger
