// Copyright (c) 2025 the QuickPoll authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and
indexes. The DDL avoids database-specific defaults (NOW() and friends)
so the same schema runs on postgres and sqlite.

# Tables

The schema includes:

  - polls: question, expiry, visibility flag, creator secret key
  - poll_options: display text, running vote count, creation position
  - votes: one row per (poll, voter token)

# Relationships

	polls 1──* poll_options
	polls 1──* votes
	poll_options 1──* votes

All foreign keys use ON DELETE CASCADE.

# Invariants

  - polls.secret_key is UNIQUE: the creator credential is unambiguous
    process-wide.
  - votes has UNIQUE(poll_id, voter_token): the database is the atomic
    arbiter of "one vote per voter", not application-level checks.
*/
package db
