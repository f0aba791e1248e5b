// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the election API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - AccountHandler: registration, login, identity upload, session state
  - VotingHandler: voting-window entry and ballot submission
  - CandidateHandler: candidate listing and admin management
  - AdminHandler: registrant verification queues and decisions
  - VoteAdminHandler: cast-ballot verification queues and decisions
  - ResultsHandler: on-demand tally
  - SettingsHandler: election window configuration

Handlers are created via constructor functions that accept *sql.DB,
Config, and (where mail is sent) *email.Mailer:

	account := handlers.NewAccountHandler(db, cfg, mailer)

# Voter Flow

A voter moves through registration, admin verification, and the
voting window:

	POST /register            → pending registration with identity images
	POST /login               → approved voters only, 24h before start
	POST /upload-verification → new identity images (also resubmission)
	GET  /session/state       → authoritative phase + lifecycle state
	POST /vote/enter          → records the 5-minute window anchor once
	POST /vote                → ballot; candidateId 0 is kotak kosong

The server, not the client, owns the window anchor: entering again
after a reload returns the original entry time, and a ballot past the
deadline is stored rejected. The sweeper package converts expired
windows into automatic abstain votes.

# Admin Flow

Admin routes sit behind a JWT session issued by POST /login:

	GET  /admin/users/pending  → registration verification queue
	POST /admin/verify         → approve (issues voting token) or reject
	GET  /admin/votes/pending  → ballot verification queue
	POST /admin/votes/verify   → approve or reject a ballot
	GET  /admin/results        → tally of approved ballots
	POST /admin/settings       → startTime/endTime (validated start < end)

# At-Most-Once Voting

db.CastVote flips users.has_voted conditionally inside a transaction;
the votes.user_id UNIQUE constraint backs it up. The client-side
hasVoted flag is UX only - this package is the enforcement point.
*/
package handlers
