// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the campus-vote API server.

Campus Vote runs a student-association election: voter registration
with identity images, committee verification, a time-boxed 5-minute
ballot window per voter, a kotak kosong (empty box) abstain option,
and an admin tally of verified votes.

# Starting the Server

The server requires environment variables or CLI flags for
configuration:

	DATABASE_URL=vote.db JWT_SECRET=... go run .

Or with flags:

	go run . -p 8080 -t sqlite -d vote.db -jwt-secret ...

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite file path or PostgreSQL connection string
  - JWT_SECRET (-jwt-secret): Admin session signing secret

Optional settings:

  - PORT (-p): Server port (default: 8080)
  - DATABASE_TYPE (-t): "sqlite" (default) or "postgres"
  - UPLOAD_DIR (-uploads): Identity/candidate image directory (default: uploads)
  - ADMIN_EMAIL / ADMIN_PASSWORD: Seed admin account at startup
  - SMTP_HOST / SMTP_PORT / SMTP_EMAIL / SMTP_PASSWORD: Outgoing mail

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (accounts, voting, candidates, admin, results, settings)
  - election: Pure lifecycle and voting-window logic
  - sweeper: Background window enforcement and reminder mail
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, admin JWT, JSON helpers
  - models: Request/response and domain types
  - auth: Passwords, IDs, admin sessions
  - email: SMTP notifications
  - db: Schema creation and the vote-casting transaction
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
