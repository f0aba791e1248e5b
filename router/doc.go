// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the campus-vote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, mailer)

# Endpoints

Health:

	GET /health

Accounts (public):

	POST /register            - Register voter (multipart, identity images)
	POST /login               - Email+password login (admins get a JWT)
	POST /upload-verification - Replace identity images
	GET  /session/state       - Authoritative voter lifecycle state

Voting (public, server-enforced eligibility):

	POST /vote/enter - Open the 5-minute voting window
	POST /vote       - Cast the ballot (candidateId 0 = kotak kosong)

Reads (public):

	GET /candidates
	GET /settings
	GET /uploads/{file}

Administration (requires Bearer JWT with admin role):

	POST   /admin/candidates       - Add candidate (ballot number is the id)
	DELETE /admin/candidates/{id}  - Remove candidate
	GET    /admin/users/pending    - Verification queue
	GET    /admin/users            - Filterable voter list
	GET    /admin/users/search     - Name/NIM/email search
	POST   /admin/users/verify     - Approve or reject a registration
	GET    /admin/votes/pending    - Ballot verification queue
	GET    /admin/votes/rejected   - Invalidated ballots
	GET    /admin/votes/search     - Search ballots by voter
	POST   /admin/votes/verify     - Approve or reject a ballot
	GET    /admin/results          - Tally of approved votes
	POST   /admin/settings         - Update election settings

# Handler Initialization

The router creates handler instances with dependency injection. All
handlers receive the database connection and configuration; the ones
that notify voters also receive the mailer.
*/
package router
