// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package auth provides identifier generation, password hashing, and
// admin session tokens.
//
// Row ids are random hex from crypto/rand (GenerateID). Voting tokens
// mailed to approved voters are UUIDs (NewVotingToken). Passwords are
// bcrypt hashes. Admin sessions are HS256 JWTs signed with the
// JWT_SECRET from the configuration; voters never hold a session
// token, their requests carry an explicit userId that the handlers
// re-check against the database.
package auth
