// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - LoginRequest: email, password
  - EnterVotingRequest: userId
  - VerifyUserRequest: userId, action (approve|reject)
  - VerifyVoteRequest: voteId, action (approve|reject)

Registration, identity upload, candidate creation, and vote submission
arrive as multipart/form fields and have no JSON request type.

# Response Types

  - LoginResponse: user record, plus a session token for admins
  - EnterVotingResponse: entryTime, remainingSeconds
  - VoteResponse: message, status
  - SessionState: phase, state, remainingSeconds, opens, closes
  - ResultRow: candidateId, name, imageUrl, count
  - ErrorResponse: error, message

# Domain Types

  - User: registrant/voter record incl. verification status, has-voted
    flag, identity image paths, and voting window entry time
  - Candidate: ballot entry (id is the ballot number; 0 is reserved for
    kotak kosong)
  - Vote: a cast ballot with its own verification status
  - VoteDetail: admin queue row joining vote, voter, and candidate

# Constants

Verification status:

	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"

Vote status:

	VoteStatusPending  = "pending"
	VoteStatusApproved = "approved"
	VoteStatusRejected = "rejected"

Vote source:

	VoteSourceManual  = "manual"
	VoteSourceTimeout = "timeout"
*/
package models
