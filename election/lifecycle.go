// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package election

import "github.com/danielhkuo/campus-vote/models"

// State is the single legal screen/action for a voter.
type State int

const (
	StateMustRegister State = iota
	StateAwaitingVerification
	StateRejected
	StateMustUploadIdentity
	StateWaitingForOpen
	StateEligible
	StateVoted
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateMustRegister:
		return "must_register"
	case StateAwaitingVerification:
		return "awaiting_verification"
	case StateRejected:
		return "rejected"
	case StateMustUploadIdentity:
		return "must_upload_identity"
	case StateWaitingForOpen:
		return "waiting_for_open"
	case StateEligible:
		return "eligible_to_vote"
	case StateVoted:
		return "vote_submitted"
	case StateEnded:
		return "election_ended"
	}
	return "unknown"
}

// VoterRecord is the slice of a persisted user that state derivation
// depends on. A zero VoterRecord stands for "no registration yet".
type VoterRecord struct {
	VerificationStatus string
	IdentityUploaded   bool
	HasVoted           bool
}

// DeriveState computes the lifecycle state from the voter record and
// the election phase. It is a pure function: deriving twice from the
// same inputs always yields the same state, so a reload lands the
// voter on the same screen.
//
// A voted voter stays in StateVoted even after the election closes;
// StateEnded only applies to voters who never cast a ballot.
func DeriveState(rec VoterRecord, phase Phase) State {
	if rec.HasVoted {
		return StateVoted
	}
	if phase == PhaseEnded {
		return StateEnded
	}

	switch rec.VerificationStatus {
	case "":
		return StateMustRegister
	case models.VerificationPending:
		return StateAwaitingVerification
	case models.VerificationRejected:
		return StateRejected
	}

	// Approved from here on.
	if !rec.IdentityUploaded {
		return StateMustUploadIdentity
	}
	if phase == PhasePreStart {
		return StateWaitingForOpen
	}
	return StateEligible
}
