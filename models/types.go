package models

import "time"

// User roles
const (
	RoleVoter = "voter"
	RoleAdmin = "admin"
)

// Registrant verification status values
const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

// Vote status values
const (
	VoteStatusPending  = "pending"
	VoteStatusApproved = "approved"
	VoteStatusRejected = "rejected"
)

// Vote submission sources
const (
	VoteSourceManual  = "manual"
	VoteSourceTimeout = "timeout"
)

// KotakKosongID is the reserved candidate id for the abstain
// ("kotak kosong", empty box) ballot option.
const KotakKosongID = 0

// KotakKosongName is the display name used in results and confirmations.
const KotakKosongName = "Kotak Kosong"

// Settings keys for the election voting window
const (
	SettingStartTime = "startTime"
	SettingEndTime   = "endTime"
)

// Request types

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type EnterVotingRequest struct {
	UserID string `json:"userId"`
}

// Action values: "approve" or "reject"
type VerifyUserRequest struct {
	UserID string `json:"userId"`
	Action string `json:"action"`
}

type VerifyVoteRequest struct {
	VoteID string `json:"voteId"`
	Action string `json:"action"`
}

// Response types

type LoginResponse struct {
	User User `json:"user"`
	// Token is a signed admin session token, set only for admin logins.
	Token string `json:"token,omitempty"`
}

type EnterVotingResponse struct {
	EntryTime        time.Time `json:"entryTime"`
	RemainingSeconds int       `json:"remainingSeconds"`
}

type VoteResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
}

// SessionState is the authoritative answer to "which screen is legal
// for this voter right now". Clients poll it instead of trusting a
// locally cached copy of the voter record.
type SessionState struct {
	Phase            string `json:"phase"`
	State            string `json:"state"`
	RemainingSeconds *int   `json:"remainingSeconds,omitempty"`
	Opens            string `json:"opens,omitempty"`
	Closes           string `json:"closes,omitempty"`
}

type ResultRow struct {
	CandidateID int    `json:"candidateId"`
	Name        string `json:"name"`
	ImageURL    string `json:"imageUrl"`
	Count       int64  `json:"count"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Domain types

type User struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	NIM                string     `json:"nim"`
	Email              string     `json:"email"`
	PasswordHash       string     `json:"-"`
	Role               string     `json:"role"`
	VerificationStatus string     `json:"verificationStatus"`
	HasVoted           bool       `json:"hasVoted"`
	ProfileImage       string     `json:"profileImage"`
	KTMImage           string     `json:"ktmImage"`
	VotingToken        string     `json:"-"`
	VoteEntryTime      *time.Time `json:"voteEntryTime,omitempty"`
	ReminderSent       bool       `json:"-"`
	CreatedAt          time.Time  `json:"createdAt"`
}

// IdentityUploaded reports whether both identity images are on file.
func (u User) IdentityUploaded() bool {
	return u.ProfileImage != "" && u.KTMImage != ""
}

type Candidate struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Visi     string `json:"visi"`
	Misi     string `json:"misi"`
	ImageURL string `json:"imageUrl"`
}

type Vote struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	CandidateID     int       `json:"candidateId"`
	CastAt          time.Time `json:"castAt"`
	KTMImage        string    `json:"ktmImage"`
	SelfImage       string    `json:"selfImage"`
	Status          string    `json:"status"`
	RejectionReason string    `json:"rejectionReason,omitempty"`
	Source          string    `json:"source"`
}

// VoteDetail is the admin verification-queue row: a vote joined with
// the voter and candidate it belongs to.
type VoteDetail struct {
	ID              string `json:"id"`
	UserID          string `json:"userId"`
	UserName        string `json:"userName"`
	UserNIM         string `json:"userNim"`
	UserEmail       string `json:"userEmail"`
	KTMImage        string `json:"ktmImage"`
	SelfImage       string `json:"selfImage"`
	CandidateName   string `json:"candidateName"`
	Status          string `json:"status"`
	RejectionReason string `json:"rejectionReason,omitempty"`
}
