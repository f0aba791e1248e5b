// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/campus-vote/cliparse"
	"github.com/danielhkuo/campus-vote/db"
	"github.com/danielhkuo/campus-vote/election"
	"github.com/danielhkuo/campus-vote/email"
	"github.com/danielhkuo/campus-vote/middleware"
	"github.com/danielhkuo/campus-vote/models"
)

// Rejection reasons recorded on invalid ballots.
const (
	reasonBypassedEntry = "Bypassed voting entry"
	reasonTimeExpired   = "Time limit exceeded (> 5 minutes)"
	reasonAdminRejected = "Rejected by admin"
)

type VotingHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	mailer *email.Mailer
	now    func() time.Time
}

func NewVotingHandler(conn *sql.DB, cfg cliparse.Config, mailer *email.Mailer) *VotingHandler {
	return &VotingHandler{db: conn, cfg: cfg, mailer: mailer, now: time.Now}
}

// Enter handles POST /vote/enter
// Records the voting-window anchor for a voter exactly once. A
// refresh or reopened tab hits this again and gets the original
// anchor back, so the 5-minute deadline is absolute.
func (h *VotingHandler) Enter(w http.ResponseWriter, r *http.Request) {
	var req models.EnterVotingRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.UserID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "userId is required")
		return
	}

	user, err := getUserByID(h.db, req.UserID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if user.HasVoted {
		middleware.ErrorResponse(w, http.StatusConflict, "User has already voted")
		return
	}
	if user.VerificationStatus != models.VerificationApproved {
		middleware.ErrorResponse(w, http.StatusForbidden, "Registration not verified")
		return
	}

	now := h.now()
	phase, err := electionPhase(h.db, now)
	if err != nil {
		slog.Error("failed to classify election phase", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	switch phase {
	case election.PhasePreStart:
		middleware.ErrorResponse(w, http.StatusForbidden, "The election has not started")
		return
	case election.PhaseEnded:
		middleware.ErrorResponse(w, http.StatusForbidden, "The election has ended")
		return
	}

	entry := user.VoteEntryTime
	if entry == nil {
		// First entry: persist the anchor. Re-entries keep the old one.
		_, err := h.db.Exec(`UPDATE users SET vote_entry_time = $1 WHERE id = $2 AND vote_entry_time IS NULL`,
			db.FormatTime(now), user.ID)
		if err != nil {
			slog.Error("failed to record entry time", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		// Reload in case a concurrent request won the race.
		user, err = getUserByID(h.db, user.ID)
		if err != nil || user.VoteEntryTime == nil {
			slog.Error("failed to reload entry time", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		entry = user.VoteEntryTime
		slog.Info("voting window opened", "user_id", user.ID, "entry", entry)
	}

	window := election.Window{Entry: *entry}
	middleware.JSONResponse(w, http.StatusOK, models.EnterVotingResponse{
		EntryTime:        *entry,
		RemainingSeconds: int(window.Remaining(now).Seconds()),
	})
}

// Vote handles POST /vote (form or multipart)
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	userID := r.FormValue("userId")
	candidateIDStr := r.FormValue("candidateId")
	if userID == "" || candidateIDStr == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "userId and candidateId are required")
		return
	}

	candidateID, err := strconv.Atoi(candidateIDStr)
	if err != nil || candidateID < 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "candidateId must be a non-negative number")
		return
	}

	user, err := getUserByID(h.db, userID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if user.HasVoted {
		middleware.ErrorResponse(w, http.StatusConflict, "User has already voted")
		return
	}

	now := h.now()
	phase, err := electionPhase(h.db, now)
	if err != nil {
		slog.Error("failed to classify election phase", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	switch phase {
	case election.PhasePreStart:
		middleware.ErrorResponse(w, http.StatusForbidden, "The election has not started")
		return
	case election.PhaseEnded:
		middleware.ErrorResponse(w, http.StatusForbidden, "The election has ended")
		return
	}

	// Resolve the candidate name for the confirmation mail; id 0 is
	// always the empty box.
	candidateName := models.KotakKosongName
	if candidateID != models.KotakKosongID {
		err := h.db.QueryRow(`SELECT name FROM candidates WHERE id = $1`, candidateID).Scan(&candidateName)
		if err == sql.ErrNoRows {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid candidate")
			return
		}
		if err != nil {
			slog.Error("failed to query candidate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
	}

	// The ballot is stored either way; votes cast outside a valid
	// window are recorded rejected so the committee sees them.
	status := models.VoteStatusPending
	reason := ""
	if user.VoteEntryTime == nil {
		status = models.VoteStatusRejected
		reason = reasonBypassedEntry
	} else if (election.Window{Entry: *user.VoteEntryTime}).Expired(now) {
		status = models.VoteStatusRejected
		reason = reasonTimeExpired
	}

	err = db.CastVote(h.db, db.CastParams{
		UserID:      user.ID,
		CandidateID: candidateID,
		KTMImage:    user.KTMImage,
		SelfImage:   user.ProfileImage,
		Status:      status,
		Reason:      reason,
		Source:      models.VoteSourceManual,
		At:          now,
	})
	if errors.Is(err, db.ErrAlreadyVoted) {
		middleware.ErrorResponse(w, http.StatusConflict, "User has already voted")
		return
	}
	if err != nil {
		slog.Error("failed to cast vote", "user_id", user.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to cast vote")
		return
	}

	slog.Info("vote cast", "user_id", user.ID, "candidate_id", candidateID, "status", status)

	if status == models.VoteStatusRejected {
		middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
			Message: "Voting window expired: the ballot was recorded as invalid",
			Status:  status,
		})
		return
	}

	go func() {
		if err := h.mailer.SendVoteConfirmation(user.Email, user.Name, candidateName); err != nil {
			slog.Error("failed to send vote confirmation", "email", user.Email, "error", err)
		}
	}()

	middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{
		Message: "Vote recorded",
		Status:  status,
	})
}
