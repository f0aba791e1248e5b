// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/campus-vote/cliparse"
	"github.com/danielhkuo/campus-vote/middleware"
	"github.com/danielhkuo/campus-vote/models"
)

type VoteAdminHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVoteAdminHandler(conn *sql.DB, cfg cliparse.Config) *VoteAdminHandler {
	return &VoteAdminHandler{db: conn, cfg: cfg}
}

// voteDetailQuery joins a vote with its voter and candidate. Kotak
// kosong votes have no candidates row, hence the COALESCE.
const voteDetailQuery = `
	SELECT votes.id, votes.user_id,
	       COALESCE(users.name, ''), COALESCE(users.nim, ''), COALESCE(users.email, ''),
	       votes.ktm_image, votes.self_image,
	       COALESCE(candidates.name, 'Kotak Kosong'),
	       votes.status, votes.rejection_reason
	FROM votes
	LEFT JOIN users ON users.id = votes.user_id
	LEFT JOIN candidates ON candidates.id = votes.candidate_id
`

func (h *VoteAdminHandler) queryVoteDetails(where string, args ...any) ([]models.VoteDetail, error) {
	rows, err := h.db.Query(voteDetailQuery+where, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := []models.VoteDetail{}
	for rows.Next() {
		var d models.VoteDetail
		err := rows.Scan(&d.ID, &d.UserID, &d.UserName, &d.UserNIM, &d.UserEmail,
			&d.KTMImage, &d.SelfImage, &d.CandidateName, &d.Status, &d.RejectionReason)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// PendingVotes handles GET /admin/votes/pending
func (h *VoteAdminHandler) PendingVotes(w http.ResponseWriter, r *http.Request) {
	details, err := h.queryVoteDetails(`WHERE votes.status = $1 ORDER BY votes.cast_at`, models.VoteStatusPending)
	if err != nil {
		slog.Error("failed to query pending votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, details)
}

// RejectedVotes handles GET /admin/votes/rejected
func (h *VoteAdminHandler) RejectedVotes(w http.ResponseWriter, r *http.Request) {
	details, err := h.queryVoteDetails(`WHERE votes.status = $1 ORDER BY votes.cast_at`, models.VoteStatusRejected)
	if err != nil {
		slog.Error("failed to query rejected votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, details)
}

// SearchVotes handles GET /admin/votes/search?q=
func (h *VoteAdminHandler) SearchVotes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Search query is required")
		return
	}

	pattern := "%" + query + "%"
	details, err := h.queryVoteDetails(
		`WHERE LOWER(users.nim) LIKE LOWER($1) OR LOWER(users.name) LIKE LOWER($2) ORDER BY votes.cast_at`,
		pattern, pattern)
	if err != nil {
		slog.Error("failed to search votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, details)
}

// VerifyVote handles POST /admin/votes/verify
// A rejected vote stays rejected and the voter cannot vote again;
// the decision is recorded, not reversed.
func (h *VoteAdminHandler) VerifyVote(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var res sql.Result
	var err error
	switch req.Action {
	case "approve":
		res, err = h.db.Exec(`UPDATE votes SET status = $1, rejection_reason = '' WHERE id = $2`,
			models.VoteStatusApproved, req.VoteID)
	case "reject":
		res, err = h.db.Exec(`UPDATE votes SET status = $1, rejection_reason = $2 WHERE id = $3`,
			models.VoteStatusRejected, reasonAdminRejected, req.VoteID)
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "action must be approve or reject")
		return
	}
	if err != nil {
		slog.Error("failed to verify vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to process vote")
		return
	}

	affected, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read affected rows", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Vote not found")
		return
	}

	slog.Info("vote verified", "vote_id", req.VoteID, "action", req.Action)
	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "Vote processed"})
}
