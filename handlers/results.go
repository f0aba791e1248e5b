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

// rejectedRowID is the synthetic candidate id under which rejected
// ("suara hangus") ballots are reported in the tally.
const rejectedRowID = 999999

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResultsHandler(conn *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: conn, cfg: cfg}
}

// Get handles GET /admin/results
// The tally is derived on demand: approved votes grouped by
// candidate, plus one row for kotak kosong and, when present, one
// for rejected ballots. Nothing is cached or stored.
func (h *ResultsHandler) Get(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT candidates.id, candidates.name, candidates.image_url, COUNT(votes.id)
		FROM candidates
		LEFT JOIN votes ON votes.candidate_id = candidates.id AND votes.status = $1
		GROUP BY candidates.id, candidates.name, candidates.image_url
		ORDER BY candidates.id
	`, models.VoteStatusApproved)
	if err != nil {
		slog.Error("failed to query results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	results := []models.ResultRow{}
	for rows.Next() {
		var row models.ResultRow
		if err := rows.Scan(&row.CandidateID, &row.Name, &row.ImageURL, &row.Count); err != nil {
			slog.Error("failed to scan result row", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var kotakKosong int64
	err = h.db.QueryRow(`SELECT COUNT(*) FROM votes WHERE candidate_id = $1 AND status = $2`,
		models.KotakKosongID, models.VoteStatusApproved).Scan(&kotakKosong)
	if err != nil {
		slog.Error("failed to count abstain votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	results = append(results, models.ResultRow{
		CandidateID: models.KotakKosongID,
		Name:        models.KotakKosongName,
		ImageURL:    "/kotakkosong.png",
		Count:       kotakKosong,
	})

	var rejected int64
	err = h.db.QueryRow(`SELECT COUNT(*) FROM votes WHERE status = $1`, models.VoteStatusRejected).Scan(&rejected)
	if err != nil {
		slog.Error("failed to count rejected votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if rejected > 0 {
		results = append(results, models.ResultRow{
			CandidateID: rejectedRowID,
			Name:        "Suara Hangus",
			Count:       rejected,
		})
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}
