// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/campus-vote/cliparse"
	"github.com/danielhkuo/campus-vote/middleware"
	"github.com/danielhkuo/campus-vote/models"
)

type CandidateHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewCandidateHandler(conn *sql.DB, cfg cliparse.Config) *CandidateHandler {
	return &CandidateHandler{db: conn, cfg: cfg}
}

// List handles GET /candidates
func (h *CandidateHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`SELECT id, name, visi, misi, image_url FROM candidates ORDER BY id`)
	if err != nil {
		slog.Error("failed to query candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.Name, &c.Visi, &c.Misi, &c.ImageURL); err != nil {
			slog.Error("failed to scan candidate", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		candidates = append(candidates, c)
	}

	middleware.JSONResponse(w, http.StatusOK, candidates)
}

// Create handles POST /admin/candidates (multipart)
// The ballot number supplied by the admin becomes the candidate id;
// 0 is reserved for kotak kosong and rejected.
func (h *CandidateHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	name := r.FormValue("name")
	visi := r.FormValue("visi")
	misi := r.FormValue("misi")
	numberStr := r.FormValue("number")

	if name == "" || numberStr == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name and number are required")
		return
	}
	number, err := strconv.Atoi(numberStr)
	if err != nil || number <= models.KotakKosongID {
		middleware.ErrorResponse(w, http.StatusBadRequest, "number must be a positive ballot number")
		return
	}

	// Check the ballot number before touching the disk so a conflict
	// leaves no orphaned image behind.
	var exists int
	if err := h.db.QueryRow(`SELECT COUNT(*) FROM candidates WHERE id = $1`, number).Scan(&exists); err != nil {
		slog.Error("failed to check candidate number", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if exists > 0 {
		middleware.ErrorResponse(w, http.StatusConflict, "Ballot number already in use")
		return
	}

	imageFile, err := formFile(r, "image")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "image is required")
		return
	}
	imagePath, err := saveUpload(imageFile, h.cfg.UploadDir)
	if err != nil {
		slog.Error("failed to store candidate image", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store image")
		return
	}

	_, err = h.db.Exec(`
		INSERT INTO candidates (id, name, visi, misi, image_url) VALUES ($1, $2, $3, $4, $5)
	`, number, name, visi, misi, imagePath)
	if err != nil {
		slog.Error("failed to insert candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create candidate")
		return
	}

	slog.Info("candidate created", "candidate_id", number, "name", name)

	middleware.JSONResponse(w, http.StatusCreated, models.Candidate{
		ID: number, Name: name, Visi: visi, Misi: misi, ImageURL: imagePath,
	})
}

// Delete handles DELETE /admin/candidates/{id}
func (h *CandidateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid candidate id")
		return
	}

	res, err := h.db.Exec(`DELETE FROM candidates WHERE id = $1`, id)
	if err != nil {
		slog.Error("failed to delete candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to delete candidate")
		return
	}
	affected, err := res.RowsAffected()
	if err != nil {
		slog.Error("failed to read affected rows", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Candidate not found")
		return
	}

	slog.Info("candidate deleted", "candidate_id", id)
	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "Candidate deleted"})
}
