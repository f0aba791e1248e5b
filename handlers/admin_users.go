// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/campus-vote/auth"
	"github.com/danielhkuo/campus-vote/cliparse"
	"github.com/danielhkuo/campus-vote/db"
	"github.com/danielhkuo/campus-vote/email"
	"github.com/danielhkuo/campus-vote/middleware"
	"github.com/danielhkuo/campus-vote/models"
)

type AdminHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	mailer *email.Mailer
}

func NewAdminHandler(conn *sql.DB, cfg cliparse.Config, mailer *email.Mailer) *AdminHandler {
	return &AdminHandler{db: conn, cfg: cfg, mailer: mailer}
}

func collectUsers(rows *sql.Rows) ([]models.User, error) {
	defer rows.Close()
	users := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// PendingUsers handles GET /admin/users/pending
func (h *AdminHandler) PendingUsers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`SELECT `+userColumns+` FROM users WHERE verification_status = $1 AND role = $2 ORDER BY created_at`,
		models.VerificationPending, models.RoleVoter)
	if err != nil {
		slog.Error("failed to query pending users", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	users, err := collectUsers(rows)
	if err != nil {
		slog.Error("failed to scan pending users", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, users)
}

// ListUsers handles GET /admin/users?q=&verificationStatus=&hasVoted=
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	status := r.URL.Query().Get("verificationStatus")
	hasVoted := r.URL.Query().Get("hasVoted")

	where := `role = $1`
	args := []any{models.RoleVoter}

	if query != "" {
		pattern := "%" + query + "%"
		where += fmt.Sprintf(` AND (LOWER(name) LIKE LOWER($%d) OR LOWER(nim) LIKE LOWER($%d) OR LOWER(email) LIKE LOWER($%d))`,
			len(args)+1, len(args)+2, len(args)+3)
		args = append(args, pattern, pattern, pattern)
	}
	if status != "" && status != "all" {
		where += fmt.Sprintf(` AND verification_status = $%d`, len(args)+1)
		args = append(args, status)
	}
	switch hasVoted {
	case "yes":
		where += ` AND has_voted = TRUE`
	case "no":
		where += ` AND has_voted = FALSE`
	}

	rows, err := h.db.Query(`SELECT `+userColumns+` FROM users WHERE `+where+` ORDER BY created_at`, args...)
	if err != nil {
		slog.Error("failed to query users", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	users, err := collectUsers(rows)
	if err != nil {
		slog.Error("failed to scan users", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, users)
}

// SearchUsers handles GET /admin/users/search?q=
func (h *AdminHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Search query is required")
		return
	}

	pattern := "%" + query + "%"
	rows, err := h.db.Query(`SELECT `+userColumns+` FROM users
		WHERE (LOWER(nim) LIKE LOWER($1) OR LOWER(name) LIKE LOWER($2)) AND role <> $3 ORDER BY name`,
		pattern, pattern, models.RoleAdmin)
	if err != nil {
		slog.Error("failed to search users", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	users, err := collectUsers(rows)
	if err != nil {
		slog.Error("failed to scan users", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, users)
}

// VerifyUser handles POST /admin/users/verify
// Approval issues the voting token and mails it; rejection keeps the
// row so the registrant can resubmit identity images.
func (h *AdminHandler) VerifyUser(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyUserRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
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

	switch req.Action {
	case "approve":
		token := auth.NewVotingToken()
		_, err := h.db.Exec(`UPDATE users SET verification_status = $1, voting_token = $2 WHERE id = $3`,
			models.VerificationApproved, token, user.ID)
		if err != nil {
			slog.Error("failed to approve user", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to approve user")
			return
		}

		slog.Info("registration approved", "user_id", user.ID, "nim", user.NIM)
		go func() {
			if err := h.mailer.SendApproval(user.Email, user.Name, token); err != nil {
				slog.Error("failed to send approval mail", "email", user.Email, "error", err)
			}
		}()

	case "reject":
		_, err := h.db.Exec(`UPDATE users SET verification_status = $1 WHERE id = $2`,
			models.VerificationRejected, user.ID)
		if err != nil {
			slog.Error("failed to reject user", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reject user")
			return
		}
		slog.Info("registration rejected", "user_id", user.ID, "nim", user.NIM)

	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "action must be approve or reject")
		return
	}

	updated, err := getUserByID(h.db, user.ID)
	if err != nil {
		slog.Error("failed to reload user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, updated)
}

// SeedAdmin creates the admin account from ADMIN_EMAIL/ADMIN_PASSWORD
// on first start. Idempotent: an existing account is left alone.
func SeedAdmin(conn *sql.DB, cfg cliparse.Config) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM users WHERE email = $1`, cfg.AdminEmail).Scan(&count); err != nil {
		return fmt.Errorf("failed to check admin account: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	id, err := auth.GenerateID(16)
	if err != nil {
		return err
	}

	_, err = conn.Exec(`
		INSERT INTO users (id, name, nim, email, password_hash, role, verification_status, has_voted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, id, "Election Admin", "admin", cfg.AdminEmail, hash,
		models.RoleAdmin, models.VerificationApproved, false, db.FormatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	slog.Info("admin account seeded", "email", cfg.AdminEmail)
	return nil
}
