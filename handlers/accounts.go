// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/campus-vote/auth"
	"github.com/danielhkuo/campus-vote/cliparse"
	"github.com/danielhkuo/campus-vote/db"
	"github.com/danielhkuo/campus-vote/election"
	"github.com/danielhkuo/campus-vote/email"
	"github.com/danielhkuo/campus-vote/middleware"
	"github.com/danielhkuo/campus-vote/models"
)

// loginLeadTime is how long before the election opens that voters may
// already log in, so they can complete identity verification in time.
const loginLeadTime = 24 * time.Hour

type AccountHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	mailer *email.Mailer
	now    func() time.Time
}

func NewAccountHandler(conn *sql.DB, cfg cliparse.Config, mailer *email.Mailer) *AccountHandler {
	return &AccountHandler{db: conn, cfg: cfg, mailer: mailer, now: time.Now}
}

// validNIM checks the student-number format: 150 followed by 5 digits.
func validNIM(nim string) bool {
	if len(nim) != 8 || nim[:3] != "150" {
		return false
	}
	for i := 3; i < 8; i++ {
		if nim[i] < '0' || nim[i] > '9' {
			return false
		}
	}
	return true
}

// Register handles POST /register (multipart)
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	name := r.FormValue("name")
	nim := r.FormValue("nim")
	userEmail := r.FormValue("email")
	password := r.FormValue("password")

	if name == "" || nim == "" || userEmail == "" || password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name, nim, email, and password are required")
		return
	}
	if !validNIM(nim) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "nim must be 150xxxxx (8 digits, starting with 150)")
		return
	}

	// Registration closes the moment the election starts.
	start, _, err := electionWindow(h.db)
	if err != nil {
		slog.Error("failed to load election settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !start.IsZero() && !h.now().Before(start) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Registration closed: the election has started")
		return
	}

	// Reject duplicate NIM or email up front for a precise message.
	if existing, err := getUserByNIM(h.db, nim); err == nil && existing.ID != "" {
		middleware.ErrorResponse(w, http.StatusConflict, "NIM already registered")
		return
	}
	if existing, err := getUserByEmail(h.db, userEmail); err == nil && existing.ID != "" {
		middleware.ErrorResponse(w, http.StatusConflict, "Email already registered")
		return
	}

	profileFile, err1 := formFile(r, "profile_image")
	ktmFile, err2 := formFile(r, "ktm_image")
	if err1 != nil || err2 != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Both profile_image and ktm_image are required")
		return
	}

	profilePath, err := saveUpload(profileFile, h.cfg.UploadDir)
	if err != nil {
		slog.Error("failed to store profile image", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store profile image")
		return
	}
	ktmPath, err := saveUpload(ktmFile, h.cfg.UploadDir)
	if err != nil {
		slog.Error("failed to store ktm image", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store KTM image")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to process password")
		return
	}

	id, err := auth.GenerateID(16)
	if err != nil {
		slog.Error("failed to generate user ID", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	now := h.now()
	_, err = h.db.Exec(`
		INSERT INTO users (id, name, nim, email, password_hash, role, verification_status,
			has_voted, profile_image, ktm_image, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, id, name, nim, userEmail, hash, models.RoleVoter, models.VerificationPending,
		false, profilePath, ktmPath, db.FormatTime(now))
	if err != nil {
		// A concurrent registration can slip past the pre-checks; the
		// UNIQUE constraints on nim and email are the real guard.
		if db.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "NIM or email already registered")
			return
		}
		slog.Error("failed to insert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	slog.Info("registration received", "user_id", id, "nim", nim)

	go func() {
		if err := h.mailer.SendWelcome(userEmail, name); err != nil {
			slog.Error("failed to send welcome mail", "email", userEmail, "error", err)
		}
	}()

	user, err := getUserByID(h.db, id)
	if err != nil {
		slog.Error("failed to reload user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, user)
}

// Login handles POST /login
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Email == "" || req.Password == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := getUserByEmail(h.db, req.Email)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "User not registered")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if user.Role == models.RoleAdmin {
		token, err := auth.SignSession(user.ID, user.Role, h.cfg.JWTSecret)
		if err != nil {
			slog.Error("failed to sign session", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create session")
			return
		}
		middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{User: user, Token: token})
		return
	}

	if user.VerificationStatus != models.VerificationApproved {
		middleware.ErrorResponse(w, http.StatusForbidden, "Registration not verified yet")
		return
	}

	// Voter login opens 24 hours before the election and closes with it.
	start, end, err := electionWindow(h.db)
	if err != nil {
		slog.Error("failed to load election settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	now := h.now()
	if !start.IsZero() && now.Before(start.Add(-loginLeadTime)) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Login opens 24 hours before the election starts")
		return
	}
	if !end.IsZero() && !now.Before(end) {
		middleware.ErrorResponse(w, http.StatusForbidden, "The election has ended")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{User: user})
}

// UploadVerification handles POST /upload-verification (multipart).
// Also serves as resubmission after a rejected registration: new
// identity images put the registrant back into the pending queue.
func (h *AccountHandler) UploadVerification(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	nim := r.FormValue("nim")
	if nim == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "nim is required")
		return
	}

	profileFile, err1 := formFile(r, "profile_image")
	ktmFile, err2 := formFile(r, "ktm_image")
	if err1 != nil || err2 != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Both profile_image and ktm_image are required")
		return
	}

	user, err := getUserByNIM(h.db, nim)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	profilePath, err := saveUpload(profileFile, h.cfg.UploadDir)
	if err != nil {
		slog.Error("failed to store profile image", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store profile image")
		return
	}
	ktmPath, err := saveUpload(ktmFile, h.cfg.UploadDir)
	if err != nil {
		slog.Error("failed to store ktm image", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to store KTM image")
		return
	}

	status := user.VerificationStatus
	if status == models.VerificationRejected {
		status = models.VerificationPending
	}

	_, err = h.db.Exec(`
		UPDATE users SET profile_image = $1, ktm_image = $2, verification_status = $3 WHERE id = $4
	`, profilePath, ktmPath, status, user.ID)
	if err != nil {
		slog.Error("failed to update user images", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("identity images uploaded", "user_id", user.ID, "nim", nim)

	updated, err := getUserByID(h.db, user.ID)
	if err != nil {
		slog.Error("failed to reload user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, updated)
}

// State handles GET /session/state?userId=...
// It is the authoritative lifecycle answer for one voter. Every error
// path is a 5xx, never a permissive default: a client that cannot
// reach this endpoint must not guess its way onto the ballot screen.
func (h *AccountHandler) State(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "userId is required")
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

	start, end, err := electionWindow(h.db)
	if err != nil {
		slog.Error("failed to load election settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	now := h.now()
	phase := election.Classify(now, start, end)
	state := election.DeriveState(election.VoterRecord{
		VerificationStatus: user.VerificationStatus,
		IdentityUploaded:   user.IdentityUploaded(),
		HasVoted:           user.HasVoted,
	}, phase)

	resp := models.SessionState{
		Phase: phase.String(),
		State: state.String(),
	}
	if !start.IsZero() {
		resp.Opens = humanize.Time(start)
	}
	if !end.IsZero() {
		resp.Closes = humanize.Time(end)
	}
	if state == election.StateEligible && user.VoteEntryTime != nil {
		remaining := int(election.Window{Entry: *user.VoteEntryTime}.Remaining(now).Seconds())
		resp.RemainingSeconds = &remaining
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// formFile fetches a single multipart file header.
func formFile(r *http.Request, field string) (*multipart.FileHeader, error) {
	f, header, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	f.Close()
	return header, nil
}
