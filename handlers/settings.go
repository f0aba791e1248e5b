// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/campus-vote/cliparse"
	"github.com/danielhkuo/campus-vote/election"
	"github.com/danielhkuo/campus-vote/middleware"
	"github.com/danielhkuo/campus-vote/models"
)

type SettingsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewSettingsHandler(conn *sql.DB, cfg cliparse.Config) *SettingsHandler {
	return &SettingsHandler{db: conn, cfg: cfg}
}

// Get handles GET /settings
// Public: voters need startTime/endTime for their countdown display.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		slog.Error("failed to query settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	settings := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			slog.Error("failed to scan setting", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, settings)
}

// Save handles POST /admin/settings
// Accepts a key/value map. Time bounds are validated before anything
// is written: both must parse, and start must precede end.
func (h *SettingsHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if len(req) == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "No settings provided")
		return
	}

	// Overlay the request onto the stored bounds and validate the
	// combined window.
	start, end, err := electionWindow(h.db)
	if err != nil {
		slog.Error("failed to load election settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if value, ok := req[models.SettingStartTime]; ok {
		if start, err = election.ParseSettingTime(value); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "startTime is not a valid timestamp")
			return
		}
	}
	if value, ok := req[models.SettingEndTime]; ok {
		if end, err = election.ParseSettingTime(value); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "endTime is not a valid timestamp")
			return
		}
	}
	if !start.IsZero() && !end.IsZero() && !start.Before(end) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "startTime must be before endTime")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	for key, value := range req {
		res, err := tx.Exec(`UPDATE settings SET value = $1 WHERE key = $2`, value, key)
		if err != nil {
			slog.Error("failed to update setting", "key", key, "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save settings")
			return
		}
		affected, err := res.RowsAffected()
		if err != nil {
			slog.Error("failed to read affected rows", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if affected == 0 {
			if _, err := tx.Exec(`INSERT INTO settings (key, value) VALUES ($1, $2)`, key, value); err != nil {
				slog.Error("failed to insert setting", "key", key, "error", err)
				middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save settings")
				return
			}
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit settings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}

	slog.Info("settings saved", "keys", len(req))
	middleware.JSONResponse(w, http.StatusOK, map[string]string{"message": "Settings saved"})
}
