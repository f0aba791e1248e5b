// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"time"

	"github.com/danielhkuo/campus-vote/db"
	"github.com/danielhkuo/campus-vote/election"
	"github.com/danielhkuo/campus-vote/models"
)

// userColumns is the canonical column list scanned by scanUser.
const userColumns = `id, name, nim, email, password_hash, role, verification_status,
	has_voted, profile_image, ktm_image, voting_token, vote_entry_time, reminder_sent, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var u models.User
	var entry sql.NullString
	var created string

	err := row.Scan(
		&u.ID, &u.Name, &u.NIM, &u.Email, &u.PasswordHash, &u.Role,
		&u.VerificationStatus, &u.HasVoted, &u.ProfileImage, &u.KTMImage,
		&u.VotingToken, &entry, &u.ReminderSent, &created,
	)
	if err != nil {
		return models.User{}, err
	}

	if entry.Valid && entry.String != "" {
		t, err := db.ParseTime(entry.String)
		if err != nil {
			return models.User{}, err
		}
		u.VoteEntryTime = &t
	}
	if u.CreatedAt, err = db.ParseTime(created); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func getUserByID(conn *sql.DB, id string) (models.User, error) {
	row := conn.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func getUserByEmail(conn *sql.DB, email string) (models.User, error) {
	row := conn.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func getUserByNIM(conn *sql.DB, nim string) (models.User, error) {
	row := conn.QueryRow(`SELECT `+userColumns+` FROM users WHERE nim = $1`, nim)
	return scanUser(row)
}

// electionWindow loads the configured start/end bounds. Unset keys
// come back as zero times; a database error is reported to the
// caller, which must fail closed rather than assume a phase.
func electionWindow(conn *sql.DB) (start, end time.Time, err error) {
	rows, err := conn.Query(`SELECT key, value FROM settings WHERE key IN ($1, $2)`,
		models.SettingStartTime, models.SettingEndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return time.Time{}, time.Time{}, err
		}
		parsed, err := election.ParseSettingTime(value)
		if err != nil {
			// An unparseable stored value behaves like an unset bound.
			continue
		}
		switch key {
		case models.SettingStartTime:
			start = parsed
		case models.SettingEndTime:
			end = parsed
		}
	}
	return start, end, rows.Err()
}

func electionPhase(conn *sql.DB, now time.Time) (election.Phase, error) {
	start, end, err := electionWindow(conn)
	if err != nil {
		return 0, err
	}
	return election.Classify(now, start, end), nil
}
