// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/danielhkuo/campus-vote/auth"
)

// ErrAlreadyVoted is returned when a ballot arrives for a voter whose
// has_voted flag was already set.
var ErrAlreadyVoted = errors.New("user has already voted")

// IsUniqueViolation reports whether err is a UNIQUE constraint
// violation from either supported driver. Callers racing an insert
// against the schema's UNIQUE columns use this to answer a conflict
// instead of a generic server error.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	// modernc.org/sqlite reports constraint errors by message.
	return strings.Contains(err.Error(), "UNIQUE constraint")
}

type CastParams struct {
	UserID      string
	CandidateID int
	KTMImage    string
	SelfImage   string
	Status      string
	Reason      string
	Source      string
	At          time.Time
}

// CastVote atomically flips has_voted and inserts the ballot. The
// conditional update is the at-most-once guard: whichever submission
// (manual or the abstain sweeper) flips the flag first wins, every
// later attempt sees zero affected rows and ErrAlreadyVoted. The
// voting-window anchor is consumed in the same statement.
func CastVote(conn *sql.DB, p CastParams) error {
	tx, err := conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE users SET has_voted = TRUE, vote_entry_time = NULL
		WHERE id = $1 AND has_voted = FALSE
	`, p.UserID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAlreadyVoted
	}

	voteID, err := auth.GenerateID(16)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`
		INSERT INTO votes (id, user_id, candidate_id, cast_at, ktm_image, self_image, status, rejection_reason, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, voteID, p.UserID, p.CandidateID, FormatTime(p.At), p.KTMImage, p.SelfImage, p.Status, p.Reason, p.Source)
	if err != nil {
		return err
	}

	return tx.Commit()
}
