// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sweeper

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/campus-vote/cliparse"
	"github.com/danielhkuo/campus-vote/db"
	"github.com/danielhkuo/campus-vote/election"
	"github.com/danielhkuo/campus-vote/email"
	"github.com/danielhkuo/campus-vote/models"
)

const (
	// abstainInterval is how often expired voting windows are swept.
	abstainInterval = 5 * time.Second
	// reminderInterval is how often the pre-election reminder check runs.
	reminderInterval = 10 * time.Minute
	// reminderLeadTime is how close to the start the reminders go out.
	reminderLeadTime = 24 * time.Hour
)

// Sweeper runs the background enforcement of the per-voter voting
// window: a voter whose 5-minute window elapses without a ballot gets
// exactly one automatic kotak kosong vote. It also sends the
// pre-election reminder mail.
type Sweeper struct {
	db     *sql.DB
	cfg    cliparse.Config
	mailer *email.Mailer
	now    func() time.Time
}

func New(conn *sql.DB, cfg cliparse.Config, mailer *email.Mailer) *Sweeper {
	return &Sweeper{db: conn, cfg: cfg, mailer: mailer, now: time.Now}
}

// Run loops until the context is cancelled. Sweep failures are logged
// and retried on the next tick; a voter past their deadline must not
// stay without a recorded vote because one attempt failed.
func (s *Sweeper) Run(ctx context.Context) {
	abstain := time.NewTicker(abstainInterval)
	defer abstain.Stop()
	reminder := time.NewTicker(reminderInterval)
	defer reminder.Stop()

	slog.Info("sweeper started", "abstain_interval", abstainInterval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("sweeper stopped")
			return
		case <-abstain.C:
			if n, err := s.SweepAbstain(ctx); err != nil {
				slog.Error("abstain sweep failed", "error", err)
			} else if n > 0 {
				slog.Info("abstain sweep completed", "votes", n)
			}
		case <-reminder.C:
			if n, err := s.SendReminders(ctx); err != nil {
				slog.Error("reminder sweep failed", "error", err)
			} else if n > 0 {
				slog.Info("reminders sent", "count", n)
			}
		}
	}
}

type expiredVoter struct {
	id, name, email, ktmImage, selfImage string
	entry                                time.Time
}

// SweepAbstain casts an automatic abstain vote for every voter whose
// window has expired. Returns the number of votes cast.
func (s *Sweeper) SweepAbstain(ctx context.Context) (int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, ktm_image, profile_image, vote_entry_time
		FROM users
		WHERE has_voted = FALSE AND vote_entry_time IS NOT NULL
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to query open windows: %w", err)
	}

	now := s.now()
	var expired []expiredVoter
	for rows.Next() {
		var v expiredVoter
		var entryStr string
		if err := rows.Scan(&v.id, &v.name, &v.email, &v.ktmImage, &v.selfImage, &entryStr); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan open window: %w", err)
		}
		entry, err := db.ParseTime(entryStr)
		if err != nil {
			rows.Close()
			return 0, err
		}
		if (election.Window{Entry: entry}).Expired(now) {
			v.entry = entry
			expired = append(expired, v)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	rows.Close()

	count := 0
	for _, v := range expired {
		err := db.CastVote(s.db, db.CastParams{
			UserID:      v.id,
			CandidateID: models.KotakKosongID,
			KTMImage:    v.ktmImage,
			SelfImage:   v.selfImage,
			Status:      models.VoteStatusPending,
			Reason:      "",
			Source:      models.VoteSourceTimeout,
			At:          now,
		})
		if err == db.ErrAlreadyVoted {
			// A manual ballot won the race between the scan and the
			// flip; nothing to do.
			continue
		}
		if err != nil {
			slog.Error("failed to cast abstain vote", "user_id", v.id, "error", err)
			continue
		}

		count++
		slog.Info("abstain vote cast on window expiry",
			"user_id", v.id, "entry", v.entry, "deadline", v.entry.Add(election.WindowDuration))

		go func(v expiredVoter) {
			if err := s.mailer.SendVoteConfirmation(v.email, v.name, models.KotakKosongName); err != nil {
				slog.Error("failed to send abstain confirmation", "email", v.email, "error", err)
			}
		}(v)
	}
	return count, nil
}

// SendReminders mails each approved voter their token once, within
// 24 hours of the election start.
func (s *Sweeper) SendReminders(ctx context.Context) (int, error) {
	var startValue string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = $1`, models.SettingStartTime).Scan(&startValue)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load start time: %w", err)
	}
	start, err := election.ParseSettingTime(startValue)
	if err != nil || start.IsZero() {
		return 0, nil
	}

	until := start.Sub(s.now())
	if until <= 0 || until > reminderLeadTime {
		return 0, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, voting_token FROM users
		WHERE role = $1 AND verification_status = $2 AND reminder_sent = FALSE AND voting_token <> ''
	`, models.RoleVoter, models.VerificationApproved)
	if err != nil {
		return 0, fmt.Errorf("failed to query reminder targets: %w", err)
	}
	defer rows.Close()

	type target struct{ id, name, email, token string }
	var targets []target
	for rows.Next() {
		var t target
		if err := rows.Scan(&t.id, &t.name, &t.email, &t.token); err != nil {
			return 0, err
		}
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	count := 0
	for _, t := range targets {
		if err := s.mailer.SendReminder(t.email, t.name, t.token); err != nil {
			slog.Error("failed to send reminder", "email", t.email, "error", err)
			continue
		}
		if _, err := s.db.Exec(`UPDATE users SET reminder_sent = TRUE WHERE id = $1`, t.id); err != nil {
			slog.Error("failed to mark reminder sent", "user_id", t.id, "error", err)
			continue
		}
		count++
	}
	return count, nil
}
