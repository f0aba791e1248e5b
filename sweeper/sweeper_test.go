// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package sweeper

import (
	"context"
	"testing"
	"time"

	"github.com/danielhkuo/campus-vote/models"
	"github.com/danielhkuo/campus-vote/testutil"
)

func TestSweepAbstain(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig(t)
	s := New(conn, cfg, nil)

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	expiredID := testutil.CreateTestVoter(t, conn, "15010001", models.VerificationApproved)
	testutil.SetEntryTime(t, conn, expiredID, now.Add(-6*time.Minute))

	openID := testutil.CreateTestVoter(t, conn, "15010002", models.VerificationApproved)
	testutil.SetEntryTime(t, conn, openID, now.Add(-2*time.Minute))

	// Never entered the ballot screen, must be left alone.
	testutil.CreateTestVoter(t, conn, "15010003", models.VerificationApproved)

	n, err := s.SweepAbstain(context.Background())
	if err != nil {
		t.Fatalf("SweepAbstain failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("Expected 1 abstain vote, got %d", n)
	}

	var candidateID int
	var status, source string
	err = conn.QueryRow(`SELECT candidate_id, status, source FROM votes WHERE user_id = $1`, expiredID).
		Scan(&candidateID, &status, &source)
	if err != nil {
		t.Fatalf("Failed to query abstain vote: %v", err)
	}
	if candidateID != models.KotakKosongID {
		t.Errorf("Expected kotak kosong, got candidate %d", candidateID)
	}
	if status != models.VoteStatusPending {
		t.Errorf("Expected pending status, got %q", status)
	}
	if source != models.VoteSourceTimeout {
		t.Errorf("Expected timeout source, got %q", source)
	}

	var hasVoted bool
	if err := conn.QueryRow(`SELECT has_voted FROM users WHERE id = $1`, expiredID).Scan(&hasVoted); err != nil {
		t.Fatalf("Failed to query voter: %v", err)
	}
	if !hasVoted {
		t.Error("Swept voter is not marked as having voted")
	}

	// The voter inside their window keeps it.
	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM votes WHERE user_id = $1`, openID).Scan(&count); err != nil {
		t.Fatalf("Failed to count votes: %v", err)
	}
	if count != 0 {
		t.Error("Sweep touched a voter whose window is still open")
	}

	t.Run("second pass is a no-op", func(t *testing.T) {
		n, err := s.SweepAbstain(context.Background())
		if err != nil {
			t.Fatalf("Second SweepAbstain failed: %v", err)
		}
		if n != 0 {
			t.Errorf("Expected no further votes, got %d", n)
		}

		var total int
		if err := conn.QueryRow(`SELECT COUNT(*) FROM votes WHERE user_id = $1`, expiredID).Scan(&total); err != nil {
			t.Fatalf("Failed to count votes: %v", err)
		}
		if total != 1 {
			t.Errorf("Expected exactly one vote after two sweeps, got %d", total)
		}
	})

	t.Run("deadline instant counts as expired", func(t *testing.T) {
		edgeID := testutil.CreateTestVoter(t, conn, "15010004", models.VerificationApproved)
		testutil.SetEntryTime(t, conn, edgeID, now.Add(-5*time.Minute))

		n, err := s.SweepAbstain(context.Background())
		if err != nil {
			t.Fatalf("SweepAbstain failed: %v", err)
		}
		if n != 1 {
			t.Errorf("Expected the deadline-instant window to be swept, got %d", n)
		}
	})
}

func TestSendReminders(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig(t)
	s := New(conn, cfg, nil)

	start := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	testutil.SetElectionWindow(t, conn, start, start.Add(2*time.Hour))

	approved1 := testutil.CreateTestVoter(t, conn, "15010001", models.VerificationApproved)
	approved2 := testutil.CreateTestVoter(t, conn, "15010002", models.VerificationApproved)
	testutil.CreateTestVoter(t, conn, "15010003", models.VerificationPending)

	t.Run("too early", func(t *testing.T) {
		s.now = func() time.Time { return start.Add(-48 * time.Hour) }
		n, err := s.SendReminders(context.Background())
		if err != nil {
			t.Fatalf("SendReminders failed: %v", err)
		}
		if n != 0 {
			t.Errorf("Expected no reminders outside the lead window, got %d", n)
		}
	})

	t.Run("within 24 hours of the start", func(t *testing.T) {
		s.now = func() time.Time { return start.Add(-12 * time.Hour) }
		n, err := s.SendReminders(context.Background())
		if err != nil {
			t.Fatalf("SendReminders failed: %v", err)
		}
		if n != 2 {
			t.Fatalf("Expected 2 reminders, got %d", n)
		}

		for _, id := range []string{approved1, approved2} {
			var sent bool
			if err := conn.QueryRow(`SELECT reminder_sent FROM users WHERE id = $1`, id).Scan(&sent); err != nil {
				t.Fatalf("Failed to query voter: %v", err)
			}
			if !sent {
				t.Errorf("Voter %s is not marked reminded", id)
			}
		}
	})

	t.Run("each voter is reminded once", func(t *testing.T) {
		s.now = func() time.Time { return start.Add(-6 * time.Hour) }
		n, err := s.SendReminders(context.Background())
		if err != nil {
			t.Fatalf("SendReminders failed: %v", err)
		}
		if n != 0 {
			t.Errorf("Expected no repeat reminders, got %d", n)
		}
	})

	t.Run("after the start", func(t *testing.T) {
		late := testutil.CreateTestVoter(t, conn, "15010004", models.VerificationApproved)
		s.now = func() time.Time { return start.Add(time.Hour) }
		n, err := s.SendReminders(context.Background())
		if err != nil {
			t.Fatalf("SendReminders failed: %v", err)
		}
		if n != 0 {
			t.Errorf("Expected no reminders once the election started, got %d", n)
		}

		var sent bool
		if err := conn.QueryRow(`SELECT reminder_sent FROM users WHERE id = $1`, late).Scan(&sent); err != nil {
			t.Fatalf("Failed to query voter: %v", err)
		}
		if sent {
			t.Error("Late registrant must not be marked reminded")
		}
	})
}
