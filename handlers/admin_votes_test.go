// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/campus-vote/models"
	"github.com/danielhkuo/campus-vote/testutil"
)

func TestPendingAndRejectedVotes(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewVoteAdminHandler(conn, testutil.GetTestConfig(t))

	testutil.AddTestCandidate(t, conn, 1, "Alice")
	voter1 := testutil.CreateTestVoter(t, conn, "15010001", models.VerificationApproved)
	voter2 := testutil.CreateTestVoter(t, conn, "15010002", models.VerificationApproved)
	voter3 := testutil.CreateTestVoter(t, conn, "15010003", models.VerificationApproved)

	testutil.CastTestVote(t, conn, voter1, 1, models.VoteStatusPending, "")
	testutil.CastTestVote(t, conn, voter2, models.KotakKosongID, models.VoteStatusPending, "")
	testutil.CastTestVote(t, conn, voter3, 1, models.VoteStatusRejected, "Time limit exceeded (> 5 minutes)")

	t.Run("pending queue", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin/votes/pending", nil)
		w := httptest.NewRecorder()
		handler.PendingVotes(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var details []models.VoteDetail
		testutil.AssertJSON(t, w, &details)
		if len(details) != 2 {
			t.Fatalf("Expected 2 pending votes, got %d", len(details))
		}
		// Abstain votes resolve to the empty-box display name.
		names := map[string]string{}
		for _, d := range details {
			names[d.UserID] = d.CandidateName
		}
		if names[voter2] != models.KotakKosongName {
			t.Errorf("Expected %q for the abstain ballot, got %q", models.KotakKosongName, names[voter2])
		}
	})

	t.Run("rejected queue", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin/votes/rejected", nil)
		w := httptest.NewRecorder()
		handler.RejectedVotes(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var details []models.VoteDetail
		testutil.AssertJSON(t, w, &details)
		if len(details) != 1 {
			t.Fatalf("Expected 1 rejected vote, got %d", len(details))
		}
		if details[0].RejectionReason == "" {
			t.Error("Rejected vote is missing its reason")
		}
	})

	t.Run("search by nim", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin/votes/search?q=15010001", nil)
		w := httptest.NewRecorder()
		handler.SearchVotes(w, req)

		testutil.AssertStatus(t, w, http.StatusOK)
		var details []models.VoteDetail
		testutil.AssertJSON(t, w, &details)
		if len(details) != 1 {
			t.Fatalf("Expected 1 match, got %d", len(details))
		}
		if details[0].UserNIM != "15010001" {
			t.Errorf("Expected voter 15010001, got %s", details[0].UserNIM)
		}
	})

	t.Run("search requires a query", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/admin/votes/search", nil)
		w := httptest.NewRecorder()
		handler.SearchVotes(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestVerifyVote(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewVoteAdminHandler(conn, testutil.GetTestConfig(t))

	testutil.AddTestCandidate(t, conn, 1, "Alice")

	t.Run("approve clears the rejection reason", func(t *testing.T) {
		voter := testutil.CreateTestVoter(t, conn, "15010001", models.VerificationApproved)
		voteID := testutil.CastTestVote(t, conn, voter, 1, models.VoteStatusRejected, "Bypassed voting entry")

		req := testutil.MakeRequest("POST", "/admin/votes/verify",
			models.VerifyVoteRequest{VoteID: voteID, Action: "approve"}, nil)
		w := httptest.NewRecorder()
		handler.VerifyVote(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var status, reason string
		if err := conn.QueryRow(`SELECT status, rejection_reason FROM votes WHERE id = $1`, voteID).Scan(&status, &reason); err != nil {
			t.Fatalf("Failed to query vote: %v", err)
		}
		if status != models.VoteStatusApproved || reason != "" {
			t.Errorf("Expected approved with empty reason, got %s/%q", status, reason)
		}
	})

	t.Run("reject records the admin decision", func(t *testing.T) {
		voter := testutil.CreateTestVoter(t, conn, "15010002", models.VerificationApproved)
		voteID := testutil.CastTestVote(t, conn, voter, 1, models.VoteStatusPending, "")

		req := testutil.MakeRequest("POST", "/admin/votes/verify",
			models.VerifyVoteRequest{VoteID: voteID, Action: "reject"}, nil)
		w := httptest.NewRecorder()
		handler.VerifyVote(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var status, reason string
		if err := conn.QueryRow(`SELECT status, rejection_reason FROM votes WHERE id = $1`, voteID).Scan(&status, &reason); err != nil {
			t.Fatalf("Failed to query vote: %v", err)
		}
		if status != models.VoteStatusRejected || reason != reasonAdminRejected {
			t.Errorf("Expected rejected/%q, got %s/%q", reasonAdminRejected, status, reason)
		}

		// The voter stays marked as having voted; rejection is not a
		// second chance.
		var hasVoted bool
		if err := conn.QueryRow(`SELECT has_voted FROM users WHERE id = $1`, voter).Scan(&hasVoted); err != nil {
			t.Fatalf("Failed to query voter: %v", err)
		}
		if !hasVoted {
			t.Error("Rejection must not reopen voting for the voter")
		}
	})

	t.Run("unknown vote", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/admin/votes/verify",
			models.VerifyVoteRequest{VoteID: "nope", Action: "approve"}, nil)
		w := httptest.NewRecorder()
		handler.VerifyVote(w, req)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("unknown action", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/admin/votes/verify",
			models.VerifyVoteRequest{VoteID: "whatever", Action: "hold"}, nil)
		w := httptest.NewRecorder()
		handler.VerifyVote(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}
