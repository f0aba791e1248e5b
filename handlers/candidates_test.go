// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/danielhkuo/campus-vote/models"
	"github.com/danielhkuo/campus-vote/testutil"
)

func TestListCandidates(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewCandidateHandler(conn, testutil.GetTestConfig(t))

	testutil.AddTestCandidate(t, conn, 2, "Bob")
	testutil.AddTestCandidate(t, conn, 1, "Alice")

	req := httptest.NewRequest("GET", "/candidates", nil)
	w := httptest.NewRecorder()
	handler.List(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var candidates []models.Candidate
	testutil.AssertJSON(t, w, &candidates)

	if len(candidates) != 2 {
		t.Fatalf("Expected 2 candidates, got %d", len(candidates))
	}
	// Ordered by ballot number.
	if candidates[0].ID != 1 || candidates[1].ID != 2 {
		t.Errorf("Expected ballot order 1,2 got %d,%d", candidates[0].ID, candidates[1].ID)
	}
}

func TestCreateCandidate(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig(t)
	handler := NewCandidateHandler(conn, cfg)

	image := map[string]string{"image": "candidate.jpg"}

	tests := []struct {
		name           string
		fields         map[string]string
		files          map[string]string
		expectedStatus int
	}{
		{
			name: "valid candidate",
			fields: map[string]string{
				"name": "Alice", "visi": "Transparency", "misi": "Open meetings", "number": "1",
			},
			files:          image,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "duplicate ballot number",
			fields:         map[string]string{"name": "Other", "number": "1"},
			files:          image,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "number zero is reserved",
			fields:         map[string]string{"name": "Nobody", "number": "0"},
			files:          image,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing image",
			fields:         map[string]string{"name": "NoPhoto", "number": "3"},
			files:          nil,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing name",
			fields:         map[string]string{"number": "4"},
			files:          image,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeMultipartRequest(t, "POST", "/admin/candidates", tt.fields, tt.files)
			w := httptest.NewRecorder()
			handler.Create(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	t.Run("conflict leaves no orphaned image", func(t *testing.T) {
		before, err := os.ReadDir(cfg.UploadDir)
		if err != nil {
			t.Fatalf("Failed to read upload dir: %v", err)
		}

		req := testutil.MakeMultipartRequest(t, "POST", "/admin/candidates",
			map[string]string{"name": "Impostor", "number": "1"}, image)
		w := httptest.NewRecorder()
		handler.Create(w, req)
		testutil.AssertStatus(t, w, http.StatusConflict)

		after, err := os.ReadDir(cfg.UploadDir)
		if err != nil {
			t.Fatalf("Failed to read upload dir: %v", err)
		}
		if len(after) != len(before) {
			t.Errorf("Conflicting create stored an image: %d files before, %d after", len(before), len(after))
		}
	})

	t.Run("created candidate is listed", func(t *testing.T) {
		var c models.Candidate
		err := conn.QueryRow(`SELECT id, name, visi, misi FROM candidates WHERE id = 1`).
			Scan(&c.ID, &c.Name, &c.Visi, &c.Misi)
		if err != nil {
			t.Fatalf("Failed to query candidate: %v", err)
		}
		if c.Name != "Alice" || c.Visi != "Transparency" {
			t.Errorf("Unexpected candidate row: %+v", c)
		}
	})
}

func TestDeleteCandidate(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewCandidateHandler(conn, testutil.GetTestConfig(t))

	testutil.AddTestCandidate(t, conn, 1, "Alice")

	tests := []struct {
		name           string
		id             string
		expectedStatus int
	}{
		{"existing candidate", "1", http.StatusOK},
		{"already deleted", "1", http.StatusNotFound},
		{"non-numeric id", "abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("DELETE", "/admin/candidates/"+tt.id, nil)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()
			handler.Delete(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}
