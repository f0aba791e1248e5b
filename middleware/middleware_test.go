// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/campus-vote/auth"
	"github.com/danielhkuo/campus-vote/models"
)

func TestJSONResponse(t *testing.T) {
	w := httptest.NewRecorder()
	JSONResponse(w, http.StatusCreated, map[string]string{"hello": "world"})

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["hello"] != "world" {
		t.Errorf("body = %v", body)
	}
}

func TestErrorResponse(t *testing.T) {
	w := httptest.NewRecorder()
	ErrorResponse(w, http.StatusConflict, "already voted")

	var body models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body.Error != http.StatusText(http.StatusConflict) {
		t.Errorf("Error = %q", body.Error)
	}
	if body.Message != "already voted" {
		t.Errorf("Message = %q", body.Message)
	}
}

func TestCORSPreflight(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Inner handler called for preflight")
	})

	req := httptest.NewRequest("OPTIONS", "/vote", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	CORS(inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q", got)
	}
}

func TestRequireAdmin(t *testing.T) {
	const secret = "test-secret"

	adminToken, err := auth.SignSession("admin-1", models.RoleAdmin, secret)
	if err != nil {
		t.Fatalf("SignSession failed: %v", err)
	}
	voterToken, err := auth.SignSession("voter-1", models.RoleVoter, secret)
	if err != nil {
		t.Fatalf("SignSession failed: %v", err)
	}

	tests := []struct {
		name           string
		header         string
		expectedStatus int
		expectInner    bool
	}{
		{name: "valid admin token", header: "Bearer " + adminToken, expectedStatus: http.StatusOK, expectInner: true},
		{name: "missing header", header: "", expectedStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", expectedStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not.a.jwt", expectedStatus: http.StatusUnauthorized},
		{name: "voter token", header: "Bearer " + voterToken, expectedStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := RequireAdmin(secret, func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/admin/users/pending", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			handler(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
			if called != tt.expectInner {
				t.Errorf("inner handler called = %v, want %v", called, tt.expectInner)
			}
		})
	}
}
