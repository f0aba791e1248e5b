// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/danielhkuo/campus-vote/auth"
	"github.com/danielhkuo/campus-vote/cliparse"
	"github.com/danielhkuo/campus-vote/db"
	"github.com/danielhkuo/campus-vote/models"
)

// SetupTestDB creates an in-memory SQLite database with the full schema.
// The single connection keeps all statements on the same in-memory
// database.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig(t *testing.T) cliparse.Config {
	t.Helper()
	return cliparse.Config{
		Port:         8080,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		JWTSecret:    "test-jwt-secret",
		UploadDir:    t.TempDir(),
	}
}

// CreateTestVoter inserts a voter row and returns its ID.
// status is "pending", "approved", or "rejected".
func CreateTestVoter(t *testing.T, conn *sql.DB, nim, status string) string {
	t.Helper()

	id, _ := auth.GenerateID(16)
	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	token := ""
	if status == models.VerificationApproved {
		token = auth.NewVotingToken()
	}

	_, err = conn.Exec(`
		INSERT INTO users (id, name, nim, email, password_hash, role, verification_status,
			has_voted, profile_image, ktm_image, voting_token, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, id, "Voter "+nim, nim, nim+"@campus.test", hash, models.RoleVoter, status,
		false, "/uploads/"+nim+"-profile.jpg", "/uploads/"+nim+"-ktm.jpg", token,
		db.FormatTime(time.Now()))
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	return id
}

// CreateTestAdmin inserts an admin row and returns its ID and a valid
// session token signed with the test config secret.
func CreateTestAdmin(t *testing.T, conn *sql.DB, cfg cliparse.Config) (adminID, token string) {
	t.Helper()

	adminID, _ = auth.GenerateID(16)
	hash, err := auth.HashPassword("adminpass")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO users (id, name, nim, email, password_hash, role, verification_status, has_voted, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, adminID, "Admin", "admin", "admin@campus.test", hash,
		models.RoleAdmin, models.VerificationApproved, false, db.FormatTime(time.Now()))
	if err != nil {
		t.Fatalf("Failed to create test admin: %v", err)
	}

	token, err = auth.SignSession(adminID, models.RoleAdmin, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("Failed to sign admin session: %v", err)
	}

	return adminID, token
}

// SignTestSession mints a session token for an arbitrary user and role.
func SignTestSession(t *testing.T, cfg cliparse.Config, userID, role string) string {
	t.Helper()

	token, err := auth.SignSession(userID, role, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("Failed to sign session: %v", err)
	}
	return token
}

// AddTestCandidate inserts a candidate with the given ballot number.
func AddTestCandidate(t *testing.T, conn *sql.DB, id int, name string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO candidates (id, name, visi, misi, image_url)
		VALUES ($1, $2, $3, $4, $5)
	`, id, name, "Visi "+name, "Misi "+name, "/uploads/candidate.jpg")
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}
}

// SetElectionWindow stores the startTime/endTime settings.
// A zero time leaves that bound unset.
func SetElectionWindow(t *testing.T, conn *sql.DB, start, end time.Time) {
	t.Helper()

	set := func(key string, v time.Time) {
		if v.IsZero() {
			return
		}
		_, err := conn.Exec(`INSERT INTO settings (key, value) VALUES ($1, $2)`,
			key, v.UTC().Format(time.RFC3339))
		if err != nil {
			t.Fatalf("Failed to set %s: %v", key, err)
		}
	}
	set(models.SettingStartTime, start)
	set(models.SettingEndTime, end)
}

// CastTestVote inserts a vote row directly and marks the voter as
// having voted. Returns the vote ID.
func CastTestVote(t *testing.T, conn *sql.DB, userID string, candidateID int, status, reason string) string {
	t.Helper()

	voteID, _ := auth.GenerateID(16)
	_, err := conn.Exec(`
		INSERT INTO votes (id, user_id, candidate_id, cast_at, ktm_image, self_image, status, rejection_reason, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, voteID, userID, candidateID, db.FormatTime(time.Now()),
		"/uploads/ktm.jpg", "/uploads/profile.jpg", status, reason, models.VoteSourceManual)
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
	if _, err := conn.Exec(`UPDATE users SET has_voted = TRUE WHERE id = $1`, userID); err != nil {
		t.Fatalf("Failed to mark voter: %v", err)
	}
	return voteID
}

// SetEntryTime records a voting-window anchor for a voter.
func SetEntryTime(t *testing.T, conn *sql.DB, userID string, entry time.Time) {
	t.Helper()

	_, err := conn.Exec(`UPDATE users SET vote_entry_time = $1 WHERE id = $2`,
		db.FormatTime(entry), userID)
	if err != nil {
		t.Fatalf("Failed to set entry time: %v", err)
	}
}

// MakeRequest creates an HTTP test request with a JSON body
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// MakeFormRequest creates an HTTP test request with urlencoded form values
func MakeFormRequest(method, path string, form url.Values) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// MakeMultipartRequest creates a multipart request with text fields and
// named fake image files.
func MakeMultipartRequest(t *testing.T, method, path string, fields map[string]string, files map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("Failed to write form field: %v", err)
		}
	}
	for field, filename := range files {
		fw, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("Failed to create form file: %v", err)
		}
		if _, err := fw.Write([]byte("fake image bytes")); err != nil {
			t.Fatalf("Failed to write form file: %v", err)
		}
	}
	mw.Close()

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
