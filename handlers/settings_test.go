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

func TestSettings(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewSettingsHandler(conn, testutil.GetTestConfig(t))

	save := func(t *testing.T, body map[string]string) *httptest.ResponseRecorder {
		t.Helper()
		req := testutil.MakeRequest("POST", "/admin/settings", body, nil)
		w := httptest.NewRecorder()
		handler.Save(w, req)
		return w
	}

	t.Run("save and read back", func(t *testing.T) {
		w := save(t, map[string]string{
			models.SettingStartTime: "2025-06-01T09:00:00Z",
			models.SettingEndTime:   "2025-06-01T11:00:00Z",
			"electionName":          "Student Association 2025",
		})
		testutil.AssertStatus(t, w, http.StatusOK)

		req := httptest.NewRequest("GET", "/settings", nil)
		w = httptest.NewRecorder()
		handler.Get(w, req)
		testutil.AssertStatus(t, w, http.StatusOK)

		var settings map[string]string
		testutil.AssertJSON(t, w, &settings)
		if settings[models.SettingStartTime] != "2025-06-01T09:00:00Z" {
			t.Errorf("Unexpected startTime %q", settings[models.SettingStartTime])
		}
		if settings["electionName"] != "Student Association 2025" {
			t.Errorf("Unexpected electionName %q", settings["electionName"])
		}
	})

	t.Run("update overwrites", func(t *testing.T) {
		w := save(t, map[string]string{models.SettingEndTime: "2025-06-01T12:00:00Z"})
		testutil.AssertStatus(t, w, http.StatusOK)

		var value string
		if err := conn.QueryRow(`SELECT value FROM settings WHERE key = $1`, models.SettingEndTime).Scan(&value); err != nil {
			t.Fatalf("Failed to query setting: %v", err)
		}
		if value != "2025-06-01T12:00:00Z" {
			t.Errorf("Expected updated endTime, got %q", value)
		}
	})

	t.Run("datetime-local format accepted", func(t *testing.T) {
		w := save(t, map[string]string{models.SettingStartTime: "2025-06-01T08:30"})
		testutil.AssertStatus(t, w, http.StatusOK)
	})

	t.Run("unparseable start time", func(t *testing.T) {
		w := save(t, map[string]string{models.SettingStartTime: "tomorrow-ish"})
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("start after end", func(t *testing.T) {
		w := save(t, map[string]string{
			models.SettingStartTime: "2025-06-01T13:00:00Z",
			models.SettingEndTime:   "2025-06-01T09:00:00Z",
		})
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("start conflicting with stored end", func(t *testing.T) {
		// endTime is 12:00 from the earlier update; a later start must
		// be rejected against the stored bound.
		w := save(t, map[string]string{models.SettingStartTime: "2025-06-01T18:00:00Z"})
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("empty body", func(t *testing.T) {
		w := save(t, map[string]string{})
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}
