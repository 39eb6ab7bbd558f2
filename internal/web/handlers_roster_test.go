package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JonMunkholm/clubhouse/internal/roster"
)

// ---- Import outcome rendering ----

func TestWriteImportOutcome_NoData(t *testing.T) {
	rec := httptest.NewRecorder()
	writeImportOutcome(rec, &roster.Outcome{NoData: true})

	// No player data is informational, never a client error.
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body importResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if !body.NoData {
		t.Error("no_data should be true")
	}
	if body.Imported != 0 || body.ErrorCount != 0 {
		t.Errorf("imported=%d error_count=%d, want 0/0", body.Imported, body.ErrorCount)
	}
	if body.Message == "" {
		t.Error("message should explain the empty file")
	}
}

func TestWriteImportOutcome_WithErrors(t *testing.T) {
	outcome := &roster.Outcome{
		Imported: 3,
		RowErrors: []roster.RowError{
			{Row: 2, Reason: "First name and last name are required"},
			{Row: 5, Reason: "Invalid financial amount"},
		},
	}

	rec := httptest.NewRecorder()
	writeImportOutcome(rec, outcome)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body importResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.NoData {
		t.Error("no_data should be false")
	}
	if body.Imported != 3 || body.ErrorCount != 2 {
		t.Errorf("imported=%d error_count=%d, want 3/2", body.Imported, body.ErrorCount)
	}
	if len(body.Errors) != 2 || body.Errors[0] != "Row 2: First name and last name are required" {
		t.Errorf("errors = %v", body.Errors)
	}
}
