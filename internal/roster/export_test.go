package roster

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"
)

// ---- WriteCSV ----

func TestWriteCSV_Header(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want header only", len(records))
	}
	if len(records[0]) != 34 {
		t.Errorf("header has %d columns, want 34", len(records[0]))
	}
	if records[0][0] != "Season" || records[0][33] != "Last Updated" {
		t.Errorf("unexpected header bounds: %q ... %q", records[0][0], records[0][33])
	}
}

func TestWriteCSV_Row(t *testing.T) {
	dob := time.Date(2010, 3, 15, 0, 0, 0, 0, time.UTC)
	created := time.Date(2024, 9, 1, 14, 30, 0, 0, time.UTC)

	p := &Player{
		CreatedAt:          created,
		UpdatedAt:          created,
		Season:             "2024",
		FirstName:          "John",
		LastName:           "Doe",
		Team:               "8U",
		PaidTuition:        true,
		TotalTuitionAmount: 500,
		AmountPaid:         250.5,
		SignedWaiver:       true,
		DateOfBirth:        &dob,
		GuardianFirstName:  "Mike",
		GuardianLastName:   "Doe",
		Paid:               true,
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, []*Player{p}); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	row := records[1]
	byCol := make(map[string]string, len(row))
	for i, col := range ExportColumns {
		byCol[col] = row[i]
	}

	checks := map[string]string{
		"Season":               "2024",
		"First Name":           "John",
		"Last Name":            "Doe",
		"Team":                 "8U",
		"Paid Tuition":         "Yes",
		"Total Tuition Amount": "$500.00",
		"Amount Paid":          "$250.50",
		"Signed Waiver":        "Yes",
		"Birth Certificate":    "No",
		"Date of Birth":        "03/15/2010",
		"Guardian First Name":  "Mike",
		"Paid Status":          "Yes",
		"Created Date":         "09/01/2024 14:30",
		"Last Updated":         "09/01/2024 14:30",
	}
	for col, want := range checks {
		if got := byCol[col]; got != want {
			t.Errorf("%s = %q, want %q", col, got, want)
		}
	}
}

func TestWriteCSV_ZeroValuesBlank(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, []*Player{{FirstName: "John", LastName: "Doe"}}); err != nil {
		t.Fatalf("WriteCSV() error: %v", err)
	}

	records, _ := csv.NewReader(&buf).ReadAll()
	row := records[1]
	byCol := make(map[string]string, len(row))
	for i, col := range ExportColumns {
		byCol[col] = row[i]
	}

	for _, col := range []string{"Total Tuition Amount", "Amount Paid", "Date of Birth", "Created Date", "Last Updated"} {
		if byCol[col] != "" {
			t.Errorf("%s = %q, want empty", col, byCol[col])
		}
	}
	for _, col := range []string{"Paid Tuition", "Signed Waiver", "Birth Certificate", "Paid Status"} {
		if byCol[col] != "No" {
			t.Errorf("%s = %q, want No", col, byCol[col])
		}
	}
}

// ---- WriteTemplate ----

func TestWriteTemplate(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTemplate(&buf); err != nil {
		t.Fatalf("WriteTemplate() error: %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want header plus two samples", len(records))
	}

	header := records[0]
	if len(header) != len(ImportColumns) {
		t.Fatalf("header has %d columns, want %d", len(header), len(ImportColumns))
	}
	for i, col := range ImportColumns {
		if header[i] != col {
			t.Errorf("header[%d] = %q, want %q", i, header[i], col)
		}
	}
	for i, row := range records[1:] {
		if len(row) != len(ImportColumns) {
			t.Errorf("sample %d has %d fields, want %d", i+1, len(row), len(ImportColumns))
		}
	}
}

func TestTemplateRoundTripsThroughImport(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTemplate(&buf); err != nil {
		t.Fatalf("WriteTemplate() error: %v", err)
	}

	staged, outcome, err := stageImport(strings.NewReader(buf.String()), importNow)
	if err != nil {
		t.Fatalf("stageImport() error: %v", err)
	}
	if len(staged) != 2 {
		t.Fatalf("staged %d players from template, want 2", len(staged))
	}
	if outcome.ErrorCount() != 0 {
		t.Errorf("template rows rejected: %v", outcome.Errors())
	}
	if staged[0].FirstName != "John" || staged[1].FirstName != "Sarah" {
		t.Errorf("unexpected sample names: %q %q", staged[0].FirstName, staged[1].FirstName)
	}
}

// ---- formatters ----

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, ""},
		{500, "$500.00"},
		{250.5, "$250.50"},
		{0.01, "$0.01"},
	}
	for _, tt := range tests {
		if got := formatMoney(tt.in); got != tt.want {
			t.Errorf("formatMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
