package roster

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

var importNow = time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)

// ---- stageImport ----

func TestStageImport_ValidRows(t *testing.T) {
	csvData := "first_name,last_name,team,season,paid_tuition,total_tuition_amount\n" +
		"John,Doe,8U,2024,true,500.00\n" +
		"Sarah,Smith,10U,2025,false,\n"

	staged, outcome, err := stageImport(strings.NewReader(csvData), importNow)
	if err != nil {
		t.Fatalf("stageImport() error: %v", err)
	}
	if len(staged) != 2 {
		t.Fatalf("staged %d players, want 2", len(staged))
	}
	if outcome.ErrorCount() != 0 {
		t.Errorf("unexpected row errors: %v", outcome.Errors())
	}
	if outcome.NoData {
		t.Error("NoData should be false")
	}

	p := staged[0]
	if p.FirstName != "John" || p.LastName != "Doe" || p.Team != "8U" {
		t.Errorf("unexpected first player: %+v", p)
	}
	if !p.PaidTuition || !p.Paid {
		t.Error("paid_tuition 'true' should set both paid flags")
	}
	if p.TotalTuitionAmount != 500 {
		t.Errorf("tuition = %v, want 500", p.TotalTuitionAmount)
	}
	if !p.CreatedAt.Equal(importNow) || !p.UpdatedAt.Equal(importNow) {
		t.Error("timestamps should be the import time")
	}
}

func TestStageImport_RowNumbersStartAtTwo(t *testing.T) {
	csvData := "first_name,last_name\n" +
		",Missing\n" +
		"John,Doe\n" +
		"NoLast,\n"

	staged, outcome, err := stageImport(strings.NewReader(csvData), importNow)
	if err != nil {
		t.Fatalf("stageImport() error: %v", err)
	}
	if len(staged) != 1 {
		t.Fatalf("staged %d players, want 1", len(staged))
	}
	if outcome.ErrorCount() != 2 {
		t.Fatalf("got %d errors, want 2: %v", outcome.ErrorCount(), outcome.Errors())
	}

	want := []string{
		"Row 2: First name and last name are required",
		"Row 4: First name and last name are required",
	}
	got := outcome.Errors()
	for i, w := range want {
		if got[i] != w {
			t.Errorf("error[%d] = %q, want %q", i, got[i], w)
		}
	}
}

func TestStageImport_InvalidAmount(t *testing.T) {
	csvData := "first_name,last_name,amount_paid\n" +
		"John,Doe,not-a-number\n"

	staged, outcome, err := stageImport(strings.NewReader(csvData), importNow)
	if err != nil {
		t.Fatalf("stageImport() error: %v", err)
	}
	if len(staged) != 0 {
		t.Errorf("staged %d players, want 0", len(staged))
	}
	if got := outcome.Errors(); len(got) != 1 || got[0] != "Row 2: Invalid financial amount" {
		t.Errorf("errors = %v", got)
	}
}

func TestStageImport_NoData(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty file", ""},
		{"header only", "first_name,last_name\n"},
		{"header and blank lines", "first_name,last_name\n\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			staged, outcome, err := stageImport(strings.NewReader(tt.data), importNow)
			if err != nil {
				t.Fatalf("stageImport() error: %v", err)
			}
			if len(staged) != 0 {
				t.Errorf("staged %d players, want 0", len(staged))
			}
			if !outcome.NoData {
				t.Error("NoData should be true")
			}
		})
	}
}

func TestStageImport_EmptyCellRowIsRecorded(t *testing.T) {
	// Spreadsheets leave ",," rows behind; they must count as
	// name-validation failures, not vanish.
	csvData := "first_name,last_name\n" +
		",\n" +
		"John,Doe\n"

	staged, outcome, err := stageImport(strings.NewReader(csvData), importNow)
	if err != nil {
		t.Fatalf("stageImport() error: %v", err)
	}
	if len(staged) != 1 {
		t.Fatalf("staged %d players, want 1", len(staged))
	}
	if outcome.NoData {
		t.Error("NoData should be false")
	}
	want := []string{"Row 2: First name and last name are required"}
	if got := outcome.Errors(); len(got) != 1 || got[0] != want[0] {
		t.Errorf("errors = %v, want %v", got, want)
	}
}

func TestStageImport_AllEmptyCellRows(t *testing.T) {
	csvData := "first_name,last_name\n,\n , \n"

	staged, outcome, err := stageImport(strings.NewReader(csvData), importNow)
	if err != nil {
		t.Fatalf("stageImport() error: %v", err)
	}
	if len(staged) != 0 {
		t.Errorf("staged %d players, want 0", len(staged))
	}
	if outcome.NoData {
		t.Error("NoData should be false when rows were seen and rejected")
	}
	if outcome.ErrorCount() != 2 {
		t.Errorf("got %d errors, want 2: %v", outcome.ErrorCount(), outcome.Errors())
	}
}

func TestStageImport_SeasonDefaultsToCurrentYear(t *testing.T) {
	csvData := "first_name,last_name,season\n" +
		"John,Doe,\n" +
		"Sarah,Smith,2023\n"

	staged, _, err := stageImport(strings.NewReader(csvData), importNow)
	if err != nil {
		t.Fatalf("stageImport() error: %v", err)
	}
	if staged[0].Season != "2024" {
		t.Errorf("defaulted season = %q, want 2024", staged[0].Season)
	}
	if staged[1].Season != "2023" {
		t.Errorf("explicit season = %q, want 2023", staged[1].Season)
	}
}

func TestStageImport_LegacyMirror(t *testing.T) {
	csvData := "first_name,last_name,dad_first_name,dad_last_name,paid_tuition\n" +
		"John,Doe,Mike,Doe,yes\n"

	staged, _, err := stageImport(strings.NewReader(csvData), importNow)
	if err != nil {
		t.Fatalf("stageImport() error: %v", err)
	}
	p := staged[0]
	if p.GuardianFirstName != "Mike" || p.GuardianLastName != "Doe" {
		t.Errorf("guardian mirror = %q %q, want Mike Doe", p.GuardianFirstName, p.GuardianLastName)
	}
	if !p.Paid {
		t.Error("legacy paid should mirror paid_tuition")
	}
}

func TestStageImport_IgnoresUnknownColumns(t *testing.T) {
	csvData := "first_name,last_name,favorite_color\n" +
		"John,Doe,blue\n"

	staged, outcome, err := stageImport(strings.NewReader(csvData), importNow)
	if err != nil {
		t.Fatalf("stageImport() error: %v", err)
	}
	if len(staged) != 1 || outcome.ErrorCount() != 0 {
		t.Errorf("staged=%d errors=%d, want 1/0", len(staged), outcome.ErrorCount())
	}
}

// ---- Outcome ----

func TestOutcome_ErrorPreview(t *testing.T) {
	o := &Outcome{}
	for i := 0; i < 15; i++ {
		o.RowErrors = append(o.RowErrors, RowError{Row: i + 2, Reason: "First name and last name are required"})
	}

	preview := o.ErrorPreview()
	if len(preview) != MaxErrorPreview {
		t.Fatalf("preview length = %d, want %d", len(preview), MaxErrorPreview)
	}
	if preview[0] != "Row 2: First name and last name are required" {
		t.Errorf("preview[0] = %q", preview[0])
	}
	if o.ErrorCount() != 15 {
		t.Errorf("ErrorCount() = %d, want 15", o.ErrorCount())
	}
}

func TestOutcome_ErrorPreviewUnderLimit(t *testing.T) {
	o := &Outcome{RowErrors: []RowError{{Row: 3, Reason: "Invalid financial amount"}}}
	preview := o.ErrorPreview()
	if len(preview) != 1 {
		t.Fatalf("preview length = %d, want 1", len(preview))
	}
	if want := "Row 3: Invalid financial amount"; preview[0] != want {
		t.Errorf("preview[0] = %q, want %q", preview[0], want)
	}
}

func TestRowError_String(t *testing.T) {
	e := RowError{Row: 7, Reason: "Invalid financial amount"}
	if got, want := e.String(), "Row 7: Invalid financial amount"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestStageImport_ManyRows(t *testing.T) {
	var b strings.Builder
	b.WriteString("first_name,last_name\n")
	for i := 0; i < 50; i++ {
		fmt.Fprintf(&b, "Player%d,Test%d\n", i, i)
	}

	staged, outcome, err := stageImport(strings.NewReader(b.String()), importNow)
	if err != nil {
		t.Fatalf("stageImport() error: %v", err)
	}
	if len(staged) != 50 {
		t.Errorf("staged %d players, want 50", len(staged))
	}
	if outcome.ErrorCount() != 0 {
		t.Errorf("unexpected errors: %v", outcome.ErrorPreview())
	}
}
