package roster

import (
	"errors"
	"testing"
)

// ---- ValidateRow ----

func TestValidateRow_RequiredNames(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want error
	}{
		{"both present", Record{"first_name": "John", "last_name": "Doe"}, nil},
		{"missing first", Record{"last_name": "Doe"}, ErrNameRequired},
		{"missing last", Record{"first_name": "John"}, ErrNameRequired},
		{"whitespace only", Record{"first_name": "  ", "last_name": "Doe"}, ErrNameRequired},
		{"empty record", Record{}, ErrNameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateRow(tt.rec)
			if !errors.Is(err, tt.want) {
				t.Errorf("ValidateRow() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateRow_MoneyFields(t *testing.T) {
	tests := []struct {
		name    string
		tuition string
		paid    string
		wantErr bool
	}{
		{"both empty", "", "", false},
		{"valid amounts", "500.00", "250.50", false},
		{"integer amount", "500", "0", false},
		{"garbage tuition", "abc", "", true},
		{"garbage paid", "", "12x", true},
		{"negative", "-5", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := Record{
				"first_name":           "John",
				"last_name":            "Doe",
				"total_tuition_amount": tt.tuition,
				"amount_paid":          tt.paid,
			}
			_, err := ValidateRow(rec)
			if tt.wantErr && !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("ValidateRow() error = %v, want ErrInvalidAmount", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateRow() unexpected error: %v", err)
			}
		})
	}
}

func TestValidateRow_Normalizes(t *testing.T) {
	rec := Record{
		"first_name":           "  John ",
		"last_name":            " Doe",
		"team":                 " 8U ",
		"paid_tuition":         "Yes",
		"signed_waiver":        "maybe",
		"total_tuition_amount": "500.00",
	}

	data, err := ValidateRow(rec)
	if err != nil {
		t.Fatalf("ValidateRow() error: %v", err)
	}
	if data.FirstName != "John" || data.LastName != "Doe" {
		t.Errorf("names not trimmed: %q %q", data.FirstName, data.LastName)
	}
	if data.Team != "8U" {
		t.Errorf("team not trimmed: %q", data.Team)
	}
	if !data.PaidTuition {
		t.Error("paid_tuition 'Yes' should be true")
	}
	if data.SignedWaiver {
		t.Error("signed_waiver 'maybe' should be false")
	}
	if data.TotalTuitionAmount != 500 {
		t.Errorf("tuition = %v, want 500", data.TotalTuitionAmount)
	}
}

// ---- Truthy ----

func TestTruthy(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"true", true},
		{"TRUE", true},
		{"Yes", true},
		{"1", true},
		{" yes ", true},
		{"", false},
		{"0", false},
		{"no", false},
		{"false", false},
		{"y", false},
		{"paid", false},
	}

	for _, tt := range tests {
		if got := Truthy(tt.in); got != tt.want {
			t.Errorf("Truthy(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
