package roster

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Validation failures for a single import row. These are row-level errors:
// the orchestrator records them against the row number and moves on.
var (
	ErrNameRequired  = errors.New("first name and last name are required")
	ErrInvalidAmount = errors.New("invalid financial amount")
)

// Record is one raw import row keyed by lowercased header column name.
// Unrecognized columns are simply never looked up; missing columns read
// as empty strings, so downstream code never needs nil guards.
type Record map[string]string

func (r Record) get(key string) string {
	return strings.TrimSpace(r[key])
}

// RowData is a validated, normalized import row. All text fields are
// trimmed, money fields are parsed, and boolean fields carry the lossy
// true/yes/1 interpretation.
type RowData struct {
	Season    string
	FirstName string
	LastName  string
	BirthYear string
	Team      string
	Position  string

	JerseyNumber    string
	JerseySize      string
	Socks           string
	Jacket          string
	USAHockeyNumber string

	DadFirstName string
	DadLastName  string
	DadPhone     string
	DadEmail     string

	MomFirstName string
	MomLastName  string
	MomPhone     string
	MomEmail     string

	Address string
	City    string
	State   string
	ZipCode string

	PaidTuition        bool
	TotalTuitionAmount float64
	AmountPaid         float64

	SignedWaiver     bool
	BirthCertificate bool
}

// ValidateRow checks one raw record and returns its normalized form.
//
// First and last name are required after trimming. The money columns, when
// present and non-empty, must parse as non-negative decimals; a parse
// failure rejects the whole row. Either rejection skips the row entirely:
// no partial entity is ever created.
func ValidateRow(rec Record) (RowData, error) {
	first := rec.get("first_name")
	last := rec.get("last_name")
	if first == "" || last == "" {
		return RowData{}, ErrNameRequired
	}

	tuition, err := parseMoney(rec.get("total_tuition_amount"))
	if err != nil {
		return RowData{}, ErrInvalidAmount
	}
	paid, err := parseMoney(rec.get("amount_paid"))
	if err != nil {
		return RowData{}, ErrInvalidAmount
	}

	return RowData{
		Season:    rec.get("season"),
		FirstName: first,
		LastName:  last,
		BirthYear: rec.get("birth_year"),
		Team:      rec.get("team"),
		Position:  rec.get("position"),

		JerseyNumber:    rec.get("jersey_number"),
		JerseySize:      rec.get("jersey_size"),
		Socks:           rec.get("socks"),
		Jacket:          rec.get("jacket"),
		USAHockeyNumber: rec.get("usa_hockey_number"),

		DadFirstName: rec.get("dad_first_name"),
		DadLastName:  rec.get("dad_last_name"),
		DadPhone:     rec.get("dad_phone"),
		DadEmail:     rec.get("dad_email"),

		MomFirstName: rec.get("mom_first_name"),
		MomLastName:  rec.get("mom_last_name"),
		MomPhone:     rec.get("mom_phone"),
		MomEmail:     rec.get("mom_email"),

		Address: rec.get("address"),
		City:    rec.get("city"),
		State:   rec.get("state"),
		ZipCode: rec.get("zip_code"),

		PaidTuition:        Truthy(rec.get("paid_tuition")),
		TotalTuitionAmount: tuition,
		AmountPaid:         paid,

		SignedWaiver:     Truthy(rec.get("signed_waiver")),
		BirthCertificate: Truthy(rec.get("birth_certificate")),
	}, nil
}

// parseMoney parses an optional money field. Empty input is zero; anything
// else must be a non-negative decimal number.
func parseMoney(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// Truthy interprets a boolean-like import token. Exactly "true", "yes" or
// "1" (case-insensitive) mean true; anything else, including absence, is
// false. This convention is lossy and intentionally matches data exported
// by earlier versions of the system, so it must not be widened.
func Truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true
	default:
		return false
	}
}
