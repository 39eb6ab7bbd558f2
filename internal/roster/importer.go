package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// MaxErrorPreview is how many row errors are surfaced individually in an
// import summary. Errors beyond this are counted but not listed.
const MaxErrorPreview = 10

// ImportColumns is the recognized header for bulk import files, in the
// order written to the downloadable template. Unrecognized columns in an
// uploaded file are ignored; missing columns default to empty.
var ImportColumns = []string{
	"season", "first_name", "last_name", "birth_year", "team", "position",
	"jersey_number", "jersey_size", "socks", "jacket", "usa_hockey_number",
	"dad_first_name", "dad_last_name", "dad_phone", "dad_email",
	"mom_first_name", "mom_last_name", "mom_phone", "mom_email",
	"address", "city", "state", "zip_code",
	"paid_tuition", "total_tuition_amount", "amount_paid",
	"signed_waiver", "birth_certificate",
}

// RowError is one rejected import row.
type RowError struct {
	Row    int
	Reason string
}

func (e RowError) String() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Reason)
}

// Outcome summarizes one import run: how many rows were persisted, which
// rows were rejected and why, and whether the file held any data at all.
type Outcome struct {
	Imported  int
	RowErrors []RowError
	NoData    bool
}

// ErrorCount returns the number of rejected rows.
func (o *Outcome) ErrorCount() int {
	return len(o.RowErrors)
}

// Errors returns all row error messages in row order.
func (o *Outcome) Errors() []string {
	msgs := make([]string, len(o.RowErrors))
	for i, e := range o.RowErrors {
		msgs[i] = e.String()
	}
	return msgs
}

// ErrorPreview returns up to MaxErrorPreview row error messages.
func (o *Outcome) ErrorPreview() []string {
	msgs := o.Errors()
	if len(msgs) > MaxErrorPreview {
		msgs = msgs[:MaxErrorPreview]
	}
	return msgs
}

// mapRow turns a validated row into a player ready for persistence.
//
// Season defaults to the current calendar year when not supplied. The
// legacy guardian name pair and legacy paid flag are populated from the
// dad fields and the paid-tuition boolean; this is a one-way copy at
// creation time, not a live alias.
func mapRow(d RowData, now time.Time) *Player {
	season := d.Season
	if season == "" {
		season = strconv.Itoa(now.Year())
	}

	return &Player{
		CreatedAt: now,
		UpdatedAt: now,

		Season:    season,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		BirthYear: d.BirthYear,
		Team:      d.Team,
		Position:  d.Position,

		JerseyNumber:    d.JerseyNumber,
		JerseySize:      d.JerseySize,
		Socks:           d.Socks,
		Jacket:          d.Jacket,
		USAHockeyNumber: d.USAHockeyNumber,

		DadFirstName: d.DadFirstName,
		DadLastName:  d.DadLastName,
		DadPhone:     d.DadPhone,
		DadEmail:     d.DadEmail,

		MomFirstName: d.MomFirstName,
		MomLastName:  d.MomLastName,
		MomPhone:     d.MomPhone,
		MomEmail:     d.MomEmail,

		Address: d.Address,
		City:    d.City,
		State:   d.State,
		ZipCode: d.ZipCode,

		PaidTuition:        d.PaidTuition,
		TotalTuitionAmount: d.TotalTuitionAmount,
		AmountPaid:         d.AmountPaid,

		SignedWaiver:     d.SignedWaiver,
		BirthCertificate: d.BirthCertificate,

		GuardianFirstName: d.DadFirstName,
		GuardianLastName:  d.DadLastName,
		Paid:              d.PaidTuition,
	}
}

// stageImport reads an uploaded roster file, validates every data row and
// returns the players staged for insertion plus the per-row outcome.
// Row numbers start at 2 to account for the header row. A row that fails
// validation is recorded and skipped; it never aborts the batch. An
// unreadable file returns an error and nothing is staged.
func stageImport(r io.Reader, now time.Time) ([]*Player, *Outcome, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse CSV: %w", err)
	}

	outcome := &Outcome{}
	if len(records) == 0 {
		outcome.NoData = true
		return nil, outcome, nil
	}

	header := makeHeaderIndex(records[0])
	dataRows := records[1:]

	var staged []*Player
	for i, row := range dataRows {
		rowNum := i + 2

		// Fully blank lines never reach here: encoding/csv drops them.
		// A row of empty cells (",,") does, and fails name validation
		// below like any other row.
		rec := make(Record, len(header))
		for col, pos := range header {
			if pos < len(row) {
				rec[col] = row[pos]
			}
		}

		data, err := ValidateRow(rec)
		if err != nil {
			outcome.RowErrors = append(outcome.RowErrors, RowError{Row: rowNum, Reason: reasonFor(err)})
			continue
		}

		staged = append(staged, mapRow(data, now))
	}

	if len(staged) == 0 && len(outcome.RowErrors) == 0 {
		outcome.NoData = true
	}

	return staged, outcome, nil
}

// reasonFor renders a validation error as the user-facing reason text.
func reasonFor(err error) string {
	switch {
	case err == ErrNameRequired:
		return "First name and last name are required"
	case err == ErrInvalidAmount:
		return "Invalid financial amount"
	default:
		return err.Error()
	}
}

// makeHeaderIndex maps lowercased header names to column positions.
func makeHeaderIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if key != "" {
			idx[key] = i
		}
	}
	return idx
}
