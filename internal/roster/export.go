package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// ExportColumns is the fixed export header. Order and names are part of
// the file contract consumed by club spreadsheets; do not reorder.
var ExportColumns = []string{
	"Season", "First Name", "Last Name", "Birth Year", "Team", "Position",
	"Jersey Number", "Jersey Size", "Socks Size", "Jacket Size", "USA Hockey Number",
	"Dad First Name", "Dad Last Name", "Dad Phone", "Dad Email",
	"Mom First Name", "Mom Last Name", "Mom Phone", "Mom Email",
	"Address", "City", "State", "Zip Code",
	"Paid Tuition", "Total Tuition Amount", "Amount Paid",
	"Signed Waiver", "Birth Certificate",
	"Date of Birth", "Guardian First Name", "Guardian Last Name", "Paid Status",
	"Created Date", "Last Updated",
}

const (
	exportDateLayout = "01/02/2006"
	exportTimeLayout = "01/02/2006 15:04"
)

// WriteCSV streams players as an export file: the fixed header followed
// by one row per player in the given order.
func WriteCSV(w io.Writer, players []*Player) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ExportColumns); err != nil {
		return fmt.Errorf("write export header: %w", err)
	}
	for _, p := range players {
		if err := cw.Write(exportRow(p)); err != nil {
			return fmt.Errorf("write export row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func exportRow(p *Player) []string {
	return []string{
		p.Season, p.FirstName, p.LastName, p.BirthYear, p.Team, p.Position,
		p.JerseyNumber, p.JerseySize, p.Socks, p.Jacket, p.USAHockeyNumber,
		p.DadFirstName, p.DadLastName, p.DadPhone, p.DadEmail,
		p.MomFirstName, p.MomLastName, p.MomPhone, p.MomEmail,
		p.Address, p.City, p.State, p.ZipCode,
		formatBool(p.PaidTuition),
		formatMoney(p.TotalTuitionAmount),
		formatMoney(p.AmountPaid),
		formatBool(p.SignedWaiver),
		formatBool(p.BirthCertificate),
		formatDate(p.DateOfBirth),
		p.GuardianFirstName, p.GuardianLastName,
		formatBool(p.Paid),
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	}
}

// WriteTemplate writes the import template: the import header plus two
// sample rows showing the expected value formats.
func WriteTemplate(w io.Writer) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(ImportColumns); err != nil {
		return fmt.Errorf("write template header: %w", err)
	}

	samples := [][]string{
		{
			"2024", "John", "Doe", "2010", "8U", "Forward",
			"15", "S", "M", "S", "12345",
			"Mike", "Doe", "555-1234", "mike.doe@email.com",
			"Jane", "Doe", "555-5678", "jane.doe@email.com",
			"123 Main St", "Bayonne", "NJ", "07002",
			"true", "500.00", "500.00", "true", "true",
		},
		{
			"2024", "Sarah", "Smith", "2011", "10U", "Defense",
			"22", "M", "L", "M", "67890",
			"Tom", "Smith", "555-9876", "tom.smith@email.com",
			"Lisa", "Smith", "555-4321", "lisa.smith@email.com",
			"456 Oak Ave", "Jersey City", "NJ", "07305",
			"false", "500.00", "250.00", "true", "false",
		},
	}
	for _, row := range samples {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write template row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// formatMoney renders a money amount as "$1234.56". Zero renders empty so
// unpopulated financial columns stay blank in spreadsheets.
func formatMoney(v float64) string {
	if v == 0 {
		return ""
	}
	return fmt.Sprintf("$%.2f", v)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportDateLayout)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(exportTimeLayout)
}
