// Package roster provides the player roster: the entity model, bulk CSV
// import with per-row validation, the shared filter/query builder, and
// CSV export. This package has no HTTP dependencies.
package roster

import "time"

// Player is a persisted roster entry with all club-specific fields.
type Player struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time

	// Basic information
	Season    string
	FirstName string
	LastName  string
	BirthYear string
	Team      string
	Position  string

	// Jersey and equipment
	JerseyNumber    string
	JerseySize      string
	Socks           string
	Jacket          string
	USAHockeyNumber string

	// Father contact
	DadFirstName string
	DadLastName  string
	DadPhone     string
	DadEmail     string

	// Mother contact
	MomFirstName string
	MomLastName  string
	MomPhone     string
	MomEmail     string

	// Address
	Address string
	City    string
	State   string
	ZipCode string

	// Financial
	PaidTuition        bool
	TotalTuitionAmount float64
	AmountPaid         float64

	// Documentation and legal
	SignedWaiver     bool
	BirthCertificate bool

	// Legacy fields kept for pre-existing data and consumers.
	// GuardianFirstName/GuardianLastName mirror the dad fields at import
	// time; Paid mirrors PaidTuition. Any mutation path that sets
	// PaidTuition must set Paid alongside it.
	DateOfBirth       *time.Time
	GuardianFirstName string
	GuardianLastName  string
	Paid              bool
}

// FullName returns "First Last".
func (p *Player) FullName() string {
	return p.FirstName + " " + p.LastName
}

// Document is a secure file attached to a player (birth certificate,
// waiver, etc). Documents are exclusively owned by their player and are
// removed when the player is deleted.
type Document struct {
	ID               int64
	CreatedAt        time.Time
	PlayerID         int64
	DocumentType     string
	OriginalFilename string
	StoredFilename   string
	FileSize         int64
	MimeType         string
	UploadedBy       int64
}

// TeamCount is one row of the dashboard team breakdown.
type TeamCount struct {
	Team  string
	Count int64
}

// Stats summarizes the roster for the dashboard.
type Stats struct {
	TotalPlayers int64
	TeamCounts   []TeamCount
	UnpaidCount  int64
}
