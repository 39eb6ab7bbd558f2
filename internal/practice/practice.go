// Package practice manages teams and their practice plans: the plan
// body, its ordered drill pieces and file attachments.
package practice

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrTitleRequired = errors.New("title is required")
	ErrNameRequired  = errors.New("team name is required")
	ErrFocusRequired = errors.New("primary focus is required")
)

// Team groups practice plans. Deleting a team removes its plans.
type Team struct {
	ID          int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string
	Description string
	CreatedBy   int64
}

// Plan is one practice plan. ExternalLinks holds zero or more URLs.
type Plan struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time

	Title    string
	Date     time.Time
	Duration string

	PrimaryFocus   string
	SecondaryFocus string

	WarmUp      string
	MainContent string
	CoolDown    string

	EquipmentNeeded string
	AdditionalNotes string
	ReviewStatus    string

	ExternalLinks []string

	TeamID    int64
	CreatedBy int64

	Drills      []Drill
	Attachments []int64
}

// Drill is one timed segment of a plan. Order follows OrderIndex.
type Drill struct {
	ID             int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Time           string
	Name           string
	Description    string
	LinkAttachment string
	OrderIndex     int
	PlanID         int64
}

// Valid reports whether the drill has the two required fields. Invalid
// drills are silently dropped when a plan is saved.
func (d Drill) Valid() bool {
	return strings.TrimSpace(d.Name) != "" && strings.TrimSpace(d.Time) != ""
}

// ParseLinks splits a links text area into individual trimmed URLs, one
// per line, dropping blanks.
func ParseLinks(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if link := strings.TrimSpace(line); link != "" {
			out = append(out, link)
		}
	}
	return out
}

// JoinLinks renders links for storage as a comma-joined string; empty
// input stays empty.
func JoinLinks(links []string) string {
	return strings.Join(links, ",")
}

// SplitLinks is the inverse of JoinLinks.
func SplitLinks(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// keepValidDrills filters drills to the valid ones, renumbering
// OrderIndex from zero in input order.
func keepValidDrills(drills []Drill) []Drill {
	var out []Drill
	for _, d := range drills {
		if !d.Valid() {
			continue
		}
		d.OrderIndex = len(out)
		out = append(out, d)
	}
	return out
}
