package roster

import (
	"context"
	"fmt"
	"io"

	"github.com/jonboulle/clockwork"
)

// Bulk actions accepted by Service.BulkAction.
const (
	ActionMarkPaid   = "mark_paid"
	ActionMarkUnpaid = "mark_unpaid"
	ActionDelete     = "delete"
)

// ErrUnknownAction is returned for a bulk action the service does not
// recognize.
var ErrUnknownAction = fmt.Errorf("unknown bulk action")

// ErrNoSelection is returned when a bulk action receives no player ids.
var ErrNoSelection = fmt.Errorf("no players selected")

// Service is the roster business layer: import, export, listing and
// player lifecycle.
type Service struct {
	repo  *Repository
	clock clockwork.Clock
}

func NewService(repo *Repository, clock clockwork.Clock) *Service {
	return &Service{repo: repo, clock: clock}
}

// Import reads an uploaded roster file, validates every row and commits
// the valid ones in a single transaction. Rows that fail validation are
// reported in the outcome and never abort the batch; a storage failure
// aborts the whole batch and nothing is persisted.
func (s *Service) Import(ctx context.Context, r io.Reader) (*Outcome, error) {
	staged, outcome, err := stageImport(r, s.clock.Now().UTC())
	if err != nil {
		return nil, err
	}

	if len(staged) > 0 {
		if err := s.repo.InsertBatch(ctx, staged); err != nil {
			return nil, fmt.Errorf("import players: %w", err)
		}
		outcome.Imported = len(staged)
	}
	return outcome, nil
}

// Export writes players matching the filter as CSV.
func (s *Service) Export(ctx context.Context, w io.Writer, f Filter) error {
	players, err := s.repo.List(ctx, f)
	if err != nil {
		return err
	}
	return WriteCSV(w, players)
}

// Template writes the downloadable import template.
func (s *Service) Template(w io.Writer) error {
	return WriteTemplate(w)
}

// RosterView is everything the roster listing needs: the filtered
// players plus the distinct values that populate the filter dropdowns.
type RosterView struct {
	Players []*Player
	Teams   []string
	Seasons []string
	Filter  Filter
}

// Roster returns the filtered listing together with the filter options.
func (s *Service) Roster(ctx context.Context, f Filter) (*RosterView, error) {
	players, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	teams, err := s.repo.Teams(ctx)
	if err != nil {
		return nil, err
	}
	seasons, err := s.repo.Seasons(ctx)
	if err != nil {
		return nil, err
	}
	return &RosterView{Players: players, Teams: teams, Seasons: seasons, Filter: f}, nil
}

// BulkAction applies one action to a set of players and returns how many
// were affected.
func (s *Service) BulkAction(ctx context.Context, action string, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrNoSelection
	}
	switch action {
	case ActionMarkPaid:
		return s.repo.BulkSetPaid(ctx, ids, true)
	case ActionMarkUnpaid:
		return s.repo.BulkSetPaid(ctx, ids, false)
	case ActionDelete:
		return s.repo.BulkDelete(ctx, ids)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
}

// Create persists a new player. The legacy mirror fields are populated
// from their modern counterparts, as at import.
func (s *Service) Create(ctx context.Context, p *Player) error {
	now := s.clock.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.GuardianFirstName == "" && p.GuardianLastName == "" {
		p.GuardianFirstName = p.DadFirstName
		p.GuardianLastName = p.DadLastName
	}
	p.Paid = p.PaidTuition
	return s.repo.Insert(ctx, p)
}

// Update rewrites an existing player. The legacy paid flag tracks
// PaidTuition on every update; the guardian mirror is left alone so
// manually corrected legacy data survives edits.
func (s *Service) Update(ctx context.Context, p *Player) error {
	p.UpdatedAt = s.clock.Now().UTC()
	p.Paid = p.PaidTuition
	return s.repo.Update(ctx, p)
}

// Get fetches one player.
func (s *Service) Get(ctx context.Context, id int64) (*Player, error) {
	return s.repo.GetByID(ctx, id)
}

// Delete removes a player and their documents.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// Stats returns the dashboard roster summary.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}

// Documents lists a player's documents after confirming the player
// exists.
func (s *Service) Documents(ctx context.Context, playerID int64) ([]*Document, error) {
	if _, err := s.repo.GetByID(ctx, playerID); err != nil {
		return nil, err
	}
	return s.repo.ListDocuments(ctx, playerID)
}

// AddDocument records an uploaded document for a player.
func (s *Service) AddDocument(ctx context.Context, d *Document) error {
	d.CreatedAt = s.clock.Now().UTC()
	return s.repo.InsertDocument(ctx, d)
}

// Document fetches one document.
func (s *Service) Document(ctx context.Context, id int64) (*Document, error) {
	return s.repo.GetDocument(ctx, id)
}

// RemoveDocument deletes one document row.
func (s *Service) RemoveDocument(ctx context.Context, id int64) error {
	return s.repo.DeleteDocument(ctx, id)
}
