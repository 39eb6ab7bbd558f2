package practice

import (
	"context"
	"strings"

	"github.com/jonboulle/clockwork"
)

// DefaultReviewStatus is the review state a new plan starts in.
const DefaultReviewStatus = "Not Reviewed"

// Service is the practice planning business layer.
type Service struct {
	repo  *Repository
	clock clockwork.Clock
}

func NewService(repo *Repository, clock clockwork.Clock) *Service {
	return &Service{repo: repo, clock: clock}
}

// ---- Teams ----

func (s *Service) CreateTeam(ctx context.Context, name, description string, userID int64) (*Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	now := s.clock.Now().UTC()
	t := &Team{
		CreatedAt:   now,
		UpdatedAt:   now,
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedBy:   userID,
	}
	if err := s.repo.InsertTeam(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) UpdateTeam(ctx context.Context, id int64, name, description string) (*Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	t, err := s.repo.TeamByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t.Name = name
	t.Description = strings.TrimSpace(description)
	t.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.UpdateTeam(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Teams(ctx context.Context) ([]*Team, error) {
	return s.repo.ListTeams(ctx)
}

func (s *Service) Team(ctx context.Context, id int64) (*Team, error) {
	return s.repo.TeamByID(ctx, id)
}

// DeleteTeam removes a team and all its plans.
func (s *Service) DeleteTeam(ctx context.Context, id int64) error {
	return s.repo.DeleteTeam(ctx, id)
}

// ---- Plans ----

// CreatePlan validates and stores a plan for a team. Drills missing a
// name or a time are dropped; the rest are renumbered in order.
func (s *Service) CreatePlan(ctx context.Context, p *Plan) (*Plan, error) {
	if err := s.preparePlan(ctx, p); err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.ReviewStatus == "" {
		p.ReviewStatus = DefaultReviewStatus
	}

	if err := s.repo.InsertPlan(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePlan rewrites a plan; its drill list and attachment set are
// replaced with the given ones.
func (s *Service) UpdatePlan(ctx context.Context, p *Plan) (*Plan, error) {
	if err := s.preparePlan(ctx, p); err != nil {
		return nil, err
	}

	p.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.UpdatePlan(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) preparePlan(ctx context.Context, p *Plan) error {
	p.Title = strings.TrimSpace(p.Title)
	if p.Title == "" {
		return ErrTitleRequired
	}
	p.PrimaryFocus = strings.TrimSpace(p.PrimaryFocus)
	if p.PrimaryFocus == "" {
		return ErrFocusRequired
	}
	if _, err := s.repo.TeamByID(ctx, p.TeamID); err != nil {
		return err
	}
	p.Drills = keepValidDrills(p.Drills)
	return nil
}

func (s *Service) Plan(ctx context.Context, id int64) (*Plan, error) {
	return s.repo.PlanByID(ctx, id)
}

func (s *Service) PlansForTeam(ctx context.Context, teamID int64) ([]*Plan, error) {
	if _, err := s.repo.TeamByID(ctx, teamID); err != nil {
		return nil, err
	}
	return s.repo.PlansForTeam(ctx, teamID)
}

func (s *Service) DeletePlan(ctx context.Context, id int64) error {
	return s.repo.DeletePlan(ctx, id)
}

// AttachFile links an uploaded file to a plan.
func (s *Service) AttachFile(ctx context.Context, planID, fileID int64) error {
	if _, err := s.repo.PlanByID(ctx, planID); err != nil {
		return err
	}
	return s.repo.AddAttachment(ctx, planID, fileID)
}

// DetachFile unlinks a file from a plan.
func (s *Service) DetachFile(ctx context.Context, planID, fileID int64) error {
	return s.repo.RemoveAttachment(ctx, planID, fileID)
}
