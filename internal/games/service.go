package games

import (
	"context"
	"strings"

	"github.com/jonboulle/clockwork"
)

// Service is the game tracker business layer.
type Service struct {
	repo  *Repository
	clock clockwork.Clock
}

func NewService(repo *Repository, clock clockwork.Clock) *Service {
	return &Service{repo: repo, clock: clock}
}

func validateGame(g *Game) error {
	g.OpponentTeam = strings.TrimSpace(g.OpponentTeam)
	g.TeamName = strings.TrimSpace(g.TeamName)
	g.RinkName = strings.TrimSpace(g.RinkName)

	if g.OpponentTeam == "" {
		return ErrOpponentRequired
	}
	if g.TeamName == "" {
		return ErrTeamRequired
	}
	if g.RinkName == "" {
		return ErrRinkRequired
	}
	return nil
}

// CreateGame records a game. Status defaults to completed.
func (s *Service) CreateGame(ctx context.Context, g *Game) (*Game, error) {
	if err := validateGame(g); err != nil {
		return nil, err
	}
	if g.Status == "" {
		g.Status = StatusCompleted
	}

	now := s.clock.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now
	if err := s.repo.InsertGame(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Service) UpdateGame(ctx context.Context, g *Game) (*Game, error) {
	if err := validateGame(g); err != nil {
		return nil, err
	}
	g.UpdatedAt = s.clock.Now().UTC()
	if err := s.repo.UpdateGame(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Service) Game(ctx context.Context, id int64) (*Game, error) {
	return s.repo.GameByID(ctx, id)
}

func (s *Service) Games(ctx context.Context) ([]*Game, error) {
	return s.repo.ListGames(ctx)
}

func (s *Service) DeleteGame(ctx context.Context, id int64) error {
	return s.repo.DeleteGame(ctx, id)
}

// AddGoal records a goal for a game after confirming the game exists.
func (s *Service) AddGoal(ctx context.Context, g *Goal) (*Goal, error) {
	if _, err := s.repo.GameByID(ctx, g.GameID); err != nil {
		return nil, err
	}
	if g.Period < 1 {
		g.Period = 1
	}
	g.CreatedAt = s.clock.Now().UTC()
	if err := s.repo.InsertGoal(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Service) Goals(ctx context.Context, gameID int64) ([]*Goal, error) {
	return s.repo.GoalsForGame(ctx, gameID)
}

func (s *Service) DeleteGoal(ctx context.Context, id int64) error {
	return s.repo.DeleteGoal(ctx, id)
}

// AddAssist credits an assist on a goal. The assist inherits the goal's
// game and period; type defaults to primary.
func (s *Service) AddAssist(ctx context.Context, a *Assist) (*Assist, error) {
	goal, err := s.repo.GoalByID(ctx, a.GoalID)
	if err != nil {
		return nil, err
	}
	if a.GameID != 0 && a.GameID != goal.GameID {
		return nil, ErrGoalMismatch
	}
	a.GameID = goal.GameID
	if a.Period == 0 {
		a.Period = goal.Period
	}
	if a.AssistType == "" {
		a.AssistType = AssistPrimary
	}

	a.CreatedAt = s.clock.Now().UTC()
	if err := s.repo.InsertAssist(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *Service) Assists(ctx context.Context, goalID int64) ([]*Assist, error) {
	return s.repo.AssistsForGoal(ctx, goalID)
}

func (s *Service) DeleteAssist(ctx context.Context, id int64) error {
	return s.repo.DeleteAssist(ctx, id)
}

// PlayerStats returns the aggregated stat lines.
func (s *Service) PlayerStats(ctx context.Context) ([]StatLine, error) {
	return s.repo.PlayerStats(ctx)
}
