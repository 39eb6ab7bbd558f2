// Package games tracks game results, goals and assists, and aggregates
// per-player stat lines.
package games

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrOpponentRequired = errors.New("opponent team is required")
	ErrTeamRequired     = errors.New("team name is required")
	ErrRinkRequired     = errors.New("rink name is required")
	ErrGoalMismatch     = errors.New("assist does not belong to the goal's game")
)

// Game statuses.
const (
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Assist types.
const (
	AssistPrimary   = "primary"
	AssistSecondary = "secondary"
)

// Game is one played or scheduled game.
type Game struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time

	GameDate     time.Time
	OpponentTeam string
	RinkName     string
	RinkLocation string

	TeamName string

	TeamScore     int
	OpponentScore int

	Status string
	Notes  string

	CreatedBy int64
}

// Result derives the outcome from the score line.
func (g *Game) Result() string {
	switch {
	case g.TeamScore > g.OpponentScore:
		return "Win"
	case g.TeamScore < g.OpponentScore:
		return "Loss"
	default:
		return "Tie"
	}
}

// Goal is one goal scored in a game.
type Goal struct {
	ID         int64
	CreatedAt  time.Time
	Period     int
	TimeScored string
	ScorerID   int64
	GameID     int64
	GoalType   string
}

// Assist credits a player on a goal. Type is primary or secondary.
type Assist struct {
	ID           int64
	CreatedAt    time.Time
	Period       int
	TimeAssisted string
	AssisterID   int64
	GameID       int64
	GoalID       int64
	AssistType   string
}

// StatLine is one player's aggregated season stats.
type StatLine struct {
	PlayerID    int64
	PlayerName  string
	GamesPlayed int64
	Goals       int64
	Assists     int64
}

// Points is goals plus assists.
func (s StatLine) Points() int64 {
	return s.Goals + s.Assists
}
