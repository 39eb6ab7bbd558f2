package games

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/clubhouse/internal/database"
)

const gameColumns = `id, created_at, updated_at, game_date, opponent_team,
	rink_name, rink_location, team_name, team_score, opponent_score,
	game_status, notes, created_by`

// Repository persists games, goals and assists.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanGame(row pgx.Row) (*Game, error) {
	var g Game
	err := row.Scan(
		&g.ID, &g.CreatedAt, &g.UpdatedAt, &g.GameDate, &g.OpponentTeam,
		&g.RinkName, &g.RinkLocation, &g.TeamName, &g.TeamScore, &g.OpponentScore,
		&g.Status, &g.Notes, &g.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// ---- Games ----

func (r *Repository) InsertGame(ctx context.Context, g *Game) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO games (
			created_at, updated_at, game_date, opponent_team,
			rink_name, rink_location, team_name, team_score, opponent_score,
			game_status, notes, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		g.CreatedAt, g.UpdatedAt, g.GameDate, g.OpponentTeam,
		g.RinkName, g.RinkLocation, g.TeamName, g.TeamScore, g.OpponentScore,
		g.Status, g.Notes, g.CreatedBy,
	).Scan(&g.ID)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

func (r *Repository) UpdateGame(ctx context.Context, g *Game) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE games SET
			updated_at = $2, game_date = $3, opponent_team = $4,
			rink_name = $5, rink_location = $6, team_name = $7,
			team_score = $8, opponent_score = $9, game_status = $10, notes = $11
		WHERE id = $1`,
		g.ID, g.UpdatedAt, g.GameDate, g.OpponentTeam,
		g.RinkName, g.RinkLocation, g.TeamName,
		g.TeamScore, g.OpponentScore, g.Status, g.Notes)
	if err != nil {
		return fmt.Errorf("update game %d: %w", g.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) GameByID(ctx context.Context, id int64) (*Game, error) {
	g, err := scanGame(r.pool.QueryRow(ctx,
		`SELECT `+gameColumns+` FROM games WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get game %d: %w", id, err)
	}
	return g, nil
}

// ListGames returns all games, most recent date first.
func (r *Repository) ListGames(ctx context.Context) ([]*Game, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+gameColumns+` FROM games ORDER BY game_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var games []*Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// DeleteGame removes a game with its goals and assists.
func (r *Repository) DeleteGame(ctx context.Context, id int64) error {
	return database.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM assists WHERE game_id = $1`, id); err != nil {
			return fmt.Errorf("delete game assists: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM goals WHERE game_id = $1`, id); err != nil {
			return fmt.Errorf("delete game goals: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM games WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete game: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ---- Goals and assists ----

func (r *Repository) InsertGoal(ctx context.Context, g *Goal) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO goals (created_at, period, time_scored, scorer_id, game_id, goal_type)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		g.CreatedAt, g.Period, g.TimeScored, g.ScorerID, g.GameID, g.GoalType,
	).Scan(&g.ID)
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

func (r *Repository) GoalByID(ctx context.Context, id int64) (*Goal, error) {
	var g Goal
	err := r.pool.QueryRow(ctx,
		`SELECT id, created_at, period, time_scored, scorer_id, game_id, goal_type
		 FROM goals WHERE id = $1`, id,
	).Scan(&g.ID, &g.CreatedAt, &g.Period, &g.TimeScored, &g.ScorerID, &g.GameID, &g.GoalType)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get goal %d: %w", id, err)
	}
	return &g, nil
}

// GoalsForGame returns a game's goals in period then time order as
// entered.
func (r *Repository) GoalsForGame(ctx context.Context, gameID int64) ([]*Goal, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, created_at, period, time_scored, scorer_id, game_id, goal_type
		 FROM goals WHERE game_id = $1 ORDER BY period, id`, gameID)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	defer rows.Close()

	var goals []*Goal
	for rows.Next() {
		var g Goal
		if err := rows.Scan(&g.ID, &g.CreatedAt, &g.Period, &g.TimeScored,
			&g.ScorerID, &g.GameID, &g.GoalType); err != nil {
			return nil, err
		}
		goals = append(goals, &g)
	}
	return goals, rows.Err()
}

// DeleteGoal removes a goal and its assists.
func (r *Repository) DeleteGoal(ctx context.Context, id int64) error {
	return database.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM assists WHERE goal_id = $1`, id); err != nil {
			return fmt.Errorf("delete goal assists: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM goals WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete goal: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *Repository) InsertAssist(ctx context.Context, a *Assist) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO assists (created_at, period, time_assisted, assister_id, game_id, goal_id, assist_type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		a.CreatedAt, a.Period, a.TimeAssisted, a.AssisterID, a.GameID, a.GoalID, a.AssistType,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("insert assist: %w", err)
	}
	return nil
}

// AssistsForGoal returns the assists credited on one goal.
func (r *Repository) AssistsForGoal(ctx context.Context, goalID int64) ([]*Assist, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, created_at, period, time_assisted, assister_id, game_id, goal_id, assist_type
		 FROM assists WHERE goal_id = $1 ORDER BY assist_type, id`, goalID)
	if err != nil {
		return nil, fmt.Errorf("list assists: %w", err)
	}
	defer rows.Close()

	var assists []*Assist
	for rows.Next() {
		var a Assist
		if err := rows.Scan(&a.ID, &a.CreatedAt, &a.Period, &a.TimeAssisted,
			&a.AssisterID, &a.GameID, &a.GoalID, &a.AssistType); err != nil {
			return nil, err
		}
		assists = append(assists, &a)
	}
	return assists, rows.Err()
}

func (r *Repository) DeleteAssist(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM assists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete assist %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// PlayerStats aggregates goals, assists and games played per player over
// all completed games, highest point total first.
func (r *Repository) PlayerStats(ctx context.Context) ([]StatLine, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id,
			p.first_name || ' ' || p.last_name,
			(SELECT count(DISTINCT game_id) FROM (
				SELECT game_id FROM goals WHERE scorer_id = p.id
				UNION
				SELECT game_id FROM assists WHERE assister_id = p.id
			) played) AS games,
			(SELECT count(*) FROM goals WHERE scorer_id = p.id) AS goals,
			(SELECT count(*) FROM assists WHERE assister_id = p.id) AS assists
		FROM players p
		WHERE EXISTS (SELECT 1 FROM goals WHERE scorer_id = p.id)
		   OR EXISTS (SELECT 1 FROM assists WHERE assister_id = p.id)
		ORDER BY goals + assists DESC, p.last_name, p.first_name`)
	if err != nil {
		return nil, fmt.Errorf("player stats: %w", err)
	}
	defer rows.Close()

	var stats []StatLine
	for rows.Next() {
		var s StatLine
		if err := rows.Scan(&s.PlayerID, &s.PlayerName, &s.GamesPlayed, &s.Goals, &s.Assists); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
