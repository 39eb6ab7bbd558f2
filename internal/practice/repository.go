package practice

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/clubhouse/internal/database"
)

// Repository persists teams, plans, drills and attachments.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ---- Teams ----

func (r *Repository) InsertTeam(ctx context.Context, t *Team) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO teams (created_at, updated_at, name, description, created_by)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		t.CreatedAt, t.UpdatedAt, t.Name, t.Description, t.CreatedBy,
	).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert team: %w", err)
	}
	return nil
}

func (r *Repository) UpdateTeam(ctx context.Context, t *Team) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE teams SET updated_at = $2, name = $3, description = $4 WHERE id = $1`,
		t.ID, t.UpdatedAt, t.Name, t.Description)
	if err != nil {
		return fmt.Errorf("update team %d: %w", t.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) TeamByID(ctx context.Context, id int64) (*Team, error) {
	var t Team
	err := r.pool.QueryRow(ctx,
		`SELECT id, created_at, updated_at, name, description, created_by FROM teams WHERE id = $1`, id,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt, &t.Name, &t.Description, &t.CreatedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get team %d: %w", id, err)
	}
	return &t, nil
}

func (r *Repository) ListTeams(ctx context.Context) ([]*Team, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, created_at, updated_at, name, description, created_by FROM teams ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var teams []*Team
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt, &t.Name, &t.Description, &t.CreatedBy); err != nil {
			return nil, err
		}
		teams = append(teams, &t)
	}
	return teams, rows.Err()
}

// DeleteTeam removes a team and everything under it: plans, their
// drills and their attachment links.
func (r *Repository) DeleteTeam(ctx context.Context, id int64) error {
	return database.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM drill_pieces WHERE plan_id IN (SELECT id FROM practice_plans WHERE team_id = $1)`, id); err != nil {
			return fmt.Errorf("delete team drills: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`DELETE FROM practice_plan_attachments WHERE plan_id IN (SELECT id FROM practice_plans WHERE team_id = $1)`, id); err != nil {
			return fmt.Errorf("delete team attachments: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM practice_plans WHERE team_id = $1`, id); err != nil {
			return fmt.Errorf("delete team plans: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete team: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// ---- Plans ----

const planColumns = `id, created_at, updated_at, title, date, duration,
	primary_focus, secondary_focus, warm_up, main_content, cool_down,
	equipment_needed, additional_notes, review_status, external_links,
	team_id, created_by`

func scanPlan(row pgx.Row) (*Plan, error) {
	var p Plan
	var links string
	err := row.Scan(
		&p.ID, &p.CreatedAt, &p.UpdatedAt, &p.Title, &p.Date, &p.Duration,
		&p.PrimaryFocus, &p.SecondaryFocus, &p.WarmUp, &p.MainContent, &p.CoolDown,
		&p.EquipmentNeeded, &p.AdditionalNotes, &p.ReviewStatus, &links,
		&p.TeamID, &p.CreatedBy,
	)
	if err != nil {
		return nil, err
	}
	p.ExternalLinks = SplitLinks(links)
	return &p, nil
}

// InsertPlan stores a plan with its drills and attachment links in one
// transaction.
func (r *Repository) InsertPlan(ctx context.Context, p *Plan) error {
	return database.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO practice_plans (
				created_at, updated_at, title, date, duration,
				primary_focus, secondary_focus, warm_up, main_content, cool_down,
				equipment_needed, additional_notes, review_status, external_links,
				team_id, created_by
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			RETURNING id`,
			p.CreatedAt, p.UpdatedAt, p.Title, p.Date, p.Duration,
			p.PrimaryFocus, p.SecondaryFocus, p.WarmUp, p.MainContent, p.CoolDown,
			p.EquipmentNeeded, p.AdditionalNotes, p.ReviewStatus, JoinLinks(p.ExternalLinks),
			p.TeamID, p.CreatedBy,
		).Scan(&p.ID)
		if err != nil {
			return fmt.Errorf("insert plan: %w", err)
		}
		if err := insertDrills(ctx, tx, p.ID, p.Drills); err != nil {
			return err
		}
		return insertAttachments(ctx, tx, p.ID, p.Attachments)
	})
}

// UpdatePlan rewrites a plan. Drills and attachments are replaced
// wholesale with the given sets.
func (r *Repository) UpdatePlan(ctx context.Context, p *Plan) error {
	return database.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE practice_plans SET
				updated_at = $2, title = $3, date = $4, duration = $5,
				primary_focus = $6, secondary_focus = $7,
				warm_up = $8, main_content = $9, cool_down = $10,
				equipment_needed = $11, additional_notes = $12,
				review_status = $13, external_links = $14
			WHERE id = $1`,
			p.ID, p.UpdatedAt, p.Title, p.Date, p.Duration,
			p.PrimaryFocus, p.SecondaryFocus,
			p.WarmUp, p.MainContent, p.CoolDown,
			p.EquipmentNeeded, p.AdditionalNotes,
			p.ReviewStatus, JoinLinks(p.ExternalLinks))
		if err != nil {
			return fmt.Errorf("update plan %d: %w", p.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM drill_pieces WHERE plan_id = $1`, p.ID); err != nil {
			return fmt.Errorf("clear drills: %w", err)
		}
		if err := insertDrills(ctx, tx, p.ID, p.Drills); err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM practice_plan_attachments WHERE plan_id = $1`, p.ID); err != nil {
			return fmt.Errorf("clear attachments: %w", err)
		}
		return insertAttachments(ctx, tx, p.ID, p.Attachments)
	})
}

func insertDrills(ctx context.Context, tx pgx.Tx, planID int64, drills []Drill) error {
	for i := range drills {
		d := &drills[i]
		err := tx.QueryRow(ctx,
			`INSERT INTO drill_pieces (
				created_at, updated_at, time, drill_name, description,
				link_attachment, order_index, plan_id
			) VALUES (now(), now(), $1, $2, $3, $4, $5, $6) RETURNING id`,
			d.Time, d.Name, d.Description, d.LinkAttachment, d.OrderIndex, planID,
		).Scan(&d.ID)
		if err != nil {
			return fmt.Errorf("insert drill: %w", err)
		}
		d.PlanID = planID
	}
	return nil
}

func insertAttachments(ctx context.Context, tx pgx.Tx, planID int64, fileIDs []int64) error {
	for _, fileID := range fileIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO practice_plan_attachments (plan_id, file_id)
			 VALUES ($1, $2) ON CONFLICT DO NOTHING`, planID, fileID)
		if err != nil {
			return fmt.Errorf("attach file %d: %w", fileID, err)
		}
	}
	return nil
}

// PlanByID fetches a plan with its drills and attachment file ids.
func (r *Repository) PlanByID(ctx context.Context, id int64) (*Plan, error) {
	p, err := scanPlan(r.pool.QueryRow(ctx,
		`SELECT `+planColumns+` FROM practice_plans WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get plan %d: %w", id, err)
	}

	drills, err := r.planDrills(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Drills = drills

	rows, err := r.pool.Query(ctx,
		`SELECT file_id FROM practice_plan_attachments WHERE plan_id = $1 ORDER BY file_id`, id)
	if err != nil {
		return nil, fmt.Errorf("plan attachments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var fid int64
		if err := rows.Scan(&fid); err != nil {
			return nil, err
		}
		p.Attachments = append(p.Attachments, fid)
	}
	return p, rows.Err()
}

func (r *Repository) planDrills(ctx context.Context, planID int64) ([]Drill, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, created_at, updated_at, time, drill_name, description,
			link_attachment, order_index, plan_id
		 FROM drill_pieces WHERE plan_id = $1 ORDER BY order_index`, planID)
	if err != nil {
		return nil, fmt.Errorf("plan drills: %w", err)
	}
	defer rows.Close()

	var drills []Drill
	for rows.Next() {
		var d Drill
		if err := rows.Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt, &d.Time, &d.Name,
			&d.Description, &d.LinkAttachment, &d.OrderIndex, &d.PlanID); err != nil {
			return nil, err
		}
		drills = append(drills, d)
	}
	return drills, rows.Err()
}

// PlansForTeam returns a team's plans, newest practice date first.
// Drills are not loaded for the listing.
func (r *Repository) PlansForTeam(ctx context.Context, teamID int64) ([]*Plan, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+planColumns+` FROM practice_plans WHERE team_id = $1 ORDER BY date DESC`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []*Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// DeletePlan removes a plan with its drills and attachment links.
func (r *Repository) DeletePlan(ctx context.Context, id int64) error {
	return database.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM drill_pieces WHERE plan_id = $1`, id); err != nil {
			return fmt.Errorf("delete plan drills: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM practice_plan_attachments WHERE plan_id = $1`, id); err != nil {
			return fmt.Errorf("delete plan attachments: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM practice_plans WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete plan: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// AddAttachment links one file to a plan.
func (r *Repository) AddAttachment(ctx context.Context, planID, fileID int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO practice_plan_attachments (plan_id, file_id)
		 VALUES ($1, $2) ON CONFLICT DO NOTHING`, planID, fileID)
	if err != nil {
		return fmt.Errorf("add attachment: %w", err)
	}
	return nil
}

// RemoveAttachment unlinks one file from a plan.
func (r *Repository) RemoveAttachment(ctx context.Context, planID, fileID int64) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM practice_plan_attachments WHERE plan_id = $1 AND file_id = $2`, planID, fileID)
	if err != nil {
		return fmt.Errorf("remove attachment: %w", err)
	}
	return nil
}
