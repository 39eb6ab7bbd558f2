package roster

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/clubhouse/internal/database"
)

// ErrNotFound is returned when a player or document does not exist.
var ErrNotFound = errors.New("not found")

const playerColumns = `id, created_at, updated_at,
	season, first_name, last_name, birth_year, team, position,
	jersey_number, jersey_size, socks, jacket, usa_hockey_number,
	dad_first_name, dad_last_name, dad_phone, dad_email,
	mom_first_name, mom_last_name, mom_phone, mom_email,
	address, city, state, zip_code,
	paid_tuition, total_tuition_amount, amount_paid,
	signed_waiver, birth_certificate,
	date_of_birth, guardian_first_name, guardian_last_name, paid`

// Repository persists players and their documents.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanPlayer(row pgx.Row) (*Player, error) {
	var p Player
	err := row.Scan(
		&p.ID, &p.CreatedAt, &p.UpdatedAt,
		&p.Season, &p.FirstName, &p.LastName, &p.BirthYear, &p.Team, &p.Position,
		&p.JerseyNumber, &p.JerseySize, &p.Socks, &p.Jacket, &p.USAHockeyNumber,
		&p.DadFirstName, &p.DadLastName, &p.DadPhone, &p.DadEmail,
		&p.MomFirstName, &p.MomLastName, &p.MomPhone, &p.MomEmail,
		&p.Address, &p.City, &p.State, &p.ZipCode,
		&p.PaidTuition, &p.TotalTuitionAmount, &p.AmountPaid,
		&p.SignedWaiver, &p.BirthCertificate,
		&p.DateOfBirth, &p.GuardianFirstName, &p.GuardianLastName, &p.Paid,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func insertPlayer(ctx context.Context, db database.DBTX, p *Player) error {
	const query = `
		INSERT INTO players (
			created_at, updated_at,
			season, first_name, last_name, birth_year, team, position,
			jersey_number, jersey_size, socks, jacket, usa_hockey_number,
			dad_first_name, dad_last_name, dad_phone, dad_email,
			mom_first_name, mom_last_name, mom_phone, mom_email,
			address, city, state, zip_code,
			paid_tuition, total_tuition_amount, amount_paid,
			signed_waiver, birth_certificate,
			date_of_birth, guardian_first_name, guardian_last_name, paid
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30,
			$31, $32, $33, $34
		)
		RETURNING id`

	return db.QueryRow(ctx, query,
		p.CreatedAt, p.UpdatedAt,
		p.Season, p.FirstName, p.LastName, p.BirthYear, p.Team, p.Position,
		p.JerseyNumber, p.JerseySize, p.Socks, p.Jacket, p.USAHockeyNumber,
		p.DadFirstName, p.DadLastName, p.DadPhone, p.DadEmail,
		p.MomFirstName, p.MomLastName, p.MomPhone, p.MomEmail,
		p.Address, p.City, p.State, p.ZipCode,
		p.PaidTuition, p.TotalTuitionAmount, p.AmountPaid,
		p.SignedWaiver, p.BirthCertificate,
		p.DateOfBirth, p.GuardianFirstName, p.GuardianLastName, p.Paid,
	).Scan(&p.ID)
}

// Insert persists a single player and fills in its ID.
func (r *Repository) Insert(ctx context.Context, p *Player) error {
	if err := insertPlayer(ctx, r.pool, p); err != nil {
		return fmt.Errorf("insert player: %w", err)
	}
	return nil
}

// InsertBatch persists players in one transaction. Either every player
// is committed or none are.
func (r *Repository) InsertBatch(ctx context.Context, players []*Player) error {
	return database.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, p := range players {
			if err := insertPlayer(ctx, tx, p); err != nil {
				return fmt.Errorf("insert player %s: %w", p.FullName(), err)
			}
		}
		return nil
	})
}

// GetByID fetches one player.
func (r *Repository) GetByID(ctx context.Context, id int64) (*Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE id = $1`
	p, err := scanPlayer(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get player %d: %w", id, err)
	}
	return p, nil
}

// Update rewrites every mutable column of a player.
func (r *Repository) Update(ctx context.Context, p *Player) error {
	const query = `
		UPDATE players SET
			updated_at = $2,
			season = $3, first_name = $4, last_name = $5, birth_year = $6,
			team = $7, position = $8,
			jersey_number = $9, jersey_size = $10, socks = $11, jacket = $12,
			usa_hockey_number = $13,
			dad_first_name = $14, dad_last_name = $15, dad_phone = $16, dad_email = $17,
			mom_first_name = $18, mom_last_name = $19, mom_phone = $20, mom_email = $21,
			address = $22, city = $23, state = $24, zip_code = $25,
			paid_tuition = $26, total_tuition_amount = $27, amount_paid = $28,
			signed_waiver = $29, birth_certificate = $30,
			date_of_birth = $31, guardian_first_name = $32, guardian_last_name = $33,
			paid = $34
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query,
		p.ID, p.UpdatedAt,
		p.Season, p.FirstName, p.LastName, p.BirthYear, p.Team, p.Position,
		p.JerseyNumber, p.JerseySize, p.Socks, p.Jacket, p.USAHockeyNumber,
		p.DadFirstName, p.DadLastName, p.DadPhone, p.DadEmail,
		p.MomFirstName, p.MomLastName, p.MomPhone, p.MomEmail,
		p.Address, p.City, p.State, p.ZipCode,
		p.PaidTuition, p.TotalTuitionAmount, p.AmountPaid,
		p.SignedWaiver, p.BirthCertificate,
		p.DateOfBirth, p.GuardianFirstName, p.GuardianLastName, p.Paid,
	)
	if err != nil {
		return fmt.Errorf("update player %d: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a player and all their documents in one transaction.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return database.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM player_documents WHERE player_id = $1`, id); err != nil {
			return fmt.Errorf("delete player documents: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM players WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete player: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// List returns players matching the filter, ordered by last then first
// name, then id for a stable order among namesakes.
func (r *Repository) List(ctx context.Context, f Filter) ([]*Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players`
	where, args := f.buildConditions(0)
	query += where + ` ORDER BY last_name, first_name, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []*Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// Teams returns the distinct non-empty team names, sorted.
func (r *Repository) Teams(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `SELECT DISTINCT team FROM players WHERE team <> '' ORDER BY team`)
}

// Seasons returns the distinct non-empty seasons, sorted descending so
// the current season lists first.
func (r *Repository) Seasons(ctx context.Context) ([]string, error) {
	return r.distinct(ctx, `SELECT DISTINCT season FROM players WHERE season <> '' ORDER BY season DESC`)
}

func (r *Repository) distinct(ctx context.Context, query string) ([]string, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("distinct query: %w", err)
	}
	defer rows.Close()

	var vals []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	return vals, rows.Err()
}

// BulkSetPaid flips the payment flags for a set of players. Both the
// current and the legacy column are written so older consumers stay
// consistent. Returns the number of players updated.
func (r *Repository) BulkSetPaid(ctx context.Context, ids []int64, paid bool) (int64, error) {
	const query = `
		UPDATE players
		SET paid_tuition = $1, paid = $1, updated_at = now()
		WHERE id = ANY($2)`

	tag, err := r.pool.Exec(ctx, query, paid, ids)
	if err != nil {
		return 0, fmt.Errorf("bulk set paid: %w", err)
	}
	return tag.RowsAffected(), nil
}

// BulkDelete removes a set of players and their documents in one
// transaction. Returns the number of players removed.
func (r *Repository) BulkDelete(ctx context.Context, ids []int64) (int64, error) {
	var deleted int64
	err := database.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM player_documents WHERE player_id = ANY($1)`, ids); err != nil {
			return fmt.Errorf("delete player documents: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM players WHERE id = ANY($1)`, ids)
		if err != nil {
			return fmt.Errorf("delete players: %w", err)
		}
		deleted = tag.RowsAffected()
		return nil
	})
	return deleted, err
}

// Stats computes the dashboard roster summary.
func (r *Repository) Stats(ctx context.Context) (*Stats, error) {
	var s Stats

	err := r.pool.QueryRow(ctx,
		`SELECT count(*), count(*) FILTER (WHERE NOT paid) FROM players`,
	).Scan(&s.TotalPlayers, &s.UnpaidCount)
	if err != nil {
		return nil, fmt.Errorf("roster stats: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT team, count(*) FROM players WHERE team <> '' GROUP BY team ORDER BY team`)
	if err != nil {
		return nil, fmt.Errorf("team counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tc TeamCount
		if err := rows.Scan(&tc.Team, &tc.Count); err != nil {
			return nil, err
		}
		s.TeamCounts = append(s.TeamCounts, tc)
	}
	return &s, rows.Err()
}

// ---- Documents ----

const documentColumns = `id, created_at, player_id, document_type,
	original_filename, stored_filename, file_size, mime_type, uploaded_by`

// InsertDocument records an uploaded player document.
func (r *Repository) InsertDocument(ctx context.Context, d *Document) error {
	const query = `
		INSERT INTO player_documents (
			created_at, player_id, document_type,
			original_filename, stored_filename, file_size, mime_type, uploaded_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		d.CreatedAt, d.PlayerID, d.DocumentType,
		d.OriginalFilename, d.StoredFilename, d.FileSize, d.MimeType, d.UploadedBy,
	).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// GetDocument fetches one document by id.
func (r *Repository) GetDocument(ctx context.Context, id int64) (*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM player_documents WHERE id = $1`

	var d Document
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.CreatedAt, &d.PlayerID, &d.DocumentType,
		&d.OriginalFilename, &d.StoredFilename, &d.FileSize, &d.MimeType, &d.UploadedBy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %d: %w", id, err)
	}
	return &d, nil
}

// ListDocuments returns a player's documents, newest first.
func (r *Repository) ListDocuments(ctx context.Context, playerID int64) ([]*Document, error) {
	query := `SELECT ` + documentColumns + ` FROM player_documents
		WHERE player_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	for rows.Next() {
		var d Document
		if err := rows.Scan(
			&d.ID, &d.CreatedAt, &d.PlayerID, &d.DocumentType,
			&d.OriginalFilename, &d.StoredFilename, &d.FileSize, &d.MimeType, &d.UploadedBy,
		); err != nil {
			return nil, err
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

// DeleteDocument removes one document row.
func (r *Repository) DeleteDocument(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM player_documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete document %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
