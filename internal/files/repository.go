package files

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const folderColumns = `id, created_at, updated_at, name, description, color, parent_id, created_by`

const fileColumns = `id, created_at, updated_at, original_name, stored_name,
	file_size, mime_type, description, is_public, download_count, folder_id, uploaded_by`

// Repository persists folders and file records.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func scanFolder(row pgx.Row) (*Folder, error) {
	var f Folder
	err := row.Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt, &f.Name, &f.Description,
		&f.Color, &f.ParentID, &f.CreatedBy)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func scanFile(row pgx.Row) (*File, error) {
	var f File
	err := row.Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt, &f.OriginalName, &f.StoredName,
		&f.FileSize, &f.MimeType, &f.Description, &f.IsPublic, &f.DownloadCount,
		&f.FolderID, &f.UploadedBy)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ---- Folders ----

func (r *Repository) InsertFolder(ctx context.Context, f *Folder) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO folders (created_at, updated_at, name, description, color, parent_id, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		f.CreatedAt, f.UpdatedAt, f.Name, f.Description, f.Color, f.ParentID, f.CreatedBy,
	).Scan(&f.ID)
	if err != nil {
		return fmt.Errorf("insert folder: %w", err)
	}
	return nil
}

func (r *Repository) FolderByID(ctx context.Context, id int64) (*Folder, error) {
	f, err := scanFolder(r.pool.QueryRow(ctx,
		`SELECT `+folderColumns+` FROM folders WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get folder %d: %w", id, err)
	}
	return f, nil
}

// FolderNameExists reports whether a folder with the name already lives
// in the given directory level.
func (r *Repository) FolderNameExists(ctx context.Context, name string, parentID *int64) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM folders WHERE name = $1 AND parent_id IS NOT DISTINCT FROM $2
		)`, name, parentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check folder name: %w", err)
	}
	return exists, nil
}

// Subfolders returns the folders directly under parentID (nil = root),
// ordered by name.
func (r *Repository) Subfolders(ctx context.Context, parentID *int64) ([]*Folder, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+folderColumns+` FROM folders
		 WHERE parent_id IS NOT DISTINCT FROM $1 ORDER BY name`, parentID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []*Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, err
		}
		folders = append(folders, f)
	}
	return folders, rows.Err()
}

func (r *Repository) DeleteFolder(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM folders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete folder %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- Files ----

func (r *Repository) InsertFile(ctx context.Context, f *File) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO files (
			created_at, updated_at, original_name, stored_name,
			file_size, mime_type, description, is_public, folder_id, uploaded_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		f.CreatedAt, f.UpdatedAt, f.OriginalName, f.StoredName,
		f.FileSize, f.MimeType, f.Description, f.IsPublic, f.FolderID, f.UploadedBy,
	).Scan(&f.ID)
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

func (r *Repository) FileByID(ctx context.Context, id int64) (*File, error) {
	f, err := scanFile(r.pool.QueryRow(ctx,
		`SELECT `+fileColumns+` FROM files WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get file %d: %w", id, err)
	}
	return f, nil
}

// FilesInFolder returns the files directly in folderID (nil = root),
// ordered by original name.
func (r *Repository) FilesInFolder(ctx context.Context, folderID *int64) ([]*File, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+fileColumns+` FROM files
		 WHERE folder_id IS NOT DISTINCT FROM $1 ORDER BY original_name`, folderID)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	defer rows.Close()
	return collectFiles(rows)
}

// Search matches files by original name or description, capped at
// SearchLimit results.
func (r *Repository) Search(ctx context.Context, query string) ([]*File, error) {
	pat := "%" + query + "%"
	rows, err := r.pool.Query(ctx,
		`SELECT `+fileColumns+` FROM files
		 WHERE original_name ILIKE $1 OR description ILIKE $1
		 ORDER BY original_name LIMIT $2`, pat, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("search files: %w", err)
	}
	defer rows.Close()
	return collectFiles(rows)
}

func collectFiles(rows pgx.Rows) ([]*File, error) {
	var out []*File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// IncrementDownloadCount bumps a file's download counter.
func (r *Repository) IncrementDownloadCount(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE files SET download_count = download_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment download count: %w", err)
	}
	return nil
}

func (r *Repository) DeleteFile(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete file %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
