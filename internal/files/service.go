package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jonboulle/clockwork"
)

// DefaultFolderColor is the color a folder gets when none is chosen.
const DefaultFolderColor = "primary"

// Service is the file repository business layer.
type Service struct {
	repo    *Repository
	storage *Storage
	clock   clockwork.Clock
}

func NewService(repo *Repository, storage *Storage, clock clockwork.Clock) *Service {
	return &Service{repo: repo, storage: storage, clock: clock}
}

// Browse returns one directory level. folderID nil is the root; a
// non-root listing includes the breadcrumb from the root down.
func (s *Service) Browse(ctx context.Context, folderID *int64) (*Listing, error) {
	listing := &Listing{}

	if folderID != nil {
		folder, err := s.repo.FolderByID(ctx, *folderID)
		if err != nil {
			return nil, err
		}
		listing.Folder = folder

		crumb, err := s.breadcrumb(ctx, folder)
		if err != nil {
			return nil, err
		}
		listing.Breadcrumb = crumb
	}

	folders, err := s.repo.Subfolders(ctx, folderID)
	if err != nil {
		return nil, err
	}
	files, err := s.repo.FilesInFolder(ctx, folderID)
	if err != nil {
		return nil, err
	}

	listing.Folders = folders
	listing.Files = files
	return listing, nil
}

// breadcrumb walks parent links up to the root and returns the chain
// top-down, ending with the folder itself.
func (s *Service) breadcrumb(ctx context.Context, folder *Folder) ([]*Folder, error) {
	chain := []*Folder{folder}
	for cur := folder; cur.ParentID != nil; {
		parent, err := s.repo.FolderByID(ctx, *cur.ParentID)
		if err != nil {
			return nil, fmt.Errorf("breadcrumb: %w", err)
		}
		chain = append([]*Folder{parent}, chain...)
		cur = parent
	}
	return chain, nil
}

// CreateFolder adds a folder. Names are unique per directory level
// across all users.
func (s *Service) CreateFolder(ctx context.Context, name, description, color string, parentID *int64, userID int64) (*Folder, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if color == "" {
		color = DefaultFolderColor
	}

	if parentID != nil {
		if _, err := s.repo.FolderByID(ctx, *parentID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, ErrInvalidParent
			}
			return nil, err
		}
	}

	exists, err := s.repo.FolderNameExists(ctx, name, parentID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateName
	}

	now := s.clock.Now().UTC()
	f := &Folder{
		CreatedAt:   now,
		UpdatedAt:   now,
		Name:        name,
		Description: strings.TrimSpace(description),
		Color:       color,
		ParentID:    parentID,
		CreatedBy:   userID,
	}
	if err := s.repo.InsertFolder(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Upload stores an upload on disk and records it. folderID nil places
// the file at the root.
func (s *Service) Upload(ctx context.Context, r io.Reader, originalName, mimeType, description string, folderID *int64, userID int64) (*File, error) {
	if strings.TrimSpace(originalName) == "" {
		return nil, ErrEmptyFile
	}
	originalName = SanitizeFilename(originalName)
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	if folderID != nil {
		if _, err := s.repo.FolderByID(ctx, *folderID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, ErrInvalidParent
			}
			return nil, err
		}
	}

	stored, size, err := s.storage.Save(r, originalName)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	f := &File{
		CreatedAt:    now,
		UpdatedAt:    now,
		OriginalName: originalName,
		StoredName:   stored,
		FileSize:     size,
		MimeType:     mimeType,
		Description:  strings.TrimSpace(description),
		FolderID:     folderID,
		UploadedBy:   userID,
	}
	if err := s.repo.InsertFile(ctx, f); err != nil {
		s.storage.Remove(stored)
		return nil, err
	}
	return f, nil
}

// OpenDownload opens a file for download and bumps its counter.
func (s *Service) OpenDownload(ctx context.Context, id int64) (*File, io.ReadCloser, error) {
	f, err := s.repo.FileByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.storage.Open(f.StoredName)
	if err != nil {
		return nil, nil, err
	}
	if err := s.repo.IncrementDownloadCount(ctx, id); err != nil {
		rc.Close()
		return nil, nil, err
	}
	f.DownloadCount++
	return f, rc, nil
}

// Search finds files by name or description.
func (s *Service) Search(ctx context.Context, query string) ([]*File, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrQueryRequired
	}
	return s.repo.Search(ctx, query)
}

// DeleteFile removes a file from disk and from the database.
func (s *Service) DeleteFile(ctx context.Context, id int64) error {
	f, err := s.repo.FileByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.storage.Remove(f.StoredName); err != nil {
		return err
	}
	return s.repo.DeleteFile(ctx, id)
}

// DeleteFolder removes a folder, all nested subfolders and every file
// under them, both on disk and in the database.
func (s *Service) DeleteFolder(ctx context.Context, id int64) error {
	folder, err := s.repo.FolderByID(ctx, id)
	if err != nil {
		return err
	}
	return s.deleteFolderTree(ctx, folder)
}

func (s *Service) deleteFolderTree(ctx context.Context, folder *Folder) error {
	subs, err := s.repo.Subfolders(ctx, &folder.ID)
	if err != nil {
		return err
	}
	for _, sub := range subs {
		if err := s.deleteFolderTree(ctx, sub); err != nil {
			return err
		}
	}

	files, err := s.repo.FilesInFolder(ctx, &folder.ID)
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := s.storage.Remove(f.StoredName); err != nil {
			return err
		}
		if err := s.repo.DeleteFile(ctx, f.ID); err != nil {
			return err
		}
	}

	return s.repo.DeleteFolder(ctx, folder.ID)
}
