// Package files implements the shared file repository: a folder
// hierarchy with uploaded files stored on disk under generated names.
// Folders and files are shared across all users; the uploader is only
// recorded for attribution.
package files

import (
	"errors"
	"path/filepath"
	"strings"
	"time"
)

// SearchLimit caps the number of results a file search returns.
const SearchLimit = 20

var (
	ErrNotFound      = errors.New("not found")
	ErrNameRequired  = errors.New("folder name is required")
	ErrDuplicateName = errors.New("a folder with this name already exists")
	ErrInvalidParent = errors.New("invalid parent folder")
	ErrEmptyFile     = errors.New("no file provided")
	ErrFileTooLarge  = errors.New("file exceeds the maximum allowed size")
	ErrMissingOnDisk = errors.New("file missing on disk")
	ErrQueryRequired = errors.New("search query required")
)

// Folder is one node of the shared folder tree. ParentID nil means the
// folder lives at the root.
type Folder struct {
	ID          int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string
	Description string
	Color       string
	ParentID    *int64
	CreatedBy   int64
}

// File is one uploaded file. FolderID nil means the file lives at the
// root. StoredName is the on-disk name; OriginalName is what the user
// uploaded and what downloads are served as.
type File struct {
	ID            int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	OriginalName  string
	StoredName    string
	FileSize      int64
	MimeType      string
	Description   string
	IsPublic      bool
	DownloadCount int64
	FolderID      *int64
	UploadedBy    int64
}

// Extension returns the lowercased file extension without the dot.
func (f *File) Extension() string {
	ext := strings.TrimPrefix(filepath.Ext(f.OriginalName), ".")
	return strings.ToLower(ext)
}

// Listing is the content of one directory level plus the breadcrumb
// trail from the root down to it.
type Listing struct {
	Folder     *Folder
	Breadcrumb []*Folder
	Folders    []*Folder
	Files      []*File
}
