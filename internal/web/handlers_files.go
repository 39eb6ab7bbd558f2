package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/clubhouse/internal/files"
	mw "github.com/JonMunkholm/clubhouse/internal/web/middleware"
)

type folderPayload struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color"`
	ParentID    *int64    `json:"parent_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type filePayload struct {
	ID            int64     `json:"id"`
	OriginalName  string    `json:"original_name"`
	FileSize      int64     `json:"file_size"`
	MimeType      string    `json:"mime_type"`
	Description   string    `json:"description,omitempty"`
	Extension     string    `json:"extension"`
	DownloadCount int64     `json:"download_count"`
	FolderID      *int64    `json:"folder_id"`
	CreatedAt     time.Time `json:"created_at"`
}

func toFolderPayload(f *files.Folder) folderPayload {
	return folderPayload{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		Color:       f.Color,
		ParentID:    f.ParentID,
		CreatedAt:   f.CreatedAt,
	}
}

func toFilePayload(f *files.File) filePayload {
	return filePayload{
		ID:            f.ID,
		OriginalName:  f.OriginalName,
		FileSize:      f.FileSize,
		MimeType:      f.MimeType,
		Description:   f.Description,
		Extension:     f.Extension(),
		DownloadCount: f.DownloadCount,
		FolderID:      f.FolderID,
		CreatedAt:     f.CreatedAt,
	}
}

type listingResponse struct {
	Folder     *folderPayload  `json:"folder"`
	Breadcrumb []folderPayload `json:"breadcrumb"`
	Folders    []folderPayload `json:"folders"`
	Files      []filePayload   `json:"files"`
}

func (s *Server) handleBrowse(w http.ResponseWriter, r *http.Request) {
	var folderID *int64
	if raw := chi.URLParam(r, "folderID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, r, http.StatusBadRequest, "invalid folderID")
			return
		}
		folderID = &id
	}

	listing, err := s.svc.Files.Browse(r.Context(), folderID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	resp := listingResponse{
		Breadcrumb: make([]folderPayload, 0, len(listing.Breadcrumb)),
		Folders:    make([]folderPayload, 0, len(listing.Folders)),
		Files:      make([]filePayload, 0, len(listing.Files)),
	}
	if listing.Folder != nil {
		fp := toFolderPayload(listing.Folder)
		resp.Folder = &fp
	}
	for _, f := range listing.Breadcrumb {
		resp.Breadcrumb = append(resp.Breadcrumb, toFolderPayload(f))
	}
	for _, f := range listing.Folders {
		resp.Folders = append(resp.Folders, toFolderPayload(f))
	}
	for _, f := range listing.Files {
		resp.Files = append(resp.Files, toFilePayload(f))
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFileSearch(w http.ResponseWriter, r *http.Request) {
	results, err := s.svc.Files.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]filePayload, 0, len(results))
	for _, f := range results {
		out = append(out, toFilePayload(f))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleFileUpload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		respondDomainError(w, r, files.ErrEmptyFile)
		return
	}
	defer file.Close()

	if !files.AllowedExtension(header.Filename, s.cfg.Storage.AllowedExtensions) {
		writeError(w, r, http.StatusBadRequest, "file type not allowed")
		return
	}

	var folderID *int64
	if raw := r.FormValue("folder_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, r, http.StatusBadRequest, "invalid folder_id")
			return
		}
		folderID = &id
	}

	uploaded, err := s.svc.Files.Upload(
		r.Context(),
		file,
		header.Filename,
		header.Header.Get("Content-Type"),
		r.FormValue("description"),
		folderID,
		mw.CurrentUser(r.Context()).ID,
	)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFilePayload(uploaded))
}

type createFolderRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	ParentID    *int64 `json:"parent_id"`
}

func (s *Server) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	var req createFolderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	folder, err := s.svc.Files.CreateFolder(
		r.Context(),
		req.Name,
		req.Description,
		req.Color,
		req.ParentID,
		mw.CurrentUser(r.Context()).ID,
	)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toFolderPayload(folder))
}

func (s *Server) handleFileDownload(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "fileID")
	if !ok {
		return
	}

	f, rc, err := s.svc.Files.OpenDownload(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", f.MimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+f.OriginalName+`"`)
	w.Header().Set("Content-Length", strconv.FormatInt(f.FileSize, 10))
	io.Copy(w, rc)
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "fileID")
	if !ok {
		return
	}

	if err := s.svc.Files.DeleteFile(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleDeleteFolder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "folderID")
	if !ok {
		return
	}

	if err := s.svc.Files.DeleteFolder(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
