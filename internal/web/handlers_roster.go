package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/clubhouse/internal/files"
	"github.com/JonMunkholm/clubhouse/internal/logging"
	"github.com/JonMunkholm/clubhouse/internal/roster"
	mw "github.com/JonMunkholm/clubhouse/internal/web/middleware"
)

type playerPayload struct {
	ID        int64  `json:"id,omitempty"`
	Season    string `json:"season"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	BirthYear string `json:"birth_year,omitempty"`
	Team      string `json:"team,omitempty"`
	Position  string `json:"position,omitempty"`

	JerseyNumber    string `json:"jersey_number,omitempty"`
	JerseySize      string `json:"jersey_size,omitempty"`
	Socks           string `json:"socks,omitempty"`
	Jacket          string `json:"jacket,omitempty"`
	USAHockeyNumber string `json:"usa_hockey_number,omitempty"`

	DadFirstName string `json:"dad_first_name,omitempty"`
	DadLastName  string `json:"dad_last_name,omitempty"`
	DadPhone     string `json:"dad_phone,omitempty"`
	DadEmail     string `json:"dad_email,omitempty"`
	MomFirstName string `json:"mom_first_name,omitempty"`
	MomLastName  string `json:"mom_last_name,omitempty"`
	MomPhone     string `json:"mom_phone,omitempty"`
	MomEmail     string `json:"mom_email,omitempty"`

	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zip_code,omitempty"`

	PaidTuition        bool    `json:"paid_tuition"`
	TotalTuitionAmount float64 `json:"total_tuition_amount"`
	AmountPaid         float64 `json:"amount_paid"`

	SignedWaiver     bool `json:"signed_waiver"`
	BirthCertificate bool `json:"birth_certificate"`

	GuardianFirstName string `json:"guardian_first_name,omitempty"`
	GuardianLastName  string `json:"guardian_last_name,omitempty"`

	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func toPlayerPayload(p *roster.Player) playerPayload {
	created, updated := p.CreatedAt, p.UpdatedAt
	return playerPayload{
		ID:                 p.ID,
		Season:             p.Season,
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		BirthYear:          p.BirthYear,
		Team:               p.Team,
		Position:           p.Position,
		JerseyNumber:       p.JerseyNumber,
		JerseySize:         p.JerseySize,
		Socks:              p.Socks,
		Jacket:             p.Jacket,
		USAHockeyNumber:    p.USAHockeyNumber,
		DadFirstName:       p.DadFirstName,
		DadLastName:        p.DadLastName,
		DadPhone:           p.DadPhone,
		DadEmail:           p.DadEmail,
		MomFirstName:       p.MomFirstName,
		MomLastName:        p.MomLastName,
		MomPhone:           p.MomPhone,
		MomEmail:           p.MomEmail,
		Address:            p.Address,
		City:               p.City,
		State:              p.State,
		ZipCode:            p.ZipCode,
		PaidTuition:        p.PaidTuition,
		TotalTuitionAmount: p.TotalTuitionAmount,
		AmountPaid:         p.AmountPaid,
		SignedWaiver:       p.SignedWaiver,
		BirthCertificate:   p.BirthCertificate,
		GuardianFirstName:  p.GuardianFirstName,
		GuardianLastName:   p.GuardianLastName,
		CreatedAt:          &created,
		UpdatedAt:          &updated,
	}
}

func (pl playerPayload) toPlayer() *roster.Player {
	return &roster.Player{
		ID:                 pl.ID,
		Season:             pl.Season,
		FirstName:          pl.FirstName,
		LastName:           pl.LastName,
		BirthYear:          pl.BirthYear,
		Team:               pl.Team,
		Position:           pl.Position,
		JerseyNumber:       pl.JerseyNumber,
		JerseySize:         pl.JerseySize,
		Socks:              pl.Socks,
		Jacket:             pl.Jacket,
		USAHockeyNumber:    pl.USAHockeyNumber,
		DadFirstName:       pl.DadFirstName,
		DadLastName:        pl.DadLastName,
		DadPhone:           pl.DadPhone,
		DadEmail:           pl.DadEmail,
		MomFirstName:       pl.MomFirstName,
		MomLastName:        pl.MomLastName,
		MomPhone:           pl.MomPhone,
		MomEmail:           pl.MomEmail,
		Address:            pl.Address,
		City:               pl.City,
		State:              pl.State,
		ZipCode:            pl.ZipCode,
		PaidTuition:        pl.PaidTuition,
		TotalTuitionAmount: pl.TotalTuitionAmount,
		AmountPaid:         pl.AmountPaid,
		SignedWaiver:       pl.SignedWaiver,
		BirthCertificate:   pl.BirthCertificate,
		GuardianFirstName:  pl.GuardianFirstName,
		GuardianLastName:   pl.GuardianLastName,
	}
}

type rosterResponse struct {
	Players []playerPayload `json:"players"`
	Teams   []string        `json:"teams"`
	Seasons []string        `json:"seasons"`
}

func (s *Server) handleRoster(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.Roster.Roster(r.Context(), roster.ParseFilter(r.URL.Query()))
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	resp := rosterResponse{
		Players: make([]playerPayload, 0, len(view.Players)),
		Teams:   view.Teams,
		Seasons: view.Seasons,
	}
	for _, p := range view.Players {
		resp.Players = append(resp.Players, toPlayerPayload(p))
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleRosterExport streams the filtered roster as a CSV attachment.
// The same filter parameters as the roster listing apply.
func (s *Server) handleRosterExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="roster_export.csv"`)

	if err := s.svc.Roster.Export(r.Context(), w, roster.ParseFilter(r.URL.Query())); err != nil {
		// Headers are already out; all we can do is log and abort.
		logging.FromContext(r.Context()).Error("roster export failed", "error", err)
	}
}

func (s *Server) handleDownloadTemplate(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="player_import_template.csv"`)

	if err := s.svc.Roster.Template(w); err != nil {
		logging.FromContext(r.Context()).Error("template download failed", "error", err)
	}
}

type importResponse struct {
	Imported   int      `json:"imported"`
	ErrorCount int      `json:"error_count"`
	Errors     []string `json:"errors,omitempty"`
	NoData     bool     `json:"no_data,omitempty"`
	Message    string   `json:"message,omitempty"`
}

// writeImportOutcome renders an import outcome. A file with no player
// data is informational, not a failure, so it still gets a 200.
func writeImportOutcome(w http.ResponseWriter, outcome *roster.Outcome) {
	if outcome.NoData {
		writeJSON(w, http.StatusOK, importResponse{
			NoData:  true,
			Message: "the file contains no player data",
		})
		return
	}

	writeJSON(w, http.StatusOK, importResponse{
		Imported:   outcome.Imported,
		ErrorCount: outcome.ErrorCount(),
		Errors:     outcome.ErrorPreview(),
	})
}

func (s *Server) handleBulkImport(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	outcome, err := s.svc.Roster.Import(r.Context(), file)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	writeImportOutcome(w, outcome)
}

type bulkActionRequest struct {
	Action    string  `json:"action"`
	PlayerIDs []int64 `json:"player_ids"`
}

func (s *Server) handleBulkAction(w http.ResponseWriter, r *http.Request) {
	var req bulkActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	affected, err := s.svc.Roster.BulkAction(r.Context(), req.Action, req.PlayerIDs)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"affected": affected})
}

func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req playerPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	p := req.toPlayer()
	if err := s.svc.Roster.Create(r.Context(), p); err != nil {
		respondDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toPlayerPayload(p))
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "playerID")
	if !ok {
		return
	}

	p, err := s.svc.Roster.Get(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPlayerPayload(p))
}

func (s *Server) handleUpdatePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "playerID")
	if !ok {
		return
	}

	var req playerPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	p := req.toPlayer()
	p.ID = id
	if err := s.svc.Roster.Update(r.Context(), p); err != nil {
		respondDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toPlayerPayload(p))
}

func (s *Server) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "playerID")
	if !ok {
		return
	}

	if err := s.svc.Roster.Delete(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ---- Player documents ----

type documentPayload struct {
	ID               int64     `json:"id"`
	PlayerID         int64     `json:"player_id"`
	DocumentType     string    `json:"document_type"`
	OriginalFilename string    `json:"original_filename"`
	FileSize         int64     `json:"file_size"`
	MimeType         string    `json:"mime_type"`
	CreatedAt        time.Time `json:"created_at"`
}

func toDocumentPayload(d *roster.Document) documentPayload {
	return documentPayload{
		ID:               d.ID,
		PlayerID:         d.PlayerID,
		DocumentType:     d.DocumentType,
		OriginalFilename: d.OriginalFilename,
		FileSize:         d.FileSize,
		MimeType:         d.MimeType,
		CreatedAt:        d.CreatedAt,
	}
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	playerID, ok := pathID(w, r, "playerID")
	if !ok {
		return
	}

	docs, err := s.svc.Roster.Documents(r.Context(), playerID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]documentPayload, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentPayload(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	playerID, ok := pathID(w, r, "playerID")
	if !ok {
		return
	}

	// Player must exist before anything touches disk.
	if _, err := s.svc.Roster.Get(r.Context(), playerID); err != nil {
		respondDomainError(w, r, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	if !files.AllowedExtension(header.Filename, s.cfg.Storage.AllowedExtensions) {
		writeError(w, r, http.StatusBadRequest, "file type not allowed")
		return
	}

	storedName, size, err := s.svc.Storage.Save(file, header.Filename)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	doc := &roster.Document{
		PlayerID:         playerID,
		DocumentType:     r.FormValue("document_type"),
		OriginalFilename: header.Filename,
		StoredFilename:   storedName,
		FileSize:         size,
		MimeType:         mimeType,
		UploadedBy:       mw.CurrentUser(r.Context()).ID,
	}
	if err := s.svc.Roster.AddDocument(r.Context(), doc); err != nil {
		s.svc.Storage.Remove(storedName)
		respondDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, toDocumentPayload(doc))
}

func (s *Server) handleDownloadDocument(w http.ResponseWriter, r *http.Request) {
	playerID, ok := pathID(w, r, "playerID")
	if !ok {
		return
	}
	docID, ok := pathID(w, r, "documentID")
	if !ok {
		return
	}

	doc, err := s.svc.Roster.Document(r.Context(), docID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if doc.PlayerID != playerID {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	f, err := s.svc.Storage.Open(doc.StoredFilename)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", doc.MimeType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+doc.OriginalFilename+`"`)
	w.Header().Set("Content-Length", strconv.FormatInt(doc.FileSize, 10))
	io.Copy(w, f)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	playerID, ok := pathID(w, r, "playerID")
	if !ok {
		return
	}
	docID, ok := pathID(w, r, "documentID")
	if !ok {
		return
	}

	doc, err := s.svc.Roster.Document(r.Context(), docID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	if doc.PlayerID != playerID {
		writeError(w, r, http.StatusNotFound, "not found")
		return
	}

	if err := s.svc.Roster.RemoveDocument(r.Context(), docID); err != nil {
		respondDomainError(w, r, err)
		return
	}
	s.svc.Storage.Remove(doc.StoredFilename)

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// pathID parses a numeric chi URL parameter, writing a 400 when the
// value is not a positive integer.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}
