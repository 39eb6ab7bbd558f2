package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/JonMunkholm/clubhouse/internal/practice"
	mw "github.com/JonMunkholm/clubhouse/internal/web/middleware"
)

type teamPayload struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toTeamPayload(t *practice.Team) teamPayload {
	return teamPayload{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
	}
}

type drillPayload struct {
	ID             int64  `json:"id,omitempty"`
	Time           string `json:"time"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	LinkAttachment string `json:"link_attachment,omitempty"`
	OrderIndex     int    `json:"order_index"`
}

type planPayload struct {
	ID       int64     `json:"id,omitempty"`
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	Duration string    `json:"duration,omitempty"`

	PrimaryFocus   string `json:"primary_focus"`
	SecondaryFocus string `json:"secondary_focus,omitempty"`

	WarmUp      string `json:"warm_up,omitempty"`
	MainContent string `json:"main_content,omitempty"`
	CoolDown    string `json:"cool_down,omitempty"`

	EquipmentNeeded string `json:"equipment_needed,omitempty"`
	AdditionalNotes string `json:"additional_notes,omitempty"`
	ReviewStatus    string `json:"review_status,omitempty"`

	// ExternalLinks accepts one URL per line on input.
	ExternalLinks string `json:"external_links,omitempty"`

	TeamID int64 `json:"team_id"`

	Drills      []drillPayload `json:"drills,omitempty"`
	Attachments []int64        `json:"attachments,omitempty"`
}

func toPlanPayload(p *practice.Plan) planPayload {
	out := planPayload{
		ID:              p.ID,
		Title:           p.Title,
		Date:            p.Date,
		Duration:        p.Duration,
		PrimaryFocus:    p.PrimaryFocus,
		SecondaryFocus:  p.SecondaryFocus,
		WarmUp:          p.WarmUp,
		MainContent:     p.MainContent,
		CoolDown:        p.CoolDown,
		EquipmentNeeded: p.EquipmentNeeded,
		AdditionalNotes: p.AdditionalNotes,
		ReviewStatus:    p.ReviewStatus,
		ExternalLinks:   practice.JoinLinks(p.ExternalLinks),
		TeamID:          p.TeamID,
		Attachments:     p.Attachments,
	}
	for _, d := range p.Drills {
		out.Drills = append(out.Drills, drillPayload{
			ID:             d.ID,
			Time:           d.Time,
			Name:           d.Name,
			Description:    d.Description,
			LinkAttachment: d.LinkAttachment,
			OrderIndex:     d.OrderIndex,
		})
	}
	return out
}

func (pl planPayload) toPlan() *practice.Plan {
	p := &practice.Plan{
		ID:              pl.ID,
		Title:           pl.Title,
		Date:            pl.Date,
		Duration:        pl.Duration,
		PrimaryFocus:    pl.PrimaryFocus,
		SecondaryFocus:  pl.SecondaryFocus,
		WarmUp:          pl.WarmUp,
		MainContent:     pl.MainContent,
		CoolDown:        pl.CoolDown,
		EquipmentNeeded: pl.EquipmentNeeded,
		AdditionalNotes: pl.AdditionalNotes,
		ReviewStatus:    pl.ReviewStatus,
		ExternalLinks:   practice.ParseLinks(pl.ExternalLinks),
		TeamID:          pl.TeamID,
		Attachments:     pl.Attachments,
	}
	for i, d := range pl.Drills {
		p.Drills = append(p.Drills, practice.Drill{
			Time:           d.Time,
			Name:           d.Name,
			Description:    d.Description,
			LinkAttachment: d.LinkAttachment,
			OrderIndex:     i,
		})
	}
	return p
}

// ---- Teams ----

type teamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := s.svc.Practice.Teams(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]teamPayload, 0, len(teams))
	for _, t := range teams {
		out = append(out, toTeamPayload(t))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	team, err := s.svc.Practice.CreateTeam(r.Context(), req.Name, req.Description, mw.CurrentUser(r.Context()).ID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTeamPayload(team))
}

func (s *Server) handleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}

	var req teamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	team, err := s.svc.Practice.UpdateTeam(r.Context(), id, req.Name, req.Description)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTeamPayload(team))
}

func (s *Server) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}

	if err := s.svc.Practice.DeleteTeam(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ---- Plans ----

func (s *Server) handleTeamPlans(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}

	team, err := s.svc.Practice.Team(r.Context(), teamID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	plans, err := s.svc.Practice.PlansForTeam(r.Context(), teamID)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]planPayload, 0, len(plans))
	for _, p := range plans {
		out = append(out, toPlanPayload(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"team":  toTeamPayload(team),
		"plans": out,
	})
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	teamID, ok := pathID(w, r, "teamID")
	if !ok {
		return
	}

	var req planPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	p := req.toPlan()
	p.TeamID = teamID
	p.CreatedBy = mw.CurrentUser(r.Context()).ID

	created, err := s.svc.Practice.CreatePlan(r.Context(), p)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toPlanPayload(created))
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "planID")
	if !ok {
		return
	}

	p, err := s.svc.Practice.Plan(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanPayload(p))
}

func (s *Server) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "planID")
	if !ok {
		return
	}

	var req planPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	p := req.toPlan()
	p.ID = id

	updated, err := s.svc.Practice.UpdatePlan(r.Context(), p)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toPlanPayload(updated))
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "planID")
	if !ok {
		return
	}

	if err := s.svc.Practice.DeletePlan(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleAddAttachment(w http.ResponseWriter, r *http.Request) {
	planID, ok := pathID(w, r, "planID")
	if !ok {
		return
	}

	var req struct {
		FileID int64 `json:"file_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.FileID <= 0 {
		writeError(w, r, http.StatusBadRequest, "invalid file_id")
		return
	}

	if err := s.svc.Practice.AttachFile(r.Context(), planID, req.FileID); err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "attached"})
}

func (s *Server) handleRemoveAttachment(w http.ResponseWriter, r *http.Request) {
	planID, ok := pathID(w, r, "planID")
	if !ok {
		return
	}
	fileID, ok := pathID(w, r, "fileID")
	if !ok {
		return
	}

	if err := s.svc.Practice.DetachFile(r.Context(), planID, fileID); err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "detached"})
}
