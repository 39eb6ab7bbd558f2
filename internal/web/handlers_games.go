package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/JonMunkholm/clubhouse/internal/games"
	mw "github.com/JonMunkholm/clubhouse/internal/web/middleware"
)

type gamePayload struct {
	ID            int64     `json:"id,omitempty"`
	GameDate      time.Time `json:"game_date"`
	OpponentTeam  string    `json:"opponent_team"`
	RinkName      string    `json:"rink_name"`
	RinkLocation  string    `json:"rink_location,omitempty"`
	TeamName      string    `json:"team_name"`
	TeamScore     int       `json:"team_score"`
	OpponentScore int       `json:"opponent_score"`
	Status        string    `json:"status,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	Result        string    `json:"result,omitempty"`
}

func toGamePayload(g *games.Game) gamePayload {
	return gamePayload{
		ID:            g.ID,
		GameDate:      g.GameDate,
		OpponentTeam:  g.OpponentTeam,
		RinkName:      g.RinkName,
		RinkLocation:  g.RinkLocation,
		TeamName:      g.TeamName,
		TeamScore:     g.TeamScore,
		OpponentScore: g.OpponentScore,
		Status:        g.Status,
		Notes:         g.Notes,
		Result:        g.Result(),
	}
}

func (gp gamePayload) toGame() *games.Game {
	return &games.Game{
		ID:            gp.ID,
		GameDate:      gp.GameDate,
		OpponentTeam:  gp.OpponentTeam,
		RinkName:      gp.RinkName,
		RinkLocation:  gp.RinkLocation,
		TeamName:      gp.TeamName,
		TeamScore:     gp.TeamScore,
		OpponentScore: gp.OpponentScore,
		Status:        gp.Status,
		Notes:         gp.Notes,
	}
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Games.Games(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]gamePayload, 0, len(list))
	for _, g := range list {
		out = append(out, toGamePayload(g))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req gamePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	g := req.toGame()
	g.CreatedBy = mw.CurrentUser(r.Context()).ID

	created, err := s.svc.Games.CreateGame(r.Context(), g)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toGamePayload(created))
}

type goalPayload struct {
	ID         int64  `json:"id,omitempty"`
	Period     int    `json:"period"`
	TimeScored string `json:"time_scored,omitempty"`
	ScorerID   int64  `json:"scorer_id"`
	GameID     int64  `json:"game_id,omitempty"`
	GoalType   string `json:"goal_type,omitempty"`
}

type assistPayload struct {
	ID           int64  `json:"id,omitempty"`
	Period       int    `json:"period,omitempty"`
	TimeAssisted string `json:"time_assisted,omitempty"`
	AssisterID   int64  `json:"assister_id"`
	GameID       int64  `json:"game_id,omitempty"`
	GoalID       int64  `json:"goal_id,omitempty"`
	AssistType   string `json:"assist_type,omitempty"`
}

type gameDetailResponse struct {
	Game  gamePayload   `json:"game"`
	Goals []goalPayload `json:"goals"`
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "gameID")
	if !ok {
		return
	}

	g, err := s.svc.Games.Game(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	goals, err := s.svc.Games.Goals(r.Context(), id)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	resp := gameDetailResponse{
		Game:  toGamePayload(g),
		Goals: make([]goalPayload, 0, len(goals)),
	}
	for _, goal := range goals {
		resp.Goals = append(resp.Goals, goalPayload{
			ID:         goal.ID,
			Period:     goal.Period,
			TimeScored: goal.TimeScored,
			ScorerID:   goal.ScorerID,
			GameID:     goal.GameID,
			GoalType:   goal.GoalType,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateGame(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "gameID")
	if !ok {
		return
	}

	var req gamePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	g := req.toGame()
	g.ID = id

	updated, err := s.svc.Games.UpdateGame(r.Context(), g)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGamePayload(updated))
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "gameID")
	if !ok {
		return
	}

	if err := s.svc.Games.DeleteGame(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleAddGoal(w http.ResponseWriter, r *http.Request) {
	gameID, ok := pathID(w, r, "gameID")
	if !ok {
		return
	}

	var req goalPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	goal, err := s.svc.Games.AddGoal(r.Context(), &games.Goal{
		Period:     req.Period,
		TimeScored: req.TimeScored,
		ScorerID:   req.ScorerID,
		GameID:     gameID,
		GoalType:   req.GoalType,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, goalPayload{
		ID:         goal.ID,
		Period:     goal.Period,
		TimeScored: goal.TimeScored,
		ScorerID:   goal.ScorerID,
		GameID:     goal.GameID,
		GoalType:   goal.GoalType,
	})
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "goalID")
	if !ok {
		return
	}

	if err := s.svc.Games.DeleteGoal(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleAddAssist(w http.ResponseWriter, r *http.Request) {
	goalID, ok := pathID(w, r, "goalID")
	if !ok {
		return
	}

	var req assistPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	assist, err := s.svc.Games.AddAssist(r.Context(), &games.Assist{
		Period:       req.Period,
		TimeAssisted: req.TimeAssisted,
		AssisterID:   req.AssisterID,
		GameID:       req.GameID,
		GoalID:       goalID,
		AssistType:   req.AssistType,
	})
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, assistPayload{
		ID:           assist.ID,
		Period:       assist.Period,
		TimeAssisted: assist.TimeAssisted,
		AssisterID:   assist.AssisterID,
		GameID:       assist.GameID,
		GoalID:       assist.GoalID,
		AssistType:   assist.AssistType,
	})
}

func (s *Server) handleDeleteAssist(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "assistID")
	if !ok {
		return
	}

	if err := s.svc.Games.DeleteAssist(r.Context(), id); err != nil {
		respondDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type statLinePayload struct {
	PlayerID    int64  `json:"player_id"`
	PlayerName  string `json:"player_name"`
	GamesPlayed int64  `json:"games_played"`
	Goals       int64  `json:"goals"`
	Assists     int64  `json:"assists"`
	Points      int64  `json:"points"`
}

func (s *Server) handlePlayerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Games.PlayerStats(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	out := make([]statLinePayload, 0, len(stats))
	for _, line := range stats {
		out = append(out, statLinePayload{
			PlayerID:    line.PlayerID,
			PlayerName:  line.PlayerName,
			GamesPlayed: line.GamesPlayed,
			Goals:       line.Goals,
			Assists:     line.Assists,
			Points:      line.Points(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
