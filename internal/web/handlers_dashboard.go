package web

import "net/http"

type teamCountPayload struct {
	Team  string `json:"team"`
	Count int64  `json:"count"`
}

type dashboardResponse struct {
	TotalPlayers int64              `json:"total_players"`
	UnpaidCount  int64              `json:"unpaid_count"`
	TeamCounts   []teamCountPayload `json:"team_counts"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.Roster.Stats(r.Context())
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	resp := dashboardResponse{
		TotalPlayers: stats.TotalPlayers,
		UnpaidCount:  stats.UnpaidCount,
		TeamCounts:   make([]teamCountPayload, 0, len(stats.TeamCounts)),
	}
	for _, tc := range stats.TeamCounts {
		resp.TeamCounts = append(resp.TeamCounts, teamCountPayload{Team: tc.Team, Count: tc.Count})
	}

	writeJSON(w, http.StatusOK, resp)
}
