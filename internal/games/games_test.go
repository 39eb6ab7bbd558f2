package games

import "testing"

// ---- Result ----

func TestGameResult(t *testing.T) {
	tests := []struct {
		name     string
		team     int
		opponent int
		want     string
	}{
		{"win", 5, 2, "Win"},
		{"loss", 1, 4, "Loss"},
		{"tie", 3, 3, "Tie"},
		{"scoreless tie", 0, 0, "Tie"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &Game{TeamScore: tt.team, OpponentScore: tt.opponent}
			if got := g.Result(); got != tt.want {
				t.Errorf("Result() = %q, want %q", got, tt.want)
			}
		})
	}
}

// ---- validateGame ----

func TestValidateGame(t *testing.T) {
	tests := []struct {
		name string
		game Game
		want error
	}{
		{"complete", Game{OpponentTeam: "Hawks", TeamName: "8U", RinkName: "Main Rink"}, nil},
		{"missing opponent", Game{TeamName: "8U", RinkName: "Main Rink"}, ErrOpponentRequired},
		{"missing team", Game{OpponentTeam: "Hawks", RinkName: "Main Rink"}, ErrTeamRequired},
		{"missing rink", Game{OpponentTeam: "Hawks", TeamName: "8U"}, ErrRinkRequired},
		{"whitespace opponent", Game{OpponentTeam: "  ", TeamName: "8U", RinkName: "Main Rink"}, ErrOpponentRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.game
			if got := validateGame(&g); got != tt.want {
				t.Errorf("validateGame() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidateGame_Trims(t *testing.T) {
	g := Game{OpponentTeam: " Hawks ", TeamName: " 8U ", RinkName: " Main Rink "}
	if err := validateGame(&g); err != nil {
		t.Fatalf("validateGame() error: %v", err)
	}
	if g.OpponentTeam != "Hawks" || g.TeamName != "8U" || g.RinkName != "Main Rink" {
		t.Errorf("fields not trimmed: %+v", g)
	}
}

// ---- StatLine ----

func TestStatLinePoints(t *testing.T) {
	s := StatLine{Goals: 7, Assists: 5}
	if got := s.Points(); got != 12 {
		t.Errorf("Points() = %d, want 12", got)
	}
}
