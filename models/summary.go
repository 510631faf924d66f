package models

// MatchSummary is derived from the games of a match on every read and never stored.
type MatchSummary struct {
	Team1Wins    int `json:"team1Wins"`
	Team2Wins    int `json:"team2Wins"`
	RequiredWins int `json:"requiredWins"`
	// Winner is 1 or 2 once a team reaches RequiredWins, otherwise omitted.
	Winner int `json:"winner,omitempty"`
}

// Summarize counts game wins over the completed games of m.
// A completed game with equal scores counts for neither team.
func Summarize(m *Match) MatchSummary {
	s := MatchSummary{RequiredWins: (m.MaxGames + 1) / 2}
	for i := range m.Games {
		switch m.Games[i].Winner() {
		case Team1:
			s.Team1Wins++
		case Team2:
			s.Team2Wins++
		}
	}
	switch {
	case s.RequiredWins <= 0:
	case s.Team1Wins >= s.RequiredWins:
		s.Winner = Team1
	case s.Team2Wins >= s.RequiredWins:
		s.Winner = Team2
	}
	return s
}
