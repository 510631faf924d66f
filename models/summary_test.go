package models

import "testing"

func completed(t1, t2 int) Game {
	return Game{Team1Score: t1, Team2Score: t2, Status: GameStatusCompleted}
}

func TestGameWinner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		game Game
		want int
	}{
		{"team1 ahead", completed(11, 7), Team1},
		{"team2 ahead", completed(9, 11), Team2},
		{"tie", completed(10, 10), 0},
		{"in progress", Game{Team1Score: 11, Status: GameStatusInProgress}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.game.Winner(); got != tt.want {
				t.Fatalf("Winner() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		maxGames int
		games    []Game
		want     MatchSummary
	}{
		{
			name:     "no games",
			maxGames: 3,
			want:     MatchSummary{RequiredWins: 2},
		},
		{
			name:     "best of three decided",
			maxGames: 3,
			games:    []Game{completed(11, 5), completed(8, 11), completed(11, 9)},
			want:     MatchSummary{Team1Wins: 2, Team2Wins: 1, RequiredWins: 2, Winner: Team1},
		},
		{
			name:     "unfinished game ignored",
			maxGames: 3,
			games:    []Game{completed(3, 11), {Team2Score: 10, Status: GameStatusInProgress}},
			want:     MatchSummary{Team2Wins: 1, RequiredWins: 2},
		},
		{
			name:     "single game",
			maxGames: 1,
			games:    []Game{completed(5, 11)},
			want:     MatchSummary{Team2Wins: 1, RequiredWins: 1, Winner: Team2},
		},
		{
			name:     "even max games",
			maxGames: 4,
			games:    []Game{completed(11, 2), completed(11, 4)},
			want:     MatchSummary{Team1Wins: 2, RequiredWins: 2, Winner: Team1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Summarize(&Match{MaxGames: tt.maxGames, Games: tt.games})
			if got != tt.want {
				t.Fatalf("Summarize() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestGameTeamAccessors(t *testing.T) {
	t.Parallel()

	var g Game
	g.SetScore(Team2, 4)
	g.SetTimeouts(Team1, 1)
	if g.Score(Team2) != 4 || g.Team2Score != 4 {
		t.Fatalf("team2 score = %d, want 4", g.Score(Team2))
	}
	if g.Timeouts(Team1) != 1 || g.Team1Timeouts != 1 {
		t.Fatalf("team1 timeouts = %d, want 1", g.Timeouts(Team1))
	}
	if g.Score(Team1) != 0 {
		t.Fatalf("team1 score = %d, want 0", g.Score(Team1))
	}
}

func TestEnumValidity(t *testing.T) {
	t.Parallel()

	if !GameFormatSingles.Valid() || GameFormat("triples").Valid() {
		t.Fatal("GameFormat.Valid mismatch")
	}
	if GameFormatSingles.PlayersPerTeam() != 1 || GameFormatDoubles.PlayersPerTeam() != 2 {
		t.Fatal("PlayersPerTeam mismatch")
	}
	if !EventMedicalTimeout.Valid() || EventType("ace").Valid() {
		t.Fatal("EventType.Valid mismatch")
	}
	if !GenderOther.Valid() || Gender("").Valid() {
		t.Fatal("Gender.Valid mismatch")
	}
	if ValidTeam(0) || ValidTeam(3) || !ValidTeam(Team2) {
		t.Fatal("ValidTeam mismatch")
	}
}
