package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Dosada05/pickleball-scorecard/models"
	"github.com/Dosada05/pickleball-scorecard/services"
)

func roster(teams ...int) []services.PlayerInput {
	players := make([]services.PlayerInput, 0, len(teams))
	for _, team := range teams {
		players = append(players, services.PlayerInput{Name: "P", Gender: models.GenderOther, Team: team})
	}
	return players
}

func TestValidateInputRosterCardinality(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format models.GameFormat
		teams  []int
		valid  bool
	}{
		{"singles ok", models.GameFormatSingles, []int{1, 2}, true},
		{"singles same team", models.GameFormatSingles, []int{1, 1}, false},
		{"singles too many", models.GameFormatSingles, []int{1, 2, 2}, false},
		{"doubles ok", models.GameFormatDoubles, []int{1, 2, 1, 2}, true},
		{"doubles by default", "", []int{1, 1, 2, 2}, true},
		{"doubles unbalanced", models.GameFormatDoubles, []int{1, 1, 1, 2}, false},
		{"doubles short", "", []int{1, 2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := services.CreateMatchInput{
				Players: roster(tt.teams...),
				Config:  services.MatchConfigInput{GameFormat: tt.format},
			}
			errs := validateInput(input)
			if tt.valid && errs != nil {
				t.Fatalf("validateInput = %v, want valid", errs)
			}
			if !tt.valid {
				if _, ok := errs["players"]; !ok {
					t.Fatalf("validateInput = %v, want players error", errs)
				}
			}
		})
	}
}

func TestValidateInputUsesJSONPaths(t *testing.T) {
	t.Parallel()

	input := services.CreateMatchInput{
		Players: []services.PlayerInput{
			{Name: "Alice", Gender: "Q", Team: 1},
			{Name: "", Gender: models.GenderMale, Team: 2},
		},
		Config: services.MatchConfigInput{GameFormat: models.GameFormatSingles, ScoringSystem: "golden"},
	}
	errs := validateInput(input)

	want := map[string]string{
		"players[0].gender":    "must be one of: M, F, X",
		"players[1].name":      "must be provided",
		"config.scoringSystem": "must be one of: rally, service",
	}
	for field, msg := range want {
		if errs[field] != msg {
			t.Fatalf("errs[%q] = %q, want %q (all: %v)", field, errs[field], msg, errs)
		}
	}
}

func TestValidateInputCounterBounds(t *testing.T) {
	t.Parallel()

	negative := -1
	errs := validateInput(services.GamePatch{Team1Score: &negative})
	if errs["team1Score"] != "must be at least 0" {
		t.Fatalf("errs = %v, want team1Score minimum", errs)
	}
	if errs := validateInput(services.GamePatch{}); errs != nil {
		t.Fatalf("empty patch errs = %v, want nil", errs)
	}
	huge := 1 << 30
	errs = validateInput(services.GamePatch{Team2Timeouts: &huge})
	if errs["team2Timeouts"] != "must be at most 999" {
		t.Fatalf("errs = %v, want team2Timeouts maximum", errs)
	}

	errs = validateInput(services.RecordScoreInput{Team: 1, Increment: huge})
	if errs["increment"] != "must be at most 999" {
		t.Fatalf("errs = %v, want increment maximum", errs)
	}
	errs = validateInput(services.RecordScoreInput{Team: 1, Increment: -huge})
	if errs["increment"] != "must be at least -999" {
		t.Fatalf("errs = %v, want increment minimum", errs)
	}
}

func TestReadJSONRejectsBadBodies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"empty", "", "body must not be empty"},
		{"unknown field", `{"team":1,"points":3}`, `body contains unknown key "points"`},
		{"wrong type", `{"team":"one"}`, `body contains incorrect JSON type for field "team"`},
		{"two values", `{"team":1}{"team":2}`, "body must only contain a single JSON value"},
		{"syntax", `{"team":`, "body contains badly-formed JSON"},
		{"too large", `{"team":1,"pad":"` + strings.Repeat("x", maxBodyBytes) + `"}`, "body must not be larger than 1048576 bytes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst services.RecordTimeoutInput
			err := readJSON(httptest.NewRecorder(), r, &dst)
			if err == nil || err.Error() != tt.want {
				t.Fatalf("readJSON err = %v, want %q", err, tt.want)
			}
		})
	}
}
