package match

import "testing"

func TestExtractTeam(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "city_name", text: "Kansas City drives down the field", want: "KC"},
		{name: "nickname", text: "the Eagles defense holds", want: "PHI"},
		{name: "abbreviation_word", text: "SF takes a timeout", want: "SF"},
		{name: "lowercase_abbrev", text: "kc takes over on downs", want: "KC"},
		{name: "no_team", text: "the offense breaks the huddle", want: ""},
		{name: "empty", text: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractTeam(tt.text); got != tt.want {
				t.Errorf("ExtractTeam(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractTeamDeterministicOnMultiTeamText(t *testing.T) {
	// Both teams appear; table order decides, so every call agrees.
	const text = "Chiefs defense stops the Eagles run up the middle"
	want := ExtractTeam(text)
	if want != "PHI" {
		t.Fatalf("ExtractTeam(%q) = %q, want PHI", text, want)
	}
	for i := 0; i < 200; i++ {
		if got := ExtractTeam(text); got != want {
			t.Fatalf("call %d: ExtractTeam(%q) = %q, want %q", i, text, got, want)
		}
	}
}

func TestExtractPlayerName(t *testing.T) {
	tests := []struct {
		name    string
		details string
		want    string
	}{
		{name: "initial_dot_surname", details: "P. Mahomes scrambles right", want: "P. Mahomes"},
		{name: "full_name", details: "pass caught by Travis Kelce at midfield", want: "Travis Kelce"},
		{name: "position_prefix", details: "QB Mahomes under pressure", want: "Mahomes"},
		{name: "jersey_number", details: "#15 Mahomes finds a lane", want: "Mahomes"},
		{name: "no_name", details: "incomplete pass to the flat", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractPlayerName(tt.details); got != tt.want {
				t.Errorf("ExtractPlayerName(%q) = %q, want %q", tt.details, got, tt.want)
			}
		})
	}
}

func TestExtractFormation(t *testing.T) {
	if got := ExtractFormation("offense lines up in shotgun"); got != "Shotgun" {
		t.Errorf("got %q, want Shotgun", got)
	}
	if got := ExtractFormation("defense shows a goal line front"); got != "Goal Line" {
		t.Errorf("got %q, want Goal Line", got)
	}
	if got := ExtractFormation("standard alignment"); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestTurnoverAndScoringText(t *testing.T) {
	if !IsTurnoverText("ball intercepted by the safety", "interception") {
		t.Error("interception should be a turnover")
	}
	if IsTurnoverText("short completion", "pass") {
		t.Error("a completion is not a turnover")
	}
	if !IsScoringText("touchdown on a fade route", "touchdown") {
		t.Error("touchdown should be scoring")
	}
	if IsScoringText("incomplete pass", "pass") {
		t.Error("an incompletion is not scoring")
	}
}
