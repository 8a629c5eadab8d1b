package gameclock

import "testing"

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		clock   string
		want    int
		wantErr bool
	}{
		{name: "full_quarter", clock: "15:00", want: 900},
		{name: "mid_quarter", clock: "07:32", want: 452},
		{name: "zero", clock: "00:00", want: 0},
		{name: "minutes_only", clock: "12", want: 720},
		{name: "padded", clock: " 10:05 ", want: 605},
		{name: "garbage", clock: "garbage", wantErr: true},
		{name: "empty", clock: "", wantErr: true},
		{name: "bad_seconds", clock: "10:xx", wantErr: true},
		{name: "negative", clock: "-1:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.clock)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.clock)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.clock, got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	if got := Format(452); got != "07:32" {
		t.Errorf("Format(452) = %q, want 07:32", got)
	}
	if got := Format(-5); got != "00:00" {
		t.Errorf("Format(-5) = %q, want 00:00", got)
	}
}

func TestGameSecondsRemaining(t *testing.T) {
	if got := GameSecondsRemaining("15:00", 1); got != 3600 {
		t.Errorf("Q1 15:00 = %d, want 3600", got)
	}
	if got := GameSecondsRemaining("02:00", 4); got != 120 {
		t.Errorf("Q4 02:00 = %d, want 120", got)
	}
	// Unparsable clocks fall back to a full quarter.
	if got := GameSecondsRemaining("??", 4); got != 900 {
		t.Errorf("Q4 garbage = %d, want 900", got)
	}
}
