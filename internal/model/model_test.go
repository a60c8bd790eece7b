package model

import "testing"

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in   string
		want Status
		ok   bool
	}{
		{"active", StatusActive, true},
		{"Completed", StatusCompleted, true},
		{" ARCHIVED ", StatusArchived, true},
		{"done", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseStatus(tc.in)
		if tc.ok != (err == nil) {
			t.Fatalf("ParseStatus(%q): err = %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseStatus(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTimeEntryRunning(t *testing.T) {
	if !(TimeEntry{}).Running() {
		t.Fatal("nil end_at should be running")
	}
	end := int64(5)
	if (TimeEntry{EndAt: &end}).Running() {
		t.Fatal("set end_at should not be running")
	}
}
