package store

import "testing"

func TestConfigRoundTrip(t *testing.T) {
	t.Setenv("TEMPO_CONFIG_DIR", t.TempDir())

	// No file yet: zero config, no error.
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load missing: %v", err)
	}
	if cfg.DataDir != "" || cfg.ReportRangeDays != 0 || cfg.TUI != nil {
		t.Fatalf("want zero config, got %+v", cfg)
	}

	want := GlobalConfig{
		DataDir:         "/tmp/elsewhere",
		ReportRangeDays: 30,
		TUI:             &TUIConfig{Theme: "dark"},
	}
	if err := SaveConfig(want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.DataDir != want.DataDir || got.ReportRangeDays != want.ReportRangeDays {
		t.Fatalf("round trip drifted: %+v", got)
	}
	if got.TUI == nil || got.TUI.Theme != "dark" {
		t.Fatalf("tui section lost: %+v", got.TUI)
	}
}
