package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

func TestLoad_EnvOnlyDefaults(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Session.FlashcardNewRatio != 0.7 {
		t.Errorf("FlashcardNewRatio = %v, want 0.7", cfg.Session.FlashcardNewRatio)
	}
	if cfg.Session.QuestionNewRatio != 0.8 {
		t.Errorf("QuestionNewRatio = %v, want 0.8", cfg.Session.QuestionNewRatio)
	}
	if cfg.SRS.FlashcardIntervals[1] != 240 {
		t.Errorf("FlashcardIntervals[1] = %d, want 240", cfg.SRS.FlashcardIntervals[1])
	}
	if cfg.SRS.QuestionIntervals[1] != 10 {
		t.Errorf("QuestionIntervals[1] = %d, want 10", cfg.SRS.QuestionIntervals[1])
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `
database:
  dsn: "postgres://u:p@localhost:5432/testdb"

session:
  flashcard_new_ratio: 0.6
  question_new_ratio: 0.75
  default_flashcard_limit: 40
  default_question_limit: 20
  max_limit: 100
  default_max_readings: 2
  max_readings: 5
  backfill_fetch_limit: 500

srs:
  flashcard_intervals: "2,241,481,1441,2881,5761,10081,20161,43201,129601"
`)
	t.Setenv("CONFIG_PATH", path)
	os.Unsetenv("DATABASE_DSN")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Session.FlashcardNewRatio != 0.6 {
		t.Errorf("FlashcardNewRatio = %v, want 0.6", cfg.Session.FlashcardNewRatio)
	}
	if cfg.SRS.FlashcardIntervals[0] != 2 {
		t.Errorf("FlashcardIntervals[0] = %d, want 2", cfg.SRS.FlashcardIntervals[0])
	}
	// Question table falls back to its default.
	if cfg.SRS.QuestionIntervals[2] != 60 {
		t.Errorf("QuestionIntervals[2] = %d, want 60", cfg.SRS.QuestionIntervals[2])
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for explicit missing config file")
	}
}

func TestParseIntervalTable(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid default", "1,240,480,1440,2880,5760,10080,20160,43200,129600", false},
		{"too few entries", "1,2,3", true},
		{"non-numeric", "1,240,abc,1440,2880,5760,10080,20160,43200,129600", true},
		{"not ascending", "1,240,240,1440,2880,5760,10080,20160,43200,129600", true},
		{"zero entry", "0,240,480,1440,2880,5760,10080,20160,43200,129600", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseIntervalTable(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseIntervalTable(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
			}
		})
	}
}

func TestValidate_BadRatio(t *testing.T) {
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("SESSION_FLASHCARD_NEW_RATIO", "1.5")

	if _, err := Load(); err == nil {
		t.Fatal("expected validation error for ratio outside (0,1)")
	}
}
