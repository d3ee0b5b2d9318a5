package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.SRS.validate(); err != nil {
		return fmt.Errorf("srs: %w", err)
	}
	if err := c.Session.validate(); err != nil {
		return fmt.Errorf("session: %w", err)
	}
	return nil
}

func (s *SRSConfig) validate() error {
	flashcard, err := ParseIntervalTable(s.FlashcardIntervalsRaw)
	if err != nil {
		return fmt.Errorf("flashcard_intervals: %w", err)
	}
	s.FlashcardIntervals = flashcard

	question, err := ParseIntervalTable(s.QuestionIntervalsRaw)
	if err != nil {
		return fmt.Errorf("question_intervals: %w", err)
	}
	s.QuestionIntervals = question

	return nil
}

func (s *SessionConfig) validate() error {
	if s.FlashcardNewRatio <= 0 || s.FlashcardNewRatio >= 1 {
		return fmt.Errorf("flashcard_new_ratio must be in (0,1) (got %v)", s.FlashcardNewRatio)
	}
	if s.QuestionNewRatio <= 0 || s.QuestionNewRatio >= 1 {
		return fmt.Errorf("question_new_ratio must be in (0,1) (got %v)", s.QuestionNewRatio)
	}
	if s.MaxLimit <= 0 {
		return fmt.Errorf("max_limit must be > 0 (got %d)", s.MaxLimit)
	}
	if s.DefaultFlashcardLimit <= 0 || s.DefaultFlashcardLimit > s.MaxLimit {
		return fmt.Errorf("default_flashcard_limit must be in [1,%d] (got %d)", s.MaxLimit, s.DefaultFlashcardLimit)
	}
	if s.DefaultQuestionLimit <= 0 || s.DefaultQuestionLimit > s.MaxLimit {
		return fmt.Errorf("default_question_limit must be in [1,%d] (got %d)", s.MaxLimit, s.DefaultQuestionLimit)
	}
	if s.MaxReadings <= 0 {
		return fmt.Errorf("max_readings must be > 0 (got %d)", s.MaxReadings)
	}
	if s.DefaultMaxReadings <= 0 || s.DefaultMaxReadings > s.MaxReadings {
		return fmt.Errorf("default_max_readings must be in [1,%d] (got %d)", s.MaxReadings, s.DefaultMaxReadings)
	}
	if s.BackfillFetchLimit < s.MaxLimit {
		return fmt.Errorf("backfill_fetch_limit must be >= max_limit (got %d)", s.BackfillFetchLimit)
	}
	return nil
}

// ParseIntervalTable parses a comma-separated string of exactly ten positive
// minute counts (e.g. "1,240,480,...") into an SRS interval table. The table
// must be strictly ascending: each level waits longer than the one before.
func ParseIntervalTable(raw string) ([10]int, error) {
	var table [10]int

	parts := strings.Split(strings.TrimSpace(raw), ",")
	if len(parts) != len(table) {
		return table, fmt.Errorf("expected %d entries, got %d", len(table), len(parts))
	}

	for i, p := range parts {
		minutes, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return table, fmt.Errorf("entry %d: invalid minute count %q: %w", i, p, err)
		}
		if minutes <= 0 {
			return table, fmt.Errorf("entry %d: must be > 0 (got %d)", i, minutes)
		}
		if i > 0 && minutes <= table[i-1] {
			return table, fmt.Errorf("entry %d: table must be strictly ascending (%d after %d)", i, minutes, table[i-1])
		}
		table[i] = minutes
	}

	return table, nil
}
