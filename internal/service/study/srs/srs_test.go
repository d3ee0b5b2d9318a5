package srs

import (
	"testing"
	"time"

	"github.com/kotobadev/jlpt-backend/internal/domain"
)

func ptrInt(v int) *int { return &v }

func TestTable_Interval(t *testing.T) {
	tests := []struct {
		name  string
		table Table
		level int
		want  time.Duration
	}{
		{"flashcard level 0", DefaultFlashcardTable, 0, 1 * time.Minute},
		{"flashcard level 1", DefaultFlashcardTable, 1, 4 * time.Hour},
		{"flashcard level 9", DefaultFlashcardTable, 9, 129600 * time.Minute},
		{"question level 1", DefaultQuestionTable, 1, 10 * time.Minute},
		{"question level 3", DefaultQuestionTable, 3, 6 * time.Hour},
		{"negative level clamps to 0", DefaultFlashcardTable, -3, 1 * time.Minute},
		{"overflow level clamps to 9", DefaultFlashcardTable, 12, 129600 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.table.Interval(tt.level); got != tt.want {
				t.Errorf("Interval(%d) = %v, want %v", tt.level, got, tt.want)
			}
		})
	}
}

func TestApplyReview_LevelTransitions(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		level       int
		correct     bool
		wantLevel   int
		wantSuccess int
		wantFailure int
	}{
		{"correct moves up", 2, true, 3, 1, 0},
		{"incorrect moves down", 2, false, 1, 0, 1},
		{"level 9 correct stays clamped", 9, true, 9, 1, 0},
		{"level 0 incorrect stays clamped", 0, false, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := domain.ProgressRecord{SRSLevel: tt.level}
			got := ApplyReview(rec, DefaultFlashcardTable, tt.correct, nil, now)

			if got.SRSLevel != tt.wantLevel {
				t.Errorf("SRSLevel = %d, want %d", got.SRSLevel, tt.wantLevel)
			}
			if got.SuccessCount != tt.wantSuccess {
				t.Errorf("SuccessCount = %d, want %d", got.SuccessCount, tt.wantSuccess)
			}
			if got.FailureCount != tt.wantFailure {
				t.Errorf("FailureCount = %d, want %d", got.FailureCount, tt.wantFailure)
			}
			if got.LastReviewedAt == nil || !got.LastReviewedAt.Equal(now) {
				t.Errorf("LastReviewedAt = %v, want %v", got.LastReviewedAt, now)
			}
		})
	}
}

func TestApplyReview_NextReviewUsesNewLevel(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	// Level 2 correct → level 3, interval = table[3], exact to the second.
	rec := domain.ProgressRecord{SRSLevel: 2}
	got := ApplyReview(rec, DefaultFlashcardTable, true, nil, now)

	want := now.Add(DefaultFlashcardTable.Interval(3))
	if !got.NextReviewAt.Equal(want) {
		t.Errorf("NextReviewAt = %v, want %v", got.NextReviewAt, want)
	}
	if !got.NextReviewAt.Equal(got.LastReviewedAt.Add(1440 * time.Minute)) {
		t.Errorf("NextReviewAt must be lastReviewed + interval(3)")
	}
}

func TestApplyReview_LevelStaysInRange(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	rec := domain.ProgressRecord{SRSLevel: 0}

	// Arbitrary mixed sequence; level must never leave [0,9].
	outcomes := []bool{true, true, false, false, false, true, true, true, true, true, true, true, true, false, true}
	for i, correct := range outcomes {
		rec = ApplyReview(rec, DefaultQuestionTable, correct, nil, now)
		if rec.SRSLevel < 0 || rec.SRSLevel > MaxLevel {
			t.Fatalf("after review %d: SRSLevel %d out of range", i, rec.SRSLevel)
		}
	}
}

func TestApplyReview_ResponseTimeAverage(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	// First observation sets the average to itself.
	rec := domain.ProgressRecord{}
	rec = ApplyReview(rec, DefaultQuestionTable, true, ptrInt(2000), now)
	if rec.AvgResponseTimeMs == nil || *rec.AvgResponseTimeMs != 2000 {
		t.Fatalf("first avg = %v, want 2000", rec.AvgResponseTimeMs)
	}

	// Second: (2000*1 + 1000) / 2 = 1500. The prior attempt count is the
	// one captured before this review's counter bump.
	rec = ApplyReview(rec, DefaultQuestionTable, false, ptrInt(1000), now)
	if *rec.AvgResponseTimeMs != 1500 {
		t.Errorf("second avg = %d, want 1500", *rec.AvgResponseTimeMs)
	}

	// Third: (1500*2 + 3000) / 3 = 2000.
	rec = ApplyReview(rec, DefaultQuestionTable, true, ptrInt(3000), now)
	if *rec.AvgResponseTimeMs != 2000 {
		t.Errorf("third avg = %d, want 2000", *rec.AvgResponseTimeMs)
	}

	if rec.ResponseTimeMs == nil || *rec.ResponseTimeMs != 3000 {
		t.Errorf("ResponseTimeMs = %v, want last observation 3000", rec.ResponseTimeMs)
	}
}

func TestApplyReview_NilResponseTimeLeavesAverage(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	rec := domain.ProgressRecord{}
	rec = ApplyReview(rec, DefaultQuestionTable, true, ptrInt(800), now)
	rec = ApplyReview(rec, DefaultQuestionTable, true, nil, now)

	if rec.AvgResponseTimeMs == nil || *rec.AvgResponseTimeMs != 800 {
		t.Errorf("avg = %v, want unchanged 800", rec.AvgResponseTimeMs)
	}
}
