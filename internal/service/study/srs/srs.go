// Package srs implements the interval-table spaced repetition scheduler.
// All functions are pure: no DB, no context, no logger.
package srs

import (
	"math"
	"time"

	"github.com/kotobadev/jlpt-backend/internal/domain"
)

// MaxLevel is the highest SRS level. Levels outside [0, MaxLevel] are
// clamped before any table lookup.
const MaxLevel = 9

// Table is a fixed ascending sequence of wait times in minutes, indexed by
// SRS level 0..9. Tables are calibrated per item family, not derived from a
// formula.
type Table [MaxLevel + 1]int

// DefaultFlashcardTable is the calibrated wait table for flashcard reviews:
// 1m, 4h, 8h, 1d, 2d, 4d, 1w, 2w, 1mo, 3mo.
var DefaultFlashcardTable = Table{1, 240, 480, 1440, 2880, 5760, 10080, 20160, 43200, 129600}

// DefaultQuestionTable is the calibrated wait table for question reviews.
// Its early levels re-show items within the same study day.
var DefaultQuestionTable = Table{1, 10, 60, 360, 1440, 4320, 10080, 20160, 43200, 129600}

// Interval returns the wait duration for the given SRS level.
// The level is clamped to [0, MaxLevel].
func (t Table) Interval(level int) time.Duration {
	return time.Duration(t[ClampLevel(level)]) * time.Minute
}

// ClampLevel clamps an SRS level into [0, MaxLevel].
func ClampLevel(level int) int {
	if level < 0 {
		return 0
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// ApplyReview applies one review outcome to a progress record and returns
// the updated record. Pure state transition, no error paths:
//   - correct moves the level up one step (capped at MaxLevel) and bumps
//     SuccessCount; incorrect moves it down one step (floored at 0) and
//     bumps FailureCount;
//   - LastReviewedAt is set to now, NextReviewAt to now plus the table
//     interval of the NEW level;
//   - when responseTimeMs is provided, the running average is updated as a
//     weighted mean over the attempt count captured BEFORE the counters
//     above are bumped. The first observation sets the average to itself.
func ApplyReview(rec domain.ProgressRecord, table Table, correct bool, responseTimeMs *int, now time.Time) domain.ProgressRecord {
	priorAttempts := rec.SuccessCount + rec.FailureCount

	if correct {
		rec.SRSLevel = ClampLevel(rec.SRSLevel + 1)
		rec.SuccessCount++
	} else {
		rec.SRSLevel = ClampLevel(rec.SRSLevel - 1)
		rec.FailureCount++
	}

	rec.LastReviewedAt = &now
	rec.NextReviewAt = now.Add(table.Interval(rec.SRSLevel))

	if responseTimeMs != nil {
		rt := *responseTimeMs
		rec.ResponseTimeMs = &rt

		if rec.AvgResponseTimeMs == nil {
			avg := rt
			rec.AvgResponseTimeMs = &avg
		} else {
			avg := int(math.Round((float64(*rec.AvgResponseTimeMs)*float64(priorAttempts) + float64(rt)) / float64(priorAttempts+1)))
			rec.AvgResponseTimeMs = &avg
		}
	}

	return rec
}
