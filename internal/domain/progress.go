package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProgressRecord is the single aggregate tracking a learner's history with
// one item. The SRS fields (SRSLevel, NextReviewAt) and the BKT field
// (MasteryScore) are updated by independent algorithms over the same record;
// neither is derived from the other.
//
// A record does not exist until the learner's first answer for the item. It
// is created with SRSLevel 0 and, for mastery-tracked families, MasteryScore
// seeded from the item's PriorKnowledge, then mutated by that same answer.
type ProgressRecord struct {
	ID        uuid.UUID
	LearnerID uuid.UUID
	ItemID    uuid.UUID
	Family    ItemFamily

	SRSLevel     int
	SuccessCount int
	FailureCount int

	// MasteryScore is nil for families that do not track mastery.
	MasteryScore *float64

	LastReviewedAt *time.Time
	NextReviewAt   time.Time

	// Response time tracking (question family only).
	ResponseTimeMs    *int
	AvgResponseTimeMs *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDue reports whether the record is due for review at the given time.
// A freshly created record has NextReviewAt set to its creation time, so a
// never-reviewed record is immediately due.
func (r *ProgressRecord) IsDue(now time.Time) bool {
	return !r.NextReviewAt.After(now)
}

// Attempts returns the total number of recorded answers.
func (r *ProgressRecord) Attempts() int {
	return r.SuccessCount + r.FailureCount
}

// FailureRate returns FailureCount / Attempts, or 0 for an empty record.
func (r *ProgressRecord) FailureRate() float64 {
	attempts := r.Attempts()
	if attempts == 0 {
		return 0
	}
	return float64(r.FailureCount) / float64(attempts)
}

// NewProgressRecord builds the zero-state record created by a learner's
// first answer for an item. NextReviewAt defaults to now, making the record
// immediately due.
func NewProgressRecord(learnerID, itemID uuid.UUID, family ItemFamily, now time.Time) *ProgressRecord {
	return &ProgressRecord{
		ID:           uuid.New(),
		LearnerID:    learnerID,
		ItemID:       itemID,
		Family:       family,
		SRSLevel:     0,
		NextReviewAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// SessionItem is one entry of a composed study session. It is ephemeral:
// either a persisted ProgressRecord joined with its item, or, for items the
// learner has never seen, a synthetic zero-state stand-in with IsNew set.
type SessionItem struct {
	// ProgressID is nil for unseen items.
	ProgressID *uuid.UUID

	// Exactly one of the following is set, matching the session's family.
	Word         *Word
	Question     *Question
	GrammarPoint *GrammarPoint

	SRSLevel     int
	SuccessCount int
	FailureCount int
	IsNew        bool
}

// ReadingSet groups the session items of questions sharing one passage.
type ReadingSet struct {
	Reading        ReadingContent
	Questions      []SessionItem
	TotalQuestions int
}
