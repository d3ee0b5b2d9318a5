package domain

import (
	"time"

	"github.com/google/uuid"
)

// BKTParams are the calibrated Bayesian Knowledge Tracing parameters of a
// content item. All values are probabilities in [0,1].
type BKTParams struct {
	PriorKnowledge float64
	LearningRate   float64
	SlipRate       float64
	GuessRate      float64
}

// Word is a vocabulary item. Kanji is the natural key used by the
// vocabulary review mutation.
type Word struct {
	ID        uuid.UUID
	Kanji     string
	Hiragana  string
	English   []string
	Level     Level
	Type      string
	BKT       BKTParams
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GrammarPoint is a grammar item. Name is the natural key used by the
// grammar review mutation.
type GrammarPoint struct {
	ID          uuid.UUID
	Name        string
	Title       string
	Explanation *string
	Level       Level
	BKT         BKTParams
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Question is a quiz item. It may belong to a reading passage and may
// reference the words and grammar points it exercises; answering a question
// fans progress updates out to those items.
type Question struct {
	ID               uuid.UUID
	Text             string
	Answers          []string
	CorrectAnswer    int
	Level            Level
	Type             string
	WordIDs          []uuid.UUID
	GrammarPointIDs  []uuid.UUID
	ReadingContentID *uuid.UUID
	ReadingContent   *ReadingContent
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ReadingContent is a passage shared by several questions.
type ReadingContent struct {
	ID           uuid.UUID
	Content      string
	ContentType  string
	QuestionType string
	Level        Level
	CreatedAt    time.Time
}

// DefaultBKTParams returns the calibrated per-level BKT defaults applied
// when an item is seeded without explicit parameters. Levels without a
// calibration fall back to the N5 set.
func DefaultBKTParams(level Level) BKTParams {
	switch level {
	case LevelN4:
		return BKTParams{PriorKnowledge: 0.04, LearningRate: 0.25, SlipRate: 0.25, GuessRate: 0.25}
	default:
		return BKTParams{PriorKnowledge: 0.06, LearningRate: 0.35, SlipRate: 0.18, GuessRate: 0.25}
	}
}
