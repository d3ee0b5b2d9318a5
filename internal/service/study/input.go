package study

import (
	"github.com/google/uuid"

	"github.com/kotobadev/jlpt-backend/internal/domain"
)

// ReviewFlashcardInput holds the parameters for recording a flashcard review.
type ReviewFlashcardInput struct {
	WordID    uuid.UUID
	IsCorrect bool
}

// Validate checks all fields and collects all errors.
func (i *ReviewFlashcardInput) Validate() error {
	var errs []domain.FieldError

	if i.WordID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "word_id", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ReviewQuestionInput holds the parameters for recording a question review.
type ReviewQuestionInput struct {
	QuestionID     uuid.UUID
	IsCorrect      bool
	ResponseTimeMs *int
}

// Validate checks all fields and collects all errors.
func (i *ReviewQuestionInput) Validate() error {
	var errs []domain.FieldError

	if i.QuestionID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "question_id", Message: "required"})
	}
	if i.ResponseTimeMs != nil && *i.ResponseTimeMs < 0 {
		errs = append(errs, domain.FieldError{Field: "response_time_ms", Message: "must be non-negative"})
	}
	if i.ResponseTimeMs != nil && *i.ResponseTimeMs > 600_000 {
		errs = append(errs, domain.FieldError{Field: "response_time_ms", Message: "max 10 minutes"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ReviewWordInput holds the parameters for recording a vocabulary review.
// The word is addressed by its natural key.
type ReviewWordInput struct {
	Kanji     string
	IsCorrect bool
}

// Validate checks all fields and collects all errors.
func (i *ReviewWordInput) Validate() error {
	var errs []domain.FieldError

	if i.Kanji == "" {
		errs = append(errs, domain.FieldError{Field: "kanji", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ReviewGrammarInput holds the parameters for recording a grammar review.
// The grammar point is addressed by its natural key.
type ReviewGrammarInput struct {
	Name      string
	IsCorrect bool
}

// Validate checks all fields and collects all errors.
func (i *ReviewGrammarInput) Validate() error {
	var errs []domain.FieldError

	if i.Name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// FlashcardSessionInput holds the parameters for composing a flashcard session.
type FlashcardSessionInput struct {
	Level *domain.Level
	Limit int // 0 means the configured default
}

// Validate checks all fields and collects all errors.
func (i *FlashcardSessionInput) Validate(maxLimit int) error {
	var errs []domain.FieldError

	if i.Limit < 0 || i.Limit > maxLimit {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "out of range"})
	}
	if i.Level != nil && !i.Level.IsValid() {
		errs = append(errs, domain.FieldError{Field: "level", Message: "invalid JLPT level"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// QuestionSessionInput holds the parameters for composing a question session.
type QuestionSessionInput struct {
	ExerciseType string
	Level        domain.Level
	Limit        int // 0 means the configured default
}

// Validate checks all fields and collects all errors.
func (i *QuestionSessionInput) Validate(maxLimit int) error {
	var errs []domain.FieldError

	if i.ExerciseType == "" {
		errs = append(errs, domain.FieldError{Field: "exercise_type", Message: "required"})
	}
	if !i.Level.IsValid() {
		errs = append(errs, domain.FieldError{Field: "level", Message: "invalid JLPT level"})
	}
	if i.Limit < 0 || i.Limit > maxLimit {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "out of range"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ReadingSessionInput holds the parameters for composing a reading-grouped
// question session.
type ReadingSessionInput struct {
	ExerciseType string
	Level        domain.Level
	MaxReadings  int // 0 means the configured default
}

// Validate checks all fields and collects all errors.
func (i *ReadingSessionInput) Validate(maxReadings int) error {
	var errs []domain.FieldError

	if i.ExerciseType == "" {
		errs = append(errs, domain.FieldError{Field: "exercise_type", Message: "required"})
	}
	if !i.Level.IsValid() {
		errs = append(errs, domain.FieldError{Field: "level", Message: "invalid JLPT level"})
	}
	if i.MaxReadings < 0 || i.MaxReadings > maxReadings {
		errs = append(errs, domain.FieldError{Field: "max_readings", Message: "out of range"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// SearchQuestionsInput holds question search filters. At least one filter
// must be provided.
type SearchQuestionsInput struct {
	Level          *domain.Level
	Type           *string
	WordID         *uuid.UUID
	GrammarPointID *uuid.UUID
	TextContains   *string
}

// Validate checks all fields and collects all errors.
func (i *SearchQuestionsInput) Validate() error {
	var errs []domain.FieldError

	if i.Level == nil && i.Type == nil && i.WordID == nil && i.GrammarPointID == nil && i.TextContains == nil {
		errs = append(errs, domain.FieldError{Field: "filters", Message: "at least one search parameter is required"})
	}
	if i.Level != nil && !i.Level.IsValid() {
		errs = append(errs, domain.FieldError{Field: "level", Message: "invalid JLPT level"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
