package study

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/kotobadev/jlpt-backend/internal/domain"
)

func TestReviewQuestionInput_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   ReviewQuestionInput
		wantErr bool
	}{
		{
			name:  "valid without response time",
			input: ReviewQuestionInput{QuestionID: uuid.New(), IsCorrect: true},
		},
		{
			name:  "valid with response time",
			input: ReviewQuestionInput{QuestionID: uuid.New(), ResponseTimeMs: ptr(3500)},
		},
		{
			name:    "missing question ID",
			input:   ReviewQuestionInput{IsCorrect: true},
			wantErr: true,
		},
		{
			name:    "negative response time",
			input:   ReviewQuestionInput{QuestionID: uuid.New(), ResponseTimeMs: ptr(-1)},
			wantErr: true,
		},
		{
			name:    "absurd response time",
			input:   ReviewQuestionInput{QuestionID: uuid.New(), ResponseTimeMs: ptr(700_000)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.input.Validate()
			if tt.wantErr && !errors.Is(err, domain.ErrValidation) {
				t.Errorf("error: got %v, want ErrValidation", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSessionInputs_Validate(t *testing.T) {
	t.Parallel()

	const maxLimit = 200

	bad := domain.Level("N9")

	t.Run("flashcard limit out of range", func(t *testing.T) {
		t.Parallel()
		in := FlashcardSessionInput{Limit: maxLimit + 1}
		if err := in.Validate(maxLimit); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("error: got %v, want ErrValidation", err)
		}
	})

	t.Run("flashcard invalid level", func(t *testing.T) {
		t.Parallel()
		in := FlashcardSessionInput{Level: &bad, Limit: 10}
		if err := in.Validate(maxLimit); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("error: got %v, want ErrValidation", err)
		}
	})

	t.Run("flashcard zero limit means default", func(t *testing.T) {
		t.Parallel()
		in := FlashcardSessionInput{}
		if err := in.Validate(maxLimit); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("question session collects multiple errors", func(t *testing.T) {
		t.Parallel()
		in := QuestionSessionInput{Level: bad, Limit: -1}
		err := in.Validate(maxLimit)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("error: got %v, want *domain.ValidationError", err)
		}
		if len(verr.Errors) != 3 {
			t.Errorf("field errors: got %d, want 3", len(verr.Errors))
		}
	})

	t.Run("reading session valid", func(t *testing.T) {
		t.Parallel()
		in := ReadingSessionInput{ExerciseType: "reading", Level: domain.LevelN3, MaxReadings: 5}
		if err := in.Validate(10); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestSearchQuestionsInput_Validate(t *testing.T) {
	t.Parallel()

	t.Run("no filters", func(t *testing.T) {
		t.Parallel()
		in := SearchQuestionsInput{}
		if err := in.Validate(); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("error: got %v, want ErrValidation", err)
		}
	})

	t.Run("one filter is enough", func(t *testing.T) {
		t.Parallel()
		in := SearchQuestionsInput{TextContains: ptr("どこ")}
		if err := in.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
