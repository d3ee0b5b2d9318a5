package study

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kotobadev/jlpt-backend/internal/domain"
	"github.com/kotobadev/jlpt-backend/pkg/ctxutil"
)

func TestService_QuestionStats_Passthrough(t *testing.T) {
	t.Parallel()

	learnerID := uuid.New()
	want := &domain.QuestionStats{
		TotalAttempted:  42,
		CurrentlyDue:    7,
		OverallAccuracy: 0.81,
		ByType: []domain.QuestionTypeStats{
			{Type: "grammar", Attempted: 20, Accuracy: 0.75},
		},
	}

	mockProgress := &progressRepoMock{
		QuestionStatsFunc: func(ctx context.Context, lid uuid.UUID, cutoff time.Time) (*domain.QuestionStats, error) {
			if lid != learnerID {
				t.Errorf("learner: got %v, want %v", lid, learnerID)
			}
			if cutoff.IsZero() {
				t.Error("cutoff not set")
			}
			return want, nil
		},
	}

	svc := NewService(slog.Default(), nil, nil, nil, mockProgress, nil, testConfig(), nil)
	ctx := ctxutil.WithLearnerID(context.Background(), learnerID)

	got, err := svc.QuestionStats(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Error("stats not passed through unchanged")
	}
}

func TestService_ListProgress_InvalidFamily(t *testing.T) {
	t.Parallel()

	svc := NewService(slog.Default(), nil, nil, nil, nil, nil, testConfig(), nil)
	ctx := ctxutil.WithLearnerID(context.Background(), uuid.New())

	_, err := svc.ListProgress(ctx, domain.ItemFamily("BOGUS"))
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("error: got %v, want ErrValidation", err)
	}
}

func TestService_CountUnseenWords(t *testing.T) {
	t.Parallel()

	level := domain.LevelN3
	mockWords := &wordRepoMock{
		CountUnseenFunc: func(ctx context.Context, learnerID uuid.UUID, lvl *domain.Level) (int, error) {
			if lvl == nil || *lvl != level {
				t.Errorf("level: got %v, want %v", lvl, level)
			}
			return 137, nil
		},
	}

	svc := NewService(slog.Default(), mockWords, nil, nil, nil, nil, testConfig(), nil)
	ctx := ctxutil.WithLearnerID(context.Background(), uuid.New())

	n, err := svc.CountUnseenWords(ctx, &level)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 137 {
		t.Errorf("count: got %d, want 137", n)
	}
}

func TestService_SearchQuestions_RequiresFilter(t *testing.T) {
	t.Parallel()

	svc := NewService(slog.Default(), nil, nil, nil, nil, nil, testConfig(), nil)
	ctx := ctxutil.WithLearnerID(context.Background(), uuid.New())

	_, err := svc.SearchQuestions(ctx, SearchQuestionsInput{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("error: got %v, want ErrValidation", err)
	}
}
