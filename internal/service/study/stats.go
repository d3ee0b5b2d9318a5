package study

import (
	"context"
	"fmt"
	"time"

	"github.com/kotobadev/jlpt-backend/internal/domain"
	"github.com/kotobadev/jlpt-backend/pkg/ctxutil"
)

// QuestionStats returns the learner's aggregated question statistics:
// totals, accuracy, mastery rate (share of records at SRS level 5 or above),
// and a per-question-type breakdown. The aggregation runs in SQL; this is a
// thin authenticated passthrough.
func (s *Service) QuestionStats(ctx context.Context) (*domain.QuestionStats, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	stats, err := s.progress.QuestionStats(ctx, learnerID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("aggregate question stats: %w", err)
	}
	return stats, nil
}

// ListProgress returns all of the learner's progress records for one item
// family, most recently updated first.
func (s *Service) ListProgress(ctx context.Context, family domain.ItemFamily) ([]domain.ProgressRecord, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if !family.IsValid() {
		return nil, domain.NewValidationError("family", "invalid item family")
	}

	records, err := s.progress.ListByLearner(ctx, learnerID, family)
	if err != nil {
		return nil, fmt.Errorf("list %s progress: %w", family, err)
	}
	return records, nil
}

// CountUnseenWords returns how many words the learner has never answered,
// optionally restricted to one JLPT level. Clients use it to show the size
// of the remaining new-word pool.
func (s *Service) CountUnseenWords(ctx context.Context, level *domain.Level) (int, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return 0, domain.ErrUnauthorized
	}
	if level != nil && !level.IsValid() {
		return 0, domain.NewValidationError("level", "invalid JLPT level")
	}

	n, err := s.words.CountUnseen(ctx, learnerID, level)
	if err != nil {
		return 0, fmt.Errorf("count unseen words: %w", err)
	}
	return n, nil
}

// SearchQuestions returns questions matching the given filters.
func (s *Service) SearchQuestions(ctx context.Context, input SearchQuestionsInput) ([]domain.Question, error) {
	if _, ok := ctxutil.LearnerIDFromCtx(ctx); !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	questions, err := s.questions.Search(ctx, QuestionFilter{
		Level:          input.Level,
		Type:           input.Type,
		WordID:         input.WordID,
		GrammarPointID: input.GrammarPointID,
		TextContains:   input.TextContains,
	})
	if err != nil {
		return nil, fmt.Errorf("search questions: %w", err)
	}
	return questions, nil
}
