package study

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kotobadev/jlpt-backend/internal/domain"
	"github.com/kotobadev/jlpt-backend/pkg/ctxutil"
)

type sessionFetch func(ctx context.Context, limit int) ([]domain.SessionItem, error)

// ComposeFlashcardSession assembles a shuffled flashcard session for the
// calling learner: a ratio-split mix of never-seen words and due reviews,
// with either side backfilling the other when its pool runs short. An empty
// session is a valid result, not an error.
func (s *Service) ComposeFlashcardSession(ctx context.Context, input FlashcardSessionInput) ([]domain.SessionItem, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(s.cfg.MaxLimit); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = s.cfg.DefaultFlashcardLimit
	}
	now := time.Now().UTC()

	fetchDue := func(ctx context.Context, n int) ([]domain.SessionItem, error) {
		items, err := s.progress.FindDue(ctx, DueQuery{
			LearnerID: learnerID,
			Family:    domain.FamilyFlashcard,
			Level:     input.Level,
			Cutoff:    now,
			Limit:     n,
		})
		if err != nil {
			return nil, fmt.Errorf("find due flashcards: %w", err)
		}
		return s.dropMalformed(items), nil
	}
	fetchNew := func(ctx context.Context, n int) ([]domain.SessionItem, error) {
		words, err := s.words.FindUnseen(ctx, learnerID, input.Level, n)
		if err != nil {
			return nil, fmt.Errorf("find unseen words: %w", err)
		}
		items := make([]domain.SessionItem, len(words))
		for i := range words {
			items[i] = domain.SessionItem{Word: &words[i], IsNew: true}
		}
		return items, nil
	}

	items, err := s.composeSession(ctx, limit, s.cfg.FlashcardNewRatio, fetchDue, fetchNew)
	if err != nil {
		return nil, err
	}

	s.log.Debug("flashcard session composed",
		"learner_id", learnerID,
		"limit", limit,
		"size", len(items),
	)
	return items, nil
}

// ComposeQuestionSession assembles a shuffled question session for one
// exercise type and level, mixing unseen questions with due reviews by the
// question ratio. Reading-bound questions are excluded; those are served
// grouped by ComposeReadingSession.
func (s *Service) ComposeQuestionSession(ctx context.Context, input QuestionSessionInput) ([]domain.SessionItem, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(s.cfg.MaxLimit); err != nil {
		return nil, err
	}

	limit := input.Limit
	if limit == 0 {
		limit = s.cfg.DefaultQuestionLimit
	}
	now := time.Now().UTC()

	items, err := s.composeSession(ctx, limit, s.cfg.QuestionNewRatio,
		s.questionDueFetch(learnerID, input.ExerciseType, input.Level, nil, now),
		s.questionNewFetch(learnerID, input.ExerciseType, input.Level, nil),
	)
	if err != nil {
		return nil, err
	}

	s.log.Debug("question session composed",
		"learner_id", learnerID,
		"exercise_type", input.ExerciseType,
		"level", input.Level,
		"limit", limit,
		"size", len(items),
	)
	return items, nil
}

// ComposeReadingSession assembles question sessions grouped by reading
// passage: up to maxReadings passages that still have unseen or due
// questions for the learner, each carrying its own ratio-mixed question set.
func (s *Service) ComposeReadingSession(ctx context.Context, input ReadingSessionInput) ([]domain.ReadingSet, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(s.cfg.MaxReadings); err != nil {
		return nil, err
	}

	maxReadings := input.MaxReadings
	if maxReadings == 0 {
		maxReadings = s.cfg.DefaultMaxReadings
	}
	now := time.Now().UTC()

	readings, err := s.questions.FindReadings(ctx, learnerID, input.ExerciseType, input.Level, now, maxReadings)
	if err != nil {
		return nil, fmt.Errorf("find readings: %w", err)
	}

	sets := make([]domain.ReadingSet, 0, len(readings))
	for i := range readings {
		reading := readings[i]
		total, err := s.questions.CountByReading(ctx, reading.ID)
		if err != nil {
			return nil, fmt.Errorf("count reading questions: %w", err)
		}
		if total == 0 {
			continue
		}

		items, err := s.composeSession(ctx, total, s.cfg.QuestionNewRatio,
			s.questionDueFetch(learnerID, input.ExerciseType, input.Level, &reading.ID, now),
			s.questionNewFetch(learnerID, input.ExerciseType, input.Level, &reading.ID),
		)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			continue
		}

		sets = append(sets, domain.ReadingSet{
			Reading:        reading,
			Questions:      items,
			TotalQuestions: total,
		})
	}

	s.log.Debug("reading session composed",
		"learner_id", learnerID,
		"exercise_type", input.ExerciseType,
		"level", input.Level,
		"readings", len(sets),
	)
	return sets, nil
}

func (s *Service) questionDueFetch(learnerID uuid.UUID, exerciseType string, level domain.Level, readingID *uuid.UUID, now time.Time) sessionFetch {
	return func(ctx context.Context, n int) ([]domain.SessionItem, error) {
		items, err := s.progress.FindDue(ctx, DueQuery{
			LearnerID:    learnerID,
			Family:       domain.FamilyQuestion,
			ExerciseType: &exerciseType,
			Level:        &level,
			ReadingID:    readingID,
			Cutoff:       now,
			Limit:        n,
		})
		if err != nil {
			return nil, fmt.Errorf("find due questions: %w", err)
		}
		return s.dropMalformed(items), nil
	}
}

func (s *Service) questionNewFetch(learnerID uuid.UUID, exerciseType string, level domain.Level, readingID *uuid.UUID) sessionFetch {
	return func(ctx context.Context, n int) ([]domain.SessionItem, error) {
		questions, err := s.questions.FindUnseen(ctx, learnerID, exerciseType, level, readingID, n)
		if err != nil {
			return nil, fmt.Errorf("find unseen questions: %w", err)
		}
		items := make([]domain.SessionItem, len(questions))
		for i := range questions {
			items[i] = domain.SessionItem{Question: &questions[i], IsNew: true}
		}
		return items, nil
	}
}

// composeSession runs the shared ratio-split pipeline: fetch both pools
// concurrently with their proportional caps, backfill once from the other
// pool if one under-delivers, merge up to limit, shuffle.
//
// The new-item share is floor(newRatio*limit); the due share is the
// remainder, so the due side absorbs the rounding.
func (s *Service) composeSession(ctx context.Context, limit int, newRatio float64, fetchDue, fetchNew sessionFetch) ([]domain.SessionItem, error) {
	newLimit := int(math.Floor(newRatio * float64(limit)))
	dueLimit := limit - newLimit

	var due, fresh []domain.SessionItem
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		due, err = fetchDue(gctx, dueLimit)
		return err
	})
	g.Go(func() error {
		var err error
		fresh, err = fetchNew(gctx, newLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Single-sided backfill. One re-fetch at the wide limit is enough:
	// if both pools are short the session is simply smaller.
	if len(due) < dueLimit {
		wide, err := fetchNew(ctx, s.cfg.BackfillFetchLimit)
		if err != nil {
			return nil, err
		}
		fresh = wide
	} else if len(fresh) < newLimit {
		wide, err := fetchDue(ctx, s.cfg.BackfillFetchLimit)
		if err != nil {
			return nil, err
		}
		due = wide
	}

	items := make([]domain.SessionItem, 0, limit)
	dueTake := min(len(due), dueLimit)
	newTake := min(len(fresh), newLimit)
	items = append(items, due[:dueTake]...)
	items = append(items, fresh[:newTake]...)

	if rem := limit - len(items); rem > 0 {
		if extra := min(rem, len(due)-dueTake); extra > 0 {
			items = append(items, due[dueTake:dueTake+extra]...)
			rem -= extra
		}
		if extra := min(rem, len(fresh)-newTake); extra > 0 {
			items = append(items, fresh[newTake:newTake+extra]...)
		}
	}

	s.shuffle(items)
	return items, nil
}

// dropMalformed filters out due rows whose item side of the join came back
// empty. A dangling progress row must not break the session.
func (s *Service) dropMalformed(items []domain.SessionItem) []domain.SessionItem {
	kept := items[:0]
	for _, it := range items {
		if it.Word == nil && it.Question == nil && it.GrammarPoint == nil {
			s.log.Warn("dropping due item with no joined content", "progress_id", it.ProgressID)
			continue
		}
		kept = append(kept, it)
	}
	return kept
}
