package study

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kotobadev/jlpt-backend/internal/domain"
	"github.com/kotobadev/jlpt-backend/internal/service/study/bkt"
	"github.com/kotobadev/jlpt-backend/internal/service/study/srs"
	"github.com/kotobadev/jlpt-backend/pkg/ctxutil"
)

// RecordFlashcardReview applies one flashcard answer to the learner's
// progress for the word and reschedules it by the flashcard interval table.
func (s *Service) RecordFlashcardReview(ctx context.Context, input ReviewFlashcardInput) (*domain.ProgressRecord, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.words.GetByID(ctx, input.WordID); err != nil {
		return nil, fmt.Errorf("get word: %w", err)
	}

	unlock := s.locks.Lock(learnerID, input.WordID)
	defer unlock()

	now := time.Now().UTC()
	rec, err := s.getOrCreateProgress(ctx, learnerID, input.WordID, domain.FamilyFlashcard, now)
	if err != nil {
		return nil, err
	}

	updated := srs.ApplyReview(*rec, s.cfg.FlashcardTable, input.IsCorrect, nil, now)
	updated.UpdatedAt = now

	saved, err := s.progress.Upsert(ctx, &updated)
	if err != nil {
		return nil, fmt.Errorf("upsert flashcard progress: %w", err)
	}

	s.log.Debug("flashcard review recorded",
		"learner_id", learnerID,
		"word_id", input.WordID,
		"correct", input.IsCorrect,
		"srs_level", saved.SRSLevel,
	)
	return saved, nil
}

// RecordQuestionReview applies one question answer: the question itself is
// rescheduled by the question interval table (with the optional response
// time folded into the running average), and the mastery estimates of every
// word and grammar point the question exercises are updated as a side
// effect.
func (s *Service) RecordQuestionReview(ctx context.Context, input ReviewQuestionInput) (*domain.ProgressRecord, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	question, err := s.questions.GetByID(ctx, input.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}

	unlock := s.locks.Lock(learnerID, input.QuestionID)
	now := time.Now().UTC()
	rec, err := s.getOrCreateProgress(ctx, learnerID, input.QuestionID, domain.FamilyQuestion, now)
	if err != nil {
		unlock()
		return nil, err
	}

	updated := srs.ApplyReview(*rec, s.cfg.QuestionTable, input.IsCorrect, input.ResponseTimeMs, now)
	updated.UpdatedAt = now

	saved, err := s.progress.Upsert(ctx, &updated)
	unlock()
	if err != nil {
		return nil, fmt.Errorf("upsert question progress: %w", err)
	}

	// The mastery side effects commit together: a failure halfway must not
	// leave some referenced items updated and others not.
	err = s.runInTx(ctx, func(ctx context.Context) error {
		return s.fanOutMastery(ctx, learnerID, question, input.IsCorrect, now)
	})
	if err != nil {
		return nil, err
	}

	s.log.Debug("question review recorded",
		"learner_id", learnerID,
		"question_id", input.QuestionID,
		"correct", input.IsCorrect,
		"srs_level", saved.SRSLevel,
		"word_refs", len(question.WordIDs),
		"grammar_refs", len(question.GrammarPointIDs),
	)
	return saved, nil
}

// RecordWordReview updates the BKT mastery estimate for a word addressed by
// its kanji. Mastery families do not reschedule; only counters and the
// mastery score change.
func (s *Service) RecordWordReview(ctx context.Context, input ReviewWordInput) (*domain.ProgressRecord, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	word, err := s.words.GetByKanji(ctx, input.Kanji)
	if err != nil {
		return nil, fmt.Errorf("get word by kanji: %w", err)
	}

	rec, err := s.applyMasteryReview(ctx, learnerID, word.ID, domain.FamilyVocabulary, word.BKT, input.IsCorrect, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.log.Debug("vocabulary review recorded",
		"learner_id", learnerID,
		"word_id", word.ID,
		"correct", input.IsCorrect,
		"mastery", *rec.MasteryScore,
	)
	return rec, nil
}

// RecordGrammarReview updates the BKT mastery estimate for a grammar point
// addressed by its name.
func (s *Service) RecordGrammarReview(ctx context.Context, input ReviewGrammarInput) (*domain.ProgressRecord, error) {
	learnerID, ok := ctxutil.LearnerIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	gp, err := s.grammar.GetByName(ctx, input.Name)
	if err != nil {
		return nil, fmt.Errorf("get grammar point by name: %w", err)
	}

	rec, err := s.applyMasteryReview(ctx, learnerID, gp.ID, domain.FamilyGrammar, gp.BKT, input.IsCorrect, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	s.log.Debug("grammar review recorded",
		"learner_id", learnerID,
		"grammar_point_id", gp.ID,
		"correct", input.IsCorrect,
		"mastery", *rec.MasteryScore,
	)
	return rec, nil
}

// fanOutMastery propagates a question outcome to every referenced word and
// grammar point. A dangling reference is skipped with a warning so that one
// stale link cannot fail the whole review; any other error aborts.
func (s *Service) fanOutMastery(ctx context.Context, learnerID uuid.UUID, q *domain.Question, correct bool, now time.Time) error {
	for _, wordID := range q.WordIDs {
		word, err := s.words.GetByID(ctx, wordID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				s.log.Warn("question references missing word, skipping mastery update",
					"question_id", q.ID, "word_id", wordID)
				continue
			}
			return fmt.Errorf("get referenced word: %w", err)
		}
		if _, err := s.applyMasteryReview(ctx, learnerID, word.ID, domain.FamilyVocabulary, word.BKT, correct, now); err != nil {
			return fmt.Errorf("update word mastery: %w", err)
		}
	}

	for _, gpID := range q.GrammarPointIDs {
		gp, err := s.grammar.GetByID(ctx, gpID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				s.log.Warn("question references missing grammar point, skipping mastery update",
					"question_id", q.ID, "grammar_point_id", gpID)
				continue
			}
			return fmt.Errorf("get referenced grammar point: %w", err)
		}
		if _, err := s.applyMasteryReview(ctx, learnerID, gp.ID, domain.FamilyGrammar, gp.BKT, correct, now); err != nil {
			return fmt.Errorf("update grammar mastery: %w", err)
		}
	}

	return nil
}

// applyMasteryReview runs the counter bump and BKT posterior update for one
// mastery-tracked item under the per-key lock, persisting the result in a
// single upsert. A first answer creates the record with the mastery seeded
// from the item's prior before the update is applied.
func (s *Service) applyMasteryReview(ctx context.Context, learnerID, itemID uuid.UUID, family domain.ItemFamily, params domain.BKTParams, correct bool, now time.Time) (*domain.ProgressRecord, error) {
	unlock := s.locks.Lock(learnerID, itemID)
	defer unlock()

	rec, err := s.getOrCreateProgress(ctx, learnerID, itemID, family, now)
	if err != nil {
		return nil, err
	}

	if rec.MasteryScore == nil {
		seed := params.PriorKnowledge
		rec.MasteryScore = &seed
	}

	if correct {
		rec.SuccessCount++
	} else {
		rec.FailureCount++
	}

	mastery := bkt.UpdateMastery(*rec.MasteryScore, correct, params)
	rec.MasteryScore = &mastery
	rec.LastReviewedAt = &now
	rec.UpdatedAt = now

	saved, err := s.progress.Upsert(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("upsert %s progress: %w", family, err)
	}
	return saved, nil
}

// getOrCreateProgress loads the learner's record for the item or builds the
// zero-state one created by a first answer.
func (s *Service) getOrCreateProgress(ctx context.Context, learnerID, itemID uuid.UUID, family domain.ItemFamily, now time.Time) (*domain.ProgressRecord, error) {
	rec, err := s.progress.Get(ctx, learnerID, itemID, family)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewProgressRecord(learnerID, itemID, family, now), nil
		}
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return rec, nil
}
