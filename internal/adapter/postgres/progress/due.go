package progress

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/kotobadev/jlpt-backend/internal/adapter/postgres"
	"github.com/kotobadev/jlpt-backend/internal/domain"
	"github.com/kotobadev/jlpt-backend/internal/service/study"
)

// FindDue returns the learner's due records joined with their items, most
// overdue first. Only the interval-scheduled families have due records.
func (r *Repo) FindDue(ctx context.Context, q study.DueQuery) ([]domain.SessionItem, error) {
	switch q.Family {
	case domain.FamilyFlashcard:
		return r.findDueFlashcards(ctx, q)
	case domain.FamilyQuestion:
		return r.findDueQuestions(ctx, q)
	default:
		return nil, fmt.Errorf("item family %q has no review schedule: %w", q.Family, domain.ErrValidation)
	}
}

func (r *Repo) findDueFlashcards(ctx context.Context, q study.DueQuery) ([]domain.SessionItem, error) {
	b := psql.Select(
		"p.id", "p.srs_level", "p.success_count", "p.failure_count",
		"w.id", "w.kanji", "w.hiragana", "w.english", "w.level", "w.type",
		"w.prior_knowledge", "w.learning_rate", "w.slip_rate", "w.guess_rate",
		"w.created_at", "w.updated_at",
	).
		From("flashcard_progress p").
		Join("words w ON w.id = p.item_id").
		Where(squirrel.Eq{"p.learner_id": q.LearnerID}).
		Where(squirrel.LtOrEq{"p.next_review_at": q.Cutoff}).
		OrderBy("p.next_review_at ASC", "p.id ASC").
		Limit(uint64(q.Limit))
	if q.Level != nil {
		b = b.Where(squirrel.Eq{"w.level": q.Level.String()})
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build due flashcards query: %w", err)
	}

	qr := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := qr.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "progress", q.LearnerID.String())
	}
	defer rows.Close()

	var items []domain.SessionItem
	for rows.Next() {
		var (
			progressID uuid.UUID
			item       domain.SessionItem
			word       domain.Word
		)
		err := rows.Scan(
			&progressID, &item.SRSLevel, &item.SuccessCount, &item.FailureCount,
			&word.ID, &word.Kanji, &word.Hiragana, &word.English, &word.Level, &word.Type,
			&word.BKT.PriorKnowledge, &word.BKT.LearningRate, &word.BKT.SlipRate, &word.BKT.GuessRate,
			&word.CreatedAt, &word.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan due flashcard: %w", err)
		}
		item.ProgressID = &progressID
		item.Word = &word
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "progress", q.LearnerID.String())
	}
	return items, nil
}

func (r *Repo) findDueQuestions(ctx context.Context, q study.DueQuery) ([]domain.SessionItem, error) {
	b := psql.Select(
		"p.id", "p.srs_level", "p.success_count", "p.failure_count",
		"q.id", "q.text", "q.answers", "q.correct_answer", "q.level", "q.type",
		"q.reading_content_id", "q.created_at", "q.updated_at",
	).
		From("question_progress p").
		Join("questions q ON q.id = p.item_id").
		Where(squirrel.Eq{"p.learner_id": q.LearnerID}).
		Where(squirrel.LtOrEq{"p.next_review_at": q.Cutoff}).
		OrderBy("p.next_review_at ASC", "p.id ASC").
		Limit(uint64(q.Limit))
	if q.ExerciseType != nil {
		b = b.Where(squirrel.Eq{"q.type": *q.ExerciseType})
	}
	if q.Level != nil {
		b = b.Where(squirrel.Eq{"q.level": q.Level.String()})
	}
	if q.ReadingID == nil {
		b = b.Where("q.reading_content_id IS NULL")
	} else {
		b = b.Where(squirrel.Eq{"q.reading_content_id": *q.ReadingID})
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build due questions query: %w", err)
	}

	qr := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := qr.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "progress", q.LearnerID.String())
	}
	defer rows.Close()

	var items []domain.SessionItem
	for rows.Next() {
		var (
			progressID uuid.UUID
			item       domain.SessionItem
			question   domain.Question
		)
		err := rows.Scan(
			&progressID, &item.SRSLevel, &item.SuccessCount, &item.FailureCount,
			&question.ID, &question.Text, &question.Answers, &question.CorrectAnswer,
			&question.Level, &question.Type, &question.ReadingContentID,
			&question.CreatedAt, &question.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan due question: %w", err)
		}
		item.ProgressID = &progressID
		item.Question = &question
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "progress", q.LearnerID.String())
	}
	return items, nil
}
