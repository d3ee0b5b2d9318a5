package item

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/kotobadev/jlpt-backend/internal/adapter/postgres"
	"github.com/kotobadev/jlpt-backend/internal/domain"
	"github.com/kotobadev/jlpt-backend/internal/service/study"
)

// searchLimit caps the result size of ad-hoc question searches.
const searchLimit = 100

// QuestionRepo provides question persistence backed by PostgreSQL.
type QuestionRepo struct {
	pool *pgxpool.Pool
}

// NewQuestionRepo creates a new question repository.
func NewQuestionRepo(pool *pgxpool.Pool) *QuestionRepo {
	return &QuestionRepo{pool: pool}
}

const getQuestionByIDSQL = `
SELECT q.id, q.text, q.answers, q.correct_answer, q.level, q.type,
       q.reading_content_id, q.created_at, q.updated_at,
       ARRAY(SELECT word_id FROM question_words WHERE question_id = q.id),
       ARRAY(SELECT grammar_point_id FROM question_grammar_points WHERE question_id = q.id),
       r.content, r.content_type, r.question_type, r.level, r.created_at
FROM questions q
LEFT JOIN reading_contents r ON r.id = q.reading_content_id
WHERE q.id = $1`

// GetByID returns a question with its word/grammar references and, when the
// question belongs to a passage, the passage itself.
func (r *QuestionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		question     domain.Question
		rContent     *string
		rContentType *string
		rQType       *string
		rLevel       *string
		rCreatedAt   *time.Time
	)
	err := q.QueryRow(ctx, getQuestionByIDSQL, id).Scan(
		&question.ID, &question.Text, &question.Answers, &question.CorrectAnswer,
		&question.Level, &question.Type, &question.ReadingContentID,
		&question.CreatedAt, &question.UpdatedAt,
		&question.WordIDs, &question.GrammarPointIDs,
		&rContent, &rContentType, &rQType, &rLevel, &rCreatedAt,
	)
	if err != nil {
		return nil, mapError(err, "question", id.String())
	}

	if question.ReadingContentID != nil && rContent != nil {
		question.ReadingContent = &domain.ReadingContent{
			ID:           *question.ReadingContentID,
			Content:      *rContent,
			ContentType:  *rContentType,
			QuestionType: *rQType,
			Level:        domain.Level(*rLevel),
			CreatedAt:    *rCreatedAt,
		}
	}
	return &question, nil
}

// FindUnseen returns questions of one exercise type and level that the
// learner has no progress for. A nil readingID restricts the result to
// standalone questions; a non-nil one to a single passage.
func (r *QuestionRepo) FindUnseen(ctx context.Context, learnerID uuid.UUID, exerciseType string, level domain.Level, readingID *uuid.UUID, limit int) ([]domain.Question, error) {
	b := psql.Select(
		"q.id", "q.text", "q.answers", "q.correct_answer", "q.level", "q.type",
		"q.reading_content_id", "q.created_at", "q.updated_at",
	).
		From("questions q").
		Where(squirrel.Eq{"q.type": exerciseType, "q.level": level.String()}).
		Where("NOT EXISTS (SELECT 1 FROM question_progress p WHERE p.learner_id = ? AND p.item_id = q.id)", learnerID).
		OrderBy("q.created_at ASC", "q.id ASC").
		Limit(uint64(limit))
	if readingID == nil {
		b = b.Where("q.reading_content_id IS NULL")
	} else {
		b = b.Where(squirrel.Eq{"q.reading_content_id": *readingID})
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build unseen questions query: %w", err)
	}
	return r.queryQuestions(ctx, sql, args)
}

const findReadingsSQL = `
SELECT r.id, r.content, r.content_type, r.question_type, r.level, r.created_at
FROM reading_contents r
WHERE EXISTS (
    SELECT 1
    FROM questions q
    LEFT JOIN question_progress p ON p.item_id = q.id AND p.learner_id = $1
    WHERE q.reading_content_id = r.id
      AND q.type = $2
      AND q.level = $3
      AND (p.id IS NULL OR p.next_review_at <= $4)
)
ORDER BY r.created_at ASC, r.id ASC
LIMIT $5`

// FindReadings returns passages that still have at least one unseen question
// or one due as of the cutoff, for the given exercise type and level.
func (r *QuestionRepo) FindReadings(ctx context.Context, learnerID uuid.UUID, exerciseType string, level domain.Level, cutoff time.Time, limit int) ([]domain.ReadingContent, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, findReadingsSQL, learnerID, exerciseType, level.String(), cutoff, limit)
	if err != nil {
		return nil, mapError(err, "reading", learnerID.String())
	}
	defer rows.Close()

	var readings []domain.ReadingContent
	for rows.Next() {
		var rc domain.ReadingContent
		if err := rows.Scan(&rc.ID, &rc.Content, &rc.ContentType, &rc.QuestionType, &rc.Level, &rc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		readings = append(readings, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "reading", learnerID.String())
	}
	return readings, nil
}

const countByReadingSQL = `
SELECT count(*) FROM questions WHERE reading_content_id = $1`

// CountByReading returns how many questions belong to a passage.
func (r *QuestionRepo) CountByReading(ctx context.Context, readingID uuid.UUID) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var n int
	if err := q.QueryRow(ctx, countByReadingSQL, readingID).Scan(&n); err != nil {
		return 0, mapError(err, "reading", readingID.String())
	}
	return n, nil
}

// Search returns questions matching the given filter combination.
func (r *QuestionRepo) Search(ctx context.Context, f study.QuestionFilter) ([]domain.Question, error) {
	b := psql.Select(
		"q.id", "q.text", "q.answers", "q.correct_answer", "q.level", "q.type",
		"q.reading_content_id", "q.created_at", "q.updated_at",
	).
		From("questions q").
		OrderBy("q.created_at DESC", "q.id ASC").
		Limit(searchLimit)

	if f.Level != nil {
		b = b.Where(squirrel.Eq{"q.level": f.Level.String()})
	}
	if f.Type != nil {
		b = b.Where(squirrel.Eq{"q.type": *f.Type})
	}
	if f.WordID != nil {
		b = b.Where("EXISTS (SELECT 1 FROM question_words qw WHERE qw.question_id = q.id AND qw.word_id = ?)", *f.WordID)
	}
	if f.GrammarPointID != nil {
		b = b.Where("EXISTS (SELECT 1 FROM question_grammar_points qg WHERE qg.question_id = q.id AND qg.grammar_point_id = ?)", *f.GrammarPointID)
	}
	if f.TextContains != nil {
		b = b.Where("q.text ILIKE '%' || ? || '%'", *f.TextContains)
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build question search query: %w", err)
	}
	return r.queryQuestions(ctx, sql, args)
}

func (r *QuestionRepo) queryQuestions(ctx context.Context, sql string, args []any) ([]domain.Question, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "question", "query")
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		question, err := scanQuestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, *question)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "question", "query")
	}
	return questions, nil
}

func scanQuestion(row pgx.Row) (*domain.Question, error) {
	var q domain.Question
	err := row.Scan(
		&q.ID, &q.Text, &q.Answers, &q.CorrectAnswer, &q.Level, &q.Type,
		&q.ReadingContentID, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &q, nil
}
