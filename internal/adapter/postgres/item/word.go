package item

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/kotobadev/jlpt-backend/internal/adapter/postgres"
	"github.com/kotobadev/jlpt-backend/internal/domain"
)

// WordRepo provides word persistence backed by PostgreSQL.
type WordRepo struct {
	pool *pgxpool.Pool
}

// NewWordRepo creates a new word repository.
func NewWordRepo(pool *pgxpool.Pool) *WordRepo {
	return &WordRepo{pool: pool}
}

const wordColumns = `id, kanji, hiragana, english, level, type,
       prior_knowledge, learning_rate, slip_rate, guess_rate, created_at, updated_at`

const getWordByIDSQL = `
SELECT ` + wordColumns + `
FROM words
WHERE id = $1`

const getWordByKanjiSQL = `
SELECT ` + wordColumns + `
FROM words
WHERE kanji = $1`

// GetByID returns a word by primary key.
func (r *WordRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	word, err := scanWord(q.QueryRow(ctx, getWordByIDSQL, id))
	if err != nil {
		return nil, mapError(err, "word", id.String())
	}
	return word, nil
}

// GetByKanji returns a word by its natural key.
func (r *WordRepo) GetByKanji(ctx context.Context, kanji string) (*domain.Word, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	word, err := scanWord(q.QueryRow(ctx, getWordByKanjiSQL, kanji))
	if err != nil {
		return nil, mapError(err, "word", kanji)
	}
	return word, nil
}

// FindUnseen returns words the learner has no flashcard progress for,
// oldest content first so the curriculum order is stable.
func (r *WordRepo) FindUnseen(ctx context.Context, learnerID uuid.UUID, level *domain.Level, limit int) ([]domain.Word, error) {
	b := psql.Select(
		"w.id", "w.kanji", "w.hiragana", "w.english", "w.level", "w.type",
		"w.prior_knowledge", "w.learning_rate", "w.slip_rate", "w.guess_rate",
		"w.created_at", "w.updated_at",
	).
		From("words w").
		Where("NOT EXISTS (SELECT 1 FROM flashcard_progress p WHERE p.learner_id = ? AND p.item_id = w.id)", learnerID).
		OrderBy("w.created_at ASC", "w.id ASC").
		Limit(uint64(limit))
	if level != nil {
		b = b.Where(squirrel.Eq{"w.level": level.String()})
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build unseen words query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapError(err, "word", learnerID.String())
	}
	defer rows.Close()

	var words []domain.Word
	for rows.Next() {
		word, err := scanWord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		words = append(words, *word)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "word", learnerID.String())
	}
	return words, nil
}

// CountUnseen returns the size of the learner's remaining new-word pool.
func (r *WordRepo) CountUnseen(ctx context.Context, learnerID uuid.UUID, level *domain.Level) (int, error) {
	b := psql.Select("count(*)").
		From("words w").
		Where("NOT EXISTS (SELECT 1 FROM flashcard_progress p WHERE p.learner_id = ? AND p.item_id = w.id)", learnerID)
	if level != nil {
		b = b.Where(squirrel.Eq{"w.level": level.String()})
	}

	sql, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build unseen count query: %w", err)
	}

	q := postgres.QuerierFromCtx(ctx, r.pool)
	var n int
	if err := q.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, mapError(err, "word", learnerID.String())
	}
	return n, nil
}

func scanWord(row pgx.Row) (*domain.Word, error) {
	var w domain.Word
	err := row.Scan(
		&w.ID, &w.Kanji, &w.Hiragana, &w.English, &w.Level, &w.Type,
		&w.BKT.PriorKnowledge, &w.BKT.LearningRate, &w.BKT.SlipRate, &w.BKT.GuessRate,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}
