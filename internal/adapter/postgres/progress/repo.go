// Package progress implements the per-family progress record store using
// PostgreSQL. Each item family persists to its own table; all four tables
// share one column shape, so the family only selects the table and the item
// join, never the scan logic.
package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/kotobadev/jlpt-backend/internal/adapter/postgres"
	"github.com/kotobadev/jlpt-backend/internal/domain"
)

// psql builds queries with PostgreSQL-style $n placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var familyTables = map[domain.ItemFamily]string{
	domain.FamilyFlashcard:  "flashcard_progress",
	domain.FamilyQuestion:   "question_progress",
	domain.FamilyVocabulary: "vocabulary_progress",
	domain.FamilyGrammar:    "grammar_progress",
}

// Repo provides progress record persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new progress repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const progressColumns = `id, learner_id, item_id, srs_level, success_count, failure_count,
       mastery_score, last_reviewed_at, next_review_at,
       response_time_ms, avg_response_time_ms, created_at, updated_at`

func tableFor(family domain.ItemFamily) (string, error) {
	table, ok := familyTables[family]
	if !ok {
		return "", fmt.Errorf("item family %q: %w", family, domain.ErrValidation)
	}
	return table, nil
}

// Get returns the learner's progress record for one item.
func (r *Repo) Get(ctx context.Context, learnerID, itemID uuid.UUID, family domain.ItemFamily) (*domain.ProgressRecord, error) {
	table, err := tableFor(family)
	if err != nil {
		return nil, err
	}
	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE learner_id = $1 AND item_id = $2`, progressColumns, table)

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rec, err := scanRecord(q.QueryRow(ctx, sql, learnerID, itemID), family)
	if err != nil {
		return nil, mapError(err, "progress", itemID.String())
	}
	return rec, nil
}

// Upsert inserts the record or, when the learner already has one for the
// item, overwrites its mutable fields. The write is atomic, so concurrent
// first answers for the same item cannot produce two rows.
func (r *Repo) Upsert(ctx context.Context, rec *domain.ProgressRecord) (*domain.ProgressRecord, error) {
	table, err := tableFor(rec.Family)
	if err != nil {
		return nil, err
	}
	sql := fmt.Sprintf(`
INSERT INTO %s (%s)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (learner_id, item_id) DO UPDATE SET
    srs_level            = EXCLUDED.srs_level,
    success_count        = EXCLUDED.success_count,
    failure_count        = EXCLUDED.failure_count,
    mastery_score        = EXCLUDED.mastery_score,
    last_reviewed_at     = EXCLUDED.last_reviewed_at,
    next_review_at       = EXCLUDED.next_review_at,
    response_time_ms     = EXCLUDED.response_time_ms,
    avg_response_time_ms = EXCLUDED.avg_response_time_ms,
    updated_at           = EXCLUDED.updated_at
RETURNING %s`, table, progressColumns, progressColumns)

	q := postgres.QuerierFromCtx(ctx, r.pool)
	saved, err := scanRecord(q.QueryRow(ctx, sql,
		rec.ID, rec.LearnerID, rec.ItemID, rec.SRSLevel, rec.SuccessCount, rec.FailureCount,
		rec.MasteryScore, rec.LastReviewedAt, rec.NextReviewAt,
		rec.ResponseTimeMs, rec.AvgResponseTimeMs, rec.CreatedAt, rec.UpdatedAt,
	), rec.Family)
	if err != nil {
		return nil, mapError(err, "progress", rec.ItemID.String())
	}
	return saved, nil
}

// ListByLearner returns all of the learner's records for one family, most
// recently updated first.
func (r *Repo) ListByLearner(ctx context.Context, learnerID uuid.UUID, family domain.ItemFamily) ([]domain.ProgressRecord, error) {
	table, err := tableFor(family)
	if err != nil {
		return nil, err
	}
	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE learner_id = $1 ORDER BY updated_at DESC, id ASC`, progressColumns, table)

	q := postgres.QuerierFromCtx(ctx, r.pool)
	rows, err := q.Query(ctx, sql, learnerID)
	if err != nil {
		return nil, mapError(err, "progress", learnerID.String())
	}
	defer rows.Close()

	var records []domain.ProgressRecord
	for rows.Next() {
		rec, err := scanRecord(rows, family)
		if err != nil {
			return nil, fmt.Errorf("scan progress record: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "progress", learnerID.String())
	}
	return records, nil
}

func scanRecord(row pgx.Row, family domain.ItemFamily) (*domain.ProgressRecord, error) {
	var rec domain.ProgressRecord
	err := row.Scan(
		&rec.ID, &rec.LearnerID, &rec.ItemID, &rec.SRSLevel, &rec.SuccessCount, &rec.FailureCount,
		&rec.MasteryScore, &rec.LastReviewedAt, &rec.NextReviewAt,
		&rec.ResponseTimeMs, &rec.AvgResponseTimeMs, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Family = family
	return &rec, nil
}

// mapError converts pgx/pgconn errors into domain errors.
func mapError(err error, entity, key string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s %s: %w", entity, key, err)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", entity, key, domain.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s %s: %w", entity, key, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s %s: %w", entity, key, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s %s: %w", entity, key, domain.ErrValidation)
		}
	}

	return fmt.Errorf("%s %s: %w", entity, key, err)
}
