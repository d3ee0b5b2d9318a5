package item

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/kotobadev/jlpt-backend/internal/adapter/postgres"
	"github.com/kotobadev/jlpt-backend/internal/domain"
)

// GrammarRepo provides grammar point persistence backed by PostgreSQL.
type GrammarRepo struct {
	pool *pgxpool.Pool
}

// NewGrammarRepo creates a new grammar point repository.
func NewGrammarRepo(pool *pgxpool.Pool) *GrammarRepo {
	return &GrammarRepo{pool: pool}
}

const grammarColumns = `id, name, title, explanation, level,
       prior_knowledge, learning_rate, slip_rate, guess_rate, created_at, updated_at`

const getGrammarByIDSQL = `
SELECT ` + grammarColumns + `
FROM grammar_points
WHERE id = $1`

const getGrammarByNameSQL = `
SELECT ` + grammarColumns + `
FROM grammar_points
WHERE name = $1`

// GetByID returns a grammar point by primary key.
func (r *GrammarRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.GrammarPoint, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	gp, err := scanGrammarPoint(q.QueryRow(ctx, getGrammarByIDSQL, id))
	if err != nil {
		return nil, mapError(err, "grammar point", id.String())
	}
	return gp, nil
}

// GetByName returns a grammar point by its natural key.
func (r *GrammarRepo) GetByName(ctx context.Context, name string) (*domain.GrammarPoint, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	gp, err := scanGrammarPoint(q.QueryRow(ctx, getGrammarByNameSQL, name))
	if err != nil {
		return nil, mapError(err, "grammar point", name)
	}
	return gp, nil
}

func scanGrammarPoint(row pgx.Row) (*domain.GrammarPoint, error) {
	var gp domain.GrammarPoint
	err := row.Scan(
		&gp.ID, &gp.Name, &gp.Title, &gp.Explanation, &gp.Level,
		&gp.BKT.PriorKnowledge, &gp.BKT.LearningRate, &gp.BKT.SlipRate, &gp.BKT.GuessRate,
		&gp.CreatedAt, &gp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &gp, nil
}
