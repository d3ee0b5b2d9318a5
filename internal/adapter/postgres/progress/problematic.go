package progress

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	postgres "github.com/kotobadev/jlpt-backend/internal/adapter/postgres"
	"github.com/kotobadev/jlpt-backend/internal/domain"
)

const problematicWordsSQL = `
SELECT w.id, w.kanji, w.hiragana, w.english, w.level, w.type,
       w.prior_knowledge, w.learning_rate, w.slip_rate, w.guess_rate,
       w.created_at, w.updated_at,
       p.success_count, p.failure_count
FROM vocabulary_progress p
JOIN words w ON w.id = p.item_id
WHERE p.learner_id = $1
  AND p.failure_count > p.success_count`

const problematicGrammarSQL = `
SELECT g.id, g.name, g.title, g.explanation, g.level,
       g.prior_knowledge, g.learning_rate, g.slip_rate, g.guess_rate,
       g.created_at, g.updated_at,
       p.success_count, p.failure_count
FROM grammar_progress p
JOIN grammar_points g ON g.id = p.item_id
WHERE p.learner_id = $1
  AND p.failure_count > p.success_count`

// ListProblematic returns the learner's mastery-tracked items with more
// failures than successes, joined with their counters. Ordering is left to
// the caller.
func (r *Repo) ListProblematic(ctx context.Context, learnerID uuid.UUID, family domain.ItemFamily) ([]domain.ProblematicItem, error) {
	switch family {
	case domain.FamilyVocabulary:
		return r.problematicWords(ctx, learnerID)
	case domain.FamilyGrammar:
		return r.problematicGrammarPoints(ctx, learnerID)
	default:
		return nil, fmt.Errorf("item family %q does not track mastery: %w", family, domain.ErrValidation)
	}
}

func (r *Repo) problematicWords(ctx context.Context, learnerID uuid.UUID) ([]domain.ProblematicItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, problematicWordsSQL, learnerID)
	if err != nil {
		return nil, mapError(err, "progress", learnerID.String())
	}
	defer rows.Close()

	var items []domain.ProblematicItem
	for rows.Next() {
		var (
			item domain.ProblematicItem
			word domain.Word
		)
		err := rows.Scan(
			&word.ID, &word.Kanji, &word.Hiragana, &word.English, &word.Level, &word.Type,
			&word.BKT.PriorKnowledge, &word.BKT.LearningRate, &word.BKT.SlipRate, &word.BKT.GuessRate,
			&word.CreatedAt, &word.UpdatedAt,
			&item.SuccessCount, &item.FailureCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan problematic word: %w", err)
		}
		item.Word = &word
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "progress", learnerID.String())
	}
	return items, nil
}

func (r *Repo) problematicGrammarPoints(ctx context.Context, learnerID uuid.UUID) ([]domain.ProblematicItem, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	rows, err := q.Query(ctx, problematicGrammarSQL, learnerID)
	if err != nil {
		return nil, mapError(err, "progress", learnerID.String())
	}
	defer rows.Close()

	var items []domain.ProblematicItem
	for rows.Next() {
		var (
			item domain.ProblematicItem
			gp   domain.GrammarPoint
		)
		err := rows.Scan(
			&gp.ID, &gp.Name, &gp.Title, &gp.Explanation, &gp.Level,
			&gp.BKT.PriorKnowledge, &gp.BKT.LearningRate, &gp.BKT.SlipRate, &gp.BKT.GuessRate,
			&gp.CreatedAt, &gp.UpdatedAt,
			&item.SuccessCount, &item.FailureCount,
		)
		if err != nil {
			return nil, fmt.Errorf("scan problematic grammar point: %w", err)
		}
		item.GrammarPoint = &gp
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "progress", learnerID.String())
	}
	return items, nil
}
