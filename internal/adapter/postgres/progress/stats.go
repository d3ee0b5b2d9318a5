package progress

import (
	"context"
	"time"

	"github.com/google/uuid"

	postgres "github.com/kotobadev/jlpt-backend/internal/adapter/postgres"
	"github.com/kotobadev/jlpt-backend/internal/domain"
)

// masteryLevel is the SRS level from which a question counts as mastered
// in the aggregated statistics.
const masteryLevel = 5

const questionStatsTotalsSQL = `
SELECT count(*),
       count(*) FILTER (WHERE next_review_at <= $2),
       COALESCE(sum(success_count), 0),
       COALESCE(sum(failure_count), 0),
       COALESCE(avg(srs_level), 0),
       count(*) FILTER (WHERE srs_level >= $3)
FROM question_progress
WHERE learner_id = $1`

const questionStatsByTypeSQL = `
SELECT q.type,
       count(*),
       count(*) FILTER (WHERE p.next_review_at <= $2),
       COALESCE(sum(p.success_count), 0),
       COALESCE(sum(p.failure_count), 0),
       COALESCE(avg(p.srs_level), 0),
       count(*) FILTER (WHERE p.srs_level = 0),
       count(*) FILTER (WHERE p.srs_level >= $3)
FROM question_progress p
JOIN questions q ON q.id = p.item_id
WHERE p.learner_id = $1
GROUP BY q.type
ORDER BY q.type`

// QuestionStats aggregates the learner's question progress in SQL: overall
// totals plus a per-question-type breakdown. Mastery here means a record
// at SRS level masteryLevel or above.
func (r *Repo) QuestionStats(ctx context.Context, learnerID uuid.UUID, cutoff time.Time) (*domain.QuestionStats, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	var (
		stats     domain.QuestionStats
		successes int
		failures  int
		mastered  int
	)
	err := q.QueryRow(ctx, questionStatsTotalsSQL, learnerID, cutoff, masteryLevel).Scan(
		&stats.TotalAttempted, &stats.CurrentlyDue,
		&successes, &failures, &stats.AverageSRSLevel, &mastered,
	)
	if err != nil {
		return nil, mapError(err, "progress", learnerID.String())
	}

	if attempts := successes + failures; attempts > 0 {
		stats.OverallAccuracy = float64(successes) / float64(attempts)
	}
	if stats.TotalAttempted > 0 {
		stats.MasteryRate = float64(mastered) / float64(stats.TotalAttempted)
	}

	rows, err := q.Query(ctx, questionStatsByTypeSQL, learnerID, cutoff, masteryLevel)
	if err != nil {
		return nil, mapError(err, "progress", learnerID.String())
	}
	defer rows.Close()

	for rows.Next() {
		var (
			ts           domain.QuestionTypeStats
			typeMastered int
		)
		err := rows.Scan(
			&ts.Type, &ts.Attempted, &ts.Due,
			&ts.TotalSuccess, &ts.TotalFailure, &ts.AverageSRSLevel,
			&ts.AtLevelZero, &typeMastered,
		)
		if err != nil {
			return nil, mapError(err, "progress", learnerID.String())
		}
		if attempts := ts.TotalSuccess + ts.TotalFailure; attempts > 0 {
			ts.Accuracy = float64(ts.TotalSuccess) / float64(attempts)
		}
		if ts.Attempted > 0 {
			ts.MasteryRate = float64(typeMastered) / float64(ts.Attempted)
		}
		stats.ByType = append(stats.ByType, ts)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "progress", learnerID.String())
	}
	return &stats, nil
}
