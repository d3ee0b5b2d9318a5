package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kotobadev/jlpt-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedLearner creates a learner row and returns its ID.
func SeedLearner(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	ctx := context.Background()

	id := uuid.New()
	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)

	_, err := pool.Exec(ctx,
		`INSERT INTO learners (id, email, name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, "learner-"+suffix+"@example.com", "Learner "+suffix, now, now,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedLearner: %v", err)
	}
	return id
}

// SeedWord creates a word with level defaults and returns it.
// Kanji is made unique with a random suffix unless overridden via mutate.
func SeedWord(t *testing.T, pool *pgxpool.Pool, level domain.Level, mutate ...func(*domain.Word)) domain.Word {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	word := domain.Word{
		ID:        uuid.New(),
		Kanji:     "語" + suffix,
		Hiragana:  "ご" + suffix,
		English:   []string{"word " + suffix},
		Level:     level,
		Type:      "noun",
		BKT:       domain.DefaultBKTParams(level),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, fn := range mutate {
		fn(&word)
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO words (id, kanji, hiragana, english, level, type,
		                    prior_knowledge, learning_rate, slip_rate, guess_rate, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		word.ID, word.Kanji, word.Hiragana, word.English, word.Level.String(), word.Type,
		word.BKT.PriorKnowledge, word.BKT.LearningRate, word.BKT.SlipRate, word.BKT.GuessRate,
		word.CreatedAt, word.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedWord: %v", err)
	}
	return word
}

// SeedGrammarPoint creates a grammar point with level defaults and returns it.
func SeedGrammarPoint(t *testing.T, pool *pgxpool.Pool, level domain.Level) domain.GrammarPoint {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	gp := domain.GrammarPoint{
		ID:        uuid.New(),
		Name:      "文法-" + suffix,
		Title:     "Grammar " + suffix,
		Level:     level,
		BKT:       domain.DefaultBKTParams(level),
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO grammar_points (id, name, title, explanation, level,
		                             prior_knowledge, learning_rate, slip_rate, guess_rate, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		gp.ID, gp.Name, gp.Title, gp.Explanation, gp.Level.String(),
		gp.BKT.PriorKnowledge, gp.BKT.LearningRate, gp.BKT.SlipRate, gp.BKT.GuessRate,
		gp.CreatedAt, gp.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedGrammarPoint: %v", err)
	}
	return gp
}

// SeedReadingContent creates a reading passage and returns it.
func SeedReadingContent(t *testing.T, pool *pgxpool.Pool, level domain.Level, questionType string) domain.ReadingContent {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	rc := domain.ReadingContent{
		ID:           uuid.New(),
		Content:      "本文 " + uniqueSuffix(),
		ContentType:  "passage",
		QuestionType: questionType,
		Level:        level,
		CreatedAt:    now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO reading_contents (id, content, content_type, question_type, level, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rc.ID, rc.Content, rc.ContentType, rc.QuestionType, rc.Level.String(), rc.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedReadingContent: %v", err)
	}
	return rc
}

// SeedQuestion creates a question and its word/grammar reference rows.
func SeedQuestion(t *testing.T, pool *pgxpool.Pool, level domain.Level, exerciseType string, mutate ...func(*domain.Question)) domain.Question {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	q := domain.Question{
		ID:            uuid.New(),
		Text:          "問題 " + uniqueSuffix(),
		Answers:       []string{"a", "b", "c", "d"},
		CorrectAnswer: 0,
		Level:         level,
		Type:          exerciseType,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, fn := range mutate {
		fn(&q)
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO questions (id, text, answers, correct_answer, level, type, reading_content_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		q.ID, q.Text, q.Answers, q.CorrectAnswer, q.Level.String(), q.Type, q.ReadingContentID, q.CreatedAt, q.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedQuestion: %v", err)
	}

	for _, wordID := range q.WordIDs {
		if _, err := pool.Exec(ctx,
			`INSERT INTO question_words (question_id, word_id) VALUES ($1, $2)`,
			q.ID, wordID,
		); err != nil {
			t.Fatalf("testhelper: SeedQuestion word ref: %v", err)
		}
	}
	for _, gpID := range q.GrammarPointIDs {
		if _, err := pool.Exec(ctx,
			`INSERT INTO question_grammar_points (question_id, grammar_point_id) VALUES ($1, $2)`,
			q.ID, gpID,
		); err != nil {
			t.Fatalf("testhelper: SeedQuestion grammar ref: %v", err)
		}
	}
	return q
}
