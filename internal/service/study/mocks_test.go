package study

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/kotobadev/jlpt-backend/internal/domain"
)

// Hand-rolled mocks: each method delegates to its Func field and panics if
// the test did not set it, so an unexpected repo call fails loudly.

var _ progressRepo = &progressRepoMock{}

type progressRepoMock struct {
	GetFunc             func(ctx context.Context, learnerID, itemID uuid.UUID, family domain.ItemFamily) (*domain.ProgressRecord, error)
	UpsertFunc          func(ctx context.Context, rec *domain.ProgressRecord) (*domain.ProgressRecord, error)
	FindDueFunc         func(ctx context.Context, q DueQuery) ([]domain.SessionItem, error)
	ListByLearnerFunc   func(ctx context.Context, learnerID uuid.UUID, family domain.ItemFamily) ([]domain.ProgressRecord, error)
	ListProblematicFunc func(ctx context.Context, learnerID uuid.UUID, family domain.ItemFamily) ([]domain.ProblematicItem, error)
	QuestionStatsFunc   func(ctx context.Context, learnerID uuid.UUID, cutoff time.Time) (*domain.QuestionStats, error)
}

func (m *progressRepoMock) Get(ctx context.Context, learnerID, itemID uuid.UUID, family domain.ItemFamily) (*domain.ProgressRecord, error) {
	if m.GetFunc == nil {
		panic("progressRepoMock.GetFunc is nil")
	}
	return m.GetFunc(ctx, learnerID, itemID, family)
}

func (m *progressRepoMock) Upsert(ctx context.Context, rec *domain.ProgressRecord) (*domain.ProgressRecord, error) {
	if m.UpsertFunc == nil {
		panic("progressRepoMock.UpsertFunc is nil")
	}
	return m.UpsertFunc(ctx, rec)
}

func (m *progressRepoMock) FindDue(ctx context.Context, q DueQuery) ([]domain.SessionItem, error) {
	if m.FindDueFunc == nil {
		panic("progressRepoMock.FindDueFunc is nil")
	}
	return m.FindDueFunc(ctx, q)
}

func (m *progressRepoMock) ListByLearner(ctx context.Context, learnerID uuid.UUID, family domain.ItemFamily) ([]domain.ProgressRecord, error) {
	if m.ListByLearnerFunc == nil {
		panic("progressRepoMock.ListByLearnerFunc is nil")
	}
	return m.ListByLearnerFunc(ctx, learnerID, family)
}

func (m *progressRepoMock) ListProblematic(ctx context.Context, learnerID uuid.UUID, family domain.ItemFamily) ([]domain.ProblematicItem, error) {
	if m.ListProblematicFunc == nil {
		panic("progressRepoMock.ListProblematicFunc is nil")
	}
	return m.ListProblematicFunc(ctx, learnerID, family)
}

func (m *progressRepoMock) QuestionStats(ctx context.Context, learnerID uuid.UUID, cutoff time.Time) (*domain.QuestionStats, error) {
	if m.QuestionStatsFunc == nil {
		panic("progressRepoMock.QuestionStatsFunc is nil")
	}
	return m.QuestionStatsFunc(ctx, learnerID, cutoff)
}

var _ wordRepo = &wordRepoMock{}

type wordRepoMock struct {
	GetByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.Word, error)
	GetByKanjiFunc  func(ctx context.Context, kanji string) (*domain.Word, error)
	FindUnseenFunc  func(ctx context.Context, learnerID uuid.UUID, level *domain.Level, limit int) ([]domain.Word, error)
	CountUnseenFunc func(ctx context.Context, learnerID uuid.UUID, level *domain.Level) (int, error)
}

func (m *wordRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	if m.GetByIDFunc == nil {
		panic("wordRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *wordRepoMock) GetByKanji(ctx context.Context, kanji string) (*domain.Word, error) {
	if m.GetByKanjiFunc == nil {
		panic("wordRepoMock.GetByKanjiFunc is nil")
	}
	return m.GetByKanjiFunc(ctx, kanji)
}

func (m *wordRepoMock) FindUnseen(ctx context.Context, learnerID uuid.UUID, level *domain.Level, limit int) ([]domain.Word, error) {
	if m.FindUnseenFunc == nil {
		panic("wordRepoMock.FindUnseenFunc is nil")
	}
	return m.FindUnseenFunc(ctx, learnerID, level, limit)
}

func (m *wordRepoMock) CountUnseen(ctx context.Context, learnerID uuid.UUID, level *domain.Level) (int, error) {
	if m.CountUnseenFunc == nil {
		panic("wordRepoMock.CountUnseenFunc is nil")
	}
	return m.CountUnseenFunc(ctx, learnerID, level)
}

var _ grammarRepo = &grammarRepoMock{}

type grammarRepoMock struct {
	GetByIDFunc   func(ctx context.Context, id uuid.UUID) (*domain.GrammarPoint, error)
	GetByNameFunc func(ctx context.Context, name string) (*domain.GrammarPoint, error)
}

func (m *grammarRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.GrammarPoint, error) {
	if m.GetByIDFunc == nil {
		panic("grammarRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *grammarRepoMock) GetByName(ctx context.Context, name string) (*domain.GrammarPoint, error) {
	if m.GetByNameFunc == nil {
		panic("grammarRepoMock.GetByNameFunc is nil")
	}
	return m.GetByNameFunc(ctx, name)
}

var _ questionRepo = &questionRepoMock{}

type questionRepoMock struct {
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	FindUnseenFunc     func(ctx context.Context, learnerID uuid.UUID, exerciseType string, level domain.Level, readingID *uuid.UUID, limit int) ([]domain.Question, error)
	FindReadingsFunc   func(ctx context.Context, learnerID uuid.UUID, exerciseType string, level domain.Level, cutoff time.Time, limit int) ([]domain.ReadingContent, error)
	CountByReadingFunc func(ctx context.Context, readingID uuid.UUID) (int, error)
	SearchFunc         func(ctx context.Context, f QuestionFilter) ([]domain.Question, error)
}

func (m *questionRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error) {
	if m.GetByIDFunc == nil {
		panic("questionRepoMock.GetByIDFunc is nil")
	}
	return m.GetByIDFunc(ctx, id)
}

func (m *questionRepoMock) FindUnseen(ctx context.Context, learnerID uuid.UUID, exerciseType string, level domain.Level, readingID *uuid.UUID, limit int) ([]domain.Question, error) {
	if m.FindUnseenFunc == nil {
		panic("questionRepoMock.FindUnseenFunc is nil")
	}
	return m.FindUnseenFunc(ctx, learnerID, exerciseType, level, readingID, limit)
}

func (m *questionRepoMock) FindReadings(ctx context.Context, learnerID uuid.UUID, exerciseType string, level domain.Level, cutoff time.Time, limit int) ([]domain.ReadingContent, error) {
	if m.FindReadingsFunc == nil {
		panic("questionRepoMock.FindReadingsFunc is nil")
	}
	return m.FindReadingsFunc(ctx, learnerID, exerciseType, level, cutoff, limit)
}

func (m *questionRepoMock) CountByReading(ctx context.Context, readingID uuid.UUID) (int, error) {
	if m.CountByReadingFunc == nil {
		panic("questionRepoMock.CountByReadingFunc is nil")
	}
	return m.CountByReadingFunc(ctx, readingID)
}

func (m *questionRepoMock) Search(ctx context.Context, f QuestionFilter) ([]domain.Question, error) {
	if m.SearchFunc == nil {
		panic("questionRepoMock.SearchFunc is nil")
	}
	return m.SearchFunc(ctx, f)
}
