package study

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kotobadev/jlpt-backend/internal/domain"
	"github.com/kotobadev/jlpt-backend/internal/service/study/srs"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

// DueQuery selects a learner's due progress records joined with their items.
type DueQuery struct {
	LearnerID    uuid.UUID
	Family       domain.ItemFamily
	ExerciseType *string
	Level        *domain.Level
	ReadingID    *uuid.UUID
	Cutoff       time.Time
	Limit        int
}

type progressRepo interface {
	Get(ctx context.Context, learnerID, itemID uuid.UUID, family domain.ItemFamily) (*domain.ProgressRecord, error)
	Upsert(ctx context.Context, rec *domain.ProgressRecord) (*domain.ProgressRecord, error)
	FindDue(ctx context.Context, q DueQuery) ([]domain.SessionItem, error)
	ListByLearner(ctx context.Context, learnerID uuid.UUID, family domain.ItemFamily) ([]domain.ProgressRecord, error)
	ListProblematic(ctx context.Context, learnerID uuid.UUID, family domain.ItemFamily) ([]domain.ProblematicItem, error)
	QuestionStats(ctx context.Context, learnerID uuid.UUID, cutoff time.Time) (*domain.QuestionStats, error)
}

type wordRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error)
	GetByKanji(ctx context.Context, kanji string) (*domain.Word, error)
	FindUnseen(ctx context.Context, learnerID uuid.UUID, level *domain.Level, limit int) ([]domain.Word, error)
	CountUnseen(ctx context.Context, learnerID uuid.UUID, level *domain.Level) (int, error)
}

// txManager runs a function within a database transaction carried in the
// context. A nil txManager runs the function directly; unit tests rely on
// that.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type grammarRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.GrammarPoint, error)
	GetByName(ctx context.Context, name string) (*domain.GrammarPoint, error)
}

// QuestionFilter narrows a question search. At least one field must be set.
type QuestionFilter struct {
	Level          *domain.Level
	Type           *string
	WordID         *uuid.UUID
	GrammarPointID *uuid.UUID
	TextContains   *string
}

type questionRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Question, error)
	FindUnseen(ctx context.Context, learnerID uuid.UUID, exerciseType string, level domain.Level, readingID *uuid.UUID, limit int) ([]domain.Question, error)
	FindReadings(ctx context.Context, learnerID uuid.UUID, exerciseType string, level domain.Level, cutoff time.Time, limit int) ([]domain.ReadingContent, error)
	CountByReading(ctx context.Context, readingID uuid.UUID) (int, error)
	Search(ctx context.Context, f QuestionFilter) ([]domain.Question, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Config holds the scheduling calibration the service is constructed with.
// Interval tables and new/due ratios are deliberately per-family; tests
// substitute deterministic tables here.
type Config struct {
	FlashcardTable srs.Table
	QuestionTable  srs.Table

	// Share of a session reserved for never-seen items.
	FlashcardNewRatio float64
	QuestionNewRatio  float64

	DefaultFlashcardLimit int
	DefaultQuestionLimit  int
	MaxLimit              int
	DefaultMaxReadings    int
	MaxReadings           int

	// BackfillFetchLimit bounds the "uncapped" re-fetch when one pool
	// under-delivers.
	BackfillFetchLimit int
}

// Service implements the study scheduling core: review recording (SRS +
// BKT), session composition, and the problematic-item ranking.
type Service struct {
	words     wordRepo
	grammar   grammarRepo
	questions questionRepo
	progress  progressRepo
	tx        txManager
	log       *slog.Logger
	cfg       Config

	// locks serializes read-modify-write sequences per (learner, item) so
	// that duplicate submissions cannot drop each other's updates.
	locks keyMutex

	// rng drives the session shuffle; injectable for deterministic tests.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewService creates a new study service. A nil rng gets a time-seeded one.
func NewService(
	log *slog.Logger,
	words wordRepo,
	grammar grammarRepo,
	questions questionRepo,
	progress progressRepo,
	tx txManager,
	cfg Config,
	rng *rand.Rand,
) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{
		words:     words,
		grammar:   grammar,
		questions: questions,
		progress:  progress,
		tx:        tx,
		log:       log.With("service", "study"),
		cfg:       cfg,
		rng:       rng,
	}
}

// runInTx wraps fn in a transaction when a txManager is configured.
func (s *Service) runInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx.RunInTx(ctx, fn)
}

// shuffle applies a uniform random permutation in place.
// rand.Rand is not safe for concurrent use, hence the mutex.
func (s *Service) shuffle(items []domain.SessionItem) {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	s.rng.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})
}
