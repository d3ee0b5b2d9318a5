package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kotobadev/jlpt-backend/internal/adapter/postgres"
	"github.com/kotobadev/jlpt-backend/internal/adapter/postgres/item"
	"github.com/kotobadev/jlpt-backend/internal/adapter/postgres/progress"
	"github.com/kotobadev/jlpt-backend/internal/config"
	"github.com/kotobadev/jlpt-backend/internal/service/study"
	"github.com/kotobadev/jlpt-backend/internal/service/study/srs"
)

// App holds the assembled application: configuration, logger, database pool
// and the study service. The API transport attaches on top of it.
type App struct {
	cfg   *config.Config
	log   *slog.Logger
	pool  *pgxpool.Pool
	Study *study.Service
}

// New loads configuration, connects to the database (optionally running
// migrations first) and wires the repositories into the study service.
func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if cfg.Database.MigrateOnStart {
		if err := Migrate(ctx, cfg.Database, logger); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	words := item.NewWordRepo(pool)
	grammar := item.NewGrammarRepo(pool)
	questions := item.NewQuestionRepo(pool)
	progressRepo := progress.New(pool)
	txm := postgres.NewTxManager(pool)

	svc := study.NewService(logger, words, grammar, questions, progressRepo, txm, study.Config{
		FlashcardTable:        srs.Table(cfg.SRS.FlashcardIntervals),
		QuestionTable:         srs.Table(cfg.SRS.QuestionIntervals),
		FlashcardNewRatio:     cfg.Session.FlashcardNewRatio,
		QuestionNewRatio:      cfg.Session.QuestionNewRatio,
		DefaultFlashcardLimit: cfg.Session.DefaultFlashcardLimit,
		DefaultQuestionLimit:  cfg.Session.DefaultQuestionLimit,
		MaxLimit:              cfg.Session.MaxLimit,
		DefaultMaxReadings:    cfg.Session.DefaultMaxReadings,
		MaxReadings:           cfg.Session.MaxReadings,
		BackfillFetchLimit:    cfg.Session.BackfillFetchLimit,
	}, nil)

	return &App{
		cfg:   cfg,
		log:   logger,
		pool:  pool,
		Study: svc,
	}, nil
}

// Run serves the liveness/readiness endpoints until the context is
// cancelled, then shuts down gracefully and closes the pool.
func (a *App) Run(ctx context.Context) error {
	defer a.pool.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := a.pool.Ping(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:         net.JoinHostPort(a.cfg.Server.Host, strconv.Itoa(a.cfg.Server.Port)),
		Handler:      mux,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}
