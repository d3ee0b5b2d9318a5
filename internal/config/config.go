package config

import (
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	SRS      SRSConfig      `yaml:"srs"`
	Session  SessionConfig  `yaml:"session"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"   env:"DATABASE_MIGRATE_ON_START"   env-default:"false"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// SRSConfig holds the per-family spaced-repetition interval tables.
// The raw values are comma-separated minute counts, one per SRS level 0..9;
// they are parsed into typed tables during validation. The two families are
// calibrated independently; the tables are not derivable from each other.
type SRSConfig struct {
	FlashcardIntervalsRaw string `yaml:"flashcard_intervals" env:"SRS_FLASHCARD_INTERVALS" env-default:"1,240,480,1440,2880,5760,10080,20160,43200,129600"`
	QuestionIntervalsRaw  string `yaml:"question_intervals"  env:"SRS_QUESTION_INTERVALS"  env-default:"1,10,60,360,1440,4320,10080,20160,43200,129600"`

	// FlashcardIntervals is parsed from FlashcardIntervalsRaw during validation.
	FlashcardIntervals [10]int `yaml:"-" env:"-"`
	// QuestionIntervals is parsed from QuestionIntervalsRaw during validation.
	QuestionIntervals [10]int `yaml:"-" env:"-"`
}

// SessionConfig holds session composition settings. The new/due split is a
// deliberate per-family calibration (flashcards 70/30, questions 80/20) and
// must stay configured per family, not unified.
type SessionConfig struct {
	FlashcardNewRatio     float64 `yaml:"flashcard_new_ratio"     env:"SESSION_FLASHCARD_NEW_RATIO"     env-default:"0.7"`
	QuestionNewRatio      float64 `yaml:"question_new_ratio"      env:"SESSION_QUESTION_NEW_RATIO"      env-default:"0.8"`
	DefaultFlashcardLimit int     `yaml:"default_flashcard_limit" env:"SESSION_DEFAULT_FLASHCARD_LIMIT" env-default:"100"`
	DefaultQuestionLimit  int     `yaml:"default_question_limit"  env:"SESSION_DEFAULT_QUESTION_LIMIT"  env-default:"50"`
	MaxLimit              int     `yaml:"max_limit"               env:"SESSION_MAX_LIMIT"               env-default:"200"`
	DefaultMaxReadings    int     `yaml:"default_max_readings"    env:"SESSION_DEFAULT_MAX_READINGS"    env-default:"3"`
	MaxReadings           int     `yaml:"max_readings"            env:"SESSION_MAX_READINGS"            env-default:"10"`
	// BackfillFetchLimit bounds the uncapped re-fetch used when one pool
	// under-delivers. Large enough to always cover a session, small enough
	// to keep the query sane.
	BackfillFetchLimit int `yaml:"backfill_fetch_limit" env:"SESSION_BACKFILL_FETCH_LIMIT" env-default:"1000"`
}
