// Package database provides the local persistence store: a keyed, indexed
// SQL store with one repository per entity. SQLite is the default backend;
// PostgreSQL can be selected through the configuration.
package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound is returned by point lookups when no record exists for the key.
var ErrNotFound = errors.New("record not found")

// Config selects the database backend.
type Config struct {
	// Driver is "sqlite3" or "postgres". Empty means sqlite3.
	Driver string
	// DSN is the database file path for sqlite3 or a connection string
	// for postgres. Empty means data/vocabtrainer.db.
	DSN string
}

// Store owns the database connection and the entity repositories. Open it
// once at startup and inject it into the components that need it.
type Store struct {
	db *sqlx.DB

	Vocabularies *VocabularyRepository
	Progress     *ProgressRepository
	Stats        *StatsRepository
	Settings     *SettingsRepository
}

// Open connects to the database, initializes the schema and returns a
// ready-to-use store.
func Open(cfg Config) (*Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "sqlite3"
	}
	dsn := cfg.DSN

	if driver == "sqlite3" {
		if dsn == "" {
			dsn = filepath.Join("data", "vocabtrainer.db")
		}
		if dir := filepath.Dir(dsn); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite3" {
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
		// SQLite does not support concurrent writers.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	s.Vocabularies = NewVocabularyRepository(db)
	s.Progress = NewProgressRepository(db)
	s.Stats = NewStatsRepository(db)
	s.Settings = NewSettingsRepository(db)
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func initSchema(db *sqlx.DB) error {
	statements := sqliteSchema
	if db.DriverName() == "postgres" {
		statements = postgresSchema
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS vocabularies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS words (
		id TEXT PRIMARY KEY,
		vocab_id TEXT NOT NULL,
		term TEXT NOT NULL,
		translation TEXT NOT NULL,
		phonetic TEXT NOT NULL DEFAULT '',
		example TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL,
		created_at DATETIME NOT NULL,
		FOREIGN KEY (vocab_id) REFERENCES vocabularies(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_words_vocab ON words(vocab_id)`,
	// Progress has no foreign keys: deleting a vocabulary leaves its
	// progress records orphaned, matching the store contract.
	`CREATE TABLE IF NOT EXISTS progress (
		word_id TEXT PRIMARY KEY,
		vocab_id TEXT NOT NULL,
		status TEXT NOT NULL,
		last_reviewed DATETIME NOT NULL,
		next_review DATETIME NOT NULL,
		review_count INTEGER NOT NULL DEFAULT 0,
		confidence TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_progress_vocab ON progress(vocab_id)`,
	`CREATE INDEX IF NOT EXISTS idx_progress_next_review ON progress(next_review)`,
	`CREATE INDEX IF NOT EXISTS idx_progress_status ON progress(status)`,
	`CREATE TABLE IF NOT EXISTS daily_stats (
		date TEXT PRIMARY KEY,
		new_words_learned INTEGER NOT NULL DEFAULT 0,
		words_reviewed INTEGER NOT NULL DEFAULT 0,
		streak INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		daily_new_words INTEGER NOT NULL DEFAULT 15,
		last_study_date TEXT NOT NULL DEFAULT '',
		current_streak INTEGER NOT NULL DEFAULT 0
	)`,
}

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS vocabularies (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS words (
		id TEXT PRIMARY KEY,
		vocab_id TEXT NOT NULL REFERENCES vocabularies(id) ON DELETE CASCADE,
		term TEXT NOT NULL,
		translation TEXT NOT NULL,
		phonetic TEXT NOT NULL DEFAULT '',
		example TEXT NOT NULL DEFAULT '',
		tags TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_words_vocab ON words(vocab_id)`,
	`CREATE TABLE IF NOT EXISTS progress (
		word_id TEXT PRIMARY KEY,
		vocab_id TEXT NOT NULL,
		status TEXT NOT NULL,
		last_reviewed TIMESTAMPTZ NOT NULL,
		next_review TIMESTAMPTZ NOT NULL,
		review_count INTEGER NOT NULL DEFAULT 0,
		confidence TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_progress_vocab ON progress(vocab_id)`,
	`CREATE INDEX IF NOT EXISTS idx_progress_next_review ON progress(next_review)`,
	`CREATE INDEX IF NOT EXISTS idx_progress_status ON progress(status)`,
	`CREATE TABLE IF NOT EXISTS daily_stats (
		date TEXT PRIMARY KEY,
		new_words_learned INTEGER NOT NULL DEFAULT 0,
		words_reviewed INTEGER NOT NULL DEFAULT 0,
		streak INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		daily_new_words INTEGER NOT NULL DEFAULT 15,
		last_study_date TEXT NOT NULL DEFAULT '',
		current_streak INTEGER NOT NULL DEFAULT 0
	)`,
}
