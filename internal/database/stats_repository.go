package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabtrainer/pkg/models"
)

// StatsRepository handles database operations for daily activity counters,
// keyed by calendar day.
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new repository instance.
func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Get returns the stats record for a YYYY-MM-DD date, or ErrNotFound.
func (r *StatsRepository) Get(ctx context.Context, date string) (*models.DailyStats, error) {
	var s models.DailyStats
	err := r.db.GetContext(ctx, &s,
		r.db.Rebind("SELECT * FROM daily_stats WHERE date = ?"), date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}
	return &s, nil
}

// Upsert inserts or replaces the stats record for its date.
func (r *StatsRepository) Upsert(ctx context.Context, s *models.DailyStats) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO daily_stats (date, new_words_learned, words_reviewed, streak)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (date) DO UPDATE SET
			new_words_learned = excluded.new_words_learned,
			words_reviewed = excluded.words_reviewed,
			streak = excluded.streak`),
		s.Date, s.NewWordsLearned, s.WordsReviewed, s.Streak)
	if err != nil {
		return fmt.Errorf("failed to upsert daily stats: %w", err)
	}
	return nil
}

// ListAll returns all stats records, newest day first.
func (r *StatsRepository) ListAll(ctx context.Context) ([]models.DailyStats, error) {
	var records []models.DailyStats
	err := r.db.SelectContext(ctx, &records, "SELECT * FROM daily_stats ORDER BY date DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list daily stats: %w", err)
	}
	return records, nil
}
