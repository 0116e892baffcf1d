package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabtrainer/pkg/models"
)

// SettingsRepository handles the single user settings record.
type SettingsRepository struct {
	db *sqlx.DB
}

// NewSettingsRepository creates a new repository instance.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the persisted settings, or the defaults when nothing has
// been saved yet.
func (r *SettingsRepository) Get(ctx context.Context) (models.UserSettings, error) {
	var s models.UserSettings
	err := r.db.GetContext(ctx, &s,
		"SELECT daily_new_words, last_study_date, current_streak FROM settings WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.UserSettings{}, fmt.Errorf("failed to get settings: %w", err)
	}
	return s, nil
}

// Put persists the settings record.
func (r *SettingsRepository) Put(ctx context.Context, s models.UserSettings) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO settings (id, daily_new_words, last_study_date, current_streak)
		VALUES (1, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			daily_new_words = excluded.daily_new_words,
			last_study_date = excluded.last_study_date,
			current_streak = excluded.current_streak`),
		s.DailyNewWords, s.LastStudyDate, s.CurrentStreak)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
