package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabtrainer/pkg/models"
)

// ProgressRepository handles database operations for learning progress.
// Records are keyed by word id; the word_id, vocab_id, next_review and
// status columns are indexed for the session queries.
type ProgressRepository struct {
	db *sqlx.DB
}

// NewProgressRepository creates a new repository instance.
func NewProgressRepository(db *sqlx.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Get returns the progress record for a word, or ErrNotFound if the word
// has never been studied.
func (r *ProgressRepository) Get(ctx context.Context, wordID string) (*models.LearningProgress, error) {
	var p models.LearningProgress
	err := r.db.GetContext(ctx, &p,
		r.db.Rebind("SELECT * FROM progress WHERE word_id = ?"), wordID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}
	return &p, nil
}

// Upsert inserts or replaces the progress record for a word.
func (r *ProgressRepository) Upsert(ctx context.Context, p *models.LearningProgress) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO progress (word_id, vocab_id, status, last_reviewed, next_review, review_count, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (word_id) DO UPDATE SET
			vocab_id = excluded.vocab_id,
			status = excluded.status,
			last_reviewed = excluded.last_reviewed,
			next_review = excluded.next_review,
			review_count = excluded.review_count,
			confidence = excluded.confidence`),
		p.WordID, p.VocabID, p.Status, p.LastReviewed.UTC(), p.NextReview.UTC(), p.ReviewCount, p.Confidence)
	if err != nil {
		return fmt.Errorf("failed to upsert progress: %w", err)
	}
	return nil
}

// ListAll returns every progress record.
func (r *ProgressRepository) ListAll(ctx context.Context) ([]models.LearningProgress, error) {
	var records []models.LearningProgress
	if err := r.db.SelectContext(ctx, &records, "SELECT * FROM progress"); err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}
	return records, nil
}

// ListByVocab returns progress records for words of one vocabulary.
func (r *ProgressRepository) ListByVocab(ctx context.Context, vocabID string) ([]models.LearningProgress, error) {
	var records []models.LearningProgress
	err := r.db.SelectContext(ctx, &records,
		r.db.Rebind("SELECT * FROM progress WHERE vocab_id = ?"), vocabID)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress by vocabulary: %w", err)
	}
	return records, nil
}

// ListDue returns all records whose next review is at or before asOf,
// ordered by ascending next_review.
func (r *ProgressRepository) ListDue(ctx context.Context, asOf time.Time) ([]models.LearningProgress, error) {
	var records []models.LearningProgress
	err := r.db.SelectContext(ctx, &records,
		r.db.Rebind("SELECT * FROM progress WHERE next_review <= ? ORDER BY next_review"), asOf.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list due progress: %w", err)
	}
	return records, nil
}

// CountByStatus returns how many progress records are in each status.
func (r *ProgressRepository) CountByStatus(ctx context.Context) (map[models.Status]int, error) {
	rows := []struct {
		Status models.Status `db:"status"`
		Count  int           `db:"count"`
	}{}
	err := r.db.SelectContext(ctx, &rows,
		"SELECT status, COUNT(*) AS count FROM progress GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("failed to count progress by status: %w", err)
	}
	counts := make(map[models.Status]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// MasteredCountByVocab returns the number of mastered words in a vocabulary.
func (r *ProgressRepository) MasteredCountByVocab(ctx context.Context, vocabID string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		r.db.Rebind("SELECT COUNT(*) FROM progress WHERE vocab_id = ? AND status = ?"),
		vocabID, models.StatusMastered)
	if err != nil {
		return 0, fmt.Errorf("failed to count mastered words: %w", err)
	}
	return count, nil
}
