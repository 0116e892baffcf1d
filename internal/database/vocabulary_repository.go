package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/vocabtrainer/pkg/models"
)

// VocabularyRepository handles database operations for vocabularies and
// the words they own.
type VocabularyRepository struct {
	db *sqlx.DB
}

// NewVocabularyRepository creates a new repository instance.
func NewVocabularyRepository(db *sqlx.DB) *VocabularyRepository {
	return &VocabularyRepository{db: db}
}

// List returns all vocabularies with their words, in creation order.
func (r *VocabularyRepository) List(ctx context.Context) ([]models.Vocabulary, error) {
	var vocabs []models.Vocabulary
	err := r.db.SelectContext(ctx, &vocabs,
		"SELECT id, name, description, created_at, updated_at FROM vocabularies ORDER BY created_at, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list vocabularies: %w", err)
	}
	for i := range vocabs {
		words, err := r.wordsByVocab(ctx, vocabs[i].ID)
		if err != nil {
			return nil, err
		}
		vocabs[i].Words = words
	}
	return vocabs, nil
}

// Get returns a vocabulary with its words, or ErrNotFound.
func (r *VocabularyRepository) Get(ctx context.Context, id string) (*models.Vocabulary, error) {
	var vocab models.Vocabulary
	err := r.db.GetContext(ctx, &vocab,
		r.db.Rebind("SELECT id, name, description, created_at, updated_at FROM vocabularies WHERE id = ?"), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vocabulary: %w", err)
	}
	words, err := r.wordsByVocab(ctx, id)
	if err != nil {
		return nil, err
	}
	vocab.Words = words
	return &vocab, nil
}

// Put upserts a vocabulary together with its word list. The stored word
// set is replaced wholesale so the word order follows the slice order.
func (r *VocabularyRepository) Put(ctx context.Context, vocab *models.Vocabulary) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO vocabularies (id, name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			updated_at = excluded.updated_at`),
		vocab.ID, vocab.Name, vocab.Description, vocab.CreatedAt.UTC(), vocab.UpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to upsert vocabulary: %w", err)
	}

	_, err = tx.ExecContext(ctx, tx.Rebind("DELETE FROM words WHERE vocab_id = ?"), vocab.ID)
	if err != nil {
		return fmt.Errorf("failed to clear vocabulary words: %w", err)
	}

	insert := tx.Rebind(`
		INSERT INTO words (id, vocab_id, term, translation, phonetic, example, tags, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	for i, w := range vocab.Words {
		_, err = tx.ExecContext(ctx, insert,
			w.ID, vocab.ID, w.Term, w.Translation, w.Phonetic, w.Example, w.Tags, i, w.CreatedAt.UTC())
		if err != nil {
			return fmt.Errorf("failed to insert word %q: %w", w.Term, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit vocabulary: %w", err)
	}
	return nil
}

// Delete removes a vocabulary and its words. Progress records referencing
// the deleted words are left in place.
func (r *VocabularyRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind("DELETE FROM vocabularies WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete vocabulary: %w", err)
	}
	return nil
}

// TotalWordCount returns the number of words across all vocabularies.
func (r *VocabularyRepository) TotalWordCount(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM words"); err != nil {
		return 0, fmt.Errorf("failed to count words: %w", err)
	}
	return count, nil
}

func (r *VocabularyRepository) wordsByVocab(ctx context.Context, vocabID string) ([]models.Word, error) {
	var words []models.Word
	err := r.db.SelectContext(ctx, &words, r.db.Rebind(`
		SELECT id, vocab_id, term, translation, phonetic, example, tags, created_at
		FROM words WHERE vocab_id = ? ORDER BY position`), vocabID)
	if err != nil {
		return nil, fmt.Errorf("failed to get words for vocabulary: %w", err)
	}
	return words, nil
}
