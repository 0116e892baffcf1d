package study

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/vocabtrainer/internal/database"
	"github.com/example/vocabtrainer/pkg/models"
)

// Summary is the dashboard rollup over all vocabularies, progress and
// daily stats.
type Summary struct {
	TotalWords    int
	MasteredWords int
	LearningWords int
	NewWords      int
	// TodayActivity is today's learned plus reviewed count.
	TodayActivity int
	// CurrentStreak is today's recorded streak, or 0 when nothing has
	// been studied yet today.
	CurrentStreak int
}

// VocabularyCompletion reports how far one vocabulary has been mastered.
type VocabularyCompletion struct {
	VocabID           string
	Name              string
	TotalWords        int
	MasteredWords     int
	CompletionPercent float64
}

// Summary computes the dashboard totals.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	vocabs, err := s.vocabs.List(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to load vocabularies: %w", err)
	}
	total := 0
	for _, v := range vocabs {
		total += len(v.Words)
	}

	counts, err := s.progress.CountByStatus(ctx)
	if err != nil {
		return Summary{}, err
	}
	tracked := 0
	for _, n := range counts {
		tracked += n
	}

	summary := Summary{
		TotalWords:    total,
		MasteredWords: counts[models.StatusMastered],
		LearningWords: counts[models.StatusLearning],
		// Words never studied have no progress record and count as new.
		NewWords: counts[models.StatusNew] + total - tracked,
	}

	today, err := s.stats.Get(ctx, models.DateKey(s.now()))
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return Summary{}, fmt.Errorf("failed to load today's stats: %w", err)
	}
	if today != nil {
		summary.TodayActivity = today.NewWordsLearned + today.WordsReviewed
		summary.CurrentStreak = today.Streak
	}
	return summary, nil
}

// VocabularyCompletion computes per-vocabulary mastery percentages, in
// vocabulary creation order.
func (s *Service) VocabularyCompletion(ctx context.Context) ([]VocabularyCompletion, error) {
	vocabs, err := s.vocabs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabularies: %w", err)
	}
	completions := make([]VocabularyCompletion, 0, len(vocabs))
	for _, v := range vocabs {
		mastered, err := s.progress.MasteredCountByVocab(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		c := VocabularyCompletion{
			VocabID:       v.ID,
			Name:          v.Name,
			TotalWords:    len(v.Words),
			MasteredWords: mastered,
		}
		if c.TotalWords > 0 {
			c.CompletionPercent = float64(c.MasteredWords) / float64(c.TotalWords) * 100
		}
		completions = append(completions, c)
	}
	return completions, nil
}

// History returns all daily stats, newest day first.
func (s *Service) History(ctx context.Context) ([]models.DailyStats, error) {
	return s.stats.ListAll(ctx)
}
