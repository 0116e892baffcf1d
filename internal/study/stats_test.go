package study

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabtrainer/pkg/models"
)

func TestSummary(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	vocab := seedVocabulary(t, store, "v1", 6)

	put := func(wordID string, status models.Status) {
		require.NoError(t, store.Progress.Upsert(ctx, &models.LearningProgress{
			WordID:       wordID,
			VocabID:      "v1",
			Status:       status,
			LastReviewed: fixedNow(),
			NextReview:   fixedNow().Add(24 * time.Hour),
			ReviewCount:  3,
			Confidence:   models.ConfidenceKnown,
		}))
	}
	put(vocab.Words[0].ID, models.StatusMastered)
	put(vocab.Words[1].ID, models.StatusMastered)
	put(vocab.Words[2].ID, models.StatusLearning)

	require.NoError(t, store.Stats.Upsert(ctx, &models.DailyStats{
		Date: models.DateKey(fixedNow()), NewWordsLearned: 4, WordsReviewed: 6, Streak: 2,
	}))

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, summary.TotalWords)
	assert.Equal(t, 2, summary.MasteredWords)
	assert.Equal(t, 1, summary.LearningWords)
	// Three words were never studied and count as new.
	assert.Equal(t, 3, summary.NewWords)
	assert.Equal(t, 10, summary.TodayActivity)
	assert.Equal(t, 2, summary.CurrentStreak)
}

func TestSummaryStreakZeroWithoutTodayRecord(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seedVocabulary(t, store, "v1", 2)

	// Yesterday's streak is not carried forward speculatively.
	require.NoError(t, store.Stats.Upsert(ctx, &models.DailyStats{
		Date: models.DateKey(fixedNow().AddDate(0, 0, -1)), WordsReviewed: 5, Streak: 9,
	}))

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.CurrentStreak)
	assert.Equal(t, 0, summary.TodayActivity)
}

func TestVocabularyCompletion(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	vocab := seedVocabulary(t, store, "v1", 4)
	empty := &models.Vocabulary{
		ID:        "v2",
		Name:      "Empty",
		CreatedAt: fixedNow(),
		UpdatedAt: fixedNow(),
	}
	require.NoError(t, store.Vocabularies.Put(ctx, empty))

	require.NoError(t, store.Progress.Upsert(ctx, &models.LearningProgress{
		WordID:       vocab.Words[0].ID,
		VocabID:      "v1",
		Status:       models.StatusMastered,
		LastReviewed: fixedNow(),
		NextReview:   fixedNow().Add(24 * time.Hour),
		ReviewCount:  3,
		Confidence:   models.ConfidenceKnown,
	}))

	completions, err := svc.VocabularyCompletion(ctx)
	require.NoError(t, err)
	require.Len(t, completions, 2)

	assert.Equal(t, "v1", completions[0].VocabID)
	assert.Equal(t, 4, completions[0].TotalWords)
	assert.Equal(t, 1, completions[0].MasteredWords)
	assert.InDelta(t, 25.0, completions[0].CompletionPercent, 0.001)

	// Zero-guarded: an empty vocabulary reports 0%, not NaN.
	assert.Equal(t, "v2", completions[1].VocabID)
	assert.Equal(t, 0.0, completions[1].CompletionPercent)
}

func TestHistoryNewestFirst(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	for _, date := range []string{"2024-05-08", "2024-05-10", "2024-05-09"} {
		require.NoError(t, store.Stats.Upsert(ctx, &models.DailyStats{Date: date, WordsReviewed: 1, Streak: 1}))
	}

	history, err := svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "2024-05-10", history[0].Date)
	assert.Equal(t, "2024-05-09", history[1].Date)
	assert.Equal(t, "2024-05-08", history[2].Date)
}
