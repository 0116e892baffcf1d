package study

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabtrainer/internal/database"
	"github.com/example/vocabtrainer/internal/srs"
	"github.com/example/vocabtrainer/pkg/models"
)

func fixedNow() time.Time {
	return time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T) (*Service, *database.Store) {
	t.Helper()
	store, err := database.Open(database.Config{Driver: "sqlite3", DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	svc := NewService(store.Vocabularies, store.Progress, store.Stats, store.Settings, srs.New())
	svc.now = fixedNow
	return svc, store
}

func seedVocabulary(t *testing.T, store *database.Store, id string, wordCount int) *models.Vocabulary {
	t.Helper()
	now := fixedNow().Add(-24 * time.Hour)
	vocab := &models.Vocabulary{
		ID:        id,
		Name:      "Vocabulary " + id,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i := 0; i < wordCount; i++ {
		vocab.Words = append(vocab.Words, models.Word{
			ID:          fmt.Sprintf("%s-w%02d", id, i),
			VocabID:     id,
			Term:        fmt.Sprintf("term-%s-%02d", id, i),
			Translation: fmt.Sprintf("translation-%s-%02d", id, i),
			CreatedAt:   now,
		})
	}
	require.NoError(t, store.Vocabularies.Put(context.Background(), vocab))
	return vocab
}

func TestLearningSessionQuota(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	vocab := seedVocabulary(t, store, "v1", 20)

	session, err := svc.StartLearningSession(ctx)
	require.NoError(t, err)
	require.Equal(t, 15, session.Len(), "default quota is 15")

	// The first 15 words in insertion order.
	for i := 0; i < 15; i++ {
		card, ok := session.Current()
		require.True(t, ok)
		assert.Equal(t, vocab.Words[i].ID, card.Word.ID)
		_, err := session.Respond(ctx, models.ConfidenceKnown)
		require.NoError(t, err)
	}
	assert.True(t, session.Done())

	// Quota exhausted for the rest of the day.
	second, err := svc.StartLearningSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Len())
}

func TestLearningSessionCountsTodaysProgress(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seedVocabulary(t, store, "v1", 20)

	require.NoError(t, store.Stats.Upsert(ctx, &models.DailyStats{
		Date: models.DateKey(fixedNow()), NewWordsLearned: 12, Streak: 1,
	}))

	session, err := svc.StartLearningSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, session.Len())
}

func TestLearningSessionSkipsStudiedWords(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	vocab := seedVocabulary(t, store, "v1", 5)

	_, err := svc.RecordResponse(ctx, vocab.Words[0], models.ConfidenceFuzzy, SessionLearning)
	require.NoError(t, err)

	session, err := svc.StartLearningSession(ctx)
	require.NoError(t, err)
	require.Equal(t, 4, session.Len())
	card, _ := session.Current()
	assert.Equal(t, vocab.Words[1].ID, card.Word.ID)
}

func TestLearningSessionEmptyStore(t *testing.T) {
	svc, _ := newTestService(t)

	session, err := svc.StartLearningSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, session.Len())
	assert.True(t, session.Done())
}

func TestUnknownResponsesNeverMaster(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	vocab := seedVocabulary(t, store, "v1", 1)
	word := vocab.Words[0]

	var p *models.LearningProgress
	var err error
	for i := 0; i < 3; i++ {
		p, err = svc.RecordResponse(ctx, word, models.ConfidenceUnknown, SessionReview)
		require.NoError(t, err)
		// Unknown always re-queues in 10 minutes regardless of count.
		assert.Equal(t, fixedNow().Add(10*time.Minute), p.NextReview)
	}
	assert.Equal(t, 3, p.ReviewCount)
	assert.Equal(t, models.StatusLearning, p.Status)
}

func TestKnownResponsesMaster(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	vocab := seedVocabulary(t, store, "v1", 1)
	word := vocab.Words[0]

	day := 24 * time.Hour
	wantIntervals := []time.Duration{day, 3 * day, 7 * day, 14 * day}
	for i, want := range wantIntervals {
		p, err := svc.RecordResponse(ctx, word, models.ConfidenceKnown, SessionReview)
		require.NoError(t, err)
		assert.Equal(t, i+1, p.ReviewCount)
		// The interval ladder is indexed by the pre-increment count.
		assert.Equal(t, fixedNow().Add(want), p.NextReview, "response %d", i+1)
		if p.ReviewCount >= 3 {
			assert.Equal(t, models.StatusMastered, p.Status)
		} else {
			assert.Equal(t, models.StatusLearning, p.Status)
		}
	}
}

func TestFirstResponseUsesFirstRung(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	vocab := seedVocabulary(t, store, "v1", 1)

	p, err := svc.RecordResponse(ctx, vocab.Words[0], models.ConfidenceFuzzy, SessionLearning)
	require.NoError(t, err)
	assert.Equal(t, 1, p.ReviewCount)
	assert.Equal(t, fixedNow().Add(time.Hour), p.NextReview)
	assert.Equal(t, models.StatusLearning, p.Status)
	assert.True(t, p.LastReviewed.Equal(fixedNow()))
}

func TestReviewSessionOrderAndOrphanSkip(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	vocab := seedVocabulary(t, store, "v1", 3)

	now := fixedNow()
	put := func(wordID string, next time.Time) {
		require.NoError(t, store.Progress.Upsert(ctx, &models.LearningProgress{
			WordID:       wordID,
			VocabID:      "v1",
			Status:       models.StatusLearning,
			LastReviewed: now.Add(-48 * time.Hour),
			NextReview:   next,
			ReviewCount:  1,
			Confidence:   models.ConfidenceFuzzy,
		}))
	}
	put(vocab.Words[2].ID, now.Add(-time.Hour))
	put(vocab.Words[0].ID, now.Add(-3*time.Hour))
	put(vocab.Words[1].ID, now.Add(time.Hour))
	put("ghost-word", now.Add(-5*time.Hour))

	session, err := svc.StartReviewSession(ctx)
	require.NoError(t, err)
	// Due order from the store index; the orphaned record is dropped.
	require.Equal(t, 2, session.Len())
	card, _ := session.Current()
	assert.Equal(t, vocab.Words[0].ID, card.Word.ID)
	require.NotNil(t, card.Progress)
	assert.Equal(t, 1, card.Progress.ReviewCount)
}

func TestStreakSeeding(t *testing.T) {
	ctx := context.Background()
	today := models.DateKey(fixedNow())
	yesterday := models.DateKey(fixedNow().AddDate(0, 0, -1))

	t.Run("first review of the first day starts at 1", func(t *testing.T) {
		svc, store := newTestService(t)
		vocab := seedVocabulary(t, store, "v1", 1)

		_, err := svc.RecordResponse(ctx, vocab.Words[0], models.ConfidenceKnown, SessionReview)
		require.NoError(t, err)

		stats, err := store.Stats.Get(ctx, today)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Streak)
		assert.Equal(t, 1, stats.WordsReviewed)
		assert.Equal(t, 0, stats.NewWordsLearned)
	})

	t.Run("review continues yesterday's streak", func(t *testing.T) {
		svc, store := newTestService(t)
		vocab := seedVocabulary(t, store, "v1", 1)
		require.NoError(t, store.Stats.Upsert(ctx, &models.DailyStats{
			Date: yesterday, WordsReviewed: 4, Streak: 3,
		}))

		_, err := svc.RecordResponse(ctx, vocab.Words[0], models.ConfidenceKnown, SessionReview)
		require.NoError(t, err)

		stats, err := store.Stats.Get(ctx, today)
		require.NoError(t, err)
		assert.Equal(t, 4, stats.Streak)
	})

	t.Run("learning session seeds 1 even with yesterday's streak", func(t *testing.T) {
		svc, store := newTestService(t)
		vocab := seedVocabulary(t, store, "v1", 1)
		require.NoError(t, store.Stats.Upsert(ctx, &models.DailyStats{
			Date: yesterday, WordsReviewed: 4, Streak: 3,
		}))

		_, err := svc.RecordResponse(ctx, vocab.Words[0], models.ConfidenceKnown, SessionLearning)
		require.NoError(t, err)

		stats, err := store.Stats.Get(ctx, today)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Streak)
		assert.Equal(t, 1, stats.NewWordsLearned)
	})

	t.Run("existing day record only increments counters", func(t *testing.T) {
		svc, store := newTestService(t)
		vocab := seedVocabulary(t, store, "v1", 1)
		require.NoError(t, store.Stats.Upsert(ctx, &models.DailyStats{
			Date: today, NewWordsLearned: 2, WordsReviewed: 5, Streak: 7,
		}))

		_, err := svc.RecordResponse(ctx, vocab.Words[0], models.ConfidenceFuzzy, SessionReview)
		require.NoError(t, err)

		stats, err := store.Stats.Get(ctx, today)
		require.NoError(t, err)
		assert.Equal(t, 7, stats.Streak)
		assert.Equal(t, 6, stats.WordsReviewed)
		assert.Equal(t, 2, stats.NewWordsLearned)
	})
}

type failingProgress struct {
	ProgressStore
}

func (failingProgress) Upsert(context.Context, *models.LearningProgress) error {
	return fmt.Errorf("disk full")
}

func TestFailedWriteDoesNotAdvanceSession(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	seedVocabulary(t, store, "v1", 2)

	session, err := svc.StartLearningSession(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, session.Len())
	first, _ := session.Current()

	svc.progress = failingProgress{store.Progress}
	_, err = session.Respond(ctx, models.ConfidenceKnown)
	require.Error(t, err)

	// The cursor stayed put so the same card can be retried.
	current, ok := session.Current()
	require.True(t, ok)
	assert.Equal(t, first.Word.ID, current.Word.ID)
	assert.Equal(t, 2, session.Remaining())

	// Nothing was counted for today either.
	_, err = store.Stats.Get(ctx, models.DateKey(fixedNow()))
	assert.ErrorIs(t, err, database.ErrNotFound)

	svc.progress = store.Progress
	_, err = session.Respond(ctx, models.ConfidenceKnown)
	require.NoError(t, err)
	assert.Equal(t, 1, session.Remaining())
}
