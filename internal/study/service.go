// Package study implements the learning and review use-cases on top of the
// store and the SRS scheduler: selecting cards for a session, recording
// confidence responses and rolling up progress statistics.
package study

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/example/vocabtrainer/internal/database"
	"github.com/example/vocabtrainer/internal/srs"
	"github.com/example/vocabtrainer/pkg/models"
)

// VocabularyStore is the vocabulary access the study service needs.
type VocabularyStore interface {
	List(ctx context.Context) ([]models.Vocabulary, error)
}

// ProgressStore is the progress access the study service needs.
type ProgressStore interface {
	Get(ctx context.Context, wordID string) (*models.LearningProgress, error)
	Upsert(ctx context.Context, p *models.LearningProgress) error
	ListAll(ctx context.Context) ([]models.LearningProgress, error)
	ListDue(ctx context.Context, asOf time.Time) ([]models.LearningProgress, error)
	CountByStatus(ctx context.Context) (map[models.Status]int, error)
	MasteredCountByVocab(ctx context.Context, vocabID string) (int, error)
}

// StatsStore is the daily stats access the study service needs.
type StatsStore interface {
	Get(ctx context.Context, date string) (*models.DailyStats, error)
	Upsert(ctx context.Context, s *models.DailyStats) error
	ListAll(ctx context.Context) ([]models.DailyStats, error)
}

// SettingsStore is the settings access the study service needs.
type SettingsStore interface {
	Get(ctx context.Context) (models.UserSettings, error)
}

// SessionKind distinguishes which daily counter a response feeds.
type SessionKind string

const (
	// SessionLearning introduces new words up to the daily quota.
	SessionLearning SessionKind = "learning"
	// SessionReview re-presents words whose next review is due.
	SessionReview SessionKind = "review"
)

// Service runs study sessions against the store and the scheduler.
type Service struct {
	vocabs   VocabularyStore
	progress ProgressStore
	stats    StatsStore
	settings SettingsStore
	srs      *srs.Scheduler

	now func() time.Time
}

// NewService creates a study service. The scheduler may be nil, in which
// case the default ladders are used.
func NewService(
	vocabs VocabularyStore,
	progress ProgressStore,
	stats StatsStore,
	settings SettingsStore,
	scheduler *srs.Scheduler,
) *Service {
	if scheduler == nil {
		scheduler = srs.New()
	}
	return &Service{
		vocabs:   vocabs,
		progress: progress,
		stats:    stats,
		settings: settings,
		srs:      scheduler,
		now:      time.Now,
	}
}

// StartLearningSession selects new words up to the remaining daily quota,
// in their insertion order across vocabularies. The session is empty when
// the quota is exhausted or no new words are left.
func (s *Service) StartLearningSession(ctx context.Context) (*Session, error) {
	vocabs, err := s.vocabs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabularies: %w", err)
	}
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	learnedToday := 0
	today, err := s.stats.Get(ctx, models.DateKey(s.now()))
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("failed to load today's stats: %w", err)
	}
	if today != nil {
		learnedToday = today.NewWordsLearned
	}

	quota := settings.DailyNewWords - learnedToday
	if quota <= 0 {
		return newSession(s, SessionLearning, nil), nil
	}

	records, err := s.progress.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	studied := make(map[string]models.Status, len(records))
	for _, p := range records {
		studied[p.WordID] = p.Status
	}

	var cards []Card
	for _, vocab := range vocabs {
		for _, w := range vocab.Words {
			if status, ok := studied[w.ID]; ok && status != models.StatusNew {
				continue
			}
			cards = append(cards, Card{Word: w})
			if len(cards) == quota {
				return newSession(s, SessionLearning, cards), nil
			}
		}
	}
	return newSession(s, SessionLearning, cards), nil
}

// StartReviewSession collects all due words in the store's next-review
// order. Progress records whose word no longer exists in any vocabulary
// are skipped.
func (s *Service) StartReviewSession(ctx context.Context) (*Session, error) {
	due, err := s.progress.ListDue(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to load due words: %w", err)
	}
	vocabs, err := s.vocabs.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load vocabularies: %w", err)
	}

	// First vocabulary containing a word id wins.
	wordsByID := make(map[string]models.Word)
	for _, vocab := range vocabs {
		for _, w := range vocab.Words {
			if _, ok := wordsByID[w.ID]; !ok {
				wordsByID[w.ID] = w
			}
		}
	}

	var cards []Card
	for i := range due {
		w, ok := wordsByID[due[i].WordID]
		if !ok {
			continue
		}
		cards = append(cards, Card{Word: w, Progress: &due[i]})
	}
	return newSession(s, SessionReview, cards), nil
}

// RecordResponse applies one confidence response to a word: it updates the
// progress record through the scheduler and bumps today's activity
// counter. Exactly one progress upsert and one stats upsert happen per
// call; if either fails the error is returned and the caller must not
// advance its session.
func (s *Service) RecordResponse(ctx context.Context, word models.Word, confidence models.Confidence, kind SessionKind) (*models.LearningProgress, error) {
	p, err := s.progress.Get(ctx, word.ID)
	if errors.Is(err, database.ErrNotFound) {
		p = &models.LearningProgress{
			WordID:  word.ID,
			VocabID: word.VocabID,
			Status:  models.StatusNew,
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}

	now := s.now()
	// The interval ladder is indexed by the count before this response,
	// while the status threshold sees the incremented count.
	prevCount := p.ReviewCount
	p.Confidence = confidence
	p.LastReviewed = now
	p.ReviewCount++
	p.NextReview = s.srs.NextReview(now, confidence, prevCount)
	p.Status = s.srs.Status(p.ReviewCount, confidence)

	if err := s.progress.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}

	if err := s.bumpDailyStats(ctx, now, kind); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) bumpDailyStats(ctx context.Context, now time.Time, kind SessionKind) error {
	today := models.DateKey(now)
	stats, err := s.stats.Get(ctx, today)
	switch {
	case errors.Is(err, database.ErrNotFound):
		stats = &models.DailyStats{Date: today, Streak: 1}
		if kind == SessionReview {
			// A review opening the day continues yesterday's streak;
			// a learning session restarts it at 1.
			yesterday, err := s.stats.Get(ctx, models.DateKey(now.AddDate(0, 0, -1)))
			if err != nil && !errors.Is(err, database.ErrNotFound) {
				return fmt.Errorf("failed to load yesterday's stats: %w", err)
			}
			if yesterday != nil {
				stats.Streak = yesterday.Streak + 1
			}
		}
	case err != nil:
		return fmt.Errorf("failed to load today's stats: %w", err)
	}

	if kind == SessionLearning {
		stats.NewWordsLearned++
	} else {
		stats.WordsReviewed++
	}

	if err := s.stats.Upsert(ctx, stats); err != nil {
		return fmt.Errorf("failed to save today's stats: %w", err)
	}
	return nil
}
