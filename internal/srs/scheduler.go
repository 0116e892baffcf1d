// Package srs implements the spaced-repetition scheduling rules: fixed
// interval ladders selected by recall confidence and a bounded review
// counter. The functions are pure; callers supply the current time.
package srs

import (
	"time"

	"github.com/example/vocabtrainer/pkg/models"
)

// Scheduler computes review intervals and learning statuses from a
// confidence response and a review count. Unlike SM-2 style algorithms
// there is no per-item tuning: the same ladders apply to every word.
type Scheduler struct {
	// Delay before re-showing a word the user did not recall at all.
	UnknownDelay time.Duration
	// Interval ladder for fuzzy responses, indexed by review count and
	// clamped at the last rung.
	FuzzyIntervals []time.Duration
	// Interval ladder for known responses, same indexing rule.
	KnownIntervals []time.Duration
	// Reviews required before a known response marks a word mastered.
	MasteryThreshold int
}

// New returns a scheduler with the default ladders.
func New() *Scheduler {
	return &Scheduler{
		UnknownDelay: 10 * time.Minute,
		FuzzyIntervals: []time.Duration{
			time.Hour,
			4 * time.Hour,
			24 * time.Hour,
			3 * 24 * time.Hour,
		},
		KnownIntervals: []time.Duration{
			24 * time.Hour,
			3 * 24 * time.Hour,
			7 * 24 * time.Hour,
			14 * 24 * time.Hour,
			30 * 24 * time.Hour,
		},
		MasteryThreshold: 3,
	}
}

// Interval returns the delay until the next review for a response with the
// given confidence. reviewCount is the number of reviews recorded before
// this response, so a word's first response always uses ladder index 0.
func (s *Scheduler) Interval(confidence models.Confidence, reviewCount int) time.Duration {
	switch confidence {
	case models.ConfidenceUnknown:
		return s.UnknownDelay
	case models.ConfidenceFuzzy:
		return ladderAt(s.FuzzyIntervals, reviewCount)
	default:
		return ladderAt(s.KnownIntervals, reviewCount)
	}
}

// NextReview returns the timestamp of the next review for a response made
// at now. See Interval for the meaning of reviewCount.
func (s *Scheduler) NextReview(now time.Time, confidence models.Confidence, reviewCount int) time.Time {
	return now.Add(s.Interval(confidence, reviewCount))
}

// Status classifies a word after a response has been recorded. reviewCount
// here is the count including the current response; note the off-by-one
// against Interval's argument, which the orchestration layer relies on.
func (s *Scheduler) Status(reviewCount int, confidence models.Confidence) models.Status {
	if reviewCount == 0 {
		return models.StatusNew
	}
	if confidence == models.ConfidenceKnown && reviewCount >= s.MasteryThreshold {
		return models.StatusMastered
	}
	return models.StatusLearning
}

func ladderAt(ladder []time.Duration, i int) time.Duration {
	if i >= len(ladder) {
		i = len(ladder) - 1
	}
	if i < 0 {
		i = 0
	}
	return ladder[i]
}
