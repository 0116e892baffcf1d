package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/vocabtrainer/pkg/models"
)

const day = 24 * time.Hour

func TestInterval_Unknown(t *testing.T) {
	s := New()
	for _, count := range []int{0, 1, 2, 3, 10, 100} {
		assert.Equal(t, 10*time.Minute, s.Interval(models.ConfidenceUnknown, count),
			"review count %d", count)
	}
}

func TestInterval_FuzzyLadder(t *testing.T) {
	s := New()
	testCases := []struct {
		reviewCount int
		want        time.Duration
	}{
		{0, time.Hour},
		{1, 4 * time.Hour},
		{2, day},
		{3, 3 * day},
		{4, 3 * day},
		{17, 3 * day},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, s.Interval(models.ConfidenceFuzzy, tc.reviewCount),
			"review count %d", tc.reviewCount)
	}
}

func TestInterval_KnownLadder(t *testing.T) {
	s := New()
	testCases := []struct {
		reviewCount int
		want        time.Duration
	}{
		{0, day},
		{1, 3 * day},
		{2, 7 * day},
		{3, 14 * day},
		{4, 30 * day},
		{5, 30 * day},
		{42, 30 * day},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, s.Interval(models.ConfidenceKnown, tc.reviewCount),
			"review count %d", tc.reviewCount)
	}
}

func TestNextReview(t *testing.T) {
	s := New()
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

	got := s.NextReview(now, models.ConfidenceUnknown, 7)
	require.Equal(t, now.Add(10*time.Minute), got)

	got = s.NextReview(now, models.ConfidenceKnown, 0)
	require.Equal(t, now.Add(day), got)
}

func TestStatus(t *testing.T) {
	s := New()
	testCases := []struct {
		name        string
		reviewCount int
		confidence  models.Confidence
		want        models.Status
	}{
		{"zero count is new regardless of confidence", 0, models.ConfidenceKnown, models.StatusNew},
		{"zero count with unknown", 0, models.ConfidenceUnknown, models.StatusNew},
		{"known below threshold", 1, models.ConfidenceKnown, models.StatusLearning},
		{"known just below threshold", 2, models.ConfidenceKnown, models.StatusLearning},
		{"known at threshold", 3, models.ConfidenceKnown, models.StatusMastered},
		{"known above threshold", 9, models.ConfidenceKnown, models.StatusMastered},
		{"fuzzy never masters", 12, models.ConfidenceFuzzy, models.StatusLearning},
		{"unknown never masters", 12, models.ConfidenceUnknown, models.StatusLearning},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.Status(tc.reviewCount, tc.confidence))
		})
	}
}
