package models

import "time"

// Status describes where a word is in the learning lifecycle.
type Status string

const (
	StatusNew      Status = "new"
	StatusLearning Status = "learning"
	StatusMastered Status = "mastered"
)

// Confidence is the user-reported recall strength for a single review.
type Confidence string

const (
	ConfidenceUnknown Confidence = "unknown"
	ConfidenceFuzzy   Confidence = "fuzzy"
	ConfidenceKnown   Confidence = "known"
)

// LearningProgress tracks the review state of a single word. At most one
// record exists per word: it is created on the first response and mutated
// on every subsequent one. Only the latest state is kept.
type LearningProgress struct {
	WordID       string     `json:"wordId" db:"word_id"`
	VocabID      string     `json:"vocabId" db:"vocab_id"`
	Status       Status     `json:"status" db:"status"`
	LastReviewed time.Time  `json:"lastReviewed" db:"last_reviewed"`
	NextReview   time.Time  `json:"nextReview" db:"next_review"`
	ReviewCount  int        `json:"reviewCount" db:"review_count"`
	Confidence   Confidence `json:"confidence" db:"confidence"`
}

// Due reports whether the word should be presented for review at t.
func (p LearningProgress) Due(t time.Time) bool {
	return !p.NextReview.After(t)
}
