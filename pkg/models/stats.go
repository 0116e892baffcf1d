package models

import "time"

// DateFormat is the layout used for DailyStats keys.
const DateFormat = "2006-01-02"

// DailyStats holds one calendar day's activity counters. Records are
// created lazily on the first activity of a day and only ever incremented.
type DailyStats struct {
	Date            string `json:"date" db:"date"`
	NewWordsLearned int    `json:"newWordsLearned" db:"new_words_learned"`
	WordsReviewed   int    `json:"wordsReviewed" db:"words_reviewed"`
	Streak          int    `json:"streak" db:"streak"`
}

// DateKey formats t as a DailyStats key.
func DateKey(t time.Time) string {
	return t.Format(DateFormat)
}
