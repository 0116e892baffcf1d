package models

// UserSettings is the single process-wide settings record. LastStudyDate
// and CurrentStreak are legacy fields kept for storage compatibility; the
// streak shown to the user comes from DailyStats.
type UserSettings struct {
	DailyNewWords int    `json:"dailyNewWords" db:"daily_new_words"`
	LastStudyDate string `json:"lastStudyDate" db:"last_study_date"`
	CurrentStreak int    `json:"currentStreak" db:"current_streak"`
}

// DefaultSettings returns the settings assumed before anything is persisted.
func DefaultSettings() UserSettings {
	return UserSettings{DailyNewWords: 15}
}
