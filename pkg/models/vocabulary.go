package models

import "time"

// Vocabulary is a named, user-created collection of words. Words keep the
// order they were added in.
type Vocabulary struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	Words       []Word    `json:"words" db:"-"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}
