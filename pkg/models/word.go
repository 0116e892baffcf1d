package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Word represents a single vocabulary entry to be learned. A word is owned
// by exactly one vocabulary and is immutable once created.
type Word struct {
	ID          string    `json:"id" db:"id"`
	VocabID     string    `json:"vocabId" db:"vocab_id"`
	Term        string    `json:"word" db:"term"`
	Translation string    `json:"translation" db:"translation"`
	Phonetic    string    `json:"phonetic,omitempty" db:"phonetic"`
	Example     string    `json:"example,omitempty" db:"example"`
	Tags        Tags      `json:"tags,omitempty" db:"tags"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// Tags is an ordered list of labels attached to a word. It is stored in a
// single text column, semicolon-separated, matching the CSV import format.
type Tags []string

// Value implements driver.Valuer.
func (t Tags) Value() (driver.Value, error) {
	if len(t) == 0 {
		return "", nil
	}
	return strings.Join(t, ";"), nil
}

// Scan implements sql.Scanner.
func (t *Tags) Scan(src interface{}) error {
	var s string
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("unsupported tags column type %T", src)
	}
	if s == "" {
		*t = nil
		return nil
	}
	*t = strings.Split(s, ";")
	return nil
}
