package study

import (
	"context"
	"errors"

	"github.com/example/vocabtrainer/pkg/models"
)

// ErrSessionDone is returned by Respond once every card has been answered.
var ErrSessionDone = errors.New("session has no cards left")

// Card pairs a word with its progress record. Progress is nil for words
// that have never been studied.
type Card struct {
	Word     models.Word
	Progress *models.LearningProgress
}

// Session is an in-memory cursor over the cards selected for one sitting.
// Cards are presented one at a time; the cursor only advances after a
// response has been fully persisted, so a failed write leaves the same
// card current for a retry.
type Session struct {
	svc    *Service
	kind   SessionKind
	cards  []Card
	cursor int
}

func newSession(svc *Service, kind SessionKind, cards []Card) *Session {
	return &Session{svc: svc, kind: kind, cards: cards}
}

// Kind reports whether this is a learning or a review session.
func (s *Session) Kind() SessionKind { return s.kind }

// Len returns the total number of cards in the session.
func (s *Session) Len() int { return len(s.cards) }

// Remaining returns the number of cards not yet answered.
func (s *Session) Remaining() int { return len(s.cards) - s.cursor }

// Done reports whether every card has been answered.
func (s *Session) Done() bool { return s.cursor >= len(s.cards) }

// Current returns the card to present, or false when the session is done.
func (s *Session) Current() (Card, bool) {
	if s.Done() {
		return Card{}, false
	}
	return s.cards[s.cursor], true
}

// Respond records a confidence response for the current card and advances
// to the next one. On a store failure the cursor stays put.
func (s *Session) Respond(ctx context.Context, confidence models.Confidence) (*models.LearningProgress, error) {
	card, ok := s.Current()
	if !ok {
		return nil, ErrSessionDone
	}
	p, err := s.svc.RecordResponse(ctx, card.Word, confidence, s.kind)
	if err != nil {
		return nil, err
	}
	s.cursor++
	return p, nil
}
