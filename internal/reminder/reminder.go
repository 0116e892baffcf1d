// Package reminder runs the daily due-word notification job. It only
// reads counts and notifies; all study state changes stay user-driven.
package reminder

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/vocabtrainer/pkg/models"
)

// Default window within which reminders may be sent.
const (
	DefaultStartHour = 8
	DefaultEndHour   = 22
)

// Notifier delivers a reminder about due words.
type Notifier interface {
	NotifyDueWords(count int) error
}

// DueCounter is the progress access the reminder needs.
type DueCounter interface {
	ListDue(ctx context.Context, asOf time.Time) ([]models.LearningProgress, error)
}

// Reminder checks hourly for due words and notifies at most once per day,
// inside the configured hour window.
type Reminder struct {
	scheduler *gocron.Scheduler
	progress  DueCounter
	notifier  Notifier
	startHour int
	endHour   int

	lastNotified string
}

// New creates a reminder. Hours outside [0,23] fall back to the defaults.
func New(progress DueCounter, notifier Notifier, startHour, endHour int) *Reminder {
	if startHour < 0 || startHour > 23 {
		startHour = DefaultStartHour
	}
	if endHour < 0 || endHour > 23 {
		endHour = DefaultEndHour
	}
	return &Reminder{
		scheduler: gocron.NewScheduler(time.Local),
		progress:  progress,
		notifier:  notifier,
		startHour: startHour,
		endHour:   endHour,
	}
}

// Start begins the hourly check in the background.
func (r *Reminder) Start() {
	r.scheduler.Every(1).Hour().Do(r.checkAndNotify)
	r.scheduler.StartAsync()
}

// Stop terminates the scheduled job.
func (r *Reminder) Stop() {
	r.scheduler.Stop()
}

func (r *Reminder) checkAndNotify() {
	now := time.Now()
	if now.Hour() < r.startHour || now.Hour() > r.endHour {
		return
	}
	if r.lastNotified == models.DateKey(now) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	due, err := r.progress.ListDue(ctx, now)
	if err != nil {
		log.Printf("reminder: failed to count due words: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}

	if err := r.notifier.NotifyDueWords(len(due)); err != nil {
		log.Printf("reminder: failed to send notification: %v", err)
		return
	}
	r.lastNotified = models.DateKey(now)
}
