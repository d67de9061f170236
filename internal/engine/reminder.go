package engine

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"echoverse/internal/models"
)

const (
	defaultReminderHour = 19
	reminderTitle       = "EchoVerse Daily Journal"
)

var milestoneStreaks = map[int]bool{3: true, 7: true, 14: true, 30: true, 50: true, 100: true}

// Notifier delivers a reminder to one user.
type Notifier interface {
	Notify(userID int, title, body string)
}

// LogNotifier is the fallback delivery path when no real notification
// channel is configured.
type LogNotifier struct {
	Log *zap.Logger
}

func (n LogNotifier) Notify(userID int, title, body string) {
	n.Log.Info("mock notification",
		zap.Int("user_id", userID),
		zap.String("title", title),
		zap.String("body", body))
}

// Scheduler owns at most one outstanding reminder timer per user.
// Scheduling or cancelling always invalidates the previous arm first, so a
// reminder can never fire twice for the same day and never fires after the
// user disabled reminders — even if the timer already went off and is
// mid-delivery when Cancel runs.
//
// The history and streak passed to Schedule are captured for the lifetime of
// the arm: when the timer fires, the next day's reminder is re-armed from the
// same snapshot. Callers refresh the snapshot by calling Schedule again
// whenever the history changes.
type Scheduler struct {
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time

	mu     sync.Mutex
	gen    uint64
	timers map[int]*time.Timer
	armed  map[int]uint64
}

func NewScheduler(notifier Notifier, log *zap.Logger) *Scheduler {
	return &Scheduler{
		notifier: notifier,
		log:      log,
		now:      time.Now,
		timers:   make(map[int]*time.Timer),
		armed:    make(map[int]uint64),
	}
}

// OptimalHour infers the best local delivery hour from the user's habits:
// the most frequent entry hour, ties broken by the lowest hour. Users with
// fewer than 3 entries get the 19:00 default.
func OptimalHour(history []models.JournalEntry) int {
	if len(history) < 3 {
		return defaultReminderHour
	}
	freq := make(map[int]int)
	for _, entry := range history {
		freq[entry.Date.In(time.Local).Hour()]++
	}
	best := -1
	for hour := 0; hour < 24; hour++ {
		if best < 0 || freq[hour] > freq[best] {
			best = hour
		}
	}
	return best
}

// PersonalizedMessage picks the reminder body for the given streak.
func PersonalizedMessage(streak int) string {
	if milestoneStreaks[streak] {
		return fmt.Sprintf("You've hit a %d-day streak! 🎉 That's amazing consistency. Keep the momentum going!", streak)
	}
	switch {
	case streak > 10:
		return fmt.Sprintf("You're on a %d-day streak! Incredible job prioritizing your well-being.", streak)
	case streak > 3:
		return fmt.Sprintf("You're on a %d-day streak! Keep building this healthy habit.", streak)
	default:
		return "What's on your mind? Take a moment for yourself and record a new Echo."
	}
}

// Schedule arms a one-shot reminder for the user at the inferred hour today,
// rolled to tomorrow if that moment has already passed, and returns the fire
// time. Any previously armed reminder for the same user is cancelled.
func (s *Scheduler) Schedule(userID int, history []models.JournalEntry, streak int) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(userID)
	fireAt := s.armLocked(userID, history, streak)
	s.log.Info("smart reminder scheduled",
		zap.Int("user_id", userID),
		zap.String("fire_at", fireAt.Format("3:04 PM")))
	return fireAt
}

func (s *Scheduler) armLocked(userID int, history []models.JournalEntry, streak int) time.Time {
	hour := OptimalHour(history)
	message := PersonalizedMessage(streak)

	now := s.now()
	fireAt := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !fireAt.After(now) {
		fireAt = fireAt.AddDate(0, 0, 1)
	}

	// Each arm gets a fresh generation. The fired callback re-checks it under
	// the lock: a Cancel or replacing Schedule between fire and delivery wins.
	s.gen++
	gen := s.gen
	s.armed[userID] = gen
	s.timers[userID] = time.AfterFunc(fireAt.Sub(now), func() {
		s.mu.Lock()
		if s.armed[userID] != gen {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		s.notifier.Notify(userID, reminderTitle, message)

		// Re-arm for the next day from the captured snapshot, unless the
		// reminder was cancelled or replaced while delivering.
		s.mu.Lock()
		if s.armed[userID] == gen {
			s.armLocked(userID, history, streak)
		}
		s.mu.Unlock()
	})
	return fireAt
}

// TestNotification delivers a sample reminder to the user immediately.
func (s *Scheduler) TestNotification(userID int) {
	s.notifier.Notify(userID, "EchoVerse Test Notification",
		"This is how your daily reminder will look. Keep up the great work!")
}

// Cancel stops the user's outstanding reminder, if any. A timer that already
// fired but has not delivered yet is cancelled too.
func (s *Scheduler) Cancel(userID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.armed[userID]; ok {
		s.log.Info("reminders cancelled", zap.Int("user_id", userID))
	}
	delete(s.armed, userID)
	s.stopLocked(userID)
}

// Shutdown stops every outstanding reminder.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, timer := range s.timers {
		timer.Stop()
		delete(s.timers, userID)
	}
	for userID := range s.armed {
		delete(s.armed, userID)
	}
}

func (s *Scheduler) stopLocked(userID int) {
	if timer := s.timers[userID]; timer != nil {
		timer.Stop()
		delete(s.timers, userID)
	}
}
