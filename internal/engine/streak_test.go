package engine

import (
	"testing"
	"time"

	"echoverse/internal/models"
)

func entryOn(t *testing.T, day time.Time, hour int) models.JournalEntry {
	t.Helper()
	return models.JournalEntry{
		Date: time.Date(day.Year(), day.Month(), day.Day(), hour, 30, 0, 0, day.Location()),
		Note: "note",
		AnalysisResult: models.AnalysisResult{
			DetectedMood: models.MoodNeutral,
			Rating:       5,
		},
	}
}

func TestStreak_EmptyHistory(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)
	if got := Streak(nil, now); got != 0 {
		t.Errorf("expected 0 for empty history, got %d", got)
	}
}

func TestStreak_BrokenWhenLastEntryTooOld(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)
	history := []models.JournalEntry{
		entryOn(t, now.AddDate(0, 0, -2), 9),
		entryOn(t, now.AddDate(0, 0, -3), 9),
	}
	if got := Streak(history, now); got != 0 {
		t.Errorf("expected broken streak, got %d", got)
	}
}

func TestStreak_ConsecutiveDays(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)
	history := []models.JournalEntry{
		entryOn(t, now, 8),
		entryOn(t, now.AddDate(0, 0, -1), 21),
		entryOn(t, now.AddDate(0, 0, -2), 14),
	}
	if got := Streak(history, now); got != 3 {
		t.Errorf("expected streak 3, got %d", got)
	}
}

func TestStreak_GapStopsCount(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)
	history := []models.JournalEntry{
		entryOn(t, now, 8),
		entryOn(t, now.AddDate(0, 0, -2), 14),
	}
	if got := Streak(history, now); got != 1 {
		t.Errorf("expected streak 1 across a gap, got %d", got)
	}
}

func TestStreak_AnchoredToYesterday(t *testing.T) {
	now := time.Date(2025, 6, 10, 7, 0, 0, 0, time.Local)
	history := []models.JournalEntry{
		entryOn(t, now.AddDate(0, 0, -1), 22),
		entryOn(t, now.AddDate(0, 0, -2), 22),
	}
	if got := Streak(history, now); got != 2 {
		t.Errorf("expected streak 2 anchored to yesterday, got %d", got)
	}
}

func TestStreak_MultipleEntriesSameDayCountOnce(t *testing.T) {
	now := time.Date(2025, 6, 10, 23, 0, 0, 0, time.Local)
	history := []models.JournalEntry{
		entryOn(t, now, 7),
		entryOn(t, now, 12),
		entryOn(t, now, 19),
		entryOn(t, now.AddDate(0, 0, -1), 12),
	}
	if got := Streak(history, now); got != 2 {
		t.Errorf("expected streak 2, got %d", got)
	}
}

func TestStreak_UnorderedHistory(t *testing.T) {
	// Save order is not timestamp order when the clock changes.
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)
	history := []models.JournalEntry{
		entryOn(t, now.AddDate(0, 0, -1), 9),
		entryOn(t, now, 9),
		entryOn(t, now.AddDate(0, 0, -2), 9),
	}
	if got := Streak(history, now); got != 3 {
		t.Errorf("expected streak 3 regardless of save order, got %d", got)
	}
}

func TestStreak_SkipsZeroDates(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.Local)
	history := []models.JournalEntry{
		{},
		entryOn(t, now, 9),
	}
	if got := Streak(history, now); got != 1 {
		t.Errorf("expected zero-date entries ignored, got %d", got)
	}
}

func TestStreak_WesternTimezoneDayBoundary(t *testing.T) {
	// 2025-06-10 02:00 UTC is still 2025-06-09 in UTC-8. Day identity must
	// come from the evaluation location, not UTC.
	loc := time.FixedZone("UTC-8", -8*60*60)
	now := time.Date(2025, 6, 9, 20, 0, 0, 0, loc)
	history := []models.JournalEntry{
		{Date: time.Date(2025, 6, 10, 2, 0, 0, 0, time.UTC), Note: "late entry"},
	}
	if got := Streak(history, now); got != 1 {
		t.Errorf("expected streak 1 with local-day anchoring, got %d", got)
	}
}
