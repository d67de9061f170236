package engine

import (
	"sort"
	"time"

	"echoverse/internal/models"
)

// Streak returns the number of consecutive calendar days, counting backward
// from the most recent distinct day, that contain at least one entry. The
// streak is 0 unless the most recent entry day is today or yesterday
// relative to now.
//
// Day identity is taken in now's location. Anchoring to local midnight is a
// hard contract: truncating in UTC shifts the day for timezones west of UTC.
func Streak(history []models.JournalEntry, now time.Time) int {
	days := distinctDays(history, now.Location())
	if len(days) == 0 {
		return 0
	}

	today := localMidnight(now, now.Location())
	yesterday := today.AddDate(0, 0, -1)
	if !days[0].Equal(today) && !days[0].Equal(yesterday) {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if !days[i-1].AddDate(0, 0, -1).Equal(days[i]) {
			break
		}
		streak++
	}
	return streak
}

// distinctDays reduces the history to unique local calendar days, newest
// first. Entries without a usable timestamp are skipped.
func distinctDays(history []models.JournalEntry, loc *time.Location) []time.Time {
	sorted := make([]models.JournalEntry, 0, len(history))
	for _, entry := range history {
		if entry.Date.IsZero() {
			continue
		}
		sorted = append(sorted, entry)
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})

	var days []time.Time
	for _, entry := range sorted {
		day := localMidnight(entry.Date, loc)
		if len(days) == 0 || !days[len(days)-1].Equal(day) {
			days = append(days, day)
		}
	}
	return days
}

func localMidnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
