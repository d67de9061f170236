package engine

import (
	"testing"
	"time"

	"echoverse/internal/models"
)

func findAchievement(t *testing.T, set []Achievement, id string) Achievement {
	t.Helper()
	for _, a := range set {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("achievement %q missing from evaluated set", id)
	return Achievement{}
}

func historyOfDays(t *testing.T, days int, mood models.Mood) []models.JournalEntry {
	t.Helper()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)
	out := make([]models.JournalEntry, 0, days)
	for i := 0; i < days; i++ {
		e := entryOn(t, base.AddDate(0, 0, i), 10)
		e.DetectedMood = mood
		out = append(out, e)
	}
	return out
}

func TestAchievements_FirstEcho(t *testing.T) {
	if a := findAchievement(t, Achievements(nil, 0), "first_entry"); a.Unlocked {
		t.Error("first_entry unlocked with empty history")
	}
	history := historyOfDays(t, 1, models.MoodCalm)
	if a := findAchievement(t, Achievements(history, 1), "first_entry"); !a.Unlocked {
		t.Error("first_entry locked with one entry")
	}
}

func TestAchievements_OnFireBoundary(t *testing.T) {
	history := historyOfDays(t, 7, models.MoodCalm)
	if a := findAchievement(t, Achievements(history, 6), "streak_7"); a.Unlocked {
		t.Error("streak_7 unlocked at streak 6")
	}
	if a := findAchievement(t, Achievements(history, 7), "streak_7"); !a.Unlocked {
		t.Error("streak_7 locked at streak 7")
	}
}

func TestAchievements_MindfulMapper(t *testing.T) {
	if a := findAchievement(t, Achievements(historyOfDays(t, 4, models.MoodCalm), 0), "notetaker_5"); a.Unlocked {
		t.Error("notetaker_5 unlocked with 4 distinct days")
	}
	if a := findAchievement(t, Achievements(historyOfDays(t, 5, models.MoodCalm), 0), "notetaker_5"); !a.Unlocked {
		t.Error("notetaker_5 locked with 5 distinct days")
	}

	// Same-day entries count one day.
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local)
	var sameDay []models.JournalEntry
	for i := 0; i < 5; i++ {
		sameDay = append(sameDay, entryOn(t, day, 8+i))
	}
	if a := findAchievement(t, Achievements(sameDay, 0), "notetaker_5"); a.Unlocked {
		t.Error("notetaker_5 unlocked from 5 entries on one day")
	}
}

func TestAchievements_FullSpectrum(t *testing.T) {
	moods := []models.Mood{
		models.MoodHappy, models.MoodCalm, models.MoodSad, models.MoodAngry, models.MoodTired,
	}
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)
	var history []models.JournalEntry
	for i, m := range moods[:4] {
		e := entryOn(t, base.AddDate(0, 0, i), 10)
		e.DetectedMood = m
		history = append(history, e)
	}
	if a := findAchievement(t, Achievements(history, 0), "full_spectrum"); a.Unlocked {
		t.Error("full_spectrum unlocked with 4 moods")
	}
	e := entryOn(t, base.AddDate(0, 0, 4), 10)
	e.DetectedMood = moods[4]
	history = append(history, e)
	if a := findAchievement(t, Achievements(history, 0), "full_spectrum"); !a.Unlocked {
		t.Error("full_spectrum locked with 5 moods")
	}
}

func TestAchievements_ConsistencyKingBoundary(t *testing.T) {
	if a := findAchievement(t, Achievements(historyOfDays(t, 29, models.MoodCalm), 0), "consistency_30"); a.Unlocked {
		t.Error("consistency_30 unlocked at 29 entries")
	}
	if a := findAchievement(t, Achievements(historyOfDays(t, 30, models.MoodCalm), 0), "consistency_30"); !a.Unlocked {
		t.Error("consistency_30 locked at 30 entries")
	}
}

func TestAchievements_EvaluationIsStateless(t *testing.T) {
	history := historyOfDays(t, 30, models.MoodHappy)
	first := Achievements(history, 7)
	second := Achievements(nil, 0)
	for _, a := range second {
		if a.Unlocked {
			t.Errorf("achievement %s stayed unlocked across evaluations", a.ID)
		}
	}
	if len(first) != len(second) {
		t.Errorf("definition set changed size: %d vs %d", len(first), len(second))
	}
}
