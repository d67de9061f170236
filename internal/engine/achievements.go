package engine

import (
	"time"

	"echoverse/internal/models"
)

// Achievement pairs a static definition with its unlock predicate. Unlock
// state is never persisted; it is recomputed from (history, streak) on every
// evaluation.
type Achievement struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        models.IconID `json:"icon"`
	Unlocked    bool          `json:"unlocked"`

	unlock func(history []models.JournalEntry, streak int) bool
}

var achievements = []Achievement{
	{
		ID:          "first_entry",
		Name:        "First Echo",
		Description: "Record your first voice journal entry.",
		Icon:        models.IconCheckmark,
		unlock: func(history []models.JournalEntry, _ int) bool {
			return len(history) >= 1
		},
	},
	{
		ID:          "streak_7",
		Name:        "On Fire",
		Description: "Maintain a 7-day journaling streak.",
		Icon:        models.IconBolt,
		unlock: func(_ []models.JournalEntry, streak int) bool {
			return streak >= 7
		},
	},
	{
		ID:          "notetaker_5",
		Name:        "Mindful Mapper",
		Description: "Journal on 5 different days.",
		Icon:        models.IconPencil,
		unlock: func(history []models.JournalEntry, _ int) bool {
			return len(distinctDays(history, time.Local)) >= 5
		},
	},
	{
		ID:          "full_spectrum",
		Name:        "Full Spectrum",
		Description: "Log 5 different AI-detected mood types.",
		Icon:        models.IconPalette,
		unlock: func(history []models.JournalEntry, _ int) bool {
			moods := make(map[models.Mood]struct{})
			for _, entry := range history {
				moods[entry.DetectedMood] = struct{}{}
			}
			return len(moods) >= 5
		},
	},
	{
		ID:          "consistency_30",
		Name:        "Consistency King",
		Description: "Complete 30 total journal entries.",
		Icon:        models.IconSeal,
		unlock: func(history []models.JournalEntry, _ int) bool {
			return len(history) >= 30
		},
	},
}

// Achievements evaluates every definition against the given history and
// streak and returns the full set with Unlocked filled in.
func Achievements(history []models.JournalEntry, streak int) []Achievement {
	out := make([]Achievement, len(achievements))
	for i, a := range achievements {
		a.Unlocked = a.unlock(history, streak)
		out[i] = a
	}
	return out
}
