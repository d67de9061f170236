package handlers

import (
	"net/http"
	"time"

	"echoverse/internal/engine"
	"echoverse/internal/models"
	"echoverse/internal/store"
)

type ProgressHandler struct {
	entries *store.EntryStore
	now     func() time.Time
}

func NewProgressHandler(entries *store.EntryStore) *ProgressHandler {
	return &ProgressHandler{entries: entries, now: time.Now}
}

type trendPoint struct {
	LocalDate     string  `json:"local_date"`
	Entries       int     `json:"entries"`
	AverageRating float64 `json:"average_rating"`
}

type progressResponse struct {
	Streak         int                  `json:"streak"`
	Achievements   []engine.Achievement `json:"achievements"`
	TotalEntries   int                  `json:"total_entries"`
	AverageRating  float64              `json:"average_rating"`
	MoodCounts     map[models.Mood]int  `json:"mood_counts"`
	Last7DaysTrend []trendPoint         `json:"last7_days_trend"`
}

// Get derives everything the progress screen charts from the entry history:
// streak, achievements, mood frequency and a 7-day trend.
func (h *ProgressHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	history, err := h.entries.Load(r.Context(), userID)
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}

	now := h.now()
	streak := engine.Streak(history, now)

	moodCounts := make(map[models.Mood]int)
	ratingSum := 0
	for _, entry := range history {
		moodCounts[entry.DetectedMood]++
		ratingSum += entry.Rating
	}
	averageRating := 0.0
	if len(history) > 0 {
		averageRating = float64(ratingSum) / float64(len(history))
	}

	resp := progressResponse{
		Streak:         streak,
		Achievements:   engine.Achievements(history, streak),
		TotalEntries:   len(history),
		AverageRating:  averageRating,
		MoodCounts:     moodCounts,
		Last7DaysTrend: last7Days(history, now),
	}
	writeJSON(w, http.StatusOK, resp)
}

func last7Days(history []models.JournalEntry, now time.Time) []trendPoint {
	loc := now.Location()
	trend := make([]trendPoint, 0, 7)
	for offset := 6; offset >= 0; offset-- {
		day := now.AddDate(0, 0, -offset).In(loc).Format("2006-01-02")
		count := 0
		ratingSum := 0
		for _, entry := range history {
			if entry.Date.In(loc).Format("2006-01-02") == day {
				count++
				ratingSum += entry.Rating
			}
		}
		point := trendPoint{LocalDate: day, Entries: count}
		if count > 0 {
			point.AverageRating = float64(ratingSum) / float64(count)
		}
		trend = append(trend, point)
	}
	return trend
}
