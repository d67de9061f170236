package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"echoverse/internal/engine"
	"echoverse/internal/models"
	"echoverse/internal/store"
)

type JournalHandler struct {
	entries *store.EntryStore
	ai      Analyzer
	sched   *engine.Scheduler
	now     func() time.Time
}

func NewJournalHandler(entries *store.EntryStore, ai Analyzer, sched *engine.Scheduler) *JournalHandler {
	return &JournalHandler{entries: entries, ai: ai, sched: sched, now: time.Now}
}

type saveEntryRequest struct {
	Note     string `json:"note"`
	AudioURL string `json:"audioUrl"`
	// Optional manual mood selection; overrides the detected mood.
	DetectedMood models.Mood `json:"detectedMood"`
}

type saveEntryResponse struct {
	Entry        models.JournalEntry  `json:"entry"`
	Streak       int                  `json:"streak"`
	Achievements []engine.Achievement `json:"achievements"`
}

// Save analyzes the note, appends the entry and re-arms the smart reminder.
// The analysis degrades to a mock on AI failure; a save never fails because
// the AI is unavailable.
func (h *JournalHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	var req saveEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if req.DetectedMood != "" && !req.DetectedMood.Valid() {
		http.Error(w, "unknown mood", http.StatusBadRequest)
		return
	}

	analysis := h.ai.Analyze(r.Context(), req.Note)
	if req.DetectedMood != "" {
		analysis.DetectedMood = req.DetectedMood
	}

	now := h.now()
	entry := models.JournalEntry{
		Date:           now,
		Note:           req.Note,
		AudioURL:       req.AudioURL,
		AnalysisResult: analysis,
	}

	history, err := h.entries.Append(r.Context(), userID, entry)
	if err != nil {
		http.Error(w, "could not save", http.StatusInternalServerError)
		return
	}

	streak := engine.Streak(history, now)
	h.sched.Schedule(userID, history, streak)

	writeJSON(w, http.StatusCreated, saveEntryResponse{
		Entry:        entry,
		Streak:       streak,
		Achievements: engine.Achievements(history, streak),
	})
}

func (h *JournalHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	history, err := h.entries.Load(r.Context(), userID)
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	if history == nil {
		history = []models.JournalEntry{}
	}
	writeJSON(w, http.StatusOK, history)
}

// Reset wipes the user's persisted state and disarms any pending reminder.
// This is irreversible.
func (h *JournalHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	if err := h.entries.Reset(r.Context(), userID); err != nil {
		http.Error(w, "could not reset", http.StatusInternalServerError)
		return
	}
	h.sched.Cancel(userID)
	w.WriteHeader(http.StatusNoContent)
}
