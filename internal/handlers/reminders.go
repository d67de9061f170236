package handlers

import (
	"net/http"
	"time"

	"echoverse/internal/engine"
	"echoverse/internal/store"
)

type RemindersHandler struct {
	entries *store.EntryStore
	sched   *engine.Scheduler
	now     func() time.Time
}

func NewRemindersHandler(entries *store.EntryStore, sched *engine.Scheduler) *RemindersHandler {
	return &RemindersHandler{entries: entries, sched: sched, now: time.Now}
}

type scheduleResponse struct {
	NextReminder string `json:"next_reminder"`
	Message      string `json:"message"`
}

// Arm schedules the smart reminder from the current history and streak.
func (h *RemindersHandler) Arm(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	history, err := h.entries.Load(r.Context(), userID)
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	streak := engine.Streak(history, h.now())
	fireAt := h.sched.Schedule(userID, history, streak)
	writeJSON(w, http.StatusOK, scheduleResponse{
		NextReminder: fireAt.Format("3:04 PM"),
		Message:      engine.PersonalizedMessage(streak),
	})
}

// Disarm cancels the user's pending reminder.
func (h *RemindersHandler) Disarm(w http.ResponseWriter, r *http.Request) {
	h.sched.Cancel(requestUserID(r))
	w.WriteHeader(http.StatusNoContent)
}

// Test delivers a sample notification immediately.
func (h *RemindersHandler) Test(w http.ResponseWriter, r *http.Request) {
	h.sched.TestNotification(requestUserID(r))
	w.WriteHeader(http.StatusNoContent)
}
