package handlers

import (
	"net/http"

	"echoverse/internal/store"
)

type InsightsHandler struct {
	entries *store.EntryStore
	ai      Analyzer
}

func NewInsightsHandler(entries *store.EntryStore, ai Analyzer) *InsightsHandler {
	return &InsightsHandler{entries: entries, ai: ai}
}

// Connections asks the AI for one pattern observation over the stored
// history. The response is always a usable string; canned fallbacks cover
// short histories and service failures.
func (h *InsightsHandler) Connections(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	history, err := h.entries.Load(r.Context(), userID)
	if err != nil {
		http.Error(w, "could not fetch", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"insight": h.ai.FindConnections(r.Context(), history),
	})
}
