package handlers

import "net/http"

type StatusHandler struct {
	ai Analyzer
}

func NewStatusHandler(ai Analyzer) *StatusHandler {
	return &StatusHandler{ai: ai}
}

// AI reports whether the hosted analysis service is configured and
// reachable. Purely informational: analysis and insights fall back on their
// own regardless of this probe.
func (h *StatusHandler) AI(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{
		"available": h.ai.CheckAvailability(r.Context()),
	})
}
