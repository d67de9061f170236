package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"echoverse/internal/models"
)

// Analyzer is the slice of the AI client handlers depend on.
type Analyzer interface {
	Analyze(ctx context.Context, note string) models.AnalysisResult
	FindConnections(ctx context.Context, history []models.JournalEntry) string
	CheckAvailability(ctx context.Context) bool
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func requestUserID(r *http.Request) int {
	return r.Context().Value("userID").(int)
}
