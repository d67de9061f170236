package store

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"echoverse/internal/models"
	"echoverse/internal/services"
)

func testEntry(t *testing.T, date string, note string) models.JournalEntry {
	t.Helper()
	d, err := time.Parse(time.RFC3339, date)
	if err != nil {
		t.Fatalf("bad test date %q: %v", date, err)
	}
	return models.JournalEntry{
		Date: d,
		Note: note,
		AnalysisResult: models.AnalysisResult{
			DetectedMood: models.MoodNeutral,
			Summary:      "summary",
			Sentiment:    "Neutral",
			Rating:       5,
			Themes:       []string{"test"},
		},
	}
}

func TestEntryStore_AppendAndLoad(t *testing.T) {
	ctx := context.Background()
	s := NewEntryStore(NewMemoryKV(), nil)

	first := testEntry(t, "2025-06-01T08:30:00Z", "first note")
	second := testEntry(t, "2025-06-02T09:00:00Z", "second note")

	if _, err := s.Append(ctx, 1, first); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	history, err := s.Append(ctx, 1, second)
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(history))
	}
	if history[0].Note != "first note" || history[1].Note != "second note" {
		t.Errorf("entries out of save order: %q, %q", history[0].Note, history[1].Note)
	}

	loaded, err := s.Load(ctx, 1)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 entries after reload, got %d", len(loaded))
	}
}

func TestEntryStore_LoadFiltersCorruptElements(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewEntryStore(kv, nil)

	// Simulates corrupt historical data: nulls, wrong types, a missing date.
	raw := []byte(`[null, {"date":"2025-06-01T08:30:00Z","note":"ok","detectedMood":"Happy","summary":"s","sentiment":"Positive","rating":7,"themes":["a"]}, {"date":12}, {"note":"no date"}]`)
	if err := kv.Set(ctx, 1, KeyJournalHistory, raw); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	history, err := s.Load(ctx, 1)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("expected 1 surviving entry, got %d", len(history))
	}
	if history[0].Note != "ok" || history[0].DetectedMood != models.MoodHappy {
		t.Errorf("surviving entry mangled: %+v", history[0])
	}
}

func TestEntryStore_LoadToleratesNonArrayPayload(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewEntryStore(kv, nil)

	if err := kv.Set(ctx, 1, KeyJournalHistory, []byte(`"garbage"`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	history, err := s.Load(ctx, 1)
	if err != nil {
		t.Fatalf("Load should tolerate garbage, got error: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(history))
	}
}

func TestEntryStore_NotesEncryptedAtRest(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	enc, err := services.NewEncryptionService(key, key)
	if err != nil {
		t.Fatalf("NewEncryptionService failed: %v", err)
	}
	s := NewEntryStore(kv, enc)

	entry := testEntry(t, "2025-06-01T08:30:00Z", "private thought")
	if _, err := s.Append(ctx, 1, entry); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	raw, err := kv.Get(ctx, 1, KeyJournalHistory)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if strings.Contains(string(raw), "private thought") {
		t.Error("note stored in plaintext")
	}

	history, err := s.Load(ctx, 1)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(history) != 1 || history[0].Note != "private thought" {
		t.Errorf("round-trip lost the note: %+v", history)
	}
}

func TestEntryStore_Reset(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := NewEntryStore(kv, nil)

	if _, err := s.Append(ctx, 1, testEntry(t, "2025-06-01T08:30:00Z", "n")); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := kv.Set(ctx, 1, KeyIsPremium, []byte(`true`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if err := s.Reset(ctx, 1); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	history, err := s.Load(ctx, 1)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("expected empty history after reset, got %d", len(history))
	}
	if _, err := kv.Get(ctx, 1, KeyIsPremium); err != ErrNotFound {
		t.Errorf("expected every key wiped, got %v", err)
	}
}

func TestEntryStore_ConcurrentAppendsLoseNothing(t *testing.T) {
	ctx := context.Background()
	s := NewEntryStore(NewMemoryKV(), nil)

	const writers = 64
	var wg sync.WaitGroup
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry := models.JournalEntry{Date: base.Add(time.Duration(i) * time.Minute), Note: "n"}
			if _, err := s.Append(ctx, 1, entry); err != nil {
				t.Errorf("Append failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	history, err := s.Load(ctx, 1)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(history) != writers {
		t.Errorf("lost entries: appended %d, stored %d", writers, len(history))
	}
}
