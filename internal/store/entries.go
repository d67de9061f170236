package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"echoverse/internal/models"
	"echoverse/internal/services"
)

// EntryStore owns the journal history. It is append-only; entries disappear
// only through Reset. Notes are encrypted at rest when an encryption service
// is configured. Writes are serialized per user: Append is a read-modify-write
// over one KV row, and two unserialized appends would drop one of the entries.
type EntryStore struct {
	kv  KV
	enc *services.EncryptionService

	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func NewEntryStore(kv KV, enc *services.EncryptionService) *EntryStore {
	return &EntryStore{kv: kv, enc: enc, locks: make(map[int]*sync.Mutex)}
}

func (s *EntryStore) userLock(userID int) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l := s.locks[userID]
	if l == nil {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// Load returns the stored history in save order. Historical persisted data
// may be corrupt: null or undecodable elements are dropped rather than
// failing the read.
func (s *EntryStore) Load(ctx context.Context, userID int) ([]models.JournalEntry, error) {
	raw, err := s.kv.Get(ctx, userID, KeyJournalHistory)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, nil
	}

	entries := make([]models.JournalEntry, 0, len(elements))
	for _, el := range elements {
		var entry models.JournalEntry
		if err := json.Unmarshal(el, &entry); err != nil {
			continue
		}
		if entry.Date.IsZero() {
			continue
		}
		note, err := s.enc.DecryptNote(entry.Note)
		if err != nil {
			continue
		}
		entry.Note = note
		entries = append(entries, entry)
	}
	return entries, nil
}

// Append adds one entry to the history and returns the full updated history
// with plaintext notes.
func (s *EntryStore) Append(ctx context.Context, userID int, entry models.JournalEntry) ([]models.JournalEntry, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	history, err := s.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	updated := append(history, entry)

	stored := make([]models.JournalEntry, len(updated))
	copy(stored, updated)
	for i := range stored {
		note, err := s.enc.EncryptNote(stored[i].Note)
		if err != nil {
			return nil, err
		}
		stored[i].Note = note
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return nil, err
	}
	if err := s.kv.Set(ctx, userID, KeyJournalHistory, raw); err != nil {
		return nil, err
	}
	return updated, nil
}

// Reset wipes every persisted key for the user, journal history included.
func (s *EntryStore) Reset(ctx context.Context, userID int) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()
	return s.kv.DeleteAll(ctx, userID)
}
