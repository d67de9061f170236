package store

import (
	"context"
	"errors"
)

// Keys of the persisted per-user state. Every value is JSON-serialized.
const (
	KeyCurrentUser    = "currentUser"
	KeyJournalHistory = "journalHistory"
	KeyIsPremium      = "isPremium"
	KeyColorTheme     = "colorTheme"
	KeyThemeMode      = "themeMode"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("store: key not found")

// KV is the persisted key-value state backing the app. Implementations must
// treat values as opaque JSON blobs.
type KV interface {
	Get(ctx context.Context, userID int, key string) ([]byte, error)
	Set(ctx context.Context, userID int, key string, value []byte) error
	DeleteAll(ctx context.Context, userID int) error
}
