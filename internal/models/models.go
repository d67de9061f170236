package models

import "time"

// Mood is the closed set of labels the analysis can assign to an entry.
type Mood string

const (
	MoodHappy      Mood = "Happy"
	MoodCalm       Mood = "Calm"
	MoodSad        Mood = "Sad"
	MoodAngry      Mood = "Angry"
	MoodTired      Mood = "Tired"
	MoodOptimistic Mood = "Optimistic"
	MoodAnxious    Mood = "Anxious"
	MoodNeutral    Mood = "Neutral"
)

// Moods lists every valid mood in display order.
var Moods = []Mood{
	MoodHappy, MoodCalm, MoodSad, MoodAngry,
	MoodTired, MoodOptimistic, MoodAnxious, MoodNeutral,
}

func (m Mood) Valid() bool {
	for _, known := range Moods {
		if m == known {
			return true
		}
	}
	return false
}

// AnalysisResult holds the AI-derived fields of a journal entry.
type AnalysisResult struct {
	DetectedMood Mood     `json:"detectedMood"`
	Summary      string   `json:"summary"`
	Sentiment    string   `json:"sentiment"`
	Rating       int      `json:"rating"` // 1-10 scale
	Themes       []string `json:"themes"`
}

// JournalEntry is one journaling event. Entries are immutable once saved
// and are only ever removed by a full data reset.
type JournalEntry struct {
	Date     time.Time `json:"date"`
	Note     string    `json:"note"`
	AudioURL string    `json:"audioUrl,omitempty"`
	AnalysisResult
}

// Speaker tags a conversation turn as belonging to the user or the assistant.
type Speaker string

const (
	SpeakerUser      Speaker = "user"
	SpeakerAssistant Speaker = "assistant"
)

// ConversationTurn is one block of transcript inside a live voice session.
// Turns grow by fragment until finalized and are discarded with the session.
type ConversationTurn struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
	Seq     uint64  `json:"seq"`
	Final   bool    `json:"final"`
}

// IconID identifies a drawable. The rendering layer resolves these to
// concrete assets; the domain model never carries rendering code.
type IconID string

const (
	IconCheckmark IconID = "checkmark"
	IconBolt      IconID = "bolt"
	IconPencil    IconID = "pencil"
	IconPalette   IconID = "palette"
	IconSeal      IconID = "seal"
)

type ColorTheme string

const (
	ThemeIndigo ColorTheme = "indigo"
	ThemeForest ColorTheme = "forest"
	ThemeSunset ColorTheme = "sunset"
)

func (t ColorTheme) Valid() bool {
	return t == ThemeIndigo || t == ThemeForest || t == ThemeSunset
}

type ThemeMode string

const (
	ModeLight  ThemeMode = "light"
	ModeDark   ThemeMode = "dark"
	ModeSystem ThemeMode = "system"
)

func (m ThemeMode) Valid() bool {
	return m == ModeLight || m == ModeDark || m == ModeSystem
}

// Profile is the displayable identity persisted under the currentUser key.
type Profile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoURL,omitempty"`
}

// User is an account row.
type User struct {
	ID              int       `db:"id" json:"id"`
	Email           string    `db:"email" json:"email"` // Encrypted in DB
	EmailBlindIndex string    `db:"email_blind_index" json:"-"`
	PasswordHash    string    `db:"password_hash" json:"-"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
