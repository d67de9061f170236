package live

import (
	"sync"

	"echoverse/internal/models"
)

// Transcript assembles streamed fragments into conversation turns. A
// fragment extends the last turn when that turn is still open and belongs to
// the same speaker; otherwise it opens a new turn. Turn completion finalizes
// every open turn.
type Transcript struct {
	mu    sync.Mutex
	turns []models.ConversationTurn
	seq   uint64
}

// Append adds one fragment for the given speaker, in receipt order.
func (t *Transcript) Append(speaker models.Speaker, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n := len(t.turns); n > 0 {
		last := &t.turns[n-1]
		if last.Speaker == speaker && !last.Final {
			last.Text += text
			return
		}
	}
	t.seq++
	t.turns = append(t.turns, models.ConversationTurn{
		Speaker: speaker,
		Text:    text,
		Seq:     t.seq,
	})
}

// FinalizeTurns marks every open turn final.
func (t *Transcript) FinalizeTurns() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.turns {
		t.turns[i].Final = true
	}
}

// Turns returns a snapshot of the assembled transcript.
func (t *Transcript) Turns() []models.ConversationTurn {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]models.ConversationTurn, len(t.turns))
	copy(out, t.turns)
	return out
}
