// Package tonecycle tracks which tones of the catalogue have already been served
// for one editing session.
package tonecycle

import (
	"strings"
	"sync"

	"github.com/jonathan/tonecycle/internal/types"
)

// DefaultBatchSize is the number of tones served per invocation
const DefaultBatchSize = 3

// signatureSeparator joins the normalized source text and the guide version
const signatureSeparator = "\x1f"

// State is the persisted form of a tracker.
// Invariant: 0 <= Cursor <= Total.
type State struct {
	Signature string `json:"signature"`
	Cursor    int    `json:"cursor"`
	Completed bool   `json:"completed"`
	Total     int    `json:"total"`
}

// Tracker is owned by one session; it is not shared between sessions.
type Tracker struct {
	mu        sync.Mutex
	batchSize int
	state     State
}

// NewTracker creates a tracker. A non-positive batchSize selects DefaultBatchSize.
func NewTracker(batchSize int) *Tracker {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Tracker{batchSize: batchSize}
}

// BatchSize returns the number of tones served per call
func (t *Tracker) BatchSize() int {
	return t.batchSize
}

// Signature identifies a (source text, guide version) pair
func Signature(sourceText, guideVersion string) string {
	return strings.Join(strings.Fields(sourceText), " ") + signatureSeparator + guideVersion
}

// GetBatch returns the next slice of the catalogue. A changed signature or an
// explicit reset starts the cycle over. exhausted is true when every tone has
// already been served for this signature.
func (t *Tracker) GetBatch(catalogue []types.ToneConfig, sourceText, guideVersion string, reset bool) (batch []types.ToneConfig, exhausted bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sig := Signature(sourceText, guideVersion)
	if reset || sig != t.state.Signature {
		t.state = State{Signature: sig}
	}
	t.state.Total = len(catalogue)
	if t.state.Cursor > t.state.Total {
		t.state.Cursor = t.state.Total
	}

	if t.state.Completed || t.state.Cursor >= t.state.Total {
		return nil, true
	}

	end := t.state.Cursor + t.batchSize
	if end > t.state.Total {
		end = t.state.Total
	}
	batch = make([]types.ToneConfig, end-t.state.Cursor)
	copy(batch, catalogue[t.state.Cursor:end])
	return batch, false
}

// Advance moves the cursor past selected tones and marks the cycle completed
// once the end of the catalogue is reached.
func (t *Tracker) Advance(selected int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if selected < 0 {
		selected = 0
	}
	t.state.Cursor += selected
	if t.state.Cursor >= t.state.Total {
		t.state.Cursor = t.state.Total
		t.state.Completed = true
	}
}

// Reset clears the signature, cursor and completed flag unconditionally
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = State{}
}

// State returns a snapshot for persistence
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Restore replaces the tracker state with a persisted snapshot, clamping the cursor
func (t *Tracker) Restore(s State) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s.Total < 0 {
		s.Total = 0
	}
	if s.Cursor < 0 {
		s.Cursor = 0
	}
	if s.Cursor > s.Total {
		s.Cursor = s.Total
	}
	t.state = s
}
