// Package history tracks the operator's recent debugger inputs.
package history

import (
	"strings"
	"sync"
)

// DefaultMax is the history capacity used when none is configured.
const DefaultMax = 50

// Ring is a bounded, deduplicating record of operator inputs, oldest first.
// Re-recording an existing entry moves it to the tail instead of duplicating.
type Ring struct {
	mu      sync.Mutex
	entries []string
	max     int
}

// NewRing creates a history ring with the given capacity.
func NewRing(max int) *Ring {
	if max <= 0 {
		max = DefaultMax
	}
	return &Ring{
		entries: make([]string, 0, max),
		max:     max,
	}
}

// Record appends entry to the tail.
// If the entry was already present, it is moved to the tail.
func (r *Ring) Record(entry string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// Remove if already present
	for i, e := range r.entries {
		if e == entry {
			r.entries = append(r.entries[:i], r.entries[i+1:]...)
			break
		}
	}

	r.entries = append(r.entries, entry)

	// Trim oldest beyond capacity
	if len(r.entries) > r.max {
		r.entries = r.entries[len(r.entries)-r.max:]
	}
}

// Render returns the entries for display, one per line, oldest first.
// An empty ring renders as empty text.
func (r *Ring) Render() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.entries, "\n")
}

// Entries returns a copy of the recorded entries, oldest first.
func (r *Ring) Entries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of recorded entries.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Clear removes all entries.
func (r *Ring) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = r.entries[:0]
}
