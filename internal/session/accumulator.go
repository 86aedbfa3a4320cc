package session

import "strings"

// Accumulator merges incremental transcript fragments into the current
// utterance. A turn starts implicitly at the first fragment after the
// previous finalize and ends exactly once at Finalize.
type Accumulator struct {
	buf strings.Builder
}

// NewAccumulator creates an empty accumulator
func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

// Append concatenates a fragment and returns the accumulated buffer
func (a *Accumulator) Append(fragment string) string {
	a.buf.WriteString(fragment)
	return a.buf.String()
}

// Finalize returns the trimmed turn text and resets the buffer.
// An empty (or whitespace-only) buffer finalizes to nothing: ok is
// false and no turn is produced.
func (a *Accumulator) Finalize() (text string, ok bool) {
	text = strings.TrimSpace(a.buf.String())
	a.buf.Reset()
	if text == "" {
		return "", false
	}
	return text, true
}

// Pending returns the current in-progress buffer
func (a *Accumulator) Pending() string {
	return a.buf.String()
}

// Reset discards any in-progress turn
func (a *Accumulator) Reset() {
	a.buf.Reset()
}
