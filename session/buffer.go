package session

import "errors"

// ErrBufferFull is returned when appending would exceed the buffer cap
var ErrBufferFull = errors.New("turn buffer full")

// TurnBuffer accumulates one turn's raw audio until the turn-complete
// marker flushes it. It is owned exclusively by the Gemini-to-client
// loop (the same goroutine appends and flushes), so it carries no
// lock by construction.
type TurnBuffer struct {
	data    []byte
	maxSize int
}

// NewTurnBuffer creates a buffer capped at maxSize bytes
func NewTurnBuffer(maxSize int) *TurnBuffer {
	return &TurnBuffer{maxSize: maxSize}
}

// Append adds raw audio bytes in arrival order.
// Returns ErrBufferFull if adding the chunk would exceed the cap.
func (tb *TurnBuffer) Append(chunk []byte) error {
	if len(tb.data)+len(chunk) > tb.maxSize {
		return ErrBufferFull
	}
	tb.data = append(tb.data, chunk...)
	return nil
}

// Flush returns the accumulated audio and resets the buffer
func (tb *TurnBuffer) Flush() []byte {
	data := tb.data
	tb.data = nil
	return data
}

// Len returns the current number of buffered bytes
func (tb *TurnBuffer) Len() int {
	return len(tb.data)
}

// IsEmpty reports whether any audio is buffered for the current turn
func (tb *TurnBuffer) IsEmpty() bool {
	return len(tb.data) == 0
}
