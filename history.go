package decicalc

// Direction is a step through a History.
type Direction int

const (
	// Older moves toward the first recorded expression.
	Older Direction = -1
	// Newer moves toward fresh input.
	Newer Direction = 1
)

// History is a bounded record of expressions in the order they were recorded.
// Recording past the bound evicts the oldest entry. A cursor ranges over
// [0, Len()], where Len() means fresh input with nothing selected. It is not
// safe to use a History concurrently.
type History struct {
	entries []string
	max     int
	cursor  int
}

// NewHistory creates a history holding at most limit entries. A limit of zero
// or less disables the history.
func NewHistory(limit int) *History {
	if limit < 0 {
		limit = 0
	}
	return &History{max: limit}
}

// Record appends expr and returns the cursor to fresh input.
func (h *History) Record(expr string) {
	if h.max == 0 {
		return
	}
	if len(h.entries) == h.max {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:len(h.entries)-1]
	}
	h.entries = append(h.entries, expr)
	h.cursor = len(h.entries)
}

// Navigate moves the cursor one step in dir, stopping at either end, and
// returns the entry at the new position. The result is false when the cursor
// is at fresh input or the history is empty.
func (h *History) Navigate(dir Direction) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case dir < 0 && h.cursor > 0:
		h.cursor--
	case dir > 0 && h.cursor < len(h.entries):
		h.cursor++
	}
	if h.cursor == len(h.entries) {
		return "", false
	}
	return h.entries[h.cursor], true
}

// Entries returns a copy of the recorded expressions, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Len returns the number of recorded expressions.
func (h *History) Len() int {
	return len(h.entries)
}

// Max returns the bound on the number of entries.
func (h *History) Max() int {
	return h.max
}

// Cursor returns the cursor position.
func (h *History) Cursor() int {
	return h.cursor
}

// Reset returns the cursor to fresh input without forgetting any entries.
func (h *History) Reset() {
	h.cursor = len(h.entries)
}
