package lineedit

// DefaultHistorySize is the number of entries kept when no size is configured.
const DefaultHistorySize = 50

// History is a bounded list of accepted buffers plus a browsing position.
// An index equal to Len() means the live, uncommitted buffer is shown.
type History struct {
	entries []Buffer
	index   int
	max     int
}

// NewHistory returns an empty history keeping at most max entries.
// max <= 0 selects DefaultHistorySize.
func NewHistory(max int) *History {
	if max <= 0 {
		max = DefaultHistorySize
	}
	return &History{max: max}
}

func (h *History) Len() int { return len(h.entries) }
func (h *History) Index() int { return h.index }

// Browsing reports whether a stored entry is currently being shown.
func (h *History) Browsing() bool { return h.index < len(h.entries) }

// Entries returns copies of the stored buffers, oldest first.
func (h *History) Entries() []Buffer {
	out := make([]Buffer, len(h.entries))
	for i, e := range h.entries {
		out[i] = e.Clone()
	}
	return out
}

// Push records b and returns the browsing position to live. Empty buffers and
// a repeat of the most recent entry are not stored. The oldest entries are
// evicted once the limit is exceeded.
func (h *History) Push(b Buffer) bool {
	defer func() { h.index = len(h.entries) }()
	if len(b) == 0 {
		return false
	}
	if n := len(h.entries); n > 0 && h.entries[n-1].Equal(b) {
		return false
	}
	h.entries = append(h.entries, b.Clone())
	if over := len(h.entries) - h.max; over > 0 {
		h.entries = append(h.entries[:0:0], h.entries[over:]...)
	}
	return true
}

// Previous steps one entry back. It returns false when already at the oldest.
func (h *History) Previous() (Buffer, bool) {
	if h.index == 0 || len(h.entries) == 0 {
		return nil, false
	}
	h.index--
	return h.entries[h.index].Clone(), true
}

// Next steps one entry forward. Leaving the newest entry yields an empty live
// buffer. It returns false when already live.
func (h *History) Next() (Buffer, bool) {
	if h.index >= len(h.entries) {
		return nil, false
	}
	h.index++
	if h.index == len(h.entries) {
		return Buffer{}, true
	}
	return h.entries[h.index].Clone(), true
}

// Detach returns a copy of the browsed entry and resets the position to live,
// so edits never touch the stored entry.
func (h *History) Detach() Buffer {
	if !h.Browsing() {
		return nil
	}
	b := h.entries[h.index].Clone()
	h.index = len(h.entries)
	return b
}

func (h *History) Clear() {
	h.entries = nil
	h.index = 0
}
