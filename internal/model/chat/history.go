package chat

// History is the ordered log of a session's turns. It has no size limit;
// display windows are taken with Recent. A History belongs to one session and
// is not safe for concurrent use.
type History struct {
	turns []Turn
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{}
}

// Append adds turn at the end of the log.
func (h *History) Append(turn Turn) {
	h.turns = append(h.turns, turn)
}

// Recent returns the last n turns in chronological order, or every turn when
// fewer exist. The result is a copy.
func (h *History) Recent(n int) []Turn {
	if n <= 0 || len(h.turns) == 0 {
		return []Turn{}
	}
	start := 0
	if len(h.turns) > n {
		start = len(h.turns) - n
	}
	out := make([]Turn, len(h.turns)-start)
	copy(out, h.turns[start:])
	return out
}

// Clear drops every turn.
func (h *History) Clear() {
	h.turns = nil
}

// Len reports the number of recorded turns.
func (h *History) Len() int {
	return len(h.turns)
}
