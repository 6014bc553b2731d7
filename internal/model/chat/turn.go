package chat

import (
	"time"

	"github.com/ecoute-app/ecoute/backend/internal/model/emotion"
)

// Reply is the structured answer to one submission. Exercise and Quote are
// empty when absent.
type Reply struct {
	Text     string `json:"text"`
	Exercise string `json:"exercise,omitempty"`
	Quote    string `json:"quote,omitempty"`
}

// HasExercise reports whether an exercise was selected.
func (r Reply) HasExercise() bool { return r.Exercise != "" }

// HasQuote reports whether a quote was selected.
func (r Reply) HasQuote() bool { return r.Quote != "" }

// Turn records one exchange. UserText is kept exactly as submitted.
type Turn struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	UserText  string        `json:"userText"`
	Reply     Reply         `json:"reply"`
	Emotion   emotion.Label `json:"emotion"`
}
