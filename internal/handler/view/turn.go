// Package view shapes core values for the HTTP, SSE and WebSocket surfaces.
package view

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ecoute-app/ecoute/backend/internal/model/chat"
	"github.com/ecoute-app/ecoute/backend/internal/model/emotion"
)

const clockLayout = "15:04"

// Turn is the client representation of one exchange.
type Turn struct {
	ID           string     `json:"id"`
	Timestamp    string     `json:"timestamp"`
	Time         string     `json:"time"`
	UserText     string     `json:"userText"`
	Emotion      string     `json:"emotion"`
	EmotionTitle string     `json:"emotionTitle,omitempty"`
	Reply        chat.Reply `json:"reply"`
}

// FromTurn converts a recorded turn. Time is the wall-clock time in loc, UTC
// when loc is nil; Timestamp keeps the recorded instant.
func FromTurn(turn chat.Turn, loc *time.Location) Turn {
	if loc == nil {
		loc = time.UTC
	}
	return Turn{
		ID:           turn.ID,
		Timestamp:    turn.Timestamp.Format(time.RFC3339),
		Time:         turn.Timestamp.In(loc).Format(clockLayout),
		UserText:     turn.UserText,
		Emotion:      string(turn.Emotion),
		EmotionTitle: Title(turn.Emotion),
		Reply:        turn.Reply,
	}
}

// FromTurns converts turns keeping their order.
func FromTurns(turns []chat.Turn, loc *time.Location) []Turn {
	out := make([]Turn, len(turns))
	for i, turn := range turns {
		out[i] = FromTurn(turn, loc)
	}
	return out
}

// Title capitalizes a label for display; it is empty for emotion.None.
func Title(label emotion.Label) string {
	if label == emotion.None || label == "" {
		return ""
	}
	// Casers keep state and are not shared between goroutines.
	return cases.Title(language.French).String(string(label))
}
