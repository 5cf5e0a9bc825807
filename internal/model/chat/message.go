package chat

import "time"

// Sender identifies who produced a transcript entry.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// TimestampLayout is the clock format shown next to chat bubbles.
const TimestampLayout = "03:04 PM"

// Message is one entry of a session transcript.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	HTML      string    `json:"html,omitempty"`
	Timestamp string    `json:"timestamp,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
