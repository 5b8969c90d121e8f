package model

import "time"

// ChatMessage is one persisted chat turn: a user message paired with the
// agent's reply and the tool (if any) that produced it. Turns are immutable
// once written.
type ChatMessage struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Message   string    `db:"message" json:"message"`
	Response  *string   `db:"response" json:"response"`
	ToolUsed  string    `db:"tool_used" json:"tool_used"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
