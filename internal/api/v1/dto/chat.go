package dto

import "time"

type AskRequestDTO struct {
	Message string `json:"message" validate:"required"`
}

// UsageSnapshotDTO is the usage summary attached to every chat reply.
type UsageSnapshotDTO struct {
	MessagesUsed  int `json:"messages_used"`
	MessagesLimit int `json:"messages_limit"`
}

// AskResponseDTO is the chat-turn reply. Response is null when the agent
// stream produced no answer.
type AskResponseDTO struct {
	Response *string          `json:"response"`
	ToolUsed string           `json:"tool_used"`
	Usage    UsageSnapshotDTO `json:"usage"`
}

type ChatMessageDTO struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Response  *string   `json:"response"`
	ToolUsed  string    `json:"tool_used"`
	CreatedAt time.Time `json:"created_at"`
}

type HistoryResponseDTO struct {
	History []ChatMessageDTO `json:"history"`
}

type DeleteHistoryResponseDTO struct {
	Message string `json:"message"`
}
