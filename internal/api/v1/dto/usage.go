package dto

import "time"

type UsageResponseDTO struct {
	MessagesUsed  int       `json:"messages_used"`
	MessagesLimit int       `json:"messages_limit"`
	PeriodEnds    time.Time `json:"period_ends"`
	DaysRemaining int       `json:"days_remaining"`
}
