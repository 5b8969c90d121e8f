package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/agent"
	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/model"
	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/repository"

	"github.com/rs/zerolog"
)

// ErrAgentUnavailable marks a collaborator failure: the inference service
// errored or timed out mid-turn.
var ErrAgentUnavailable = errors.New("agent unavailable")

// AgentRunner is the agent loop as seen by the orchestrator.
type AgentRunner interface {
	Run(ctx context.Context, userMessage string) ([]agent.Event, error)
}

// TurnResult is the outcome of one chat turn. Response is nil when the event
// stream produced no answer, a degraded but non-fatal outcome.
type TurnResult struct {
	Response *string
	ToolUsed string
	Usage    model.UsagePeriod
}

// ChatService orchestrates a chat turn: count usage, run the agent, reduce
// the event stream, persist the turn.
type ChatService interface {
	HandleTurn(ctx context.Context, userID, message string) (*TurnResult, error)
	History(ctx context.Context, userID string, limit int) ([]model.ChatMessage, error)
	// ClearHistory deletes all of the user's turns, reporting failure as a
	// boolean rather than an error.
	ClearHistory(ctx context.Context, userID string) bool
}

type chatService struct {
	chatRepo repository.ChatRepository
	usage    UsageService
	agent    AgentRunner
	logger   zerolog.Logger
}

func NewChatService(chatRepo repository.ChatRepository, usage UsageService, agentRunner AgentRunner, logger zerolog.Logger) ChatService {
	return &chatService{
		chatRepo: chatRepo,
		usage:    usage,
		agent:    agentRunner,
		logger:   logger.With().Str("service", "ChatService").Logger(),
	}
}

// HandleTurn increments usage before invoking the agent, so a failed
// inference call still counts against the quota. That bounds cost on partial
// failure and is deliberately not rolled back when the agent errors.
func (s *chatService) HandleTurn(ctx context.Context, userID, message string) (*TurnResult, error) {
	usage, err := s.usage.RecordTurn(ctx, userID)
	if err != nil {
		return nil, err
	}

	events, err := s.agent.Run(ctx, message)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Agent run failed")
		return nil, fmt.Errorf("%w: %v", ErrAgentUnavailable, err)
	}

	toolUsed, response := agent.Reduce(events)
	if response == nil {
		s.logger.Warn().Str("user_id", userID).Str("tool_used", toolUsed).Msg("Agent stream produced no response")
	}

	if _, err := s.chatRepo.CreateMessage(ctx, userID, message, response, toolUsed); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to persist chat turn")
		return nil, fmt.Errorf("persisting chat turn: %w", err)
	}

	return &TurnResult{Response: response, ToolUsed: toolUsed, Usage: usage}, nil
}

func (s *chatService) History(ctx context.Context, userID string, limit int) ([]model.ChatMessage, error) {
	messages, err := s.chatRepo.ListMessages(ctx, userID, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to list chat history")
		return nil, fmt.Errorf("listing chat history: %w", err)
	}
	return messages, nil
}

func (s *chatService) ClearHistory(ctx context.Context, userID string) bool {
	if err := s.chatRepo.DeleteMessages(ctx, userID); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to clear chat history")
		return false
	}
	return true
}
