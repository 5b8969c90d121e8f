package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
)

// ChatMessage is one message on the wire to or from the chat-completions API.
type ChatMessage struct {
	Role       string     `json:"role"`
	Content    string     `json:"content,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
	Name       string     `json:"name,omitempty"`
}

// ToolCall is the model's request to invoke one tool.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

// FunctionCall carries the tool name and its JSON-encoded arguments.
type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// LLM is the tool-calling inference collaborator.
type LLM interface {
	ChatCompletion(ctx context.Context, messages []ChatMessage, tools []ToolDef) (*ChatMessage, error)
}

// Agent runs the tool-calling loop for one chat turn and emits the resulting
// event stream.
type Agent struct {
	llm      LLM
	registry *Registry
	maxSteps int
	logger   zerolog.Logger
}

// New creates an Agent. maxSteps bounds the number of model round trips per
// turn so a confused model cannot loop forever.
func New(llm LLM, registry *Registry, maxSteps int, logger zerolog.Logger) *Agent {
	if maxSteps <= 0 {
		maxSteps = 6
	}
	return &Agent{
		llm:      llm,
		registry: registry,
		maxSteps: maxSteps,
		logger:   logger.With().Str("service", "Agent").Logger(),
	}
}

// Run processes one user message: the model is called with the tool
// definitions, requested tools are executed with their results fed back, and
// the loop ends on a content-only reply or the step cap. The returned events
// are in emission order and are the input to Reduce. On a collaborator
// failure the events collected so far are returned alongside the error.
func (a *Agent) Run(ctx context.Context, userMessage string) ([]Event, error) {
	messages := []ChatMessage{
		{Role: "system", Content: SystemPrompt},
		{Role: "user", Content: userMessage},
	}

	var events []Event
	for step := 0; step < a.maxSteps; step++ {
		reply, err := a.llm.ChatCompletion(ctx, messages, a.registry.Defs())
		if err != nil {
			return events, fmt.Errorf("agent completion: %w", err)
		}

		if reply.Content != "" {
			events = append(events, Event{
				Kind:     KindAgentMessage,
				Messages: []Message{{Role: "assistant", Content: reply.Content}},
			})
		}

		if len(reply.ToolCalls) == 0 {
			return events, nil
		}

		messages = append(messages, *reply)
		for _, call := range reply.ToolCalls {
			args := json.RawMessage(call.Function.Arguments)
			events = append(events, Event{
				Kind: KindToolInvocation,
				Tool: &ToolInvocation{Name: call.Function.Name, Arguments: args},
			})

			result, err := a.execute(ctx, call.Function.Name, args)
			if err != nil {
				return events, fmt.Errorf("tool %s: %w", call.Function.Name, err)
			}
			messages = append(messages, ChatMessage{
				Role:       "tool",
				ToolCallID: call.ID,
				Name:       call.Function.Name,
				Content:    result,
			})
		}
	}

	a.logger.Warn().Int("max_steps", a.maxSteps).Msg("Agent hit step cap before final answer")
	return events, nil
}

func (a *Agent) execute(ctx context.Context, name string, args json.RawMessage) (string, error) {
	tool, ok := a.registry.Get(name)
	if !ok {
		// An unknown name means the model hallucinated a tool; tell it so
		// instead of failing the turn.
		a.logger.Warn().Str("tool", name).Msg("Model requested unknown tool")
		return fmt.Sprintf("unknown tool: %s", name), nil
	}
	return tool.Execute(ctx, args)
}
