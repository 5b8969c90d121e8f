package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/agent"
	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/config"
)

const specialistSystemPrompt = "You are a compassionate mental health specialist. " +
	"Offer empathetic, evidence-based guidance in a warm, conversational tone. " +
	"Do not diagnose; encourage professional help where appropriate."

// GroqClient talks to the Groq OpenAI-compatible chat-completions API. It
// serves both the agent loop (tool-calling completions) and the specialist
// tool (plain therapeutic completions).
type GroqClient interface {
	agent.LLM
	agent.Completer
}

type groqClient struct {
	client      *http.Client
	baseURL     string
	apiKey      string
	model       string
	temperature float64
}

// NewGroqClient creates a Groq chat-completions client from config.
func NewGroqClient(cfg *config.Config) GroqClient {
	return &groqClient{
		client:      &http.Client{Timeout: 60 * time.Second},
		baseURL:     strings.TrimRight(cfg.GroqBaseURL, "/"),
		apiKey:      cfg.GroqAPIKey,
		model:       cfg.GroqModel,
		temperature: cfg.GroqTemperature,
	}
}

type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Temperature float64             `json:"temperature"`
	Messages    []agent.ChatMessage `json:"messages"`
	Tools       []wireTool          `json:"tools,omitempty"`
	ToolChoice  string              `json:"tool_choice,omitempty"`
}

type wireTool struct {
	Type     string       `json:"type"`
	Function wireFunction `json:"function"`
}

type wireFunction struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// ChatCompletion sends one tool-calling completion request and returns the
// assistant message, which may carry content, tool calls, or both.
func (c *groqClient) ChatCompletion(ctx context.Context, messages []agent.ChatMessage, tools []agent.ToolDef) (*agent.ChatMessage, error) {
	req := chatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages:    messages,
	}
	for _, def := range tools {
		req.Tools = append(req.Tools, wireTool{
			Type: "function",
			Function: wireFunction{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		})
	}
	if len(req.Tools) > 0 {
		req.ToolChoice = "auto"
	}
	return c.send(ctx, req)
}

// Complete generates a plain therapeutic reply for the specialist tool.
func (c *groqClient) Complete(ctx context.Context, query string) (string, error) {
	reply, err := c.send(ctx, chatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []agent.ChatMessage{
			{Role: "system", Content: specialistSystemPrompt},
			{Role: "user", Content: query},
		},
	})
	if err != nil {
		return "", err
	}
	return reply.Content, nil
}

func (c *groqClient) send(ctx context.Context, reqBody chatCompletionRequest) (*agent.ChatMessage, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("missing Groq API key")
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending completion request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading completion response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errorResp struct {
			Error struct {
				Message string `json:"message"`
				Type    string `json:"type"`
			} `json:"error"`
		}
		if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error.Message != "" {
			return nil, fmt.Errorf("completion failed: %s", errorResp.Error.Message)
		}
		return nil, fmt.Errorf("completion failed: HTTP %d", resp.StatusCode)
	}

	var decoded struct {
		Choices []struct {
			Message agent.ChatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decoding completion response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return nil, fmt.Errorf("completion response has no choices")
	}
	return &decoded.Choices[0].Message, nil
}
