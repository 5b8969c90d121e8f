package agent

import "encoding/json"

// EventKind tags the closed set of step-event shapes the agent emits while
// processing one turn. Decoding happens once, at the collaborator boundary;
// the reducer only ever sees these tags.
type EventKind string

const (
	KindToolInvocation EventKind = "tool"
	KindAgentMessage   EventKind = "agent"
	KindOther          EventKind = "other"
)

// NoTool is the sentinel reported when a turn invoked no tool.
const NoTool = "None"

// Message is one model-authored message inside an agent step.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToolInvocation records the model deciding to call a tool.
type ToolInvocation struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Event is one step in the agent's event stream for a single turn. Streams
// are owned by one in-flight request and discarded after reduction.
type Event struct {
	Kind     EventKind       `json:"kind"`
	Tool     *ToolInvocation `json:"tool,omitempty"`
	Messages []Message       `json:"messages,omitempty"`
}

// Reduce folds an ordered event stream into the tool that fired and the final
// natural-language answer. Both fields follow last-wins overwrite semantics:
// a later tool invocation replaces an earlier one, and a later non-empty
// agent message replaces an earlier response. Events of unknown kind are
// skipped, never an error. A nil final response means the stream produced no
// answer; callers treat that as degraded, not fatal.
func Reduce(events []Event) (toolCalled string, finalResponse *string) {
	toolCalled = NoTool
	for _, ev := range events {
		switch ev.Kind {
		case KindToolInvocation:
			if ev.Tool != nil && ev.Tool.Name != "" {
				toolCalled = ev.Tool.Name
			}
		case KindAgentMessage:
			for _, msg := range ev.Messages {
				if msg.Content != "" {
					content := msg.Content
					finalResponse = &content
				}
			}
		}
	}
	return toolCalled, finalResponse
}
