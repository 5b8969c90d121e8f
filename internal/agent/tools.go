package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
)

// ToolDef describes a callable capability to the model. The description
// doubles as the selection criteria the model follows when routing a turn.
type ToolDef struct {
	Name        string
	Description string
	Parameters  json.RawMessage
}

// Tool is a named capability the model may invoke during a turn.
type Tool interface {
	Def() ToolDef
	Execute(ctx context.Context, args json.RawMessage) (string, error)
}

// Registry holds the fixed, ordered set of tools exposed to the model.
type Registry struct {
	tools  []Tool
	byName map[string]Tool
}

// NewRegistry builds a registry, rejecting duplicate tool names.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{byName: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		name := t.Def().Name
		if _, exists := r.byName[name]; exists {
			return nil, fmt.Errorf("duplicate tool name: %s", name)
		}
		r.byName[name] = t
		r.tools = append(r.tools, t)
	}
	return r, nil
}

// Defs returns tool definitions in registration order.
func (r *Registry) Defs() []ToolDef {
	defs := make([]ToolDef, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, t.Def())
	}
	return defs
}

// Get looks a tool up by name.
func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

// Completer generates a plain-text completion for a single query. Implemented
// by the LLM collaborator client.
type Completer interface {
	Complete(ctx context.Context, query string) (string, error)
}

// EmergencyCaller places an outbound emergency call. Implemented by the
// calling-service collaborator client.
type EmergencyCaller interface {
	Call(ctx context.Context) error
}

// ─── ask_mental_health_specialist ───────────────────────────────────────────

type specialistTool struct {
	llm Completer
}

// NewSpecialistTool returns the therapeutic-response tool backed by the given
// model client.
func NewSpecialistTool(llm Completer) Tool {
	return &specialistTool{llm: llm}
}

func (t *specialistTool) Def() ToolDef {
	return ToolDef{
		Name: "ask_mental_health_specialist",
		Description: "Generate a therapeutic response using the specialist model. " +
			"Use this for all general user queries, mental health questions, emotional concerns, " +
			"or to offer empathetic, evidence-based guidance in a conversational tone.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {
					"type": "string",
					"description": "The user's question or concern to answer therapeutically"
				}
			},
			"required": ["query"]
		}`),
	}
}

func (t *specialistTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var in struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("parsing specialist arguments: %w", err)
	}
	reply, err := t.llm.Complete(ctx, in.Query)
	if err != nil {
		return "", fmt.Errorf("specialist model: %w", err)
	}
	return reply, nil
}

// ─── find_nearby_therapists_by_location ─────────────────────────────────────

type therapistLookupTool struct{}

// NewTherapistLookupTool returns the therapist directory tool. The listing is
// currently a pure function of the location; the contract allows a future
// directory collaborator behind the same interface.
func NewTherapistLookupTool() Tool {
	return &therapistLookupTool{}
}

func (t *therapistLookupTool) Def() ToolDef {
	return ToolDef{
		Name: "find_nearby_therapists_by_location",
		Description: "Finds and returns a list of licensed therapists near the specified location. " +
			"Use this when the user asks about nearby therapists or local professional help. " +
			"Returns a newline-separated string containing therapist names and contact info.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"location": {
					"type": "string",
					"description": "The name of the city or area in which the user is seeking therapy support"
				}
			},
			"required": ["location"]
		}`),
	}
}

func (t *therapistLookupTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	var in struct {
		Location string `json:"location"`
	}
	if err := json.Unmarshal(args, &in); err != nil {
		return "", fmt.Errorf("parsing lookup arguments: %w", err)
	}
	return fmt.Sprintf(
		"Here are some therapists near %s, %s:\n"+
			"- Dr. Ayesha Kapoor - +1 (555) 123-4567\n"+
			"- Dr. James Patel - +1 (555) 987-6543\n"+
			"- MindCare Counseling Center - +1 (555) 222-3333",
		in.Location, in.Location,
	), nil
}

// ─── emergency_call_tool ────────────────────────────────────────────────────

type emergencyCallTool struct {
	caller EmergencyCaller
	logger zerolog.Logger
}

// NewEmergencyCallTool returns the escalation tool. Call failures are logged
// and alerted on but never surfaced to the model or the caller.
func NewEmergencyCallTool(caller EmergencyCaller, logger zerolog.Logger) Tool {
	return &emergencyCallTool{
		caller: caller,
		logger: logger.With().Str("tool", "emergency_call_tool").Logger(),
	}
}

func (t *emergencyCallTool) Def() ToolDef {
	return ToolDef{
		Name: "emergency_call_tool",
		Description: "Place an emergency call to the safety helpline's phone number. " +
			"Use this only if the user expresses suicidal ideation, intent to self-harm, " +
			"or describes a mental health emergency requiring immediate help.",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {}
		}`),
	}
}

func (t *emergencyCallTool) Execute(ctx context.Context, args json.RawMessage) (string, error) {
	if err := t.caller.Call(ctx); err != nil {
		t.logger.Error().Err(err).Msg("Emergency call failed")
	}
	return "Emergency call initiated.", nil
}
