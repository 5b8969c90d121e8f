package agent

import "testing"

func msgEvent(contents ...string) Event {
	ev := Event{Kind: KindAgentMessage}
	for _, c := range contents {
		ev.Messages = append(ev.Messages, Message{Role: "assistant", Content: c})
	}
	return ev
}

func toolEvent(name string) Event {
	return Event{Kind: KindToolInvocation, Tool: &ToolInvocation{Name: name}}
}

func TestReduceEmptyStream(t *testing.T) {
	tool, resp := Reduce(nil)
	if tool != NoTool {
		t.Fatalf("expected %q, got %q", NoTool, tool)
	}
	if resp != nil {
		t.Fatalf("expected nil response, got %q", *resp)
	}
}

func TestReduceNoToolEvents(t *testing.T) {
	tool, resp := Reduce([]Event{msgEvent("hello")})
	if tool != NoTool {
		t.Fatalf("expected %q, got %q", NoTool, tool)
	}
	if resp == nil || *resp != "hello" {
		t.Fatalf("expected response %q, got %v", "hello", resp)
	}
}

func TestReduceLastToolWins(t *testing.T) {
	events := []Event{toolEvent("a"), toolEvent("b"), toolEvent("c")}
	tool, _ := Reduce(events)
	if tool != "c" {
		t.Fatalf("expected last tool %q, got %q", "c", tool)
	}
}

func TestReduceLastMessageWins(t *testing.T) {
	events := []Event{msgEvent("m1"), msgEvent("m2")}
	_, resp := Reduce(events)
	if resp == nil || *resp != "m2" {
		t.Fatalf("expected response %q, got %v", "m2", resp)
	}
}

func TestReduceLastMessageWinsWithinOneEvent(t *testing.T) {
	_, resp := Reduce([]Event{msgEvent("m1", "m2")})
	if resp == nil || *resp != "m2" {
		t.Fatalf("expected response %q, got %v", "m2", resp)
	}
}

func TestReduceSkipsEmptyContent(t *testing.T) {
	events := []Event{msgEvent("answer"), msgEvent("")}
	_, resp := Reduce(events)
	if resp == nil || *resp != "answer" {
		t.Fatalf("expected empty content to be skipped, got %v", resp)
	}
}

func TestReduceIgnoresUnknownKinds(t *testing.T) {
	events := []Event{
		{Kind: KindOther},
		{Kind: EventKind("future-kind")},
		toolEvent("find_nearby_therapists_by_location"),
		msgEvent("done"),
	}
	tool, resp := Reduce(events)
	if tool != "find_nearby_therapists_by_location" {
		t.Fatalf("unexpected tool %q", tool)
	}
	if resp == nil || *resp != "done" {
		t.Fatalf("unexpected response %v", resp)
	}
}

func TestReduceToolEventWithoutName(t *testing.T) {
	events := []Event{
		{Kind: KindToolInvocation, Tool: &ToolInvocation{}},
		{Kind: KindToolInvocation},
	}
	tool, _ := Reduce(events)
	if tool != NoTool {
		t.Fatalf("expected %q for nameless tool events, got %q", NoTool, tool)
	}
}
