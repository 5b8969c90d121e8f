package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/api/v1/dto"
	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/model"
	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/service"

	"github.com/rs/zerolog"
)

type fakeChatService struct {
	result     *service.TurnResult
	turnErr    error
	history    []model.ChatMessage
	historyErr error
	cleared    bool
	gotLimit   int
}

func (f *fakeChatService) HandleTurn(ctx context.Context, userID, message string) (*service.TurnResult, error) {
	if f.turnErr != nil {
		return nil, f.turnErr
	}
	return f.result, nil
}

func (f *fakeChatService) History(ctx context.Context, userID string, limit int) ([]model.ChatMessage, error) {
	f.gotLimit = limit
	return f.history, f.historyErr
}

func (f *fakeChatService) ClearHistory(ctx context.Context, userID string) bool {
	return f.cleared
}

func chatMux(svc service.ChatService) *http.ServeMux {
	mux := http.NewServeMux()
	NewChatHandler(svc, newValidator(), zerolog.Nop()).RegisterRoutes(mux, testAuthMw("u1"))
	return mux
}

func TestAskEndpoint(t *testing.T) {
	reply := "You are not alone in this."
	usage := model.NewUsagePeriod("u1", time.Now())
	usage.MessagesUsed = 3
	svc := &fakeChatService{result: &service.TurnResult{
		Response: &reply,
		ToolUsed: "ask_mental_health_specialist",
		Usage:    usage,
	}}
	mux := chatMux(svc)

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"message":"I feel anxious"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp dto.AskResponseDTO
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Response == nil || *resp.Response != reply {
		t.Fatalf("unexpected response: %v", resp.Response)
	}
	if resp.ToolUsed != "ask_mental_health_specialist" {
		t.Fatalf("unexpected tool: %q", resp.ToolUsed)
	}
	if resp.Usage.MessagesUsed != 3 || resp.Usage.MessagesLimit != model.MessagesLimit {
		t.Fatalf("unexpected usage: %+v", resp.Usage)
	}
}

func TestAskEndpointAgentUnavailable(t *testing.T) {
	mux := chatMux(&fakeChatService{turnErr: service.ErrAgentUnavailable})

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"message":"hello"}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "AI service unavailable") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAskEndpointEmptyMessage(t *testing.T) {
	mux := chatMux(&fakeChatService{})

	req := httptest.NewRequest(http.MethodPost, "/ask", strings.NewReader(`{"message":""}`))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	reply := "hi"
	svc := &fakeChatService{history: []model.ChatMessage{
		{ID: "m2", UserID: "u1", Message: "second", Response: &reply, ToolUsed: "None", CreatedAt: time.Now()},
		{ID: "m1", UserID: "u1", Message: "first", Response: nil, ToolUsed: "None", CreatedAt: time.Now().Add(-time.Minute)},
	}}
	mux := chatMux(svc)

	req := httptest.NewRequest(http.MethodGet, "/chat/history?limit=10", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotLimit != 10 {
		t.Fatalf("expected limit 10, got %d", svc.gotLimit)
	}
	var resp dto.HistoryResponseDTO
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.History) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(resp.History))
	}
	if resp.History[0].ID != "m2" {
		t.Fatalf("expected newest first, got %q", resp.History[0].ID)
	}
	if resp.History[1].Response != nil {
		t.Fatal("expected null response to survive serialization")
	}
}

func TestHistoryEndpointDefaultLimit(t *testing.T) {
	svc := &fakeChatService{}
	mux := chatMux(svc)

	req := httptest.NewRequest(http.MethodGet, "/chat/history?limit=bogus", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.gotLimit != defaultHistoryLimit {
		t.Fatalf("expected default limit %d, got %d", defaultHistoryLimit, svc.gotLimit)
	}
}

func TestDeleteHistoryEndpoint(t *testing.T) {
	cases := []struct {
		name    string
		cleared bool
		want    string
	}{
		{"success", true, "Chat history cleared"},
		{"store failure", false, "Failed to clear chat history"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mux := chatMux(&fakeChatService{cleared: tc.cleared})

			req := httptest.NewRequest(http.MethodDelete, "/chat/history", nil)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			// Store failure is reported in the body, not the status.
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			var resp dto.DeleteHistoryResponseDTO
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if resp.Message != tc.want {
				t.Fatalf("expected message %q, got %q", tc.want, resp.Message)
			}
		})
	}
}

func TestHistoryEndpointError(t *testing.T) {
	mux := chatMux(&fakeChatService{historyErr: errors.New("db down")})

	req := httptest.NewRequest(http.MethodGet, "/chat/history", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
