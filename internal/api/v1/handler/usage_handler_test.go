package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/api/v1/dto"
	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/model"
)

type fakeUsageService struct {
	usage model.UsagePeriod
	err   error
}

func (f *fakeUsageService) Snapshot(ctx context.Context, userID string) (model.UsagePeriod, error) {
	return f.usage, f.err
}

func (f *fakeUsageService) RecordTurn(ctx context.Context, userID string) (model.UsagePeriod, error) {
	return f.usage, f.err
}

func (f *fakeUsageService) Reset(ctx context.Context, userID string) (model.UsagePeriod, error) {
	return f.usage, f.err
}

func TestUsageEndpoint(t *testing.T) {
	usage := model.NewUsagePeriod("u1", time.Now())
	usage.MessagesUsed = 7

	mux := http.NewServeMux()
	NewUsageHandler(&fakeUsageService{usage: usage}).RegisterRoutes(mux, testAuthMw("u1"))

	req := httptest.NewRequest(http.MethodGet, "/usage", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp dto.UsageResponseDTO
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.MessagesUsed != 7 || resp.MessagesLimit != model.MessagesLimit {
		t.Fatalf("unexpected usage: %+v", resp)
	}
	if !resp.PeriodEnds.Equal(usage.PeriodEnd) {
		t.Fatalf("expected period end %v, got %v", usage.PeriodEnd, resp.PeriodEnds)
	}
	if resp.DaysRemaining < 0 {
		t.Fatalf("days remaining must not be negative, got %d", resp.DaysRemaining)
	}
}

func TestUsageEndpointMethodNotAllowed(t *testing.T) {
	mux := http.NewServeMux()
	NewUsageHandler(&fakeUsageService{}).RegisterRoutes(mux, testAuthMw("u1"))

	req := httptest.NewRequest(http.MethodPost, "/usage", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
