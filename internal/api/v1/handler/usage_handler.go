package handler

import (
	"net/http"
	"time"

	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/api/v1/dto"
	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/middleware"
	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/model"
	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/service"
)

type UsageHandler struct {
	usageService service.UsageService
}

func NewUsageHandler(usageService service.UsageService) *UsageHandler {
	return &UsageHandler{usageService: usageService}
}

func (h *UsageHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/usage", authMw(http.HandlerFunc(h.getUsage)))
}

func (h *UsageHandler) getUsage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	usage, err := h.usageService.Snapshot(r.Context(), userID)
	if err != nil {
		http.Error(w, "Failed to retrieve usage: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, dto.UsageResponseDTO{
		MessagesUsed:  usage.MessagesUsed,
		MessagesLimit: model.MessagesLimit,
		PeriodEnds:    usage.PeriodEnd,
		DaysRemaining: usage.DaysRemaining(time.Now()),
	})
}
