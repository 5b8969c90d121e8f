package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/api/v1/dto"
	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/middleware"
	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/model"
	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

const defaultHistoryLimit = 50

type ChatHandler struct {
	chatService service.ChatService
	validate    *validator.Validate
	logger      zerolog.Logger
}

func NewChatHandler(chatService service.ChatService, v *validator.Validate, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{chatService: chatService, validate: v, logger: logger}
}

func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/ask", authMw(http.HandlerFunc(h.ask)))
	mux.Handle("/chat/history", authMw(http.HandlerFunc(h.handleHistory)))
}

// ask godoc
// @Summary Chat with the AI agent
// @Description Forwards the message to the agent, records usage, and persists the turn.
// @Accept json
// @Produce json
// @Param query body dto.AskRequestDTO true "User message"
// @Success 200 {object} dto.AskResponseDTO
// @Failure 502 {string} string "Agent unavailable"
// @Router /ask [post]
func (h *ChatHandler) ask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	var req dto.AskRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.chatService.HandleTurn(r.Context(), userID, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrAgentUnavailable) {
			http.Error(w, "AI service unavailable, please try again later", http.StatusBadGateway)
			return
		}
		http.Error(w, "Failed to process message: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, dto.AskResponseDTO{
		Response: result.Response,
		ToolUsed: result.ToolUsed,
		Usage: dto.UsageSnapshotDTO{
			MessagesUsed:  result.Usage.MessagesUsed,
			MessagesLimit: model.MessagesLimit,
		},
	})
}

func (h *ChatHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.getHistory(w, r)
	case http.MethodDelete:
		h.deleteHistory(w, r)
	default:
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func (h *ChatHandler) getHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	limit := defaultHistoryLimit
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			limit = l
		}
	}

	messages, err := h.chatService.History(r.Context(), userID, limit)
	if err != nil {
		http.Error(w, "Failed to retrieve chat history: "+err.Error(), http.StatusInternalServerError)
		return
	}

	history := make([]dto.ChatMessageDTO, 0, len(messages))
	for _, msg := range messages {
		history = append(history, dto.ChatMessageDTO{
			ID:        msg.ID,
			Message:   msg.Message,
			Response:  msg.Response,
			ToolUsed:  msg.ToolUsed,
			CreatedAt: msg.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, dto.HistoryResponseDTO{History: history})
}

// deleteHistory reports store failure in the 200 response body rather than
// through the status code.
func (h *ChatHandler) deleteHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	msg := "Chat history cleared"
	if !h.chatService.ClearHistory(r.Context(), userID) {
		msg = "Failed to clear chat history"
	}
	writeJSON(w, http.StatusOK, dto.DeleteHistoryResponseDTO{Message: msg})
}
