package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/api/v1/dto"
	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/middleware"
	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/model"
	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/service"

	"github.com/go-playground/validator/v10"
)

// maxPasswordBytes is bcrypt's input limit.
const maxPasswordBytes = 72

type AuthHandler struct {
	authService service.AuthService
	validate    *validator.Validate
}

func NewAuthHandler(authService service.AuthService, v *validator.Validate) *AuthHandler {
	return &AuthHandler{authService: authService, validate: v}
}

// RegisterRoutes mounts auth routes. Register and login are public; the
// profile route sits behind the auth middleware.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.HandleFunc("/auth/register", h.register)
	mux.HandleFunc("/auth/login", h.login)
	mux.Handle("/auth/me", authMw(http.HandlerFunc(h.me)))
}

// register godoc
// @Summary Register new user account
// @Accept json
// @Produce json
// @Param user body dto.RegisterRequestDTO true "Registration request"
// @Success 201 {object} dto.TokenResponseDTO
// @Router /auth/register [post]
func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.RegisterRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	// The validator's max counts runes; bcrypt's input limit is bytes.
	if len(req.Password) > maxPasswordBytes {
		http.Error(w, "Validation failed: password must be at most 72 bytes", http.StatusBadRequest)
		return
	}

	user, token, err := h.authService.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyRegistered) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to register: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, tokenResponse(user, token))
}

// login godoc
// @Summary Login and receive a JWT access token
// @Accept json
// @Produce json
// @Param credentials body dto.LoginRequestDTO true "Login request"
// @Success 200 {object} dto.TokenResponseDTO
// @Router /auth/login [post]
func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	var req dto.LoginRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	user, token, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
		http.Error(w, "Failed to login: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse(user, token))
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "Unauthorized: User ID not found in context", http.StatusUnauthorized)
		return
	}

	user, err := h.authService.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, userDTO(user))
}

func tokenResponse(user *model.User, token string) dto.TokenResponseDTO {
	return dto.TokenResponseDTO{
		AccessToken: token,
		TokenType:   "bearer",
		User:        userDTO(user),
	}
}

func userDTO(user *model.User) dto.UserResponseDTO {
	return dto.UserResponseDTO{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
