package dto

import "time"

// RegisterRequestDTO is the account-creation payload. Password length is
// bounded to bcrypt's 72-byte input limit.
type RegisterRequestDTO struct {
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
	FullName *string `json:"full_name,omitempty"`
}

type LoginRequestDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserResponseDTO is returned in API responses
type UserResponseDTO struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  *string   `json:"full_name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type TokenResponseDTO struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	User        UserResponseDTO `json:"user"`
}
