package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/model"
	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/repository"
	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/util"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid email or password")
)

type AuthService interface {
	// Register creates an account, initializes its usage period, and returns
	// the user with a fresh access token.
	Register(ctx context.Context, email, password string, fullName *string) (*model.User, string, error)
	// Login checks credentials and returns the user with a fresh access token.
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	// GetUser returns the user's profile.
	GetUser(ctx context.Context, id string) (*model.User, error)
}

type authService struct {
	userRepo  repository.UserRepository
	usageRepo repository.UsageRepository
	jwtSecret string
	logger    zerolog.Logger
}

func NewAuthService(userRepo repository.UserRepository, usageRepo repository.UsageRepository, jwtSecret string, logger zerolog.Logger) AuthService {
	return &authService{
		userRepo:  userRepo,
		usageRepo: usageRepo,
		jwtSecret: jwtSecret,
		logger:    logger.With().Str("service", "AuthService").Logger(),
	}
}

func (s *authService) Register(ctx context.Context, email, password string, fullName *string) (*model.User, string, error) {
	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrEmailAlreadyRegistered
		}
		s.logger.Error().Err(err).Str("email", email).Msg("Failed to create user")
		return nil, "", fmt.Errorf("creating user: %w", err)
	}

	if _, err := s.usageRepo.Reset(ctx, user.ID, time.Now()); err != nil {
		// The usage record self-heals on first read, so registration
		// still succeeds.
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("Failed to initialize usage period")
	}

	token, err := util.CreateJWT(user.ID, user.Email, s.jwtSecret)
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("Failed to look up user")
		return nil, "", fmt.Errorf("looking up user: %w", err)
	}
	if user == nil || !util.VerifyPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := util.CreateJWT(user.ID, user.Email, s.jwtSecret)
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}
	return user, token, nil
}

func (s *authService) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}
