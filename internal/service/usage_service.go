package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/model"
	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/repository"

	"github.com/rs/zerolog"
)

// UsageService exposes the per-user monthly usage tracker. It counts usage
// only; the limit is attached to responses by callers and nothing rejects
// traffic past it.
type UsageService interface {
	// Snapshot returns the current usage period, lazily initializing a
	// missing record.
	Snapshot(ctx context.Context, userID string) (model.UsagePeriod, error)
	// RecordTurn counts one chat turn, rolling the period over first if it
	// has lapsed, and returns the post-increment snapshot.
	RecordTurn(ctx context.Context, userID string) (model.UsagePeriod, error)
	// Reset recomputes the period from now and zeroes the counter.
	Reset(ctx context.Context, userID string) (model.UsagePeriod, error)
}

type usageService struct {
	repo   repository.UsageRepository
	logger zerolog.Logger
}

func NewUsageService(repo repository.UsageRepository, logger zerolog.Logger) UsageService {
	return &usageService{
		repo:   repo,
		logger: logger.With().Str("service", "UsageService").Logger(),
	}
}

func (s *usageService) Snapshot(ctx context.Context, userID string) (model.UsagePeriod, error) {
	usage, err := s.repo.Get(ctx, userID, time.Now())
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to read usage")
		return model.UsagePeriod{}, fmt.Errorf("reading usage: %w", err)
	}
	return usage, nil
}

func (s *usageService) RecordTurn(ctx context.Context, userID string) (model.UsagePeriod, error) {
	usage, err := s.repo.Increment(ctx, userID, time.Now())
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to record turn")
		return model.UsagePeriod{}, fmt.Errorf("recording turn: %w", err)
	}
	return usage, nil
}

func (s *usageService) Reset(ctx context.Context, userID string) (model.UsagePeriod, error) {
	usage, err := s.repo.Reset(ctx, userID, time.Now())
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to reset usage")
		return model.UsagePeriod{}, fmt.Errorf("resetting usage: %w", err)
	}
	return usage, nil
}
