package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Aftab073/SAFESPACE-AI-AGENT/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UsageRepository tracks per-user monthly message counts.
type UsageRepository interface {
	// Get returns the user's current usage period, creating a fresh
	// zero-count record if none exists.
	Get(ctx context.Context, userID string, now time.Time) (model.UsagePeriod, error)
	// Increment records one chat turn. It lazily initializes a missing
	// record, rolls the period over when now is past period_end (the turn
	// counts as the new period's first message), and returns the
	// post-increment snapshot. The row is locked for the duration of the
	// transaction so concurrent turns from the same user serialize.
	Increment(ctx context.Context, userID string, now time.Time) (model.UsagePeriod, error)
	// Reset unconditionally recomputes the period from now and zeroes the
	// counter.
	Reset(ctx context.Context, userID string, now time.Time) (model.UsagePeriod, error)
}

type usageRepo struct {
	pool *pgxpool.Pool
}

// NewUsageRepo creates a new UsageRepository.
func NewUsageRepo(pool *pgxpool.Pool) UsageRepository {
	return &usageRepo{pool: pool}
}

const selectUsageQ = `
	SELECT user_id, messages_used, period_start, period_end, last_reset
	FROM usage_periods
	WHERE user_id = $1
`

const upsertUsageQ = `
	INSERT INTO usage_periods (user_id, messages_used, period_start, period_end, last_reset)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (user_id) DO UPDATE
	SET messages_used = EXCLUDED.messages_used,
	    period_start  = EXCLUDED.period_start,
	    period_end    = EXCLUDED.period_end,
	    last_reset    = EXCLUDED.last_reset
`

// insertUsageQ initializes a missing row without touching one a concurrent
// transaction may have written first.
const insertUsageQ = `
	INSERT INTO usage_periods (user_id, messages_used, period_start, period_end, last_reset)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (user_id) DO NOTHING
`

func (r *usageRepo) Get(ctx context.Context, userID string, now time.Time) (model.UsagePeriod, error) {
	var u model.UsagePeriod
	err := r.pool.QueryRow(ctx, selectUsageQ, userID).Scan(
		&u.UserID, &u.MessagesUsed, &u.PeriodStart, &u.PeriodEnd, &u.LastReset,
	)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.UsagePeriod{}, fmt.Errorf("getting usage for user %s: %w", userID, err)
	}

	// Self-healing: accounts created before usage tracking get a record on
	// first read. Insert-if-absent, then re-read whichever row won.
	fresh := model.NewUsagePeriod(userID, now)
	if _, err := r.pool.Exec(ctx, insertUsageQ,
		fresh.UserID, fresh.MessagesUsed, fresh.PeriodStart, fresh.PeriodEnd, fresh.LastReset,
	); err != nil {
		return model.UsagePeriod{}, fmt.Errorf("initializing usage for user %s: %w", userID, err)
	}
	err = r.pool.QueryRow(ctx, selectUsageQ, userID).Scan(
		&u.UserID, &u.MessagesUsed, &u.PeriodStart, &u.PeriodEnd, &u.LastReset,
	)
	if err != nil {
		return model.UsagePeriod{}, fmt.Errorf("getting usage for user %s: %w", userID, err)
	}
	return u, nil
}

func (r *usageRepo) Increment(ctx context.Context, userID string, now time.Time) (model.UsagePeriod, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return model.UsagePeriod{}, fmt.Errorf("starting usage transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	// A missing row cannot be locked, so initialize it with insert-if-absent
	// and re-select. The second select always finds a row to lock, whether
	// this transaction created it or a concurrent one did.
	var current model.UsagePeriod
	err = tx.QueryRow(ctx, selectUsageQ+" FOR UPDATE", userID).Scan(
		&current.UserID, &current.MessagesUsed, &current.PeriodStart, &current.PeriodEnd, &current.LastReset,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		fresh := model.NewUsagePeriod(userID, now)
		if _, err := tx.Exec(ctx, insertUsageQ,
			fresh.UserID, fresh.MessagesUsed, fresh.PeriodStart, fresh.PeriodEnd, fresh.LastReset,
		); err != nil {
			return model.UsagePeriod{}, fmt.Errorf("initializing usage for user %s: %w", userID, err)
		}
		err = tx.QueryRow(ctx, selectUsageQ+" FOR UPDATE", userID).Scan(
			&current.UserID, &current.MessagesUsed, &current.PeriodStart, &current.PeriodEnd, &current.LastReset,
		)
	}
	if err != nil {
		return model.UsagePeriod{}, fmt.Errorf("locking usage row for user %s: %w", userID, err)
	}

	next := current.Advance(now)
	if _, err := tx.Exec(ctx, upsertUsageQ,
		next.UserID, next.MessagesUsed, next.PeriodStart, next.PeriodEnd, next.LastReset,
	); err != nil {
		return model.UsagePeriod{}, fmt.Errorf("recording usage for user %s: %w", userID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.UsagePeriod{}, fmt.Errorf("committing usage for user %s: %w", userID, err)
	}
	return next, nil
}

func (r *usageRepo) Reset(ctx context.Context, userID string, now time.Time) (model.UsagePeriod, error) {
	fresh := model.NewUsagePeriod(userID, now)
	if _, err := r.pool.Exec(ctx, upsertUsageQ,
		fresh.UserID, fresh.MessagesUsed, fresh.PeriodStart, fresh.PeriodEnd, fresh.LastReset,
	); err != nil {
		return model.UsagePeriod{}, fmt.Errorf("resetting usage for user %s: %w", userID, err)
	}
	return fresh, nil
}
