package model

import "time"

// MessagesLimit is the monthly message allowance reported to clients. The
// limit is reported, not enforced: requests past it still go through.
const MessagesLimit = 50

// UsagePeriod tracks one user's message count over a calendar-month window.
// The record is replaced, not merged, when the period rolls over.
type UsagePeriod struct {
	UserID       string    `db:"user_id" json:"user_id"`
	MessagesUsed int       `db:"messages_used" json:"messages_used"`
	PeriodStart  time.Time `db:"period_start" json:"period_start"`
	PeriodEnd    time.Time `db:"period_end" json:"period_end"`
	LastReset    time.Time `db:"last_reset" json:"last_reset"`
}

// MonthBounds returns the first and last instant of now's calendar month in
// UTC. The end is the final second of the month (23:59:59 on the last day),
// so rollover is the strict comparison now > end.
func MonthBounds(now time.Time) (start, end time.Time) {
	now = now.UTC()
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end = start.AddDate(0, 1, 0).Add(-time.Second)
	return start, end
}

// NewUsagePeriod returns a zero-count period bracketing now's calendar month.
func NewUsagePeriod(userID string, now time.Time) UsagePeriod {
	start, end := MonthBounds(now)
	return UsagePeriod{
		UserID:      userID,
		PeriodStart: start,
		PeriodEnd:   end,
		LastReset:   now.UTC(),
	}
}

// Expired reports whether now falls past the period end.
func (u UsagePeriod) Expired(now time.Time) bool {
	return now.UTC().After(u.PeriodEnd)
}

// Advance returns the state after one chat turn at now: a plain increment
// inside the current period, or a fresh period counting this turn as its
// first message when the old one has lapsed.
func (u UsagePeriod) Advance(now time.Time) UsagePeriod {
	if u.Expired(now) {
		next := NewUsagePeriod(u.UserID, now)
		next.MessagesUsed = 1
		return next
	}
	u.MessagesUsed++
	return u
}

// DaysRemaining returns whole days until the period ends, floored at zero.
func (u UsagePeriod) DaysRemaining(now time.Time) int {
	d := int(u.PeriodEnd.Sub(now.UTC()).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}
