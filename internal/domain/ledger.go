package domain

import (
	"context"
	"errors"
	"time"
)

// ErrNoLedger means ticketing is not configured for the job posting.
var ErrNoLedger = errors.New("job posting has no ticket ledger")

var capPercents = [...]int{20, 22, 25}

func ValidCapPercent(p int) bool {
	for _, v := range capPercents {
		if v == p {
			return true
		}
	}
	return false
}

// JobCapPlan bounds spend on one job posting. CapReachedAt is set exactly when
// CapAmountLimit is set and TotalCost has reached it.
type JobCapPlan struct {
	JobPostingID   string     `json:"job_posting_id"`
	CapPercent     int        `json:"cap_percent"`
	CapAmountLimit *int64     `json:"cap_amount_limit,omitempty"`
	TotalCost      int64      `json:"total_cost"`
	CapReachedAt   *time.Time `json:"cap_reached_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (p *JobCapPlan) IsCapped() bool {
	return p.CapReachedAt != nil
}

// SyncCap stamps CapReachedAt when the limit is reached and clears it when a
// limit change puts the plan back under.
func (p *JobCapPlan) SyncCap(now time.Time) {
	if p.CapAmountLimit != nil && p.TotalCost >= *p.CapAmountLimit {
		if p.CapReachedAt == nil {
			t := now
			p.CapReachedAt = &t
		}
		return
	}
	p.CapReachedAt = nil
}

type JobTicketLedger struct {
	JobPostingID      string     `json:"job_posting_id"`
	TicketsTotal      int        `json:"tickets_total"`
	TicketsUsed       int        `json:"tickets_used"`
	BonusTicketsTotal int        `json:"bonus_tickets_total"`
	RolloverAllowed   bool       `json:"rollover_allowed"`
	LastResetAt       *time.Time `json:"last_reset_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (l *JobTicketLedger) Available() int {
	if n := l.TicketsTotal + l.BonusTicketsTotal - l.TicketsUsed; n > 0 {
		return n
	}
	return 0
}

// Issue adds n tickets to the regular or bonus pool. Totals never decrease.
func (l *JobTicketLedger) Issue(n int, bonus bool) error {
	if n <= 0 {
		return ErrValidation
	}
	if bonus {
		l.BonusTicketsTotal += n
	} else {
		l.TicketsTotal += n
	}
	return nil
}

// Reset starts a new period. Without rollover the used counter returns to
// zero; with rollover unused tickets carry over and counters are untouched.
// Past consumptions are never removed.
func (l *JobTicketLedger) Reset(now time.Time) {
	if !l.RolloverAllowed {
		l.TicketsUsed = 0
	}
	t := now
	l.LastResetAt = &t
}

// Charge spends one ticket from ledger and accrues cost on plan (which may be
// nil). Nothing is mutated when the charge is denied.
func Charge(ledger *JobTicketLedger, plan *JobCapPlan, cost int64, now time.Time) error {
	if plan != nil && plan.IsCapped() {
		return ErrCapReached
	}
	if ledger.Available() == 0 {
		return ErrTicketsExhausted
	}
	ledger.TicketsUsed++
	if plan != nil {
		plan.TotalCost += cost
		plan.SyncCap(now)
	}
	return nil
}

// TicketConsumption is one charged unit, linked to whatever triggered it.
type TicketConsumption struct {
	ID              string     `json:"id"`
	JobPostingID    string     `json:"job_posting_id"`
	SeekerID        *string    `json:"seeker_id,omitempty"`
	ScoutID         *string    `json:"scout_id,omitempty"`
	ApplicationID   *string    `json:"application_id,omitempty"`
	InterviewSlotID *string    `json:"interview_slot_id,omitempty"`
	InterviewDate   *time.Time `json:"interview_date,omitempty"`
	UnitCost        int64      `json:"unit_cost"`
	Notes           string     `json:"notes"`
	ConsumedAt      time.Time  `json:"consumed_at"`
}

// ConsumeRef names the trigger of a consumption.
type ConsumeRef struct {
	SeekerID        *string
	ScoutID         *string
	ApplicationID   *string
	InterviewSlotID *string
	InterviewDate   *time.Time
	Notes           string
	// UnitCost overrides the configured per-ticket cost when non-nil.
	UnitCost *int64
}

type CapPlanInput struct {
	CapPercent     int    `json:"cap_percent" binding:"required,cap_percent"`
	CapAmountLimit *int64 `json:"cap_amount_limit" binding:"omitempty,gte=0"`
}

type IssueTicketsInput struct {
	Count int  `json:"count" binding:"required,gt=0,lte=10000"`
	Bonus bool `json:"bonus"`
}

type ConsumeInput struct {
	SeekerID      *string    `json:"seeker_id" binding:"omitempty,uuid"`
	ScoutID       *string    `json:"scout_id" binding:"omitempty,uuid"`
	ApplicationID *string    `json:"application_id" binding:"omitempty,uuid"`
	InterviewDate *time.Time `json:"interview_date"`
	Notes         string     `json:"notes" binding:"max=1000"`
	UnitCost      *int64     `json:"unit_cost" binding:"omitempty,gte=0"`
}

type LedgerSettingsInput struct {
	RolloverAllowed bool `json:"rollover_allowed"`
}

type LedgerRepository interface {
	GetCapPlan(ctx context.Context, jobID string) (*JobCapPlan, error)
	// LockCapPlan reads the plan FOR UPDATE; ErrNotFound when absent.
	LockCapPlan(ctx context.Context, jobID string) (*JobCapPlan, error)
	SaveCapPlan(ctx context.Context, plan *JobCapPlan) error
	GetLedger(ctx context.Context, jobID string) (*JobTicketLedger, error)
	// LockLedger reads the ledger FOR UPDATE; ErrNotFound when absent.
	LockLedger(ctx context.Context, jobID string) (*JobTicketLedger, error)
	// EnsureLedger creates an empty ledger if none exists.
	EnsureLedger(ctx context.Context, jobID string) error
	SaveLedger(ctx context.Context, ledger *JobTicketLedger) error
	InsertConsumption(ctx context.Context, c *TicketConsumption) error
	ListConsumptions(ctx context.Context, jobID string, page Page) ([]TicketConsumption, int64, error)
}

// TicketCharger is the slice of the ledger engine other engines depend on.
type TicketCharger interface {
	// TryConsume charges one ticket inside the caller's transaction. It
	// returns ErrNoLedger when ticketing is not configured for jobID.
	TryConsume(ctx context.Context, jobID string, ref ConsumeRef) (*TicketConsumption, error)
}

type LedgerUsecase interface {
	TicketCharger
	GetCapPlan(ctx context.Context, callerID string, role Role, jobID string) (*JobCapPlan, error)
	SetCapPlan(ctx context.Context, callerID string, role Role, jobID string, in CapPlanInput) (*JobCapPlan, error)
	GetTickets(ctx context.Context, callerID string, role Role, jobID string) (*JobTicketLedger, error)
	IssueTickets(ctx context.Context, callerID string, role Role, jobID string, in IssueTicketsInput) (*JobTicketLedger, error)
	Consume(ctx context.Context, callerID string, role Role, jobID string, in ConsumeInput) (*TicketConsumption, error)
	Reset(ctx context.Context, callerID string, role Role, jobID string) (*JobTicketLedger, error)
	UpdateSettings(ctx context.Context, callerID string, role Role, jobID string, in LedgerSettingsInput) (*JobTicketLedger, error)
	ListConsumptions(ctx context.Context, callerID string, role Role, jobID string, page Page) (*PaginatedResult[TicketConsumption], error)
}
