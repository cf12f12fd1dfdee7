package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"go-scout-backend/internal/domain"
	"go-scout-backend/pkg/apperror"
	"go-scout-backend/pkg/security"
)

type ledgerUsecase struct {
	ledgerRepo domain.LedgerRepository
	jobRepo    domain.JobRepository
	tx         domain.Transactor
	secLog     *security.SecurityLogger
	unitCost   int64
}

// NewLedgerUsecase builds the cap plan and ticket engine. unitCost is the
// amount accrued on the cap plan per ticket unless a consumption overrides it.
func NewLedgerUsecase(
	ledgerRepo domain.LedgerRepository,
	jobRepo domain.JobRepository,
	tx domain.Transactor,
	secLog *security.SecurityLogger,
	unitCost int64,
) domain.LedgerUsecase {
	if secLog == nil {
		secLog = security.NopLogger()
	}
	return &ledgerUsecase{
		ledgerRepo: ledgerRepo,
		jobRepo:    jobRepo,
		tx:         tx,
		secLog:     secLog,
		unitCost:   unitCost,
	}
}

// TryConsume locks the ledger and then the cap plan, so concurrent charges
// against one job posting serialize. Errors are returned unmapped for the
// calling engine to interpret.
func (u *ledgerUsecase) TryConsume(ctx context.Context, jobID string, ref domain.ConsumeRef) (*domain.TicketConsumption, error) {
	var consumption *domain.TicketConsumption
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		ledger, err := u.ledgerRepo.LockLedger(ctx, jobID)
		if isNotFound(err) {
			return domain.ErrNoLedger
		}
		if err != nil {
			return err
		}

		plan, err := u.ledgerRepo.LockCapPlan(ctx, jobID)
		if isNotFound(err) {
			plan = nil
		} else if err != nil {
			return err
		}

		cost := u.unitCost
		if ref.UnitCost != nil {
			cost = *ref.UnitCost
		}
		now := time.Now()
		if err := domain.Charge(ledger, plan, cost, now); err != nil {
			u.secLog.LogBudgetExhausted(ctx, "job_posting", jobID, err.Error())
			return err
		}

		c := &domain.TicketConsumption{
			ID:              uuid.NewString(),
			JobPostingID:    jobID,
			SeekerID:        ref.SeekerID,
			ScoutID:         ref.ScoutID,
			ApplicationID:   ref.ApplicationID,
			InterviewSlotID: ref.InterviewSlotID,
			InterviewDate:   ref.InterviewDate,
			UnitCost:        cost,
			Notes:           ref.Notes,
			ConsumedAt:      now,
		}
		if err := u.ledgerRepo.InsertConsumption(ctx, c); err != nil {
			return err
		}
		ledger.UpdatedAt = now
		if err := u.ledgerRepo.SaveLedger(ctx, ledger); err != nil {
			return err
		}
		if plan != nil {
			plan.UpdatedAt = now
			if err := u.ledgerRepo.SaveCapPlan(ctx, plan); err != nil {
				return err
			}
		}
		consumption = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return consumption, nil
}

func (u *ledgerUsecase) GetCapPlan(ctx context.Context, callerID string, role domain.Role, jobID string) (*domain.JobCapPlan, error) {
	if _, err := ownedJob(ctx, u.jobRepo, callerID, role, jobID); err != nil {
		return nil, err
	}
	plan, err := u.ledgerRepo.GetCapPlan(ctx, jobID)
	if err != nil {
		return nil, mapError(err, "Cap plan")
	}
	return plan, nil
}

// SetCapPlan creates or replaces the plan's percent and limit. Accrued cost is
// kept, and the reached marker follows the new limit.
func (u *ledgerUsecase) SetCapPlan(ctx context.Context, callerID string, role domain.Role, jobID string, in domain.CapPlanInput) (*domain.JobCapPlan, error) {
	if !domain.ValidCapPercent(in.CapPercent) {
		return nil, apperror.BadRequest("cap_percent must be one of 20, 22, 25")
	}
	if _, err := ownedJob(ctx, u.jobRepo, callerID, role, jobID); err != nil {
		return nil, err
	}

	var plan *domain.JobCapPlan
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		now := time.Now()
		p, err := u.ledgerRepo.LockCapPlan(ctx, jobID)
		if isNotFound(err) {
			p = &domain.JobCapPlan{JobPostingID: jobID, CreatedAt: now}
		} else if err != nil {
			return err
		}
		p.CapPercent = in.CapPercent
		p.CapAmountLimit = in.CapAmountLimit
		p.UpdatedAt = now
		p.SyncCap(now)
		if err := u.ledgerRepo.SaveCapPlan(ctx, p); err != nil {
			return err
		}
		plan = p
		return nil
	})
	if err != nil {
		return nil, mapError(err, "Cap plan")
	}
	return plan, nil
}

func (u *ledgerUsecase) GetTickets(ctx context.Context, callerID string, role domain.Role, jobID string) (*domain.JobTicketLedger, error) {
	if _, err := ownedJob(ctx, u.jobRepo, callerID, role, jobID); err != nil {
		return nil, err
	}
	ledger, err := u.ledgerRepo.GetLedger(ctx, jobID)
	if err != nil {
		return nil, mapError(err, "Ticket ledger")
	}
	return ledger, nil
}

// modifyLedger runs fn on the locked ledger, creating it first when create
// is set, and saves the result.
func (u *ledgerUsecase) modifyLedger(ctx context.Context, jobID string, create bool, fn func(l *domain.JobTicketLedger, now time.Time) error) (*domain.JobTicketLedger, error) {
	var ledger *domain.JobTicketLedger
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		if create {
			if err := u.ledgerRepo.EnsureLedger(ctx, jobID); err != nil {
				return err
			}
		}
		l, err := u.ledgerRepo.LockLedger(ctx, jobID)
		if err != nil {
			return err
		}
		now := time.Now()
		if err := fn(l, now); err != nil {
			return err
		}
		l.UpdatedAt = now
		if err := u.ledgerRepo.SaveLedger(ctx, l); err != nil {
			return err
		}
		ledger = l
		return nil
	})
	if err != nil {
		return nil, mapError(err, "Ticket ledger")
	}
	return ledger, nil
}

func (u *ledgerUsecase) IssueTickets(ctx context.Context, callerID string, role domain.Role, jobID string, in domain.IssueTicketsInput) (*domain.JobTicketLedger, error) {
	if _, err := ownedJob(ctx, u.jobRepo, callerID, role, jobID); err != nil {
		return nil, err
	}
	return u.modifyLedger(ctx, jobID, true, func(l *domain.JobTicketLedger, _ time.Time) error {
		return l.Issue(in.Count, in.Bonus)
	})
}

// Consume charges one ticket outside any scout or interview flow.
func (u *ledgerUsecase) Consume(ctx context.Context, callerID string, role domain.Role, jobID string, in domain.ConsumeInput) (*domain.TicketConsumption, error) {
	if _, err := ownedJob(ctx, u.jobRepo, callerID, role, jobID); err != nil {
		return nil, err
	}
	c, err := u.TryConsume(ctx, jobID, domain.ConsumeRef{
		SeekerID:      in.SeekerID,
		ScoutID:       in.ScoutID,
		ApplicationID: in.ApplicationID,
		InterviewDate: in.InterviewDate,
		Notes:         in.Notes,
		UnitCost:      in.UnitCost,
	})
	if errors.Is(err, domain.ErrNoLedger) {
		return nil, apperror.NotFound("Ticket ledger not found")
	}
	if err != nil {
		return nil, mapError(err, "Ticket ledger")
	}
	return c, nil
}

func (u *ledgerUsecase) Reset(ctx context.Context, callerID string, role domain.Role, jobID string) (*domain.JobTicketLedger, error) {
	if _, err := ownedJob(ctx, u.jobRepo, callerID, role, jobID); err != nil {
		return nil, err
	}
	return u.modifyLedger(ctx, jobID, false, func(l *domain.JobTicketLedger, now time.Time) error {
		l.Reset(now)
		return nil
	})
}

func (u *ledgerUsecase) UpdateSettings(ctx context.Context, callerID string, role domain.Role, jobID string, in domain.LedgerSettingsInput) (*domain.JobTicketLedger, error) {
	if _, err := ownedJob(ctx, u.jobRepo, callerID, role, jobID); err != nil {
		return nil, err
	}
	return u.modifyLedger(ctx, jobID, true, func(l *domain.JobTicketLedger, _ time.Time) error {
		l.RolloverAllowed = in.RolloverAllowed
		return nil
	})
}

func (u *ledgerUsecase) ListConsumptions(ctx context.Context, callerID string, role domain.Role, jobID string, page domain.Page) (*domain.PaginatedResult[domain.TicketConsumption], error) {
	if _, err := ownedJob(ctx, u.jobRepo, callerID, role, jobID); err != nil {
		return nil, err
	}
	items, total, err := u.ledgerRepo.ListConsumptions(ctx, jobID, page)
	if err != nil {
		return nil, mapError(err, "Ticket ledger")
	}
	return domain.NewPaginatedResult(items, total, page), nil
}
