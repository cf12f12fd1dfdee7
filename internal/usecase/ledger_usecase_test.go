package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-scout-backend/internal/domain"
	"go-scout-backend/internal/usecase"
	"go-scout-backend/pkg/apperror"
)

func newLedgerFixture() (*MockLedgerRepo, *MockJobRepo, domain.LedgerUsecase) {
	ledgerRepo := new(MockLedgerRepo)
	jobRepo := new(MockJobRepo)
	uc := usecase.NewLedgerUsecase(ledgerRepo, jobRepo, &fakeTx{}, nil, 15)
	return ledgerRepo, jobRepo, uc
}

func notFoundErr(what string) error {
	return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
}

func TestLedgerTryConsume(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reach the cap on the charge that crosses the limit and refuse the next", func(t *testing.T) {
		ledgerRepo, _, uc := newLedgerFixture()
		ledger := &domain.JobTicketLedger{JobPostingID: "job1", TicketsTotal: 10}
		plan := &domain.JobCapPlan{JobPostingID: "job1", CapPercent: 20, CapAmountLimit: int64Ptr(100), TotalCost: 90}
		ledgerRepo.On("LockLedger", mock.Anything, "job1").Return(ledger, nil)
		ledgerRepo.On("LockCapPlan", mock.Anything, "job1").Return(plan, nil)
		ledgerRepo.On("InsertConsumption", mock.Anything, mock.AnythingOfType("*domain.TicketConsumption")).Return(nil)
		ledgerRepo.On("SaveLedger", mock.Anything, ledger).Return(nil)
		ledgerRepo.On("SaveCapPlan", mock.Anything, plan).Return(nil)

		c, err := uc.TryConsume(ctx, "job1", domain.ConsumeRef{Notes: "first"})
		require.NoError(t, err)
		assert.Equal(t, int64(15), c.UnitCost)
		assert.Equal(t, "job1", c.JobPostingID)
		assert.Equal(t, int64(105), plan.TotalCost)
		assert.NotNil(t, plan.CapReachedAt)
		assert.Equal(t, 1, ledger.TicketsUsed)

		_, err = uc.TryConsume(ctx, "job1", domain.ConsumeRef{Notes: "second"})
		assert.ErrorIs(t, err, domain.ErrCapReached)
		assert.ErrorIs(t, err, domain.ErrBudgetExhausted)
		assert.Equal(t, 1, ledger.TicketsUsed)
		assert.Equal(t, int64(105), plan.TotalCost)
		ledgerRepo.AssertNumberOfCalls(t, "InsertConsumption", 1)
		ledgerRepo.AssertNumberOfCalls(t, "SaveLedger", 1)
	})

	t.Run("Should report ErrNoLedger when ticketing is not configured", func(t *testing.T) {
		ledgerRepo, _, uc := newLedgerFixture()
		ledgerRepo.On("LockLedger", mock.Anything, "job1").Return(nil, notFoundErr("ticket ledger"))

		_, err := uc.TryConsume(ctx, "job1", domain.ConsumeRef{})
		assert.ErrorIs(t, err, domain.ErrNoLedger)
		ledgerRepo.AssertNotCalled(t, "InsertConsumption", mock.Anything, mock.Anything)
	})

	t.Run("Should charge without a cap plan", func(t *testing.T) {
		ledgerRepo, _, uc := newLedgerFixture()
		ledger := &domain.JobTicketLedger{JobPostingID: "job1", TicketsTotal: 1}
		ledgerRepo.On("LockLedger", mock.Anything, "job1").Return(ledger, nil)
		ledgerRepo.On("LockCapPlan", mock.Anything, "job1").Return(nil, notFoundErr("cap plan"))
		ledgerRepo.On("InsertConsumption", mock.Anything, mock.Anything).Return(nil)
		ledgerRepo.On("SaveLedger", mock.Anything, ledger).Return(nil)

		scoutID := "scout1"
		c, err := uc.TryConsume(ctx, "job1", domain.ConsumeRef{ScoutID: &scoutID, UnitCost: int64Ptr(3)})
		require.NoError(t, err)
		assert.Equal(t, &scoutID, c.ScoutID)
		assert.Equal(t, int64(3), c.UnitCost)
		assert.Equal(t, 0, ledger.Available())
		ledgerRepo.AssertNotCalled(t, "SaveCapPlan", mock.Anything, mock.Anything)
	})

	t.Run("Should refuse when no tickets remain and leave counters untouched", func(t *testing.T) {
		ledgerRepo, _, uc := newLedgerFixture()
		ledger := &domain.JobTicketLedger{JobPostingID: "job1", TicketsTotal: 1, TicketsUsed: 1}
		ledgerRepo.On("LockLedger", mock.Anything, "job1").Return(ledger, nil)
		ledgerRepo.On("LockCapPlan", mock.Anything, "job1").Return(nil, notFoundErr("cap plan"))

		_, err := uc.TryConsume(ctx, "job1", domain.ConsumeRef{})
		assert.ErrorIs(t, err, domain.ErrTicketsExhausted)
		assert.Equal(t, 1, ledger.TicketsUsed)
		ledgerRepo.AssertNotCalled(t, "SaveLedger", mock.Anything, mock.Anything)
	})
}

func TestLedgerManagement(t *testing.T) {
	ctx := context.Background()
	job := &domain.JobPosting{ID: "job1", CompanyID: "co1", Status: domain.JobStatusOpen}

	t.Run("Should forbid managing another company's job posting", func(t *testing.T) {
		_, jobRepo, uc := newLedgerFixture()
		jobRepo.On("GetByID", mock.Anything, "job1").Return(job, nil)

		_, err := uc.GetTickets(ctx, "co2", domain.RoleCompany, "job1")
		assert.Equal(t, apperror.CodeForbidden, apperror.CodeOf(err))
	})

	t.Run("Should let admins read any ledger", func(t *testing.T) {
		ledgerRepo, jobRepo, uc := newLedgerFixture()
		jobRepo.On("GetByID", mock.Anything, "job1").Return(job, nil)
		ledgerRepo.On("GetLedger", mock.Anything, "job1").Return(&domain.JobTicketLedger{JobPostingID: "job1"}, nil)

		l, err := uc.GetTickets(ctx, "admin1", domain.RoleAdmin, "job1")
		require.NoError(t, err)
		assert.Equal(t, "job1", l.JobPostingID)
	})

	t.Run("Should map a missing ledger on manual consume to not_found", func(t *testing.T) {
		ledgerRepo, jobRepo, uc := newLedgerFixture()
		jobRepo.On("GetByID", mock.Anything, "job1").Return(job, nil)
		ledgerRepo.On("LockLedger", mock.Anything, "job1").Return(nil, notFoundErr("ticket ledger"))

		_, err := uc.Consume(ctx, "co1", domain.RoleCompany, "job1", domain.ConsumeInput{})
		assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
	})

	t.Run("Should map exhausted tickets on manual consume to budget_exhausted", func(t *testing.T) {
		ledgerRepo, jobRepo, uc := newLedgerFixture()
		jobRepo.On("GetByID", mock.Anything, "job1").Return(job, nil)
		ledgerRepo.On("LockLedger", mock.Anything, "job1").Return(&domain.JobTicketLedger{JobPostingID: "job1"}, nil)
		ledgerRepo.On("LockCapPlan", mock.Anything, "job1").Return(nil, notFoundErr("cap plan"))

		_, err := uc.Consume(ctx, "co1", domain.RoleCompany, "job1", domain.ConsumeInput{})
		assert.Equal(t, apperror.CodeBudgetExhausted, apperror.CodeOf(err))
	})

	t.Run("Should reject cap percents outside the allowed set", func(t *testing.T) {
		_, _, uc := newLedgerFixture()
		_, err := uc.SetCapPlan(ctx, "co1", domain.RoleCompany, "job1", domain.CapPlanInput{CapPercent: 30})
		assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
	})

	t.Run("Should mark the plan capped when the new limit is already exceeded", func(t *testing.T) {
		ledgerRepo, jobRepo, uc := newLedgerFixture()
		jobRepo.On("GetByID", mock.Anything, "job1").Return(job, nil)
		plan := &domain.JobCapPlan{JobPostingID: "job1", CapPercent: 20, TotalCost: 120}
		ledgerRepo.On("LockCapPlan", mock.Anything, "job1").Return(plan, nil)
		ledgerRepo.On("SaveCapPlan", mock.Anything, plan).Return(nil)

		got, err := uc.SetCapPlan(ctx, "co1", domain.RoleCompany, "job1", domain.CapPlanInput{CapPercent: 25, CapAmountLimit: int64Ptr(100)})
		require.NoError(t, err)
		assert.Equal(t, 25, got.CapPercent)
		assert.NotNil(t, got.CapReachedAt)

		got, err = uc.SetCapPlan(ctx, "co1", domain.RoleCompany, "job1", domain.CapPlanInput{CapPercent: 25, CapAmountLimit: int64Ptr(200)})
		require.NoError(t, err)
		assert.Nil(t, got.CapReachedAt)
	})

	t.Run("Should create a plan when none exists", func(t *testing.T) {
		ledgerRepo, jobRepo, uc := newLedgerFixture()
		jobRepo.On("GetByID", mock.Anything, "job1").Return(job, nil)
		ledgerRepo.On("LockCapPlan", mock.Anything, "job1").Return(nil, notFoundErr("cap plan"))
		ledgerRepo.On("SaveCapPlan", mock.Anything, mock.AnythingOfType("*domain.JobCapPlan")).Return(nil)

		got, err := uc.SetCapPlan(ctx, "co1", domain.RoleCompany, "job1", domain.CapPlanInput{CapPercent: 22})
		require.NoError(t, err)
		assert.Equal(t, "job1", got.JobPostingID)
		assert.Equal(t, int64(0), got.TotalCost)
		assert.Nil(t, got.CapReachedAt)
	})

	t.Run("Should add bonus tickets to an ensured ledger", func(t *testing.T) {
		ledgerRepo, jobRepo, uc := newLedgerFixture()
		jobRepo.On("GetByID", mock.Anything, "job1").Return(job, nil)
		ledger := &domain.JobTicketLedger{JobPostingID: "job1", TicketsTotal: 2}
		ledgerRepo.On("EnsureLedger", mock.Anything, "job1").Return(nil)
		ledgerRepo.On("LockLedger", mock.Anything, "job1").Return(ledger, nil)
		ledgerRepo.On("SaveLedger", mock.Anything, ledger).Return(nil)

		got, err := uc.IssueTickets(ctx, "co1", domain.RoleCompany, "job1", domain.IssueTicketsInput{Count: 3, Bonus: true})
		require.NoError(t, err)
		assert.Equal(t, 2, got.TicketsTotal)
		assert.Equal(t, 3, got.BonusTicketsTotal)
		assert.Equal(t, 5, got.Available())
	})

	t.Run("Should zero used tickets on reset unless rollover is allowed", func(t *testing.T) {
		ledgerRepo, jobRepo, uc := newLedgerFixture()
		jobRepo.On("GetByID", mock.Anything, "job1").Return(job, nil)
		ledger := &domain.JobTicketLedger{JobPostingID: "job1", TicketsTotal: 5, TicketsUsed: 4}
		ledgerRepo.On("LockLedger", mock.Anything, "job1").Return(ledger, nil)
		ledgerRepo.On("SaveLedger", mock.Anything, ledger).Return(nil)

		got, err := uc.Reset(ctx, "co1", domain.RoleCompany, "job1")
		require.NoError(t, err)
		assert.Equal(t, 0, got.TicketsUsed)
		assert.NotNil(t, got.LastResetAt)

		ledger.RolloverAllowed = true
		ledger.TicketsUsed = 2
		got, err = uc.Reset(ctx, "co1", domain.RoleCompany, "job1")
		require.NoError(t, err)
		assert.Equal(t, 2, got.TicketsUsed)
		assert.Equal(t, 3, got.Available())
	})
}
