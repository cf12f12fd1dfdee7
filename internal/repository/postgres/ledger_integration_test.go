//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-scout-backend/internal/domain"
	"go-scout-backend/internal/repository/postgres"
	"go-scout-backend/internal/usecase"
	"go-scout-backend/pkg/database"
	"go-scout-backend/pkg/testhelpers"
)

func seedJob(t *testing.T, repo domain.JobRepository, companyID string) *domain.JobPosting {
	t.Helper()
	now := time.Now().UTC()
	job := &domain.JobPosting{
		ID: uuid.NewString(), CompanyID: companyID, Title: "Backend engineer",
		Status: domain.JobStatusOpen, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.Create(context.Background(), job))
	return job
}

func TestLedgerConcurrencyIntegration(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	db.Truncate(t)
	ctx := context.Background()

	users := postgres.NewUserRepository(db.Pool)
	jobs := postgres.NewJobRepository(db.Pool)
	ledgers := postgres.NewLedgerRepository(db.Pool)
	uc := usecase.NewLedgerUsecase(ledgers, jobs, database.NewTxManager(db.Pool), nil, 15)

	company := seedUser(t, users, domain.RoleCompany)

	t.Run("Should grant exactly the available tickets to N concurrent consumers", func(t *testing.T) {
		const n, k = 20, 7
		job := seedJob(t, jobs, company.ID)
		_, err := uc.IssueTickets(ctx, company.ID, domain.RoleCompany, job.ID, domain.IssueTicketsInput{Count: k})
		require.NoError(t, err)

		var wg sync.WaitGroup
		results := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := uc.TryConsume(ctx, job.ID, domain.ConsumeRef{Notes: "concurrent"})
				results <- err
			}()
		}
		wg.Wait()
		close(results)

		ok, denied := 0, 0
		for err := range results {
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrBudgetExhausted):
				denied++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, k, ok)
		assert.Equal(t, n-k, denied)

		ledger, err := ledgers.GetLedger(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, k, ledger.TicketsUsed)

		_, total, err := ledgers.ListConsumptions(ctx, job.ID, domain.NewPage(1, 50))
		require.NoError(t, err)
		assert.EqualValues(t, k, total)
	})

	t.Run("Should stop at the cap even with tickets left", func(t *testing.T) {
		job := seedJob(t, jobs, company.ID)
		_, err := uc.IssueTickets(ctx, company.ID, domain.RoleCompany, job.ID, domain.IssueTicketsInput{Count: 10})
		require.NoError(t, err)
		limit := int64(30)
		_, err = uc.SetCapPlan(ctx, company.ID, domain.RoleCompany, job.ID, domain.CapPlanInput{CapPercent: 20, CapAmountLimit: &limit})
		require.NoError(t, err)

		for i := 0; i < 2; i++ {
			_, err := uc.TryConsume(ctx, job.ID, domain.ConsumeRef{})
			require.NoError(t, err)
		}
		_, err = uc.TryConsume(ctx, job.ID, domain.ConsumeRef{})
		assert.ErrorIs(t, err, domain.ErrCapReached)

		plan, err := ledgers.GetCapPlan(ctx, job.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(30), plan.TotalCost)
		assert.NotNil(t, plan.CapReachedAt)
	})
}
