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
	"go-scout-backend/pkg/testhelpers"
)

func seedUser(t *testing.T, repo domain.UserRepository, role domain.Role) *domain.User {
	t.Helper()
	now := time.Now().UTC()
	u := &domain.User{
		ID:           uuid.NewString(),
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Role:         role,
		DisplayName:  string(role) + " user",
		IsActive:     true,
		PlanTier:     domain.PlanTierFree,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if role == domain.RoleCompany {
		name := "Acme"
		u.CompanyName = &name
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func seedResume(t *testing.T, repo domain.ResumeRepository, userID string) *domain.Resume {
	t.Helper()
	now := time.Now().UTC()
	res := &domain.Resume{ID: uuid.NewString(), UserID: userID, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, domain.ResumeInput{
		Title:  "Backend engineer",
		Skills: "Go, PostgreSQL",
		Experiences: []domain.Experience{
			{ID: uuid.NewString(), Company: "A", PeriodFrom: now.AddDate(-3, 0, 0)},
		},
	}.Apply(res))
	require.NoError(t, repo.Create(context.Background(), res))
	return res
}

func TestUserRepositoryIntegration(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	db.Truncate(t)
	ctx := context.Background()
	users := postgres.NewUserRepository(db.Pool)

	t.Run("Should create profile block and reject duplicate email", func(t *testing.T) {
		u := seedUser(t, users, domain.RoleSeeker)

		got, err := users.GetWithProfile(ctx, u.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Seeker)
		assert.Nil(t, got.Company)

		dup := *u
		dup.ID = uuid.NewString()
		err = users.Create(ctx, &dup)
		assert.ErrorIs(t, err, domain.ErrDuplicate)
	})

	t.Run("Should return ErrNotFound for unknown id", func(t *testing.T) {
		_, err := users.GetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Should refuse credits used above total", func(t *testing.T) {
		u := seedUser(t, users, domain.RoleCompany)
		assert.Error(t, users.UpdateScoutCredits(ctx, u.ID, 1, 2))
		assert.NoError(t, users.UpdateScoutCredits(ctx, u.ID, 2, 2))
	})
}

func TestResumeRepositoryIntegration(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	db.Truncate(t)
	ctx := context.Background()
	users := postgres.NewUserRepository(db.Pool)
	resumes := postgres.NewResumeRepository(db.Pool)

	seeker := seedUser(t, users, domain.RoleSeeker)
	first := seedResume(t, resumes, seeker.ID)
	second := seedResume(t, resumes, seeker.ID)

	t.Run("Should keep at most one active resume", func(t *testing.T) {
		require.NoError(t, resumes.Activate(ctx, seeker.ID, first.ID))
		require.NoError(t, resumes.Activate(ctx, seeker.ID, second.ID))

		active, err := resumes.GetActiveByUser(ctx, seeker.ID)
		require.NoError(t, err)
		assert.Equal(t, second.ID, active.ID)
		require.Len(t, active.Experiences, 1)
		assert.Equal(t, "A", active.Experiences[0].Company)
	})

	t.Run("Should replace experiences on update", func(t *testing.T) {
		now := time.Now().UTC()
		require.NoError(t, domain.ResumeInput{
			Title: "Renamed",
			Experiences: []domain.Experience{
				{ID: uuid.NewString(), Company: "B", PeriodFrom: now.AddDate(-2, 0, 0)},
				{ID: uuid.NewString(), Company: "C", PeriodFrom: now.AddDate(-1, 0, 0)},
			},
		}.Apply(first))
		first.UpdatedAt = now
		require.NoError(t, resumes.Update(ctx, first))

		got, err := resumes.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", got.Title)
		require.Len(t, got.Experiences, 2)
		assert.Equal(t, "B", got.Experiences[0].Company)
		assert.Equal(t, 1, got.Experiences[1].Order)
	})
}

func TestApplicationRepositoryIntegration(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	db.Truncate(t)
	ctx := context.Background()
	users := postgres.NewUserRepository(db.Pool)
	resumes := postgres.NewResumeRepository(db.Pool)
	apps := postgres.NewApplicationRepository(db.Pool)

	seeker := seedUser(t, users, domain.RoleSeeker)
	company := seedUser(t, users, domain.RoleCompany)
	resume := seedResume(t, resumes, seeker.ID)

	t.Run("Should let exactly one of N concurrent applications through", func(t *testing.T) {
		const n = 10
		var wg sync.WaitGroup
		results := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				now := time.Now().UTC()
				results <- apps.Create(ctx, &domain.Application{
					ID: uuid.NewString(), ApplicantID: seeker.ID, CompanyID: company.ID, ResumeID: resume.ID,
					Status: domain.ApplicationStatusPending, AppliedAt: now, UpdatedAt: now,
				})
			}()
		}
		wg.Wait()
		close(results)

		created, dup := 0, 0
		for err := range results {
			switch {
			case err == nil:
				created++
			case errors.Is(err, domain.ErrDuplicate):
				dup++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, created)
		assert.Equal(t, n-1, dup)

		list, total, err := apps.ListByCompany(ctx, company.ID, "", domain.NewPage(1, 20))
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, "Backend engineer", *list[0].ResumeTitle)
	})
}

func TestSearchRepositoryIntegration(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	db.Truncate(t)
	ctx := context.Background()
	users := postgres.NewUserRepository(db.Pool)
	resumes := postgres.NewResumeRepository(db.Pool)
	search := postgres.NewSearchRepository(db.Pool)

	seeker := seedUser(t, users, domain.RoleSeeker)
	resume := seedResume(t, resumes, seeker.ID)
	require.NoError(t, resumes.Activate(ctx, seeker.ID, resume.ID))

	t.Run("Should filter by keyword, skills and experience years", func(t *testing.T) {
		two, five := 2, 5
		got, total, err := search.SearchSeekers(ctx, domain.SeekerFilter{
			Keyword: "backend", Skills: []string{"go"}, MinExperience: &two, MaxExperience: &five,
		}, domain.NewPage(1, 10))
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, got, 1)
		assert.Equal(t, seeker.ID, got[0].UserID)
		assert.GreaterOrEqual(t, got[0].ExperienceMonths, 35)
	})

	t.Run("Should exclude seekers below minimum experience", func(t *testing.T) {
		ten := 10
		_, total, err := search.SearchSeekers(ctx, domain.SeekerFilter{MinExperience: &ten}, domain.NewPage(1, 10))
		require.NoError(t, err)
		assert.EqualValues(t, 0, total)
	})

	t.Run("Should treat LIKE wildcards literally", func(t *testing.T) {
		_, total, err := search.SearchSeekers(ctx, domain.SeekerFilter{Keyword: "%"}, domain.NewPage(1, 10))
		require.NoError(t, err)
		assert.EqualValues(t, 0, total)
	})
}

func TestMessageThreadIntegration(t *testing.T) {
	db := testhelpers.GetTestDB(t)
	db.Truncate(t)
	ctx := context.Background()
	users := postgres.NewUserRepository(db.Pool)
	messages := postgres.NewMessageRepository(db.Pool)

	a := seedUser(t, users, domain.RoleSeeker)
	b := seedUser(t, users, domain.RoleCompany)
	base := time.Now().UTC()

	root := &domain.Message{ID: uuid.NewString(), SenderID: b.ID, ReceiverID: a.ID, Content: "hi", CreatedAt: base}
	reply := &domain.Message{ID: uuid.NewString(), SenderID: a.ID, ReceiverID: b.ID, Content: "hello", ParentID: &root.ID, CreatedAt: base.Add(time.Second)}
	again := &domain.Message{ID: uuid.NewString(), SenderID: b.ID, ReceiverID: a.ID, Content: "again", ParentID: &reply.ID, CreatedAt: base.Add(2 * time.Second)}
	for _, m := range []*domain.Message{root, reply, again} {
		require.NoError(t, messages.Create(ctx, m))
	}

	t.Run("Should return the whole thread from any member", func(t *testing.T) {
		thread, err := messages.Thread(ctx, reply.ID)
		require.NoError(t, err)
		require.Len(t, thread, 3)
		assert.Equal(t, []string{root.ID, reply.ID, again.ID}, []string{thread[0].ID, thread[1].ID, thread[2].ID})
	})
}
