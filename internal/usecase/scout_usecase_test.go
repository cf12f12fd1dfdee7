package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-scout-backend/internal/domain"
	"go-scout-backend/internal/usecase"
	"go-scout-backend/pkg/apperror"
	"go-scout-backend/pkg/email"
	"go-scout-backend/pkg/textgen"
)

type scoutFixture struct {
	scouts   *MockScoutRepo
	users    *MockUserRepo
	jobs     *MockJobRepo
	resumes  *MockResumeRepo
	ledgers  *MockLedgerRepo
	notifier *recordingNotifier
	uc       domain.ScoutUsecase
}

func newScoutFixture(drafter usecase.ScoutDrafter) *scoutFixture {
	f := &scoutFixture{
		scouts:   new(MockScoutRepo),
		users:    new(MockUserRepo),
		jobs:     new(MockJobRepo),
		resumes:  new(MockResumeRepo),
		ledgers:  new(MockLedgerRepo),
		notifier: &recordingNotifier{},
	}
	tx := &fakeTx{}
	charger := usecase.NewLedgerUsecase(f.ledgers, f.jobs, tx, nil, 0)
	f.uc = usecase.NewScoutUsecase(f.scouts, f.users, f.jobs, f.resumes, charger, tx, f.notifier, drafter, nil,
		usecase.ScoutConfig{TTL: 30 * 24 * time.Hour, FrontendURL: "https://app.example"})
	return f
}

func activeSeeker() *domain.User {
	return &domain.User{ID: "seeker1", Email: "seeker@example.com", Role: domain.RoleSeeker, DisplayName: "Hanako", IsActive: true}
}

func companyWithCredits(total, used int) *domain.User {
	return &domain.User{
		ID: "co1", Email: "hr@acme.example", Role: domain.RoleCompany, DisplayName: "Acme HR",
		CompanyName: strPtr("Acme"), IsActive: true, ScoutCreditsTotal: total, ScoutCreditsUsed: used,
	}
}

func storedScout(id string) *domain.Scout {
	return &domain.Scout{
		ID: id, CompanyID: "co1", SeekerID: "seeker1", Status: domain.ScoutStatusSent, Message: "Join us",
		Company: &domain.UserSummary{ID: "co1", DisplayName: "Acme HR", CompanyName: strPtr("Acme")},
	}
}

func TestScoutSendWithCredits(t *testing.T) {
	ctx := context.Background()

	t.Run("Should spend global credits and refuse the send after they run out", func(t *testing.T) {
		f := newScoutFixture(nil)
		company := companyWithCredits(2, 0)
		f.users.On("GetByID", mock.Anything, "seeker1").Return(activeSeeker(), nil)
		f.users.On("LockByID", mock.Anything, "co1").Return(company, nil)
		f.users.On("UpdateScoutCredits", mock.Anything, "co1", 2, mock.Anything).Return(nil)
		f.scouts.On("Create", mock.Anything, mock.AnythingOfType("*domain.Scout")).Return(nil)
		f.scouts.On("GetByID", mock.Anything, mock.Anything).Return(storedScout("s1"), nil)

		in := domain.SendScoutInput{SeekerID: "seeker1", Message: "Join us"}
		for i := 0; i < 2; i++ {
			_, err := f.uc.Send(ctx, "co1", in)
			require.NoError(t, err)
		}
		_, err := f.uc.Send(ctx, "co1", in)

		assert.Equal(t, apperror.CodeBudgetExhausted, apperror.CodeOf(err))
		assert.Equal(t, 2, company.ScoutCreditsUsed)
		f.users.AssertNumberOfCalls(t, "UpdateScoutCredits", 2)
		assert.Len(t, f.notifier.events, 2)
		assert.Len(t, f.notifier.emails, 2)
	})

	t.Run("Should notify the seeker and email a scout link after commit", func(t *testing.T) {
		f := newScoutFixture(nil)
		f.users.On("GetByID", mock.Anything, "seeker1").Return(activeSeeker(), nil)
		f.users.On("LockByID", mock.Anything, "co1").Return(companyWithCredits(1, 0), nil)
		f.users.On("UpdateScoutCredits", mock.Anything, "co1", 1, 1).Return(nil)
		f.scouts.On("Create", mock.Anything, mock.AnythingOfType("*domain.Scout")).Return(nil)
		f.scouts.On("GetByID", mock.Anything, mock.Anything).Return(storedScout("s1"), nil)

		scout, err := f.uc.Send(ctx, "co1", domain.SendScoutInput{SeekerID: "seeker1", Message: "Join us"})
		require.NoError(t, err)
		assert.Equal(t, "s1", scout.ID)

		require.Len(t, f.notifier.events, 1)
		assert.Equal(t, domain.EventScoutCreated, f.notifier.events[0].Type)
		assert.Equal(t, "seeker1", f.notifier.events[0].UserID)

		require.Len(t, f.notifier.emails, 1)
		mail := f.notifier.emails[0]
		assert.Equal(t, "seeker@example.com", mail.To)
		assert.Equal(t, email.TemplateScoutReceived, mail.Template)
		assert.Equal(t, "Acme", mail.Data["CompanyName"])
		assert.Equal(t, "https://app.example/scouts/s1", mail.Data["URL"])
	})

	t.Run("Should set the expiry from the configured TTL", func(t *testing.T) {
		f := newScoutFixture(nil)
		var created *domain.Scout
		f.users.On("GetByID", mock.Anything, "seeker1").Return(activeSeeker(), nil)
		f.users.On("LockByID", mock.Anything, "co1").Return(companyWithCredits(1, 0), nil)
		f.users.On("UpdateScoutCredits", mock.Anything, "co1", 1, 1).Return(nil)
		f.scouts.On("Create", mock.Anything, mock.AnythingOfType("*domain.Scout")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Scout) }).Return(nil)
		f.scouts.On("GetByID", mock.Anything, mock.Anything).Return(storedScout("s1"), nil)

		_, err := f.uc.Send(ctx, "co1", domain.SendScoutInput{SeekerID: "seeker1", Message: "Join us"})
		require.NoError(t, err)
		require.NotNil(t, created.ExpiresAt)
		assert.WithinDuration(t, created.ScoutedAt.Add(30*24*time.Hour), *created.ExpiresAt, time.Second)
		assert.Equal(t, domain.ScoutStatusSent, created.Status)
	})

	t.Run("Should treat an inactive seeker as not found", func(t *testing.T) {
		f := newScoutFixture(nil)
		seeker := activeSeeker()
		seeker.IsActive = false
		f.users.On("GetByID", mock.Anything, "seeker1").Return(seeker, nil)

		_, err := f.uc.Send(ctx, "co1", domain.SendScoutInput{SeekerID: "seeker1", Message: "Join us"})
		assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
		f.scouts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestScoutSendWithTickets(t *testing.T) {
	ctx := context.Background()
	jobID := "job1"
	job := &domain.JobPosting{ID: jobID, CompanyID: "co1", Title: "Backend engineer", Status: domain.JobStatusOpen}

	t.Run("Should spend the job's single ticket and refuse the second scout", func(t *testing.T) {
		f := newScoutFixture(nil)
		ledger := &domain.JobTicketLedger{JobPostingID: jobID, TicketsTotal: 1}
		var scoutIDs []string
		var consumptions []*domain.TicketConsumption

		f.users.On("GetByID", mock.Anything, "seeker1").Return(activeSeeker(), nil)
		f.jobs.On("GetByID", mock.Anything, jobID).Return(job, nil)
		f.scouts.On("Create", mock.Anything, mock.AnythingOfType("*domain.Scout")).
			Run(func(args mock.Arguments) { scoutIDs = append(scoutIDs, args.Get(1).(*domain.Scout).ID) }).Return(nil)
		f.scouts.On("GetByID", mock.Anything, mock.Anything).Return(storedScout("s1"), nil)
		f.ledgers.On("LockLedger", mock.Anything, jobID).Return(ledger, nil)
		f.ledgers.On("LockCapPlan", mock.Anything, jobID).Return(nil, notFoundErr("cap plan"))
		f.ledgers.On("InsertConsumption", mock.Anything, mock.AnythingOfType("*domain.TicketConsumption")).
			Run(func(args mock.Arguments) {
				consumptions = append(consumptions, args.Get(1).(*domain.TicketConsumption))
			}).Return(nil)
		f.ledgers.On("SaveLedger", mock.Anything, ledger).Return(nil)

		in := domain.SendScoutInput{SeekerID: "seeker1", JobPostingID: &jobID, Message: "Join us"}
		_, err := f.uc.Send(ctx, "co1", in)
		require.NoError(t, err)

		require.Len(t, consumptions, 1)
		require.NotNil(t, consumptions[0].ScoutID)
		assert.Equal(t, scoutIDs[0], *consumptions[0].ScoutID)
		assert.Equal(t, "seeker1", *consumptions[0].SeekerID)

		_, err = f.uc.Send(ctx, "co1", in)
		assert.Equal(t, apperror.CodeBudgetExhausted, apperror.CodeOf(err))
		assert.Len(t, consumptions, 1)
		assert.Len(t, f.notifier.events, 1)
		f.users.AssertNotCalled(t, "LockByID", mock.Anything, mock.Anything)
	})

	t.Run("Should fall back to global credits when the job has no ledger", func(t *testing.T) {
		f := newScoutFixture(nil)
		company := companyWithCredits(3, 1)
		f.users.On("GetByID", mock.Anything, "seeker1").Return(activeSeeker(), nil)
		f.users.On("LockByID", mock.Anything, "co1").Return(company, nil)
		f.users.On("UpdateScoutCredits", mock.Anything, "co1", 3, 2).Return(nil)
		f.jobs.On("GetByID", mock.Anything, jobID).Return(job, nil)
		f.ledgers.On("LockLedger", mock.Anything, jobID).Return(nil, notFoundErr("ticket ledger"))
		f.scouts.On("Create", mock.Anything, mock.AnythingOfType("*domain.Scout")).Return(nil)
		f.scouts.On("GetByID", mock.Anything, mock.Anything).Return(storedScout("s1"), nil)

		_, err := f.uc.Send(ctx, "co1", domain.SendScoutInput{SeekerID: "seeker1", JobPostingID: &jobID, Message: "Join us"})
		require.NoError(t, err)
		assert.Equal(t, 2, company.ScoutCreditsUsed)
		f.ledgers.AssertNotCalled(t, "InsertConsumption", mock.Anything, mock.Anything)
	})

	t.Run("Should forbid scouting for another company's job posting", func(t *testing.T) {
		f := newScoutFixture(nil)
		f.users.On("GetByID", mock.Anything, "seeker1").Return(activeSeeker(), nil)
		f.jobs.On("GetByID", mock.Anything, jobID).Return(job, nil)

		_, err := f.uc.Send(ctx, "co2", domain.SendScoutInput{SeekerID: "seeker1", JobPostingID: &jobID, Message: "Join us"})
		assert.Equal(t, apperror.CodeForbidden, apperror.CodeOf(err))
	})

	t.Run("Should reject scouts for a closed job posting", func(t *testing.T) {
		f := newScoutFixture(nil)
		closed := *job
		closed.Status = domain.JobStatusClosed
		f.users.On("GetByID", mock.Anything, "seeker1").Return(activeSeeker(), nil)
		f.jobs.On("GetByID", mock.Anything, jobID).Return(&closed, nil)

		_, err := f.uc.Send(ctx, "co1", domain.SendScoutInput{SeekerID: "seeker1", JobPostingID: &jobID, Message: "Join us"})
		assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
	})
}

func TestScoutLifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("Should mark a sent scout viewed once and keep the first viewed_at", func(t *testing.T) {
		f := newScoutFixture(nil)
		scout := storedScout("s1")
		f.scouts.On("LockByID", mock.Anything, "s1").Return(scout, nil)
		f.scouts.On("UpdateStatus", mock.Anything, scout).Return(nil)

		got, err := f.uc.MarkViewed(ctx, "seeker1", "s1")
		require.NoError(t, err)
		assert.Equal(t, domain.ScoutStatusViewed, got.Status)
		first := *got.ViewedAt

		got, err = f.uc.MarkViewed(ctx, "seeker1", "s1")
		require.NoError(t, err)
		assert.Equal(t, first, *got.ViewedAt)
		f.scouts.AssertNumberOfCalls(t, "UpdateStatus", 1)
	})

	t.Run("Should forbid other users from updating a scout", func(t *testing.T) {
		f := newScoutFixture(nil)
		f.scouts.On("LockByID", mock.Anything, "s1").Return(storedScout("s1"), nil)

		_, err := f.uc.Respond(ctx, "seeker2", "s1")
		assert.Equal(t, apperror.CodeForbidden, apperror.CodeOf(err))
	})

	t.Run("Should refuse to respond to an expired scout", func(t *testing.T) {
		f := newScoutFixture(nil)
		scout := storedScout("s1")
		scout.Status = domain.ScoutStatusExpired
		f.scouts.On("LockByID", mock.Anything, "s1").Return(scout, nil)

		_, err := f.uc.Respond(ctx, "seeker1", "s1")
		assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))
		f.scouts.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
	})

	t.Run("Should refuse to respond to an overdue scout", func(t *testing.T) {
		f := newScoutFixture(nil)
		scout := storedScout("s1")
		past := time.Now().Add(-time.Hour)
		scout.ExpiresAt = &past
		f.scouts.On("LockByID", mock.Anything, "s1").Return(scout, nil)

		_, err := f.uc.Respond(ctx, "seeker1", "s1")
		assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))
		f.scouts.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
	})

	t.Run("Should group received scouts by company", func(t *testing.T) {
		f := newScoutFixture(nil)
		now := time.Now()
		scouts := []domain.Scout{
			{ID: "s3", CompanyID: "co2", ScoutedAt: now},
			{ID: "s2", CompanyID: "co1", ScoutedAt: now.Add(-time.Hour)},
			{ID: "s1", CompanyID: "co2", ScoutedAt: now.Add(-2 * time.Hour)},
		}
		page := domain.NewPage(1, 20)
		f.scouts.On("ListBySeeker", mock.Anything, "seeker1", page).Return(scouts, int64(3), nil)

		res, err := f.uc.ListGrouped(ctx, "seeker1", page)
		require.NoError(t, err)
		assert.Equal(t, int64(3), res.TotalCount)
		assert.Equal(t, 1, res.TotalPages)
		groups := res.Items
		require.Len(t, groups, 2)
		assert.Equal(t, "co2", groups[0].CompanyID)
		assert.Len(t, groups[0].Scouts, 2)
		assert.Equal(t, "co1", groups[1].CompanyID)
	})

	t.Run("Should forbid admins from the role-filtered list", func(t *testing.T) {
		f := newScoutFixture(nil)
		_, err := f.uc.List(ctx, "admin1", domain.RoleAdmin, domain.NewPage(1, 20))
		assert.Equal(t, apperror.CodeForbidden, apperror.CodeOf(err))
	})
}

type fakeDrafter struct {
	prompt textgen.ScoutPrompt
	text   string
	err    error
}

func (d *fakeDrafter) DraftScout(ctx context.Context, prompt textgen.ScoutPrompt) (string, error) {
	d.prompt = prompt
	return d.text, d.err
}

func TestScoutDraft(t *testing.T) {
	ctx := context.Background()
	in := domain.DraftScoutInput{SeekerID: "seeker1", Tone: "friendly"}

	t.Run("Should report dependency_unavailable when text generation is not configured", func(t *testing.T) {
		f := newScoutFixture(nil)
		_, err := f.uc.Draft(ctx, "co1", in)
		assert.Equal(t, apperror.CodeDependencyUnavailable, apperror.CodeOf(err))
	})

	t.Run("Should build the prompt from the company and the active resume", func(t *testing.T) {
		drafter := &fakeDrafter{text: "Hello Hanako"}
		f := newScoutFixture(drafter)
		f.users.On("GetByID", mock.Anything, "seeker1").Return(activeSeeker(), nil)
		f.users.On("GetByID", mock.Anything, "co1").Return(companyWithCredits(0, 0), nil)
		f.resumes.On("GetActiveByUser", mock.Anything, "seeker1").
			Return(&domain.Resume{Title: "Backend engineer", Skills: "Go"}, nil)

		draft, err := f.uc.Draft(ctx, "co1", in)
		require.NoError(t, err)
		assert.Equal(t, "Hello Hanako", draft.Message)
		assert.Equal(t, "Acme", drafter.prompt.CompanyName)
		assert.Equal(t, "Hanako", drafter.prompt.SeekerName)
		assert.Equal(t, "Go", drafter.prompt.Skills)
		assert.Equal(t, "friendly", drafter.prompt.Tone)
	})

	t.Run("Should surface upstream failures as dependency_unavailable", func(t *testing.T) {
		drafter := &fakeDrafter{err: &textgen.UpstreamError{Message: "rate limited upstream", Err: errors.New("429")}}
		f := newScoutFixture(drafter)
		f.users.On("GetByID", mock.Anything, "seeker1").Return(activeSeeker(), nil)
		f.users.On("GetByID", mock.Anything, "co1").Return(companyWithCredits(0, 0), nil)
		f.resumes.On("GetActiveByUser", mock.Anything, "seeker1").Return(nil, notFoundErr("resume"))

		_, err := f.uc.Draft(ctx, "co1", in)
		appErr, ok := apperror.As(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeDependencyUnavailable, appErr.Code)
		assert.Equal(t, "rate limited upstream", appErr.Message)
	})
}
