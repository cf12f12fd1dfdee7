package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-scout-backend/internal/domain"
	"go-scout-backend/internal/usecase"
	"go-scout-backend/pkg/apperror"
	"go-scout-backend/pkg/email"
)

type fakeLinker struct{}

func (fakeLinker) PresignGet(ctx context.Context, key string) (string, error) {
	return "https://bucket.example/" + key + "?sig=abc", nil
}

func (fakeLinker) TTL() time.Duration { return 15 * time.Minute }

type resumeFixture struct {
	resumes  *MockResumeRepo
	apps     *MockApplicationRepo
	scouts   *MockScoutRepo
	users    *MockUserRepo
	notifier *recordingNotifier
}

func newResumeFixture() *resumeFixture {
	return &resumeFixture{
		resumes:  new(MockResumeRepo),
		apps:     new(MockApplicationRepo),
		scouts:   new(MockScoutRepo),
		users:    new(MockUserRepo),
		notifier: &recordingNotifier{},
	}
}

func (f *resumeFixture) usecase(pdf usecase.PDFLinker) domain.ResumeUsecase {
	return usecase.NewResumeUsecase(f.resumes, f.apps, f.scouts, f.users, &fakeTx{}, f.notifier, pdf)
}

var seekerResume = &domain.Resume{ID: "r1", UserID: "seeker1", Title: "Backend engineer"}

func TestResumeAccess(t *testing.T) {
	ctx := context.Background()

	t.Run("Should let a company read the resume of an applicant", func(t *testing.T) {
		f := newResumeFixture()
		f.resumes.On("GetByID", mock.Anything, "r1").Return(seekerResume, nil)
		f.apps.On("ExistsBetween", mock.Anything, "seeker1", "co1").Return(true, nil)

		r, err := f.usecase(nil).Get(ctx, "co1", domain.RoleCompany, "r1")
		require.NoError(t, err)
		assert.Equal(t, "r1", r.ID)
	})

	t.Run("Should let a company read the resume of a seeker it scouted", func(t *testing.T) {
		f := newResumeFixture()
		f.resumes.On("GetByID", mock.Anything, "r1").Return(seekerResume, nil)
		f.apps.On("ExistsBetween", mock.Anything, "seeker1", "co1").Return(false, nil)
		f.scouts.On("ExistsBetween", mock.Anything, "co1", "seeker1").Return(true, nil)

		_, err := f.usecase(nil).Get(ctx, "co1", domain.RoleCompany, "r1")
		require.NoError(t, err)
	})

	t.Run("Should forbid unrelated companies and other seekers", func(t *testing.T) {
		f := newResumeFixture()
		f.resumes.On("GetByID", mock.Anything, "r1").Return(seekerResume, nil)
		f.apps.On("ExistsBetween", mock.Anything, "seeker1", "co2").Return(false, nil)
		f.scouts.On("ExistsBetween", mock.Anything, "co2", "seeker1").Return(false, nil)
		uc := f.usecase(nil)

		_, err := uc.Get(ctx, "co2", domain.RoleCompany, "r1")
		assert.Equal(t, apperror.CodeForbidden, apperror.CodeOf(err))

		_, err = uc.Get(ctx, "seeker2", domain.RoleSeeker, "r1")
		assert.Equal(t, apperror.CodeForbidden, apperror.CodeOf(err))
	})
}

func TestResumePDF(t *testing.T) {
	ctx := context.Background()

	t.Run("Should report storage as unavailable when not configured", func(t *testing.T) {
		f := newResumeFixture()
		f.resumes.On("GetByID", mock.Anything, "r1").Return(seekerResume, nil)

		_, err := f.usecase(nil).PDFDownloadURL(ctx, "seeker1", domain.RoleSeeker, "r1")
		assert.Equal(t, apperror.CodeDependencyUnavailable, apperror.CodeOf(err))
	})

	t.Run("Should sign a link under the resume key", func(t *testing.T) {
		f := newResumeFixture()
		f.resumes.On("GetByID", mock.Anything, "r1").Return(seekerResume, nil)

		url, err := f.usecase(fakeLinker{}).PDFDownloadURL(ctx, "seeker1", domain.RoleSeeker, "r1")
		require.NoError(t, err)
		assert.True(t, strings.Contains(url, "r1"))
	})

	t.Run("Should email the owner a signed link", func(t *testing.T) {
		f := newResumeFixture()
		f.resumes.On("GetByID", mock.Anything, "r1").Return(seekerResume, nil)
		f.users.On("GetByID", mock.Anything, "seeker1").Return(activeSeeker(), nil)

		require.NoError(t, f.usecase(fakeLinker{}).EmailPDFLink(ctx, "seeker1", "r1"))
		require.Len(t, f.notifier.emails, 1)
		job := f.notifier.emails[0]
		assert.Equal(t, "seeker@example.com", job.To)
		assert.Equal(t, email.TemplateResumePDFLink, job.Template)
		assert.Equal(t, "15m0s", job.Data["ExpiresIn"])
	})
}

func TestResumeList(t *testing.T) {
	ctx := context.Background()

	t.Run("Should page the seeker's resumes", func(t *testing.T) {
		f := newResumeFixture()
		page := domain.NewPage(2, 1)
		f.resumes.On("ListByUser", mock.Anything, "seeker1", page).Return([]domain.Resume{*seekerResume}, int64(3), nil)

		res, err := f.usecase(nil).List(ctx, "seeker1", page)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Page)
		assert.Equal(t, 3, res.TotalPages)
		assert.Equal(t, int64(3), res.TotalCount)
		assert.Len(t, res.Items, 1)
	})

	t.Run("Should activate only the first resume", func(t *testing.T) {
		f := newResumeFixture()
		firstPage := domain.NewPage(1, 1)
		f.resumes.On("ListByUser", mock.Anything, "seeker1", firstPage).Return([]domain.Resume{}, int64(0), nil).Once()
		f.resumes.On("ListByUser", mock.Anything, "seeker1", firstPage).Return([]domain.Resume{*seekerResume}, int64(1), nil).Once()
		f.resumes.On("Create", mock.Anything, mock.AnythingOfType("*domain.Resume")).Return(nil)
		uc := f.usecase(nil)

		first, err := uc.Create(ctx, "seeker1", domain.ResumeInput{Title: "First"})
		require.NoError(t, err)
		assert.True(t, first.IsActive)

		second, err := uc.Create(ctx, "seeker1", domain.ResumeInput{Title: "Second"})
		require.NoError(t, err)
		assert.False(t, second.IsActive)
	})
}
