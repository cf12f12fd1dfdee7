package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-scout-backend/internal/domain"
	"go-scout-backend/internal/usecase"
	"go-scout-backend/pkg/apperror"
)

func TestAdminUsecase(t *testing.T) {
	ctx := context.Background()

	t.Run("Should not let admins deactivate themselves", func(t *testing.T) {
		users := new(MockUserRepo)
		uc := usecase.NewAdminUsecase(users, &fakeTx{}, nil)

		_, err := uc.SetActive(ctx, "admin1", "admin1", false)
		assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
		users.AssertNotCalled(t, "SetActive", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should disable another account", func(t *testing.T) {
		users := new(MockUserRepo)
		uc := usecase.NewAdminUsecase(users, &fakeTx{}, nil)
		disabled := activeSeeker()
		disabled.IsActive = false
		users.On("SetActive", mock.Anything, "seeker1", false).Return(nil)
		users.On("GetByID", mock.Anything, "seeker1").Return(disabled, nil)

		got, err := uc.SetActive(ctx, "admin1", "seeker1", false)
		require.NoError(t, err)
		assert.False(t, got.IsActive)
	})

	t.Run("Should grant credits to companies only", func(t *testing.T) {
		users := new(MockUserRepo)
		uc := usecase.NewAdminUsecase(users, &fakeTx{}, nil)
		users.On("LockByID", mock.Anything, "co1").Return(companyWithCredits(5, 5), nil)
		users.On("LockByID", mock.Anything, "seeker1").Return(activeSeeker(), nil)
		users.On("UpdateScoutCredits", mock.Anything, "co1", 8, 5).Return(nil)

		got, err := uc.GrantCredits(ctx, "admin1", "co1", 3)
		require.NoError(t, err)
		assert.Equal(t, 3, got.ScoutCreditsTotal-got.ScoutCreditsUsed)

		_, err = uc.GrantCredits(ctx, "admin1", "seeker1", 3)
		assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
	})

	t.Run("Should reject an unknown role filter", func(t *testing.T) {
		uc := usecase.NewAdminUsecase(new(MockUserRepo), &fakeTx{}, nil)
		_, err := uc.ListUsers(ctx, domain.Role("root"), domain.NewPage(1, 20))
		assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
	})
}
