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

func newMessageFixture() (*MockMessageRepo, *MockUserRepo, *recordingNotifier, domain.MessageUsecase) {
	msgs := new(MockMessageRepo)
	users := new(MockUserRepo)
	notifier := &recordingNotifier{}
	return msgs, users, notifier, usecase.NewMessageUsecase(msgs, users, &fakeTx{}, notifier)
}

func TestMessageSend(t *testing.T) {
	ctx := context.Background()

	t.Run("Should store the message and notify the receiver", func(t *testing.T) {
		msgs, users, notifier, uc := newMessageFixture()
		users.On("GetByID", mock.Anything, "seeker1").Return(activeSeeker(), nil)
		msgs.On("Create", mock.Anything, mock.AnythingOfType("*domain.Message")).Return(nil)
		msgs.On("GetByID", mock.Anything, mock.Anything).
			Return(&domain.Message{ID: "m1", SenderID: "co1", ReceiverID: "seeker1", Content: "Hello"}, nil)

		msg, err := uc.Send(ctx, "co1", domain.SendMessageInput{ReceiverID: "seeker1", Content: "Hello"})
		require.NoError(t, err)
		assert.Equal(t, "m1", msg.ID)
		require.Len(t, notifier.events, 1)
		assert.Equal(t, domain.EventMessageCreated, notifier.events[0].Type)
		assert.Equal(t, "seeker1", notifier.events[0].UserID)
	})

	t.Run("Should reject messages to yourself", func(t *testing.T) {
		_, _, _, uc := newMessageFixture()
		_, err := uc.Send(ctx, "co1", domain.SendMessageInput{ReceiverID: "co1", Content: "Hi"})
		assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
	})

	t.Run("Should not allow replies into someone else's conversation", func(t *testing.T) {
		msgs, users, notifier, uc := newMessageFixture()
		users.On("GetByID", mock.Anything, "seeker1").Return(activeSeeker(), nil)
		msgs.On("GetByID", mock.Anything, "m0").Return(&domain.Message{ID: "m0", SenderID: "co2", ReceiverID: "seeker1"}, nil)

		parent := "m0"
		_, err := uc.Send(ctx, "co1", domain.SendMessageInput{ReceiverID: "seeker1", Content: "Hi", ParentID: &parent})
		assert.Equal(t, apperror.CodeForbidden, apperror.CodeOf(err))
		assert.Empty(t, notifier.events)
	})
}

func TestMessageReadAndList(t *testing.T) {
	ctx := context.Background()

	t.Run("Should mark read once and only for the receiver", func(t *testing.T) {
		msgs, _, _, uc := newMessageFixture()
		msg := &domain.Message{ID: "m1", SenderID: "co1", ReceiverID: "seeker1"}
		msgs.On("GetByID", mock.Anything, "m1").Return(msg, nil)
		msgs.On("MarkRead", mock.Anything, "m1").Return(nil).Once()

		_, err := uc.MarkRead(ctx, "co1", "m1")
		assert.Equal(t, apperror.CodeForbidden, apperror.CodeOf(err))

		got, err := uc.MarkRead(ctx, "seeker1", "m1")
		require.NoError(t, err)
		assert.True(t, got.IsRead)

		_, err = uc.MarkRead(ctx, "seeker1", "m1")
		require.NoError(t, err)
		msgs.AssertNumberOfCalls(t, "MarkRead", 1)
	})

	t.Run("Should reject an unknown box", func(t *testing.T) {
		_, _, _, uc := newMessageFixture()
		_, err := uc.List(ctx, "seeker1", "archive", domain.NewPage(1, 20))
		assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
	})

	t.Run("Should keep outsiders out of threads", func(t *testing.T) {
		msgs, _, _, uc := newMessageFixture()
		msgs.On("GetByID", mock.Anything, "m1").Return(&domain.Message{ID: "m1", SenderID: "co1", ReceiverID: "seeker1"}, nil)

		_, err := uc.Thread(ctx, "seeker2", "m1")
		assert.Equal(t, apperror.CodeForbidden, apperror.CodeOf(err))
	})
}
