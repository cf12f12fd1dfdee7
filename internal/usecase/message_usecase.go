package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go-scout-backend/internal/domain"
	"go-scout-backend/pkg/apperror"
)

type messageUsecase struct {
	messageRepo domain.MessageRepository
	userRepo    domain.UserRepository
	tx          domain.Transactor
	notifier    domain.Notifier
}

func NewMessageUsecase(
	messageRepo domain.MessageRepository,
	userRepo domain.UserRepository,
	tx domain.Transactor,
	notifier domain.Notifier,
) domain.MessageUsecase {
	return &messageUsecase{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		tx:          tx,
		notifier:    notifier,
	}
}

func isParticipant(msg *domain.Message, userID string) bool {
	return msg.SenderID == userID || msg.ReceiverID == userID
}

func (u *messageUsecase) Send(ctx context.Context, senderID string, in domain.SendMessageInput) (*domain.Message, error) {
	if in.ReceiverID == senderID {
		return nil, apperror.BadRequest("You cannot send a message to yourself")
	}
	receiver, err := u.userRepo.GetByID(ctx, in.ReceiverID)
	if err != nil {
		return nil, mapError(err, "Receiver")
	}
	if !receiver.IsActive {
		return nil, apperror.NotFound("Receiver not found")
	}
	if in.ParentID != nil {
		parent, err := u.messageRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, mapError(err, "Parent message")
		}
		if !isParticipant(parent, senderID) {
			return nil, apperror.Forbidden("You can only reply within your own conversations")
		}
	}

	msg := &domain.Message{
		ID:            uuid.NewString(),
		SenderID:      senderID,
		ReceiverID:    receiver.ID,
		Subject:       in.Subject,
		Content:       in.Content,
		ParentID:      in.ParentID,
		ApplicationID: in.ApplicationID,
		ScoutID:       in.ScoutID,
		AnnotationID:  in.AnnotationID,
		CreatedAt:     time.Now(),
	}

	var created *domain.Message
	err = u.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := u.messageRepo.Create(ctx, msg); err != nil {
			return err
		}
		m, err := u.messageRepo.GetByID(ctx, msg.ID)
		if err != nil {
			return err
		}
		created = m
		u.tx.AfterCommit(ctx, func() {
			u.notifier.Publish(context.Background(), domain.Event{
				Type:    domain.EventMessageCreated,
				UserID:  created.ReceiverID,
				Payload: created,
			})
		})
		return nil
	})
	if err != nil {
		return nil, mapError(err, "Message")
	}
	return created, nil
}

func (u *messageUsecase) List(ctx context.Context, userID, box string, page domain.Page) (*domain.PaginatedResult[domain.Message], error) {
	var (
		msgs  []domain.Message
		total int64
		err   error
	)
	switch box {
	case "", domain.MessageBoxInbox:
		msgs, total, err = u.messageRepo.ListInbox(ctx, userID, page)
	case domain.MessageBoxSent:
		msgs, total, err = u.messageRepo.ListSent(ctx, userID, page)
	default:
		return nil, apperror.BadRequest("box must be inbox or sent")
	}
	if err != nil {
		return nil, mapError(err, "Message")
	}
	return domain.NewPaginatedResult(msgs, total, page), nil
}

// Thread returns the whole conversation a message belongs to, oldest first.
func (u *messageUsecase) Thread(ctx context.Context, userID, id string) ([]domain.Message, error) {
	msg, err := u.messageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err, "Message")
	}
	if !isParticipant(msg, userID) {
		return nil, apperror.Forbidden("You can only view your own conversations")
	}
	thread, err := u.messageRepo.Thread(ctx, id)
	if err != nil {
		return nil, mapError(err, "Message")
	}
	return thread, nil
}

func (u *messageUsecase) MarkRead(ctx context.Context, userID, id string) (*domain.Message, error) {
	msg, err := u.messageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err, "Message")
	}
	if msg.ReceiverID != userID {
		return nil, apperror.Forbidden("Only the receiver can mark a message as read")
	}
	if msg.IsRead {
		return msg, nil
	}
	if err := u.messageRepo.MarkRead(ctx, id); err != nil {
		return nil, mapError(err, "Message")
	}
	msg.IsRead = true
	return msg, nil
}
