package domain

import (
	"context"
	"time"
)

type Message struct {
	ID            string    `json:"id"`
	SenderID      string    `json:"sender_id"`
	ReceiverID    string    `json:"receiver_id"`
	Subject       *string   `json:"subject,omitempty"`
	Content       string    `json:"content"`
	IsRead        bool      `json:"is_read"`
	ParentID      *string   `json:"parent_id,omitempty"`
	ApplicationID *string   `json:"application_id,omitempty"`
	ScoutID       *string   `json:"scout_id,omitempty"`
	AnnotationID  *string   `json:"annotation_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`

	Sender *UserSummary `json:"sender,omitempty"`
}

const (
	MessageBoxInbox = "inbox"
	MessageBoxSent  = "sent"
)

type SendMessageInput struct {
	ReceiverID    string  `json:"receiver_id" binding:"required,uuid"`
	Subject       *string `json:"subject" binding:"omitempty,max=200"`
	Content       string  `json:"content" binding:"required,max=10000"`
	ParentID      *string `json:"parent_id" binding:"omitempty,uuid"`
	ApplicationID *string `json:"application_id" binding:"omitempty,uuid"`
	ScoutID       *string `json:"scout_id" binding:"omitempty,uuid"`
	AnnotationID  *string `json:"annotation_id" binding:"omitempty,uuid"`
}

type MessageRepository interface {
	Create(ctx context.Context, msg *Message) error
	GetByID(ctx context.Context, id string) (*Message, error)
	ListInbox(ctx context.Context, userID string, page Page) ([]Message, int64, error)
	ListSent(ctx context.Context, userID string, page Page) ([]Message, int64, error)
	// Thread returns the root of id's thread and every descendant, oldest first.
	Thread(ctx context.Context, id string) ([]Message, error)
	MarkRead(ctx context.Context, id string) error
}

type MessageUsecase interface {
	Send(ctx context.Context, senderID string, in SendMessageInput) (*Message, error)
	List(ctx context.Context, userID, box string, page Page) (*PaginatedResult[Message], error)
	Thread(ctx context.Context, userID, id string) ([]Message, error)
	MarkRead(ctx context.Context, userID, id string) (*Message, error)
}
