package domain

import (
	"context"
	"time"
)

const (
	SlotStatusProposed = "proposed"
	SlotStatusAccepted = "accepted"
	SlotStatusDeclined = "declined"
	SlotStatusExpired  = "expired"
)

const (
	ProposerCompany = "company"
	ProposerSeeker  = "seeker"
)

type InterviewSlot struct {
	ID                  string     `json:"id"`
	JobPostingID        string     `json:"job_posting_id"`
	SeekerID            string     `json:"seeker_id"`
	ProposedBy          string     `json:"proposed_by"`
	StartTime           time.Time  `json:"start_time"`
	EndTime             time.Time  `json:"end_time"`
	Status              string     `json:"status"`
	AcceptedAt          *time.Time `json:"accepted_at,omitempty"`
	TicketConsumptionID *string    `json:"ticket_consumption_id,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

func (s *InterviewSlot) transition(to string) error {
	if s.Status != SlotStatusProposed {
		return &TransitionError{Entity: "interview slot", From: s.Status, To: to}
	}
	s.Status = to
	return nil
}

func (s *InterviewSlot) Accept(now time.Time) error {
	if err := s.transition(SlotStatusAccepted); err != nil {
		return err
	}
	t := now
	s.AcceptedAt = &t
	return nil
}

func (s *InterviewSlot) Decline() error {
	return s.transition(SlotStatusDeclined)
}

func (s *InterviewSlot) Expire() error {
	return s.transition(SlotStatusExpired)
}

// ProposerFor maps a caller role onto the proposed_by value.
func ProposerFor(role Role) (string, bool) {
	switch role {
	case RoleCompany:
		return ProposerCompany, true
	case RoleSeeker:
		return ProposerSeeker, true
	}
	return "", false
}

type SlotWindow struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required,gtfield=StartTime"`
}

type ProposeSlotsInput struct {
	JobPostingID string       `json:"job_posting_id" binding:"required,uuid"`
	SeekerID     string       `json:"seeker_id" binding:"omitempty,uuid"`
	Slots        []SlotWindow `json:"slots" binding:"required,min=1,max=20,dive"`
}

type InterviewRepository interface {
	CreateMany(ctx context.Context, slots []InterviewSlot) error
	GetByID(ctx context.Context, id string) (*InterviewSlot, error)
	LockByID(ctx context.Context, id string) (*InterviewSlot, error)
	ListByPair(ctx context.Context, jobPostingID, seekerID string, page Page) ([]InterviewSlot, int64, error)
	ListBySeeker(ctx context.Context, seekerID string, page Page) ([]InterviewSlot, int64, error)
	ListByCompany(ctx context.Context, companyID string, page Page) ([]InterviewSlot, int64, error)
	UpdateStatus(ctx context.Context, slot *InterviewSlot) error
	// DeclineOtherProposed declines every other proposed slot of the pair.
	DeclineOtherProposed(ctx context.Context, jobPostingID, seekerID, keepID string) (int64, error)
	ExpirePast(ctx context.Context, now time.Time) (int64, error)
}

type InterviewUsecase interface {
	Propose(ctx context.Context, callerID string, role Role, in ProposeSlotsInput) ([]InterviewSlot, error)
	List(ctx context.Context, callerID string, role Role, jobPostingID, seekerID string, page Page) (*PaginatedResult[InterviewSlot], error)
	Accept(ctx context.Context, callerID string, role Role, id string) (*InterviewSlot, error)
	Decline(ctx context.Context, callerID string, role Role, id string) (*InterviewSlot, error)
	Expire(ctx context.Context, callerID string, role Role, id string) (*InterviewSlot, error)
	ExpirePast(ctx context.Context) (int64, error)
}
