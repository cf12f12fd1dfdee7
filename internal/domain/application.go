package domain

import (
	"context"
	"time"
)

const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusViewed   = "viewed"
	ApplicationStatusAccepted = "accepted"
	ApplicationStatusRejected = "rejected"
	ApplicationStatusHired    = "hired"
)

// pending → viewed → accepted → hired, with rejected reachable from every
// non-terminal state and viewed allowed to hire directly.
var applicationTransitions = map[string][]string{
	ApplicationStatusPending:  {ApplicationStatusViewed, ApplicationStatusAccepted, ApplicationStatusRejected},
	ApplicationStatusViewed:   {ApplicationStatusAccepted, ApplicationStatusRejected, ApplicationStatusHired},
	ApplicationStatusAccepted: {ApplicationStatusHired, ApplicationStatusRejected},
}

func ValidApplicationStatus(status string) bool {
	switch status {
	case ApplicationStatusPending, ApplicationStatusViewed, ApplicationStatusAccepted,
		ApplicationStatusRejected, ApplicationStatusHired:
		return true
	}
	return false
}

func CanTransitionApplication(from, to string) bool {
	for _, next := range applicationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Application is a seeker's interest in a company. There is at most one per
// (applicant, company).
type Application struct {
	ID           string     `json:"id"`
	ApplicantID  string     `json:"applicant_id"`
	CompanyID    string     `json:"company_id"`
	ResumeID     string     `json:"resume_id"`
	JobPostingID *string    `json:"job_posting_id,omitempty"`
	Status       string     `json:"status"`
	AppliedAt    time.Time  `json:"applied_at"`
	ViewedAt     *time.Time `json:"viewed_at,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`

	// Joined data for list responses
	Applicant   *UserSummary `json:"applicant,omitempty"`
	Company     *UserSummary `json:"company,omitempty"`
	ResumeTitle *string      `json:"resume_title,omitempty"`
}

// Transition applies a status change. Moving to the current status is a
// no-op and reports changed=false.
func (a *Application) Transition(to string, now time.Time) (bool, error) {
	if !ValidApplicationStatus(to) {
		return false, ErrValidation
	}
	if a.Status == to {
		return false, nil
	}
	if !CanTransitionApplication(a.Status, to) {
		return false, &TransitionError{Entity: "application", From: a.Status, To: to}
	}
	if to == ApplicationStatusViewed && a.ViewedAt == nil {
		t := now
		a.ViewedAt = &t
	}
	a.Status = to
	a.UpdatedAt = now
	return true, nil
}

type ApplyInput struct {
	CompanyID    string  `json:"company_id" binding:"required,uuid"`
	ResumeID     string  `json:"resume_id" binding:"required,uuid"`
	JobPostingID *string `json:"job_posting_id" binding:"omitempty,uuid"`
}

type UpdateApplicationStatusInput struct {
	Status string `json:"status" binding:"required,oneof=pending viewed accepted rejected hired"`
}

type ApplicationRepository interface {
	// Create maps the (applicant, company) unique violation to ErrDuplicate.
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id string) (*Application, error)
	LockByID(ctx context.Context, id string) (*Application, error)
	ListByApplicant(ctx context.Context, applicantID string, page Page) ([]Application, int64, error)
	ListByCompany(ctx context.Context, companyID string, status string, page Page) ([]Application, int64, error)
	UpdateStatus(ctx context.Context, app *Application) error
	Delete(ctx context.Context, id string) error
	ExistsBetween(ctx context.Context, applicantID, companyID string) (bool, error)
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, seekerID string, in ApplyInput) (*Application, error)
	List(ctx context.Context, callerID string, role Role, status string, page Page) (*PaginatedResult[Application], error)
	Get(ctx context.Context, callerID string, role Role, id string) (*Application, error)
	UpdateStatus(ctx context.Context, companyID, id, status string) (*Application, error)
	Cancel(ctx context.Context, seekerID, id string) error
}
