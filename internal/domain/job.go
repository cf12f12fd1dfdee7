package domain

import (
	"context"
	"time"
)

const (
	JobStatusDraft  = "draft"
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
)

type JobPosting struct {
	ID          string    `json:"id"`
	CompanyID   string    `json:"company_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Joined data for list responses
	CompanyName *string `json:"company_name,omitempty"`
}

type JobInput struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=20000"`
	Status      string `json:"status" binding:"omitempty,oneof=draft open closed"`
}

type JobRepository interface {
	Create(ctx context.Context, job *JobPosting) error
	GetByID(ctx context.Context, id string) (*JobPosting, error)
	ListByCompany(ctx context.Context, companyID string, page Page) ([]JobPosting, int64, error)
	ListOpen(ctx context.Context, page Page) ([]JobPosting, int64, error)
	Update(ctx context.Context, job *JobPosting) error
}

type JobUsecase interface {
	Create(ctx context.Context, companyID string, in JobInput) (*JobPosting, error)
	// Get returns any open posting; drafts and closed postings only to their owner or an admin.
	Get(ctx context.Context, callerID string, role Role, id string) (*JobPosting, error)
	// List returns the caller's own postings for companies and open postings otherwise.
	List(ctx context.Context, callerID string, role Role, page Page) (*PaginatedResult[JobPosting], error)
	Update(ctx context.Context, companyID, id string, in JobInput) (*JobPosting, error)
	// Authorize loads the posting and checks that the caller owns it (admins pass).
	Authorize(ctx context.Context, callerID string, role Role, id string) (*JobPosting, error)
}
