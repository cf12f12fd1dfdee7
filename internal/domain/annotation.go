package domain

import (
	"context"
	"time"
)

// Annotation marks a span of a resume's text for review.
type Annotation struct {
	ID          string     `json:"id"`
	ResumeID    string     `json:"resume_id"`
	Subject     string     `json:"subject"`
	AnchorID    string     `json:"anchor_id"`
	StartOffset int        `json:"start_offset"`
	EndOffset   int        `json:"end_offset"`
	Quote       string     `json:"quote"`
	IsResolved  bool       `json:"is_resolved"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedBy   string     `json:"created_by"`
	ResolvedBy  *string    `json:"resolved_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (a *Annotation) Resolve(by string, now time.Time) bool {
	if a.IsResolved {
		return false
	}
	t := now
	a.IsResolved = true
	a.ResolvedAt = &t
	a.ResolvedBy = &by
	return true
}

type AnnotationInput struct {
	Subject     string `json:"subject" binding:"max=200"`
	AnchorID    string `json:"anchor_id" binding:"max=200"`
	StartOffset int    `json:"start_offset" binding:"gte=0"`
	EndOffset   int    `json:"end_offset" binding:"gtefield=StartOffset"`
	Quote       string `json:"quote" binding:"max=5000"`
}

func (in AnnotationInput) Validate() error {
	if in.StartOffset < 0 || in.StartOffset > in.EndOffset {
		return ErrValidation
	}
	return nil
}

type AnnotationRepository interface {
	Create(ctx context.Context, a *Annotation) error
	GetByID(ctx context.Context, id string) (*Annotation, error)
	ListByResume(ctx context.Context, resumeID string, page Page) ([]Annotation, int64, error)
	Resolve(ctx context.Context, a *Annotation) error
}

type AnnotationUsecase interface {
	Create(ctx context.Context, callerID string, role Role, resumeID string, in AnnotationInput) (*Annotation, error)
	List(ctx context.Context, callerID string, role Role, resumeID string, page Page) (*PaginatedResult[Annotation], error)
	Resolve(ctx context.Context, callerID string, role Role, id string) (*Annotation, error)
}
