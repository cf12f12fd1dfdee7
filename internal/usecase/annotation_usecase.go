package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go-scout-backend/internal/domain"
	"go-scout-backend/pkg/apperror"
)

type annotationUsecase struct {
	annotationRepo domain.AnnotationRepository
	resumeRepo     domain.ResumeRepository
}

func NewAnnotationUsecase(annotationRepo domain.AnnotationRepository, resumeRepo domain.ResumeRepository) domain.AnnotationUsecase {
	return &annotationUsecase{annotationRepo: annotationRepo, resumeRepo: resumeRepo}
}

// resume loads a resume the caller may annotate: its owner or an admin.
func (u *annotationUsecase) resume(ctx context.Context, callerID string, role domain.Role, resumeID string) (*domain.Resume, error) {
	resume, err := u.resumeRepo.GetByID(ctx, resumeID)
	if err != nil {
		return nil, mapError(err, "Resume")
	}
	if role != domain.RoleAdmin && resume.UserID != callerID {
		return nil, apperror.Forbidden("You can only annotate your own resumes")
	}
	return resume, nil
}

func (u *annotationUsecase) Create(ctx context.Context, callerID string, role domain.Role, resumeID string, in domain.AnnotationInput) (*domain.Annotation, error) {
	if err := in.Validate(); err != nil {
		return nil, apperror.BadRequest("start_offset must not exceed end_offset")
	}
	resume, err := u.resume(ctx, callerID, role, resumeID)
	if err != nil {
		return nil, err
	}
	a := &domain.Annotation{
		ID:          uuid.NewString(),
		ResumeID:    resume.ID,
		Subject:     in.Subject,
		AnchorID:    in.AnchorID,
		StartOffset: in.StartOffset,
		EndOffset:   in.EndOffset,
		Quote:       in.Quote,
		CreatedBy:   callerID,
		CreatedAt:   time.Now(),
	}
	if err := u.annotationRepo.Create(ctx, a); err != nil {
		return nil, mapError(err, "Annotation")
	}
	return a, nil
}

func (u *annotationUsecase) List(ctx context.Context, callerID string, role domain.Role, resumeID string, page domain.Page) (*domain.PaginatedResult[domain.Annotation], error) {
	if _, err := u.resume(ctx, callerID, role, resumeID); err != nil {
		return nil, err
	}
	items, total, err := u.annotationRepo.ListByResume(ctx, resumeID, page)
	if err != nil {
		return nil, mapError(err, "Annotation")
	}
	return domain.NewPaginatedResult(items, total, page), nil
}

func (u *annotationUsecase) Resolve(ctx context.Context, callerID string, role domain.Role, id string) (*domain.Annotation, error) {
	a, err := u.annotationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err, "Annotation")
	}
	if _, err := u.resume(ctx, callerID, role, a.ResumeID); err != nil {
		return nil, err
	}
	if !a.Resolve(callerID, time.Now()) {
		return a, nil
	}
	if err := u.annotationRepo.Resolve(ctx, a); err != nil {
		return nil, mapError(err, "Annotation")
	}
	return a, nil
}
