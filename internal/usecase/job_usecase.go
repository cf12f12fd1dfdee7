package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go-scout-backend/internal/domain"
	"go-scout-backend/pkg/apperror"
)

type jobUsecase struct {
	jobRepo domain.JobRepository
}

func NewJobUsecase(jobRepo domain.JobRepository) domain.JobUsecase {
	return &jobUsecase{jobRepo: jobRepo}
}

// ownedJob loads a job posting the caller may manage: its company or an admin.
func ownedJob(ctx context.Context, jobRepo domain.JobRepository, callerID string, role domain.Role, id string) (*domain.JobPosting, error) {
	job, err := jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err, "Job posting")
	}
	if role != domain.RoleAdmin && job.CompanyID != callerID {
		return nil, apperror.Forbidden("You can only manage your own job postings")
	}
	return job, nil
}

func (u *jobUsecase) Create(ctx context.Context, companyID string, in domain.JobInput) (*domain.JobPosting, error) {
	now := time.Now()
	job := &domain.JobPosting{
		ID:          uuid.NewString(),
		CompanyID:   companyID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if job.Status == "" {
		job.Status = domain.JobStatusOpen
	}
	if err := u.jobRepo.Create(ctx, job); err != nil {
		return nil, mapError(err, "Job posting")
	}
	return job, nil
}

// Get returns open postings to anyone; drafts and closed postings only to
// their company and admins.
func (u *jobUsecase) Get(ctx context.Context, callerID string, role domain.Role, id string) (*domain.JobPosting, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err, "Job posting")
	}
	if job.Status != domain.JobStatusOpen && role != domain.RoleAdmin && job.CompanyID != callerID {
		return nil, apperror.NotFound("Job posting not found")
	}
	return job, nil
}

func (u *jobUsecase) List(ctx context.Context, callerID string, role domain.Role, page domain.Page) (*domain.PaginatedResult[domain.JobPosting], error) {
	var (
		jobs  []domain.JobPosting
		total int64
		err   error
	)
	if role == domain.RoleCompany {
		jobs, total, err = u.jobRepo.ListByCompany(ctx, callerID, page)
	} else {
		jobs, total, err = u.jobRepo.ListOpen(ctx, page)
	}
	if err != nil {
		return nil, mapError(err, "Job posting")
	}
	return domain.NewPaginatedResult(jobs, total, page), nil
}

func (u *jobUsecase) Update(ctx context.Context, companyID, id string, in domain.JobInput) (*domain.JobPosting, error) {
	job, err := ownedJob(ctx, u.jobRepo, companyID, domain.RoleCompany, id)
	if err != nil {
		return nil, err
	}
	job.Title = in.Title
	job.Description = in.Description
	if in.Status != "" {
		job.Status = in.Status
	}
	job.UpdatedAt = time.Now()
	if err := u.jobRepo.Update(ctx, job); err != nil {
		return nil, mapError(err, "Job posting")
	}
	return job, nil
}

func (u *jobUsecase) Authorize(ctx context.Context, callerID string, role domain.Role, id string) (*domain.JobPosting, error) {
	return ownedJob(ctx, u.jobRepo, callerID, role, id)
}
