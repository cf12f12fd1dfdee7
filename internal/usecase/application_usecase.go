package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go-scout-backend/internal/domain"
	"go-scout-backend/pkg/apperror"
)

type applicationUsecase struct {
	applicationRepo domain.ApplicationRepository
	resumeRepo      domain.ResumeRepository
	userRepo        domain.UserRepository
	jobRepo         domain.JobRepository
	tx              domain.Transactor
	notifier        domain.Notifier
}

// NewApplicationUsecase creates a new application usecase
func NewApplicationUsecase(
	appRepo domain.ApplicationRepository,
	resumeRepo domain.ResumeRepository,
	userRepo domain.UserRepository,
	jobRepo domain.JobRepository,
	tx domain.Transactor,
	notifier domain.Notifier,
) domain.ApplicationUsecase {
	return &applicationUsecase{
		applicationRepo: appRepo,
		resumeRepo:      resumeRepo,
		userRepo:        userRepo,
		jobRepo:         jobRepo,
		tx:              tx,
		notifier:        notifier,
	}
}

// Apply records a seeker's application to a company, once per pair.
func (uc *applicationUsecase) Apply(ctx context.Context, seekerID string, in domain.ApplyInput) (*domain.Application, error) {
	// 1. The resume must belong to the applicant
	resume, err := uc.resumeRepo.GetByID(ctx, in.ResumeID)
	if err != nil {
		return nil, mapError(err, "Resume")
	}
	if resume.UserID != seekerID {
		return nil, apperror.Forbidden("You can only apply with your own resume")
	}

	// 2. The target must be an active company
	company, err := uc.userRepo.GetByID(ctx, in.CompanyID)
	if err != nil {
		return nil, mapError(err, "Company")
	}
	if company.Role != domain.RoleCompany || !company.IsActive {
		return nil, apperror.NotFound("Company not found")
	}

	// 3. An optional job posting must be the company's and open
	if in.JobPostingID != nil {
		job, err := uc.jobRepo.GetByID(ctx, *in.JobPostingID)
		if err != nil {
			return nil, mapError(err, "Job posting")
		}
		if job.CompanyID != company.ID || job.Status != domain.JobStatusOpen {
			return nil, apperror.BadRequest("Job posting is not open for this company")
		}
	}

	// 4. Insert; the (applicant, company) unique index settles races
	now := time.Now()
	app := &domain.Application{
		ID:           uuid.NewString(),
		ApplicantID:  seekerID,
		CompanyID:    company.ID,
		ResumeID:     resume.ID,
		JobPostingID: in.JobPostingID,
		Status:       domain.ApplicationStatusPending,
		AppliedAt:    now,
		UpdatedAt:    now,
	}

	var created *domain.Application
	err = uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := uc.applicationRepo.Create(ctx, app); err != nil {
			return err
		}
		a, err := uc.applicationRepo.GetByID(ctx, app.ID)
		if err != nil {
			return err
		}
		created = a
		uc.tx.AfterCommit(ctx, func() {
			uc.notifier.Publish(context.Background(), domain.Event{
				Type:    domain.EventApplicationCreated,
				UserID:  created.CompanyID,
				Payload: created,
			})
		})
		return nil
	})
	if err != nil {
		if isDuplicate(err) {
			return nil, apperror.Conflict("You have already applied to this company")
		}
		return nil, mapError(err, "Application")
	}
	return created, nil
}

func (uc *applicationUsecase) List(ctx context.Context, callerID string, role domain.Role, status string, page domain.Page) (*domain.PaginatedResult[domain.Application], error) {
	if status != "" && !domain.ValidApplicationStatus(status) {
		return nil, apperror.BadRequest("Invalid application status filter")
	}

	var (
		apps  []domain.Application
		total int64
		err   error
	)
	switch role {
	case domain.RoleSeeker:
		apps, total, err = uc.applicationRepo.ListByApplicant(ctx, callerID, page)
	case domain.RoleCompany:
		apps, total, err = uc.applicationRepo.ListByCompany(ctx, callerID, status, page)
	default:
		return nil, apperror.Forbidden("Applications are listed by their applicant or company")
	}
	if err != nil {
		return nil, mapError(err, "Application")
	}
	return domain.NewPaginatedResult(apps, total, page), nil
}

func (uc *applicationUsecase) Get(ctx context.Context, callerID string, role domain.Role, id string) (*domain.Application, error) {
	app, err := uc.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err, "Application")
	}
	if role != domain.RoleAdmin && app.ApplicantID != callerID && app.CompanyID != callerID {
		return nil, apperror.Forbidden("You can only view your own applications")
	}
	return app, nil
}

// UpdateStatus moves an application along its lifecycle. The applicant is
// notified of every real change.
func (uc *applicationUsecase) UpdateStatus(ctx context.Context, companyID, id, status string) (*domain.Application, error) {
	var app *domain.Application
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := uc.applicationRepo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if a.CompanyID != companyID {
			return apperror.Forbidden("You can only update applications sent to your company")
		}

		previous := a.Status
		changed, err := a.Transition(status, time.Now())
		if err != nil {
			return err
		}
		app = a
		if !changed {
			return nil
		}
		if err := uc.applicationRepo.UpdateStatus(ctx, a); err != nil {
			return err
		}

		uc.tx.AfterCommit(ctx, func() {
			uc.notifier.Publish(context.Background(), domain.Event{
				Type:   domain.EventApplicationStatusChanged,
				UserID: a.ApplicantID,
				Payload: map[string]any{
					"application_id":  a.ID,
					"company_id":      a.CompanyID,
					"status":          a.Status,
					"previous_status": previous,
					"updated_at":      a.UpdatedAt,
				},
			})
		})
		return nil
	})
	if err != nil {
		return nil, mapError(err, "Application")
	}
	return app, nil
}

func (uc *applicationUsecase) Cancel(ctx context.Context, seekerID, id string) error {
	app, err := uc.applicationRepo.GetByID(ctx, id)
	if err != nil {
		return mapError(err, "Application")
	}
	if app.ApplicantID != seekerID {
		return apperror.Forbidden("You can only withdraw your own applications")
	}
	if err := uc.applicationRepo.Delete(ctx, id); err != nil {
		return mapError(err, "Application")
	}
	return nil
}
