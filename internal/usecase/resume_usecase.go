package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go-scout-backend/internal/domain"
	"go-scout-backend/pkg/apperror"
	"go-scout-backend/pkg/email"
	"go-scout-backend/pkg/storage"
)

// PDFLinker signs short-lived download URLs for rendered resume PDFs.
type PDFLinker interface {
	PresignGet(ctx context.Context, key string) (string, error)
	TTL() time.Duration
}

type resumeUsecase struct {
	resumeRepo      domain.ResumeRepository
	applicationRepo domain.ApplicationRepository
	scoutRepo       domain.ScoutRepository
	userRepo        domain.UserRepository
	tx              domain.Transactor
	notifier        domain.Notifier
	pdf             PDFLinker
}

// NewResumeUsecase builds the resume service. pdf may be nil when object
// storage is not configured.
func NewResumeUsecase(
	resumeRepo domain.ResumeRepository,
	applicationRepo domain.ApplicationRepository,
	scoutRepo domain.ScoutRepository,
	userRepo domain.UserRepository,
	tx domain.Transactor,
	notifier domain.Notifier,
	pdf PDFLinker,
) domain.ResumeUsecase {
	return &resumeUsecase{
		resumeRepo:      resumeRepo,
		applicationRepo: applicationRepo,
		scoutRepo:       scoutRepo,
		userRepo:        userRepo,
		tx:              tx,
		notifier:        notifier,
		pdf:             pdf,
	}
}

func assignExperienceIDs(r *domain.Resume) {
	for i := range r.Experiences {
		r.Experiences[i].ID = uuid.NewString()
	}
}

// Create stores a new resume. A seeker's first resume becomes the active one.
func (u *resumeUsecase) Create(ctx context.Context, userID string, in domain.ResumeInput) (*domain.Resume, error) {
	now := time.Now()
	r := &domain.Resume{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := in.Apply(r); err != nil {
		return nil, apperror.BadRequest("Experience period_from must not be after period_to")
	}
	assignExperienceIDs(r)

	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		_, existing, err := u.resumeRepo.ListByUser(ctx, userID, domain.NewPage(1, 1))
		if err != nil {
			return err
		}
		r.IsActive = existing == 0
		return u.resumeRepo.Create(ctx, r)
	})
	if err != nil {
		return nil, mapError(err, "Resume")
	}
	return r, nil
}

func (u *resumeUsecase) List(ctx context.Context, userID string, page domain.Page) (*domain.PaginatedResult[domain.Resume], error) {
	resumes, total, err := u.resumeRepo.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, mapError(err, "Resume")
	}
	return domain.NewPaginatedResult(resumes, total, page), nil
}

// Get allows the owner, admins, and companies the seeker has applied to or
// been scouted by.
func (u *resumeUsecase) Get(ctx context.Context, callerID string, role domain.Role, id string) (*domain.Resume, error) {
	r, err := u.resumeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err, "Resume")
	}
	if r.UserID == callerID || role == domain.RoleAdmin {
		return r, nil
	}
	if role == domain.RoleCompany {
		applied, err := u.applicationRepo.ExistsBetween(ctx, r.UserID, callerID)
		if err != nil {
			return nil, mapError(err, "Resume")
		}
		if applied {
			return r, nil
		}
		scouted, err := u.scoutRepo.ExistsBetween(ctx, callerID, r.UserID)
		if err != nil {
			return nil, mapError(err, "Resume")
		}
		if scouted {
			return r, nil
		}
	}
	return nil, apperror.Forbidden("You do not have access to this resume")
}

func (u *resumeUsecase) owned(ctx context.Context, userID, id string) (*domain.Resume, error) {
	r, err := u.resumeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err, "Resume")
	}
	if r.UserID != userID {
		return nil, apperror.Forbidden("You can only manage your own resumes")
	}
	return r, nil
}

func (u *resumeUsecase) Update(ctx context.Context, userID, id string, in domain.ResumeInput) (*domain.Resume, error) {
	r, err := u.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if err := in.Apply(r); err != nil {
		return nil, apperror.BadRequest("Experience period_from must not be after period_to")
	}
	assignExperienceIDs(r)
	r.UpdatedAt = time.Now()
	if err := u.resumeRepo.Update(ctx, r); err != nil {
		return nil, mapError(err, "Resume")
	}
	return r, nil
}

func (u *resumeUsecase) Delete(ctx context.Context, userID, id string) error {
	if _, err := u.owned(ctx, userID, id); err != nil {
		return err
	}
	if err := u.resumeRepo.Delete(ctx, id); err != nil {
		return mapError(err, "Resume")
	}
	return nil
}

// Activate makes id the seeker's only active resume.
func (u *resumeUsecase) Activate(ctx context.Context, userID, id string) (*domain.Resume, error) {
	if _, err := u.owned(ctx, userID, id); err != nil {
		return nil, err
	}
	if err := u.resumeRepo.Activate(ctx, userID, id); err != nil {
		return nil, mapError(err, "Resume")
	}
	r, err := u.resumeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err, "Resume")
	}
	return r, nil
}

func (u *resumeUsecase) Submit(ctx context.Context, userID, id string) (*domain.Resume, error) {
	r, err := u.owned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := u.resumeRepo.MarkSubmitted(ctx, id, now); err != nil {
		return nil, mapError(err, "Resume")
	}
	r.SubmittedAt = &now
	return r, nil
}

func (u *resumeUsecase) pdfURL(ctx context.Context, id string) (string, error) {
	if u.pdf == nil {
		return "", apperror.DependencyUnavailable("Resume PDF storage is not configured", storage.ErrNotConfigured)
	}
	url, err := u.pdf.PresignGet(ctx, storage.ResumePDFKey(id))
	if err != nil {
		return "", apperror.DependencyUnavailable("Could not sign resume PDF link", err)
	}
	return url, nil
}

func (u *resumeUsecase) PDFDownloadURL(ctx context.Context, userID string, role domain.Role, id string) (string, error) {
	if _, err := u.Get(ctx, userID, role, id); err != nil {
		return "", err
	}
	return u.pdfURL(ctx, id)
}

// EmailPDFLink mails the owner a signed download link.
func (u *resumeUsecase) EmailPDFLink(ctx context.Context, userID, id string) error {
	r, err := u.owned(ctx, userID, id)
	if err != nil {
		return err
	}
	url, err := u.pdfURL(ctx, id)
	if err != nil {
		return err
	}
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return mapError(err, "User")
	}
	u.notifier.SendEmail(ctx, domain.EmailJob{
		To:       user.Email,
		Subject:  "Your resume PDF",
		Template: email.TemplateResumePDFLink,
		Data: map[string]string{
			"ResumeTitle": r.Title,
			"URL":         url,
			"ExpiresIn":   u.pdf.TTL().String(),
		},
	})
	return nil
}
