package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"go-scout-backend/internal/domain"
	"go-scout-backend/pkg/apperror"
	"go-scout-backend/pkg/email"
	"go-scout-backend/pkg/logger"
	"go-scout-backend/pkg/security"
	"go-scout-backend/pkg/textgen"
)

// ScoutDrafter produces a scout message suggestion.
type ScoutDrafter interface {
	DraftScout(ctx context.Context, prompt textgen.ScoutPrompt) (string, error)
}

type ScoutConfig struct {
	TTL         time.Duration
	FrontendURL string
}

type scoutUsecase struct {
	scoutRepo  domain.ScoutRepository
	userRepo   domain.UserRepository
	jobRepo    domain.JobRepository
	resumeRepo domain.ResumeRepository
	charger    domain.TicketCharger
	tx         domain.Transactor
	notifier   domain.Notifier
	drafter    ScoutDrafter
	secLog     *security.SecurityLogger
	cfg        ScoutConfig
}

// NewScoutUsecase builds the scout engine. drafter may be nil when text
// generation is not configured.
func NewScoutUsecase(
	scoutRepo domain.ScoutRepository,
	userRepo domain.UserRepository,
	jobRepo domain.JobRepository,
	resumeRepo domain.ResumeRepository,
	charger domain.TicketCharger,
	tx domain.Transactor,
	notifier domain.Notifier,
	drafter ScoutDrafter,
	secLog *security.SecurityLogger,
	cfg ScoutConfig,
) domain.ScoutUsecase {
	if secLog == nil {
		secLog = security.NopLogger()
	}
	return &scoutUsecase{
		scoutRepo:  scoutRepo,
		userRepo:   userRepo,
		jobRepo:    jobRepo,
		resumeRepo: resumeRepo,
		charger:    charger,
		tx:         tx,
		notifier:   notifier,
		drafter:    drafter,
		secLog:     secLog,
		cfg:        cfg,
	}
}

// activeSeeker loads a user that can receive scouts.
func (u *scoutUsecase) activeSeeker(ctx context.Context, id string) (*domain.User, error) {
	seeker, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err, "Seeker")
	}
	if seeker.Role != domain.RoleSeeker || !seeker.IsActive {
		return nil, apperror.NotFound("Seeker not found")
	}
	return seeker, nil
}

// companyJob loads a job posting the company may scout for.
func (u *scoutUsecase) companyJob(ctx context.Context, companyID string, jobID *string) (*domain.JobPosting, error) {
	if jobID == nil {
		return nil, nil
	}
	job, err := ownedJob(ctx, u.jobRepo, companyID, domain.RoleCompany, *jobID)
	if err != nil {
		return nil, err
	}
	if job.Status == domain.JobStatusClosed {
		return nil, apperror.BadRequest("Job posting is closed")
	}
	return job, nil
}

// Send creates a scout and charges for it in one transaction. A scout tied
// to a job posting with a ticket ledger spends a ticket; otherwise it spends
// one of the company's scout credits.
func (u *scoutUsecase) Send(ctx context.Context, companyID string, in domain.SendScoutInput) (*domain.Scout, error) {
	seeker, err := u.activeSeeker(ctx, in.SeekerID)
	if err != nil {
		return nil, err
	}
	job, err := u.companyJob(ctx, companyID, in.JobPostingID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	expiresAt := now.Add(u.cfg.TTL)
	scout := &domain.Scout{
		ID:           uuid.NewString(),
		CompanyID:    companyID,
		SeekerID:     seeker.ID,
		JobPostingID: in.JobPostingID,
		Status:       domain.ScoutStatusSent,
		Message:      in.Message,
		ScoutedAt:    now,
		ExpiresAt:    &expiresAt,
	}

	var created *domain.Scout
	err = u.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := u.scoutRepo.Create(ctx, scout); err != nil {
			return err
		}
		if err := u.charge(ctx, companyID, job, scout); err != nil {
			return err
		}

		s, err := u.scoutRepo.GetByID(ctx, scout.ID)
		if err != nil {
			return err
		}
		created = s
		u.tx.AfterCommit(ctx, func() { u.announce(created, seeker) })
		return nil
	})
	if err != nil {
		return nil, mapError(err, "Scout")
	}
	return created, nil
}

func (u *scoutUsecase) charge(ctx context.Context, companyID string, job *domain.JobPosting, scout *domain.Scout) error {
	if job != nil {
		_, err := u.charger.TryConsume(ctx, job.ID, domain.ConsumeRef{
			SeekerID: &scout.SeekerID,
			ScoutID:  &scout.ID,
			Notes:    "scout sent",
		})
		if !errors.Is(err, domain.ErrNoLedger) {
			return err
		}
	}

	company, err := u.userRepo.LockByID(ctx, companyID)
	if err != nil {
		return err
	}
	if err := company.ConsumeScoutCredit(); err != nil {
		u.secLog.LogBudgetExhausted(ctx, "user_id", companyID, err.Error())
		return err
	}
	return u.userRepo.UpdateScoutCredits(ctx, companyID, company.ScoutCreditsTotal, company.ScoutCreditsUsed)
}

func (u *scoutUsecase) announce(scout *domain.Scout, seeker *domain.User) {
	ctx := context.Background()
	u.notifier.Publish(ctx, domain.Event{
		Type:    domain.EventScoutCreated,
		UserID:  scout.SeekerID,
		Payload: scout,
	})

	data := map[string]string{
		"Message": scout.Message,
		"URL":     u.cfg.FrontendURL + "/scouts/" + scout.ID,
	}
	if scout.Company != nil {
		data["CompanyName"] = scout.Company.DisplayName
		if scout.Company.CompanyName != nil {
			data["CompanyName"] = *scout.Company.CompanyName
		}
	}
	if scout.JobTitle != nil {
		data["JobTitle"] = *scout.JobTitle
	}
	u.notifier.SendEmail(ctx, domain.EmailJob{
		To:       seeker.Email,
		Subject:  "You received a new scout",
		Template: email.TemplateScoutReceived,
		Data:     data,
	})
}

func (u *scoutUsecase) List(ctx context.Context, callerID string, role domain.Role, page domain.Page) (*domain.PaginatedResult[domain.Scout], error) {
	var (
		scouts []domain.Scout
		total  int64
		err    error
	)
	switch role {
	case domain.RoleSeeker:
		scouts, total, err = u.scoutRepo.ListBySeeker(ctx, callerID, page)
	case domain.RoleCompany:
		scouts, total, err = u.scoutRepo.ListByCompany(ctx, callerID, page)
	default:
		return nil, apperror.Forbidden("Scouts are listed by their seeker or company")
	}
	if err != nil {
		return nil, mapError(err, "Scout")
	}
	return domain.NewPaginatedResult(scouts, total, page), nil
}

// ListGrouped counts scouts, not groups, in the envelope totals.
func (u *scoutUsecase) ListGrouped(ctx context.Context, seekerID string, page domain.Page) (*domain.PaginatedResult[domain.ScoutGroup], error) {
	scouts, total, err := u.scoutRepo.ListBySeeker(ctx, seekerID, page)
	if err != nil {
		return nil, mapError(err, "Scout")
	}
	return domain.NewPaginatedResult(domain.GroupScoutsByCompany(scouts), total, page), nil
}

func (u *scoutUsecase) Get(ctx context.Context, callerID string, role domain.Role, id string) (*domain.Scout, error) {
	scout, err := u.scoutRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err, "Scout")
	}
	if role != domain.RoleAdmin && scout.SeekerID != callerID && scout.CompanyID != callerID {
		return nil, apperror.Forbidden("You can only view your own scouts")
	}
	return scout, nil
}

// update locks the seeker's scout and applies fn; the row is written only
// when fn reports a change.
func (u *scoutUsecase) update(ctx context.Context, seekerID, id string, fn func(s *domain.Scout, now time.Time) (bool, error)) (*domain.Scout, error) {
	var scout *domain.Scout
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		s, err := u.scoutRepo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if s.SeekerID != seekerID {
			return apperror.Forbidden("You can only update scouts you received")
		}
		changed, err := fn(s, time.Now())
		if err != nil {
			return err
		}
		if changed {
			if err := u.scoutRepo.UpdateStatus(ctx, s); err != nil {
				return err
			}
		}
		scout = s
		return nil
	})
	if err != nil {
		return nil, mapError(err, "Scout")
	}
	return scout, nil
}

func (u *scoutUsecase) MarkViewed(ctx context.Context, seekerID, id string) (*domain.Scout, error) {
	return u.update(ctx, seekerID, id, func(s *domain.Scout, now time.Time) (bool, error) {
		return s.MarkViewed(now), nil
	})
}

func (u *scoutUsecase) Respond(ctx context.Context, seekerID, id string) (*domain.Scout, error) {
	return u.update(ctx, seekerID, id, func(s *domain.Scout, now time.Time) (bool, error) {
		if err := s.Respond(now); err != nil {
			return false, err
		}
		return true, nil
	})
}

func (u *scoutUsecase) ExpireDue(ctx context.Context) (int64, error) {
	n, err := u.scoutRepo.ExpireDue(ctx, time.Now())
	if err != nil {
		return 0, mapError(err, "Scout")
	}
	return n, nil
}

func (u *scoutUsecase) Draft(ctx context.Context, companyID string, in domain.DraftScoutInput) (*domain.ScoutDraft, error) {
	if u.drafter == nil {
		return nil, apperror.DependencyUnavailable("Text generation is not configured", textgen.ErrNotConfigured)
	}

	seeker, err := u.activeSeeker(ctx, in.SeekerID)
	if err != nil {
		return nil, err
	}
	company, err := u.userRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, mapError(err, "Company")
	}
	job, err := u.companyJob(ctx, companyID, in.JobPostingID)
	if err != nil {
		return nil, err
	}

	prompt := textgen.ScoutPrompt{
		CompanyName: company.DisplayName,
		SeekerName:  seeker.DisplayName,
		Tone:        in.Tone,
	}
	if company.CompanyName != nil {
		prompt.CompanyName = *company.CompanyName
	}
	if job != nil {
		prompt.JobTitle = job.Title
		prompt.JobDescription = job.Description
	}
	resume, err := u.resumeRepo.GetActiveByUser(ctx, seeker.ID)
	switch {
	case err == nil:
		prompt.ResumeTitle = resume.Title
		prompt.Skills = resume.Skills
		prompt.DesiredJob = resume.DesiredJob
	case !isNotFound(err):
		return nil, mapError(err, "Resume")
	}

	text, err := u.drafter.DraftScout(ctx, prompt)
	if err != nil {
		logger.Log.Warn("Scout draft failed", "company_id", companyID, "error", err)
		var upstream *textgen.UpstreamError
		if errors.As(err, &upstream) {
			return nil, apperror.DependencyUnavailable(upstream.Message, err)
		}
		return nil, apperror.DependencyUnavailable("Text generation failed", err)
	}
	return &domain.ScoutDraft{Message: text}, nil
}
