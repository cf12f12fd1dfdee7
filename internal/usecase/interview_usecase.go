package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"go-scout-backend/internal/domain"
	"go-scout-backend/pkg/apperror"
)

type interviewUsecase struct {
	interviewRepo domain.InterviewRepository
	jobRepo       domain.JobRepository
	userRepo      domain.UserRepository
	charger       domain.TicketCharger
	tx            domain.Transactor
}

func NewInterviewUsecase(
	interviewRepo domain.InterviewRepository,
	jobRepo domain.JobRepository,
	userRepo domain.UserRepository,
	charger domain.TicketCharger,
	tx domain.Transactor,
) domain.InterviewUsecase {
	return &interviewUsecase{
		interviewRepo: interviewRepo,
		jobRepo:       jobRepo,
		userRepo:      userRepo,
		charger:       charger,
		tx:            tx,
	}
}

// Propose offers candidate windows for a (job posting, seeker) pair. Either
// side may propose; the other side answers.
func (u *interviewUsecase) Propose(ctx context.Context, callerID string, role domain.Role, in domain.ProposeSlotsInput) ([]domain.InterviewSlot, error) {
	proposer, ok := domain.ProposerFor(role)
	if !ok {
		return nil, apperror.Forbidden("Only seekers and companies can propose interview slots")
	}
	job, err := u.jobRepo.GetByID(ctx, in.JobPostingID)
	if err != nil {
		return nil, mapError(err, "Job posting")
	}

	seekerID := in.SeekerID
	if role == domain.RoleCompany {
		if job.CompanyID != callerID {
			return nil, apperror.Forbidden("You can only propose interviews for your own job postings")
		}
		if seekerID == "" {
			return nil, apperror.BadRequest("seeker_id is required")
		}
		seeker, err := u.userRepo.GetByID(ctx, seekerID)
		if err != nil {
			return nil, mapError(err, "Seeker")
		}
		if seeker.Role != domain.RoleSeeker {
			return nil, apperror.NotFound("Seeker not found")
		}
	} else {
		if seekerID != "" && seekerID != callerID {
			return nil, apperror.Forbidden("You can only propose interviews for yourself")
		}
		seekerID = callerID
	}

	now := time.Now()
	slots := make([]domain.InterviewSlot, 0, len(in.Slots))
	for _, w := range in.Slots {
		if !w.EndTime.After(w.StartTime) {
			return nil, apperror.BadRequest("end_time must be after start_time")
		}
		slots = append(slots, domain.InterviewSlot{
			ID:           uuid.NewString(),
			JobPostingID: job.ID,
			SeekerID:     seekerID,
			ProposedBy:   proposer,
			StartTime:    w.StartTime,
			EndTime:      w.EndTime,
			Status:       domain.SlotStatusProposed,
			CreatedAt:    now,
		})
	}
	if err := u.interviewRepo.CreateMany(ctx, slots); err != nil {
		return nil, mapError(err, "Interview slot")
	}
	return slots, nil
}

func (u *interviewUsecase) List(ctx context.Context, callerID string, role domain.Role, jobPostingID, seekerID string, page domain.Page) (*domain.PaginatedResult[domain.InterviewSlot], error) {
	var (
		slots []domain.InterviewSlot
		total int64
		err   error
	)
	switch {
	case jobPostingID != "" && seekerID != "":
		if err := u.authorizePair(ctx, callerID, role, jobPostingID, seekerID); err != nil {
			return nil, err
		}
		slots, total, err = u.interviewRepo.ListByPair(ctx, jobPostingID, seekerID, page)
	case role == domain.RoleSeeker:
		slots, total, err = u.interviewRepo.ListBySeeker(ctx, callerID, page)
	case role == domain.RoleCompany:
		slots, total, err = u.interviewRepo.ListByCompany(ctx, callerID, page)
	default:
		return nil, apperror.BadRequest("job_posting_id and seeker_id are required")
	}
	if err != nil {
		return nil, mapError(err, "Interview slot")
	}
	return domain.NewPaginatedResult(slots, total, page), nil
}

func (u *interviewUsecase) authorizePair(ctx context.Context, callerID string, role domain.Role, jobPostingID, seekerID string) error {
	switch role {
	case domain.RoleAdmin:
		return nil
	case domain.RoleSeeker:
		if seekerID != callerID {
			return apperror.Forbidden("You can only view your own interviews")
		}
		return nil
	}
	_, err := ownedJob(ctx, u.jobRepo, callerID, role, jobPostingID)
	return err
}

// participant reports whether the caller is the slot's seeker or the company
// owning its job posting, and on which side.
func (u *interviewUsecase) participant(ctx context.Context, slot *domain.InterviewSlot, callerID string, role domain.Role) (string, error) {
	switch role {
	case domain.RoleSeeker:
		if slot.SeekerID == callerID {
			return domain.ProposerSeeker, nil
		}
	case domain.RoleCompany:
		job, err := u.jobRepo.GetByID(ctx, slot.JobPostingID)
		if err != nil {
			return "", err
		}
		if job.CompanyID == callerID {
			return domain.ProposerCompany, nil
		}
	}
	return "", apperror.Forbidden("You are not a participant of this interview")
}

// answer locks the slot, checks the caller may answer it and applies fn.
func (u *interviewUsecase) answer(ctx context.Context, callerID string, role domain.Role, id string, fn func(ctx context.Context, slot *domain.InterviewSlot) error) (*domain.InterviewSlot, error) {
	var slot *domain.InterviewSlot
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		s, err := u.interviewRepo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		side, err := u.participant(ctx, s, callerID, role)
		if err != nil {
			return err
		}
		if side == s.ProposedBy {
			return apperror.Forbidden("Only the invited party can answer this proposal")
		}
		if err := fn(ctx, s); err != nil {
			return err
		}
		slot = s
		return nil
	})
	if err != nil {
		return nil, mapError(err, "Interview slot")
	}
	return slot, nil
}

// Accept confirms one slot, declines the pair's other proposals and charges
// a ticket when the job posting has a ledger.
func (u *interviewUsecase) Accept(ctx context.Context, callerID string, role domain.Role, id string) (*domain.InterviewSlot, error) {
	slot, err := u.answer(ctx, callerID, role, id, func(ctx context.Context, s *domain.InterviewSlot) error {
		if err := s.Accept(time.Now()); err != nil {
			return err
		}

		c, err := u.charger.TryConsume(ctx, s.JobPostingID, domain.ConsumeRef{
			SeekerID:        &s.SeekerID,
			InterviewSlotID: &s.ID,
			InterviewDate:   &s.StartTime,
			Notes:           "interview accepted",
		})
		switch {
		case err == nil:
			s.TicketConsumptionID = &c.ID
		case !errors.Is(err, domain.ErrNoLedger):
			return err
		}

		if err := u.interviewRepo.UpdateStatus(ctx, s); err != nil {
			if isDuplicate(err) {
				return apperror.Conflict("Another slot is already accepted for this interview")
			}
			return err
		}
		_, err = u.interviewRepo.DeclineOtherProposed(ctx, s.JobPostingID, s.SeekerID, s.ID)
		return err
	})
	return slot, err
}

func (u *interviewUsecase) Decline(ctx context.Context, callerID string, role domain.Role, id string) (*domain.InterviewSlot, error) {
	return u.answer(ctx, callerID, role, id, func(ctx context.Context, s *domain.InterviewSlot) error {
		if err := s.Decline(); err != nil {
			return err
		}
		return u.interviewRepo.UpdateStatus(ctx, s)
	})
}

// Expire withdraws a proposal. Either participant may do it.
func (u *interviewUsecase) Expire(ctx context.Context, callerID string, role domain.Role, id string) (*domain.InterviewSlot, error) {
	var slot *domain.InterviewSlot
	err := u.tx.WithinTx(ctx, func(ctx context.Context) error {
		s, err := u.interviewRepo.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if role != domain.RoleAdmin {
			if _, err := u.participant(ctx, s, callerID, role); err != nil {
				return err
			}
		}
		if err := s.Expire(); err != nil {
			return err
		}
		if err := u.interviewRepo.UpdateStatus(ctx, s); err != nil {
			return err
		}
		slot = s
		return nil
	})
	if err != nil {
		return nil, mapError(err, "Interview slot")
	}
	return slot, nil
}

func (u *interviewUsecase) ExpirePast(ctx context.Context) (int64, error) {
	n, err := u.interviewRepo.ExpirePast(ctx, time.Now())
	if err != nil {
		return 0, mapError(err, "Interview slot")
	}
	return n, nil
}
