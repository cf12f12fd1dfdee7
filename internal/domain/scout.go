package domain

import (
	"context"
	"time"
)

const (
	ScoutStatusSent      = "sent"
	ScoutStatusViewed    = "viewed"
	ScoutStatusResponded = "responded"
	ScoutStatusExpired   = "expired"
)

// Scout is an invitation from a company to a seeker. The same pair may be
// scouted more than once.
type Scout struct {
	ID           string     `json:"id"`
	CompanyID    string     `json:"company_id"`
	SeekerID     string     `json:"seeker_id"`
	JobPostingID *string    `json:"job_posting_id,omitempty"`
	Status       string     `json:"status"`
	Message      string     `json:"message"`
	ScoutedAt    time.Time  `json:"scouted_at"`
	ViewedAt     *time.Time `json:"viewed_at,omitempty"`
	RespondedAt  *time.Time `json:"responded_at,omitempty"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`

	// Joined data for list responses
	Seeker   *UserSummary `json:"seeker,omitempty"`
	Company  *UserSummary `json:"company,omitempty"`
	JobTitle *string      `json:"job_title,omitempty"`
}

func (s *Scout) IsTerminal() bool {
	return s.Status == ScoutStatusResponded || s.Status == ScoutStatusExpired
}

// MarkViewed moves a sent scout to viewed. Any other state is left alone, so
// repeated calls keep the first viewed_at.
func (s *Scout) MarkViewed(now time.Time) bool {
	if s.Status != ScoutStatusSent {
		return false
	}
	t := now
	s.Status = ScoutStatusViewed
	s.ViewedAt = &t
	return true
}

// Respond refuses a scout past its expiry even before the sweeper marks it.
func (s *Scout) Respond(now time.Time) error {
	if s.IsTerminal() {
		return &TransitionError{Entity: "scout", From: s.Status, To: ScoutStatusResponded}
	}
	if s.IsDue(now) {
		return &TransitionError{Entity: "scout", From: ScoutStatusExpired, To: ScoutStatusResponded}
	}
	t := now
	s.Status = ScoutStatusResponded
	s.RespondedAt = &t
	return nil
}

func (s *Scout) IsDue(now time.Time) bool {
	return !s.IsTerminal() && s.ExpiresAt != nil && s.ExpiresAt.Before(now)
}

// ScoutGroup collects a seeker's received scouts from one company.
type ScoutGroup struct {
	CompanyID       string       `json:"company_id"`
	Company         *UserSummary `json:"company,omitempty"`
	LatestScoutedAt time.Time    `json:"latest_scouted_at"`
	Scouts          []Scout      `json:"scouts"`
}

// GroupScoutsByCompany groups scouts already ordered by scouted_at descending.
// Groups come out ordered by their most recent scout.
func GroupScoutsByCompany(scouts []Scout) []ScoutGroup {
	groups := []ScoutGroup{}
	index := make(map[string]int)
	for _, s := range scouts {
		i, ok := index[s.CompanyID]
		if !ok {
			i = len(groups)
			index[s.CompanyID] = i
			groups = append(groups, ScoutGroup{
				CompanyID:       s.CompanyID,
				Company:         s.Company,
				LatestScoutedAt: s.ScoutedAt,
			})
		}
		groups[i].Scouts = append(groups[i].Scouts, s)
	}
	return groups
}

type SendScoutInput struct {
	SeekerID     string  `json:"seeker_id" binding:"required,uuid"`
	JobPostingID *string `json:"job_posting_id" binding:"omitempty,uuid"`
	Message      string  `json:"message" binding:"required,max=5000"`
}

type DraftScoutInput struct {
	SeekerID     string  `json:"seeker_id" binding:"required,uuid"`
	JobPostingID *string `json:"job_posting_id" binding:"omitempty,uuid"`
	Tone         string  `json:"tone" binding:"omitempty,oneof=formal friendly casual"`
}

type ScoutDraft struct {
	Message string `json:"message"`
}

type ScoutRepository interface {
	Create(ctx context.Context, scout *Scout) error
	GetByID(ctx context.Context, id string) (*Scout, error)
	LockByID(ctx context.Context, id string) (*Scout, error)
	ListBySeeker(ctx context.Context, seekerID string, page Page) ([]Scout, int64, error)
	ListByCompany(ctx context.Context, companyID string, page Page) ([]Scout, int64, error)
	UpdateStatus(ctx context.Context, scout *Scout) error
	// ExpireDue moves every sent or viewed scout past its expiry to expired.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
	ExistsBetween(ctx context.Context, companyID, seekerID string) (bool, error)
}

type ScoutUsecase interface {
	Send(ctx context.Context, companyID string, in SendScoutInput) (*Scout, error)
	List(ctx context.Context, callerID string, role Role, page Page) (*PaginatedResult[Scout], error)
	// ListGrouped pages the seeker's scouts and groups that page by company.
	ListGrouped(ctx context.Context, seekerID string, page Page) (*PaginatedResult[ScoutGroup], error)
	Get(ctx context.Context, callerID string, role Role, id string) (*Scout, error)
	MarkViewed(ctx context.Context, seekerID, id string) (*Scout, error)
	Respond(ctx context.Context, seekerID, id string) (*Scout, error)
	ExpireDue(ctx context.Context) (int64, error)
	Draft(ctx context.Context, companyID string, in DraftScoutInput) (*ScoutDraft, error)
}
