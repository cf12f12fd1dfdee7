package domain

import (
	"context"
	"time"
)

type Resume struct {
	ID                string       `json:"id"`
	UserID            string       `json:"user_id"`
	Title             string       `json:"title"`
	Skills            string       `json:"skills"`
	SelfPR            string       `json:"self_pr"`
	DesiredJob        string       `json:"desired_job"`
	DesiredIndustries []string     `json:"desired_industries"`
	DesiredLocations  []string     `json:"desired_locations"`
	IsActive          bool         `json:"is_active"`
	SubmittedAt       *time.Time   `json:"submitted_at,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
	Experiences       []Experience `json:"experiences"`
}

// Experience is one entry of a resume's work history. A nil PeriodTo means
// the position is current.
type Experience struct {
	ID             string     `json:"id"`
	ResumeID       string     `json:"resume_id"`
	Company        string     `json:"company" binding:"required,max=200"`
	PeriodFrom     time.Time  `json:"period_from" binding:"required"`
	PeriodTo       *time.Time `json:"period_to,omitempty"`
	EmploymentType string     `json:"employment_type" binding:"max=50"`
	Position       string     `json:"position" binding:"max=200"`
	Tasks          string     `json:"tasks" binding:"max=5000"`
	Order          int        `json:"order"`
}

func (e Experience) Validate() error {
	if e.PeriodTo != nil && e.PeriodTo.Before(e.PeriodFrom) {
		return ErrValidation
	}
	return nil
}

// Months returns the whole months covered, counting an open period up to now.
func (e Experience) Months(now time.Time) int {
	end := now
	if e.PeriodTo != nil {
		end = *e.PeriodTo
	}
	months := (end.Year()-e.PeriodFrom.Year())*12 + int(end.Month()-e.PeriodFrom.Month())
	if months < 0 {
		return 0
	}
	return months
}

type ResumeInput struct {
	Title             string       `json:"title" binding:"required,max=200"`
	Skills            string       `json:"skills" binding:"max=5000"`
	SelfPR            string       `json:"self_pr" binding:"max=10000"`
	DesiredJob        string       `json:"desired_job" binding:"max=200"`
	DesiredIndustries []string     `json:"desired_industries" binding:"max=20,dive,max=100"`
	DesiredLocations  []string     `json:"desired_locations" binding:"max=47,dive,prefecture"`
	Experiences       []Experience `json:"experiences" binding:"max=50,dive"`
}

// Apply copies the input onto r and renumbers experiences in input order.
func (in ResumeInput) Apply(r *Resume) error {
	for i := range in.Experiences {
		if err := in.Experiences[i].Validate(); err != nil {
			return err
		}
	}
	r.Title = in.Title
	r.Skills = in.Skills
	r.SelfPR = in.SelfPR
	r.DesiredJob = in.DesiredJob
	r.DesiredIndustries = nonNil(in.DesiredIndustries)
	r.DesiredLocations = nonNil(in.DesiredLocations)
	r.Experiences = make([]Experience, len(in.Experiences))
	for i, exp := range in.Experiences {
		exp.ResumeID = r.ID
		exp.Order = i
		r.Experiences[i] = exp
	}
	return nil
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

type ResumeRepository interface {
	// Create inserts the resume and its experiences.
	Create(ctx context.Context, resume *Resume) error
	GetByID(ctx context.Context, id string) (*Resume, error)
	ListByUser(ctx context.Context, userID string, page Page) ([]Resume, int64, error)
	// Update rewrites the resume row and replaces its experience list.
	Update(ctx context.Context, resume *Resume) error
	Delete(ctx context.Context, id string) error
	// Activate clears is_active on the owner's other resumes and sets it on id.
	Activate(ctx context.Context, userID, id string) error
	MarkSubmitted(ctx context.Context, id string, at time.Time) error
	GetActiveByUser(ctx context.Context, userID string) (*Resume, error)
}

type ResumeUsecase interface {
	Create(ctx context.Context, userID string, in ResumeInput) (*Resume, error)
	List(ctx context.Context, userID string, page Page) (*PaginatedResult[Resume], error)
	// Get lets owners, admins and related companies read a resume.
	Get(ctx context.Context, callerID string, role Role, id string) (*Resume, error)
	Update(ctx context.Context, userID, id string, in ResumeInput) (*Resume, error)
	Delete(ctx context.Context, userID, id string) error
	Activate(ctx context.Context, userID, id string) (*Resume, error)
	Submit(ctx context.Context, userID, id string) (*Resume, error)
	PDFDownloadURL(ctx context.Context, userID string, role Role, id string) (string, error)
	EmailPDFLink(ctx context.Context, userID, id string) error
}
