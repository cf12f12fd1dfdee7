package domain

import (
	"context"
	"io"
	"time"
)

// ============================================================================
// Seeker Search
// ============================================================================

// MaxExportRows caps the spreadsheet export.
const MaxExportRows = 1000

// SeekerFilter holds the company-side search parameters. Experience bounds are
// whole years summed over the active resume's experiences.
type SeekerFilter struct {
	Keyword       string   `form:"keyword" binding:"max=200"`
	Prefecture    string   `form:"prefecture" binding:"omitempty,prefecture"`
	MinExperience *int     `form:"min_experience" binding:"omitempty,gte=0,lte=60"`
	MaxExperience *int     `form:"max_experience" binding:"omitempty,gte=0,lte=60"`
	Skills        []string `form:"skills" binding:"max=20,dive,max=100"`
	Page          int      `form:"page"`
	Limit         int      `form:"limit"`
}

// SeekerSearchResult is one seeker row with their active resume.
type SeekerSearchResult struct {
	UserID           string     `json:"user_id"`
	DisplayName      string     `json:"display_name"`
	Prefecture       *string    `json:"prefecture,omitempty"`
	DesiredSalary    *int       `json:"desired_salary,omitempty"`
	ResumeID         string     `json:"resume_id"`
	ResumeTitle      string     `json:"resume_title"`
	DesiredJob       string     `json:"desired_job"`
	Skills           string     `json:"skills"`
	ExperienceMonths int        `json:"experience_months"`
	SubmittedAt      *time.Time `json:"submitted_at,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type SearchRepository interface {
	SearchSeekers(ctx context.Context, filter SeekerFilter, page Page) ([]SeekerSearchResult, int64, error)
}

type SearchUsecase interface {
	SearchSeekers(ctx context.Context, filter SeekerFilter) (*PaginatedResult[SeekerSearchResult], error)
	// ExportSeekers writes the filtered rows as an xlsx workbook.
	ExportSeekers(ctx context.Context, filter SeekerFilter, w io.Writer) error
}
