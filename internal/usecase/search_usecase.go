package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"go-scout-backend/internal/domain"
	"go-scout-backend/pkg/apperror"
)

type searchUsecase struct {
	repo domain.SearchRepository
}

// NewSearchUsecase creates the seeker search used by companies.
func NewSearchUsecase(repo domain.SearchRepository) domain.SearchUsecase {
	return &searchUsecase{repo: repo}
}

func validateSeekerFilter(filter domain.SeekerFilter) error {
	if filter.MinExperience != nil && filter.MaxExperience != nil && *filter.MinExperience > *filter.MaxExperience {
		return apperror.BadRequest("min_experience cannot be greater than max_experience")
	}
	return nil
}

// SearchSeekers returns active seekers with an active resume matching filter.
func (u *searchUsecase) SearchSeekers(ctx context.Context, filter domain.SeekerFilter) (*domain.PaginatedResult[domain.SeekerSearchResult], error) {
	if err := validateSeekerFilter(filter); err != nil {
		return nil, err
	}
	page := domain.NewPage(filter.Page, filter.Limit)
	results, total, err := u.repo.SearchSeekers(ctx, filter, page)
	if err != nil {
		return nil, mapError(err, "Seeker")
	}
	return domain.NewPaginatedResult(results, total, page), nil
}

var exportColumns = []string{
	"DISPLAY NAME",
	"PREFECTURE",
	"DESIRED SALARY",
	"RESUME TITLE",
	"DESIRED JOB",
	"SKILLS",
	"EXPERIENCE (MONTHS)",
	"SUBMITTED AT",
	"UPDATED AT",
}

// ExportSeekers writes up to MaxExportRows matches as an xlsx workbook.
func (u *searchUsecase) ExportSeekers(ctx context.Context, filter domain.SeekerFilter, w io.Writer) error {
	if err := validateSeekerFilter(filter); err != nil {
		return err
	}
	results, _, err := u.repo.SearchSeekers(ctx, filter, domain.Page{Page: 1, Limit: domain.MaxExportRows})
	if err != nil {
		return mapError(err, "Seeker")
	}

	f := excelize.NewFile()
	defer f.Close()
	sheetName := "Seekers"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return apperror.Internal(err)
	}

	for i, name := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, name)
	}

	// Dark blue header with white text
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	for rowIdx, r := range results {
		for colIdx, value := range exportRow(r) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range exportColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	if err := f.Write(w); err != nil {
		return apperror.Internal(fmt.Errorf("failed to write Excel file: %w", err))
	}
	return nil
}

func exportRow(r domain.SeekerSearchResult) []any {
	row := []any{
		r.DisplayName,
		"",
		"",
		r.ResumeTitle,
		r.DesiredJob,
		r.Skills,
		r.ExperienceMonths,
		"",
		r.UpdatedAt.Format("2006-01-02"),
	}
	if r.Prefecture != nil {
		row[1] = *r.Prefecture
	}
	if r.DesiredSalary != nil {
		row[2] = *r.DesiredSalary
	}
	if r.SubmittedAt != nil {
		row[7] = r.SubmittedAt.Format("2006-01-02")
	}
	return row
}
