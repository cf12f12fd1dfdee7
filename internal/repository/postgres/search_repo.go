package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"go-scout-backend/internal/domain"
)

type searchRepo struct {
	base
}

func NewSearchRepository(db *pgxpool.Pool) domain.SearchRepository {
	return &searchRepo{base{db: db}}
}

// Months between period_from and period_to (today when open), by calendar month.
const experienceMonthsSQL = `
	COALESCE((
		SELECT SUM(GREATEST(0,
			(EXTRACT(YEAR FROM COALESCE(e.period_to, CURRENT_DATE)) - EXTRACT(YEAR FROM e.period_from)) * 12
			+ EXTRACT(MONTH FROM COALESCE(e.period_to, CURRENT_DATE)) - EXTRACT(MONTH FROM e.period_from)
		))
		FROM experiences e
		WHERE e.resume_id = r.id
	), 0)::int`

// SearchSeekers matches active seekers by their active resume.
func (r *searchRepo) SearchSeekers(ctx context.Context, filter domain.SeekerFilter, page domain.Page) ([]domain.SeekerSearchResult, int64, error) {
	// Build dynamic WHERE clause
	conditions := []string{"u.role = 'seeker'", "u.is_active", "r.is_active"}
	args := []interface{}{}
	argIndex := 1

	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(r.title ILIKE $%[1]d OR r.skills ILIKE $%[1]d OR r.self_pr ILIKE $%[1]d OR r.desired_job ILIKE $%[1]d OR u.display_name ILIKE $%[1]d)",
			argIndex))
		args = append(args, "%"+escapeLike(kw)+"%")
		argIndex++
	}

	if filter.Prefecture != "" {
		conditions = append(conditions, fmt.Sprintf("sp.prefecture = $%d", argIndex))
		args = append(args, filter.Prefecture)
		argIndex++
	}

	// Every requested skill must appear in the skills text
	for _, skill := range filter.Skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		conditions = append(conditions, fmt.Sprintf("r.skills ILIKE $%d", argIndex))
		args = append(args, "%"+escapeLike(skill)+"%")
		argIndex++
	}

	if filter.MinExperience != nil {
		conditions = append(conditions, fmt.Sprintf("x.months >= $%d", argIndex))
		args = append(args, *filter.MinExperience*12)
		argIndex++
	}

	if filter.MaxExperience != nil {
		conditions = append(conditions, fmt.Sprintf("x.months < $%d", argIndex))
		args = append(args, (*filter.MaxExperience+1)*12)
		argIndex++
	}

	from := `
		FROM users u
		JOIN resumes r ON r.user_id = u.id
		LEFT JOIN seeker_profiles sp ON sp.user_id = u.id
		CROSS JOIN LATERAL (SELECT ` + experienceMonthsSQL + ` AS months) x
		WHERE ` + strings.Join(conditions, " AND ")

	total, err := r.count(ctx, `SELECT COUNT(*) `+from, args...)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT u.id, u.display_name, sp.prefecture, sp.desired_salary,
		       r.id, r.title, r.desired_job, r.skills, x.months, r.submitted_at, r.updated_at
		%s
		ORDER BY r.updated_at DESC, u.id
		LIMIT $%d OFFSET $%d`, from, argIndex, argIndex+1)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	results := []domain.SeekerSearchResult{}
	for rows.Next() {
		var s domain.SeekerSearchResult
		if err := rows.Scan(
			&s.UserID, &s.DisplayName, &s.Prefecture, &s.DesiredSalary,
			&s.ResumeID, &s.ResumeTitle, &s.DesiredJob, &s.Skills, &s.ExperienceMonths, &s.SubmittedAt, &s.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		results = append(results, s)
	}
	return results, total, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
