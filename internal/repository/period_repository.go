package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-scheduler-api/internal/models"
)

// PeriodRepository persists academic years and their semesters.
type PeriodRepository struct {
	db *sqlx.DB
}

// NewPeriodRepository instantiates a period repository.
func NewPeriodRepository(db *sqlx.DB) *PeriodRepository {
	return &PeriodRepository{db: db}
}

func (r *PeriodRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

const activePeriodQuery = `SELECT s.id AS active_semester_id, y.id AS academic_year_id, y.year_start, y.year_end, s.semester_id, s.start_date, s.end_date
FROM active_semesters s
JOIN academic_years y ON y.id = s.academic_year_id
WHERE s.is_active = TRUE AND y.is_active = TRUE
LIMIT 1`

// FindActive returns the active period or sql.ErrNoRows.
func (r *PeriodRepository) FindActive(ctx context.Context, exec sqlx.ExtContext) (*models.ActivePeriod, error) {
	var period models.ActivePeriod
	if err := sqlx.GetContext(ctx, r.exec(exec), &period, activePeriodQuery); err != nil {
		return nil, err
	}
	return &period, nil
}

// ListYears returns every academic year, newest first, with semesters attached.
func (r *PeriodRepository) ListYears(ctx context.Context) ([]models.AcademicYearWithSemesters, error) {
	var years []models.AcademicYear
	if err := r.db.SelectContext(ctx, &years, `SELECT id, year_start, year_end, is_active, created_at, updated_at FROM academic_years ORDER BY year_start DESC`); err != nil {
		return nil, fmt.Errorf("list academic years: %w", err)
	}
	var semesters []models.ActiveSemester
	if err := r.db.SelectContext(ctx, &semesters, `SELECT id, academic_year_id, semester_id, start_date, end_date, is_active FROM active_semesters ORDER BY academic_year_id, semester_id`); err != nil {
		return nil, fmt.Errorf("list active semesters: %w", err)
	}

	byYear := make(map[int64][]models.ActiveSemester, len(years))
	for _, s := range semesters {
		byYear[s.AcademicYearID] = append(byYear[s.AcademicYearID], s)
	}
	result := make([]models.AcademicYearWithSemesters, 0, len(years))
	for _, y := range years {
		sems := byYear[y.ID]
		if sems == nil {
			sems = []models.ActiveSemester{}
		}
		result = append(result, models.AcademicYearWithSemesters{AcademicYear: y, Semesters: sems})
	}
	return result, nil
}

// FindYearByID loads an academic year.
func (r *PeriodRepository) FindYearByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.AcademicYear, error) {
	var year models.AcademicYear
	const query = `SELECT id, year_start, year_end, is_active, created_at, updated_at FROM academic_years WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.exec(exec), &year, query, id); err != nil {
		return nil, err
	}
	return &year, nil
}

// FindSemester loads one semester row of an academic year.
func (r *PeriodRepository) FindSemester(ctx context.Context, exec sqlx.ExtContext, academicYearID int64, semesterID int16) (*models.ActiveSemester, error) {
	var sem models.ActiveSemester
	const query = `SELECT id, academic_year_id, semester_id, start_date, end_date, is_active FROM active_semesters WHERE academic_year_id = $1 AND semester_id = $2`
	if err := sqlx.GetContext(ctx, r.exec(exec), &sem, query, academicYearID, semesterID); err != nil {
		return nil, err
	}
	return &sem, nil
}

// LockActivation takes the activation sentinel lock without waiting.
func (r *PeriodRepository) LockActivation(ctx context.Context, exec sqlx.ExtContext) error {
	var id int
	if err := sqlx.GetContext(ctx, r.exec(exec), &id, `SELECT id FROM period_activation_lock WHERE id = 1 FOR UPDATE NOWAIT`); err != nil {
		return fmt.Errorf("lock period activation: %w", err)
	}
	return nil
}

// DeactivateAll clears the active flag on every semester and academic year.
func (r *PeriodRepository) DeactivateAll(ctx context.Context, exec sqlx.ExtContext) error {
	target := r.exec(exec)
	now := time.Now().UTC()
	if _, err := target.ExecContext(ctx, `UPDATE active_semesters SET is_active = FALSE, updated_at = $1 WHERE is_active = TRUE`, now); err != nil {
		return fmt.Errorf("deactivate semesters: %w", err)
	}
	if _, err := target.ExecContext(ctx, `UPDATE academic_years SET is_active = FALSE, updated_at = $1 WHERE is_active = TRUE`, now); err != nil {
		return fmt.Errorf("deactivate academic years: %w", err)
	}
	return nil
}

// Activate flags the semester row and its year active with the given dates.
func (r *PeriodRepository) Activate(ctx context.Context, exec sqlx.ExtContext, semesterRowID, academicYearID int64, startDate, endDate time.Time) error {
	target := r.exec(exec)
	now := time.Now().UTC()
	if _, err := target.ExecContext(ctx, `UPDATE active_semesters SET is_active = TRUE, start_date = $2, end_date = $3, updated_at = $4 WHERE id = $1`, semesterRowID, startDate, endDate, now); err != nil {
		return fmt.Errorf("activate semester: %w", err)
	}
	if _, err := target.ExecContext(ctx, `UPDATE academic_years SET is_active = TRUE, updated_at = $2 WHERE id = $1`, academicYearID, now); err != nil {
		return fmt.Errorf("activate academic year: %w", err)
	}
	return nil
}

// YearExists checks whether an academic year with the given bounds is registered.
func (r *PeriodRepository) YearExists(ctx context.Context, yearStart, yearEnd int) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, `SELECT 1 FROM academic_years WHERE year_start = $1 AND year_end = $2 LIMIT 1`, yearStart, yearEnd)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check academic year uniqueness: %w", err)
	}
	return true, nil
}

// CreateYear inserts an inactive academic year with its three inactive semesters.
func (r *PeriodRepository) CreateYear(ctx context.Context, exec sqlx.ExtContext, year *models.AcademicYear) error {
	target := r.exec(exec)
	now := time.Now().UTC()
	year.IsActive = false
	year.CreatedAt = now
	year.UpdatedAt = now

	const insertYear = `INSERT INTO academic_years (year_start, year_end, is_active, created_at, updated_at) VALUES ($1, $2, FALSE, $3, $3) RETURNING id`
	if err := sqlx.GetContext(ctx, target, &year.ID, insertYear, year.YearStart, year.YearEnd, now); err != nil {
		return fmt.Errorf("create academic year: %w", err)
	}

	const insertSemesters = `INSERT INTO active_semesters (academic_year_id, semester_id, is_active, created_at, updated_at) VALUES ($1, 1, FALSE, $2, $2), ($1, 2, FALSE, $2, $2), ($1, 3, FALSE, $2, $2)`
	if _, err := target.ExecContext(ctx, insertSemesters, year.ID, now); err != nil {
		return fmt.Errorf("create active semesters: %w", err)
	}
	return nil
}

// DeleteYear removes an academic year and every row scoped to it, children first.
func (r *PeriodRepository) DeleteYear(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	target := r.exec(exec)
	steps := []struct {
		label string
		query string
	}{
		{"schedules", `DELETE FROM schedules WHERE section_course_id IN (SELECT sc.id FROM section_courses sc JOIN sections_per_program_year s ON s.id = sc.sections_per_program_year_id WHERE s.academic_year_id = $1)`},
		{"section courses", `DELETE FROM section_courses WHERE sections_per_program_year_id IN (SELECT id FROM sections_per_program_year WHERE academic_year_id = $1)`},
		{"year level curricula", `DELETE FROM program_year_level_curricula WHERE academic_year_id = $1`},
		{"sections", `DELETE FROM sections_per_program_year WHERE academic_year_id = $1`},
		{"preferences", `DELETE FROM preferences WHERE active_semester_id IN (SELECT id FROM active_semesters WHERE academic_year_id = $1)`},
		{"publications", `DELETE FROM faculty_schedule_publications WHERE academic_year_id = $1`},
		{"active semesters", `DELETE FROM active_semesters WHERE academic_year_id = $1`},
		{"academic year", `DELETE FROM academic_years WHERE id = $1`},
	}
	for _, step := range steps {
		if _, err := target.ExecContext(ctx, step.query, id); err != nil {
			return fmt.Errorf("delete %s: %w", step.label, err)
		}
	}
	return nil
}
