package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-scheduler-api/internal/models"
)

// CatalogRepository reads the curriculum catalog and maintains per-year curriculum pins.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository instantiates a catalog repository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// CountActive returns the number of active programs and active curricula.
func (r *CatalogRepository) CountActive(ctx context.Context) (programs int, curricula int, err error) {
	if err = r.db.GetContext(ctx, &programs, `SELECT COUNT(*) FROM programs WHERE status = 'Active'`); err != nil {
		return 0, 0, fmt.Errorf("count active programs: %w", err)
	}
	if err = r.db.GetContext(ctx, &curricula, `SELECT COUNT(*) FROM curricula WHERE status = 'Active'`); err != nil {
		return 0, 0, fmt.Errorf("count active curricula: %w", err)
	}
	return programs, curricula, nil
}

// ListActivePrograms returns active programs ordered by code.
func (r *CatalogRepository) ListActivePrograms(ctx context.Context, exec sqlx.ExtContext) ([]models.Program, error) {
	var programs []models.Program
	const query = `SELECT id, program_code, program_title, number_of_years, status, created_at, updated_at FROM programs WHERE status = 'Active' ORDER BY program_code`
	if err := sqlx.SelectContext(ctx, r.exec(exec), &programs, query); err != nil {
		return nil, fmt.Errorf("list active programs: %w", err)
	}
	return programs, nil
}

// FindProgram loads a program by id.
func (r *CatalogRepository) FindProgram(ctx context.Context, id int64) (*models.Program, error) {
	var program models.Program
	const query = `SELECT id, program_code, program_title, number_of_years, status, created_at, updated_at FROM programs WHERE id = $1`
	if err := r.db.GetContext(ctx, &program, query, id); err != nil {
		return nil, err
	}
	return &program, nil
}

// FindCurriculum loads a curriculum by id.
func (r *CatalogRepository) FindCurriculum(ctx context.Context, id int64) (*models.Curriculum, error) {
	var curriculum models.Curriculum
	const query = `SELECT id, curriculum_year, status, created_at FROM curricula WHERE id = $1`
	if err := r.db.GetContext(ctx, &curriculum, query, id); err != nil {
		return nil, err
	}
	return &curriculum, nil
}

// IsCurriculumLinked reports whether the curriculum defines the program.
func (r *CatalogRepository) IsCurriculumLinked(ctx context.Context, curriculumID, programID int64) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, `SELECT 1 FROM curricula_programs WHERE curriculum_id = $1 AND program_id = $2 LIMIT 1`, curriculumID, programID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check curriculum program link: %w", err)
	}
	return true, nil
}

// NewestCurriculumFor returns the newest active curriculum linked to the program,
// falling back to the newest active curriculum overall.
func (r *CatalogRepository) NewestCurriculumFor(ctx context.Context, exec sqlx.ExtContext, programID int64) (*models.Curriculum, error) {
	target := r.exec(exec)
	var curriculum models.Curriculum
	const linked = `SELECT c.id, c.curriculum_year, c.status, c.created_at
FROM curricula c
JOIN curricula_programs cp ON cp.curriculum_id = c.id
WHERE cp.program_id = $1 AND c.status = 'Active'
ORDER BY c.curriculum_year DESC, c.id DESC
LIMIT 1`
	err := sqlx.GetContext(ctx, target, &curriculum, linked, programID)
	if err == nil {
		return &curriculum, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find newest linked curriculum: %w", err)
	}
	const fallback = `SELECT id, curriculum_year, status, created_at FROM curricula WHERE status = 'Active' ORDER BY curriculum_year DESC, id DESC LIMIT 1`
	if err := sqlx.GetContext(ctx, target, &curriculum, fallback); err != nil {
		return nil, err
	}
	return &curriculum, nil
}

// UpsertYearLevelCurriculum pins the curriculum of a program year level for an academic year.
func (r *CatalogRepository) UpsertYearLevelCurriculum(ctx context.Context, exec sqlx.ExtContext, link models.ProgramYearLevelCurriculum) error {
	const query = `INSERT INTO program_year_level_curricula (academic_year_id, program_id, year_level, curriculum_id)
VALUES ($1, $2, $3, $4)
ON CONFLICT (academic_year_id, program_id, year_level) DO UPDATE SET curriculum_id = EXCLUDED.curriculum_id`
	if _, err := r.exec(exec).ExecContext(ctx, query, link.AcademicYearID, link.ProgramID, link.YearLevel, link.CurriculumID); err != nil {
		return fmt.Errorf("upsert year level curriculum: %w", err)
	}
	return nil
}

// ListCurriculumSlots enumerates (program, year level, semester, course assignment)
// tuples for the academic year and semester number. Year levels without course
// assignments yield one row with a nil course assignment.
func (r *CatalogRepository) ListCurriculumSlots(ctx context.Context, exec sqlx.ExtContext, academicYearID int64, semester int16) ([]models.CurriculumSlot, error) {
	const query = `SELECT p.id AS program_id, p.program_code, p.program_title, pyc.year_level, $2::smallint AS semester,
       c.id AS curriculum_id, c.curriculum_year,
       ca.id AS course_assignment_id, co.id AS course_id, co.course_code
FROM program_year_level_curricula pyc
JOIN programs p ON p.id = pyc.program_id AND p.status = 'Active'
JOIN curricula c ON c.id = pyc.curriculum_id
LEFT JOIN curricula_programs cp ON cp.curriculum_id = pyc.curriculum_id AND cp.program_id = pyc.program_id
LEFT JOIN year_levels yl ON yl.curricula_program_id = cp.id AND yl.year_level = pyc.year_level
LEFT JOIN curriculum_semesters cs ON cs.year_level_id = yl.id AND cs.semester = $2
LEFT JOIN course_assignments ca ON ca.curriculum_semester_id = cs.id AND ca.curricula_program_id = cp.id
LEFT JOIN courses co ON co.id = ca.course_id
WHERE pyc.academic_year_id = $1
ORDER BY p.program_code, pyc.year_level, co.course_code NULLS FIRST, ca.id`
	var slots []models.CurriculumSlot
	if err := sqlx.SelectContext(ctx, r.exec(exec), &slots, query, academicYearID, semester); err != nil {
		return nil, fmt.Errorf("list curriculum slots: %w", err)
	}
	return slots, nil
}

// CourseAssignmentExists checks a course assignment id.
func (r *CatalogRepository) CourseAssignmentExists(ctx context.Context, id int64) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, `SELECT 1 FROM course_assignments WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check course assignment: %w", err)
	}
	return true, nil
}

// DeleteProgram removes a program together with its scheduling rows. Catalog
// children cascade through foreign keys.
func (r *CatalogRepository) DeleteProgram(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	target := r.exec(exec)
	steps := []struct {
		label string
		query string
	}{
		{"schedules", `DELETE FROM schedules WHERE section_course_id IN (SELECT sc.id FROM section_courses sc JOIN sections_per_program_year s ON s.id = sc.sections_per_program_year_id WHERE s.program_id = $1)`},
		{"section courses", `DELETE FROM section_courses WHERE sections_per_program_year_id IN (SELECT id FROM sections_per_program_year WHERE program_id = $1)`},
		{"sections", `DELETE FROM sections_per_program_year WHERE program_id = $1`},
		{"year level curricula", `DELETE FROM program_year_level_curricula WHERE program_id = $1`},
		{"program", `DELETE FROM programs WHERE id = $1`},
	}
	for _, step := range steps {
		if _, err := target.ExecContext(ctx, step.query, id); err != nil {
			return fmt.Errorf("delete %s: %w", step.label, err)
		}
	}
	return nil
}
