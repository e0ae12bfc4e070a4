package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/academic-scheduler-api/internal/models"
)

// SectionRepository persists sections and their course offerings.
type SectionRepository struct {
	db *sqlx.DB
}

// NewSectionRepository instantiates a section repository.
func NewSectionRepository(db *sqlx.DB) *SectionRepository {
	return &SectionRepository{db: db}
}

func (r *SectionRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

const sectionColumns = `id, academic_year_id, program_id, year_level, section_name, created_at`

// ListByYear returns every section of an academic year.
func (r *SectionRepository) ListByYear(ctx context.Context, exec sqlx.ExtContext, academicYearID int64) ([]models.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections_per_program_year WHERE academic_year_id = $1 ORDER BY program_id, year_level, LENGTH(section_name), section_name, id`
	var sections []models.Section
	if err := sqlx.SelectContext(ctx, r.exec(exec), &sections, query, academicYearID); err != nil {
		return nil, fmt.Errorf("list sections: %w", err)
	}
	return sections, nil
}

// ListByProgramYear returns the sections of one program year level.
func (r *SectionRepository) ListByProgramYear(ctx context.Context, exec sqlx.ExtContext, academicYearID, programID int64, yearLevel int) ([]models.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM sections_per_program_year WHERE academic_year_id = $1 AND program_id = $2 AND year_level = $3 ORDER BY LENGTH(section_name), section_name, id`
	var sections []models.Section
	if err := sqlx.SelectContext(ctx, r.exec(exec), &sections, query, academicYearID, programID, yearLevel); err != nil {
		return nil, fmt.Errorf("list program year sections: %w", err)
	}
	return sections, nil
}

// FindByID loads a section.
func (r *SectionRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Section, error) {
	var section models.Section
	if err := sqlx.GetContext(ctx, r.exec(exec), &section, `SELECT `+sectionColumns+` FROM sections_per_program_year WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &section, nil
}

// Create inserts a section.
func (r *SectionRepository) Create(ctx context.Context, exec sqlx.ExtContext, section *models.Section) error {
	section.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO sections_per_program_year (academic_year_id, program_id, year_level, section_name, created_at) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := sqlx.GetContext(ctx, r.exec(exec), &section.ID, query, section.AcademicYearID, section.ProgramID, section.YearLevel, section.SectionName, section.CreatedAt); err != nil {
		return fmt.Errorf("create section: %w", err)
	}
	return nil
}

// Delete removes a section with its offerings and schedules.
func (r *SectionRepository) Delete(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	if err := r.DeleteCourses(ctx, exec, []int64{id}); err != nil {
		return err
	}
	if _, err := r.exec(exec).ExecContext(ctx, `DELETE FROM sections_per_program_year WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete section: %w", err)
	}
	return nil
}

// DeleteCourses removes every offering (and its schedule) of the given sections.
func (r *SectionRepository) DeleteCourses(ctx context.Context, exec sqlx.ExtContext, sectionIDs []int64) error {
	if len(sectionIDs) == 0 {
		return nil
	}
	target := r.exec(exec)
	ids := pq.Array(sectionIDs)
	if _, err := target.ExecContext(ctx, `DELETE FROM schedules WHERE section_course_id IN (SELECT id FROM section_courses WHERE sections_per_program_year_id = ANY($1))`, ids); err != nil {
		return fmt.Errorf("delete section schedules: %w", err)
	}
	if _, err := target.ExecContext(ctx, `DELETE FROM section_courses WHERE sections_per_program_year_id = ANY($1)`, ids); err != nil {
		return fmt.Errorf("delete section courses: %w", err)
	}
	return nil
}

const sectionCourseColumns = `id, sections_per_program_year_id, course_assignment_id, is_copy, created_at`

// ListOriginalKeys returns the (section, course assignment) pairs that already
// have an original offering among the given sections.
func (r *SectionRepository) ListOriginalKeys(ctx context.Context, exec sqlx.ExtContext, sectionIDs []int64) (map[models.SectionCourseKey]struct{}, error) {
	keys := make(map[models.SectionCourseKey]struct{})
	if len(sectionIDs) == 0 {
		return keys, nil
	}
	var rows []models.SectionCourse
	query := `SELECT ` + sectionCourseColumns + ` FROM section_courses WHERE is_copy = FALSE AND sections_per_program_year_id = ANY($1)`
	if err := sqlx.SelectContext(ctx, r.exec(exec), &rows, query, pq.Array(sectionIDs)); err != nil {
		return nil, fmt.Errorf("list original section courses: %w", err)
	}
	for _, row := range rows {
		keys[models.SectionCourseKey{SectionID: row.SectionID, CourseAssignmentID: row.CourseAssignmentID}] = struct{}{}
	}
	return keys, nil
}

// InsertOriginals creates the missing original offerings. Rows that a
// concurrent writer inserted first are skipped. Returns the number inserted.
func (r *SectionRepository) InsertOriginals(ctx context.Context, exec sqlx.ExtContext, keys []models.SectionCourseKey) (int, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	sections := make([]int64, len(keys))
	assignments := make([]int64, len(keys))
	for i, k := range keys {
		sections[i] = k.SectionID
		assignments[i] = k.CourseAssignmentID
	}
	const query = `INSERT INTO section_courses (sections_per_program_year_id, course_assignment_id, is_copy, created_at)
SELECT t.section_id, t.course_assignment_id, FALSE, NOW()
FROM unnest($1::bigint[], $2::bigint[]) AS t(section_id, course_assignment_id)
ON CONFLICT (sections_per_program_year_id, course_assignment_id) WHERE NOT is_copy DO NOTHING`
	res, err := r.exec(exec).ExecContext(ctx, query, pq.Array(sections), pq.Array(assignments))
	if err != nil {
		return 0, fmt.Errorf("insert original section courses: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count inserted section courses: %w", err)
	}
	return int(affected), nil
}

// FindCourse loads a section course.
func (r *SectionRepository) FindCourse(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.SectionCourse, error) {
	var sc models.SectionCourse
	if err := sqlx.GetContext(ctx, r.exec(exec), &sc, `SELECT `+sectionCourseColumns+` FROM section_courses WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &sc, nil
}

// CreateCopy inserts a copy offering of the given course assignment.
func (r *SectionRepository) CreateCopy(ctx context.Context, exec sqlx.ExtContext, sectionID, courseAssignmentID int64) (*models.SectionCourse, error) {
	sc := &models.SectionCourse{SectionID: sectionID, CourseAssignmentID: courseAssignmentID, IsCopy: true, CreatedAt: time.Now().UTC()}
	const query = `INSERT INTO section_courses (sections_per_program_year_id, course_assignment_id, is_copy, created_at) VALUES ($1, $2, TRUE, $3) RETURNING id`
	if err := sqlx.GetContext(ctx, r.exec(exec), &sc.ID, query, sectionID, courseAssignmentID, sc.CreatedAt); err != nil {
		return nil, fmt.Errorf("create section course copy: %w", err)
	}
	return sc, nil
}

// DeleteCourse removes one section course row.
func (r *SectionRepository) DeleteCourse(ctx context.Context, exec sqlx.ExtContext, id int64) error {
	if _, err := r.exec(exec).ExecContext(ctx, `DELETE FROM section_courses WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete section course: %w", err)
	}
	return nil
}
