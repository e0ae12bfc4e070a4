package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/academic-scheduler-api/internal/models"
)

// ScheduleRepository persists schedule placement rows.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository instantiates a schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

func (r *ScheduleRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

const scheduleColumns = `id, section_course_id, day, to_char(start_time, 'HH24:MI:SS') AS start_time, to_char(end_time, 'HH24:MI:SS') AS end_time, faculty_id, room_id, updated_at`

// FindByID loads a schedule.
func (r *ScheduleRepository) FindByID(ctx context.Context, exec sqlx.ExtContext, id int64) (*models.Schedule, error) {
	var schedule models.Schedule
	if err := sqlx.GetContext(ctx, r.exec(exec), &schedule, `SELECT `+scheduleColumns+` FROM schedules WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &schedule, nil
}

// InsertMissingForYear creates an all-null schedule for every section course of
// the academic year lacking one. Existing rows are left untouched.
func (r *ScheduleRepository) InsertMissingForYear(ctx context.Context, exec sqlx.ExtContext, academicYearID int64) (int, error) {
	const query = `INSERT INTO schedules (section_course_id, updated_at)
SELECT sc.id, NOW()
FROM section_courses sc
JOIN sections_per_program_year s ON s.id = sc.sections_per_program_year_id
LEFT JOIN schedules sch ON sch.section_course_id = sc.id
WHERE s.academic_year_id = $1 AND sch.id IS NULL
ON CONFLICT (section_course_id) DO NOTHING`
	res, err := r.exec(exec).ExecContext(ctx, query, academicYearID)
	if err != nil {
		return 0, fmt.Errorf("insert missing schedules: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count inserted schedules: %w", err)
	}
	return int(affected), nil
}

// CreateEmpty inserts an all-null schedule for a section course.
func (r *ScheduleRepository) CreateEmpty(ctx context.Context, exec sqlx.ExtContext, sectionCourseID int64) (*models.Schedule, error) {
	schedule := &models.Schedule{SectionCourseID: sectionCourseID, UpdatedAt: time.Now().UTC()}
	const query = `INSERT INTO schedules (section_course_id, updated_at) VALUES ($1, $2) RETURNING id`
	if err := sqlx.GetContext(ctx, r.exec(exec), &schedule.ID, query, sectionCourseID, schedule.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create schedule: %w", err)
	}
	return schedule, nil
}

// DeleteBySectionCourse removes the schedule of a section course.
func (r *ScheduleRepository) DeleteBySectionCourse(ctx context.Context, exec sqlx.ExtContext, sectionCourseID int64) error {
	if _, err := r.exec(exec).ExecContext(ctx, `DELETE FROM schedules WHERE section_course_id = $1`, sectionCourseID); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}

// Assign overwrites every placement field in a single statement. Returns
// sql.ErrNoRows when the schedule does not exist.
func (r *ScheduleRepository) Assign(ctx context.Context, exec sqlx.ExtContext, schedule *models.Schedule) error {
	schedule.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schedules SET day = $2, start_time = $3::time, end_time = $4::time, faculty_id = $5, room_id = $6, updated_at = $7 WHERE id = $1 RETURNING section_course_id`
	err := sqlx.GetContext(ctx, r.exec(exec), &schedule.SectionCourseID, query,
		schedule.ID, schedule.Day, schedule.StartTime, schedule.EndTime, schedule.FacultyID, schedule.RoomID, schedule.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return err
		}
		return fmt.Errorf("assign schedule: %w", err)
	}
	return nil
}

// LiveScope narrows FindLive. Zero-valued fields are ignored.
type LiveScope struct {
	AcademicYearID int64
	ProgramID      int64
	SectionIDs     []int64
}

func (scope LiveScope) where() (string, []interface{}) {
	var conditions []string
	var args []interface{}
	if scope.AcademicYearID > 0 {
		args = append(args, scope.AcademicYearID)
		conditions = append(conditions, fmt.Sprintf("s.academic_year_id = $%d", len(args)))
	}
	if scope.ProgramID > 0 {
		args = append(args, scope.ProgramID)
		conditions = append(conditions, fmt.Sprintf("s.program_id = $%d", len(args)))
	}
	if len(scope.SectionIDs) > 0 {
		args = append(args, pq.Array(scope.SectionIDs))
		conditions = append(conditions, fmt.Sprintf("s.id = ANY($%d)", len(args)))
	}
	if len(conditions) == 0 {
		return "", nil
	}
	return strings.Join(conditions, " AND "), args
}

// LockScope row-locks the sections, section courses and schedules in scope
// for the rest of the transaction. A concurrent Assign on a locked schedule
// waits, and new section courses or schedules cannot reference the locked rows.
func (r *ScheduleRepository) LockScope(ctx context.Context, exec sqlx.ExtContext, scope LiveScope) error {
	where, args := scope.where()
	if where == "" {
		return fmt.Errorf("lock schedule scope: empty scope")
	}
	statements := []string{
		`SELECT s.id FROM sections_per_program_year s WHERE ` + where + ` ORDER BY s.id FOR UPDATE`,
		`SELECT sc.id FROM section_courses sc
JOIN sections_per_program_year s ON s.id = sc.sections_per_program_year_id
WHERE ` + where + ` ORDER BY sc.id FOR UPDATE OF sc`,
		`SELECT sch.id FROM schedules sch
JOIN section_courses sc ON sc.id = sch.section_course_id
JOIN sections_per_program_year s ON s.id = sc.sections_per_program_year_id
WHERE ` + where + ` ORDER BY sch.id FOR UPDATE OF sch`,
	}
	for _, stmt := range statements {
		if _, err := r.exec(exec).ExecContext(ctx, stmt, args...); err != nil {
			return fmt.Errorf("lock schedule scope: %w", err)
		}
	}
	return nil
}

// FindLive returns the first schedule in scope with any non-null placement field,
// or sql.ErrNoRows when none exists. Callers that delete the scope afterwards
// must hold LockScope in the same transaction.
func (r *ScheduleRepository) FindLive(ctx context.Context, exec sqlx.ExtContext, scope LiveScope) (*models.LiveSchedule, error) {
	conditions := []string{`(sch.day IS NOT NULL OR sch.start_time IS NOT NULL OR sch.end_time IS NOT NULL OR sch.faculty_id IS NOT NULL OR sch.room_id IS NOT NULL)`}
	where, args := scope.where()
	if where != "" {
		conditions = append(conditions, where)
	}

	query := `SELECT sch.id AS schedule_id, p.program_code, s.year_level, s.section_name, co.course_code, rm.room_code
FROM schedules sch
JOIN section_courses sc ON sc.id = sch.section_course_id
JOIN sections_per_program_year s ON s.id = sc.sections_per_program_year_id
JOIN programs p ON p.id = s.program_id
JOIN course_assignments ca ON ca.id = sc.course_assignment_id
JOIN courses co ON co.id = ca.course_id
LEFT JOIN rooms rm ON rm.id = sch.room_id
WHERE ` + strings.Join(conditions, " AND ") + `
ORDER BY p.program_code, s.year_level, s.section_name, co.course_code, sch.id
LIMIT 1`

	var live models.LiveSchedule
	if err := sqlx.GetContext(ctx, r.exec(exec), &live, query, args...); err != nil {
		return nil, err
	}
	return &live, nil
}

// ListAssignedFaculty returns the distinct faculty carrying a schedule in the
// academic year on a course of the given curriculum semester. originalsOnly
// restricts the search to non-copy offerings.
func (r *ScheduleRepository) ListAssignedFaculty(ctx context.Context, exec sqlx.ExtContext, academicYearID int64, semesterID int16, originalsOnly bool) ([]int64, error) {
	query := `SELECT DISTINCT sch.faculty_id
FROM schedules sch
JOIN section_courses sc ON sc.id = sch.section_course_id
JOIN sections_per_program_year s ON s.id = sc.sections_per_program_year_id
JOIN course_assignments ca ON ca.id = sc.course_assignment_id
JOIN curriculum_semesters cs ON cs.id = ca.curriculum_semester_id
WHERE s.academic_year_id = $1 AND cs.semester = $2 AND sch.faculty_id IS NOT NULL`
	if originalsOnly {
		query += ` AND sc.is_copy = FALSE`
	}
	query += ` ORDER BY sch.faculty_id`
	var ids []int64
	if err := sqlx.SelectContext(ctx, r.exec(exec), &ids, query, academicYearID, semesterID); err != nil {
		return nil, fmt.Errorf("list assigned faculty: %w", err)
	}
	return ids, nil
}

// FacultyHasSchedule reports whether the faculty is assigned anywhere in the
// academic year on a course of the given curriculum semester.
func (r *ScheduleRepository) FacultyHasSchedule(ctx context.Context, exec sqlx.ExtContext, academicYearID int64, semesterID int16, facultyID int64) (bool, error) {
	const query = `SELECT 1
FROM schedules sch
JOIN section_courses sc ON sc.id = sch.section_course_id
JOIN sections_per_program_year s ON s.id = sc.sections_per_program_year_id
JOIN course_assignments ca ON ca.id = sc.course_assignment_id
JOIN curriculum_semesters cs ON cs.id = ca.curriculum_semester_id
WHERE s.academic_year_id = $1 AND cs.semester = $2 AND sch.faculty_id = $3
LIMIT 1`
	var exists int
	if err := sqlx.GetContext(ctx, r.exec(exec), &exists, query, academicYearID, semesterID, facultyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check faculty schedule: %w", err)
	}
	return true, nil
}

// SuggestFaculty ranks faculty who asked for the schedule's course in the given
// semester by how many of their preferred days match the schedule day.
func (r *ScheduleRepository) SuggestFaculty(ctx context.Context, scheduleID, activeSemesterID int64) ([]models.FacultySuggestion, error) {
	const query = `SELECT f.id AS faculty_id, u.first_name, COALESCE(u.middle_name, '') AS middle_name, u.last_name, COALESCE(u.suffix, '') AS suffix,
       COUNT(pd.id) FILTER (WHERE pd.preferred_day = sch.day) AS matched_days,
       COUNT(pd.id) AS preferred_days
FROM schedules sch
JOIN section_courses sc ON sc.id = sch.section_course_id
JOIN preferences pr ON pr.course_assignment_id = sc.course_assignment_id AND pr.active_semester_id = $2
JOIN faculty f ON f.id = pr.faculty_id AND f.status = 'Active'
JOIN users u ON u.id = f.user_id
LEFT JOIN preference_days pd ON pd.preference_id = pr.id
WHERE sch.id = $1
GROUP BY f.id, u.first_name, u.middle_name, u.last_name, u.suffix
ORDER BY matched_days DESC, preferred_days DESC, u.last_name, f.id`
	var suggestions []models.FacultySuggestion
	if err := r.db.SelectContext(ctx, &suggestions, query, scheduleID, activeSemesterID); err != nil {
		return nil, fmt.Errorf("suggest faculty: %w", err)
	}
	for i := range suggestions {
		s := &suggestions[i]
		s.FacultyName = models.DisplayName(s.FirstName, s.MiddleName, s.LastName, s.Suffix)
	}
	return suggestions, nil
}
