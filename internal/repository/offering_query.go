package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-scheduler-api/internal/models"
)

// OfferingFilter parameterises the offerings projection. AcademicYearID is
// required. A positive SemesterID keeps only courses of that curriculum semester.
type OfferingFilter struct {
	AcademicYearID int64
	SemesterID     int16
	PublishedOnly  bool
	FacultyID      *int64
	RoomID         *int64
	ProgramID      *int64
	YearLevel      *int
}

// OfferingQuery is the single projection of "active period + curriculum +
// offerings" shared by the reconciler and the published views.
type OfferingQuery struct {
	db *sqlx.DB
}

// NewOfferingQuery instantiates the offerings query.
func NewOfferingQuery(db *sqlx.DB) *OfferingQuery {
	return &OfferingQuery{db: db}
}

const offeringSelect = `SELECT p.id AS program_id, p.program_code, p.program_title, s.year_level,
       s.id AS section_id, s.section_name,
       sc.id AS section_course_id, sc.is_copy, sc.course_assignment_id,
       co.course_code, co.course_title, co.lec_hours::float8 AS lec_hours, co.lab_hours::float8 AS lab_hours, co.units::float8 AS units,
       sch.id AS schedule_id, sch.day,
       to_char(sch.start_time, 'HH24:MI:SS') AS start_time, to_char(sch.end_time, 'HH24:MI:SS') AS end_time,
       sch.faculty_id, u.first_name AS faculty_first_name, u.middle_name AS faculty_middle_name,
       u.last_name AS faculty_last_name, u.suffix AS faculty_suffix,
       sch.room_id, rm.room_code
FROM sections_per_program_year s
JOIN programs p ON p.id = s.program_id
JOIN section_courses sc ON sc.sections_per_program_year_id = s.id
JOIN course_assignments ca ON ca.id = sc.course_assignment_id
JOIN curriculum_semesters cs ON cs.id = ca.curriculum_semester_id
JOIN courses co ON co.id = ca.course_id
LEFT JOIN schedules sch ON sch.section_course_id = sc.id
LEFT JOIN faculty f ON f.id = sch.faculty_id
LEFT JOIN users u ON u.id = f.user_id
LEFT JOIN rooms rm ON rm.id = sch.room_id`

const offeringOrder = ` ORDER BY p.program_code, s.year_level, LENGTH(s.section_name), s.section_name, co.course_code, sc.is_copy, sc.id`

// List returns offerings matching the filter in a stable order.
func (q *OfferingQuery) List(ctx context.Context, exec sqlx.ExtContext, filter OfferingFilter) ([]models.Offering, error) {
	if filter.AcademicYearID <= 0 {
		return nil, fmt.Errorf("list offerings: academic year is required")
	}
	target := exec
	if target == nil {
		target = q.db
	}

	args := []interface{}{filter.AcademicYearID}
	conditions := []string{"s.academic_year_id = $1"}
	joins := ""

	if filter.SemesterID > 0 {
		args = append(args, filter.SemesterID)
		conditions = append(conditions, fmt.Sprintf("cs.semester = $%d", len(args)))
	}
	if filter.PublishedOnly {
		if filter.SemesterID <= 0 {
			return nil, fmt.Errorf("list offerings: semester is required for published offerings")
		}
		joins = ` JOIN faculty_schedule_publications fp ON fp.faculty_id = sch.faculty_id AND fp.academic_year_id = s.academic_year_id AND fp.semester_id = $2 AND fp.is_published = TRUE`
	}
	if filter.FacultyID != nil {
		args = append(args, *filter.FacultyID)
		conditions = append(conditions, fmt.Sprintf("sch.faculty_id = $%d", len(args)))
	}
	if filter.RoomID != nil {
		args = append(args, *filter.RoomID)
		conditions = append(conditions, fmt.Sprintf("sch.room_id = $%d", len(args)))
	}
	if filter.ProgramID != nil {
		args = append(args, *filter.ProgramID)
		conditions = append(conditions, fmt.Sprintf("s.program_id = $%d", len(args)))
	}
	if filter.YearLevel != nil {
		args = append(args, *filter.YearLevel)
		conditions = append(conditions, fmt.Sprintf("s.year_level = $%d", len(args)))
	}

	query := offeringSelect + joins + " WHERE " + strings.Join(conditions, " AND ") + offeringOrder

	var offerings []models.Offering
	if err := sqlx.SelectContext(ctx, target, &offerings, query, args...); err != nil {
		return nil, fmt.Errorf("list offerings: %w", err)
	}
	return offerings, nil
}
