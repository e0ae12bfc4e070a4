package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/academic-scheduler-api/internal/models"
)

// PublicationRepository persists per-faculty schedule publication flags.
type PublicationRepository struct {
	db *sqlx.DB
}

// NewPublicationRepository instantiates a publication repository.
func NewPublicationRepository(db *sqlx.DB) *PublicationRepository {
	return &PublicationRepository{db: db}
}

func (r *PublicationRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

// Upsert sets the publication flag of every listed faculty for the period.
func (r *PublicationRepository) Upsert(ctx context.Context, exec sqlx.ExtContext, facultyIDs []int64, academicYearID int64, semesterID int16, published bool) error {
	if len(facultyIDs) == 0 {
		return nil
	}
	const query = `INSERT INTO faculty_schedule_publications (faculty_id, academic_year_id, semester_id, is_published, updated_at)
SELECT f, $2, $3, $4, $5 FROM unnest($1::bigint[]) AS f
ON CONFLICT (faculty_id, academic_year_id, semester_id) DO UPDATE SET is_published = EXCLUDED.is_published, updated_at = EXCLUDED.updated_at`
	if _, err := r.exec(exec).ExecContext(ctx, query, pq.Array(facultyIDs), academicYearID, semesterID, published, time.Now().UTC()); err != nil {
		return fmt.Errorf("upsert publications: %w", err)
	}
	return nil
}

// Unpublish clears publication flags for the period. A nil facultyID unpublishes everyone.
func (r *PublicationRepository) Unpublish(ctx context.Context, exec sqlx.ExtContext, academicYearID int64, semesterID int16, facultyID *int64) error {
	query := `UPDATE faculty_schedule_publications SET is_published = FALSE, updated_at = $3 WHERE academic_year_id = $1 AND semester_id = $2 AND is_published = TRUE`
	args := []interface{}{academicYearID, semesterID, time.Now().UTC()}
	if facultyID != nil {
		query += ` AND faculty_id = $4`
		args = append(args, *facultyID)
	}
	if _, err := r.exec(exec).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("unpublish schedules: %w", err)
	}
	return nil
}

// ListByPeriod returns the publication flags of a period ordered by faculty.
func (r *PublicationRepository) ListByPeriod(ctx context.Context, academicYearID int64, semesterID int16) ([]models.FacultySchedulePublication, error) {
	const query = `SELECT id, faculty_id, academic_year_id, semester_id, is_published, updated_at FROM faculty_schedule_publications WHERE academic_year_id = $1 AND semester_id = $2 ORDER BY faculty_id`
	var pubs []models.FacultySchedulePublication
	if err := r.db.SelectContext(ctx, &pubs, query, academicYearID, semesterID); err != nil {
		return nil, fmt.Errorf("list publications: %w", err)
	}
	return pubs, nil
}
