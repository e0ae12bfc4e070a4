package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/academic-scheduler-api/internal/models"
)

// FacultyRepository reads faculty and room records owned by the catalog collaborator.
type FacultyRepository struct {
	db *sqlx.DB
}

// NewFacultyRepository instantiates a faculty repository.
func NewFacultyRepository(db *sqlx.DB) *FacultyRepository {
	return &FacultyRepository{db: db}
}

const facultySelect = `SELECT f.id, f.user_id, f.faculty_type, f.status, u.first_name, u.middle_name, u.last_name, u.suffix, u.email
FROM faculty f
JOIN users u ON u.id = f.user_id`

// FindByID loads a faculty joined with its user.
func (r *FacultyRepository) FindByID(ctx context.Context, id int64) (*models.Faculty, error) {
	var faculty models.Faculty
	if err := r.db.GetContext(ctx, &faculty, facultySelect+` WHERE f.id = $1`, id); err != nil {
		return nil, err
	}
	return &faculty, nil
}

// FindByUserID loads the faculty owned by a user.
func (r *FacultyRepository) FindByUserID(ctx context.Context, userID int64) (*models.Faculty, error) {
	var faculty models.Faculty
	if err := r.db.GetContext(ctx, &faculty, facultySelect+` WHERE f.user_id = $1`, userID); err != nil {
		return nil, err
	}
	return &faculty, nil
}

// ListActive returns active faculty whose user account is active.
func (r *FacultyRepository) ListActive(ctx context.Context) ([]models.Faculty, error) {
	var faculty []models.Faculty
	query := facultySelect + ` WHERE f.status = 'Active' AND u.status = 'Active' ORDER BY u.last_name, u.first_name, f.id`
	if err := r.db.SelectContext(ctx, &faculty, query); err != nil {
		return nil, fmt.Errorf("list active faculty: %w", err)
	}
	return faculty, nil
}

// ListActiveAdmins returns active administrator accounts.
func (r *FacultyRepository) ListActiveAdmins(ctx context.Context) ([]models.User, error) {
	var users []models.User
	const query = `SELECT id, first_name, middle_name, last_name, suffix, email, role, status, created_at, updated_at
FROM users WHERE role = 'ADMIN' AND status = 'Active' ORDER BY id`
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("list active admins: %w", err)
	}
	return users, nil
}

// FindRoom loads a room.
func (r *FacultyRepository) FindRoom(ctx context.Context, id int64) (*models.Room, error) {
	var room models.Room
	if err := r.db.GetContext(ctx, &room, `SELECT id, room_code, building_name, status FROM rooms WHERE id = $1`, id); err != nil {
		return nil, err
	}
	return &room, nil
}
