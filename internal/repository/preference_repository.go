package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"

	"github.com/noah-isme/academic-scheduler-api/internal/models"
)

// PreferenceRepository persists preference windows and faculty preferences.
type PreferenceRepository struct {
	db *sqlx.DB
}

// NewPreferenceRepository instantiates a preference repository.
func NewPreferenceRepository(db *sqlx.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

func (r *PreferenceRepository) exec(exec sqlx.ExtContext) sqlx.ExtContext {
	if exec != nil {
		return exec
	}
	return r.db
}

const settingColumns = `id, faculty_id, is_enabled, global_deadline, global_start_date, individual_deadline, individual_start_date, has_request, updated_at`

// EnsureSettings creates a disabled settings row for every faculty lacking one.
// A non-nil facultyID limits creation to that faculty.
func (r *PreferenceRepository) EnsureSettings(ctx context.Context, exec sqlx.ExtContext, facultyID *int64) error {
	query := `INSERT INTO preferences_settings (faculty_id, updated_at) SELECT id, NOW() FROM faculty`
	var args []interface{}
	if facultyID != nil {
		query += ` WHERE id = $1`
		args = append(args, *facultyID)
	}
	query += ` ON CONFLICT (faculty_id) DO NOTHING`
	if _, err := r.exec(exec).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("ensure preference settings: %w", err)
	}
	return nil
}

// GetSetting loads the settings row of a faculty.
func (r *PreferenceRepository) GetSetting(ctx context.Context, exec sqlx.ExtContext, facultyID int64) (*models.PreferencesSetting, error) {
	var setting models.PreferencesSetting
	if err := sqlx.GetContext(ctx, r.exec(exec), &setting, `SELECT `+settingColumns+` FROM preferences_settings WHERE faculty_id = $1`, facultyID); err != nil {
		return nil, err
	}
	return &setting, nil
}

// ApplyGlobal writes the global window to every row, clearing individual
// overrides and pending access requests.
func (r *PreferenceRepository) ApplyGlobal(ctx context.Context, exec sqlx.ExtContext, enabled bool, deadline, startDate null.Time) error {
	const query = `UPDATE preferences_settings SET is_enabled = $1, global_deadline = $2, global_start_date = $3,
    individual_deadline = NULL, individual_start_date = NULL, has_request = FALSE, updated_at = $4`
	if _, err := r.exec(exec).ExecContext(ctx, query, enabled, deadline, startDate, time.Now().UTC()); err != nil {
		return fmt.Errorf("apply global preference window: %w", err)
	}
	return nil
}

// ApplyIndividual writes an individual window for one faculty and clears its request flag.
func (r *PreferenceRepository) ApplyIndividual(ctx context.Context, exec sqlx.ExtContext, facultyID int64, enabled bool, deadline, startDate null.Time) error {
	const query = `UPDATE preferences_settings SET is_enabled = $2, individual_deadline = $3, individual_start_date = $4, has_request = FALSE, updated_at = $5 WHERE faculty_id = $1`
	if _, err := r.exec(exec).ExecContext(ctx, query, facultyID, enabled, deadline, startDate, time.Now().UTC()); err != nil {
		return fmt.Errorf("apply individual preference window: %w", err)
	}
	return nil
}

// Reset disables windows and clears every date and request flag. A nil
// facultyID resets every row.
func (r *PreferenceRepository) Reset(ctx context.Context, exec sqlx.ExtContext, facultyID *int64) error {
	query := `UPDATE preferences_settings SET is_enabled = FALSE, global_deadline = NULL, global_start_date = NULL,
    individual_deadline = NULL, individual_start_date = NULL, has_request = FALSE, updated_at = $1`
	args := []interface{}{time.Now().UTC()}
	if facultyID != nil {
		query += ` WHERE faculty_id = $2`
		args = append(args, *facultyID)
	}
	if _, err := r.exec(exec).ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("reset preference settings: %w", err)
	}
	return nil
}

// SetRequest toggles the access request flag of a faculty.
func (r *PreferenceRepository) SetRequest(ctx context.Context, exec sqlx.ExtContext, facultyID int64, requested bool) error {
	const query = `UPDATE preferences_settings SET has_request = $2, updated_at = $3 WHERE faculty_id = $1`
	if _, err := r.exec(exec).ExecContext(ctx, query, facultyID, requested, time.Now().UTC()); err != nil {
		return fmt.Errorf("set preference access request: %w", err)
	}
	return nil
}

// EnableScheduled opens windows whose effective start date equals startDate.
// A nil facultyID targets every faculty still following that start date.
func (r *PreferenceRepository) EnableScheduled(ctx context.Context, exec sqlx.ExtContext, facultyID *int64, startDate time.Time) ([]int64, error) {
	query := `UPDATE preferences_settings SET is_enabled = TRUE, updated_at = NOW()
WHERE is_enabled = FALSE AND COALESCE(individual_start_date, global_start_date) = $1`
	args := []interface{}{startDate}
	if facultyID != nil {
		query += ` AND faculty_id = $2`
		args = append(args, *facultyID)
	}
	query += ` RETURNING faculty_id`
	var ids []int64
	if err := sqlx.SelectContext(ctx, r.exec(exec), &ids, query, args...); err != nil {
		return nil, fmt.Errorf("enable scheduled preference windows: %w", err)
	}
	return ids, nil
}

// UpsertPreference creates or touches the preference row and fills its id.
func (r *PreferenceRepository) UpsertPreference(ctx context.Context, exec sqlx.ExtContext, pref *models.Preference) error {
	pref.UpdatedAt = time.Now().UTC()
	const query = `INSERT INTO preferences (faculty_id, active_semester_id, course_assignment_id, updated_at) VALUES ($1, $2, $3, $4)
ON CONFLICT (faculty_id, active_semester_id, course_assignment_id) DO UPDATE SET updated_at = EXCLUDED.updated_at
RETURNING id`
	if err := sqlx.GetContext(ctx, r.exec(exec), &pref.ID, query, pref.FacultyID, pref.ActiveSemesterID, pref.CourseAssignmentID, pref.UpdatedAt); err != nil {
		return fmt.Errorf("upsert preference: %w", err)
	}
	return nil
}

const dayColumns = `id, preference_id, preferred_day, to_char(preferred_start_time, 'HH24:MI:SS') AS preferred_start_time, to_char(preferred_end_time, 'HH24:MI:SS') AS preferred_end_time`

// ListDays returns the days of one preference.
func (r *PreferenceRepository) ListDays(ctx context.Context, exec sqlx.ExtContext, preferenceID int64) ([]models.PreferenceDay, error) {
	var days []models.PreferenceDay
	query := `SELECT ` + dayColumns + ` FROM preference_days WHERE preference_id = $1 ORDER BY id`
	if err := sqlx.SelectContext(ctx, r.exec(exec), &days, query, preferenceID); err != nil {
		return nil, fmt.Errorf("list preference days: %w", err)
	}
	return days, nil
}

// ReplaceDays deletes every day of the preference and inserts the given set.
func (r *PreferenceRepository) ReplaceDays(ctx context.Context, exec sqlx.ExtContext, preferenceID int64, days []models.PreferenceDay) error {
	target := r.exec(exec)
	if _, err := target.ExecContext(ctx, `DELETE FROM preference_days WHERE preference_id = $1`, preferenceID); err != nil {
		return fmt.Errorf("delete preference days: %w", err)
	}
	if len(days) == 0 {
		return nil
	}
	names := make([]string, len(days))
	starts := make([]string, len(days))
	ends := make([]string, len(days))
	for i, d := range days {
		names[i], starts[i], ends[i] = d.Day, d.StartTime, d.EndTime
	}
	const query = `INSERT INTO preference_days (preference_id, preferred_day, preferred_start_time, preferred_end_time)
SELECT $1, t.day, t.start_time::time, t.end_time::time FROM unnest($2::text[], $3::text[], $4::text[]) AS t(day, start_time, end_time)`
	if _, err := target.ExecContext(ctx, query, preferenceID, pq.Array(names), pq.Array(starts), pq.Array(ends)); err != nil {
		return fmt.Errorf("insert preference days: %w", err)
	}
	return nil
}

// ListPreferences returns the preferences of a faculty for a semester with their days.
func (r *PreferenceRepository) ListPreferences(ctx context.Context, facultyID, activeSemesterID int64) ([]models.Preference, error) {
	const query = `SELECT pr.id, pr.faculty_id, pr.active_semester_id, pr.course_assignment_id, co.course_code, co.course_title, pr.updated_at
FROM preferences pr
JOIN course_assignments ca ON ca.id = pr.course_assignment_id
JOIN courses co ON co.id = ca.course_id
WHERE pr.faculty_id = $1 AND pr.active_semester_id = $2
ORDER BY co.course_code, pr.id`
	var prefs []models.Preference
	if err := r.db.SelectContext(ctx, &prefs, query, facultyID, activeSemesterID); err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	if len(prefs) == 0 {
		return prefs, nil
	}

	ids := make([]int64, len(prefs))
	index := make(map[int64]int, len(prefs))
	for i, p := range prefs {
		ids[i] = p.ID
		index[p.ID] = i
		prefs[i].Days = []models.PreferenceDay{}
	}
	var days []models.PreferenceDay
	if err := r.db.SelectContext(ctx, &days, `SELECT `+dayColumns+` FROM preference_days WHERE preference_id = ANY($1) ORDER BY preference_id, id`, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list preference days: %w", err)
	}
	for _, d := range days {
		if i, ok := index[d.PreferenceID]; ok {
			prefs[i].Days = append(prefs[i].Days, d)
		}
	}
	return prefs, nil
}

// DeletePreference removes one preference owned by the faculty. Returns
// sql.ErrNoRows when nothing matched.
func (r *PreferenceRepository) DeletePreference(ctx context.Context, exec sqlx.ExtContext, facultyID, preferenceID int64) error {
	res, err := r.exec(exec).ExecContext(ctx, `DELETE FROM preferences WHERE id = $1 AND faculty_id = $2`, preferenceID, facultyID)
	if err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete preference: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteAllPreferences removes every preference of the faculty for a semester.
func (r *PreferenceRepository) DeleteAllPreferences(ctx context.Context, exec sqlx.ExtContext, facultyID, activeSemesterID int64) (int, error) {
	res, err := r.exec(exec).ExecContext(ctx, `DELETE FROM preferences WHERE faculty_id = $1 AND active_semester_id = $2`, facultyID, activeSemesterID)
	if err != nil {
		return 0, fmt.Errorf("delete preferences: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete preferences: %w", err)
	}
	return int(affected), nil
}
