package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/tutoring-api/internal/models"
)

const enrollmentColumns = `id, student_id, group_id, period_id, created_at, updated_at`

// EnrollmentRepository manages student to group assignments per period.
type EnrollmentRepository struct {
	db DBTX
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db DBTX) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create inserts an enrollment. A second enrollment of the student in the same period
// fails with ErrUniqueViolation on enrollments_student_period_key.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	enrollment.CreatedAt = now
	enrollment.UpdatedAt = now

	const query = `INSERT INTO enrollments (id, student_id, group_id, period_id, created_at, updated_at) VALUES (:id, :student_id, :group_id, :period_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return writeError("create enrollment", err)
	}
	return nil
}

// FindByStudentAndPeriod returns the student's enrollment in the period or sql.ErrNoRows.
func (r *EnrollmentRepository) FindByStudentAndPeriod(ctx context.Context, studentID, periodID string) (*models.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE student_id = $1 AND period_id = $2`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, studentID, periodID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	return &enrollment, nil
}

// CountByGroup returns the head count of a group in a period.
func (r *EnrollmentRepository) CountByGroup(ctx context.Context, groupID, periodID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM enrollments WHERE group_id = $1 AND period_id = $2`, groupID, periodID); err != nil {
		return 0, fmt.Errorf("count group enrollments: %w", err)
	}
	return count, nil
}

// UpdateGroup moves an existing enrollment to another group keeping its identity.
func (r *EnrollmentRepository) UpdateGroup(ctx context.Context, id, groupID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE enrollments SET group_id = $2, updated_at = $3 WHERE id = $1`, id, groupID, time.Now().UTC())
	if err != nil {
		return writeError("move enrollment", err)
	}
	return affectedOrNotFound(res, "move enrollment")
}

// Delete removes the enrollment of student in group for the period and reports removed rows.
func (r *EnrollmentRepository) Delete(ctx context.Context, groupID, studentID, periodID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE group_id = $1 AND student_id = $2 AND period_id = $3`, groupID, studentID, periodID)
	if err != nil {
		return 0, fmt.Errorf("delete enrollment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete enrollment rows affected: %w", err)
	}
	return n, nil
}

// ListByPeriod returns every enrollment of the period.
func (r *EnrollmentRepository) ListByPeriod(ctx context.Context, periodID string) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	query := `SELECT ` + enrollmentColumns + ` FROM enrollments WHERE period_id = $1 ORDER BY created_at`
	if err := r.db.SelectContext(ctx, &enrollments, query, periodID); err != nil {
		return nil, fmt.Errorf("list period enrollments: %w", err)
	}
	return enrollments, nil
}

// ListStudentsByGroup returns the roster of a group in a period.
func (r *EnrollmentRepository) ListStudentsByGroup(ctx context.Context, groupID, periodID string) ([]models.Student, error) {
	query := `SELECT ` + studentColumns + `
FROM students s
JOIN enrollments e ON e.student_id = s.id
WHERE e.group_id = $1 AND e.period_id = $2
ORDER BY s.first_surname, s.second_surname, s.first_name`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, groupID, periodID); err != nil {
		return nil, fmt.Errorf("list group students: %w", err)
	}
	return students, nil
}

// ListAvailableStudents returns students without an enrollment in the period,
// optionally restricted to a program and semester.
func (r *EnrollmentRepository) ListAvailableStudents(ctx context.Context, filter models.AvailableStudentsFilter) ([]models.Student, error) {
	query := `SELECT ` + studentColumns + `
FROM students s
WHERE NOT EXISTS (SELECT 1 FROM enrollments e WHERE e.student_id = s.id AND e.period_id = $1)`
	args := []interface{}{filter.PeriodID}
	if !filter.AllProgramsAndSemesters {
		query += " AND s.program = $2 AND s.current_semester = $3"
		args = append(args, filter.Program, filter.Semester)
	}
	query += "\nORDER BY s.first_surname, s.first_name"

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list available students: %w", err)
	}
	return students, nil
}
