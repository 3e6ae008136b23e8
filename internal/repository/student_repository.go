package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/tutoring-api/internal/models"
)

const studentColumns = `s.id, s.control_number, s.first_name, s.first_surname, s.second_surname, s.birth_date, s.program, s.current_semester, s.created_at, s.updated_at`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db DBTX
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db DBTX) *StudentRepository {
	return &StudentRepository{db: db}
}

// List returns students visible to the filter's scope.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	var args []interface{}
	conditions := []string{"1=1"}

	if cond := scopeCondition(filter.Scope, "s.id", filter.PeriodID, &args); cond != "" {
		conditions = append(conditions, cond)
	}
	if filter.Program != "" {
		conditions = append(conditions, fmt.Sprintf("s.program = $%d", len(args)+1))
		args = append(args, filter.Program)
	}
	if filter.Semester != nil {
		conditions = append(conditions, fmt.Sprintf("s.current_semester = $%d", len(args)+1))
		args = append(args, *filter.Semester)
	}
	if filter.Search != "" {
		idx := len(args) + 1
		conditions = append(conditions, fmt.Sprintf("(LOWER(s.first_name || ' ' || s.first_surname || ' ' || COALESCE(s.second_surname, '')) LIKE $%d OR LOWER(s.control_number) LIKE $%d)", idx, idx))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base := "FROM students s WHERE " + strings.Join(conditions, " AND ")

	allowedSorts := map[string]string{
		"name":           "s.first_surname, s.first_name",
		"control_number": "s.control_number",
		"semester":       "s.current_semester",
		"created_at":     "s.created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = allowedSorts["name"]
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "DESC" {
		order = "ASC"
	}
	if order == "DESC" {
		column = strings.ReplaceAll(column, ",", " DESC,")
	}
	size, offset := pageBounds(filter.Page, filter.PageSize)

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", studentColumns, base, column, order, size, offset)
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	return r.get(ctx, "find student", `SELECT `+studentColumns+` FROM students s WHERE s.id = $1`, id)
}

// FindByIDForUpdate fetches and row-locks a student inside a transaction.
func (r *StudentRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.Student, error) {
	return r.get(ctx, "lock student", `SELECT `+studentColumns+` FROM students s WHERE s.id = $1 FOR UPDATE`, id)
}

func (r *StudentRepository) get(ctx context.Context, op, query string, args ...interface{}) (*models.Student, error) {
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &student, nil
}

// ExistsByControlNumber checks if a control number is taken, optionally excluding an ID.
func (r *StudentRepository) ExistsByControlNumber(ctx context.Context, controlNumber, excludeID string) (bool, error) {
	query := "SELECT 1 FROM students WHERE control_number = $1"
	args := []interface{}{controlNumber}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check control number: %w", err)
	}
	return true, nil
}

// Create inserts a student.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, control_number, first_name, first_surname, second_surname, birth_date, program, current_semester, created_at, updated_at) VALUES (:id, :control_number, :first_name, :first_surname, :second_surname, :birth_date, :program, :current_semester, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return writeError("create student", err)
	}
	return nil
}

// Update modifies a student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET control_number = :control_number, first_name = :first_name, first_surname = :first_surname, second_surname = :second_surname, birth_date = :birth_date, program = :program, current_semester = :current_semester, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return writeError("update student", err)
	}
	return nil
}

// UpdateSemester sets the current semester of a student.
func (r *StudentRepository) UpdateSemester(ctx context.Context, id string, semester int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE students SET current_semester = $2, updated_at = $3 WHERE id = $1`, id, semester, time.Now().UTC())
	if err != nil {
		return writeError("update student semester", err)
	}
	return affectedOrNotFound(res, "update student semester")
}

// Delete removes a student and cascades their history.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return writeError("delete student", err)
	}
	return nil
}
