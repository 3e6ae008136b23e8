package models

import "time"

// Subject is a course of a program's curriculum.
type Subject struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Program   string    `db:"program" json:"program"`
	Semester  int       `db:"semester" json:"semester"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectFilter narrows subject listings.
type SubjectFilter struct {
	Program  string
	Semester *int
}

const (
	// MinGrade and MaxGrade bound a subject grade.
	MinGrade = 0
	MaxGrade = 100
	// PassingGrade is the lowest non failing grade.
	PassingGrade = 70
)

// SubjectAssignment is a subject a student takes during a period and semester.
type SubjectAssignment struct {
	ID          string    `db:"id" json:"id"`
	StudentID   string    `db:"student_id" json:"student_id"`
	SubjectID   string    `db:"subject_id" json:"subject_id"`
	SubjectName string    `db:"subject_name" json:"subject_name,omitempty"`
	PeriodID    string    `db:"period_id" json:"period_id"`
	Semester    int       `db:"semester" json:"semester"`
	Grade       *float64  `db:"grade" json:"grade"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectAssignmentFilter narrows a student's subject list.
type SubjectAssignmentFilter struct {
	StudentID string
	PeriodID  string
	Semester  *int
}

// AssignSubjectsResult reports inserted and skipped subjects.
type AssignSubjectsResult struct {
	Assigned []SubjectAssignment `json:"assigned"`
	Skipped  []string            `json:"skipped_subject_ids,omitempty"`
}
