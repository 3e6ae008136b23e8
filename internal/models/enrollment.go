package models

import "time"

// Enrollment binds one student to one group inside one period.
type Enrollment struct {
	ID        string    `db:"id" json:"id"`
	StudentID string    `db:"student_id" json:"student_id"`
	GroupID   string    `db:"group_id" json:"group_id"`
	PeriodID  string    `db:"period_id" json:"period_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// EnrollmentOutcome reports a single student's result inside a batch assignment.
type EnrollmentOutcome struct {
	StudentID  string      `json:"student_id"`
	Enrollment *Enrollment `json:"enrollment,omitempty"`
	ErrorCode  string      `json:"error_code,omitempty"`
	Error      string      `json:"error,omitempty"`
}

// AvailableStudentsFilter selects candidates for a group.
type AvailableStudentsFilter struct {
	PeriodID string
	Program  string
	Semester int
	// AllProgramsAndSemesters disables the program and semester match.
	AllProgramsAndSemesters bool
}
