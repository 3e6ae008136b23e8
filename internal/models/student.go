package models

import (
	"strings"
	"time"
)

// Student is a tutored student. CurrentSemester only changes through semester progression or a direct edit.
type Student struct {
	ID              string     `db:"id" json:"id"`
	ControlNumber   string     `db:"control_number" json:"control_number"`
	FirstName       string     `db:"first_name" json:"first_name"`
	FirstSurname    string     `db:"first_surname" json:"first_surname"`
	SecondSurname   *string    `db:"second_surname" json:"second_surname,omitempty"`
	BirthDate       *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Program         string     `db:"program" json:"program"`
	CurrentSemester int        `db:"current_semester" json:"current_semester"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// FullName joins surnames and name the way rosters print them.
func (s Student) FullName() string {
	parts := []string{s.FirstSurname}
	if s.SecondSurname != nil && *s.SecondSurname != "" {
		parts = append(parts, *s.SecondSurname)
	}
	parts = append(parts, s.FirstName)
	return strings.Join(parts, " ")
}

// StudentFilter represents filters for listing students.
type StudentFilter struct {
	Scope     Scope
	PeriodID  string
	Search    string
	Program   string
	Semester  *int
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
