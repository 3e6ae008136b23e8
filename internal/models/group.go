package models

import "time"

const (
	// MinSemester is the first semester of any program.
	MinSemester = 1
	// MaxSemester is the last semester a student can reach.
	MaxSemester = 12
)

// Group is a cohort of students of one semester and program inside a period.
type Group struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Semester    int       `db:"semester" json:"semester"`
	Program     string    `db:"program" json:"program"`
	PeriodID    string    `db:"period_id" json:"period_id"`
	TutorID     *string   `db:"tutor_id" json:"tutor_id,omitempty"`
	MaxCapacity int       `db:"max_capacity" json:"max_capacity"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// GroupDetail decorates a group with its tutor name and head count.
type GroupDetail struct {
	Group
	TutorName     *string `db:"tutor_name" json:"tutor_name,omitempty"`
	EnrolledCount int     `db:"enrolled_count" json:"enrolled_count"`
}

// GroupFilter narrows group listings.
type GroupFilter struct {
	PeriodID string
	TutorID  string
	Program  string
	Semester *int
}

// CloneResult reports groups copied into another period.
type CloneResult struct {
	Groups          []Group  `json:"groups"`
	SkippedGroupIDs []string `json:"skipped_group_ids,omitempty"`
}
