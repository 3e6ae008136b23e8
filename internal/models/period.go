package models

import "time"

// Period is an academic term. At most one period is active at any time.
type Period struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// PeriodFilter captures list filters for periods.
type PeriodFilter struct {
	Active   *bool
	Search   string
	Page     int
	PageSize int
}

// PeriodTransition is the outcome of closing the active period and opening its successor.
type PeriodTransition struct {
	AdvancedCount   int      `json:"advanced_count"`
	ClosedPeriod    *Period  `json:"closed_period"`
	NewPeriod       *Period  `json:"new_period"`
	ClonedGroups    []Group  `json:"cloned_groups,omitempty"`
	SkippedGroupIDs []string `json:"skipped_group_ids,omitempty"`
}
