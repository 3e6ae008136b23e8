package models

import "time"

// ReferralStatus is the state of a referral (canalización).
type ReferralStatus string

const (
	ReferralPending  ReferralStatus = "pendiente"
	ReferralFollowUp ReferralStatus = "en_seguimiento"
	ReferralAttended ReferralStatus = "atendida"
)

// OpenReferralStatuses are counted as open referrals.
var OpenReferralStatuses = []ReferralStatus{ReferralPending, ReferralFollowUp}

// Referral routes a student to a support area.
type Referral struct {
	ID           string         `db:"id" json:"id"`
	StudentID    string         `db:"student_id" json:"student_id"`
	TutorID      *string        `db:"tutor_id" json:"tutor_id,omitempty"`
	TargetArea   string         `db:"target_area" json:"target_area"`
	Reason       string         `db:"reason" json:"reason"`
	Notes        *string        `db:"notes" json:"notes,omitempty"`
	ReferralDate time.Time      `db:"referral_date" json:"referral_date"`
	Status       ReferralStatus `db:"status" json:"status"`
	AttendedAt   *time.Time     `db:"attended_at" json:"attended_at,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// ReferralDetail joins student and tutor names for listings and reports.
type ReferralDetail struct {
	Referral
	ControlNumber string  `db:"control_number" json:"control_number"`
	StudentName   string  `db:"student_name" json:"student_name"`
	TutorName     *string `db:"tutor_name" json:"tutor_name,omitempty"`
}

// ReferralFilter narrows referral listings.
type ReferralFilter struct {
	Scope    Scope
	PeriodID string
	Status   ReferralStatus
	Area     string
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
}
