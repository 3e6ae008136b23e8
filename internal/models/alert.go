package models

import "time"

// AlertType classifies alerts.
type AlertType string

const (
	AlertConsecutiveAbsences AlertType = "faltas_consecutivas"
	AlertFailedSubjects      AlertType = "materias_reprobadas"
	AlertVitalRisk           AlertType = "riesgo_vital"
	AlertOther               AlertType = "otro"
)

// AlertStatus is the workflow state of an alert.
type AlertStatus string

const (
	AlertStatusActive   AlertStatus = "activa"
	AlertStatusAttended AlertStatus = "atendida"
	AlertStatusClosed   AlertStatus = "cerrada"
)

// RiskAlertTypes are the alert types that flag a student as at risk while active.
var RiskAlertTypes = []AlertType{AlertConsecutiveAbsences, AlertFailedSubjects, AlertVitalRisk}

// RecentAbsenceThreshold is the absence day count reported as recent absences.
const RecentAbsenceThreshold = 4

// Alert is a risk signal raised for a student.
type Alert struct {
	ID             string      `db:"id" json:"id"`
	StudentID      string      `db:"student_id" json:"student_id"`
	Type           AlertType   `db:"type" json:"type"`
	Description    *string     `db:"description" json:"description,omitempty"`
	AbsenceDays    *int        `db:"absence_days" json:"absence_days,omitempty"`
	FailedSubjects *int        `db:"failed_subjects" json:"failed_subjects,omitempty"`
	Status         AlertStatus `db:"status" json:"status"`
	CreatedBy      *string     `db:"created_by" json:"created_by,omitempty"`
	AlertDate      time.Time   `db:"alert_date" json:"alert_date"`
	CreatedAt      time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at" json:"updated_at"`
}
