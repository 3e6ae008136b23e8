package models

// Statistics is the role scoped rollup of the active period.
// An empty PeriodID means no period was active and every figure is zero.
type Statistics struct {
	PeriodID            string  `json:"period_id"`
	Scope               string  `json:"scope"`
	TotalStudents       int     `json:"total_students" db:"total_students"`
	AtRiskStudents      int     `json:"at_risk_students" db:"at_risk_students"`
	OpenReferrals       int     `json:"open_referrals" db:"open_referrals"`
	GradeAverage        float64 `json:"grade_average" db:"grade_average"`
	RecentAbsenceAlerts int     `json:"recent_absence_alerts" db:"recent_absence_alerts"`
	Cached              bool    `json:"cached"`
}
