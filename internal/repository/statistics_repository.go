package repository

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/noah-isme/tutoring-api/internal/models"
)

// StatisticsRepository computes read-only rollups.
type StatisticsRepository struct {
	db DBTX
}

// NewStatisticsRepository constructs a StatisticsRepository.
func NewStatisticsRepository(db DBTX) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

// Summary computes the statistics of periodID restricted to scope in one round trip.
func (r *StatisticsRepository) Summary(ctx context.Context, scope models.Scope, periodID string) (*models.Statistics, error) {
	riskTypes := make([]string, len(models.RiskAlertTypes))
	for i, t := range models.RiskAlertTypes {
		riskTypes[i] = string(t)
	}
	openStatuses := make([]string, len(models.OpenReferralStatuses))
	for i, s := range models.OpenReferralStatuses {
		openStatuses[i] = string(s)
	}

	args := []interface{}{
		periodID,
		models.PassingGrade,
		string(models.AlertStatusActive),
		pq.Array(riskTypes),
		pq.Array(openStatuses),
		string(models.AlertConsecutiveAbsences),
		models.RecentAbsenceThreshold,
	}
	scoped := "SELECT s.id FROM students s"
	if cond := scopeCondition(scope, "s.id", periodID, &args); cond != "" {
		scoped += " WHERE " + cond
	}

	query := fmt.Sprintf(`WITH scoped AS (%s)
SELECT
	(SELECT COUNT(*) FROM scoped) AS total_students,
	(SELECT COUNT(*) FROM scoped sc WHERE
		(SELECT COUNT(*) FROM subject_assignments sa WHERE sa.student_id = sc.id AND sa.period_id = $1 AND sa.grade < $2) >= 2
		OR EXISTS (SELECT 1 FROM alerts a WHERE a.student_id = sc.id AND a.status = $3 AND a.type = ANY($4))
	) AS at_risk_students,
	(SELECT COUNT(*) FROM referrals rf JOIN scoped sc ON sc.id = rf.student_id WHERE rf.status = ANY($5)) AS open_referrals,
	COALESCE((SELECT ROUND(AVG(sa.grade)::numeric, 2) FROM subject_assignments sa JOIN scoped sc ON sc.id = sa.student_id WHERE sa.period_id = $1 AND sa.grade IS NOT NULL), 0) AS grade_average,
	(SELECT COUNT(*) FROM alerts a JOIN scoped sc ON sc.id = a.student_id WHERE a.status = $3 AND a.type = $6 AND a.absence_days >= $7) AS recent_absence_alerts`, scoped)

	var stats models.Statistics
	if err := r.db.GetContext(ctx, &stats, query, args...); err != nil {
		return nil, fmt.Errorf("compute statistics: %w", err)
	}
	stats.PeriodID = periodID
	stats.Scope = scope.Key()
	return &stats, nil
}
