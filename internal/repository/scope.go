package repository

import (
	"fmt"

	"github.com/noah-isme/tutoring-api/internal/models"
)

// scopeCondition renders the SQL predicate restricting studentCol to the scope.
// It appends its arguments to args. An empty string means no restriction.
func scopeCondition(scope models.Scope, studentCol, periodID string, args *[]interface{}) string {
	next := func(v interface{}) string {
		*args = append(*args, v)
		return fmt.Sprintf("$%d", len(*args))
	}

	switch scope.Kind {
	case models.ScopeAll:
		return ""
	case models.ScopeProgram:
		return fmt.Sprintf("%s IN (SELECT sp.id FROM students sp WHERE sp.program = %s)", studentCol, next(scope.Program))
	case models.ScopeTutor:
		if periodID == "" || scope.TutorID == "" {
			return "FALSE"
		}
		return fmt.Sprintf("%s IN (SELECT se.student_id FROM enrollments se JOIN groups sg ON sg.id = se.group_id WHERE se.period_id = %s AND sg.tutor_id = %s)",
			studentCol, next(periodID), next(scope.TutorID))
	case models.ScopeGroup:
		if periodID == "" || scope.GroupID == "" {
			return "FALSE"
		}
		return fmt.Sprintf("%s IN (SELECT se.student_id FROM enrollments se WHERE se.period_id = %s AND se.group_id = %s)",
			studentCol, next(periodID), next(scope.GroupID))
	default:
		return "FALSE"
	}
}
