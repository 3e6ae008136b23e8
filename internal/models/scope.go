package models

import "fmt"

// ScopeKind enumerates the data visibility rules derived from a caller's role.
type ScopeKind string

const (
	ScopeAll     ScopeKind = "all"
	ScopeProgram ScopeKind = "program"
	ScopeTutor   ScopeKind = "tutor"
	ScopeGroup   ScopeKind = "group"
	ScopeNone    ScopeKind = "none"
)

// Scope restricts queries to the students a caller may see.
// Tutor and group scopes resolve through enrollments of the active period.
type Scope struct {
	Kind    ScopeKind
	Program string
	TutorID string
	GroupID string
}

// AllScope sees every student.
func AllScope() Scope { return Scope{Kind: ScopeAll} }

// ProgramScope sees students of one program.
func ProgramScope(program string) Scope { return Scope{Kind: ScopeProgram, Program: program} }

// TutorScope sees students enrolled in the tutor's groups.
func TutorScope(tutorID string) Scope { return Scope{Kind: ScopeTutor, TutorID: tutorID} }

// GroupScope sees students enrolled in a single group.
func GroupScope(groupID string) Scope { return Scope{Kind: ScopeGroup, GroupID: groupID} }

// ScopeFromClaims maps the authenticated role to its visibility scope.
func ScopeFromClaims(claims *JWTClaims) Scope {
	if claims == nil {
		return Scope{Kind: ScopeNone}
	}
	switch claims.Role {
	case RoleCoordination, RoleDirection:
		return AllScope()
	case RoleDivisionHead:
		if claims.Program == "" {
			return AllScope()
		}
		return ProgramScope(claims.Program)
	case RoleTutor:
		return TutorScope(claims.UserID)
	default:
		return Scope{Kind: ScopeNone}
	}
}

// Key renders a stable identifier for cache keys.
func (s Scope) Key() string {
	switch s.Kind {
	case ScopeProgram:
		return fmt.Sprintf("program:%s", s.Program)
	case ScopeTutor:
		return fmt.Sprintf("tutor:%s", s.TutorID)
	case ScopeGroup:
		return fmt.Sprintf("group:%s", s.GroupID)
	case ScopeAll:
		return "all"
	default:
		return "none"
	}
}

// NeedsActivePeriod reports whether the scope is defined by active period enrollments.
func (s Scope) NeedsActivePeriod() bool {
	return s.Kind == ScopeTutor || s.Kind == ScopeGroup
}
