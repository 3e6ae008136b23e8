package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/tutoring-api/internal/models"
	"github.com/noah-isme/tutoring-api/internal/repository"
)

// memStore is an in-memory stand-in for the academic tables. RunInTx restores a snapshot when
// the unit of work fails, so tests can assert rollback.
type memStore struct {
	periods     map[string]models.Period
	groups      map[string]models.Group
	enrollments map[string]models.Enrollment
	students    map[string]models.Student
	assignments map[string]models.SubjectAssignment
	subjects    map[string]models.Subject
	seq         int
	writes      int
	txCount     int
	shared      int
}

func newMemStore() *memStore {
	return &memStore{
		periods:     map[string]models.Period{},
		groups:      map[string]models.Group{},
		enrollments: map[string]models.Enrollment{},
		students:    map[string]models.Student{},
		assignments: map[string]models.SubjectAssignment{},
		subjects:    map[string]models.Subject{},
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

func (m *memStore) repos() Repos {
	return Repos{
		Periods:     memPeriods{m},
		Groups:      memGroups{m},
		Enrollments: memEnrollments{m},
		Students:    memStudents{m},
		Assignments: memAssignments{m},
	}
}

type memSnapshot struct {
	periods     map[string]models.Period
	groups      map[string]models.Group
	enrollments map[string]models.Enrollment
	students    map[string]models.Student
	assignments map[string]models.SubjectAssignment
	writes      int
}

func copyMap[K comparable, V any](src map[K]V) map[K]V {
	dst := make(map[K]V, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (m *memStore) snapshot() memSnapshot {
	return memSnapshot{
		periods:     copyMap(m.periods),
		groups:      copyMap(m.groups),
		enrollments: copyMap(m.enrollments),
		students:    copyMap(m.students),
		assignments: copyMap(m.assignments),
		writes:      m.writes,
	}
}

func (m *memStore) restore(s memSnapshot) {
	m.periods = s.periods
	m.groups = s.groups
	m.enrollments = s.enrollments
	m.students = s.students
	m.assignments = s.assignments
	m.writes = s.writes
}

func (m *memStore) RunInTx(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error {
	m.txCount++
	snap := m.snapshot()
	if err := fn(ctx, m.repos()); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

func (m *memStore) activePeriods() []models.Period {
	var out []models.Period
	for _, p := range m.periods {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}

func (m *memStore) addPeriod(p models.Period) models.Period {
	if p.ID == "" {
		p.ID = m.nextID("period")
	}
	m.periods[p.ID] = p
	return p
}

func (m *memStore) addGroup(g models.Group) models.Group {
	if g.ID == "" {
		g.ID = m.nextID("group")
	}
	m.groups[g.ID] = g
	return g
}

func (m *memStore) addStudent(s models.Student) models.Student {
	if s.ID == "" {
		s.ID = m.nextID("student")
	}
	m.students[s.ID] = s
	return s
}

func (m *memStore) addEnrollment(e models.Enrollment) models.Enrollment {
	if e.ID == "" {
		e.ID = m.nextID("enrollment")
	}
	m.enrollments[e.ID] = e
	return e
}

func uniqueViolation(constraint string) error {
	return fmt.Errorf("write: %w", &repository.ConstraintError{Kind: repository.ErrUniqueViolation, Constraint: constraint, Err: fmt.Errorf("duplicate")})
}

type memPeriods struct{ m *memStore }

func (r memPeriods) List(ctx context.Context, filter models.PeriodFilter) ([]models.Period, int, error) {
	var out []models.Period
	for _, p := range r.m.periods {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, len(out), nil
}

func (r memPeriods) FindByID(ctx context.Context, id string) (*models.Period, error) {
	p, ok := r.m.periods[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (r memPeriods) FindByIDForUpdate(ctx context.Context, id string) (*models.Period, error) {
	return r.FindByID(ctx, id)
}

func (r memPeriods) FindActive(ctx context.Context) (*models.Period, error) {
	active := r.m.activePeriods()
	if len(active) == 0 {
		return nil, sql.ErrNoRows
	}
	return &active[0], nil
}

func (r memPeriods) FindActiveForShare(ctx context.Context) (*models.Period, error) {
	r.m.shared++
	return r.FindActive(ctx)
}

func (r memPeriods) ExistsByName(ctx context.Context, name, excludeID string) (bool, error) {
	for _, p := range r.m.periods {
		if strings.EqualFold(p.Name, name) && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r memPeriods) Create(ctx context.Context, period *models.Period) error {
	if period.Active && len(r.m.activePeriods()) > 0 {
		return uniqueViolation("periods_single_active_idx")
	}
	if period.ID == "" {
		period.ID = r.m.nextID("period")
	}
	r.m.writes++
	r.m.periods[period.ID] = *period
	return nil
}

func (r memPeriods) Update(ctx context.Context, period *models.Period) error {
	stored, ok := r.m.periods[period.ID]
	if !ok {
		return sql.ErrNoRows
	}
	stored.Name, stored.StartDate, stored.EndDate = period.Name, period.StartDate, period.EndDate
	r.m.writes++
	r.m.periods[period.ID] = stored
	return nil
}

func (r memPeriods) DeactivateAll(ctx context.Context, exceptID string) (int64, error) {
	var n int64
	for id, p := range r.m.periods {
		if p.Active && id != exceptID {
			p.Active = false
			r.m.periods[id] = p
			n++
		}
	}
	if n > 0 {
		r.m.writes++
	}
	return n, nil
}

func (r memPeriods) Activate(ctx context.Context, id string) error {
	p, ok := r.m.periods[id]
	if !ok {
		return sql.ErrNoRows
	}
	for _, other := range r.m.activePeriods() {
		if other.ID != id {
			return uniqueViolation("periods_single_active_idx")
		}
	}
	p.Active = true
	r.m.writes++
	r.m.periods[id] = p
	return nil
}

func (r memPeriods) Deactivate(ctx context.Context, id string) error {
	p, ok := r.m.periods[id]
	if !ok {
		return sql.ErrNoRows
	}
	p.Active = false
	r.m.writes++
	r.m.periods[id] = p
	return nil
}

func (r memPeriods) Delete(ctx context.Context, id string) error {
	r.m.writes++
	delete(r.m.periods, id)
	return nil
}

func (r memPeriods) CountGroups(ctx context.Context, id string) (int, error) {
	count := 0
	for _, g := range r.m.groups {
		if g.PeriodID == id {
			count++
		}
	}
	return count, nil
}

type memGroups struct{ m *memStore }

func (r memGroups) List(ctx context.Context, filter models.GroupFilter) ([]models.GroupDetail, error) {
	var out []models.GroupDetail
	for _, g := range r.m.groups {
		if filter.PeriodID != "" && g.PeriodID != filter.PeriodID {
			continue
		}
		if filter.TutorID != "" && (g.TutorID == nil || *g.TutorID != filter.TutorID) {
			continue
		}
		count, _ := memEnrollments{r.m}.CountByGroup(ctx, g.ID, g.PeriodID)
		out = append(out, models.GroupDetail{Group: g, EnrolledCount: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memGroups) FindByID(ctx context.Context, id string) (*models.Group, error) {
	g, ok := r.m.groups[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &g, nil
}

func (r memGroups) FindByIDForUpdate(ctx context.Context, id string) (*models.Group, error) {
	return r.FindByID(ctx, id)
}

func (r memGroups) Create(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = r.m.nextID("group")
	}
	r.m.writes++
	r.m.groups[group.ID] = *group
	return nil
}

func (r memGroups) Update(ctx context.Context, group *models.Group) error {
	if _, ok := r.m.groups[group.ID]; !ok {
		return sql.ErrNoRows
	}
	r.m.writes++
	r.m.groups[group.ID] = *group
	return nil
}

func (r memGroups) Delete(ctx context.Context, id string) error {
	for _, e := range r.m.enrollments {
		if e.GroupID == id {
			return fmt.Errorf("delete group: %w", &repository.ConstraintError{Kind: repository.ErrForeignKeyViolation, Constraint: "enrollments_group_id_fkey", Err: fmt.Errorf("restrict")})
		}
	}
	r.m.writes++
	delete(r.m.groups, id)
	return nil
}

type memEnrollments struct{ m *memStore }

func (r memEnrollments) Create(ctx context.Context, enrollment *models.Enrollment) error {
	for _, e := range r.m.enrollments {
		if e.StudentID == enrollment.StudentID && e.PeriodID == enrollment.PeriodID {
			return uniqueViolation("enrollments_student_period_key")
		}
	}
	if enrollment.ID == "" {
		enrollment.ID = r.m.nextID("enrollment")
	}
	r.m.writes++
	r.m.enrollments[enrollment.ID] = *enrollment
	return nil
}

func (r memEnrollments) FindByStudentAndPeriod(ctx context.Context, studentID, periodID string) (*models.Enrollment, error) {
	for _, e := range r.m.enrollments {
		if e.StudentID == studentID && e.PeriodID == periodID {
			found := e
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r memEnrollments) CountByGroup(ctx context.Context, groupID, periodID string) (int, error) {
	count := 0
	for _, e := range r.m.enrollments {
		if e.GroupID == groupID && e.PeriodID == periodID {
			count++
		}
	}
	return count, nil
}

func (r memEnrollments) UpdateGroup(ctx context.Context, id, groupID string) error {
	e, ok := r.m.enrollments[id]
	if !ok {
		return sql.ErrNoRows
	}
	e.GroupID = groupID
	r.m.writes++
	r.m.enrollments[id] = e
	return nil
}

func (r memEnrollments) Delete(ctx context.Context, groupID, studentID, periodID string) (int64, error) {
	for id, e := range r.m.enrollments {
		if e.GroupID == groupID && e.StudentID == studentID && e.PeriodID == periodID {
			r.m.writes++
			delete(r.m.enrollments, id)
			return 1, nil
		}
	}
	return 0, nil
}

func (r memEnrollments) ListByPeriod(ctx context.Context, periodID string) ([]models.Enrollment, error) {
	var out []models.Enrollment
	for _, e := range r.m.enrollments {
		if e.PeriodID == periodID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r memEnrollments) ListStudentsByGroup(ctx context.Context, groupID, periodID string) ([]models.Student, error) {
	var out []models.Student
	for _, e := range r.m.enrollments {
		if e.GroupID == groupID && e.PeriodID == periodID {
			out = append(out, r.m.students[e.StudentID])
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName() < out[j].FullName() })
	return out, nil
}

func (r memEnrollments) ListAvailableStudents(ctx context.Context, filter models.AvailableStudentsFilter) ([]models.Student, error) {
	var out []models.Student
	for _, s := range r.m.students {
		if _, err := r.FindByStudentAndPeriod(ctx, s.ID, filter.PeriodID); err == nil {
			continue
		}
		if !filter.AllProgramsAndSemesters && (s.Program != filter.Program || s.CurrentSemester != filter.Semester) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type memStudents struct{ m *memStore }

func (r memStudents) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	var out []models.Student
	for _, s := range r.m.students {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (r memStudents) FindByID(ctx context.Context, id string) (*models.Student, error) {
	s, ok := r.m.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &s, nil
}

func (r memStudents) FindByIDForUpdate(ctx context.Context, id string) (*models.Student, error) {
	return r.FindByID(ctx, id)
}

func (r memStudents) ExistsByControlNumber(ctx context.Context, controlNumber, excludeID string) (bool, error) {
	for _, s := range r.m.students {
		if s.ControlNumber == controlNumber && s.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r memStudents) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = r.m.nextID("student")
	}
	r.m.writes++
	r.m.students[student.ID] = *student
	return nil
}

func (r memStudents) Update(ctx context.Context, student *models.Student) error {
	r.m.writes++
	r.m.students[student.ID] = *student
	return nil
}

func (r memStudents) UpdateSemester(ctx context.Context, id string, semester int) error {
	s, ok := r.m.students[id]
	if !ok {
		return sql.ErrNoRows
	}
	s.CurrentSemester = semester
	r.m.writes++
	r.m.students[id] = s
	return nil
}

func (r memStudents) Delete(ctx context.Context, id string) error {
	r.m.writes++
	delete(r.m.students, id)
	return nil
}

type memAssignments struct{ m *memStore }

func (r memAssignments) CountForSemester(ctx context.Context, studentID, periodID string, semester int) (int, error) {
	count := 0
	for _, a := range r.m.assignments {
		if a.StudentID == studentID && a.PeriodID == periodID && a.Semester == semester {
			count++
		}
	}
	return count, nil
}

func (r memAssignments) ListSubjectIDs(ctx context.Context, studentID, periodID string) ([]string, error) {
	var ids []string
	for _, a := range r.m.assignments {
		if a.StudentID == studentID && a.PeriodID == periodID {
			ids = append(ids, a.SubjectID)
		}
	}
	return ids, nil
}

func (r memAssignments) Insert(ctx context.Context, assignment *models.SubjectAssignment) (bool, error) {
	for _, a := range r.m.assignments {
		if a.StudentID == assignment.StudentID && a.SubjectID == assignment.SubjectID && a.PeriodID == assignment.PeriodID {
			return false, nil
		}
	}
	if assignment.ID == "" {
		assignment.ID = r.m.nextID("assignment")
	}
	r.m.writes++
	r.m.assignments[assignment.ID] = *assignment
	return true, nil
}

func (r memAssignments) List(ctx context.Context, filter models.SubjectAssignmentFilter) ([]models.SubjectAssignment, error) {
	var out []models.SubjectAssignment
	for _, a := range r.m.assignments {
		if a.StudentID != filter.StudentID {
			continue
		}
		if filter.PeriodID != "" && a.PeriodID != filter.PeriodID {
			continue
		}
		if filter.Semester != nil && a.Semester != *filter.Semester {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memAssignments) FindByID(ctx context.Context, id string) (*models.SubjectAssignment, error) {
	a, ok := r.m.assignments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &a, nil
}

func (r memAssignments) UpdateGrade(ctx context.Context, id string, grade *float64) error {
	a, ok := r.m.assignments[id]
	if !ok {
		return sql.ErrNoRows
	}
	a.Grade = grade
	r.m.writes++
	r.m.assignments[id] = a
	return nil
}

func (r memAssignments) Delete(ctx context.Context, id string) error {
	if _, ok := r.m.assignments[id]; !ok {
		return sql.ErrNoRows
	}
	r.m.writes++
	delete(r.m.assignments, id)
	return nil
}
