package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutoring-api/internal/models"
	"github.com/noah-isme/tutoring-api/internal/service"
	appErrors "github.com/noah-isme/tutoring-api/pkg/errors"
)

type enrollmentServiceStub struct {
	assignErr   error
	outcomes    []models.EnrollmentOutcome
	changeErr   error
	lastAll     bool
	lastScope   models.Scope
	lastGroupID string
	batchCalled bool
}

func (s *enrollmentServiceStub) Assign(ctx context.Context, groupID, studentID string) (*models.Enrollment, error) {
	s.lastGroupID = groupID
	if s.assignErr != nil {
		return nil, s.assignErr
	}
	return &models.Enrollment{ID: "enr-1", GroupID: groupID, StudentID: studentID, PeriodID: "p1"}, nil
}

func (s *enrollmentServiceStub) AssignBatch(ctx context.Context, groupID string, req service.AssignStudentsRequest) ([]models.EnrollmentOutcome, error) {
	s.batchCalled = true
	return s.outcomes, nil
}

func (s *enrollmentServiceStub) Remove(ctx context.Context, groupID, studentID string) error {
	return nil
}

func (s *enrollmentServiceStub) ChangeGroup(ctx context.Context, studentID string, req service.ChangeGroupRequest) (*models.Enrollment, error) {
	if s.changeErr != nil {
		return nil, s.changeErr
	}
	return &models.Enrollment{ID: "enr-2", GroupID: req.GroupID, StudentID: studentID}, nil
}

func (s *enrollmentServiceStub) ListAvailable(ctx context.Context, groupID string, all bool) ([]models.Student, error) {
	s.lastAll = all
	return []models.Student{{ID: "st-1"}}, nil
}

func (s *enrollmentServiceStub) ListGroupStudents(ctx context.Context, groupID string, scope models.Scope) ([]models.Student, error) {
	s.lastScope = scope
	return nil, nil
}

func TestEnrollmentHandlerAssignSingle(t *testing.T) {
	stub := &enrollmentServiceStub{}
	h := NewEnrollmentHandler(stub)

	c, w := newGinContext(http.MethodPost, "/groups/g1/students", []byte(`{"student_id":"st-1"}`))
	c.Params = append(c.Params, ginParam("id", "g1"))
	asCoordinator(c)

	h.Assign(c)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "g1", stub.lastGroupID)
	assert.False(t, stub.batchCalled)
}

func TestEnrollmentHandlerAssignCapacityError(t *testing.T) {
	stub := &enrollmentServiceStub{assignErr: appErrors.Clone(appErrors.ErrCapacity, "group is full")}
	h := NewEnrollmentHandler(stub)

	c, w := newGinContext(http.MethodPost, "/groups/g1/students", []byte(`{"student_id":"st-1"}`))
	c.Params = append(c.Params, ginParam("id", "g1"))

	h.Assign(c)
	require.Equal(t, http.StatusConflict, w.Code)
	env := decodeEnvelope(t, w)
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrCapacity.Code, env.Error.Code)
}

func TestEnrollmentHandlerAssignBatchReportsCounts(t *testing.T) {
	stub := &enrollmentServiceStub{outcomes: []models.EnrollmentOutcome{
		{StudentID: "st-1", Enrollment: &models.Enrollment{ID: "enr-1"}},
		{StudentID: "st-2", ErrorCode: appErrors.ErrCapacity.Code, Error: "group is full"},
	}}
	h := NewEnrollmentHandler(stub)

	c, w := newGinContext(http.MethodPost, "/groups/g1/students", []byte(`{"student_ids":["st-1","st-2"]}`))
	c.Params = append(c.Params, ginParam("id", "g1"))

	h.Assign(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, stub.batchCalled)

	env := decodeEnvelope(t, w)
	assert.EqualValues(t, 1, env.Meta["enrolled"])
	assert.EqualValues(t, 1, env.Meta["rejected"])

	var outcomes []models.EnrollmentOutcome
	require.NoError(t, json.Unmarshal(env.Data, &outcomes))
	assert.Len(t, outcomes, 2)
}

func TestEnrollmentHandlerListAvailableAllFlag(t *testing.T) {
	stub := &enrollmentServiceStub{}
	h := NewEnrollmentHandler(stub)

	c, w := newGinContext(http.MethodGet, "/groups/g1/available-students?all=true", nil)
	c.Params = append(c.Params, ginParam("id", "g1"))

	h.ListAvailable(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, stub.lastAll)
}

func TestEnrollmentHandlerListStudentsUsesCallerScope(t *testing.T) {
	stub := &enrollmentServiceStub{}
	h := NewEnrollmentHandler(stub)

	c, w := newGinContext(http.MethodGet, "/groups/g1/students", nil)
	c.Params = append(c.Params, ginParam("id", "g1"))
	asTutor(c, "tutor-1")

	h.ListStudents(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.TutorScope("tutor-1"), stub.lastScope)
}

func TestEnrollmentHandlerChangeGroupRejectsBadPayload(t *testing.T) {
	h := NewEnrollmentHandler(&enrollmentServiceStub{})

	c, w := newGinContext(http.MethodPut, "/students/st-1/group", []byte(`{"group_id":`))
	c.Params = append(c.Params, ginParam("id", "st-1"))

	h.ChangeGroup(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
