package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutoring-api/internal/models"
	"github.com/noah-isme/tutoring-api/internal/service"
	"github.com/noah-isme/tutoring-api/pkg/response"
)

type enrollmentService interface {
	Assign(ctx context.Context, groupID, studentID string) (*models.Enrollment, error)
	AssignBatch(ctx context.Context, groupID string, req service.AssignStudentsRequest) ([]models.EnrollmentOutcome, error)
	Remove(ctx context.Context, groupID, studentID string) error
	ChangeGroup(ctx context.Context, studentID string, req service.ChangeGroupRequest) (*models.Enrollment, error)
	ListAvailable(ctx context.Context, groupID string, all bool) ([]models.Student, error)
	ListGroupStudents(ctx context.Context, groupID string, scope models.Scope) ([]models.Student, error)
}

// EnrollmentHandler exposes the enrollment ledger.
type EnrollmentHandler struct {
	enrollments enrollmentService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments enrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments}
}

// ListStudents godoc
// @Summary List students enrolled in a group
// @Tags Enrollments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /groups/{id}/students [get]
func (h *EnrollmentHandler) ListStudents(c *gin.Context) {
	students, err := h.enrollments.ListGroupStudents(c.Request.Context(), c.Param("id"), scopeFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// ListAvailable godoc
// @Summary List students without a group in the active period
// @Description Restricted to the group's program and semester unless all=true
// @Tags Enrollments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param all query bool false "Ignore program and semester"
// @Success 200 {object} response.Envelope
// @Router /groups/{id}/available-students [get]
func (h *EnrollmentHandler) ListAvailable(c *gin.Context) {
	all := false
	if v := boolQuery(c, "all"); v != nil {
		all = *v
	}
	students, err := h.enrollments.ListAvailable(c.Request.Context(), c.Param("id"), all)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// Assign godoc
// @Summary Enroll students in a group
// @Description A single student_id returns the enrollment. student_ids returns one outcome per student.
// @Tags Enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param payload body service.AssignStudentsRequest true "Students"
// @Success 201 {object} response.Envelope
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /groups/{id}/students [post]
func (h *EnrollmentHandler) Assign(c *gin.Context) {
	var req service.AssignStudentsRequest
	if !bindJSON(c, &req) {
		return
	}
	groupID := c.Param("id")
	if len(req.StudentIDs) == 0 {
		enrollment, err := h.enrollments.Assign(c.Request.Context(), groupID, req.StudentID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, enrollment)
		return
	}

	outcomes, err := h.enrollments.AssignBatch(c.Request.Context(), groupID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	enrolled := 0
	for _, outcome := range outcomes {
		if outcome.Enrollment != nil {
			enrolled++
		}
	}
	response.JSON(c, http.StatusOK, outcomes, nil, map[string]interface{}{
		"enrolled": enrolled,
		"rejected": len(outcomes) - enrolled,
	})
}

// Remove godoc
// @Summary Remove a student from a group
// @Tags Enrollments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param studentId path string true "Student ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /groups/{id}/students/{studentId} [delete]
func (h *EnrollmentHandler) Remove(c *gin.Context) {
	if err := h.enrollments.Remove(c.Request.Context(), c.Param("id"), c.Param("studentId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ChangeGroup godoc
// @Summary Move a student to another group of the active period
// @Tags Enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param payload body service.ChangeGroupRequest true "Target group"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students/{id}/group [put]
func (h *EnrollmentHandler) ChangeGroup(c *gin.Context) {
	var req service.ChangeGroupRequest
	if !bindJSON(c, &req) {
		return
	}
	enrollment, err := h.enrollments.ChangeGroup(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}
