package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutoring-api/internal/models"
	"github.com/noah-isme/tutoring-api/internal/service"
	"github.com/noah-isme/tutoring-api/pkg/response"
)

type subjectAssignmentService interface {
	Assign(ctx context.Context, studentID string, req service.AssignSubjectsRequest) (*models.AssignSubjectsResult, error)
	List(ctx context.Context, scope models.Scope, filter models.SubjectAssignmentFilter) ([]models.SubjectAssignment, error)
	UpdateGrade(ctx context.Context, scope models.Scope, studentID, assignmentID string, req service.GradeRequest) (*models.SubjectAssignment, error)
	Delete(ctx context.Context, studentID, assignmentID string) error
}

// SubjectAssignmentHandler exposes the subjects taken by a student.
type SubjectAssignmentHandler struct {
	assignments subjectAssignmentService
}

// NewSubjectAssignmentHandler constructs SubjectAssignmentHandler.
func NewSubjectAssignmentHandler(assignments subjectAssignmentService) *SubjectAssignmentHandler {
	return &SubjectAssignmentHandler{assignments: assignments}
}

// Assign godoc
// @Summary Assign subjects to a student for the active period
// @Description Subjects already assigned are skipped
// @Tags Subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param payload body service.AssignSubjectsRequest true "Subjects"
// @Success 201 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /students/{id}/subjects [post]
func (h *SubjectAssignmentHandler) Assign(c *gin.Context) {
	var req service.AssignSubjectsRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.assignments.Assign(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// List godoc
// @Summary List the subjects of a student
// @Tags Subjects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param period_id query string false "Period"
// @Param semester query int false "Semester"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/subjects [get]
func (h *SubjectAssignmentHandler) List(c *gin.Context) {
	semester, err := intQuery(c, "semester")
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.assignments.List(c.Request.Context(), scopeFromContext(c), models.SubjectAssignmentFilter{
		StudentID: c.Param("id"),
		PeriodID:  c.Query("period_id"),
		Semester:  semester,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// UpdateGrade godoc
// @Summary Record or clear a subject grade
// @Tags Subjects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param assignmentId path string true "Assignment ID"
// @Param payload body service.GradeRequest true "Grade"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/subjects/{assignmentId}/grade [put]
func (h *SubjectAssignmentHandler) UpdateGrade(c *gin.Context) {
	var req service.GradeRequest
	if !bindJSON(c, &req) {
		return
	}
	assignment, err := h.assignments.UpdateGrade(c.Request.Context(), scopeFromContext(c), c.Param("id"), c.Param("assignmentId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment, nil)
}

// Delete godoc
// @Summary Remove a subject from a student
// @Tags Subjects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param assignmentId path string true "Assignment ID"
// @Success 204 {object} response.Envelope
// @Router /students/{id}/subjects/{assignmentId} [delete]
func (h *SubjectAssignmentHandler) Delete(c *gin.Context) {
	if err := h.assignments.Delete(c.Request.Context(), c.Param("id"), c.Param("assignmentId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
