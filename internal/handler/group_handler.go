package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutoring-api/internal/models"
	"github.com/noah-isme/tutoring-api/internal/service"
	"github.com/noah-isme/tutoring-api/pkg/response"
)

type groupService interface {
	List(ctx context.Context, scope models.Scope, filter models.GroupFilter) ([]models.GroupDetail, error)
	Get(ctx context.Context, scope models.Scope, id string) (*models.Group, error)
	Create(ctx context.Context, req service.CreateGroupRequest) (*models.Group, error)
	Update(ctx context.Context, id string, req service.UpdateGroupRequest) (*models.Group, error)
	AssignTutor(ctx context.Context, id string, req service.AssignTutorRequest) (*models.Group, error)
	Delete(ctx context.Context, id string) error
}

// GroupHandler exposes group management and semester progression endpoints.
type GroupHandler struct {
	groups      groupService
	progression progressionService
}

// NewGroupHandler constructs GroupHandler.
func NewGroupHandler(groups groupService, progression progressionService) *GroupHandler {
	return &GroupHandler{groups: groups, progression: progression}
}

// List godoc
// @Summary List groups
// @Description Groups of the active period, or of period_id, with tutor name and head count
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param period_id query string false "Historical period"
// @Param program query string false "Program"
// @Param semester query int false "Semester"
// @Success 200 {object} response.Envelope
// @Router /groups [get]
func (h *GroupHandler) List(c *gin.Context) {
	semester, err := intQuery(c, "semester")
	if err != nil {
		response.Error(c, err)
		return
	}
	filter := models.GroupFilter{
		PeriodID: c.Query("period_id"),
		Program:  strings.TrimSpace(c.Query("program")),
		Semester: semester,
	}
	groups, err := h.groups.List(c.Request.Context(), scopeFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, groups, nil)
}

// Get godoc
// @Summary Get group
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /groups/{id} [get]
func (h *GroupHandler) Get(c *gin.Context) {
	group, err := h.groups.Get(c.Request.Context(), scopeFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, group, nil)
}

// Create godoc
// @Summary Create group in the active period
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateGroupRequest true "Group payload"
// @Success 201 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /groups [post]
func (h *GroupHandler) Create(c *gin.Context) {
	var req service.CreateGroupRequest
	if !bindJSON(c, &req) {
		return
	}
	group, err := h.groups.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, group)
}

// Update godoc
// @Summary Update group
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param payload body service.UpdateGroupRequest true "Group payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /groups/{id} [put]
func (h *GroupHandler) Update(c *gin.Context) {
	var req service.UpdateGroupRequest
	if !bindJSON(c, &req) {
		return
	}
	group, err := h.groups.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, group, nil)
}

// AssignTutor godoc
// @Summary Set or clear the tutor of a group
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param payload body service.AssignTutorRequest true "Tutor"
// @Success 200 {object} response.Envelope
// @Router /groups/{id}/tutor [put]
func (h *GroupHandler) AssignTutor(c *gin.Context) {
	var req service.AssignTutorRequest
	if !bindJSON(c, &req) {
		return
	}
	group, err := h.groups.AssignTutor(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, group, nil)
}

// Delete godoc
// @Summary Delete group
// @Description Groups with enrollments cannot be deleted
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 204 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /groups/{id} [delete]
func (h *GroupHandler) Delete(c *gin.Context) {
	if err := h.groups.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AdvanceSemester godoc
// @Summary Advance enrolled students one semester
// @Tags Groups
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /groups/advance-semester [post]
func (h *GroupHandler) AdvanceSemester(c *gin.Context) {
	advanced, err := h.progression.AdvanceSemesterForActivePeriod(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"advanced_count": advanced}, nil)
}

// Clone godoc
// @Summary Clone groups into another period
// @Description Clones keep tutor and capacity and move one semester ahead. Semester 12 groups are skipped.
// @Tags Groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CloneGroupsRequest true "Clone request"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /groups/clone [post]
func (h *GroupHandler) Clone(c *gin.Context) {
	var req service.CloneGroupsRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.progression.CloneGroupsToNewPeriod(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
