package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutoring-api/internal/models"
	"github.com/noah-isme/tutoring-api/internal/service"
	"github.com/noah-isme/tutoring-api/pkg/response"
)

type alertService interface {
	Create(ctx context.Context, scope models.Scope, createdBy string, req service.CreateAlertRequest) (*models.Alert, error)
	ListByStudent(ctx context.Context, scope models.Scope, studentID string) ([]models.Alert, error)
	UpdateStatus(ctx context.Context, scope models.Scope, id string, req service.AlertStatusRequest) (*models.Alert, error)
}

// AlertHandler exposes student risk alerts.
type AlertHandler struct {
	alerts alertService
}

// NewAlertHandler constructs AlertHandler.
func NewAlertHandler(alerts alertService) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// Create godoc
// @Summary Raise an alert for a student
// @Tags Alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateAlertRequest true "Alert payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /alerts [post]
func (h *AlertHandler) Create(c *gin.Context) {
	var req service.CreateAlertRequest
	if !bindJSON(c, &req) {
		return
	}
	alert, err := h.alerts.Create(c.Request.Context(), scopeFromContext(c), userIDFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, alert)
}

// ListByStudent godoc
// @Summary List the alerts of a student
// @Tags Alerts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/alerts [get]
func (h *AlertHandler) ListByStudent(c *gin.Context) {
	alerts, err := h.alerts.ListByStudent(c.Request.Context(), scopeFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, alerts, nil)
}

// UpdateStatus godoc
// @Summary Move an alert to attended or closed
// @Tags Alerts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Alert ID"
// @Param payload body service.AlertStatusRequest true "Status"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /alerts/{id}/status [put]
func (h *AlertHandler) UpdateStatus(c *gin.Context) {
	var req service.AlertStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	alert, err := h.alerts.UpdateStatus(c.Request.Context(), scopeFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, alert, nil)
}
