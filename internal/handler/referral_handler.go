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

type referralService interface {
	Create(ctx context.Context, scope models.Scope, tutorID string, req service.CreateReferralRequest) (*models.ReferralDetail, error)
	List(ctx context.Context, scope models.Scope, filter models.ReferralFilter) ([]models.ReferralDetail, *models.Pagination, error)
	UpdateStatus(ctx context.Context, scope models.Scope, id string, req service.ReferralStatusRequest) (*models.ReferralDetail, error)
}

// ReferralHandler exposes referrals (canalizaciones).
type ReferralHandler struct {
	referrals referralService
}

// NewReferralHandler constructs ReferralHandler.
func NewReferralHandler(referrals referralService) *ReferralHandler {
	return &ReferralHandler{referrals: referrals}
}

// Create godoc
// @Summary Refer a student to a support area
// @Tags Referrals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body service.CreateReferralRequest true "Referral payload"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /referrals [post]
func (h *ReferralHandler) Create(c *gin.Context) {
	var req service.CreateReferralRequest
	if !bindJSON(c, &req) {
		return
	}
	referral, err := h.referrals.Create(c.Request.Context(), scopeFromContext(c), userIDFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, referral)
}

// List godoc
// @Summary List referrals of the active period
// @Tags Referrals
// @Produce json
// @Security BearerAuth
// @Param status query string false "pendiente, en_seguimiento or atendida"
// @Param area query string false "Target area"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /referrals [get]
func (h *ReferralHandler) List(c *gin.Context) {
	filter, err := referralFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	filter.Page, filter.PageSize = pageQuery(c)

	items, pagination, err := h.referrals.List(c.Request.Context(), scopeFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// UpdateStatus godoc
// @Summary Update the follow up state of a referral
// @Tags Referrals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Referral ID"
// @Param payload body service.ReferralStatusRequest true "Status"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /referrals/{id}/status [put]
func (h *ReferralHandler) UpdateStatus(c *gin.Context) {
	var req service.ReferralStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	referral, err := h.referrals.UpdateStatus(c.Request.Context(), scopeFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, referral, nil)
}

func referralFilterFromQuery(c *gin.Context) (models.ReferralFilter, error) {
	filter := models.ReferralFilter{
		Status: models.ReferralStatus(strings.TrimSpace(c.Query("status"))),
		Area:   strings.TrimSpace(c.Query("area")),
	}
	var err error
	if filter.From, err = dateQuery(c, "from"); err != nil {
		return filter, err
	}
	if filter.To, err = dateQuery(c, "to"); err != nil {
		return filter, err
	}
	return filter, nil
}
