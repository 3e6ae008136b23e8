package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutoring-api/internal/models"
	"github.com/noah-isme/tutoring-api/pkg/export"
	"github.com/noah-isme/tutoring-api/pkg/response"
)

type reportService interface {
	ReferralReport(ctx context.Context, scope models.Scope, filter models.ReferralFilter, rawFormat string) (*export.Document, error)
	GroupRoster(ctx context.Context, scope models.Scope, groupID, rawFormat string) (*export.Document, error)
}

// ReportHandler streams rendered reports.
type ReportHandler struct {
	reports reportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// ReferralReport godoc
// @Summary Download the referral report
// @Tags Reports
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce text/csv
// @Security BearerAuth
// @Param format query string false "pdf, xlsx or csv" default(pdf)
// @Param status query string false "Status"
// @Param area query string false "Target area"
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /referrals/report [get]
func (h *ReportHandler) ReferralReport(c *gin.Context) {
	filter, err := referralFilterFromQuery(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	doc, err := h.reports.ReferralReport(c.Request.Context(), scopeFromContext(c), filter, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	sendDocument(c, doc)
}

// GroupRoster godoc
// @Summary Download the roster of a group
// @Tags Reports
// @Produce application/pdf
// @Produce text/csv
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param format query string false "pdf, xlsx or csv" default(pdf)
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /groups/{id}/roster [get]
func (h *ReportHandler) GroupRoster(c *gin.Context) {
	doc, err := h.reports.GroupRoster(c.Request.Context(), scopeFromContext(c), c.Param("id"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	sendDocument(c, doc)
}
