package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/app/models/dto"
	"github.com/yigit/greenfield/internal/app/services"
	"github.com/yigit/greenfield/internal/middleware"
)

// ReportController handles admin reports
type ReportController struct {
	reportService *services.ReportService
	logger        zerolog.Logger
}

// NewReportController creates a new ReportController
func NewReportController(reportService *services.ReportService, logger zerolog.Logger) *ReportController {
	return &ReportController{
		reportService: reportService,
		logger:        logger,
	}
}

// ListReports lists generated reports
// @Summary List reports
// @Description Lists reports newest first with the name of their creator
// @Tags reports
// @Produce json
// @Param type query string false "Report type"
// @Param period query string false "Report period"
// @Success 200 {object} dto.StructuredResponse{data=[]models.Report} "Reports"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Security CookieAuth
// @Router /reports [get]
func (c *ReportController) ListReports(ctx *gin.Context) {
	var filter dto.ReportFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}
	reports, err := c.reportService.ListReports(ctx.Request.Context(), models.ReportFilter{
		Type:   models.ReportType(strings.ToUpper(filter.Type)),
		Period: filter.Period,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(reports, "Reports retrieved successfully"))
}

// CreateReport generates and stores a report
// @Summary Generate report
// @Tags reports
// @Accept json
// @Produce json
// @Param request body dto.CreateReportRequest true "Report parameters"
// @Success 201 {object} dto.StructuredResponse{data=models.Report} "Report generated"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Security CookieAuth
// @Router /reports [post]
func (c *ReportController) CreateReport(ctx *gin.Context) {
	principal, ok := sessionPrincipal(ctx)
	if !ok {
		return
	}
	var req dto.CreateReportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}
	report, err := c.reportService.GenerateReport(ctx.Request.Context(), req, principal.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(report, "Report generated successfully"))
}

// DeleteReport removes a report
// @Summary Delete report
// @Tags reports
// @Param id path int true "Report ID"
// @Success 204 "Report deleted"
// @Failure 404 {object} dto.ErrorResponse "Report not found"
// @Security CookieAuth
// @Router /reports/{id} [delete]
func (c *ReportController) DeleteReport(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "report")
	if !ok {
		return
	}
	if err := c.reportService.DeleteReport(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}
