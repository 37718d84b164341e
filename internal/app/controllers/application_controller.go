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

// ApplicationController handles admissions applications
type ApplicationController struct {
	appService *services.ApplicationService
	logger     zerolog.Logger
}

// NewApplicationController creates a new ApplicationController
func NewApplicationController(appService *services.ApplicationService, logger zerolog.Logger) *ApplicationController {
	return &ApplicationController{
		appService: appService,
		logger:     logger,
	}
}

// SubmitApplication receives the completed application form
// @Summary Submit application
// @Description Stores the complete application in one request. Numeric fields accept numbers or numeric strings. Test scores that do not apply to the application type are discarded.
// @Tags applications
// @Accept json
// @Produce json
// @Param request body dto.CreateApplicationRequest true "Application"
// @Success 201 {object} dto.StructuredResponse{data=models.Application} "Application submitted"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /applications [post]
func (c *ApplicationController) SubmitApplication(ctx *gin.Context) {
	var req dto.CreateApplicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid application payload")
		middleware.HandleValidationError(ctx, err)
		return
	}
	app, err := c.appService.Submit(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(dto.PublicApplication(app), "Application submitted successfully"))
}

// ListApplicationsByEmail lets an applicant look up their applications.
// Document paths are not included.
// @Summary Find applications by email
// @Tags applications
// @Produce json
// @Param email query string true "Applicant email"
// @Success 200 {object} dto.StructuredResponse{data=[]models.Application} "Applications"
// @Failure 400 {object} dto.ErrorResponse "Email is required"
// @Router /applications [get]
func (c *ApplicationController) ListApplicationsByEmail(ctx *gin.Context) {
	apps, err := c.appService.ListByEmail(ctx.Request.Context(), ctx.Query("email"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.PublicApplications(apps), "Applications retrieved successfully"))
}

// UploadDocument attaches a file to a declared application document
// @Summary Upload application document
// @Tags applications
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Application ID"
// @Param email formData string true "Applicant email"
// @Param type formData string true "Document type"
// @Param file formData file true "Document"
// @Success 200 {object} dto.StructuredResponse{data=models.Application} "Document uploaded"
// @Failure 400 {object} dto.ErrorResponse "Missing file or unknown document type"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /applications/{id}/documents [post]
func (c *ApplicationController) UploadDocument(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "application")
	if !ok {
		return
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "File is required").WithField("file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	app, err := c.appService.UploadDocument(ctx.Request.Context(), id, ctx.PostForm("email"), ctx.PostForm("type"), file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.PublicApplication(app), "Document uploaded successfully"))
}

// ListApplications lists applications for review
// @Summary List applications
// @Tags applications
// @Produce json
// @Param status query string false "Status filter"
// @Param type query string false "Type filter"
// @Success 200 {object} dto.StructuredResponse{data=[]models.Application} "Applications"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Security CookieAuth
// @Router /admin/applications [get]
func (c *ApplicationController) ListApplications(ctx *gin.Context) {
	var filter dto.ApplicationFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}
	apps, err := c.appService.List(ctx.Request.Context(), models.ApplicationFilter{
		Status: models.ApplicationStatus(strings.ToUpper(filter.Status)),
		Type:   models.ApplicationType(strings.ToUpper(filter.Type)),
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(apps, "Applications retrieved successfully"))
}

// UpdateApplicationStatus moves an application through review
// @Summary Update application status
// @Tags applications
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param request body dto.UpdateApplicationStatusRequest true "New status"
// @Success 200 {object} dto.StructuredResponse{data=models.Application} "Status updated"
// @Failure 400 {object} dto.ErrorResponse "Transition not allowed"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Security CookieAuth
// @Router /applications/{id}/status [patch]
func (c *ApplicationController) UpdateApplicationStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "application")
	if !ok {
		return
	}
	var req dto.UpdateApplicationStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}
	app, err := c.appService.UpdateStatus(ctx.Request.Context(), id, models.ApplicationStatus(strings.ToUpper(req.Status)))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(app, "Application status updated successfully"))
}
