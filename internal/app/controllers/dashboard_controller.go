package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/greenfield/internal/app/models/dto"
	"github.com/yigit/greenfield/internal/app/services"
	"github.com/yigit/greenfield/internal/middleware"
)

// DashboardController serves the role landing pages
type DashboardController struct {
	dashboardService *services.DashboardService
	logger           zerolog.Logger
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(dashboardService *services.DashboardService, logger zerolog.Logger) *DashboardController {
	return &DashboardController{dashboardService: dashboardService, logger: logger}
}

// Admin returns the admin dashboard
// @Summary Admin dashboard
// @Tags dashboards
// @Produce json
// @Success 200 {object} dto.StructuredResponse{data=dto.AdminDashboard} "Dashboard"
// @Failure 302 "Redirect to login without a session"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Security CookieAuth
// @Router /portal/admin/dashboard [get]
func (c *DashboardController) Admin(ctx *gin.Context) {
	data, err := c.dashboardService.Admin(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(data, "Admin dashboard"))
}

// Faculty returns the faculty dashboard
// @Summary Faculty dashboard
// @Tags dashboards
// @Produce json
// @Success 200 {object} dto.StructuredResponse{data=dto.FacultyDashboard} "Dashboard"
// @Failure 403 {object} dto.ErrorResponse "Faculty only"
// @Security CookieAuth
// @Router /portal/faculty/dashboard [get]
func (c *DashboardController) Faculty(ctx *gin.Context) {
	principal, ok := sessionPrincipal(ctx)
	if !ok {
		return
	}
	data, err := c.dashboardService.Faculty(ctx.Request.Context(), principal.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(data, "Faculty dashboard"))
}

// Student returns the student dashboard
// @Summary Student dashboard
// @Tags dashboards
// @Produce json
// @Success 200 {object} dto.StructuredResponse{data=dto.StudentDashboard} "Dashboard"
// @Failure 403 {object} dto.ErrorResponse "Student only"
// @Security CookieAuth
// @Router /portal/student/dashboard [get]
func (c *DashboardController) Student(ctx *gin.Context) {
	principal, ok := sessionPrincipal(ctx)
	if !ok {
		return
	}
	data, err := c.dashboardService.Student(ctx.Request.Context(), principal.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(data, "Student dashboard"))
}
