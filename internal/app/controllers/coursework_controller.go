package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/greenfield/internal/app/models/dto"
	"github.com/yigit/greenfield/internal/app/services"
	"github.com/yigit/greenfield/internal/middleware"
)

// CourseworkController handles assignments, announcements, submissions and grades
type CourseworkController struct {
	workService *services.CourseworkService
	logger      zerolog.Logger
}

// NewCourseworkController creates a new CourseworkController
func NewCourseworkController(workService *services.CourseworkService, logger zerolog.Logger) *CourseworkController {
	return &CourseworkController{
		workService: workService,
		logger:      logger,
	}
}

// ListAssignments lists the assignments of a course
// @Summary List assignments
// @Description Lists assignments of a course ordered by due date. Available to the instructor, admins and enrolled students.
// @Tags coursework
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.StructuredResponse{data=[]models.Assignment} "Assignments"
// @Failure 403 {object} dto.ErrorResponse "Not allowed to read this course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Security CookieAuth
// @Router /courses/{id}/assignments [get]
func (c *CourseworkController) ListAssignments(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id", "course")
	if !ok {
		return
	}
	principal, ok := sessionPrincipal(ctx)
	if !ok {
		return
	}
	assignments, err := c.workService.ListAssignments(ctx.Request.Context(), courseID, principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(assignments, "Assignments retrieved successfully"))
}

// CreateAssignment adds an assignment to a course
// @Summary Create assignment
// @Tags coursework
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body dto.CreateAssignmentRequest true "New assignment"
// @Success 201 {object} dto.StructuredResponse{data=models.Assignment} "Assignment created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Not the course instructor"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Security CookieAuth
// @Router /courses/{id}/assignments [post]
func (c *CourseworkController) CreateAssignment(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id", "course")
	if !ok {
		return
	}
	principal, ok := sessionPrincipal(ctx)
	if !ok {
		return
	}
	var req dto.CreateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}
	assignment, err := c.workService.CreateAssignment(ctx.Request.Context(), courseID, req, principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(assignment, "Assignment created successfully"))
}

// UpdateAssignment changes an assignment
// @Summary Update assignment
// @Tags coursework
// @Accept json
// @Produce json
// @Param id path int true "Assignment ID"
// @Param request body dto.UpdateAssignmentRequest true "Changed fields"
// @Success 200 {object} dto.StructuredResponse{data=models.Assignment} "Assignment updated"
// @Failure 403 {object} dto.ErrorResponse "Not the course instructor"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Security CookieAuth
// @Router /assignments/{id} [put]
func (c *CourseworkController) UpdateAssignment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "assignment")
	if !ok {
		return
	}
	principal, ok := sessionPrincipal(ctx)
	if !ok {
		return
	}
	var req dto.UpdateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}
	assignment, err := c.workService.UpdateAssignment(ctx.Request.Context(), id, req, principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(assignment, "Assignment updated successfully"))
}

// DeleteAssignment removes an assignment with its submissions and grades
// @Summary Delete assignment
// @Tags coursework
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.StructuredResponse "Assignment deleted"
// @Failure 403 {object} dto.ErrorResponse "Not the course instructor"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Security CookieAuth
// @Router /assignments/{id} [delete]
func (c *CourseworkController) DeleteAssignment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "assignment")
	if !ok {
		return
	}
	principal, ok := sessionPrincipal(ctx)
	if !ok {
		return
	}
	if err := c.workService.DeleteAssignment(ctx.Request.Context(), id, principal); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Assignment deleted successfully"))
}

// ListAnnouncements lists the announcements of a course
// @Summary List announcements
// @Tags coursework
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.StructuredResponse{data=[]models.Announcement} "Announcements"
// @Failure 403 {object} dto.ErrorResponse "Not allowed to read this course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Security CookieAuth
// @Router /courses/{id}/announcements [get]
func (c *CourseworkController) ListAnnouncements(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id", "course")
	if !ok {
		return
	}
	principal, ok := sessionPrincipal(ctx)
	if !ok {
		return
	}
	announcements, err := c.workService.ListAnnouncements(ctx.Request.Context(), courseID, principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(announcements, "Announcements retrieved successfully"))
}

// CreateAnnouncement posts an announcement to a course
// @Summary Create announcement
// @Tags coursework
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body dto.CreateAnnouncementRequest true "New announcement"
// @Success 201 {object} dto.StructuredResponse{data=models.Announcement} "Announcement created"
// @Failure 403 {object} dto.ErrorResponse "Not the course instructor"
// @Security CookieAuth
// @Router /courses/{id}/announcements [post]
func (c *CourseworkController) CreateAnnouncement(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id", "course")
	if !ok {
		return
	}
	principal, ok := sessionPrincipal(ctx)
	if !ok {
		return
	}
	var req dto.CreateAnnouncementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}
	announcement, err := c.workService.CreateAnnouncement(ctx.Request.Context(), courseID, req, principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(announcement, "Announcement created successfully"))
}

// DeleteAnnouncement removes an announcement
// @Summary Delete announcement
// @Tags coursework
// @Produce json
// @Param id path int true "Announcement ID"
// @Success 200 {object} dto.StructuredResponse "Announcement deleted"
// @Failure 404 {object} dto.ErrorResponse "Announcement not found"
// @Security CookieAuth
// @Router /announcements/{id} [delete]
func (c *CourseworkController) DeleteAnnouncement(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "announcement")
	if !ok {
		return
	}
	principal, ok := sessionPrincipal(ctx)
	if !ok {
		return
	}
	if err := c.workService.DeleteAnnouncement(ctx.Request.Context(), id, principal); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Announcement deleted successfully"))
}

// SubmitAssignment hands in an assignment
// @Summary Submit assignment
// @Description Students submit once per assignment and only for courses they are enrolled in
// @Tags coursework
// @Accept json
// @Produce json
// @Param id path int true "Assignment ID"
// @Param request body dto.SubmitAssignmentRequest true "Submission"
// @Success 201 {object} dto.StructuredResponse{data=models.Submission} "Submitted"
// @Failure 400 {object} dto.ErrorResponse "Already submitted"
// @Failure 403 {object} dto.ErrorResponse "Not enrolled"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Security CookieAuth
// @Router /assignments/{id}/submissions [post]
func (c *CourseworkController) SubmitAssignment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "assignment")
	if !ok {
		return
	}
	principal, ok := sessionPrincipal(ctx)
	if !ok {
		return
	}
	var req dto.SubmitAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}
	submission, err := c.workService.SubmitAssignment(ctx.Request.Context(), id, req, principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(submission, "Assignment submitted successfully"))
}

// GradeSubmission records or replaces a student's grade
// @Summary Grade assignment
// @Tags coursework
// @Accept json
// @Produce json
// @Param id path int true "Assignment ID"
// @Param request body dto.GradeRequest true "Grade"
// @Success 200 {object} dto.StructuredResponse{data=models.Grade} "Graded"
// @Failure 400 {object} dto.ErrorResponse "Score out of range or student not enrolled"
// @Failure 403 {object} dto.ErrorResponse "Not the course instructor"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Security CookieAuth
// @Router /assignments/{id}/grades [put]
func (c *CourseworkController) GradeSubmission(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "assignment")
	if !ok {
		return
	}
	principal, ok := sessionPrincipal(ctx)
	if !ok {
		return
	}
	var req dto.GradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}
	grade, err := c.workService.GradeSubmission(ctx.Request.Context(), id, req, principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(grade, "Grade saved successfully"))
}

// ListGrades lists the grades of an assignment
// @Summary List assignment grades
// @Tags coursework
// @Produce json
// @Param id path int true "Assignment ID"
// @Success 200 {object} dto.StructuredResponse{data=[]models.Grade} "Grades"
// @Failure 403 {object} dto.ErrorResponse "Not the course instructor"
// @Security CookieAuth
// @Router /assignments/{id}/grades [get]
func (c *CourseworkController) ListGrades(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "assignment")
	if !ok {
		return
	}
	principal, ok := sessionPrincipal(ctx)
	if !ok {
		return
	}
	grades, err := c.workService.ListGrades(ctx.Request.Context(), id, principal)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(grades, "Grades retrieved successfully"))
}

// MyGrades lists the session student's grades
// @Summary My grades
// @Tags coursework
// @Produce json
// @Success 200 {object} dto.StructuredResponse{data=[]models.Grade} "Grades"
// @Failure 403 {object} dto.ErrorResponse "Student only"
// @Security CookieAuth
// @Router /student/grades [get]
func (c *CourseworkController) MyGrades(ctx *gin.Context) {
	principal, ok := sessionPrincipal(ctx)
	if !ok {
		return
	}
	grades, err := c.workService.StudentGrades(ctx.Request.Context(), principal.UserID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(grades, "Grades retrieved successfully"))
}
