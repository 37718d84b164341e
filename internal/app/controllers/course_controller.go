package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/app/models/dto"
	"github.com/yigit/greenfield/internal/app/services"
	"github.com/yigit/greenfield/internal/middleware"
)

// CourseController handles courses, enrollment and schedules
type CourseController struct {
	courseService *services.CourseService
	logger        zerolog.Logger
}

// NewCourseController creates a new CourseController
func NewCourseController(courseService *services.CourseService, logger zerolog.Logger) *CourseController {
	return &CourseController{
		courseService: courseService,
		logger:        logger,
	}
}

func (c *CourseController) respondCourses(ctx *gin.Context, filter models.CourseFilter) {
	courses, err := c.courseService.ListCourses(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.NewCourseResponses(courses), "Courses retrieved successfully"))
}

// ListCourses lists courses
// @Summary List courses
// @Description Lists courses with their instructor and students. The search matches name and code.
// @Tags courses
// @Produce json
// @Param search query string false "Substring search"
// @Param instructorId query int false "Instructor filter"
// @Success 200 {object} dto.StructuredResponse{data=[]dto.CourseResponse} "Courses"
// @Failure 401 {object} dto.ErrorResponse "Authentication required"
// @Security CookieAuth
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	var filter dto.CourseFilterRequest
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}
	c.respondCourses(ctx, models.CourseFilter{Search: filter.Search, InstructorID: filter.InstructorID})
}

// ListTaughtCourses lists the courses of the session's faculty member
// @Summary My taught courses
// @Tags courses
// @Produce json
// @Success 200 {object} dto.StructuredResponse{data=[]dto.CourseResponse} "Courses"
// @Failure 403 {object} dto.ErrorResponse "Faculty only"
// @Security CookieAuth
// @Router /faculty/courses [get]
func (c *CourseController) ListTaughtCourses(ctx *gin.Context) {
	principal, ok := sessionPrincipal(ctx)
	if !ok {
		return
	}
	c.respondCourses(ctx, models.CourseFilter{InstructorID: principal.UserID})
}

// ListEnrolledCourses lists the courses of the session's student
// @Summary My enrolled courses
// @Tags courses
// @Produce json
// @Success 200 {object} dto.StructuredResponse{data=[]dto.CourseResponse} "Courses"
// @Failure 403 {object} dto.ErrorResponse "Student only"
// @Security CookieAuth
// @Router /student/courses [get]
func (c *CourseController) ListEnrolledCourses(ctx *gin.Context) {
	principal, ok := sessionPrincipal(ctx)
	if !ok {
		return
	}
	c.respondCourses(ctx, models.CourseFilter{StudentID: principal.UserID})
}

// GetCourse returns one course
// @Summary Get course
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.StructuredResponse{data=dto.CourseResponse} "Course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Security CookieAuth
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "course")
	if !ok {
		return
	}
	course, err := c.courseService.GetCourse(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.NewCourseResponse(course), "Course retrieved successfully"))
}

// CreateCourse creates a course
// @Summary Create course
// @Tags courses
// @Accept json
// @Produce json
// @Param request body dto.CreateCourseRequest true "New course"
// @Success 201 {object} dto.StructuredResponse{data=dto.CourseResponse} "Course created"
// @Failure 400 {object} dto.ErrorResponse "Validation failed, instructor not faculty or duplicate code"
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Security CookieAuth
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}
	course, err := c.courseService.CreateCourse(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(dto.NewCourseResponse(course), "Course created successfully"))
}

// UpdateCourse changes course fields
// @Summary Update course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body dto.UpdateCourseRequest true "Changed fields"
// @Success 200 {object} dto.StructuredResponse{data=dto.CourseResponse} "Course updated"
// @Failure 400 {object} dto.ErrorResponse "Validation failed or duplicate code"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Security CookieAuth
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "course")
	if !ok {
		return
	}
	var req dto.UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}
	course, err := c.courseService.UpdateCourse(ctx.Request.Context(), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.NewCourseResponse(course), "Course updated successfully"))
}

// AssignInstructor replaces the course instructor
// @Summary Assign instructor
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body dto.AssignInstructorRequest true "Faculty member"
// @Success 200 {object} dto.StructuredResponse{data=dto.CourseResponse} "Instructor assigned"
// @Failure 400 {object} dto.ErrorResponse "User is not faculty"
// @Failure 404 {object} dto.ErrorResponse "Course or instructor not found"
// @Security CookieAuth
// @Router /courses/{id}/instructor [patch]
func (c *CourseController) AssignInstructor(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "course")
	if !ok {
		return
	}
	var req dto.AssignInstructorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}
	course, err := c.courseService.AssignInstructor(ctx.Request.Context(), id, req.InstructorID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.NewCourseResponse(course), "Instructor assigned successfully"))
}

// DeleteCourse removes a course with its coursework
// @Summary Delete course
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.StructuredResponse "Course deleted"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Security CookieAuth
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "course")
	if !ok {
		return
	}
	if err := c.courseService.DeleteCourse(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Course deleted successfully"))
}

// EnrollStudent adds a student to the course roster
// @Summary Enroll student
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body dto.EnrollStudentRequest true "Student"
// @Success 201 {object} dto.StructuredResponse{data=dto.CourseResponse} "Student enrolled"
// @Failure 400 {object} dto.ErrorResponse "Not a student or already enrolled"
// @Failure 404 {object} dto.ErrorResponse "Course or student not found"
// @Security CookieAuth
// @Router /courses/{id}/students [post]
func (c *CourseController) EnrollStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "course")
	if !ok {
		return
	}
	var req dto.EnrollStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}
	course, err := c.courseService.EnrollStudent(ctx.Request.Context(), id, req.StudentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(dto.NewCourseResponse(course), "Student enrolled successfully"))
}

// UnenrollStudent removes a student from the course roster
// @Summary Unenroll student
// @Tags courses
// @Produce json
// @Param id path int true "Course ID"
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.StructuredResponse "Student removed"
// @Failure 404 {object} dto.ErrorResponse "Student is not enrolled"
// @Security CookieAuth
// @Router /courses/{id}/students/{studentId} [delete]
func (c *CourseController) UnenrollStudent(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "course")
	if !ok {
		return
	}
	studentID, ok := parseIDParam(ctx, "studentId", "student")
	if !ok {
		return
	}
	if err := c.courseService.UnenrollStudent(ctx.Request.Context(), id, studentID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Student removed from course"))
}

// AddSchedule adds a weekly meeting slot
// @Summary Add schedule
// @Tags courses
// @Accept json
// @Produce json
// @Param id path int true "Course ID"
// @Param request body dto.CreateScheduleRequest true "Meeting slot"
// @Success 201 {object} dto.StructuredResponse{data=dto.CourseResponse} "Schedule added"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Security CookieAuth
// @Router /courses/{id}/schedules [post]
func (c *CourseController) AddSchedule(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "course")
	if !ok {
		return
	}
	var req dto.CreateScheduleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(ctx, err)
		return
	}
	course, err := c.courseService.AddSchedule(ctx.Request.Context(), id, req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(dto.NewCourseResponse(course), "Schedule added successfully"))
}
