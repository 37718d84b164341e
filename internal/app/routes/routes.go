package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/greenfield/internal/app/controllers"
	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth        *controllers.AuthController
	User        *controllers.UserController
	Course      *controllers.CourseController
	Coursework  *controllers.CourseworkController
	Report      *controllers.ReportController
	Application *controllers.ApplicationController
	Contact     *controllers.ContactController
	Dashboard   *controllers.DashboardController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrl Controllers, authMiddleware *middleware.AuthMiddleware) {
	api := router.Group("/api")

	adminOnly := middleware.RoleRequired(models.RoleAdmin)
	facultyOnly := middleware.RoleRequired(models.RoleFaculty)
	studentOnly := middleware.RoleRequired(models.RoleStudent)

	// --- Public routes ---
	auth := api.Group("/auth")
	{
		auth.POST("/login", ctrl.Auth.Login)
		auth.POST("/logout", ctrl.Auth.Logout)
		auth.GET("/logout", ctrl.Auth.Logout)
	}
	api.POST("/applications", ctrl.Application.SubmitApplication)
	api.GET("/applications", ctrl.Application.ListApplicationsByEmail)
	api.POST("/applications/:id/documents", ctrl.Application.UploadDocument)
	api.POST("/contact", ctrl.Contact.SendMessage)

	// --- Session routes ---
	session := api.Group("")
	session.Use(authMiddleware.SessionGuard())
	{
		session.GET("/auth/me", ctrl.Auth.Me)

		users := session.Group("/users", adminOnly)
		{
			users.GET("", ctrl.User.ListUsers)
			users.POST("", ctrl.User.CreateUser)
			users.GET("/faculty", ctrl.User.ListFaculty)
			users.GET("/:id", ctrl.User.GetUser)
			users.PUT("/:id", ctrl.User.UpdateUser)
			users.PATCH("/:id/status", ctrl.User.UpdateUserStatus)
			users.DELETE("/:id", ctrl.User.DeleteUser)
		}

		courses := session.Group("/courses")
		{
			courses.GET("", ctrl.Course.ListCourses)
			courses.GET("/:id", ctrl.Course.GetCourse)
			courses.POST("", adminOnly, ctrl.Course.CreateCourse)
			courses.PUT("/:id", adminOnly, ctrl.Course.UpdateCourse)
			courses.PATCH("/:id/instructor", adminOnly, ctrl.Course.AssignInstructor)
			courses.DELETE("/:id", adminOnly, ctrl.Course.DeleteCourse)
			courses.POST("/:id/students", adminOnly, ctrl.Course.EnrollStudent)
			courses.DELETE("/:id/students/:studentId", adminOnly, ctrl.Course.UnenrollStudent)
			courses.POST("/:id/schedules", adminOnly, ctrl.Course.AddSchedule)

			// Instructor and enrollment checks happen per course in the service.
			courses.GET("/:id/assignments", ctrl.Coursework.ListAssignments)
			courses.POST("/:id/assignments", ctrl.Coursework.CreateAssignment)
			courses.GET("/:id/announcements", ctrl.Coursework.ListAnnouncements)
			courses.POST("/:id/announcements", ctrl.Coursework.CreateAnnouncement)
		}

		assignments := session.Group("/assignments")
		{
			assignments.PUT("/:id", ctrl.Coursework.UpdateAssignment)
			assignments.DELETE("/:id", ctrl.Coursework.DeleteAssignment)
			assignments.POST("/:id/submissions", studentOnly, ctrl.Coursework.SubmitAssignment)
			assignments.PUT("/:id/grades", ctrl.Coursework.GradeSubmission)
			assignments.GET("/:id/grades", ctrl.Coursework.ListGrades)
		}
		session.DELETE("/announcements/:id", ctrl.Coursework.DeleteAnnouncement)

		session.GET("/faculty/courses", facultyOnly, ctrl.Course.ListTaughtCourses)
		session.GET("/student/courses", studentOnly, ctrl.Course.ListEnrolledCourses)
		session.GET("/student/grades", studentOnly, ctrl.Coursework.MyGrades)

		reports := session.Group("/reports", adminOnly)
		{
			reports.GET("", ctrl.Report.ListReports)
			reports.POST("", ctrl.Report.CreateReport)
			reports.DELETE("/:id", ctrl.Report.DeleteReport)
		}

		session.GET("/admin/applications", adminOnly, ctrl.Application.ListApplications)
		session.PATCH("/applications/:id/status", adminOnly, ctrl.Application.UpdateApplicationStatus)
	}

	// --- Portal pages ---
	portal := router.Group("/portal")
	portal.Use(authMiddleware.SessionGuard())
	{
		portal.GET("/admin/dashboard", adminOnly, ctrl.Dashboard.Admin)
		portal.GET("/faculty/dashboard", facultyOnly, ctrl.Dashboard.Faculty)
		portal.GET("/student/dashboard", studentOnly, ctrl.Dashboard.Student)
	}
}
