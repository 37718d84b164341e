package dto

import (
	"github.com/yigit/greenfield/internal/app/models"
)

// AdminDashboard aggregates portal-wide counts
type AdminDashboard struct {
	UsersByRole          map[models.Role]int64              `json:"usersByRole"`
	ActiveUsers          int64                              `json:"activeUsers" example:"11"`
	InactiveUsers        int64                              `json:"inactiveUsers" example:"1"`
	Courses              int64                              `json:"courses" example:"5"`
	ApplicationsByStatus map[models.ApplicationStatus]int64 `json:"applicationsByStatus"`
	RecentReports        []models.Report                    `json:"recentReports"`
}

// FacultyDashboard is the landing view of a faculty member
type FacultyDashboard struct {
	Courses             []CourseSummary       `json:"courses"`
	UpcomingAssignments []models.Assignment   `json:"upcomingAssignments"`
	RecentAnnouncements []models.Announcement `json:"recentAnnouncements"`
}

// StudentDashboard is the landing view of a student
type StudentDashboard struct {
	Courses             []CourseSummary       `json:"courses"`
	UpcomingAssignments []models.Assignment   `json:"upcomingAssignments"`
	RecentGrades        []models.Grade        `json:"recentGrades"`
	Announcements       []models.Announcement `json:"announcements"`
}
