package dto

import (
	"github.com/yigit/greenfield/internal/app/models"
)

// CreateCourseRequest represents a new course
type CreateCourseRequest struct {
	Name         string `json:"name" binding:"required,max=200" example:"Calculus II"`
	Code         string `json:"code" binding:"required,max=20" example:"MATH201"`
	Description  string `json:"description" example:"Integration techniques and series"`
	Credits      int    `json:"credits" binding:"omitempty,min=0,max=12" example:"4"`
	InstructorID int64  `json:"instructorId" binding:"required,min=1" example:"3"`
}

// UpdateCourseRequest carries only the fields being changed
type UpdateCourseRequest struct {
	Name         *string `json:"name,omitempty" binding:"omitempty,min=1,max=200"`
	Code         *string `json:"code,omitempty" binding:"omitempty,min=1,max=20"`
	Description  *string `json:"description,omitempty"`
	Credits      *int    `json:"credits,omitempty" binding:"omitempty,min=0,max=12"`
	InstructorID *int64  `json:"instructorId,omitempty" binding:"omitempty,min=1"`
}

// AssignInstructorRequest changes the faculty member teaching a course
type AssignInstructorRequest struct {
	InstructorID int64 `json:"instructorId" binding:"required,min=1" example:"4"`
}

// EnrollStudentRequest adds a student to a course roster
type EnrollStudentRequest struct {
	StudentID int64 `json:"studentId" binding:"required,min=1" example:"8"`
}

// CreateScheduleRequest adds a weekly meeting slot
type CreateScheduleRequest struct {
	DayOfWeek string `json:"dayOfWeek" binding:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY" example:"MONDAY"`
	StartTime string `json:"startTime" binding:"required,datetime=15:04" example:"09:00"`
	EndTime   string `json:"endTime" binding:"required,datetime=15:04" example:"10:30"`
	Room      string `json:"room" binding:"max=50" example:"SCI-204"`
}

// CourseFilterRequest represents course filtering parameters
type CourseFilterRequest struct {
	Search       string `form:"search"`
	InstructorID int64  `form:"instructorId" binding:"omitempty,min=1"`
}

// CourseSummary is the short form used in lists
type CourseSummary struct {
	ID           int64  `json:"id" example:"1"`
	Name         string `json:"name" example:"Calculus II"`
	Code         string `json:"code" example:"MATH201"`
	Credits      int    `json:"credits" example:"4"`
	StudentCount int    `json:"studentCount" example:"24"`
}

// NewCourseSummary converts c.
func NewCourseSummary(c *models.Course) CourseSummary {
	return CourseSummary{ID: c.ID, Name: c.Name, Code: c.Code, Credits: c.Credits, StudentCount: len(c.Students)}
}

// CourseResponse is a course with its instructor, roster and schedule
type CourseResponse struct {
	ID           int64             `json:"id" example:"1"`
	Name         string            `json:"name" example:"Calculus II"`
	Code         string            `json:"code" example:"MATH201"`
	Description  string            `json:"description"`
	Credits      int               `json:"credits" example:"4"`
	Instructor   *UserSummary      `json:"instructor,omitempty"`
	Students     []UserSummary     `json:"students"`
	StudentCount int               `json:"studentCount" example:"24"`
	Schedules    []models.Schedule `json:"schedules"`
}

// NewCourseResponse converts c.
func NewCourseResponse(c *models.Course) CourseResponse {
	students := make([]UserSummary, 0, len(c.Students))
	for i := range c.Students {
		students = append(students, *NewUserSummary(&c.Students[i]))
	}
	schedules := c.Schedules
	if schedules == nil {
		schedules = []models.Schedule{}
	}
	return CourseResponse{
		ID:           c.ID,
		Name:         c.Name,
		Code:         c.Code,
		Description:  c.Description,
		Credits:      c.Credits,
		Instructor:   NewUserSummary(c.Instructor),
		Students:     students,
		StudentCount: len(students),
		Schedules:    schedules,
	}
}

// NewCourseResponses converts a slice.
func NewCourseResponses(courses []models.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for i := range courses {
		out = append(out, NewCourseResponse(&courses[i]))
	}
	return out
}
