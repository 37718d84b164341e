package dto

import "time"

// CreateAssignmentRequest represents new coursework
type CreateAssignmentRequest struct {
	Title       string    `json:"title" binding:"required,max=200" example:"Problem Set 3"`
	Description string    `json:"description" example:"Exercises 4.1 to 4.12"`
	DueDate     time.Time `json:"dueDate" binding:"required" example:"2026-03-01T23:59:00Z"`
}

// UpdateAssignmentRequest carries only the fields being changed
type UpdateAssignmentRequest struct {
	Title       *string    `json:"title,omitempty" binding:"omitempty,min=1,max=200"`
	Description *string    `json:"description,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// CreateAnnouncementRequest represents a course announcement
type CreateAnnouncementRequest struct {
	Title   string `json:"title" binding:"required,max=200" example:"Midterm moved"`
	Content string `json:"content" binding:"required" example:"The midterm is now on Friday."`
}

// SubmitAssignmentRequest is a student's answer
type SubmitAssignmentRequest struct {
	Content string `json:"content" binding:"required" example:"https://git.example.edu/ann/ps3"`
}

// GradeRequest records or replaces a student's score
type GradeRequest struct {
	StudentID int64    `json:"studentId" binding:"required,min=1" example:"8"`
	Score     *float64 `json:"score" binding:"required,min=0,max=100" example:"92.5"`
	Feedback  string   `json:"feedback" example:"Clear derivations"`
}
