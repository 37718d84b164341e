package models

import "time"

// Assignment is a piece of coursework with a due date
type Assignment struct {
	ID          int64     `json:"id" db:"id"`
	CourseID    int64     `json:"courseId" db:"course_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	DueDate     time.Time `json:"dueDate" db:"due_date"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Submission is a student's answer to an assignment. One per student.
type Submission struct {
	ID           int64     `json:"id" db:"id"`
	AssignmentID int64     `json:"assignmentId" db:"assignment_id"`
	StudentID    int64     `json:"studentId" db:"student_id"`
	Content      string    `json:"content" db:"content"`
	SubmittedAt  time.Time `json:"submittedAt" db:"submitted_at"`
}

// Grade is the score a student received for an assignment
type Grade struct {
	ID              int64     `json:"id" db:"id"`
	AssignmentID    int64     `json:"assignmentId" db:"assignment_id"`
	AssignmentTitle string    `json:"assignmentTitle,omitempty"`
	CourseID        int64     `json:"courseId,omitempty"`
	StudentID       int64     `json:"studentId" db:"student_id"`
	Score           float64   `json:"score" db:"score"`
	Feedback        string    `json:"feedback" db:"feedback"`
	GradedBy        int64     `json:"gradedBy" db:"graded_by"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// Announcement is a message posted to a course
type Announcement struct {
	ID         int64     `json:"id" db:"id"`
	CourseID   int64     `json:"courseId" db:"course_id"`
	AuthorID   int64     `json:"authorId" db:"author_id"`
	AuthorName string    `json:"authorName,omitempty"`
	Title      string    `json:"title" db:"title"`
	Content    string    `json:"content" db:"content"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
