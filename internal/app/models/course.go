package models

import "time"

// Course represents a course taught by a faculty member
type Course struct {
	ID           int64      `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Code         string     `json:"code" db:"code"`
	Description  string     `json:"description" db:"description"`
	Credits      int        `json:"credits" db:"credits"`
	InstructorID int64      `json:"instructorId" db:"instructor_id"`
	Instructor   *User      `json:"instructor,omitempty"`
	Students     []User     `json:"students,omitempty"`
	Schedules    []Schedule `json:"schedules,omitempty"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// Schedule is a weekly meeting slot of a course
type Schedule struct {
	ID        int64  `json:"id" db:"id"`
	CourseID  int64  `json:"courseId" db:"course_id"`
	DayOfWeek string `json:"dayOfWeek" db:"day_of_week"`
	StartTime string `json:"startTime" db:"start_time"`
	EndTime   string `json:"endTime" db:"end_time"`
	Room      string `json:"room" db:"room"`
}

// CourseFilter narrows course listings. Zero values are ignored.
type CourseFilter struct {
	Search       string
	InstructorID int64
	StudentID    int64
}
