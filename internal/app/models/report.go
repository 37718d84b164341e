package models

import "time"

// ReportType identifies which metrics a report carries
type ReportType string

const (
	ReportEnrollmentSummary   ReportType = "ENROLLMENT_SUMMARY"
	ReportAcademicPerformance ReportType = "ACADEMIC_PERFORMANCE"
	ReportAttendanceSummary   ReportType = "ATTENDANCE_SUMMARY"
	ReportFacultyWorkload     ReportType = "FACULTY_WORKLOAD"
	ReportCourseAnalytics     ReportType = "COURSE_ANALYTICS"
	ReportSystemUsage         ReportType = "SYSTEM_USAGE"
)

// IsValid reports whether t is a known report type.
func (t ReportType) IsValid() bool {
	switch t {
	case ReportEnrollmentSummary, ReportAcademicPerformance, ReportAttendanceSummary,
		ReportFacultyWorkload, ReportCourseAnalytics, ReportSystemUsage:
		return true
	}
	return false
}

// ReportStatusGenerated is the only status a stored report can have.
const ReportStatusGenerated = "GENERATED"

// Report is a generated admin report
type Report struct {
	ID          int64          `json:"id" db:"id"`
	Title       string         `json:"title" db:"title"`
	Type        ReportType     `json:"type" db:"type"`
	Period      string         `json:"period" db:"period"`
	Data        map[string]any `json:"data" db:"data"`
	Status      string         `json:"status" db:"status"`
	CreatedBy   int64          `json:"createdBy" db:"created_by"`
	CreatorName string         `json:"creatorName,omitempty"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
}

// ReportFilter narrows report listings. Zero values are ignored.
type ReportFilter struct {
	Type   ReportType
	Period string
}
