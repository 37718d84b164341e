package dto

// CreateReportRequest asks for a report to be generated
type CreateReportRequest struct {
	Title  string `json:"title" binding:"required,max=200" example:"Q1 enrollment"`
	Type   string `json:"type" binding:"required,report_type" example:"ENROLLMENT_SUMMARY"`
	Period string `json:"period" binding:"required,max=20" example:"2026-Q1"`
}

// ReportFilterRequest represents report filtering parameters
type ReportFilterRequest struct {
	Type   string `form:"type" binding:"omitempty,report_type"`
	Period string `form:"period"`
}
