package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/app/models/dto"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
	"github.com/yigit/greenfield/internal/pkg/events"
)

func TestReportService_GenerateReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.createUser(t, models.RoleAdmin, "Ada", "Min", "ada@greenfield.edu")
	f.reports.intN = func(int) int { return 0 }

	report, err := f.reports.GenerateReport(ctx, dto.CreateReportRequest{
		Title: " Spring enrollment ", Type: "enrollment_summary", Period: "2026-Q1",
	}, admin.ID)
	require.NoError(t, err)

	assert.Equal(t, "Spring enrollment", report.Title)
	assert.Equal(t, models.ReportEnrollmentSummary, report.Type)
	assert.Equal(t, models.ReportStatusGenerated, report.Status)
	assert.Equal(t, admin.ID, report.CreatedBy)
	assert.Equal(t, "Ada Min", report.CreatorName)
	assert.Equal(t, 500, report.Data["totalStudents"])
	trends := report.Data["trends"].(map[string]any)
	assert.Equal(t, -10.0, trends["percentageChange"])
	assert.Len(t, report.Data["byDepartment"], 5)

	assert.Equal(t, []string{events.ReportGenerated}, f.publisher.published())
}

func TestReportService_AcademicPerformanceRounding(t *testing.T) {
	f := newFixture(t)
	admin := f.createUser(t, models.RoleAdmin, "Ada", "Min", "ada@greenfield.edu")
	f.reports.intN = func(n int) int { return n - 1 }

	report, err := f.reports.GenerateReport(context.Background(), dto.CreateReportRequest{
		Title: "Performance", Type: "ACADEMIC_PERFORMANCE", Period: "2026",
	}, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.0, report.Data["averageGPA"])
}

func TestReportService_DataFromPortal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	s := newCourseSetup(t, f)

	workload, err := f.reports.GenerateReport(ctx, dto.CreateReportRequest{
		Title: "Load", Type: "FACULTY_WORKLOAD", Period: "2026",
	}, s.admin.ID)
	require.NoError(t, err)
	rows := workload.Data["faculty"].([]map[string]any)
	require.Len(t, rows, 2)
	byName := map[string]map[string]any{}
	for _, r := range rows {
		byName[r["name"].(string)] = r
	}
	assert.Equal(t, 1, byName["Robert Thompson"]["courses"])
	assert.Equal(t, 1, byName["Robert Thompson"]["students"])
	assert.Equal(t, 0, byName["Maria Rodriguez"]["courses"])

	usage, err := f.reports.GenerateReport(ctx, dto.CreateReportRequest{
		Title: "Usage", Type: "SYSTEM_USAGE", Period: "2026",
	}, s.admin.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), usage.Data["activeUsers"])
	assert.Equal(t, int64(1), usage.Data["courses"])

	other, err := f.reports.GenerateReport(ctx, dto.CreateReportRequest{
		Title: "Attendance", Type: "ATTENDANCE_SUMMARY", Period: "2026",
	}, s.admin.ID)
	require.NoError(t, err)
	assert.Empty(t, other.Data)

	list, err := f.reports.ListReports(ctx, models.ReportFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 3)

	list, err = f.reports.ListReports(ctx, models.ReportFilter{Type: models.ReportSystemUsage})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestReportService_InvalidAndDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.createUser(t, models.RoleAdmin, "Ada", "Min", "ada@greenfield.edu")

	_, err := f.reports.GenerateReport(ctx, dto.CreateReportRequest{Title: "x", Type: "GOSSIP", Period: "2026"}, admin.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	report, err := f.reports.GenerateReport(ctx, dto.CreateReportRequest{Title: "x", Type: "COURSE_ANALYTICS", Period: "2026"}, admin.ID)
	require.NoError(t, err)
	require.NoError(t, f.reports.DeleteReport(ctx, report.ID))
	assert.ErrorIs(t, f.reports.DeleteReport(ctx, report.ID), apperrors.ErrReportNotFound)
}
