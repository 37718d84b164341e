// Package services holds the portal's business logic:
//   - AuthService: login, logout and session verification
//   - UserService: account administration and role ID assignment
//   - CourseService: courses, instructors, enrollment and schedules
//   - CourseworkService: assignments, announcements, submissions and grades
//   - ReportService: admin report generation
//   - ApplicationService: admissions applications and their documents
//   - DashboardService: role landing pages
//   - ContactService: public contact form
package services
