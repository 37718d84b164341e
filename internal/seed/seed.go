// Package seed resets the database to a known demo state and makes sure an
// administrator account exists.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/app/models/dto"
	"github.com/yigit/greenfield/internal/app/repositories"
	"github.com/yigit/greenfield/internal/config"
	"github.com/yigit/greenfield/internal/db"
	"github.com/yigit/greenfield/internal/pkg/auth"
	"github.com/yigit/greenfield/internal/pkg/roleid"
)

// tables in delete order, children first
var tables = []string{
	"grades",
	"submissions",
	"assignments",
	"announcements",
	"schedules",
	"course_students",
	"courses",
	"reports",
	"applications",
	"users",
}

// Run wipes every table and loads the demo data set in one transaction.
func Run(ctx context.Context, pg *db.PostgresDB, logger zerolog.Logger, now time.Time) error {
	hash, err := auth.HashPassword(DefaultPassword)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	return pg.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, table := range tables {
			if _, err := tx.Exec(ctx, "DELETE FROM "+table); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		logger.Info().Int("tables", len(tables)).Msg("Cleared existing data")

		userRepo := repositories.NewUserRepository(pg).WithTx(tx)
		courseRepo := repositories.NewCourseRepository(tx)
		courseworkRepo := repositories.NewCourseworkRepository(tx)
		applicationRepo := repositories.NewApplicationRepository(tx)

		var faculty, students []models.User
		users, err := sampleUsers(roleid.Counters{}, now.Year(), hash)
		if err != nil {
			return fmt.Errorf("build users: %w", err)
		}
		for i := range users {
			u := &users[i]
			if err := userRepo.Create(ctx, u); err != nil {
				return fmt.Errorf("create user %s: %w", u.Email, err)
			}
			switch u.Role {
			case models.RoleFaculty:
				faculty = append(faculty, *u)
			case models.RoleStudent:
				students = append(students, *u)
			}
		}
		logger.Info().Int("users", len(users)).Msg("Created users")

		for i, template := range sampleCourses {
			course := template
			course.InstructorID = faculty[i%len(faculty)].ID
			if err := courseRepo.Create(ctx, &course); err != nil {
				return fmt.Errorf("create course %s: %w", course.Code, err)
			}

			for _, student := range students[:min(enrolledPerCourse, len(students))] {
				if err := courseRepo.AddStudent(ctx, course.ID, student.ID); err != nil {
					return fmt.Errorf("enroll %s in %s: %w", student.Email, course.Code, err)
				}
			}

			schedule := &models.Schedule{
				CourseID:  course.ID,
				DayOfWeek: "MONDAY",
				StartTime: "09:00",
				EndTime:   "10:30",
				Room:      sampleRoom(i),
			}
			if err := courseRepo.AddSchedule(ctx, schedule); err != nil {
				return fmt.Errorf("schedule %s: %w", course.Code, err)
			}

			assignment := &models.Assignment{
				CourseID:    course.ID,
				Title:       course.Code + " Midterm Project",
				Description: "Complete the midterm project for " + course.Name,
				DueDate:     now.AddDate(0, 0, 14),
			}
			if err := courseworkRepo.CreateAssignment(ctx, assignment); err != nil {
				return fmt.Errorf("create assignment for %s: %w", course.Code, err)
			}

			announcement := &models.Announcement{
				CourseID: course.ID,
				AuthorID: course.InstructorID,
				Title:    "Welcome to " + course.Code,
				Content:  "Welcome to " + course.Name + "! Please review the syllabus before our first meeting.",
			}
			if err := courseworkRepo.CreateAnnouncement(ctx, announcement); err != nil {
				return fmt.Errorf("create announcement for %s: %w", course.Code, err)
			}
		}
		logger.Info().Int("courses", len(sampleCourses)).Msg("Created courses")

		apps := sampleApplications()
		for i := range apps {
			if err := applicationRepo.Create(ctx, &apps[i]); err != nil {
				return fmt.Errorf("create application for %s: %w", apps[i].Email, err)
			}
		}
		logger.Info().Int("applications", len(apps)).Msg("Created applications")

		return nil
	})
}

// AdminCreator is the part of the user service needed to provision an admin
type AdminCreator interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*models.User, error)
	ListUsers(ctx context.Context, filter models.UserFilter, limit int, offset uint64) ([]models.User, int64, error)
}

// EnsureDefaultAdmin creates the configured admin account when no admin exists
// yet. It does nothing when no password is configured.
func EnsureDefaultAdmin(ctx context.Context, users AdminCreator, cfg config.DefaultAdminConfig, logger zerolog.Logger) error {
	if cfg.Password == "" {
		logger.Debug().Msg("No default admin password configured, skipping admin bootstrap")
		return nil
	}

	_, total, err := users.ListUsers(ctx, models.UserFilter{Role: models.RoleAdmin}, 1, 0)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if total > 0 {
		logger.Info().Int64("admins", total).Msg("Admin user already exists, skipping creation")
		return nil
	}

	admin, err := users.CreateUser(ctx, dto.CreateUserRequest{
		Email:     cfg.Email,
		Password:  cfg.Password,
		FirstName: cfg.FirstName,
		LastName:  cfg.LastName,
		Role:      string(models.RoleAdmin),
	})
	if err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}

	logger.Info().Int64("adminID", admin.ID).Str("roleId", admin.RoleID).Msg("Default admin user created")
	return nil
}
