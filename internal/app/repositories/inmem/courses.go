package inmem

import (
	"context"
	"sort"
	"strings"

	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
)

// CourseRepository is the in-memory ICourseRepository
type CourseRepository struct {
	s *Store
}

// hydrate must be called with the read lock held.
func (r *CourseRepository) hydrate(c *models.Course) models.Course {
	out := *c
	if u, ok := r.s.users[c.InstructorID]; ok {
		instructor := *u
		out.Instructor = &instructor
	}
	out.Students = []models.User{}
	for k := range r.s.enrollments {
		if k.courseID == c.ID {
			if u, ok := r.s.users[k.studentID]; ok {
				out.Students = append(out.Students, *u)
			}
		}
	}
	sort.Slice(out.Students, func(i, j int) bool {
		if out.Students[i].LastName != out.Students[j].LastName {
			return out.Students[i].LastName < out.Students[j].LastName
		}
		return out.Students[i].FirstName < out.Students[j].FirstName
	})
	out.Schedules = []models.Schedule{}
	for _, s := range r.s.schedules {
		if s.CourseID == c.ID {
			out.Schedules = append(out.Schedules, *s)
		}
	}
	sort.Slice(out.Schedules, func(i, j int) bool { return out.Schedules[i].ID < out.Schedules[j].ID })
	return out
}

// Create inserts a course enforcing a unique code and an existing instructor
func (r *CourseRepository) Create(_ context.Context, course *models.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, c := range r.s.courses {
		if c.Code == course.Code {
			return apperrors.ErrCourseCodeExists
		}
	}
	if _, ok := r.s.users[course.InstructorID]; !ok {
		return apperrors.ErrUserNotFound
	}
	now := r.s.now()
	course.ID = r.s.nextID()
	course.CreatedAt = now
	course.UpdatedAt = now
	stored := *course
	stored.Instructor, stored.Students, stored.Schedules = nil, nil, nil
	r.s.courses[course.ID] = &stored
	return nil
}

// GetByID retrieves a course with its instructor, roster and schedule
func (r *CourseRepository) GetByID(_ context.Context, id int64) (*models.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	out := r.hydrate(c)
	return &out, nil
}

// List returns courses matching filter ordered by code
func (r *CourseRepository) List(_ context.Context, filter models.CourseFilter) ([]models.Course, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.Course, 0)
	for _, c := range r.s.courses {
		if filter.InstructorID > 0 && c.InstructorID != filter.InstructorID {
			continue
		}
		if filter.StudentID > 0 {
			if _, ok := r.s.enrollments[enrollment{courseID: c.ID, studentID: filter.StudentID}]; !ok {
				continue
			}
		}
		if filter.Search != "" {
			q := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(c.Name), q) && !strings.Contains(strings.ToLower(c.Code), q) {
				continue
			}
		}
		out = append(out, r.hydrate(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// Update saves the editable fields of course
func (r *CourseRepository) Update(_ context.Context, course *models.Course) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.courses[course.ID]
	if !ok {
		return apperrors.ErrCourseNotFound
	}
	for id, c := range r.s.courses {
		if id != course.ID && c.Code == course.Code {
			return apperrors.ErrCourseCodeExists
		}
	}
	if _, ok := r.s.users[course.InstructorID]; !ok {
		return apperrors.ErrUserNotFound
	}
	stored.Name = course.Name
	stored.Code = course.Code
	stored.Description = course.Description
	stored.Credits = course.Credits
	stored.InstructorID = course.InstructorID
	stored.UpdatedAt = r.s.now()
	course.UpdatedAt = stored.UpdatedAt
	return nil
}

// Delete removes a course and cascades like the SQL schema
func (r *CourseRepository) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	for k := range r.s.enrollments {
		if k.courseID == id {
			delete(r.s.enrollments, k)
		}
	}
	for sid, s := range r.s.schedules {
		if s.CourseID == id {
			delete(r.s.schedules, sid)
		}
	}
	for aid, a := range r.s.assignments {
		if a.CourseID == id {
			r.s.deleteAssignmentLocked(aid)
		}
	}
	for aid, a := range r.s.announcements {
		if a.CourseID == id {
			delete(r.s.announcements, aid)
		}
	}
	delete(r.s.courses, id)
	return nil
}

// Count returns the number of courses
func (r *CourseRepository) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.courses)), nil
}

// AddStudent enrolls a student
func (r *CourseRepository) AddStudent(_ context.Context, courseID, studentID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.courses[courseID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	if _, ok := r.s.users[studentID]; !ok {
		return apperrors.ErrUserNotFound
	}
	key := enrollment{courseID: courseID, studentID: studentID}
	if _, ok := r.s.enrollments[key]; ok {
		return apperrors.ErrAlreadyEnrolled
	}
	r.s.enrollments[key] = r.s.now()
	return nil
}

// RemoveStudent drops a student from the roster
func (r *CourseRepository) RemoveStudent(_ context.Context, courseID, studentID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := enrollment{courseID: courseID, studentID: studentID}
	if _, ok := r.s.enrollments[key]; !ok {
		return apperrors.ErrNotEnrolled
	}
	delete(r.s.enrollments, key)
	return nil
}

// IsEnrolled reports whether the student is on the course roster
func (r *CourseRepository) IsEnrolled(_ context.Context, courseID, studentID int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.enrollments[enrollment{courseID: courseID, studentID: studentID}]
	return ok, nil
}

// AddSchedule inserts a weekly meeting slot
func (r *CourseRepository) AddSchedule(_ context.Context, s *models.Schedule) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.courses[s.CourseID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	s.ID = r.s.nextID()
	stored := *s
	r.s.schedules[s.ID] = &stored
	return nil
}
