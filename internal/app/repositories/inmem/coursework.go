package inmem

import (
	"context"
	"sort"
	"time"

	"github.com/yigit/greenfield/internal/app/models"
	"github.com/yigit/greenfield/internal/pkg/apperrors"
)

// CourseworkRepository is the in-memory ICourseworkRepository
type CourseworkRepository struct {
	s *Store
}

// deleteAssignmentLocked removes an assignment with its submissions and grades.
func (s *Store) deleteAssignmentLocked(id int64) {
	for k := range s.submissions {
		if k.assignmentID == id {
			delete(s.submissions, k)
		}
	}
	for k := range s.grades {
		if k.assignmentID == id {
			delete(s.grades, k)
		}
	}
	delete(s.assignments, id)
}

func sortAssignments(list []models.Assignment) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].DueDate.Equal(list[j].DueDate) {
			return list[i].DueDate.Before(list[j].DueDate)
		}
		return list[i].ID < list[j].ID
	})
}

func idSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

// CreateAssignment inserts an assignment
func (r *CourseworkRepository) CreateAssignment(_ context.Context, a *models.Assignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.courses[a.CourseID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	now := r.s.now()
	a.ID = r.s.nextID()
	a.CreatedAt = now
	a.UpdatedAt = now
	stored := *a
	r.s.assignments[a.ID] = &stored
	return nil
}

// GetAssignment retrieves an assignment by ID
func (r *CourseworkRepository) GetAssignment(_ context.Context, id int64) (*models.Assignment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.assignments[id]
	if !ok {
		return nil, apperrors.ErrAssignmentNotFound
	}
	out := *a
	return &out, nil
}

// ListAssignments returns the assignments of a course by due date
func (r *CourseworkRepository) ListAssignments(_ context.Context, courseID int64) ([]models.Assignment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.Assignment, 0)
	for _, a := range r.s.assignments {
		if a.CourseID == courseID {
			out = append(out, *a)
		}
	}
	sortAssignments(out)
	return out, nil
}

// UpcomingAssignments returns assignments of courseIDs due after the given time
func (r *CourseworkRepository) UpcomingAssignments(_ context.Context, courseIDs []int64, after time.Time, limit int) ([]models.Assignment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	set := idSet(courseIDs)
	out := make([]models.Assignment, 0)
	for _, a := range r.s.assignments {
		if set[a.CourseID] && a.DueDate.After(after) {
			out = append(out, *a)
		}
	}
	sortAssignments(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UpdateAssignment saves the editable fields of an assignment
func (r *CourseworkRepository) UpdateAssignment(_ context.Context, a *models.Assignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.assignments[a.ID]
	if !ok {
		return apperrors.ErrAssignmentNotFound
	}
	stored.Title = a.Title
	stored.Description = a.Description
	stored.DueDate = a.DueDate
	stored.UpdatedAt = r.s.now()
	a.UpdatedAt = stored.UpdatedAt
	return nil
}

// DeleteAssignment removes an assignment with its submissions and grades
func (r *CourseworkRepository) DeleteAssignment(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.assignments[id]; !ok {
		return apperrors.ErrAssignmentNotFound
	}
	r.s.deleteAssignmentLocked(id)
	return nil
}

// CreateAnnouncement inserts an announcement
func (r *CourseworkRepository) CreateAnnouncement(_ context.Context, a *models.Announcement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.courses[a.CourseID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	a.ID = r.s.nextID()
	a.CreatedAt = r.s.now()
	if u, ok := r.s.users[a.AuthorID]; ok {
		a.AuthorName = u.FullName()
	}
	stored := *a
	r.s.announcements[a.ID] = &stored
	return nil
}

// GetAnnouncement retrieves an announcement by ID
func (r *CourseworkRepository) GetAnnouncement(_ context.Context, id int64) (*models.Announcement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	a, ok := r.s.announcements[id]
	if !ok {
		return nil, apperrors.ErrAnnouncementNotFound
	}
	out := *a
	return &out, nil
}

// ListAnnouncements returns announcements of courseIDs, newest first
func (r *CourseworkRepository) ListAnnouncements(_ context.Context, courseIDs []int64, limit int) ([]models.Announcement, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	set := idSet(courseIDs)
	out := make([]models.Announcement, 0)
	for _, a := range r.s.announcements {
		if set[a.CourseID] {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// DeleteAnnouncement removes an announcement
func (r *CourseworkRepository) DeleteAnnouncement(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.announcements[id]; !ok {
		return apperrors.ErrAnnouncementNotFound
	}
	delete(r.s.announcements, id)
	return nil
}

// CreateSubmission records a student's answer. One per student and assignment.
func (r *CourseworkRepository) CreateSubmission(_ context.Context, sub *models.Submission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.assignments[sub.AssignmentID]; !ok {
		return apperrors.ErrAssignmentNotFound
	}
	key := gradeKey{assignmentID: sub.AssignmentID, studentID: sub.StudentID}
	if _, ok := r.s.submissions[key]; ok {
		return apperrors.ErrAlreadySubmitted
	}
	sub.ID = r.s.nextID()
	sub.SubmittedAt = r.s.now()
	stored := *sub
	r.s.submissions[key] = &stored
	return nil
}

// UpsertGrade records a grade, replacing an earlier one for the same student
func (r *CourseworkRepository) UpsertGrade(_ context.Context, g *models.Grade) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.assignments[g.AssignmentID]
	if !ok {
		return apperrors.ErrAssignmentNotFound
	}
	now := r.s.now()
	key := gradeKey{assignmentID: g.AssignmentID, studentID: g.StudentID}
	if existing, ok := r.s.grades[key]; ok {
		g.ID = existing.ID
		g.CreatedAt = existing.CreatedAt
	} else {
		g.ID = r.s.nextID()
		g.CreatedAt = now
	}
	g.UpdatedAt = now
	g.AssignmentTitle = a.Title
	g.CourseID = a.CourseID
	stored := *g
	r.s.grades[key] = &stored
	return nil
}

// ListGrades returns every grade of an assignment
func (r *CourseworkRepository) ListGrades(_ context.Context, assignmentID int64) ([]models.Grade, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.Grade, 0)
	for k, g := range r.s.grades {
		if k.assignmentID == assignmentID {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentID < out[j].StudentID })
	return out, nil
}

// ListGradesByStudent returns a student's grades, most recently graded first
func (r *CourseworkRepository) ListGradesByStudent(_ context.Context, studentID int64, limit int) ([]models.Grade, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]models.Grade, 0)
	for k, g := range r.s.grades {
		if k.studentID == studentID {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
