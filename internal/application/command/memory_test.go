package command

import (
	"context"
	"sync"

	"github.com/gradepoint/gradepoint/internal/domain/course"
	"github.com/gradepoint/gradepoint/internal/domain/semester"
	"github.com/gradepoint/gradepoint/internal/domain/shared"
)

// In-memory repository fakes mirroring the postgres implementations'
// contracts: user-scoped reads, not-found for foreign records, atomic
// exclusivity and cascade semantics.

type memCourseRepo struct {
	mu      sync.Mutex
	byID    map[string]*course.Course
	itemsRe *memItemRepo // for cascade delete
}

func newMemCourseRepo(items *memItemRepo) *memCourseRepo {
	return &memCourseRepo{byID: make(map[string]*course.Course), itemsRe: items}
}

func (r *memCourseRepo) Create(_ context.Context, c *course.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *memCourseRepo) GetByID(_ context.Context, userID, id string) (*course.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok || !c.OwnedBy(userID) {
		return nil, shared.ErrCourseNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCourseRepo) ListByUser(_ context.Context, userID string) ([]*course.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*course.Course
	for _, c := range r.byID {
		if c.OwnedBy(userID) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memCourseRepo) ListBySemester(_ context.Context, userID, semesterID string) ([]*course.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*course.Course
	for _, c := range r.byID {
		if c.OwnedBy(userID) && c.SemesterID == semesterID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memCourseRepo) Update(_ context.Context, c *course.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[c.ID]
	if !ok || cur.UserID != c.UserID {
		return shared.ErrCourseNotFound
	}
	cp := *c
	r.byID[c.ID] = &cp
	return nil
}

func (r *memCourseRepo) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	c, ok := r.byID[id]
	if !ok || !c.OwnedBy(userID) {
		r.mu.Unlock()
		return shared.ErrCourseNotFound
	}
	delete(r.byID, id)
	r.mu.Unlock()
	return r.itemsRe.DeleteByCourse(ctx, userID, id)
}

type memItemRepo struct {
	mu     sync.Mutex
	rows   map[string]map[string]*course.GradeItem // courseID -> rowKey -> item
	owners *memCourseRepo
}

func newMemItemRepo() *memItemRepo {
	return &memItemRepo{rows: make(map[string]map[string]*course.GradeItem)}
}

func (r *memItemRepo) Upsert(_ context.Context, userID string, item *course.GradeItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.rows[item.CourseID]
	if !ok {
		m = make(map[string]*course.GradeItem)
		r.rows[item.CourseID] = m
	}
	cp := *item
	if existing, ok := m[item.RowKey]; ok {
		// preserve identity and creation time on update
		cp.ID = existing.ID
		cp.CreatedAt = existing.CreatedAt
	}
	m[item.RowKey] = &cp
	return nil
}

func (r *memItemRepo) ListByCourse(_ context.Context, _, courseID string) ([]*course.GradeItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*course.GradeItem
	for _, it := range r.rows[courseID] {
		cp := *it
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memItemRepo) DeleteByKey(_ context.Context, _, courseID, rowKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows[courseID], rowKey)
	return nil
}

func (r *memItemRepo) DeleteByCourse(_ context.Context, _, courseID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.rows, courseID)
	return nil
}

func (r *memItemRepo) CountByCourse(_ context.Context, _, courseID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows[courseID]), nil
}

type memSemesterRepo struct {
	mu      sync.Mutex
	byID    map[string]*semester.Semester
	courses *memCourseRepo
}

func newMemSemesterRepo(courses *memCourseRepo) *memSemesterRepo {
	return &memSemesterRepo{byID: make(map[string]*semester.Semester), courses: courses}
}

func (r *memSemesterRepo) Create(_ context.Context, s *semester.Semester) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s.IsCurrent {
		r.demoteOthersLocked(s.UserID, s.ID)
	}
	cp := *s
	r.byID[s.ID] = &cp
	return nil
}

func (r *memSemesterRepo) GetByID(_ context.Context, userID, id string) (*semester.Semester, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok || !s.OwnedBy(userID) {
		return nil, shared.ErrSemesterNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *memSemesterRepo) ListByUser(_ context.Context, userID string) ([]*semester.Semester, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*semester.Semester
	for _, s := range r.byID {
		if s.OwnedBy(userID) {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memSemesterRepo) Rename(_ context.Context, userID, id, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok || !s.OwnedBy(userID) {
		return shared.ErrSemesterNotFound
	}
	s.Name = name
	return nil
}

func (r *memSemesterRepo) SetCurrent(_ context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok || !s.OwnedBy(userID) {
		return shared.ErrSemesterNotFound
	}
	r.demoteOthersLocked(userID, id)
	s.MakeCurrent()
	return nil
}

func (r *memSemesterRepo) UpdateStatus(_ context.Context, userID, id string, status semester.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok || !s.OwnedBy(userID) {
		return shared.ErrSemesterNotFound
	}
	if status == semester.StatusInProgress {
		r.demoteOthersLocked(userID, id)
		s.MakeCurrent()
	} else {
		s.Complete()
	}
	return nil
}

func (r *memSemesterRepo) DeleteCascade(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	s, ok := r.byID[id]
	if !ok || !s.OwnedBy(userID) {
		r.mu.Unlock()
		return shared.ErrSemesterNotFound
	}
	wasCurrent := s.IsCurrent
	delete(r.byID, id)

	var remaining []*semester.Semester
	for _, rs := range r.byID {
		if rs.OwnedBy(userID) {
			remaining = append(remaining, rs)
		}
	}
	if wasCurrent {
		if next := semester.PromoteAfterDelete(remaining); next != nil {
			next.MakeCurrent()
		}
	}
	r.mu.Unlock()

	courses, _ := r.courses.ListBySemester(ctx, userID, id)
	for _, c := range courses {
		if err := r.courses.Delete(ctx, userID, c.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *memSemesterRepo) demoteOthersLocked(userID, winnerID string) {
	var all []*semester.Semester
	for _, s := range r.byID {
		if s.OwnedBy(userID) {
			all = append(all, s)
		}
	}
	for _, s := range semester.ContendersForDemotion(all, winnerID) {
		s.Demote()
	}
}

type countingInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (c *countingInvalidator) InvalidateUser(context.Context, string) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
}
