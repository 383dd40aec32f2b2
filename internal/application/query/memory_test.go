package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gradepoint/gradepoint/internal/domain/course"
	"github.com/gradepoint/gradepoint/internal/domain/semester"
	"github.com/gradepoint/gradepoint/internal/domain/shared"
)

// Read-side fakes. Queries never write, so these are plain maps with the
// same user-scoping rules the postgres repositories enforce.

type stubCourseRepo struct {
	courses map[string]*course.Course
}

func (r *stubCourseRepo) Create(context.Context, *course.Course) error { return nil }
func (r *stubCourseRepo) Update(context.Context, *course.Course) error { return nil }
func (r *stubCourseRepo) Delete(context.Context, string, string) error { return nil }

func (r *stubCourseRepo) GetByID(_ context.Context, userID, id string) (*course.Course, error) {
	c, ok := r.courses[id]
	if !ok || !c.OwnedBy(userID) {
		return nil, shared.ErrCourseNotFound
	}
	return c, nil
}

func (r *stubCourseRepo) ListByUser(_ context.Context, userID string) ([]*course.Course, error) {
	var out []*course.Course
	for _, c := range r.courses {
		if c.OwnedBy(userID) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *stubCourseRepo) ListBySemester(_ context.Context, userID, semesterID string) ([]*course.Course, error) {
	var out []*course.Course
	for _, c := range r.courses {
		if c.OwnedBy(userID) && c.SemesterID == semesterID {
			out = append(out, c)
		}
	}
	return out, nil
}

type stubItemRepo struct {
	rows map[string][]*course.GradeItem // courseID -> rows
}

func (r *stubItemRepo) Upsert(context.Context, string, *course.GradeItem) error { return nil }
func (r *stubItemRepo) DeleteByKey(context.Context, string, string, string) error {
	return nil
}
func (r *stubItemRepo) DeleteByCourse(context.Context, string, string) error { return nil }

func (r *stubItemRepo) ListByCourse(_ context.Context, _, courseID string) ([]*course.GradeItem, error) {
	return r.rows[courseID], nil
}

func (r *stubItemRepo) CountByCourse(_ context.Context, _, courseID string) (int, error) {
	return len(r.rows[courseID]), nil
}

type stubSemesterRepo struct {
	semesters map[string]*semester.Semester
}

func (r *stubSemesterRepo) Create(context.Context, *semester.Semester) error       { return nil }
func (r *stubSemesterRepo) Rename(context.Context, string, string, string) error   { return nil }
func (r *stubSemesterRepo) SetCurrent(context.Context, string, string) error       { return nil }
func (r *stubSemesterRepo) DeleteCascade(context.Context, string, string) error    { return nil }
func (r *stubSemesterRepo) UpdateStatus(context.Context, string, string, semester.Status) error {
	return nil
}

func (r *stubSemesterRepo) GetByID(_ context.Context, userID, id string) (*semester.Semester, error) {
	s, ok := r.semesters[id]
	if !ok || !s.OwnedBy(userID) {
		return nil, shared.ErrSemesterNotFound
	}
	return s, nil
}

func (r *stubSemesterRepo) ListByUser(_ context.Context, userID string) ([]*semester.Semester, error) {
	var out []*semester.Semester
	for _, s := range r.semesters {
		if s.OwnedBy(userID) {
			out = append(out, s)
		}
	}
	return out, nil
}

func mustCourse(t *testing.T, id, userID, name string) *course.Course {
	t.Helper()
	c, err := course.New(id, userID, name)
	require.NoError(t, err)
	return c
}

func row(courseID, key, gradeInput string, numeric float64, weightInput string, weight float64) *course.GradeItem {
	return &course.GradeItem{
		ID:           "item-" + courseID + "-" + key,
		CourseID:     courseID,
		RowKey:       key,
		GradeInput:   gradeInput,
		NumericGrade: numeric,
		WeightInput:  weightInput,
		Weight:       weight,
	}
}

type mapCache struct {
	byUser map[string]*OverviewDTO
	hits   int
	sets   int
}

func newMapCache() *mapCache {
	return &mapCache{byUser: make(map[string]*OverviewDTO)}
}

func (c *mapCache) Get(_ context.Context, userID string) (*OverviewDTO, bool) {
	o, ok := c.byUser[userID]
	if ok {
		c.hits++
	}
	return o, ok
}

func (c *mapCache) Set(_ context.Context, userID string, o *OverviewDTO) {
	c.sets++
	c.byUser[userID] = o
}
