package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradepoint/gradepoint/internal/domain/course"
	"github.com/gradepoint/gradepoint/internal/domain/semester"
)

func TestOverviewAssembly(t *testing.T) {
	s := mustSemester(t, "s1", "user-1", "Fall", semester.StatusInProgress)
	semesters := &stubSemesterRepo{semesters: map[string]*semester.Semester{s.ID: s}}

	graded := mustCourse(t, "c1", "user-1", "Calculus")
	graded.SemesterID = s.ID
	ungraded := mustCourse(t, "c2", "user-1", "Seminar")
	courses := &stubCourseRepo{courses: map[string]*course.Course{
		graded.ID: graded, ungraded.ID: ungraded,
	}}
	items := &stubItemRepo{rows: map[string][]*course.GradeItem{
		graded.ID: {row(graded.ID, "hw", "90", 90, "40", 40)},
	}}

	h := NewGetOverviewHandler(semesters, courses, items, nil)
	out, err := h.Handle(context.Background(), GetOverviewQuery{UserID: "user-1"})
	require.NoError(t, err)

	assert.Len(t, out.Semesters, 1)
	assert.Len(t, out.Courses, 2)
	assert.Len(t, out.Rows[graded.ID], 1)
	assert.Empty(t, out.Rows[ungraded.ID])

	require.Contains(t, out.Breakdowns, graded.ID)
	assert.InDelta(t, 90.0, out.Breakdowns[graded.ID].AverageOnGradedWork, 1e-9)
	assert.NotContains(t, out.Breakdowns, ungraded.ID, "ungraded course has no breakdown entry")
}

func TestOverviewCacheRoundTrip(t *testing.T) {
	s := mustSemester(t, "s1", "user-1", "Fall", semester.StatusInProgress)
	semesters := &stubSemesterRepo{semesters: map[string]*semester.Semester{s.ID: s}}
	courses := &stubCourseRepo{courses: map[string]*course.Course{}}
	items := &stubItemRepo{rows: map[string][]*course.GradeItem{}}
	cache := newMapCache()

	h := NewGetOverviewHandler(semesters, courses, items, cache)
	ctx := context.Background()

	first, err := h.Handle(ctx, GetOverviewQuery{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	second, err := h.Handle(ctx, GetOverviewQuery{UserID: "user-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Same(t, first, second, "second read served from cache")

	// The refresher bypasses the cache and rewrites it.
	_, err = h.Handle(ctx, GetOverviewQuery{UserID: "user-1", BypassCache: true})
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits, "bypass must not read the cache")
	assert.Equal(t, 2, cache.sets)
}

func TestOverviewUnauthenticated(t *testing.T) {
	h := NewGetOverviewHandler(
		&stubSemesterRepo{semesters: map[string]*semester.Semester{}},
		&stubCourseRepo{courses: map[string]*course.Course{}},
		&stubItemRepo{rows: map[string][]*course.GradeItem{}},
		nil,
	)
	out, err := h.Handle(context.Background(), GetOverviewQuery{})
	require.NoError(t, err)
	assert.Empty(t, out.Semesters)
	assert.Empty(t, out.Courses)
	assert.Empty(t, out.Rows)
	assert.Empty(t, out.Breakdowns)
}
