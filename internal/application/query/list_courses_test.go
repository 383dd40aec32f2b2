package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradepoint/gradepoint/internal/domain/course"
)

func TestListCoursesFilters(t *testing.T) {
	a := mustCourse(t, "c-a", "user-1", "Algebra")
	a.SemesterID = "s1"
	b := mustCourse(t, "c-b", "user-1", "Biology")
	foreign := mustCourse(t, "c-f", "user-2", "Foreign")
	courses := &stubCourseRepo{courses: map[string]*course.Course{
		a.ID: a, b.ID: b, foreign.ID: foreign,
	}}

	h := NewListCoursesHandler(courses)
	ctx := context.Background()

	all, err := h.Handle(ctx, ListCoursesQuery{UserID: "user-1"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	scoped, err := h.Handle(ctx, ListCoursesQuery{UserID: "user-1", SemesterID: "s1"})
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	assert.Equal(t, a.ID, scoped[0].ID)

	empty, err := h.Handle(ctx, ListCoursesQuery{})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestListGradeRows(t *testing.T) {
	items := &stubItemRepo{rows: map[string][]*course.GradeItem{
		"c1": {row("c1", "hw", "90", 90, "40", 40)},
	}}
	h := NewListGradeRowsHandler(items)

	rows, err := h.Handle(context.Background(), ListGradeRowsQuery{UserID: "user-1", CourseID: "c1"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "hw", rows[0].RowKey)
	assert.Equal(t, 40.0, rows[0].Weight)
}
