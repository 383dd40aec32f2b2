package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradepoint/gradepoint/internal/domain/course"
	"github.com/gradepoint/gradepoint/internal/domain/grading"
	"github.com/gradepoint/gradepoint/internal/domain/shared"
)

func newCourseFixtures(t *testing.T) (*memCourseRepo, *memItemRepo, *course.Course) {
	t.Helper()
	items := newMemItemRepo()
	courses := newMemCourseRepo(items)

	c, err := course.New("course-1", "user-1", "Algebra")
	require.NoError(t, err)
	require.NoError(t, courses.Create(context.Background(), c))
	return courses, items, c
}

func TestUpsertGradeRowInsertsAndUpdates(t *testing.T) {
	ctx := context.Background()
	courses, items, c := newCourseFixtures(t)
	h := NewUpsertGradeRowHandler(courses, items, nil)

	_, err := h.Handle(ctx, UpsertGradeRowCommand{
		UserID:         "user-1",
		CourseID:       c.ID,
		RowKey:         "row-1",
		AssignmentName: "Midterm",
		GradeInput:     "88",
		WeightInput:    "30",
	})
	require.NoError(t, err)

	// Same key again: update in place, not a duplicate.
	_, err = h.Handle(ctx, UpsertGradeRowCommand{
		UserID:      "user-1",
		CourseID:    c.ID,
		RowKey:      "row-1",
		GradeInput:  "92",
		WeightInput: "30",
	})
	require.NoError(t, err)

	n, err := items.CountByCourse(ctx, "user-1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stored, err := items.ListByCourse(ctx, "user-1", c.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "92", stored[0].GradeInput)
	assert.Equal(t, 92.0, stored[0].NumericGrade)
	assert.Equal(t, 30.0, stored[0].Weight)
}

func TestUpsertGradeRowStoredFallbacks(t *testing.T) {
	ctx := context.Background()
	courses, items, c := newCourseFixtures(t)
	h := NewUpsertGradeRowHandler(courses, items, nil)

	item, err := h.Handle(ctx, UpsertGradeRowCommand{
		UserID:      "user-1",
		CourseID:    c.ID,
		RowKey:      "row-1",
		GradeInput:  "not a number",
		WeightInput: "-4",
	})
	require.NoError(t, err)
	assert.Equal(t, 0.0, item.NumericGrade, "unresolvable grade stored as 0")
	assert.Equal(t, 0.0, item.Weight, "non-positive weight stored as 0")
	assert.Equal(t, "not a number", item.GradeInput, "raw input preserved")
	_ = items
}

func TestUpsertGradeRowLetterCourse(t *testing.T) {
	ctx := context.Background()
	courses, items, c := newCourseFixtures(t)
	require.NoError(t, c.SetGradeType(grading.GradeTypeLetters))
	require.NoError(t, courses.Update(ctx, c))

	h := NewUpsertGradeRowHandler(courses, items, nil)
	item, err := h.Handle(ctx, UpsertGradeRowCommand{
		UserID:      "user-1",
		CourseID:    c.ID,
		RowKey:      "row-1",
		GradeInput:  "b+",
		WeightInput: "25",
	})
	require.NoError(t, err)
	assert.Equal(t, 87.0, item.NumericGrade)
}

func TestUpsertGradeRowRejectsForeignCourse(t *testing.T) {
	ctx := context.Background()
	courses, items, c := newCourseFixtures(t)
	h := NewUpsertGradeRowHandler(courses, items, nil)

	_, err := h.Handle(ctx, UpsertGradeRowCommand{
		UserID:      "intruder",
		CourseID:    c.ID,
		RowKey:      "row-1",
		GradeInput:  "100",
		WeightInput: "100",
	})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	n, err := items.CountByCourse(ctx, "user-1", c.ID)
	require.NoError(t, err)
	assert.Zero(t, n, "rejected write must not mutate")
}

func TestUpsertGradeRowValidation(t *testing.T) {
	courses, items, c := newCourseFixtures(t)
	h := NewUpsertGradeRowHandler(courses, items, nil)

	_, err := h.Handle(context.Background(), UpsertGradeRowCommand{CourseID: c.ID, RowKey: "k"})
	assert.ErrorIs(t, err, shared.ErrUnauthorized)

	_, err = h.Handle(context.Background(), UpsertGradeRowCommand{UserID: "user-1", RowKey: "k"})
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	_, err = h.Handle(context.Background(), UpsertGradeRowCommand{UserID: "user-1", CourseID: c.ID})
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}

func TestRemoveGradeRow(t *testing.T) {
	ctx := context.Background()
	courses, items, c := newCourseFixtures(t)
	up := NewUpsertGradeRowHandler(courses, items, nil)
	del := NewGradeRowDeleteHandler(courses, items, nil)

	_, err := up.Handle(ctx, UpsertGradeRowCommand{
		UserID: "user-1", CourseID: c.ID, RowKey: "row-1", GradeInput: "90", WeightInput: "50",
	})
	require.NoError(t, err)

	require.NoError(t, del.Remove(ctx, RemoveGradeRowCommand{UserID: "user-1", CourseID: c.ID, RowKey: "row-1"}))
	n, err := items.CountByCourse(ctx, "user-1", c.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	// Deleting an unsaved key is a no-op, not an error.
	assert.NoError(t, del.Remove(ctx, RemoveGradeRowCommand{UserID: "user-1", CourseID: c.ID, RowKey: "never-saved"}))
}
