package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradepoint/gradepoint/internal/domain/grading"
	"github.com/gradepoint/gradepoint/internal/domain/shared"
)

func TestDeleteCourseCascadesGradeRows(t *testing.T) {
	ctx := context.Background()
	courses, items, c := newCourseFixtures(t)
	up := NewUpsertGradeRowHandler(courses, items, nil)

	for _, key := range []string{"r1", "r2", "r3"} {
		_, err := up.Handle(ctx, UpsertGradeRowCommand{
			UserID: "user-1", CourseID: c.ID, RowKey: key, GradeInput: "80", WeightInput: "20",
		})
		require.NoError(t, err)
	}
	n, err := items.CountByCourse(ctx, "user-1", c.ID)
	require.NoError(t, err)
	require.Equal(t, 3, n)

	views := &countingInvalidator{}
	h := NewDeleteCourseHandler(courses, views)
	require.NoError(t, h.Handle(ctx, DeleteCourseCommand{UserID: "user-1", CourseID: c.ID}))

	// Cascade verified by count.
	n, err = items.CountByCourse(ctx, "user-1", c.ID)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = courses.GetByID(ctx, "user-1", c.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, 1, views.calls)
}

func TestDeleteCourseRejectsForeignOwner(t *testing.T) {
	ctx := context.Background()
	courses, items, c := newCourseFixtures(t)
	up := NewUpsertGradeRowHandler(courses, items, nil)
	_, err := up.Handle(ctx, UpsertGradeRowCommand{
		UserID: "user-1", CourseID: c.ID, RowKey: "r1", GradeInput: "80", WeightInput: "20",
	})
	require.NoError(t, err)

	h := NewDeleteCourseHandler(courses, nil)
	err = h.Handle(ctx, DeleteCourseCommand{UserID: "intruder", CourseID: c.ID})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	// Nothing was touched.
	_, err = courses.GetByID(ctx, "user-1", c.ID)
	assert.NoError(t, err)
	n, err := items.CountByCourse(ctx, "user-1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUpdateCourseScaleRejectionKeepsPrior(t *testing.T) {
	ctx := context.Background()
	items := newMemItemRepo()
	courses := newMemCourseRepo(items)
	semesters := newMemSemesterRepo(courses)

	create := NewCreateCourseHandler(courses, semesters, nil)
	c, err := create.Handle(ctx, CreateCourseCommand{UserID: "user-1", Name: "Chemistry"})
	require.NoError(t, err)

	h := NewUpdateCourseHandler(courses, semesters, nil)
	good := grading.Scale{
		{MinPercent: 90, Letter: "A"},
		{MinPercent: 0, Letter: "F"},
	}
	require.NoError(t, h.UpdateScale(ctx, UpdateCourseScaleCommand{UserID: "user-1", CourseID: c.ID, Scale: good}))

	bad := grading.Scale{
		{MinPercent: 90, Letter: "A"},
		{MinPercent: 95, Letter: "A+"},
		{MinPercent: 0, Letter: "F"},
	}
	err = h.UpdateScale(ctx, UpdateCourseScaleCommand{UserID: "user-1", CourseID: c.ID, Scale: bad})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	stored, err := courses.GetByID(ctx, "user-1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, good, stored.Scale, "prior valid scale retained")
}

func TestCreateCourseWithSemester(t *testing.T) {
	ctx := context.Background()
	items := newMemItemRepo()
	courses := newMemCourseRepo(items)
	semesters := newMemSemesterRepo(courses)

	sems := NewSemesterHandler(semesters, nil)
	s, err := sems.Create(ctx, CreateSemesterCommand{UserID: "user-1", Name: "Fall 2025", Status: "in_progress"})
	require.NoError(t, err)

	create := NewCreateCourseHandler(courses, semesters, nil)
	c, err := create.Handle(ctx, CreateCourseCommand{UserID: "user-1", Name: "Physics", SemesterID: s.ID, CreditHours: 4})
	require.NoError(t, err)
	assert.Equal(t, s.ID, c.SemesterID)
	assert.Equal(t, 4.0, c.CreditHours)

	// Attaching to someone else's semester fails before any write.
	_, err = create.Handle(ctx, CreateCourseCommand{UserID: "user-2", Name: "Physics", SemesterID: s.ID})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
