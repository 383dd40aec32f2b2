package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradepoint/gradepoint/internal/domain/grading"
	"github.com/gradepoint/gradepoint/internal/domain/shared"
)

func TestNewCourseDefaults(t *testing.T) {
	c, err := New("course-1", "user-1", "  Linear Algebra ")
	require.NoError(t, err)
	assert.Equal(t, "Linear Algebra", c.Name)
	assert.Equal(t, DefaultCreditHours, c.CreditHours)
	assert.Equal(t, grading.GradeTypePercentage, c.GradeType)
	assert.Nil(t, c.Scale)
	assert.Empty(t, c.SemesterID)
}

func TestNewCourseValidation(t *testing.T) {
	_, err := New("course-1", "user-1", "")
	assert.ErrorIs(t, err, shared.ErrEmptyValue)

	_, err = New("course-1", "", "Algebra")
	assert.ErrorIs(t, err, shared.ErrInvalidID)
}

func TestCourseSetters(t *testing.T) {
	c, err := New("course-1", "user-1", "Algebra")
	require.NoError(t, err)

	assert.ErrorIs(t, c.Rename("  "), shared.ErrEmptyValue)
	require.NoError(t, c.Rename("Algebra II"))
	assert.Equal(t, "Algebra II", c.Name)

	assert.ErrorIs(t, c.SetCreditHours(0), shared.ErrValueOutOfRange)
	assert.ErrorIs(t, c.SetCreditHours(-1), shared.ErrValueOutOfRange)
	require.NoError(t, c.SetCreditHours(4.5))
	assert.Equal(t, 4.5, c.CreditHours)

	assert.ErrorIs(t, c.SetGradeType("numbers"), shared.ErrInvalidInput)
	require.NoError(t, c.SetGradeType(grading.GradeTypeLetters))
	assert.Equal(t, grading.GradeTypeLetters, c.GradeType)
}

func TestCourseSetScaleKeepsPriorOnFailure(t *testing.T) {
	c, err := New("course-1", "user-1", "Algebra")
	require.NoError(t, err)

	good := grading.Scale{
		{MinPercent: 90, Letter: "A"},
		{MinPercent: 0, Letter: "F"},
	}
	require.NoError(t, c.SetScale(good))

	bad := grading.Scale{
		{MinPercent: 50, Letter: "A"},
		{MinPercent: 90, Letter: "F"},
	}
	err = c.SetScale(bad)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	assert.Equal(t, good, c.Scale, "failed update must leave the prior scale")
}

func TestEffectiveScale(t *testing.T) {
	c, err := New("course-1", "user-1", "Algebra")
	require.NoError(t, err)
	assert.Equal(t, grading.DefaultScale(), c.EffectiveScale())

	custom := grading.Scale{
		{MinPercent: 50, Letter: "Pass"},
		{MinPercent: 0, Letter: "Fail"},
	}
	require.NoError(t, c.SetScale(custom))
	assert.Equal(t, custom, c.EffectiveScale())

	c.ClearScale()
	assert.Equal(t, grading.DefaultScale(), c.EffectiveScale())
}

func TestOwnedBy(t *testing.T) {
	c, err := New("course-1", "user-1", "Algebra")
	require.NoError(t, err)
	assert.True(t, c.OwnedBy("user-1"))
	assert.False(t, c.OwnedBy("user-2"))
}

func TestScoredItems(t *testing.T) {
	items := []GradeItem{
		{GradeInput: "88", Weight: 25},
		{GradeInput: "B+", Weight: 75},
	}
	scored := ScoredItems(items)
	require.Len(t, scored, 2)
	assert.Equal(t, "88", scored[0].GradeInput)
	assert.Equal(t, 25.0, scored[0].Weight)
	assert.Equal(t, "B+", scored[1].GradeInput)
}
