package semester

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradepoint/gradepoint/internal/domain/shared"
)

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("in_progress")
	require.NoError(t, err)
	assert.Equal(t, StatusInProgress, st)

	st, err = ParseStatus(" completed ")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, st)

	_, err = ParseStatus("paused")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestNewSemester(t *testing.T) {
	s, err := New("sem-1", "user-1", "Fall 2025", StatusInProgress, false)
	require.NoError(t, err)
	assert.True(t, s.IsCurrent, "in-progress semesters start current")
	assert.Equal(t, StatusInProgress, s.Status)

	s, err = New("sem-2", "user-1", "Spring 2025", StatusCompleted, false)
	require.NoError(t, err)
	assert.False(t, s.IsCurrent)

	// makeCurrent overrides a completed status.
	s, err = New("sem-3", "user-1", "Summer 2025", StatusCompleted, true)
	require.NoError(t, err)
	assert.True(t, s.IsCurrent)
	assert.Equal(t, StatusInProgress, s.Status)
}

func TestNewSemesterValidation(t *testing.T) {
	_, err := New("sem-1", "user-1", "   ", StatusInProgress, false)
	assert.ErrorIs(t, err, shared.ErrEmptyValue)

	_, err = New("sem-1", "", "Fall", StatusInProgress, false)
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	_, err = New("sem-1", "user-1", "Fall", Status("bogus"), false)
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestDemoteCollapsesInProgress(t *testing.T) {
	s := &Semester{Status: StatusInProgress, IsCurrent: true}
	s.Demote()
	assert.False(t, s.IsCurrent)
	assert.Equal(t, StatusCompleted, s.Status, "in progress but not current is not representable")
}

func TestContendersForDemotion(t *testing.T) {
	all := []*Semester{
		{ID: "a", Status: StatusInProgress, IsCurrent: true},
		{ID: "b", Status: StatusInProgress, IsCurrent: false},
		{ID: "c", Status: StatusCompleted, IsCurrent: false},
		{ID: "d", Status: StatusCompleted, IsCurrent: true}, // corrupt but demotable
	}

	contenders := ContendersForDemotion(all, "b")
	ids := make([]string, 0, len(contenders))
	for _, s := range contenders {
		ids = append(ids, s.ID)
	}
	assert.ElementsMatch(t, []string{"a", "d"}, ids)
}

func TestExclusivityAcrossManySemesters(t *testing.T) {
	// With three or more in-progress semesters, electing a winner leaves
	// exactly one current.
	all := []*Semester{
		{ID: "a", Status: StatusInProgress, IsCurrent: true},
		{ID: "b", Status: StatusInProgress},
		{ID: "c", Status: StatusInProgress},
		{ID: "d", Status: StatusCompleted},
	}

	winner := all[2]
	for _, s := range ContendersForDemotion(all, winner.ID) {
		s.Demote()
	}
	winner.MakeCurrent()

	currents := 0
	for _, s := range all {
		if s.IsCurrent {
			currents++
			assert.Equal(t, winner.ID, s.ID)
			assert.Equal(t, StatusInProgress, s.Status)
		} else if s.ID != "d" {
			assert.Equal(t, StatusCompleted, s.Status)
		}
	}
	assert.Equal(t, 1, currents)
}

func TestPromoteAfterDelete(t *testing.T) {
	now := time.Now()
	remaining := []*Semester{
		{ID: "old", Status: StatusInProgress, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "new", Status: StatusInProgress, CreatedAt: now.Add(-1 * time.Hour)},
		{ID: "done", Status: StatusCompleted, CreatedAt: now},
	}

	pick := PromoteAfterDelete(remaining)
	require.NotNil(t, pick)
	assert.Equal(t, "new", pick.ID, "most recently created in-progress semester wins")
}

func TestPromoteAfterDeleteNoCandidate(t *testing.T) {
	remaining := []*Semester{
		{ID: "a", Status: StatusCompleted},
	}
	assert.Nil(t, PromoteAfterDelete(remaining))
	assert.Nil(t, PromoteAfterDelete(nil))
}
