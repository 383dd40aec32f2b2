package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gradepoint/gradepoint/internal/domain/grading"
)

func TestFinalExamCalculator(t *testing.T) {
	h := NewCalculatorHandler()
	ctx := context.Background()

	t.Run("achievable", func(t *testing.T) {
		// current 85 over the first 70%, final worth 30%, aiming for 80:
		// needed = (80*100 - 85*70) / 30 = 68.33...
		res := h.FinalExam(ctx, FinalExamQuery{CurrentGrade: "85", FinalWeight: "30", TargetGrade: "80"})
		require.NotNil(t, res)
		assert.InDelta(t, 68.333333, res.Needed, 1e-4)
		assert.Equal(t, grading.OutcomeAchievable, res.Outcome)
	})

	t.Run("unreachable", func(t *testing.T) {
		res := h.FinalExam(ctx, FinalExamQuery{CurrentGrade: "60", FinalWeight: "10", TargetGrade: "90"})
		require.NotNil(t, res)
		assert.Equal(t, grading.OutcomeUnreachable, res.Outcome)
	})

	t.Run("secured", func(t *testing.T) {
		res := h.FinalExam(ctx, FinalExamQuery{CurrentGrade: "99", FinalWeight: "20", TargetGrade: "60"})
		require.NotNil(t, res)
		assert.Equal(t, grading.OutcomeSecured, res.Outcome)
	})

	t.Run("garbage input yields no result", func(t *testing.T) {
		assert.Nil(t, h.FinalExam(ctx, FinalExamQuery{CurrentGrade: "ninety", FinalWeight: "30", TargetGrade: "80"}))
		assert.Nil(t, h.FinalExam(ctx, FinalExamQuery{CurrentGrade: "90", FinalWeight: "0", TargetGrade: "80"}))
		assert.Nil(t, h.FinalExam(ctx, FinalExamQuery{CurrentGrade: "90", FinalWeight: "130", TargetGrade: "80"}))
	})
}

func TestQuickGPACalculator(t *testing.T) {
	h := NewCalculatorHandler()
	ctx := context.Background()

	res := h.QuickGPA(ctx, QuickGPAQuery{Entries: []QuickGPAEntry{
		{Letter: "A", CreditHours: 3},
		{Letter: "B+", CreditHours: 4},
		{Letter: "??", CreditHours: 3}, // unknown letters are skipped
		{Letter: "C", CreditHours: 0},  // zero credits are skipped
	}})
	require.NotNil(t, res)
	assert.InDelta(t, 3.6, res.GPA, 1e-9)
	assert.InDelta(t, 7.0, res.TotalCredits, 1e-9)

	assert.Nil(t, h.QuickGPA(ctx, QuickGPAQuery{}), "no countable entries, no result")
}
