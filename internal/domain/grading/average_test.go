package grading

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeightedAverageEmpty(t *testing.T) {
	assert.Nil(t, WeightedAverage(nil, GradeTypePercentage))
	assert.Nil(t, WeightedAverage([]ScoredItem{}, GradeTypePercentage))
}

func TestWeightedAverageZeroWeightIsNoResult(t *testing.T) {
	// A graded item with no positive weight contributes nothing, so there
	// is no denominator and therefore no result - not a zero average.
	items := []ScoredItem{{GradeInput: "90", Weight: 0}}
	assert.Nil(t, WeightedAverage(items, GradeTypePercentage))
}

func TestWeightedAverageBasic(t *testing.T) {
	items := []ScoredItem{
		{GradeInput: "80", Weight: 50},
		{GradeInput: "100", Weight: 50},
	}
	res := WeightedAverage(items, GradeTypePercentage)
	require.NotNil(t, res)
	assert.InDelta(t, 90, res.Average, 1e-9)
	assert.InDelta(t, 100, res.TotalWeight, 1e-9)
	assert.InDelta(t, 9000, res.WeightedSum, 1e-9)
	assert.InDelta(t, 90, res.OverallPercent(), 1e-9)
	assert.InDelta(t, 0, res.RemainingWeight(), 1e-9)
}

func TestWeightedAverageSkipsBadWeights(t *testing.T) {
	items := []ScoredItem{
		{GradeInput: "95", Weight: 30},
		{GradeInput: "50", Weight: -10},
		{GradeInput: "50", Weight: 0},
		{GradeInput: "50", Weight: math.NaN()},
		{GradeInput: "50", Weight: math.Inf(1)},
	}
	res := WeightedAverage(items, GradeTypePercentage)
	require.NotNil(t, res)
	assert.InDelta(t, 95, res.Average, 1e-9)
	assert.InDelta(t, 30, res.TotalWeight, 1e-9)
}

func TestWeightedAverageExcludesUnparsableGrades(t *testing.T) {
	// An unparsable grade is excluded entirely, never counted as 0: its
	// weight must not appear in the denominator.
	items := []ScoredItem{
		{GradeInput: "80", Weight: 40},
		{GradeInput: "oops", Weight: 40},
		{GradeInput: "", Weight: 20},
	}
	res := WeightedAverage(items, GradeTypePercentage)
	require.NotNil(t, res)
	assert.InDelta(t, 80, res.Average, 1e-9)
	assert.InDelta(t, 40, res.TotalWeight, 1e-9)
	assert.InDelta(t, 60, res.RemainingWeight(), 1e-9)
}

func TestWeightedAverageLetters(t *testing.T) {
	items := []ScoredItem{
		{GradeInput: "A", Weight: 50},  // 93
		{GradeInput: "b-", Weight: 25}, // 80
		{GradeInput: "Z", Weight: 25},  // unknown: excluded
	}
	res := WeightedAverage(items, GradeTypeLetters)
	require.NotNil(t, res)
	assert.InDelta(t, (93*50+80*25)/75.0, res.Average, 1e-9)
	assert.InDelta(t, 75, res.TotalWeight, 1e-9)
}

func TestWeightedAveragePointsParseRaw(t *testing.T) {
	items := []ScoredItem{
		{GradeInput: " 18.5 ", Weight: 10},
		{GradeInput: "20", Weight: 10},
	}
	res := WeightedAverage(items, GradeTypePoints)
	require.NotNil(t, res)
	assert.InDelta(t, 19.25, res.Average, 1e-9)
}

func TestWeightedAverageOverallDistinctFromAverage(t *testing.T) {
	// Half the course graded at 90: average on graded work is 90, but the
	// course percent treating the rest as zero is only 45.
	items := []ScoredItem{{GradeInput: "90", Weight: 50}}
	res := WeightedAverage(items, GradeTypePercentage)
	require.NotNil(t, res)
	assert.InDelta(t, 90, res.Average, 1e-9)
	assert.InDelta(t, 45, res.OverallPercent(), 1e-9)
}

func TestGradeTypeIsValid(t *testing.T) {
	assert.True(t, GradeTypePercentage.IsValid())
	assert.True(t, GradeTypeLetters.IsValid())
	assert.True(t, GradeTypePoints.IsValid())
	assert.False(t, GradeType("numeric").IsValid())
	assert.False(t, GradeType("").IsValid())
}
