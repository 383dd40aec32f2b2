package grading

import (
	"math"
	"strconv"
	"strings"
)

// GradeType determines how a course interprets raw grade input.
type GradeType string

const (
	// GradeTypePercentage - grades are entered as percentages (0-100).
	GradeTypePercentage GradeType = "percentage"

	// GradeTypeLetters - grades are entered as letter grades (A, B+, ...).
	GradeTypeLetters GradeType = "letters"

	// GradeTypePoints - grades are entered as raw point values.
	GradeTypePoints GradeType = "points"
)

// IsValid reports whether the grade type is one of the known values.
func (t GradeType) IsValid() bool {
	switch t {
	case GradeTypePercentage, GradeTypeLetters, GradeTypePoints:
		return true
	}
	return false
}

// ScoredItem is one graded component as fed to the weighted average engine.
// GradeInput is the raw user text so that letter courses and numeric courses
// go through the same path.
type ScoredItem struct {
	GradeInput string
	Weight     float64
}

// AverageResult is the aggregate over all items that survived filtering.
type AverageResult struct {
	// Average is the weighted mean over graded work only.
	Average float64

	// TotalWeight is the weight consumed by graded work, in percentage points.
	TotalWeight float64

	// WeightedSum is sum(grade * weight) over surviving items.
	WeightedSum float64
}

// OverallPercent is the course percent so far treating every ungraded
// percentage point as a zero. This is a distinct metric from Average and
// the two are easy to conflate - keep them apart when rendering.
func (r *AverageResult) OverallPercent() float64 {
	return r.WeightedSum / 100
}

// RemainingWeight is how much of the course total is not yet graded.
// Weights are not required to sum to 100, so this can go negative.
func (r *AverageResult) RemainingWeight() float64 {
	return 100 - r.TotalWeight
}

// WeightedAverage aggregates scored items into a weighted mean.
//
// Filtering is best-effort by design: an item with a non-finite or
// non-positive weight is excluded, and an item whose grade cannot be
// resolved (unparsable number, unknown letter) is excluded rather than
// counted as zero, so missing data never skews the denominator.
//
// Returns nil when no item survives - callers must treat that as
// "nothing to show", never as an average of zero.
func WeightedAverage(items []ScoredItem, gradeType GradeType) *AverageResult {
	var weightedSum, totalWeight float64

	for _, it := range items {
		if math.IsNaN(it.Weight) || math.IsInf(it.Weight, 0) || it.Weight <= 0 {
			continue
		}

		grade, ok := resolveGrade(it.GradeInput, gradeType)
		if !ok {
			continue
		}

		weightedSum += grade * it.Weight
		totalWeight += it.Weight
	}

	if totalWeight == 0 {
		return nil
	}

	return &AverageResult{
		Average:     weightedSum / totalWeight,
		TotalWeight: totalWeight,
		WeightedSum: weightedSum,
	}
}

// resolveGrade turns raw grade text into a numeric value under the given
// grade type.
func resolveGrade(input string, gradeType GradeType) (float64, bool) {
	if gradeType == GradeTypeLetters {
		return LetterPercent(input)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
