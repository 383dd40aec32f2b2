package grading

import (
	"math"
	"strings"
)

// letterPoints is the fixed 4.0-scale point table. A+ earns the same 4.0
// as A; there is no bonus above the cap.
var letterPoints = map[string]float64{
	"A+": 4.0,
	"A":  4.0,
	"A-": 3.7,
	"B+": 3.3,
	"B":  3.0,
	"B-": 2.7,
	"C+": 2.3,
	"C":  2.0,
	"C-": 1.7,
	"D+": 1.3,
	"D":  1.0,
	"D-": 0.7,
	"F":  0.0,
}

// LetterPoints converts a letter grade to its 4.0-scale point value.
func LetterPoints(letter string) (float64, bool) {
	p, ok := letterPoints[strings.ToUpper(strings.TrimSpace(letter))]
	return p, ok
}

// GPALetters lists the letters the point table recognizes, best first.
// Useful for rendering pickers without duplicating the table.
func GPALetters() []string {
	return []string{"A+", "A", "A-", "B+", "B", "B-", "C+", "C", "C-", "D+", "D", "D-", "F"}
}

// CourseGrade is one course's contribution to a GPA aggregation.
type CourseGrade struct {
	Letter      string
	CreditHours float64
}

// GPAResult is a credit-weighted GPA over the entries that survived filtering.
type GPAResult struct {
	GPA          float64 `json:"gpa"`
	TotalCredits float64 `json:"total_credits"`
	TotalPoints  float64 `json:"total_points"`
}

// GPA aggregates course grades into a credit-weighted grade point average.
// Entries with an unrecognized letter or non-positive/non-finite credit
// hours are skipped. Returns nil when nothing counts - an empty transcript
// has no GPA, which is different from a GPA of 0.00.
func GPA(entries []CourseGrade) *GPAResult {
	var totalPoints, totalCredits float64

	for _, e := range entries {
		if math.IsNaN(e.CreditHours) || math.IsInf(e.CreditHours, 0) || e.CreditHours <= 0 {
			continue
		}
		points, ok := LetterPoints(e.Letter)
		if !ok {
			continue
		}
		totalPoints += points * e.CreditHours
		totalCredits += e.CreditHours
	}

	if totalCredits == 0 {
		return nil
	}

	return &GPAResult{
		GPA:          totalPoints / totalCredits,
		TotalCredits: totalCredits,
		TotalPoints:  totalPoints,
	}
}
