package query

import (
	"context"

	"github.com/gradepoint/gradepoint/internal/domain/grading"
)

// The stateless calculators mirror the product's quick tools: they work on
// request payloads only and never touch storage, so they are usable before
// sign-in.

// FinalExamQuery is the "what do I need on my final" input. All fields are
// raw text; unparsable input yields no result rather than an error.
type FinalExamQuery struct {
	CurrentGrade string `json:"current_grade"`
	FinalWeight  string `json:"final_weight"`
	TargetGrade  string `json:"target_grade"`
}

// QuickGPAEntry is one row of the quick GPA calculator.
type QuickGPAEntry struct {
	Letter      string  `json:"letter"`
	CreditHours float64 `json:"credit_hours"`
}

// QuickGPAQuery aggregates ad-hoc letter/credit rows.
type QuickGPAQuery struct {
	Entries []QuickGPAEntry `json:"entries"`
}

// CalculatorHandler evaluates the stateless calculators.
type CalculatorHandler struct{}

// NewCalculatorHandler creates the handler.
func NewCalculatorHandler() *CalculatorHandler {
	return &CalculatorHandler{}
}

// FinalExam evaluates FinalExamQuery. A nil result means the inputs do not
// describe a solvable projection.
func (h *CalculatorHandler) FinalExam(_ context.Context, q FinalExamQuery) *grading.FinalProjection {
	return grading.FinalExamTarget(q.CurrentGrade, q.FinalWeight, q.TargetGrade)
}

// QuickGPA evaluates QuickGPAQuery. A nil result means no entry counted.
func (h *CalculatorHandler) QuickGPA(_ context.Context, q QuickGPAQuery) *grading.GPAResult {
	entries := make([]grading.CourseGrade, 0, len(q.Entries))
	for _, e := range q.Entries {
		entries = append(entries, grading.CourseGrade{
			Letter:      e.Letter,
			CreditHours: e.CreditHours,
		})
	}
	return grading.GPA(entries)
}
