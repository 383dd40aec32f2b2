// Package query contains read operations (CQRS - Queries).
// Queries never modify state. Per the product's fail-safe read posture,
// an unauthenticated caller (empty user ID) receives empty collections
// rather than an error.
package query

import (
	"time"

	"github.com/gradepoint/gradepoint/internal/domain/course"
	"github.com/gradepoint/gradepoint/internal/domain/grading"
	"github.com/gradepoint/gradepoint/internal/domain/semester"
)

// CourseDTO is the wire shape of a course.
type CourseDTO struct {
	ID          string            `json:"id"`
	SemesterID  string            `json:"semester_id,omitempty"`
	Name        string            `json:"name"`
	CreditHours float64           `json:"credit_hours"`
	GradeType   grading.GradeType `json:"grade_type"`
	Scale       grading.Scale     `json:"scale,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// GradeRowDTO is the wire shape of one grade row.
type GradeRowDTO struct {
	RowKey         string    `json:"row_key"`
	AssignmentName string    `json:"assignment_name,omitempty"`
	GradeInput     string    `json:"grade_input"`
	NumericGrade   float64   `json:"numeric_grade"`
	WeightInput    string    `json:"weight_input"`
	Weight         float64   `json:"weight"`
	CreatedAt      time.Time `json:"created_at"`
}

// SemesterDTO is the wire shape of a semester.
type SemesterDTO struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Status    semester.Status `json:"status"`
	IsCurrent bool            `json:"is_current"`
	CreatedAt time.Time       `json:"created_at"`
}

// BreakdownDTO is the derived calculation result for one course. It keeps
// the two easily-conflated metrics apart: AverageOnGradedWork covers only
// graded items, OverallPercent treats ungraded weight as zero.
type BreakdownDTO struct {
	AverageOnGradedWork float64         `json:"average_on_graded_work"`
	Letter              string          `json:"letter"`
	OverallPercent      float64         `json:"overall_percent"`
	TotalWeight         float64         `json:"total_weight"`
	RemainingWeight     float64         `json:"remaining_weight"`
	NeededGrade         *float64        `json:"needed_grade,omitempty"`
	Outcome             grading.Outcome `json:"outcome,omitempty"`
}

func toCourseDTO(c *course.Course) CourseDTO {
	return CourseDTO{
		ID:          c.ID,
		SemesterID:  c.SemesterID,
		Name:        c.Name,
		CreditHours: c.CreditHours,
		GradeType:   c.GradeType,
		Scale:       c.Scale,
		CreatedAt:   c.CreatedAt,
	}
}

func toGradeRowDTO(it *course.GradeItem) GradeRowDTO {
	return GradeRowDTO{
		RowKey:         it.RowKey,
		AssignmentName: it.AssignmentName,
		GradeInput:     it.GradeInput,
		NumericGrade:   it.NumericGrade,
		WeightInput:    it.WeightInput,
		Weight:         it.Weight,
		CreatedAt:      it.CreatedAt,
	}
}

func toSemesterDTO(s *semester.Semester) SemesterDTO {
	return SemesterDTO{
		ID:        s.ID,
		Name:      s.Name,
		Status:    s.Status,
		IsCurrent: s.IsCurrent,
		CreatedAt: s.CreatedAt,
	}
}
