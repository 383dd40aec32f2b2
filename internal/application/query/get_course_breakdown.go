package query

import (
	"context"
	"fmt"

	"github.com/gradepoint/gradepoint/internal/domain/course"
	"github.com/gradepoint/gradepoint/internal/domain/grading"
)

// DefaultTargetOverall is assumed when the caller does not name a target.
const DefaultTargetOverall = 80.0

// GetCourseBreakdownQuery computes the derived calculation result for one
// course: weighted average, letter on the course's own scale, overall
// percent, and the score needed on the remaining weight to hit the target.
type GetCourseBreakdownQuery struct {
	UserID   string
	CourseID string

	// TargetOverall is the desired final course percent; 0 means the
	// default target.
	TargetOverall float64
}

// GetCourseBreakdownHandler handles GetCourseBreakdownQuery.
type GetCourseBreakdownHandler struct {
	courses course.Repository
	items   course.GradeItemRepository
}

// NewGetCourseBreakdownHandler creates the handler.
func NewGetCourseBreakdownHandler(courses course.Repository, items course.GradeItemRepository) *GetCourseBreakdownHandler {
	return &GetCourseBreakdownHandler{courses: courses, items: items}
}

// Handle executes the query. A nil result with a nil error means there is
// nothing to compute (no validly weighted rows) - callers must render an
// empty state, not zeros.
func (h *GetCourseBreakdownHandler) Handle(ctx context.Context, q GetCourseBreakdownQuery) (*BreakdownDTO, error) {
	if q.UserID == "" {
		return nil, nil
	}

	c, err := h.courses.GetByID(ctx, q.UserID, q.CourseID)
	if err != nil {
		return nil, fmt.Errorf("get_course_breakdown: %w", err)
	}
	items, err := h.items.ListByCourse(ctx, q.UserID, q.CourseID)
	if err != nil {
		return nil, fmt.Errorf("get_course_breakdown: %w", err)
	}

	rows := make([]course.GradeItem, 0, len(items))
	for _, it := range items {
		rows = append(rows, *it)
	}

	target := q.TargetOverall
	if target == 0 {
		target = DefaultTargetOverall
	}

	return Breakdown(c, rows, target), nil
}

// Breakdown runs the computation core over a course and its rows. Split
// out so the overview and GPA queries can reuse it without re-fetching.
func Breakdown(c *course.Course, rows []course.GradeItem, target float64) *BreakdownDTO {
	avg := grading.WeightedAverage(course.ScoredItems(rows), c.GradeType)
	if avg == nil {
		return nil
	}

	scale := c.EffectiveScale()
	dto := &BreakdownDTO{
		AverageOnGradedWork: avg.Average,
		Letter:              scale.Letter(avg.Average),
		OverallPercent:      avg.OverallPercent(),
		TotalWeight:         avg.TotalWeight,
		RemainingWeight:     avg.RemainingWeight(),
	}

	if needed, ok := grading.NeededGrade(avg.Average, avg.TotalWeight, target); ok {
		dto.NeededGrade = &needed
		dto.Outcome = grading.Classify(needed)
	}

	return dto
}
