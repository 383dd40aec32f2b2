package query

import (
	"context"
	"fmt"

	"github.com/gradepoint/gradepoint/internal/domain/course"
	"github.com/gradepoint/gradepoint/internal/domain/grading"
	"github.com/gradepoint/gradepoint/internal/domain/semester"
)

// SemesterGPADTO is the GPA of one semester.
type SemesterGPADTO struct {
	SemesterID string             `json:"semester_id"`
	Name       string             `json:"name"`
	Result     *grading.GPAResult `json:"result"` // nil = nothing graded yet
}

// GPASummaryDTO carries per-semester GPAs and the cumulative figure.
type GPASummaryDTO struct {
	Semesters  []SemesterGPADTO   `json:"semesters"`
	Cumulative *grading.GPAResult `json:"cumulative"` // nil = no GPA yet
}

// GetGPASummaryQuery computes per-semester and cumulative GPA for a user.
type GetGPASummaryQuery struct {
	UserID string
}

// GetGPASummaryHandler handles GetGPASummaryQuery.
//
// Composition per course: weighted percent over its graded rows, letter on
// the course's own scale, then credit-weighted aggregation. Courses with
// no computable average contribute nothing (they are in progress, not
// failing).
type GetGPASummaryHandler struct {
	semesters semester.Repository
	courses   course.Repository
	items     course.GradeItemRepository
}

// NewGetGPASummaryHandler creates the handler.
func NewGetGPASummaryHandler(
	semesters semester.Repository,
	courses course.Repository,
	items course.GradeItemRepository,
) *GetGPASummaryHandler {
	return &GetGPASummaryHandler{semesters: semesters, courses: courses, items: items}
}

// Handle executes the query.
func (h *GetGPASummaryHandler) Handle(ctx context.Context, q GetGPASummaryQuery) (*GPASummaryDTO, error) {
	if q.UserID == "" {
		return &GPASummaryDTO{Semesters: []SemesterGPADTO{}}, nil
	}

	sems, err := h.semesters.ListByUser(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("get_gpa_summary: %w", err)
	}
	crs, err := h.courses.ListByUser(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("get_gpa_summary: %w", err)
	}

	// Resolve each course to a GPA entry once; bucket by semester.
	bySemester := make(map[string][]grading.CourseGrade)
	var all []grading.CourseGrade
	for _, c := range crs {
		entry, ok, err := h.courseGrade(ctx, q.UserID, c)
		if err != nil {
			return nil, fmt.Errorf("get_gpa_summary: course %s: %w", c.ID, err)
		}
		if !ok {
			continue
		}
		all = append(all, entry)
		if c.SemesterID != "" {
			bySemester[c.SemesterID] = append(bySemester[c.SemesterID], entry)
		}
	}

	out := &GPASummaryDTO{
		Semesters:  make([]SemesterGPADTO, 0, len(sems)),
		Cumulative: grading.GPA(all),
	}
	for _, s := range sems {
		out.Semesters = append(out.Semesters, SemesterGPADTO{
			SemesterID: s.ID,
			Name:       s.Name,
			Result:     grading.GPA(bySemester[s.ID]),
		})
	}
	return out, nil
}

func (h *GetGPASummaryHandler) courseGrade(ctx context.Context, userID string, c *course.Course) (grading.CourseGrade, bool, error) {
	items, err := h.items.ListByCourse(ctx, userID, c.ID)
	if err != nil {
		return grading.CourseGrade{}, false, err
	}

	plain := make([]course.GradeItem, 0, len(items))
	for _, it := range items {
		plain = append(plain, *it)
	}

	avg := grading.WeightedAverage(course.ScoredItems(plain), c.GradeType)
	if avg == nil {
		return grading.CourseGrade{}, false, nil
	}

	return grading.CourseGrade{
		Letter:      c.EffectiveScale().Letter(avg.Average),
		CreditHours: c.CreditHours,
	}, true, nil
}
