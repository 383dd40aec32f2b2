package query

import (
	"context"
	"fmt"

	"github.com/gradepoint/gradepoint/internal/domain/course"
)

// ListCoursesQuery lists the acting user's courses, optionally filtered
// to one semester.
type ListCoursesQuery struct {
	UserID     string
	SemesterID string
}

// ListCoursesHandler handles ListCoursesQuery.
type ListCoursesHandler struct {
	courses course.Repository
}

// NewListCoursesHandler creates the handler.
func NewListCoursesHandler(courses course.Repository) *ListCoursesHandler {
	return &ListCoursesHandler{courses: courses}
}

// Handle executes the query. Unauthenticated callers get an empty list.
func (h *ListCoursesHandler) Handle(ctx context.Context, q ListCoursesQuery) ([]CourseDTO, error) {
	if q.UserID == "" {
		return []CourseDTO{}, nil
	}

	var (
		list []*course.Course
		err  error
	)
	if q.SemesterID != "" {
		list, err = h.courses.ListBySemester(ctx, q.UserID, q.SemesterID)
	} else {
		list, err = h.courses.ListByUser(ctx, q.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("list_courses: %w", err)
	}

	out := make([]CourseDTO, 0, len(list))
	for _, c := range list {
		out = append(out, toCourseDTO(c))
	}
	return out, nil
}

// ListGradeRowsQuery lists the saved grade rows of one course.
type ListGradeRowsQuery struct {
	UserID   string
	CourseID string
}

// ListGradeRowsHandler handles ListGradeRowsQuery.
type ListGradeRowsHandler struct {
	items course.GradeItemRepository
}

// NewListGradeRowsHandler creates the handler.
func NewListGradeRowsHandler(items course.GradeItemRepository) *ListGradeRowsHandler {
	return &ListGradeRowsHandler{items: items}
}

// Handle executes the query.
func (h *ListGradeRowsHandler) Handle(ctx context.Context, q ListGradeRowsQuery) ([]GradeRowDTO, error) {
	if q.UserID == "" {
		return []GradeRowDTO{}, nil
	}

	items, err := h.items.ListByCourse(ctx, q.UserID, q.CourseID)
	if err != nil {
		return nil, fmt.Errorf("list_grade_rows: %w", err)
	}

	out := make([]GradeRowDTO, 0, len(items))
	for _, it := range items {
		out = append(out, toGradeRowDTO(it))
	}
	return out, nil
}
