package query

import (
	"context"
	"fmt"

	"github.com/gradepoint/gradepoint/internal/domain/course"
	"github.com/gradepoint/gradepoint/internal/domain/semester"
)

// OverviewDTO is the single-shot read model behind the semesters screen:
// every semester, course, and grade row of the user, with per-course
// breakdowns attached.
type OverviewDTO struct {
	Semesters []SemesterDTO            `json:"semesters"`
	Courses   []CourseDTO              `json:"courses"`
	Rows      map[string][]GradeRowDTO `json:"rows"` // keyed by course ID

	// Breakdowns carries the derived result per course ID; a course with
	// no computable result is absent from the map, not zeroed.
	Breakdowns map[string]*BreakdownDTO `json:"breakdowns"`
}

// OverviewCache caches assembled overviews per user. Implementations are
// best-effort; a miss or error falls through to the repositories.
type OverviewCache interface {
	Get(ctx context.Context, userID string) (*OverviewDTO, bool)
	Set(ctx context.Context, userID string, o *OverviewDTO)
}

// GetOverviewQuery fetches the user's full overview.
type GetOverviewQuery struct {
	UserID string

	// BypassCache forces reassembly, used by the background refresher.
	BypassCache bool
}

// GetOverviewHandler handles GetOverviewQuery.
type GetOverviewHandler struct {
	semesters semester.Repository
	courses   course.Repository
	items     course.GradeItemRepository
	cache     OverviewCache
}

// NewGetOverviewHandler creates the handler. cache may be nil.
func NewGetOverviewHandler(
	semesters semester.Repository,
	courses course.Repository,
	items course.GradeItemRepository,
	cache OverviewCache,
) *GetOverviewHandler {
	return &GetOverviewHandler{semesters: semesters, courses: courses, items: items, cache: cache}
}

// Handle executes the query. Unauthenticated callers get an empty
// overview, not an error.
func (h *GetOverviewHandler) Handle(ctx context.Context, q GetOverviewQuery) (*OverviewDTO, error) {
	if q.UserID == "" {
		return &OverviewDTO{
			Semesters:  []SemesterDTO{},
			Courses:    []CourseDTO{},
			Rows:       map[string][]GradeRowDTO{},
			Breakdowns: map[string]*BreakdownDTO{},
		}, nil
	}

	if h.cache != nil && !q.BypassCache {
		if cached, ok := h.cache.Get(ctx, q.UserID); ok {
			return cached, nil
		}
	}

	sems, err := h.semesters.ListByUser(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("get_overview: %w", err)
	}
	crs, err := h.courses.ListByUser(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("get_overview: %w", err)
	}

	out := &OverviewDTO{
		Semesters:  make([]SemesterDTO, 0, len(sems)),
		Courses:    make([]CourseDTO, 0, len(crs)),
		Rows:       make(map[string][]GradeRowDTO, len(crs)),
		Breakdowns: make(map[string]*BreakdownDTO, len(crs)),
	}
	for _, s := range sems {
		out.Semesters = append(out.Semesters, toSemesterDTO(s))
	}

	for _, c := range crs {
		out.Courses = append(out.Courses, toCourseDTO(c))

		items, err := h.items.ListByCourse(ctx, q.UserID, c.ID)
		if err != nil {
			return nil, fmt.Errorf("get_overview: course %s: %w", c.ID, err)
		}

		rows := make([]GradeRowDTO, 0, len(items))
		plain := make([]course.GradeItem, 0, len(items))
		for _, it := range items {
			rows = append(rows, toGradeRowDTO(it))
			plain = append(plain, *it)
		}
		out.Rows[c.ID] = rows

		if bd := Breakdown(c, plain, DefaultTargetOverall); bd != nil {
			out.Breakdowns[c.ID] = bd
		}
	}

	if h.cache != nil {
		h.cache.Set(ctx, q.UserID, out)
	}
	return out, nil
}
