package command

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gradepoint/gradepoint/internal/domain/course"
	"github.com/gradepoint/gradepoint/internal/domain/grading"
	"github.com/gradepoint/gradepoint/internal/domain/shared"
)

// UpsertGradeRowCommand saves one grade row, keyed by the client-assigned
// RowKey. Saving the same key again updates the row in place, so the
// client can fire a save on every keystroke without creating duplicates.
type UpsertGradeRowCommand struct {
	UserID   string
	CourseID string
	RowKey   string

	AssignmentName string
	GradeInput     string
	WeightInput    string
}

// Validate checks the command.
func (c UpsertGradeRowCommand) Validate() error {
	if c.UserID == "" {
		return shared.ErrUnauthorized
	}
	if c.CourseID == "" || c.RowKey == "" {
		return shared.ErrInvalidID
	}
	return nil
}

// UpsertGradeRowHandler handles UpsertGradeRowCommand.
type UpsertGradeRowHandler struct {
	courses course.Repository
	items   course.GradeItemRepository
	views   ViewInvalidator
}

// NewUpsertGradeRowHandler creates the handler.
func NewUpsertGradeRowHandler(courses course.Repository, items course.GradeItemRepository, views ViewInvalidator) *UpsertGradeRowHandler {
	if views == nil {
		views = NopInvalidator{}
	}
	return &UpsertGradeRowHandler{courses: courses, items: items, views: views}
}

// Handle executes the command and returns the stored item.
//
// The raw inputs are stored verbatim so the UI round-trips exactly what
// the user typed; the resolved numeric grade and weight are stored
// alongside with a 0 fallback for display-side consumers. The weighted
// average engine itself re-resolves from the raw input, so the fallback
// never leaks into computed averages.
func (h *UpsertGradeRowHandler) Handle(ctx context.Context, cmd UpsertGradeRowCommand) (*course.GradeItem, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("upsert_grade_row: %w", err)
	}

	// Ownership check doubles as the grade-type lookup.
	c, err := h.courses.GetByID(ctx, cmd.UserID, cmd.CourseID)
	if err != nil {
		return nil, fmt.Errorf("upsert_grade_row: %w", err)
	}

	item := &course.GradeItem{
		ID:             uuid.NewString(),
		CourseID:       cmd.CourseID,
		RowKey:         cmd.RowKey,
		AssignmentName: strings.TrimSpace(cmd.AssignmentName),
		GradeInput:     cmd.GradeInput,
		NumericGrade:   resolveStoredGrade(cmd.GradeInput, c.GradeType),
		WeightInput:    cmd.WeightInput,
		Weight:         resolveStoredWeight(cmd.WeightInput),
		CreatedAt:      time.Now().UTC(),
	}

	if err := h.items.Upsert(ctx, cmd.UserID, item); err != nil {
		return nil, fmt.Errorf("upsert_grade_row: %w", err)
	}

	h.views.InvalidateUser(ctx, cmd.UserID)
	return item, nil
}

// resolveStoredGrade mirrors the save-path resolution: letters go through
// the midpoint table, numbers are parsed, and anything unresolvable is
// stored as 0.
func resolveStoredGrade(input string, t grading.GradeType) float64 {
	if t == grading.GradeTypeLetters {
		if p, ok := grading.LetterPercent(input); ok {
			return p
		}
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// resolveStoredWeight parses the raw weight; non-positive or unparsable
// weights are stored as 0 (the row exists but carries no weight yet).
func resolveStoredWeight(input string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0
	}
	return v
}
