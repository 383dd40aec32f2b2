package command

import (
	"context"
	"fmt"

	"github.com/gradepoint/gradepoint/internal/domain/course"
	"github.com/gradepoint/gradepoint/internal/domain/shared"
)

// RemoveGradeRowCommand deletes a single grade row by its client key.
type RemoveGradeRowCommand struct {
	UserID   string
	CourseID string
	RowKey   string
}

// ClearCourseGradesCommand deletes every grade row of a course.
type ClearCourseGradesCommand struct {
	UserID   string
	CourseID string
}

// GradeRowDeleteHandler handles both row-deletion commands.
type GradeRowDeleteHandler struct {
	courses course.Repository
	items   course.GradeItemRepository
	views   ViewInvalidator
}

// NewGradeRowDeleteHandler creates the handler.
func NewGradeRowDeleteHandler(courses course.Repository, items course.GradeItemRepository, views ViewInvalidator) *GradeRowDeleteHandler {
	if views == nil {
		views = NopInvalidator{}
	}
	return &GradeRowDeleteHandler{courses: courses, items: items, views: views}
}

// Remove handles RemoveGradeRowCommand. Deleting a key that was never
// saved is a no-op, not an error - the client may delete a row the
// debounced save never flushed.
func (h *GradeRowDeleteHandler) Remove(ctx context.Context, cmd RemoveGradeRowCommand) error {
	if cmd.UserID == "" {
		return fmt.Errorf("remove_grade_row: %w", shared.ErrUnauthorized)
	}
	if cmd.CourseID == "" || cmd.RowKey == "" {
		return fmt.Errorf("remove_grade_row: %w", shared.ErrInvalidID)
	}

	if _, err := h.courses.GetByID(ctx, cmd.UserID, cmd.CourseID); err != nil {
		return fmt.Errorf("remove_grade_row: %w", err)
	}
	if err := h.items.DeleteByKey(ctx, cmd.UserID, cmd.CourseID, cmd.RowKey); err != nil {
		return fmt.Errorf("remove_grade_row: %w", err)
	}

	h.views.InvalidateUser(ctx, cmd.UserID)
	return nil
}

// Clear handles ClearCourseGradesCommand.
func (h *GradeRowDeleteHandler) Clear(ctx context.Context, cmd ClearCourseGradesCommand) error {
	if cmd.UserID == "" {
		return fmt.Errorf("clear_course_grades: %w", shared.ErrUnauthorized)
	}
	if cmd.CourseID == "" {
		return fmt.Errorf("clear_course_grades: %w", shared.ErrInvalidID)
	}

	if _, err := h.courses.GetByID(ctx, cmd.UserID, cmd.CourseID); err != nil {
		return fmt.Errorf("clear_course_grades: %w", err)
	}
	if err := h.items.DeleteByCourse(ctx, cmd.UserID, cmd.CourseID); err != nil {
		return fmt.Errorf("clear_course_grades: %w", err)
	}

	h.views.InvalidateUser(ctx, cmd.UserID)
	return nil
}
