package command

import (
	"context"
	"fmt"

	"github.com/gradepoint/gradepoint/internal/domain/course"
	"github.com/gradepoint/gradepoint/internal/domain/shared"
)

// DeleteCourseCommand removes a course and, by cascade, every grade item
// it owns.
type DeleteCourseCommand struct {
	UserID   string
	CourseID string
}

// DeleteCourseHandler handles DeleteCourseCommand.
type DeleteCourseHandler struct {
	courses course.Repository
	views   ViewInvalidator
}

// NewDeleteCourseHandler creates the handler.
func NewDeleteCourseHandler(courses course.Repository, views ViewInvalidator) *DeleteCourseHandler {
	if views == nil {
		views = NopInvalidator{}
	}
	return &DeleteCourseHandler{courses: courses, views: views}
}

// Handle executes the command. The repository deletes course and grade
// rows in one transaction, so a failure leaves everything in place.
func (h *DeleteCourseHandler) Handle(ctx context.Context, cmd DeleteCourseCommand) error {
	if cmd.UserID == "" {
		return fmt.Errorf("delete_course: %w", shared.ErrUnauthorized)
	}
	if cmd.CourseID == "" {
		return fmt.Errorf("delete_course: %w", shared.ErrInvalidID)
	}

	if err := h.courses.Delete(ctx, cmd.UserID, cmd.CourseID); err != nil {
		return fmt.Errorf("delete_course: %w", err)
	}

	h.views.InvalidateUser(ctx, cmd.UserID)
	return nil
}
