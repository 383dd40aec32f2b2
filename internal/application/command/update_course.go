package command

import (
	"context"
	"fmt"

	"github.com/gradepoint/gradepoint/internal/domain/course"
	"github.com/gradepoint/gradepoint/internal/domain/grading"
	"github.com/gradepoint/gradepoint/internal/domain/semester"
	"github.com/gradepoint/gradepoint/internal/domain/shared"
)

// UpdateCourseHandler groups the single-field course updates. Each method
// loads the course scoped to the acting user (a foreign ID reads as not
// found), applies one validated change, and writes the whole record back -
// value semantics, no in-place patching.
type UpdateCourseHandler struct {
	courses   course.Repository
	semesters semester.Repository
	views     ViewInvalidator
}

// NewUpdateCourseHandler creates the handler.
func NewUpdateCourseHandler(courses course.Repository, semesters semester.Repository, views ViewInvalidator) *UpdateCourseHandler {
	if views == nil {
		views = NopInvalidator{}
	}
	return &UpdateCourseHandler{courses: courses, semesters: semesters, views: views}
}

// RenameCourseCommand renames a course.
type RenameCourseCommand struct {
	UserID   string
	CourseID string
	Name     string
}

// Rename handles RenameCourseCommand.
func (h *UpdateCourseHandler) Rename(ctx context.Context, cmd RenameCourseCommand) error {
	return h.apply(ctx, cmd.UserID, cmd.CourseID, "rename_course", func(c *course.Course) error {
		return c.Rename(cmd.Name)
	})
}

// UpdateCourseCreditsCommand changes a course's credit hours.
type UpdateCourseCreditsCommand struct {
	UserID   string
	CourseID string
	Credits  float64
}

// UpdateCredits handles UpdateCourseCreditsCommand.
func (h *UpdateCourseHandler) UpdateCredits(ctx context.Context, cmd UpdateCourseCreditsCommand) error {
	return h.apply(ctx, cmd.UserID, cmd.CourseID, "update_course_credits", func(c *course.Course) error {
		return c.SetCreditHours(cmd.Credits)
	})
}

// UpdateCourseGradeTypeCommand changes how grade input is interpreted.
type UpdateCourseGradeTypeCommand struct {
	UserID   string
	CourseID string
	GradeType grading.GradeType
}

// UpdateGradeType handles UpdateCourseGradeTypeCommand.
func (h *UpdateCourseHandler) UpdateGradeType(ctx context.Context, cmd UpdateCourseGradeTypeCommand) error {
	return h.apply(ctx, cmd.UserID, cmd.CourseID, "update_course_grade_type", func(c *course.Course) error {
		return c.SetGradeType(cmd.GradeType)
	})
}

// UpdateCourseScaleCommand installs a custom letter scale. An empty scale
// reverts the course to the default.
type UpdateCourseScaleCommand struct {
	UserID   string
	CourseID string
	Scale    grading.Scale
}

// UpdateScale handles UpdateCourseScaleCommand. The scale is validated
// before the write; a bad scale leaves the stored one untouched.
func (h *UpdateCourseHandler) UpdateScale(ctx context.Context, cmd UpdateCourseScaleCommand) error {
	return h.apply(ctx, cmd.UserID, cmd.CourseID, "update_course_scale", func(c *course.Course) error {
		if len(cmd.Scale) == 0 {
			c.ClearScale()
			return nil
		}
		return c.SetScale(cmd.Scale)
	})
}

// AssignCourseSemesterCommand links a course to a semester, or detaches it
// with an empty SemesterID.
type AssignCourseSemesterCommand struct {
	UserID     string
	CourseID   string
	SemesterID string
}

// AssignSemester handles AssignCourseSemesterCommand.
func (h *UpdateCourseHandler) AssignSemester(ctx context.Context, cmd AssignCourseSemesterCommand) error {
	if cmd.SemesterID != "" {
		if _, err := h.semesters.GetByID(ctx, cmd.UserID, cmd.SemesterID); err != nil {
			return fmt.Errorf("assign_course_semester: %w", err)
		}
	}
	return h.apply(ctx, cmd.UserID, cmd.CourseID, "assign_course_semester", func(c *course.Course) error {
		c.AssignSemester(cmd.SemesterID)
		return nil
	})
}

func (h *UpdateCourseHandler) apply(ctx context.Context, userID, courseID, op string, mutate func(*course.Course) error) error {
	if userID == "" {
		return fmt.Errorf("%s: %w", op, shared.ErrUnauthorized)
	}

	c, err := h.courses.GetByID(ctx, userID, courseID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := mutate(c); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := h.courses.Update(ctx, c); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	h.views.InvalidateUser(ctx, userID)
	return nil
}
