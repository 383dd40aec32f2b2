package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gradepoint/gradepoint/internal/domain/course"
	"github.com/gradepoint/gradepoint/internal/domain/semester"
	"github.com/gradepoint/gradepoint/internal/domain/shared"
)

// CreateCourseCommand creates a course for the acting user, optionally
// attached to one of their semesters.
type CreateCourseCommand struct {
	UserID      string
	Name        string
	SemesterID  string  // optional
	CreditHours float64 // 0 = default
}

// Validate checks the command.
func (c CreateCourseCommand) Validate() error {
	if c.UserID == "" {
		return shared.ErrUnauthorized
	}
	if strings.TrimSpace(c.Name) == "" {
		return shared.ErrEmptyCourseName
	}
	if c.CreditHours < 0 {
		return shared.ErrInvalidCredits
	}
	return nil
}

// CreateCourseHandler handles CreateCourseCommand.
type CreateCourseHandler struct {
	courses   course.Repository
	semesters semester.Repository
	views     ViewInvalidator
}

// NewCreateCourseHandler creates the handler.
func NewCreateCourseHandler(courses course.Repository, semesters semester.Repository, views ViewInvalidator) *CreateCourseHandler {
	if views == nil {
		views = NopInvalidator{}
	}
	return &CreateCourseHandler{courses: courses, semesters: semesters, views: views}
}

// Handle executes the command and returns the created course.
func (h *CreateCourseHandler) Handle(ctx context.Context, cmd CreateCourseCommand) (*course.Course, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("create_course: %w", err)
	}

	// A semester reference must exist and belong to the acting user
	// before anything is written.
	if cmd.SemesterID != "" {
		if _, err := h.semesters.GetByID(ctx, cmd.UserID, cmd.SemesterID); err != nil {
			return nil, fmt.Errorf("create_course: %w", err)
		}
	}

	c, err := course.New(uuid.NewString(), cmd.UserID, cmd.Name)
	if err != nil {
		return nil, fmt.Errorf("create_course: %w", err)
	}
	if cmd.SemesterID != "" {
		c.AssignSemester(cmd.SemesterID)
	}
	if cmd.CreditHours > 0 {
		if err := c.SetCreditHours(cmd.CreditHours); err != nil {
			return nil, fmt.Errorf("create_course: %w", err)
		}
	}

	if err := h.courses.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create_course: %w", err)
	}

	h.views.InvalidateUser(ctx, cmd.UserID)
	return c, nil
}
