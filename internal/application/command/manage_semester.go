package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gradepoint/gradepoint/internal/domain/semester"
	"github.com/gradepoint/gradepoint/internal/domain/shared"
)

// CreateSemesterCommand creates a semester. A semester created in progress
// (or with MakeCurrent) becomes the single current term.
type CreateSemesterCommand struct {
	UserID      string
	Name        string
	Status      string // "in_progress" | "completed"
	MakeCurrent bool
}

// SetCurrentSemesterCommand makes an existing semester the current term.
type SetCurrentSemesterCommand struct {
	UserID     string
	SemesterID string
}

// RenameSemesterCommand renames a semester.
type RenameSemesterCommand struct {
	UserID     string
	SemesterID string
	Name       string
}

// UpdateSemesterStatusCommand transitions a semester between statuses.
type UpdateSemesterStatusCommand struct {
	UserID     string
	SemesterID string
	Status     string
}

// DeleteSemesterCommand deletes a semester with full cascade: its courses
// and their grade rows go with it, and if it was current the most recently
// created remaining in-progress semester is promoted.
type DeleteSemesterCommand struct {
	UserID     string
	SemesterID string
}

// SemesterHandler handles the semester lifecycle commands. The exclusivity
// and cascade semantics live in the repository so each operation is one
// atomic transaction; this layer does validation and orchestration only.
type SemesterHandler struct {
	semesters semester.Repository
	views     ViewInvalidator
}

// NewSemesterHandler creates the handler.
func NewSemesterHandler(semesters semester.Repository, views ViewInvalidator) *SemesterHandler {
	if views == nil {
		views = NopInvalidator{}
	}
	return &SemesterHandler{semesters: semesters, views: views}
}

// Create handles CreateSemesterCommand.
func (h *SemesterHandler) Create(ctx context.Context, cmd CreateSemesterCommand) (*semester.Semester, error) {
	if cmd.UserID == "" {
		return nil, fmt.Errorf("create_semester: %w", shared.ErrUnauthorized)
	}
	status, err := semester.ParseStatus(cmd.Status)
	if err != nil {
		return nil, fmt.Errorf("create_semester: %w", err)
	}

	s, err := semester.New(uuid.NewString(), cmd.UserID, cmd.Name, status, cmd.MakeCurrent)
	if err != nil {
		return nil, fmt.Errorf("create_semester: %w", err)
	}

	if err := h.semesters.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("create_semester: %w", err)
	}

	h.views.InvalidateUser(ctx, cmd.UserID)
	return s, nil
}

// SetCurrent handles SetCurrentSemesterCommand.
func (h *SemesterHandler) SetCurrent(ctx context.Context, cmd SetCurrentSemesterCommand) error {
	if cmd.UserID == "" {
		return fmt.Errorf("set_current_semester: %w", shared.ErrUnauthorized)
	}
	if cmd.SemesterID == "" {
		return fmt.Errorf("set_current_semester: %w", shared.ErrInvalidID)
	}

	if err := h.semesters.SetCurrent(ctx, cmd.UserID, cmd.SemesterID); err != nil {
		return fmt.Errorf("set_current_semester: %w", err)
	}

	h.views.InvalidateUser(ctx, cmd.UserID)
	return nil
}

// Rename handles RenameSemesterCommand.
func (h *SemesterHandler) Rename(ctx context.Context, cmd RenameSemesterCommand) error {
	if cmd.UserID == "" {
		return fmt.Errorf("rename_semester: %w", shared.ErrUnauthorized)
	}
	if strings.TrimSpace(cmd.Name) == "" {
		return fmt.Errorf("rename_semester: %w", shared.ErrEmptySemesterName)
	}

	if err := h.semesters.Rename(ctx, cmd.UserID, cmd.SemesterID, strings.TrimSpace(cmd.Name)); err != nil {
		return fmt.Errorf("rename_semester: %w", err)
	}

	h.views.InvalidateUser(ctx, cmd.UserID)
	return nil
}

// UpdateStatus handles UpdateSemesterStatusCommand.
func (h *SemesterHandler) UpdateStatus(ctx context.Context, cmd UpdateSemesterStatusCommand) error {
	if cmd.UserID == "" {
		return fmt.Errorf("update_semester_status: %w", shared.ErrUnauthorized)
	}
	status, err := semester.ParseStatus(cmd.Status)
	if err != nil {
		return fmt.Errorf("update_semester_status: %w", err)
	}

	if err := h.semesters.UpdateStatus(ctx, cmd.UserID, cmd.SemesterID, status); err != nil {
		return fmt.Errorf("update_semester_status: %w", err)
	}

	h.views.InvalidateUser(ctx, cmd.UserID)
	return nil
}

// Delete handles DeleteSemesterCommand.
func (h *SemesterHandler) Delete(ctx context.Context, cmd DeleteSemesterCommand) error {
	if cmd.UserID == "" {
		return fmt.Errorf("delete_semester: %w", shared.ErrUnauthorized)
	}
	if cmd.SemesterID == "" {
		return fmt.Errorf("delete_semester: %w", shared.ErrInvalidID)
	}

	if err := h.semesters.DeleteCascade(ctx, cmd.UserID, cmd.SemesterID); err != nil {
		return fmt.Errorf("delete_semester: %w", err)
	}

	h.views.InvalidateUser(ctx, cmd.UserID)
	return nil
}
