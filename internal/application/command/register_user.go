package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gradepoint/gradepoint/internal/domain/shared"
	"github.com/gradepoint/gradepoint/internal/domain/user"
)

// RegisterUserCommand creates an account. The secret is the API
// credential the client presents in the bearer token; only its hash is
// stored.
type RegisterUserCommand struct {
	Email       string
	DisplayName string
	Secret      string
}

// RegisterUserHandler handles RegisterUserCommand.
type RegisterUserHandler struct {
	users user.Repository
}

// NewRegisterUserHandler creates the handler.
func NewRegisterUserHandler(users user.Repository) *RegisterUserHandler {
	return &RegisterUserHandler{users: users}
}

// Handle executes the command and returns the created user. Email
// uniqueness is enforced by the repository, so a duplicate registration
// surfaces as shared.ErrUserAlreadyExists regardless of interleaving.
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*user.User, error) {
	u, err := user.New(uuid.NewString(), cmd.Email, cmd.DisplayName, cmd.Secret)
	if err != nil {
		return nil, fmt.Errorf("register_user: %w", err)
	}

	if _, err := h.users.GetByEmail(ctx, cmd.Email); err == nil {
		return nil, fmt.Errorf("register_user: %w", shared.ErrUserAlreadyExists)
	}

	if err := h.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("register_user: %w", err)
	}
	return u, nil
}
