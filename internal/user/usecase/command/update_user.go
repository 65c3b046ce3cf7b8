package command

import (
	"context"
	"fmt"
	"time"

	"github.com/mextra/pos-backend/internal/user/domain"
	"github.com/mextra/pos-backend/pkg/apperr"
	"github.com/mextra/pos-backend/pkg/auth"
)

// UpdateUserCommand patches a staff account. Nil fields are left unchanged.
type UpdateUserCommand struct {
	UserID   uint
	Email    *string
	FullName *string
	Password *string
}

// UpdateUserHandler handles account updates
type UpdateUserHandler struct {
	repo domain.UserRepository
}

// NewUpdateUserHandler creates a new update user handler
func NewUpdateUserHandler(repo domain.UserRepository) *UpdateUserHandler {
	return &UpdateUserHandler{repo: repo}
}

// Handle executes the update user command
func (h *UpdateUserHandler) Handle(ctx context.Context, cmd UpdateUserCommand) (*domain.User, error) {
	if cmd.UserID == 0 {
		return nil, fmt.Errorf("%w: invalid user id", apperr.ErrInvalidRequest)
	}

	user, err := h.repo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
	}

	if cmd.Email != nil && *cmd.Email != user.Email {
		if existing, _ := h.repo.FindByEmail(ctx, *cmd.Email); existing != nil {
			return nil, fmt.Errorf("%w: email already exists", apperr.ErrConflict)
		}
		user.Email = *cmd.Email
	}
	if cmd.FullName != nil {
		user.FullName = *cmd.FullName
	}
	if cmd.Password != nil {
		if len(*cmd.Password) < 6 {
			return nil, fmt.Errorf("%w: password must be at least 6 characters", apperr.ErrInvalidRequest)
		}
		hashed, err := auth.HashPassword(*cmd.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = hashed
	}

	user.UpdatedAt = time.Now()
	if err := h.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}
