package command

import (
	"context"
	"fmt"
	"time"

	"github.com/mextra/pos-backend/internal/user/domain"
	"github.com/mextra/pos-backend/pkg/apperr"
)

// ChangeRoleCommand represents the command to change a staff role (admin only)
type ChangeRoleCommand struct {
	UserID uint
	Role   string
}

// ChangeRoleHandler handles role changes
type ChangeRoleHandler struct {
	repo domain.UserRepository
}

// NewChangeRoleHandler creates a new change role handler
func NewChangeRoleHandler(repo domain.UserRepository) *ChangeRoleHandler {
	return &ChangeRoleHandler{repo: repo}
}

// Handle executes the change role command
func (h *ChangeRoleHandler) Handle(ctx context.Context, cmd ChangeRoleCommand) (*domain.User, error) {
	if cmd.UserID == 0 {
		return nil, fmt.Errorf("%w: invalid user id", apperr.ErrInvalidRequest)
	}
	if !domain.ValidRole(cmd.Role) {
		return nil, fmt.Errorf("%w: invalid role %q", apperr.ErrInvalidRequest, cmd.Role)
	}

	user, err := h.repo.FindByID(ctx, cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: user not found", apperr.ErrNotFound)
	}

	user.Role = cmd.Role
	user.UpdatedAt = time.Now()

	if err := h.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}

	return user, nil
}
