package command

import (
	"context"
	"fmt"

	"github.com/mextra/pos-backend/internal/user/domain"
	"github.com/mextra/pos-backend/pkg/apperr"
)

// DeleteUserCommand soft-deletes a staff account (admin only)
type DeleteUserCommand struct {
	UserID uint
}

// DeleteUserHandler handles account deletion
type DeleteUserHandler struct {
	repo domain.UserRepository
}

// NewDeleteUserHandler creates a new delete user handler
func NewDeleteUserHandler(repo domain.UserRepository) *DeleteUserHandler {
	return &DeleteUserHandler{repo: repo}
}

// Handle executes the delete user command
func (h *DeleteUserHandler) Handle(ctx context.Context, cmd DeleteUserCommand) error {
	if cmd.UserID == 0 {
		return fmt.Errorf("%w: invalid user id", apperr.ErrInvalidRequest)
	}
	return h.repo.Delete(ctx, cmd.UserID)
}
