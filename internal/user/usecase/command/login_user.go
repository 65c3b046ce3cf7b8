package command

import (
	"context"
	"fmt"

	"github.com/mextra/pos-backend/internal/user/domain"
	"github.com/mextra/pos-backend/pkg/apperr"
	"github.com/mextra/pos-backend/pkg/auth"
)

// LoginUserCommand represents the command to login a staff member
type LoginUserCommand struct {
	Username string
	Password string
}

// LoginResponse represents the response after successful login
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// LoginUserHandler handles staff login
type LoginUserHandler struct {
	repo domain.UserRepository
}

// NewLoginUserHandler creates a new login user handler
func NewLoginUserHandler(repo domain.UserRepository) *LoginUserHandler {
	return &LoginUserHandler{repo: repo}
}

// Handle executes the login command. Unknown users and wrong passwords
// return the same error so callers cannot probe for usernames.
func (h *LoginUserHandler) Handle(ctx context.Context, cmd LoginUserCommand) (*LoginResponse, error) {
	if cmd.Username == "" {
		return nil, fmt.Errorf("%w: username is required", apperr.ErrInvalidRequest)
	}
	if cmd.Password == "" {
		return nil, fmt.Errorf("%w: password is required", apperr.ErrInvalidRequest)
	}

	user, err := h.repo.FindByUsername(ctx, cmd.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", apperr.ErrInvalidRequest)
	}

	if !user.IsActive {
		return nil, fmt.Errorf("%w: account is deactivated", apperr.ErrInvalidRequest)
	}

	if !auth.CheckPassword(user.Password, cmd.Password) {
		return nil, fmt.Errorf("%w: invalid credentials", apperr.ErrInvalidRequest)
	}

	token, err := auth.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResponse{
		Token: token,
		User:  user,
	}, nil
}
