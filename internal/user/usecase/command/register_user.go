package command

import (
	"context"
	"fmt"
	"time"

	"github.com/mextra/pos-backend/internal/user/domain"
	"github.com/mextra/pos-backend/pkg/apperr"
	"github.com/mextra/pos-backend/pkg/auth"
)

// RegisterUserCommand represents the command to register a staff account
type RegisterUserCommand struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     string // Optional, defaults to "cashier"
}

// RegisterUserHandler handles staff registration
type RegisterUserHandler struct {
	repo domain.UserRepository
}

// NewRegisterUserHandler creates a new register user handler
func NewRegisterUserHandler(repo domain.UserRepository) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

// Handle executes the register user command
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*domain.User, error) {
	if cmd.Username == "" {
		return nil, fmt.Errorf("%w: username is required", apperr.ErrInvalidRequest)
	}
	if cmd.Email == "" {
		return nil, fmt.Errorf("%w: email is required", apperr.ErrInvalidRequest)
	}
	if cmd.Password == "" {
		return nil, fmt.Errorf("%w: password is required", apperr.ErrInvalidRequest)
	}
	if len(cmd.Password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", apperr.ErrInvalidRequest)
	}
	if cmd.FullName == "" {
		return nil, fmt.Errorf("%w: full name is required", apperr.ErrInvalidRequest)
	}

	if existing, _ := h.repo.FindByUsername(ctx, cmd.Username); existing != nil {
		return nil, fmt.Errorf("%w: username already exists", apperr.ErrConflict)
	}
	if existing, _ := h.repo.FindByEmail(ctx, cmd.Email); existing != nil {
		return nil, fmt.Errorf("%w: email already exists", apperr.ErrConflict)
	}

	hashedPassword, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := cmd.Role
	if role == "" {
		role = domain.RoleCashier
	}
	if !domain.ValidRole(role) {
		return nil, fmt.Errorf("%w: invalid role %q", apperr.ErrInvalidRequest, role)
	}

	user := &domain.User{
		Username:  cmd.Username,
		Email:     cmd.Email,
		Password:  hashedPassword,
		FullName:  cmd.FullName,
		Role:      role,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := h.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}
