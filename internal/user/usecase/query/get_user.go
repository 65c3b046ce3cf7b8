package query

import (
	"context"

	"github.com/mextra/pos-backend/internal/user/domain"
)

// GetUserQuery looks up one staff account by id
type GetUserQuery struct {
	ID uint
}

// GetUserHandler handles the user lookup query
type GetUserHandler struct {
	repo domain.UserRepository
}

// NewGetUserHandler creates a new get user handler
func NewGetUserHandler(repo domain.UserRepository) *GetUserHandler {
	return &GetUserHandler{repo: repo}
}

// Handle executes the get user query
func (h *GetUserHandler) Handle(ctx context.Context, q GetUserQuery) (*domain.User, error) {
	return h.repo.FindByID(ctx, q.ID)
}
