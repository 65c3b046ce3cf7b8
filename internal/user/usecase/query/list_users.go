package query

import (
	"context"

	"github.com/mextra/pos-backend/internal/user/domain"
)

// ListUsersQuery pages through the staff roster
type ListUsersQuery struct {
	Limit  int
	Offset int
}

// ListUsersHandler handles the roster listing query
type ListUsersHandler struct {
	repo domain.UserRepository
}

// NewListUsersHandler creates a new list users handler
func NewListUsersHandler(repo domain.UserRepository) *ListUsersHandler {
	return &ListUsersHandler{repo: repo}
}

// Handle executes the list users query
func (h *ListUsersHandler) Handle(ctx context.Context, q ListUsersQuery) ([]domain.User, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 100
	}
	return h.repo.FindAll(ctx, limit, q.Offset)
}
