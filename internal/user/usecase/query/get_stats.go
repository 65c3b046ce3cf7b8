package query

import (
	"context"

	"github.com/mextra/pos-backend/internal/user/domain"
)

// GetStatsQuery requests the roster role breakdown
type GetStatsQuery struct{}

// GetStatsHandler handles the stats query
type GetStatsHandler struct {
	repo domain.UserRepository
}

// NewGetStatsHandler creates a new stats handler
func NewGetStatsHandler(repo domain.UserRepository) *GetStatsHandler {
	return &GetStatsHandler{repo: repo}
}

// Handle counts the roster overall and per role
func (h *GetStatsHandler) Handle(ctx context.Context, _ GetStatsQuery) (*domain.UserStats, error) {
	total, err := h.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	admins, err := h.repo.CountByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	managers, err := h.repo.CountByRole(ctx, domain.RoleManager)
	if err != nil {
		return nil, err
	}
	cashiers, err := h.repo.CountByRole(ctx, domain.RoleCashier)
	if err != nil {
		return nil, err
	}

	return &domain.UserStats{
		Total:    total,
		Admins:   admins,
		Managers: managers,
		Cashiers: cashiers,
	}, nil
}
