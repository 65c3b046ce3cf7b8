package query_test

import (
	"context"
	"testing"

	"github.com/mextra/pos-backend/internal/user/domain"
	"github.com/mextra/pos-backend/internal/user/usecase/query"
)

// statsRepo stubs just what the roster queries touch.
type statsRepo struct {
	users []domain.User

	lastLimit  int
	lastOffset int
}

func (r *statsRepo) Create(ctx context.Context, user *domain.User) error { return nil }

func (r *statsRepo) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	return nil, nil
}

func (r *statsRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return nil, nil
}

func (r *statsRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, nil
}

func (r *statsRepo) FindAll(ctx context.Context, limit, offset int) ([]domain.User, error) {
	r.lastLimit = limit
	r.lastOffset = offset
	return r.users, nil
}

func (r *statsRepo) Update(ctx context.Context, user *domain.User) error { return nil }
func (r *statsRepo) Delete(ctx context.Context, id uint) error           { return nil }

func (r *statsRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *statsRepo) CountByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func TestGetStatsBreaksRosterDownByRole(t *testing.T) {
	repo := &statsRepo{users: []domain.User{
		{ID: 1, Role: domain.RoleAdmin},
		{ID: 2, Role: domain.RoleManager},
		{ID: 3, Role: domain.RoleCashier},
		{ID: 4, Role: domain.RoleCashier},
	}}
	handler := query.NewGetStatsHandler(repo)

	stats, err := handler.Handle(context.Background(), query.GetStatsQuery{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if stats.Total != 4 || stats.Admins != 1 || stats.Managers != 1 || stats.Cashiers != 2 {
		t.Errorf("stats = %+v, want total 4, admins 1, managers 1, cashiers 2", stats)
	}
}

func TestListUsersDefaultsLimit(t *testing.T) {
	repo := &statsRepo{}
	handler := query.NewListUsersHandler(repo)

	if _, err := handler.Handle(context.Background(), query.ListUsersQuery{}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if repo.lastLimit != 100 {
		t.Errorf("limit = %d, want default 100", repo.lastLimit)
	}

	if _, err := handler.Handle(context.Background(), query.ListUsersQuery{Limit: 25, Offset: 50}); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if repo.lastLimit != 25 || repo.lastOffset != 50 {
		t.Errorf("limit/offset = %d/%d, want 25/50", repo.lastLimit, repo.lastOffset)
	}
}
