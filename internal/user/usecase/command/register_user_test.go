package command_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/mextra/pos-backend/internal/user/domain"
	"github.com/mextra/pos-backend/internal/user/usecase/command"
	"github.com/mextra/pos-backend/pkg/apperr"
	"github.com/mextra/pos-backend/pkg/auth"
)

// fakeUserRepo is an in-memory UserRepository.
type fakeUserRepo struct {
	users  map[uint]*domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uint]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.nextID++
	user.ID = r.nextID
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, fmt.Errorf("%w: user %d", apperr.ErrNotFound, id)
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: user %s", apperr.ErrNotFound, username)
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("%w: email %s", apperr.ErrNotFound, email)
}

func (r *fakeUserRepo) FindAll(ctx context.Context, limit, offset int) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return fmt.Errorf("%w: user %d", apperr.ErrNotFound, user.ID)
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uint) error {
	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("%w: user %d", apperr.ErrNotFound, id)
	}
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(r.users)), nil
}

func (r *fakeUserRepo) CountByRole(ctx context.Context, role string) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func register(t *testing.T, repo *fakeUserRepo, username, role string) *domain.User {
	t.Helper()
	handler := command.NewRegisterUserHandler(repo)
	user, err := handler.Handle(context.Background(), command.RegisterUserCommand{
		Username: username,
		Email:    username + "@shop.local",
		Password: "secret123",
		FullName: "Test Staff",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return user
}

func TestRegisterUserDefaultsToCashierAndHashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	user := register(t, repo, "jamie", "")

	if user.Role != domain.RoleCashier {
		t.Errorf("role = %q, want default cashier", user.Role)
	}
	if !user.IsActive {
		t.Error("new account should be active")
	}
	if user.Password == "secret123" {
		t.Error("password stored in plain text")
	}
	if !auth.CheckPassword(user.Password, "secret123") {
		t.Error("stored hash does not verify against the original password")
	}
}

func TestRegisterUserRejectsDuplicates(t *testing.T) {
	repo := newFakeUserRepo()
	register(t, repo, "jamie", "")
	handler := command.NewRegisterUserHandler(repo)

	_, err := handler.Handle(context.Background(), command.RegisterUserCommand{
		Username: "jamie",
		Email:    "other@shop.local",
		Password: "secret123",
		FullName: "Other",
	})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("duplicate username: err = %v, want ErrConflict", err)
	}

	_, err = handler.Handle(context.Background(), command.RegisterUserCommand{
		Username: "sam",
		Email:    "jamie@shop.local",
		Password: "secret123",
		FullName: "Sam",
	})
	if !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("duplicate email: err = %v, want ErrConflict", err)
	}
}

func TestRegisterUserValidation(t *testing.T) {
	handler := command.NewRegisterUserHandler(newFakeUserRepo())

	cases := []command.RegisterUserCommand{
		{Email: "a@b.c", Password: "secret123", FullName: "X"},
		{Username: "a", Password: "secret123", FullName: "X"},
		{Username: "a", Email: "a@b.c", FullName: "X"},
		{Username: "a", Email: "a@b.c", Password: "short", FullName: "X"},
		{Username: "a", Email: "a@b.c", Password: "secret123"},
		{Username: "a", Email: "a@b.c", Password: "secret123", FullName: "X", Role: "superuser"},
	}
	for i, cmd := range cases {
		if _, err := handler.Handle(context.Background(), cmd); !errors.Is(err, apperr.ErrInvalidRequest) {
			t.Errorf("case %d: err = %v, want ErrInvalidRequest", i, err)
		}
	}
}

func TestLoginUserIssuesTokenForValidCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	register(t, repo, "jamie", domain.RoleManager)
	handler := command.NewLoginUserHandler(repo)

	resp, err := handler.Handle(context.Background(), command.LoginUserCommand{
		Username: "jamie",
		Password: "secret123",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("empty token")
	}

	claims, err := auth.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Username != "jamie" || claims.Role != domain.RoleManager {
		t.Errorf("claims = %s/%s, want jamie/manager", claims.Username, claims.Role)
	}
}

func TestLoginUserUniformErrorForUnknownUserAndWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	register(t, repo, "jamie", "")
	handler := command.NewLoginUserHandler(repo)

	_, errUnknown := handler.Handle(context.Background(), command.LoginUserCommand{
		Username: "ghost", Password: "secret123",
	})
	_, errWrongPw := handler.Handle(context.Background(), command.LoginUserCommand{
		Username: "jamie", Password: "wrong",
	})

	if !errors.Is(errUnknown, apperr.ErrInvalidRequest) || !errors.Is(errWrongPw, apperr.ErrInvalidRequest) {
		t.Fatalf("errs = %v / %v, want ErrInvalidRequest for both", errUnknown, errWrongPw)
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Errorf("error messages differ (%q vs %q), enabling username probing",
			errUnknown, errWrongPw)
	}
}

func TestLoginUserRejectsDeactivatedAccount(t *testing.T) {
	repo := newFakeUserRepo()
	user := register(t, repo, "jamie", "")

	toggle := command.NewToggleActiveHandler(repo)
	if _, err := toggle.Handle(context.Background(), command.ToggleActiveCommand{UserID: user.ID, IsActive: false}); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	handler := command.NewLoginUserHandler(repo)
	_, err := handler.Handle(context.Background(), command.LoginUserCommand{
		Username: "jamie", Password: "secret123",
	})
	if !errors.Is(err, apperr.ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest for deactivated account", err)
	}
}

func TestChangeRoleValidatesAndPersists(t *testing.T) {
	repo := newFakeUserRepo()
	user := register(t, repo, "jamie", "")
	handler := command.NewChangeRoleHandler(repo)

	updated, err := handler.Handle(context.Background(), command.ChangeRoleCommand{
		UserID: user.ID,
		Role:   domain.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Errorf("role = %q, want admin", updated.Role)
	}
	stored, _ := repo.FindByID(context.Background(), user.ID)
	if stored.Role != domain.RoleAdmin {
		t.Errorf("persisted role = %q, want admin", stored.Role)
	}

	if _, err := handler.Handle(context.Background(), command.ChangeRoleCommand{UserID: user.ID, Role: "root"}); !errors.Is(err, apperr.ErrInvalidRequest) {
		t.Errorf("invalid role: err = %v, want ErrInvalidRequest", err)
	}
	if _, err := handler.Handle(context.Background(), command.ChangeRoleCommand{UserID: 999, Role: domain.RoleManager}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing user: err = %v, want ErrNotFound", err)
	}
}
