package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/mextra/pos-backend/internal/user/domain"
)

var tracer = otel.Tracer("user-repository")

// TracingUserRepository decorates a UserRepository with per-call spans
type TracingUserRepository struct {
	inner domain.UserRepository
}

// NewTracingUserRepository wraps the GORM repository with tracing
func NewTracingUserRepository(db *gorm.DB) *TracingUserRepository {
	return &TracingUserRepository{inner: NewGormUserRepository(db)}
}

func (r *TracingUserRepository) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	ctx, span := tracer.Start(ctx, name)
	span.SetAttributes(attrs...)
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

func (r *TracingUserRepository) Create(ctx context.Context, user *domain.User) error {
	ctx, done := r.span(ctx, "repository.Create",
		attribute.String("user.username", user.Username),
	)
	err := r.inner.Create(ctx, user)
	done(err)
	return err
}

func (r *TracingUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	ctx, done := r.span(ctx, "repository.FindByID", attribute.Int("user.id", int(id)))
	user, err := r.inner.FindByID(ctx, id)
	done(err)
	return user, err
}

func (r *TracingUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, done := r.span(ctx, "repository.FindByUsername",
		attribute.String("user.username", username),
	)
	user, err := r.inner.FindByUsername(ctx, username)
	done(err)
	return user, err
}

func (r *TracingUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, done := r.span(ctx, "repository.FindByEmail")
	user, err := r.inner.FindByEmail(ctx, email)
	done(err)
	return user, err
}

func (r *TracingUserRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.User, error) {
	ctx, done := r.span(ctx, "repository.FindAll",
		attribute.Int("limit", limit),
		attribute.Int("offset", offset),
	)
	users, err := r.inner.FindAll(ctx, limit, offset)
	done(err)
	return users, err
}

func (r *TracingUserRepository) Update(ctx context.Context, user *domain.User) error {
	ctx, done := r.span(ctx, "repository.Update", attribute.Int("user.id", int(user.ID)))
	err := r.inner.Update(ctx, user)
	done(err)
	return err
}

func (r *TracingUserRepository) Delete(ctx context.Context, id uint) error {
	ctx, done := r.span(ctx, "repository.Delete", attribute.Int("user.id", int(id)))
	err := r.inner.Delete(ctx, id)
	done(err)
	return err
}

func (r *TracingUserRepository) Count(ctx context.Context) (int64, error) {
	ctx, done := r.span(ctx, "repository.Count")
	count, err := r.inner.Count(ctx)
	done(err)
	return count, err
}

func (r *TracingUserRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	ctx, done := r.span(ctx, "repository.CountByRole", attribute.String("role", role))
	count, err := r.inner.CountByRole(ctx, role)
	done(err)
	return count, err
}
