package repository

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/foodgram/internal/user/domain"
)

var tracer = otel.Tracer("user-repository")

// GormUserRepositoryWithTracing wraps GormUserRepository with tracing
type GormUserRepositoryWithTracing struct {
	*GormUserRepository
}

// NewGormUserRepositoryWithTracing creates a new repository with tracing
func NewGormUserRepositoryWithTracing(db *gorm.DB) *GormUserRepositoryWithTracing {
	return &GormUserRepositoryWithTracing{
		GormUserRepository: NewGormUserRepository(db),
	}
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, "repository."+name, trace.WithAttributes(attrs...))
}

// addDBErrorToSpan records err on the span; missing rows are not errors
func addDBErrorToSpan(span trace.Span, err error) {
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func (r *GormUserRepositoryWithTracing) Create(ctx context.Context, user *domain.User) error {
	ctx, span := startSpan(ctx, "Create",
		attribute.String("user.username", user.Username),
		attribute.String("user.email", user.Email),
	)
	defer span.End()

	err := r.GormUserRepository.Create(ctx, user)
	addDBErrorToSpan(span, err)
	if err == nil {
		span.SetAttributes(attribute.Int("user.id", int(user.ID)))
	}
	return err
}

func (r *GormUserRepositoryWithTracing) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	ctx, span := startSpan(ctx, "FindByID", attribute.Int("user.id", int(id)))
	defer span.End()

	user, err := r.GormUserRepository.FindByID(ctx, id)
	addDBErrorToSpan(span, err)
	return user, err
}

func (r *GormUserRepositoryWithTracing) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	ctx, span := startSpan(ctx, "FindByEmail", attribute.String("user.email", email))
	defer span.End()

	user, err := r.GormUserRepository.FindByEmail(ctx, email)
	addDBErrorToSpan(span, err)
	return user, err
}

func (r *GormUserRepositoryWithTracing) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	ctx, span := startSpan(ctx, "FindByUsername", attribute.String("user.username", username))
	defer span.End()

	user, err := r.GormUserRepository.FindByUsername(ctx, username)
	addDBErrorToSpan(span, err)
	return user, err
}

func (r *GormUserRepositoryWithTracing) FindAll(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	ctx, span := startSpan(ctx, "FindAll",
		attribute.Int("query.limit", limit),
		attribute.Int("query.offset", offset),
	)
	defer span.End()

	users, total, err := r.GormUserRepository.FindAll(ctx, limit, offset)
	addDBErrorToSpan(span, err)
	span.SetAttributes(attribute.Int("result.count", len(users)))
	return users, total, err
}

func (r *GormUserRepositoryWithTracing) Update(ctx context.Context, user *domain.User) error {
	ctx, span := startSpan(ctx, "Update", attribute.Int("user.id", int(user.ID)))
	defer span.End()

	err := r.GormUserRepository.Update(ctx, user)
	addDBErrorToSpan(span, err)
	return err
}

func (r *GormUserRepositoryWithTracing) Delete(ctx context.Context, id uint) error {
	ctx, span := startSpan(ctx, "Delete", attribute.Int("user.id", int(id)))
	defer span.End()

	err := r.GormUserRepository.Delete(ctx, id)
	addDBErrorToSpan(span, err)
	return err
}

func (r *GormUserRepositoryWithTracing) Count(ctx context.Context) (int64, error) {
	ctx, span := startSpan(ctx, "Count")
	defer span.End()

	count, err := r.GormUserRepository.Count(ctx)
	addDBErrorToSpan(span, err)
	span.SetAttributes(attribute.Int64("result.count", count))
	return count, err
}

func (r *GormUserRepositoryWithTracing) Subscribe(ctx context.Context, userID, authorID uint) error {
	ctx, span := startSpan(ctx, "Subscribe",
		attribute.Int("user.id", int(userID)),
		attribute.Int("author.id", int(authorID)),
	)
	defer span.End()

	err := r.GormUserRepository.Subscribe(ctx, userID, authorID)
	addDBErrorToSpan(span, err)
	return err
}

func (r *GormUserRepositoryWithTracing) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	ctx, span := startSpan(ctx, "Unsubscribe",
		attribute.Int("user.id", int(userID)),
		attribute.Int("author.id", int(authorID)),
	)
	defer span.End()

	err := r.GormUserRepository.Unsubscribe(ctx, userID, authorID)
	addDBErrorToSpan(span, err)
	return err
}

func (r *GormUserRepositoryWithTracing) ListAuthors(ctx context.Context, userID uint, limit, offset int) ([]domain.User, int64, error) {
	ctx, span := startSpan(ctx, "ListAuthors",
		attribute.Int("user.id", int(userID)),
		attribute.Int("query.limit", limit),
		attribute.Int("query.offset", offset),
	)
	defer span.End()

	authors, total, err := r.GormUserRepository.ListAuthors(ctx, userID, limit, offset)
	addDBErrorToSpan(span, err)
	return authors, total, err
}
