package repository

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/foodgram/internal/recipe/domain"
	userdomain "github.com/tair/foodgram/internal/user/domain"
)

var tracer = otel.Tracer("recipe-repository")

// GormRecipeRepositoryWithTracing wraps GormRecipeRepository with tracing
type GormRecipeRepositoryWithTracing struct {
	*GormRecipeRepository
}

// NewGormRecipeRepositoryWithTracing creates a new repository with tracing
func NewGormRecipeRepositoryWithTracing(db *gorm.DB) *GormRecipeRepositoryWithTracing {
	return &GormRecipeRepositoryWithTracing{
		GormRecipeRepository: NewGormRecipeRepository(db),
	}
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, "repository."+name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, domain.ErrNotFound) && !errors.Is(err, domain.ErrDuplicate) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (r *GormRecipeRepositoryWithTracing) Create(ctx context.Context, recipe *domain.Recipe) (err error) {
	ctx, span := startSpan(ctx, "Create",
		attribute.Int("author.id", int(recipe.AuthorID)),
		attribute.Int("recipe.ingredients", len(recipe.Ingredients)),
	)
	defer func() { endSpan(span, err) }()

	err = r.GormRecipeRepository.Create(ctx, recipe)
	if err == nil {
		span.SetAttributes(attribute.Int("recipe.id", int(recipe.ID)))
	}
	return err
}

func (r *GormRecipeRepositoryWithTracing) Update(ctx context.Context, recipe *domain.Recipe, replaceTags, replaceIngredients bool) (err error) {
	ctx, span := startSpan(ctx, "Update",
		attribute.Int("recipe.id", int(recipe.ID)),
		attribute.Bool("replace.tags", replaceTags),
		attribute.Bool("replace.ingredients", replaceIngredients),
	)
	defer func() { endSpan(span, err) }()

	return r.GormRecipeRepository.Update(ctx, recipe, replaceTags, replaceIngredients)
}

func (r *GormRecipeRepositoryWithTracing) Delete(ctx context.Context, id uint) (err error) {
	ctx, span := startSpan(ctx, "Delete", attribute.Int("recipe.id", int(id)))
	defer func() { endSpan(span, err) }()

	return r.GormRecipeRepository.Delete(ctx, id)
}

func (r *GormRecipeRepositoryWithTracing) FindByID(ctx context.Context, id uint) (_ *domain.Recipe, err error) {
	ctx, span := startSpan(ctx, "FindByID", attribute.Int("recipe.id", int(id)))
	defer func() { endSpan(span, err) }()

	return r.GormRecipeRepository.FindByID(ctx, id)
}

func (r *GormRecipeRepositoryWithTracing) List(ctx context.Context, f domain.RecipeFilter) (_ []domain.Recipe, _ int64, err error) {
	ctx, span := startSpan(ctx, "List",
		attribute.Int("filter.author", int(f.AuthorID)),
		attribute.StringSlice("filter.tags", f.TagSlugs),
		attribute.Bool("filter.favorited", f.FavoritedBy != 0),
		attribute.Bool("filter.in_cart", f.InCartOf != 0),
		attribute.Int("query.limit", f.Limit),
		attribute.Int("query.offset", f.Offset),
	)
	defer func() { endSpan(span, err) }()

	recipes, total, err := r.GormRecipeRepository.List(ctx, f)
	span.SetAttributes(attribute.Int("result.count", len(recipes)), attribute.Int64("result.total", total))
	return recipes, total, err
}

func (r *GormRecipeRepositoryWithTracing) ListIngredients(ctx context.Context, namePrefix string) (_ []domain.Ingredient, err error) {
	ctx, span := startSpan(ctx, "ListIngredients", attribute.String("filter.name", namePrefix))
	defer func() { endSpan(span, err) }()

	return r.GormRecipeRepository.ListIngredients(ctx, namePrefix)
}

func (r *GormRecipeRepositoryWithTracing) ImportIngredients(ctx context.Context, ingredients []domain.Ingredient) (_ int, err error) {
	ctx, span := startSpan(ctx, "ImportIngredients", attribute.Int("import.rows", len(ingredients)))
	defer func() { endSpan(span, err) }()

	return r.GormRecipeRepository.ImportIngredients(ctx, ingredients)
}

func (r *GormRecipeRepositoryWithTracing) ListTags(ctx context.Context) (_ []domain.Tag, err error) {
	ctx, span := startSpan(ctx, "ListTags")
	defer func() { endSpan(span, err) }()

	return r.GormRecipeRepository.ListTags(ctx)
}

func (r *GormRecipeRepositoryWithTracing) Add(ctx context.Context, kind domain.ListKind, userID, recipeID uint) (err error) {
	ctx, span := startSpan(ctx, "Add",
		attribute.String("list", string(kind)),
		attribute.Int("user.id", int(userID)),
		attribute.Int("recipe.id", int(recipeID)),
	)
	defer func() { endSpan(span, err) }()

	return r.GormRecipeRepository.Add(ctx, kind, userID, recipeID)
}

func (r *GormRecipeRepositoryWithTracing) Remove(ctx context.Context, kind domain.ListKind, userID, recipeID uint) (err error) {
	ctx, span := startSpan(ctx, "Remove",
		attribute.String("list", string(kind)),
		attribute.Int("user.id", int(userID)),
		attribute.Int("recipe.id", int(recipeID)),
	)
	defer func() { endSpan(span, err) }()

	return r.GormRecipeRepository.Remove(ctx, kind, userID, recipeID)
}

func (r *GormRecipeRepositoryWithTracing) ShoppingCartLines(ctx context.Context, userID uint) (_ []domain.CartLine, err error) {
	ctx, span := startSpan(ctx, "ShoppingCartLines", attribute.Int("user.id", int(userID)))
	defer func() { endSpan(span, err) }()

	return r.GormRecipeRepository.ShoppingCartLines(ctx, userID)
}

func (r *GormRecipeRepositoryWithTracing) RecipeCardsByAuthor(ctx context.Context, authorID uint, limit int) (_ []userdomain.RecipeCard, err error) {
	ctx, span := startSpan(ctx, "RecipeCardsByAuthor",
		attribute.Int("author.id", int(authorID)),
		attribute.Int("query.limit", limit),
	)
	defer func() { endSpan(span, err) }()

	return r.GormRecipeRepository.RecipeCardsByAuthor(ctx, authorID, limit)
}
