package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/foodgram/internal/recipe/domain"
	userdomain "github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/pkg/database"
)

type fixture struct {
	repo   *GormRecipeRepositoryWithTracing
	author userdomain.User
	other  userdomain.User
	salt   domain.Ingredient
	potato domain.Ingredient
	lunch  domain.Tag
	dinner domain.Tag
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	models := append([]interface{}{&userdomain.User{}, &userdomain.Subscription{}}, domain.Models()...)
	db := database.NewTestDB(t, models...)

	f := &fixture{repo: NewGormRecipeRepositoryWithTracing(db)}
	f.author = userdomain.User{Email: "a@example.com", Username: "a", Password: "x", Role: userdomain.RoleUser, IsActive: true}
	f.other = userdomain.User{Email: "b@example.com", Username: "b", Password: "x", Role: userdomain.RoleUser, IsActive: true}
	require.NoError(t, db.Create(&f.author).Error)
	require.NoError(t, db.Create(&f.other).Error)

	ctx := context.Background()
	f.salt = domain.Ingredient{Name: "соль", MeasurementUnit: "г"}
	f.potato = domain.Ingredient{Name: "картофель", MeasurementUnit: "г"}
	require.NoError(t, f.repo.CreateIngredient(ctx, &f.salt))
	require.NoError(t, f.repo.CreateIngredient(ctx, &f.potato))

	f.lunch = domain.Tag{Name: "Обед", Color: "#00FF00", Slug: "lunch"}
	f.dinner = domain.Tag{Name: "Ужин", Color: "#0000FF", Slug: "dinner"}
	require.NoError(t, f.repo.CreateTag(ctx, &f.lunch))
	require.NoError(t, f.repo.CreateTag(ctx, &f.dinner))
	return f
}

func (f *fixture) recipe(t *testing.T, name string, author uint, tag domain.Tag, pub time.Time, ings ...domain.RecipeIngredient) *domain.Recipe {
	t.Helper()
	r := &domain.Recipe{
		AuthorID:    author,
		Name:        name,
		Text:        "Описание",
		Image:       "recipes/" + name + ".png",
		CookingTime: 10,
		PubDate:     pub,
		TagLinks:    []domain.RecipeTag{{TagID: tag.ID}},
		Ingredients: ings,
	}
	require.NoError(t, f.repo.Create(context.Background(), r))
	return r
}

func TestRecipeCreateAndFind(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created := f.recipe(t, "soup", f.author.ID, f.lunch, time.Now(),
		domain.RecipeIngredient{IngredientID: f.potato.ID, Amount: 300},
		domain.RecipeIngredient{IngredientID: f.salt.ID, Amount: 5},
	)

	got, err := f.repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Author.Username)
	require.Len(t, got.Tags(), 1)
	assert.Equal(t, "lunch", got.Tags()[0].Slug)
	require.Len(t, got.Ingredients, 2)
	assert.Equal(t, "картофель", got.Ingredients[0].Ingredient.Name)
	assert.Equal(t, 300, got.Ingredients[0].Amount)

	_, err = f.repo.FindByID(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecipeUpdateReplacesLinks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	r := f.recipe(t, "soup", f.author.ID, f.lunch, time.Now(),
		domain.RecipeIngredient{IngredientID: f.potato.ID, Amount: 300},
	)

	r.Name = "borsch"
	r.TagLinks = []domain.RecipeTag{{TagID: f.dinner.ID}, {TagID: f.lunch.ID}}
	require.NoError(t, f.repo.Update(ctx, r, true, false))

	got, err := f.repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "borsch", got.Name)
	require.Len(t, got.Tags(), 2)
	assert.Equal(t, "dinner", got.Tags()[0].Slug)
	require.Len(t, got.Ingredients, 1, "ingredients kept when not replaced")

	got.Ingredients = []domain.RecipeIngredient{{IngredientID: f.salt.ID, Amount: 2}}
	require.NoError(t, f.repo.Update(ctx, got, false, true))
	got, err = f.repo.FindByID(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, f.salt.ID, got.Ingredients[0].IngredientID)

	missing := &domain.Recipe{ID: 999, Name: "x"}
	assert.ErrorIs(t, f.repo.Update(ctx, missing, false, false), domain.ErrNotFound)
}

func TestRecipeListFilters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	soup := f.recipe(t, "soup", f.author.ID, f.lunch, base)
	stew := f.recipe(t, "stew", f.author.ID, f.dinner, base.Add(time.Hour))
	f.recipe(t, "pie", f.other.ID, f.dinner, base.Add(2*time.Hour))

	require.NoError(t, f.repo.Add(ctx, domain.Favorites, f.other.ID, soup.ID))
	require.NoError(t, f.repo.Add(ctx, domain.ShoppingCart, f.other.ID, stew.ID))

	names := func(recipes []domain.Recipe) []string {
		out := make([]string, len(recipes))
		for i, r := range recipes {
			out[i] = r.Name
		}
		return out
	}

	all, total, err := f.repo.List(ctx, domain.RecipeFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, []string{"pie", "stew", "soup"}, names(all))

	byAuthor, total, err := f.repo.List(ctx, domain.RecipeFilter{AuthorID: f.author.ID, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, []string{"stew"}, names(byAuthor))

	tagged, _, err := f.repo.List(ctx, domain.RecipeFilter{TagSlugs: []string{"dinner"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"pie", "stew"}, names(tagged))

	anyOf, _, err := f.repo.List(ctx, domain.RecipeFilter{TagSlugs: []string{"dinner", "lunch"}})
	require.NoError(t, err)
	assert.Len(t, anyOf, 3)

	favorited, _, err := f.repo.List(ctx, domain.RecipeFilter{FavoritedBy: f.other.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"soup"}, names(favorited))

	inCart, _, err := f.repo.List(ctx, domain.RecipeFilter{InCartOf: f.other.ID, TagSlugs: []string{"dinner"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"stew"}, names(inCart))

	cards, err := f.repo.RecipeCardsByAuthor(ctx, f.author.ID, 1)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "stew", cards[0].Name)
	assert.Equal(t, "recipes/stew.png", cards[0].Image)

	counts, err := f.repo.CountByAuthors(ctx, []uint{f.author.ID, f.other.ID})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{f.author.ID: 2, f.other.ID: 1}, counts)
}

func TestMembership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	r := f.recipe(t, "soup", f.author.ID, f.lunch, time.Now())

	require.NoError(t, f.repo.Add(ctx, domain.Favorites, f.other.ID, r.ID))
	assert.ErrorIs(t, f.repo.Add(ctx, domain.Favorites, f.other.ID, r.ID), domain.ErrDuplicate)
	require.NoError(t, f.repo.Add(ctx, domain.ShoppingCart, f.other.ID, r.ID), "lists are independent")

	in, err := f.repo.Contains(ctx, domain.Favorites, f.other.ID, []uint{r.ID, 42})
	require.NoError(t, err)
	assert.Equal(t, map[uint]bool{r.ID: true}, in)

	none, err := f.repo.Contains(ctx, domain.Favorites, 0, []uint{r.ID})
	require.NoError(t, err)
	assert.Empty(t, none)

	require.NoError(t, f.repo.Remove(ctx, domain.Favorites, f.other.ID, r.ID))
	assert.ErrorIs(t, f.repo.Remove(ctx, domain.Favorites, f.other.ID, r.ID), domain.ErrNotFound)
}

func TestShoppingCartLinesAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	soup := f.recipe(t, "soup", f.author.ID, f.lunch, time.Now(),
		domain.RecipeIngredient{IngredientID: f.potato.ID, Amount: 300},
		domain.RecipeIngredient{IngredientID: f.salt.ID, Amount: 5},
	)
	stew := f.recipe(t, "stew", f.author.ID, f.dinner, time.Now(),
		domain.RecipeIngredient{IngredientID: f.potato.ID, Amount: 200},
	)
	require.NoError(t, f.repo.Add(ctx, domain.ShoppingCart, f.other.ID, soup.ID))
	require.NoError(t, f.repo.Add(ctx, domain.ShoppingCart, f.other.ID, stew.ID))
	require.NoError(t, f.repo.Add(ctx, domain.Favorites, f.other.ID, stew.ID))

	lines, err := f.repo.ShoppingCartLines(ctx, f.other.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.CartLine{
		{Name: "картофель", Unit: "г", Amount: 300},
		{Name: "соль", Unit: "г", Amount: 5},
		{Name: "картофель", Unit: "г", Amount: 200},
	}, lines)

	require.NoError(t, f.repo.Delete(ctx, stew.ID))
	assert.ErrorIs(t, f.repo.Delete(ctx, stew.ID), domain.ErrNotFound)

	lines, err = f.repo.ShoppingCartLines(ctx, f.other.ID)
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	fav, err := f.repo.Contains(ctx, domain.Favorites, f.other.ID, []uint{stew.ID})
	require.NoError(t, err)
	assert.Empty(t, fav)
}

func TestCatalog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	found, err := f.repo.ListIngredients(ctx, "со")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "соль", found[0].Name)

	all, err := f.repo.ListIngredients(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "картофель", all[0].Name, "ordered by name")

	n, err := f.repo.ImportIngredients(ctx, []domain.Ingredient{
		{Name: "мука", MeasurementUnit: "г"},
		{Name: "молоко", MeasurementUnit: "мл"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	milk, err := f.repo.ListIngredients(ctx, "мол")
	require.NoError(t, err)
	require.Len(t, milk, 1)
	assert.Equal(t, f.potato.ID+2, milk[0].ID, "ids continue after the current maximum")

	missing, err := f.repo.MissingIngredients(ctx, []uint{f.salt.ID, 100})
	require.NoError(t, err)
	assert.Equal(t, []uint{100}, missing)

	dup := domain.Tag{Name: "Обед", Color: "#111111", Slug: "other"}
	assert.ErrorIs(t, f.repo.CreateTag(ctx, &dup), domain.ErrDuplicate)

	tags, err := f.repo.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, 2)

	missingTags, err := f.repo.MissingTags(ctx, []uint{f.lunch.ID, f.dinner.ID})
	require.NoError(t, err)
	assert.Empty(t, missingTags)
}

func TestListIngredientsPrefixIsCaseSensitive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.repo.ImportIngredients(ctx, []domain.Ingredient{
		{Name: "Соль морская", MeasurementUnit: "г"},
		{Name: "Salt", MeasurementUnit: "g"},
		{Name: "salt flakes", MeasurementUnit: "g"},
		{Name: "50% сливки", MeasurementUnit: "мл"},
	})
	require.NoError(t, err)

	names := func(prefix string) []string {
		found, err := f.repo.ListIngredients(ctx, prefix)
		require.NoError(t, err)
		var out []string
		for _, ingredient := range found {
			out = append(out, ingredient.Name)
		}
		return out
	}

	assert.Equal(t, []string{"соль"}, names("соль"))
	assert.Equal(t, []string{"Соль морская"}, names("Соль"))
	assert.Equal(t, []string{"Salt"}, names("Salt"))
	assert.Equal(t, []string{"salt flakes"}, names("salt"))
	assert.Equal(t, []string{"50% сливки"}, names("50%"))
	assert.Empty(t, names("5_"))
}
