package command

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	recipedomain "github.com/tair/foodgram/internal/recipe/domain"
	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/internal/user/repository"
	"github.com/tair/foodgram/kafka"
	"github.com/tair/foodgram/pkg/auth"
	"github.com/tair/foodgram/pkg/cache"
	"github.com/tair/foodgram/pkg/database"
	"github.com/tair/foodgram/pkg/exceptions"
	"github.com/tair/foodgram/pkg/storage"
)

func newRepo(t *testing.T) *repository.GormUserRepository {
	t.Helper()
	// user deletion cascades into the recipe tables
	models := append([]interface{}{&domain.User{}, &domain.Subscription{}}, recipedomain.Models()...)
	db := database.NewTestDB(t, models...)
	return repository.NewGormUserRepository(db)
}

func register(t *testing.T, repo domain.UserRepository, email, username string) *domain.User {
	t.Helper()
	user, err := NewRegisterUserHandler(repo).Handle(context.Background(), RegisterUserCommand{
		Email:     email,
		Username:  username,
		FirstName: "Иван",
		LastName:  "Петров",
		Password:  "secret-pass",
	})
	require.NoError(t, err)
	return user
}

func TestRegisterUser(t *testing.T) {
	repo := newRepo(t)
	user := register(t, repo, " ivan@example.com ", "ivan")

	assert.Equal(t, "ivan@example.com", user.Email)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "secret-pass", user.Password)
	assert.True(t, auth.CheckPassword(user.Password, "secret-pass"))

	h := NewRegisterUserHandler(repo)
	tests := []struct {
		name    string
		cmd     RegisterUserCommand
		message string
	}{
		{
			name:    "duplicate email",
			cmd:     RegisterUserCommand{Email: "ivan@example.com", Username: "other", FirstName: "a", LastName: "b", Password: "password1"},
			message: "Пользователь с таким email уже существует.",
		},
		{
			name:    "duplicate username",
			cmd:     RegisterUserCommand{Email: "new@example.com", Username: "ivan", FirstName: "a", LastName: "b", Password: "password1"},
			message: "Пользователь с таким username уже существует.",
		},
		{
			name:    "short password",
			cmd:     RegisterUserCommand{Email: "new@example.com", Username: "new", FirstName: "a", LastName: "b", Password: "short"},
			message: "password: Пароль должен содержать не менее 8 символов.",
		},
		{
			name:    "bad username",
			cmd:     RegisterUserCommand{Email: "new@example.com", Username: "no spaces", FirstName: "a", LastName: "b", Password: "password1"},
			message: "username: Допустимы только буквы, цифры и символы @/./+/-/_.",
		},
		{
			name:    "missing first name",
			cmd:     RegisterUserCommand{Email: "new@example.com", Username: "new", LastName: "b", Password: "password1"},
			message: "first_name: Обязательное поле.",
		},
		{
			name:    "bad email",
			cmd:     RegisterUserCommand{Email: "not-an-email", Username: "new", FirstName: "a", LastName: "b", Password: "password1"},
			message: "email: Введите правильный адрес электронной почты.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Handle(context.Background(), tt.cmd)
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, exceptions.StatusCode(err))
			assert.Equal(t, tt.message, exceptions.PublicMessage(err))
		})
	}
}

func TestLoginAndLogout(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	user := register(t, repo, "ivan@example.com", "ivan")
	tokens := auth.NewTokenManager("secret", time.Hour)

	login := NewLoginUserHandler(repo, tokens)
	resp, err := login.Handle(ctx, LoginUserCommand{Email: "ivan@example.com", Password: "secret-pass"})
	require.NoError(t, err)

	claims, err := tokens.ValidateToken(resp.AuthToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, err = login.Handle(ctx, LoginUserCommand{Email: "ivan@example.com", Password: "wrong-pass"})
	assert.Equal(t, "Невозможно войти с предоставленными учетными данными.", exceptions.PublicMessage(err))
	_, err = login.Handle(ctx, LoginUserCommand{Email: "nobody@example.com", Password: "secret-pass"})
	assert.Equal(t, http.StatusBadRequest, exceptions.StatusCode(err))

	mem, err := cache.NewMemoryCache(8)
	require.NoError(t, err)
	revocations := cache.NewTokenRevocations(mem)
	logout := NewLogoutUserHandler(revocations)
	require.NoError(t, logout.Handle(ctx, LogoutUserCommand{TokenID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}))

	revoked, err := revocations.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestSetPassword(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	user := register(t, repo, "ivan@example.com", "ivan")
	h := NewSetPasswordHandler(repo)

	err := h.Handle(ctx, SetPasswordCommand{UserID: user.ID, CurrentPassword: "wrong-pass", NewPassword: "brand-new-pass"})
	assert.Equal(t, "current_password: Неправильный пароль.", exceptions.PublicMessage(err))

	err = h.Handle(ctx, SetPasswordCommand{UserID: user.ID, CurrentPassword: "secret-pass", NewPassword: "short"})
	assert.Equal(t, http.StatusBadRequest, exceptions.StatusCode(err))

	require.NoError(t, h.Handle(ctx, SetPasswordCommand{UserID: user.ID, CurrentPassword: "secret-pass", NewPassword: "brand-new-pass"}))
	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword(stored.Password, "brand-new-pass"))
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	user := register(t, repo, "ivan@example.com", "ivan")
	h := NewUpdateUserHandler(repo)

	name := "  Пётр "
	updated, err := h.Handle(ctx, UpdateUserCommand{ID: user.ID, FirstName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Пётр", updated.FirstName)
	assert.Equal(t, "Петров", updated.LastName)

	empty := ""
	_, err = h.Handle(ctx, UpdateUserCommand{ID: user.ID, LastName: &empty})
	assert.Equal(t, "last_name: Обязательное поле.", exceptions.PublicMessage(err))

	_, err = h.Handle(ctx, UpdateUserCommand{ID: 999, FirstName: &name})
	assert.Equal(t, http.StatusNotFound, exceptions.StatusCode(err))
}

type recordingPublisher struct {
	events []kafka.Event
}

func (p *recordingPublisher) Publish(_ context.Context, e kafka.Event) error {
	p.events = append(p.events, e)
	return nil
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	reader := register(t, repo, "reader@example.com", "reader")
	author := register(t, repo, "author@example.com", "author")
	publisher := &recordingPublisher{}
	h := NewSubscribeHandler(repo, repo, publisher)

	got, err := h.Handle(ctx, SubscribeCommand{UserID: reader.ID, AuthorID: author.ID})
	require.NoError(t, err)
	assert.Equal(t, author.ID, got.ID)

	_, err = h.Handle(ctx, SubscribeCommand{UserID: reader.ID, AuthorID: author.ID})
	assert.Equal(t, "Вы уже подписаны", exceptions.PublicMessage(err))

	_, err = h.Handle(ctx, SubscribeCommand{UserID: reader.ID, AuthorID: reader.ID})
	assert.Equal(t, "Нельзя подписаться на самого себя", exceptions.PublicMessage(err))

	_, err = h.Handle(ctx, SubscribeCommand{UserID: reader.ID, AuthorID: 999})
	assert.Equal(t, http.StatusNotFound, exceptions.StatusCode(err))

	require.NoError(t, h.Unsubscribe(ctx, SubscribeCommand{UserID: reader.ID, AuthorID: author.ID}))
	err = h.Unsubscribe(ctx, SubscribeCommand{UserID: reader.ID, AuthorID: author.ID})
	assert.Equal(t, "Вы не подписаны", exceptions.PublicMessage(err))

	require.Len(t, publisher.events, 2)
	assert.Equal(t, kafka.EventTypeSubscribed, publisher.events[0].EventType)
	assert.Equal(t, kafka.EventTypeUnsubscribed, publisher.events[1].EventType)
}

func TestAdminCommands(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	user := register(t, repo, "ivan@example.com", "ivan")

	promoted, err := NewChangeRoleHandler(repo).Handle(ctx, ChangeRoleCommand{UserID: user.ID, Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.True(t, promoted.IsAdmin())

	_, err = NewChangeRoleHandler(repo).Handle(ctx, ChangeRoleCommand{UserID: user.ID, Role: "root"})
	assert.Equal(t, http.StatusBadRequest, exceptions.StatusCode(err))

	_, err = NewToggleActiveHandler(repo).Handle(ctx, ToggleActiveCommand{UserID: user.ID, IsActive: false})
	require.NoError(t, err)
	active, err := repo.IsActive(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, active)
}

type authorRecipes struct {
	cards []domain.RecipeCard
}

func (a authorRecipes) RecipeCardsByAuthor(context.Context, uint, int) ([]domain.RecipeCard, error) {
	return a.cards, nil
}

func (a authorRecipes) CountByAuthors(context.Context, []uint) (map[uint]int64, error) {
	return map[uint]int64{}, nil
}

type deletedImages struct {
	storage.ImageStore
	keys []string
}

func (d *deletedImages) Delete(_ context.Context, key string) error {
	d.keys = append(d.keys, key)
	return nil
}

func TestDeleteUserRemovesRecipeImages(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	user := register(t, repo, "ivan@example.com", "ivan")
	images := &deletedImages{}
	recipes := authorRecipes{cards: []domain.RecipeCard{{ID: 1, Image: "recipes/a.png"}, {ID: 2, Image: "recipes/b.png"}}}
	h := NewDeleteUserHandler(repo, recipes, images)

	require.NoError(t, h.Handle(ctx, DeleteUserCommand{ID: user.ID}))
	assert.Equal(t, []string{"recipes/a.png", "recipes/b.png"}, images.keys)

	err := h.Handle(ctx, DeleteUserCommand{ID: user.ID})
	assert.Equal(t, http.StatusNotFound, exceptions.StatusCode(err))
}
