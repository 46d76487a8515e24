package command

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tair/foodgram/internal/user/domain"
	"github.com/tair/foodgram/pkg/auth"
	"github.com/tair/foodgram/pkg/exceptions"
)

const (
	MinPasswordLength = 8
	maxEmailLength    = 254
	maxNameLength     = 150
)

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

// RegisterUserCommand represents the command to register a new user
type RegisterUserCommand struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
	Role      string // Optional, defaults to "user"
}

// RegisterUserHandler handles user registration command
type RegisterUserHandler struct {
	repo domain.UserRepository
}

// NewRegisterUserHandler creates a new register user handler
func NewRegisterUserHandler(repo domain.UserRepository) *RegisterUserHandler {
	return &RegisterUserHandler{repo: repo}
}

func validateRegistration(cmd *RegisterUserCommand) error {
	cmd.Email = strings.TrimSpace(cmd.Email)
	cmd.Username = strings.TrimSpace(cmd.Username)
	cmd.FirstName = strings.TrimSpace(cmd.FirstName)
	cmd.LastName = strings.TrimSpace(cmd.LastName)

	switch {
	case cmd.Email == "":
		return exceptions.InvalidInput("email: Обязательное поле.")
	case cmd.Username == "":
		return exceptions.InvalidInput("username: Обязательное поле.")
	case cmd.FirstName == "":
		return exceptions.InvalidInput("first_name: Обязательное поле.")
	case cmd.LastName == "":
		return exceptions.InvalidInput("last_name: Обязательное поле.")
	case cmd.Password == "":
		return exceptions.InvalidInput("password: Обязательное поле.")
	}

	if utf8.RuneCountInString(cmd.Email) > maxEmailLength {
		return exceptions.InvalidInputf("email: Не более %d символов.", maxEmailLength)
	}
	if addr, err := mail.ParseAddress(cmd.Email); err != nil || addr.Address != cmd.Email {
		return exceptions.InvalidInput("email: Введите правильный адрес электронной почты.")
	}
	if utf8.RuneCountInString(cmd.Username) > maxNameLength {
		return exceptions.InvalidInputf("username: Не более %d символов.", maxNameLength)
	}
	if !usernamePattern.MatchString(cmd.Username) {
		return exceptions.InvalidInput("username: Допустимы только буквы, цифры и символы @/./+/-/_.")
	}
	if utf8.RuneCountInString(cmd.FirstName) > maxNameLength || utf8.RuneCountInString(cmd.LastName) > maxNameLength {
		return exceptions.InvalidInputf("Имя и фамилия: не более %d символов.", maxNameLength)
	}
	return validatePassword(cmd.Password)
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return exceptions.InvalidInputf("password: Пароль должен содержать не менее %d символов.", MinPasswordLength)
	}
	return nil
}

// Handle executes the register user command
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*domain.User, error) {
	if err := validateRegistration(&cmd); err != nil {
		return nil, err
	}

	role := cmd.Role
	if role == "" {
		role = domain.RoleUser
	}
	if role != domain.RoleUser && role != domain.RoleAdmin {
		return nil, exceptions.InvalidInput("role: Недопустимая роль.")
	}

	// Check if user already exists
	if _, err := h.repo.FindByEmail(ctx, cmd.Email); err == nil {
		return nil, exceptions.Conflict("Пользователь с таким email уже существует.")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if _, err := h.repo.FindByUsername(ctx, cmd.Username); err == nil {
		return nil, exceptions.Conflict("Пользователь с таким username уже существует.")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:     cmd.Email,
		Username:  cmd.Username,
		FirstName: cmd.FirstName,
		LastName:  cmd.LastName,
		Password:  hashedPassword,
		Role:      role,
		IsActive:  true,
	}

	if err := h.repo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, exceptions.Conflict("Пользователь с таким email или username уже существует.")
		}
		return nil, err
	}

	return user, nil
}
