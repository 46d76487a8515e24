package domain

import (
	"context"
	"errors"
	"time"
)

// Role types
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// User is an account; email is the login key
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"size:254;uniqueIndex;not null"`
	Username  string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	FirstName string    `json:"first_name" gorm:"size:150;not null"`
	LastName  string    `json:"last_name" gorm:"size:150;not null"`
	Password  string    `json:"-" gorm:"not null"`
	Role      string    `json:"role" gorm:"size:16;not null;default:'user'"`
	IsActive  bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin checks if user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Subscription is a follow relationship from User to Author
type Subscription struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_subscription_user_author"`
	AuthorID  uint      `json:"author_id" gorm:"not null;uniqueIndex:idx_subscription_user_author;index"`
	CreatedAt time.Time `json:"created_at"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// RecipeCard is the short recipe form shown in subscription listings
type RecipeCard struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// UserRepository defines the contract for user data access
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindAll(ctx context.Context, limit, offset int) ([]User, int64, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}

// SubscriptionRepository defines the contract for subscription data access
type SubscriptionRepository interface {
	Subscribe(ctx context.Context, userID, authorID uint) error
	Unsubscribe(ctx context.Context, userID, authorID uint) error
	IsSubscribed(ctx context.Context, userID, authorID uint) (bool, error)
	SubscribedAuthors(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error)
	ListAuthors(ctx context.Context, userID uint, limit, offset int) ([]User, int64, error)
}

// AuthorRecipeReader reads the recipes published by authors
type AuthorRecipeReader interface {
	RecipeCardsByAuthor(ctx context.Context, authorID uint, limit int) ([]RecipeCard, error)
	CountByAuthors(ctx context.Context, authorIDs []uint) (map[uint]int64, error)
}
