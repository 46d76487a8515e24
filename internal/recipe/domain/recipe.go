package domain

import (
	"errors"
	"time"

	userdomain "github.com/tair/foodgram/internal/user/domain"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// Recipe is a dish published by its author
type Recipe struct {
	ID          uint               `gorm:"primaryKey"`
	AuthorID    uint               `gorm:"not null;index"`
	Author      userdomain.User    `gorm:"foreignKey:AuthorID"`
	Name        string             `gorm:"size:200;not null"`
	Text        string             `gorm:"type:text;not null"`
	Image       string             `gorm:"size:255;not null"`
	CookingTime int                `gorm:"not null"`
	PubDate     time.Time          `gorm:"not null;index"`
	TagLinks    []RecipeTag        `gorm:"foreignKey:RecipeID"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// Tags returns the recipe's tags in link order
func (r *Recipe) Tags() []Tag {
	tags := make([]Tag, 0, len(r.TagLinks))
	for _, link := range r.TagLinks {
		tags = append(tags, link.Tag)
	}
	return tags
}

// CanBeChangedBy reports whether the caller may edit or delete the recipe
func (r *Recipe) CanBeChangedBy(userID uint, isAdmin bool) bool {
	return isAdmin || (userID != 0 && r.AuthorID == userID)
}

// RecipeIngredient carries the amount of one ingredient in a recipe
type RecipeIngredient struct {
	ID           uint       `gorm:"primaryKey"`
	RecipeID     uint       `gorm:"not null;index"`
	IngredientID uint       `gorm:"not null;index"`
	Ingredient   Ingredient `gorm:"foreignKey:IngredientID"`
	Amount       int        `gorm:"not null"`
}

func (RecipeIngredient) TableName() string {
	return "recipe_ingredients"
}

// RecipeTag links a recipe to a tag
type RecipeTag struct {
	ID       uint `gorm:"primaryKey"`
	RecipeID uint `gorm:"not null;index"`
	TagID    uint `gorm:"not null;index"`
	Tag      Tag  `gorm:"foreignKey:TagID"`
}

func (RecipeTag) TableName() string {
	return "recipe_tags"
}

// ListKind names a per-user recipe list
type ListKind string

const (
	Favorites    ListKind = "favorites"
	ShoppingCart ListKind = "shopping_cart"
)

// Favorite is a per-user bookmark on a recipe
type Favorite struct {
	ID       uint `gorm:"primaryKey"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_favorite_user_recipe"`
	RecipeID uint `gorm:"not null;uniqueIndex:idx_favorite_user_recipe;index"`
}

func (Favorite) TableName() string {
	return "favorites"
}

// ShoppingCartEntry puts a recipe into a user's shopping cart
type ShoppingCartEntry struct {
	ID       uint `gorm:"primaryKey"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_cart_user_recipe"`
	RecipeID uint `gorm:"not null;uniqueIndex:idx_cart_user_recipe;index"`
}

func (ShoppingCartEntry) TableName() string {
	return "shopping_carts"
}

// Models lists every table owned by the recipe module in migration order
func Models() []interface{} {
	return []interface{}{
		&Ingredient{},
		&Tag{},
		&Recipe{},
		&RecipeIngredient{},
		&RecipeTag{},
		&Favorite{},
		&ShoppingCartEntry{},
	}
}
