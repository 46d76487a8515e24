package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/tair/foodgram/internal/user/domain"
)

// GormUserRepository implements the user and subscription contracts using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// AutoMigrate runs database migrations
func (r *GormUserRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.User{}, &domain.Subscription{})
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrDuplicate
	default:
		return err
	}
}

// Create inserts a new user into the database
func (r *GormUserRepository) Create(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", translate(err))
	}
	return nil
}

// FindByID retrieves a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, fmt.Errorf("failed to find user: %w", translate(err))
	}
	return &user, nil
}

// FindByEmail retrieves a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to find user: %w", translate(err))
	}
	return &user, nil
}

// FindByUsername retrieves a user by username
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to find user: %w", translate(err))
	}
	return &user, nil
}

// FindAll retrieves a page of users ordered by id together with the total count
func (r *GormUserRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.User, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []domain.User
	query := r.db.WithContext(ctx).Order("id ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find users: %w", err)
	}
	return users, total, nil
}

// Update saves all user fields
func (r *GormUserRepository) Update(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", translate(err))
	}
	return nil
}

// Delete removes a user together with everything they own: recipes and their
// links, favorites, cart entries and subscriptions in both directions.
func (r *GormUserRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		owned := tx.Table("recipes").Select("id").Where("author_id = ?", id)

		for _, table := range []string{"recipe_ingredients", "recipe_tags"} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE recipe_id IN (?)", owned).Error; err != nil {
				return fmt.Errorf("failed to delete %s: %w", table, err)
			}
		}
		for _, table := range []string{"favorites", "shopping_carts"} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE user_id = ? OR recipe_id IN (?)", id, owned).Error; err != nil {
				return fmt.Errorf("failed to delete %s: %w", table, err)
			}
		}
		if err := tx.Exec("DELETE FROM recipes WHERE author_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete recipes: %w", err)
		}
		if err := tx.Where("user_id = ? OR author_id = ?", id, id).Delete(&domain.Subscription{}).Error; err != nil {
			return fmt.Errorf("failed to delete subscriptions: %w", err)
		}

		result := tx.Delete(&domain.User{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
}

// Count returns the total number of users
func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

// IsActive reports whether the user exists and is active
func (r *GormUserRepository) IsActive(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND is_active = ?", id, true).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return count > 0, nil
}

// Subscribe records that userID follows authorID
func (r *GormUserRepository) Subscribe(ctx context.Context, userID, authorID uint) error {
	sub := &domain.Subscription{UserID: userID, AuthorID: authorID}
	if err := r.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("failed to subscribe: %w", translate(err))
	}
	return nil
}

// Unsubscribe removes the follow relationship; ErrNotFound if there was none
func (r *GormUserRepository) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&domain.Subscription{})
	if result.Error != nil {
		return fmt.Errorf("failed to unsubscribe: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// IsSubscribed reports whether userID follows authorID
func (r *GormUserRepository) IsSubscribed(ctx context.Context, userID, authorID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check subscription: %w", err)
	}
	return count > 0, nil
}

// SubscribedAuthors returns which of authorIDs userID follows
func (r *GormUserRepository) SubscribedAuthors(ctx context.Context, userID uint, authorIDs []uint) (map[uint]bool, error) {
	result := make(map[uint]bool, len(authorIDs))
	if userID == 0 || len(authorIDs) == 0 {
		return result, nil
	}

	var ids []uint
	err := r.db.WithContext(ctx).Model(&domain.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

// ListAuthors returns a page of the authors userID follows, newest subscription first
func (r *GormUserRepository) ListAuthors(ctx context.Context, userID uint, limit, offset int) ([]domain.User, int64, error) {
	base := r.db.WithContext(ctx).Model(&domain.User{}).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var authors []domain.User
	query := base.Select("users.*").Order("subscriptions.id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&authors).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return authors, total, nil
}
