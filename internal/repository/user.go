// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"strings"
	"time"

	"github.com/BarishY/Astroverse/internal/cache"
	"github.com/BarishY/Astroverse/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	SearchByPrefix(ctx context.Context, prefix string, limit int) ([]*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		return r.applyUserDetails(r.db.WithContext(ctx)).First(&user, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.applyUserDetails(r.db.WithContext(ctx)).
		Where("username = ?", username).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	user.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return err
	}
	cache.InvalidateUser(ctx, user.ID)
	return nil
}

// SearchByPrefix finds users whose username starts with the given prefix,
// case-insensitively. LOWER + LIKE instead of ILIKE so the query also
// runs on sqlite.
func (r *userRepository) SearchByPrefix(ctx context.Context, prefix string, limit int) ([]*models.User, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, nil
	}
	var users []*models.User
	err := r.applyUserDetails(r.db.WithContext(ctx)).
		Where("LOWER(username) LIKE ? ESCAPE '\\'", escapeLike(strings.ToLower(prefix))+"%").
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}

// escapeLike makes a user-supplied string safe as a literal LIKE
// prefix: % and _ are wildcards otherwise.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// applyUserDetails adds subqueries to fetch follower counts in a single query.
func (r *userRepository) applyUserDetails(db *gorm.DB) *gorm.DB {
	return db.Select("users.*, " +
		"(SELECT COUNT(*) FROM follows WHERE follows.followee_id = users.id) as follower_count, " +
		"(SELECT COUNT(*) FROM follows WHERE follows.follower_id = users.id) as following_count")
}
