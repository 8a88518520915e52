package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mystore/internal/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

// Create inserts a new user after checking username and email
// uniqueness, so callers get a field-level error instead of a raw
// driver duplicate-key failure.
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&models.User{}).Where("username = ?", user.Username).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			return ErrUsernameTaken
		}
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			return ErrEmailTaken
		}
		return tx.Create(user).Error
	})
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
