package user

import (
	"context"

	"gorm.io/gorm"

	"tastebook/entities"
)

type (
	UserRepository interface {
		Create(ctx context.Context, user *entities.User) error
		FindByUsername(ctx context.Context, username string) (*entities.User, error)
		FindByID(ctx context.Context, id uint) (*entities.User, error)
		UpdateLikedRecipes(ctx context.Context, tx *gorm.DB, id uint, likedRecipes string) error
		RecipesByUser(ctx context.Context, userID uint, includeUnpublished bool) ([]entities.Recipe, error)
	}

	userRepository struct {
		db *gorm.DB
	}
)

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entities.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateLikedRecipes writes the serialized liked list, optionally inside a
// caller-supplied transaction so the like counter and the list move together.
func (r *userRepository) UpdateLikedRecipes(ctx context.Context, tx *gorm.DB, id uint, likedRecipes string) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).
		Model(&entities.User{}).
		Where("id = ?", id).
		Update("liked_recipes", likedRecipes).Error
}

func (r *userRepository) RecipesByUser(ctx context.Context, userID uint, includeUnpublished bool) ([]entities.Recipe, error) {
	var recipes []entities.Recipe
	query := r.db.WithContext(ctx).Where("created_by = ?", userID)
	if !includeUnpublished {
		query = query.Where("published = ?", true)
	}
	if err := query.Order("created_on").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}
