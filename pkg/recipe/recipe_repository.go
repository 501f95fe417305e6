package recipe

import (
	"context"

	"gorm.io/gorm"

	"tastebook/entities"
)

type (
	RecipeRepository interface {
		Create(ctx context.Context, recipe *entities.Recipe) error
		FindByID(ctx context.Context, id uint) (*entities.Recipe, error)
		UpdateFields(ctx context.Context, tx *gorm.DB, id uint, fields map[string]interface{}) error
		IncrementViews(ctx context.Context, id uint) error
		AdjustRating(ctx context.Context, tx *gorm.DB, id uint, delta int) error
		SetReported(ctx context.Context, id uint) error
		Recent(ctx context.Context, limit int) ([]entities.Recipe, error)
		Top(ctx context.Context, limit int) ([]entities.Recipe, error)
		Search(ctx context.Context, query string) ([]entities.Recipe, error)
		ByUser(ctx context.Context, userID uint) ([]entities.Recipe, error)
		Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Create(ctx context.Context, recipe *entities.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

func (r *recipeRepository) FindByID(ctx context.Context, id uint) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

// UpdateFields issues a targeted update of allow-listed columns only. The
// caller decides which columns change; arbitrary column names never reach
// this method.
func (r *recipeRepository) UpdateFields(ctx context.Context, tx *gorm.DB, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	db := tx
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *recipeRepository) IncrementViews(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("id = ?", id).
		Update("view_count", gorm.Expr("view_count + 1")).Error
}

func (r *recipeRepository) AdjustRating(ctx context.Context, tx *gorm.DB, id uint, delta int) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("id = ?", id).
		Update("like_rating", gorm.Expr("like_rating + ?", delta)).Error
}

func (r *recipeRepository) SetReported(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("id = ?", id).
		Update("reported", true).Error
}

func (r *recipeRepository) Recent(ctx context.Context, limit int) ([]entities.Recipe, error) {
	var recipes []entities.Recipe
	if err := r.db.WithContext(ctx).
		Where("published = ?", true).
		Order("created_on desc").
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) Top(ctx context.Context, limit int) ([]entities.Recipe, error) {
	var recipes []entities.Recipe
	if err := r.db.WithContext(ctx).
		Where("published = ?", true).
		Order("like_rating desc").
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// Search runs one pattern match per column and concatenates the results;
// the service de-duplicates by recipe id.
func (r *recipeRepository) Search(ctx context.Context, query string) ([]entities.Recipe, error) {
	pattern := "%" + query + "%"
	var results []entities.Recipe

	for _, column := range []string{"title", "description", "ingredients"} {
		var matches []entities.Recipe
		if err := r.db.WithContext(ctx).
			Where("published = ?", true).
			Where(column+" like ?", pattern).
			Find(&matches).Error; err != nil {
			return nil, err
		}
		results = append(results, matches...)
	}

	return results, nil
}

func (r *recipeRepository) ByUser(ctx context.Context, userID uint) ([]entities.Recipe, error) {
	var recipes []entities.Recipe
	if err := r.db.WithContext(ctx).Where("created_by = ?", userID).Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}
