package comment

import (
	"context"

	"gorm.io/gorm"

	"tastebook/entities"
)

type (
	// CommentWithAuthor is a comment row joined with its author's display
	// name, the shape recipe detail pages render.
	CommentWithAuthor struct {
		ID         uint
		CreatedBy  uint
		CreatedOn  int64
		RecipeID   uint
		Comment    string
		Parent     *uint
		AuthorName string
	}

	CommentRepository interface {
		Create(ctx context.Context, comment *entities.Comment) error
		ForRecipe(ctx context.Context, recipeID uint) ([]CommentWithAuthor, error)
	}

	commentRepository struct {
		db *gorm.DB
	}
)

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *entities.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) ForRecipe(ctx context.Context, recipeID uint) ([]CommentWithAuthor, error) {
	var comments []CommentWithAuthor
	if err := r.db.WithContext(ctx).
		Model(&entities.Comment{}).
		Select("comments.*, users.name as author_name").
		Joins("JOIN users ON users.id = comments.created_by").
		Where("comments.recipe_id = ?", recipeID).
		Order("comments.created_on").
		Scan(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
