package domain

var (
	MessageSuccessCreateComment = "comment created successfully"
	MessageFailedCreateComment  = "failed to create comment"
)

type CreateCommentRequest struct {
	RecipeID uint   `json:"recipeId" validate:"required"`
	Comment  string `json:"comment" validate:"required"`
	Parent   *uint  `json:"parent,omitempty"`
}
