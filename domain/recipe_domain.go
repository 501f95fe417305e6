package domain

import (
	"errors"
	"mime/multipart"
)

var (
	MessageSuccessSaveRecipe   = "recipe saved successfully"
	MessageSuccessEditRecipe   = "success get recipe for editing"
	MessageSuccessUpdateRecipe = "recipe updated successfully"
	MessageSuccessToggle       = "recipe publish state toggled"
	MessageSuccessLoadRecipe   = "success load recipe"
	MessageSuccessGetRecipes   = "success get recipes"
	MessageSuccessLikeRecipe   = "recipe liked successfully"
	MessageSuccessUnlikeRecipe = "recipe unliked successfully"
	MessageSuccessReportRecipe = "recipe reported successfully"

	MessageFailedSaveRecipe   = "failed to save recipe"
	MessageFailedEditRecipe   = "failed to get recipe for editing"
	MessageFailedUpdateRecipe = "failed to update recipe"
	MessageFailedToggle       = "failed to toggle publish state"
	MessageFailedLoadRecipe   = "failed to load recipe"
	MessageFailedGetRecipes   = "failed to get recipes"
	MessageFailedLikeRecipe   = "failed to like recipe"
	MessageFailedReportRecipe = "failed to report recipe"

	ErrRecipeNotFound  = errors.New("requested recipe does not exist")
	ErrRecipeForbidden = errors.New("no permission to modify this recipe")
)

type (
	// RecipeStep is one entry of a recipe's ordered step list. The image is
	// optional and preserved index-aligned across partial updates.
	RecipeStep struct {
		Description string `json:"description"`
		Image       string `json:"image,omitempty"`
	}

	// RecipeStepInput is the client-side step shape: a flag declaring that an
	// uploaded file in the multipart form belongs to this step. Files are
	// consumed in step order.
	RecipeStepInput struct {
		Description string `json:"description"`
		Image       bool   `json:"image"`
	}

	RecipeIDRequest struct {
		ID uint `json:"id" validate:"required"`
	}

	// RecipeFormRequest is assembled by the handler from a multipart form.
	// StepImages line up with the steps that declared an image in the form.
	RecipeFormRequest struct {
		Title       string `validate:"required"`
		Description string
		Ingredients string
		Steps       []RecipeStepInput
		Image       *multipart.FileHeader
		StepImages  []*multipart.FileHeader
	}

	// RecipeUpdateRequest carries only the fields present in the form; nil
	// means the field was absent and the stored value stays untouched.
	RecipeUpdateRequest struct {
		ID          uint `validate:"required"`
		Title       *string
		Description *string
		Ingredients *string
		Steps       []RecipeStepInput
		Image       *multipart.FileHeader
		StepImages  []*multipart.FileHeader
	}

	RecipeEditResponse struct {
		ID          uint         `json:"id"`
		Title       string       `json:"title"`
		Description string       `json:"description"`
		Ingredients string       `json:"ingredients"`
		Steps       []RecipeStep `json:"steps"`
		Published   bool         `json:"published"`
	}

	CommentView struct {
		ID        uint   `json:"id"`
		Name      string `json:"name"`
		Comment   string `json:"comment"`
		CreatedOn int64  `json:"created_on"`
		Parent    *uint  `json:"parent,omitempty"`
	}

	RecipeDetailResponse struct {
		ID          uint          `json:"id"`
		CreatedBy   uint          `json:"created_by"`
		CreatedOn   int64         `json:"created_on"`
		Title       string        `json:"title"`
		Image       string        `json:"image,omitempty"`
		Description string        `json:"description"`
		Ingredients string        `json:"ingredients"`
		Steps       []RecipeStep  `json:"steps"`
		Published   bool          `json:"published"`
		LikeRating  int           `json:"like_rating"`
		Views       int           `json:"views"`
		Liked       bool          `json:"liked"`
		Comments    []CommentView `json:"comments"`
	}

	RecipeSummary struct {
		ID          uint   `json:"id"`
		Title       string `json:"title"`
		Image       string `json:"image,omitempty"`
		Description string `json:"description"`
	}

	SearchRequest struct {
		Query string `json:"query" validate:"required"`
	}
)
