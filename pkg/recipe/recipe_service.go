package recipe

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"tastebook/domain"
	"tastebook/entities"
	"tastebook/internal/utils/storage"
	"tastebook/pkg/comment"
	"tastebook/pkg/user"
)

const sampleSize = 5

type (
	RecipeService interface {
		Save(ctx context.Context, req domain.RecipeFormRequest, userID uint, publish bool) error
		Edit(ctx context.Context, recipeID, userID uint) (domain.RecipeEditResponse, error)
		Update(ctx context.Context, req domain.RecipeUpdateRequest, userID uint) error
		TogglePublished(ctx context.Context, recipeID, userID uint) error
		Load(ctx context.Context, recipeID, userID uint, authenticated bool) (domain.RecipeDetailResponse, error)
		Recent(ctx context.Context) ([]domain.RecipeSummary, error)
		Top(ctx context.Context) ([]domain.RecipeSummary, error)
		Like(ctx context.Context, recipeID, userID uint) error
		Unlike(ctx context.Context, recipeID, userID uint) error
		Report(ctx context.Context, recipeID uint) error
		Search(ctx context.Context, query string) ([]domain.RecipeSummary, error)
		ByUser(ctx context.Context, userID uint) ([]entities.Recipe, error)
		Liked(ctx context.Context, userID uint) ([]entities.Recipe, error)
	}

	recipeService struct {
		recipeRepository  RecipeRepository
		userRepository    user.UserRepository
		commentRepository comment.CommentRepository
		storage           storage.Storage
	}
)

func NewRecipeService(
	recipeRepository RecipeRepository,
	userRepository user.UserRepository,
	commentRepository comment.CommentRepository,
	store storage.Storage,
) RecipeService {
	return &recipeService{
		recipeRepository:  recipeRepository,
		userRepository:    userRepository,
		commentRepository: commentRepository,
		storage:           store,
	}
}

func (s *recipeService) Save(ctx context.Context, req domain.RecipeFormRequest, userID uint, publish bool) error {
	imagePath, err := s.uploadCover(req.Image)
	if err != nil {
		return err
	}

	steps, err := s.resolveSteps(req.Steps, req.StepImages, nil)
	if err != nil {
		return err
	}

	stepsJSON, err := json.Marshal(steps)
	if err != nil {
		return err
	}

	recipe := entities.Recipe{
		CreatedBy:   userID,
		CreatedOn:   time.Now().Unix(),
		Title:       req.Title,
		Image:       imagePath,
		Description: req.Description,
		Ingredients: req.Ingredients,
		Steps:       string(stepsJSON),
		Published:   publish,
	}

	return s.recipeRepository.Create(ctx, &recipe)
}

func (s *recipeService) Edit(ctx context.Context, recipeID, userID uint) (domain.RecipeEditResponse, error) {
	recipe, err := s.ownedRecipe(ctx, recipeID, userID)
	if err != nil {
		return domain.RecipeEditResponse{}, err
	}

	steps, err := decodeSteps(recipe.Steps)
	if err != nil {
		return domain.RecipeEditResponse{}, err
	}
	// Step images stay out of the edit payload; the client keeps or
	// re-supplies them out of band.
	for i := range steps {
		steps[i].Image = ""
	}

	return domain.RecipeEditResponse{
		ID:          recipe.ID,
		Title:       recipe.Title,
		Description: recipe.Description,
		Ingredients: recipe.Ingredients,
		Steps:       steps,
		Published:   recipe.Published,
	}, nil
}

func (s *recipeService) Update(ctx context.Context, req domain.RecipeUpdateRequest, userID uint) error {
	recipe, err := s.ownedRecipe(ctx, req.ID, userID)
	if err != nil {
		return err
	}

	fields := map[string]interface{}{}
	if req.Title != nil && *req.Title != recipe.Title {
		fields["title"] = *req.Title
	}
	if req.Description != nil && *req.Description != recipe.Description {
		fields["description"] = *req.Description
	}
	if req.Ingredients != nil && *req.Ingredients != recipe.Ingredients {
		fields["ingredients"] = *req.Ingredients
	}
	if req.Image != nil {
		imagePath, err := s.uploadCover(req.Image)
		if err != nil {
			return err
		}
		fields["image"] = imagePath
	}

	if req.Steps != nil {
		stored, err := decodeSteps(recipe.Steps)
		if err != nil {
			return err
		}
		merged, err := s.resolveSteps(req.Steps, req.StepImages, stored)
		if err != nil {
			return err
		}
		mergedJSON, err := json.Marshal(merged)
		if err != nil {
			return err
		}
		if string(mergedJSON) != recipe.Steps {
			fields["steps"] = string(mergedJSON)
		}
	}

	return s.recipeRepository.Transaction(ctx, func(tx *gorm.DB) error {
		return s.recipeRepository.UpdateFields(ctx, tx, recipe.ID, fields)
	})
}

func (s *recipeService) TogglePublished(ctx context.Context, recipeID, userID uint) error {
	recipe, err := s.ownedRecipe(ctx, recipeID, userID)
	if err != nil {
		return err
	}
	return s.recipeRepository.UpdateFields(ctx, nil, recipe.ID, map[string]interface{}{
		"published": !recipe.Published,
	})
}

func (s *recipeService) Load(ctx context.Context, recipeID, userID uint, authenticated bool) (domain.RecipeDetailResponse, error) {
	recipe, err := s.recipeRepository.FindByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecipeDetailResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeDetailResponse{}, err
	}

	// Unpublished recipes answer "not found" to anyone but their owner so
	// their existence is never confirmed.
	if !recipe.Published && (!authenticated || recipe.CreatedBy != userID) {
		return domain.RecipeDetailResponse{}, domain.ErrRecipeNotFound
	}

	if err := s.recipeRepository.IncrementViews(ctx, recipe.ID); err != nil {
		return domain.RecipeDetailResponse{}, err
	}

	steps, err := decodeSteps(recipe.Steps)
	if err != nil {
		return domain.RecipeDetailResponse{}, err
	}

	rows, err := s.commentRepository.ForRecipe(ctx, recipe.ID)
	if err != nil {
		return domain.RecipeDetailResponse{}, err
	}
	comments := make([]domain.CommentView, 0, len(rows))
	for _, row := range rows {
		comments = append(comments, domain.CommentView{
			ID:        row.ID,
			Name:      row.AuthorName,
			Comment:   row.Comment,
			CreatedOn: row.CreatedOn,
			Parent:    row.Parent,
		})
	}

	liked := false
	if authenticated {
		if requester, err := s.userRepository.FindByID(ctx, userID); err == nil {
			for _, id := range decodeLiked(requester.LikedRecipes) {
				if id == recipe.ID {
					liked = true
					break
				}
			}
		}
	}

	return domain.RecipeDetailResponse{
		ID:          recipe.ID,
		CreatedBy:   recipe.CreatedBy,
		CreatedOn:   recipe.CreatedOn,
		Title:       recipe.Title,
		Image:       recipe.Image,
		Description: recipe.Description,
		Ingredients: recipe.Ingredients,
		Steps:       steps,
		Published:   recipe.Published,
		LikeRating:  recipe.LikeRating,
		Views:       recipe.ViewCount + 1,
		Liked:       liked,
		Comments:    comments,
	}, nil
}

func (s *recipeService) Recent(ctx context.Context) ([]domain.RecipeSummary, error) {
	recipes, err := s.recipeRepository.Recent(ctx, sampleSize)
	if err != nil {
		return nil, err
	}
	return summarize(recipes), nil
}

func (s *recipeService) Top(ctx context.Context) ([]domain.RecipeSummary, error) {
	recipes, err := s.recipeRepository.Top(ctx, sampleSize)
	if err != nil {
		return nil, err
	}
	return summarize(recipes), nil
}

func (s *recipeService) Like(ctx context.Context, recipeID, userID uint) error {
	return s.adjustLike(ctx, recipeID, userID, 1)
}

func (s *recipeService) Unlike(ctx context.Context, recipeID, userID uint) error {
	return s.adjustLike(ctx, recipeID, userID, -1)
}

// adjustLike moves the rating counter and the requester's liked list in one
// transaction. Liking twice double-counts; unliking an id that was never
// liked still decrements (the counter may go negative) while the list edit
// is a no-op.
func (s *recipeService) adjustLike(ctx context.Context, recipeID, userID uint, delta int) error {
	requester, err := s.userRepository.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	liked := decodeLiked(requester.LikedRecipes)
	if delta > 0 {
		liked = append(liked, recipeID)
	} else {
		next := liked[:0]
		for _, id := range liked {
			if id != recipeID {
				next = append(next, id)
			}
		}
		liked = next
	}

	likedJSON, err := json.Marshal(liked)
	if err != nil {
		return err
	}

	return s.recipeRepository.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.recipeRepository.AdjustRating(ctx, tx, recipeID, delta); err != nil {
			return err
		}
		return s.userRepository.UpdateLikedRecipes(ctx, tx, userID, string(likedJSON))
	})
}

func (s *recipeService) Report(ctx context.Context, recipeID uint) error {
	return s.recipeRepository.SetReported(ctx, recipeID)
}

// Search concatenates the per-column matches and de-duplicates by recipe id.
func (s *recipeService) Search(ctx context.Context, query string) ([]domain.RecipeSummary, error) {
	matches, err := s.recipeRepository.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	seen := map[uint]bool{}
	unique := make([]entities.Recipe, 0, len(matches))
	for _, match := range matches {
		if !seen[match.ID] {
			seen[match.ID] = true
			unique = append(unique, match)
		}
	}

	return summarize(unique), nil
}

func (s *recipeService) ByUser(ctx context.Context, userID uint) ([]entities.Recipe, error) {
	recipes, err := s.recipeRepository.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return sample(recipes, sampleSize), nil
}

func (s *recipeService) Liked(ctx context.Context, userID uint) ([]entities.Recipe, error) {
	requester, err := s.userRepository.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	var recipes []entities.Recipe
	for _, id := range decodeLiked(requester.LikedRecipes) {
		recipe, err := s.recipeRepository.FindByID(ctx, id)
		if err != nil || !recipe.Published {
			// A liked recipe may have been unpublished since; skip it.
			continue
		}
		recipes = append(recipes, *recipe)
	}

	return sample(recipes, sampleSize), nil
}

func (s *recipeService) ownedRecipe(ctx context.Context, recipeID, userID uint) (*entities.Recipe, error) {
	recipe, err := s.recipeRepository.FindByID(ctx, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	if recipe.CreatedBy != userID {
		return nil, domain.ErrRecipeForbidden
	}
	return recipe, nil
}

func (s *recipeService) uploadCover(file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", nil
	}
	key, err := s.storage.UploadFile(uuid.New().String(), file, "recipes", storage.AllowImage...)
	if err != nil {
		return "", err
	}
	return s.storage.PublicLink(key), nil
}

// resolveSteps turns the client step list into the stored shape. Uploaded
// files are consumed in step order for steps flagged with an image. When a
// stored list is supplied, a step without a new image keeps the stored image
// at the same index.
func (s *recipeService) resolveSteps(input []domain.RecipeStepInput, files []*multipart.FileHeader, stored []domain.RecipeStep) ([]domain.RecipeStep, error) {
	steps := make([]domain.RecipeStep, 0, len(input))
	fileIdx := 0
	for i, in := range input {
		step := domain.RecipeStep{Description: in.Description}
		if in.Image && fileIdx < len(files) {
			key, err := s.storage.UploadFile(uuid.New().String(), files[fileIdx], "steps", storage.AllowImage...)
			if err != nil {
				return nil, err
			}
			step.Image = s.storage.PublicLink(key)
			fileIdx++
		} else if i < len(stored) {
			step.Image = stored[i].Image
		}
		steps = append(steps, step)
	}
	return steps, nil
}

func decodeSteps(raw string) ([]domain.RecipeStep, error) {
	if raw == "" {
		return []domain.RecipeStep{}, nil
	}
	var steps []domain.RecipeStep
	if err := json.Unmarshal([]byte(raw), &steps); err != nil {
		return nil, err
	}
	return steps, nil
}

func decodeLiked(raw string) []uint {
	var ids []uint
	if raw == "" {
		return ids
	}
	// A malformed list reads as empty rather than failing the request.
	_ = json.Unmarshal([]byte(raw), &ids)
	return ids
}

func summarize(recipes []entities.Recipe) []domain.RecipeSummary {
	summaries := make([]domain.RecipeSummary, 0, len(recipes))
	for _, recipe := range recipes {
		summaries = append(summaries, domain.RecipeSummary{
			ID:          recipe.ID,
			Title:       recipe.Title,
			Image:       recipe.Image,
			Description: recipe.Description,
		})
	}
	return summaries
}

func sample(recipes []entities.Recipe, n int) []entities.Recipe {
	rand.Shuffle(len(recipes), func(i, j int) {
		recipes[i], recipes[j] = recipes[j], recipes[i]
	})
	if len(recipes) > n {
		recipes = recipes[:n]
	}
	return recipes
}
