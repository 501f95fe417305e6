package handlers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"tastebook/domain"
	"tastebook/internal/api/presenters"
	"tastebook/pkg/recipe"
)

type (
	RecipeHandler interface {
		Save(c *fiber.Ctx) error
		Publish(c *fiber.Ctx) error
		Edit(c *fiber.Ctx) error
		Update(c *fiber.Ctx) error
		TogglePublished(c *fiber.Ctx) error
		Load(c *fiber.Ctx) error
		Recent(c *fiber.Ctx) error
		Top(c *fiber.Ctx) error
		Like(c *fiber.Ctx) error
		Unlike(c *fiber.Ctx) error
		Report(c *fiber.Ctx) error
		Search(c *fiber.Ctx) error
		ByUser(c *fiber.Ctx) error
		Liked(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
		validator     *validator.Validate
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, validator *validator.Validate) RecipeHandler {
	return &recipeHandler{
		recipeService: recipeService,
		validator:     validator,
	}
}

// parseRecipeForm assembles a recipe from a multipart form: scalar fields,
// a steps JSON array and the uploaded files ("image" for the cover,
// "images" consumed in step order).
func parseRecipeForm(c *fiber.Ctx) (domain.RecipeFormRequest, error) {
	req := domain.RecipeFormRequest{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Ingredients: c.FormValue("ingredients"),
	}

	if stepsRaw := c.FormValue("steps"); stepsRaw != "" {
		if err := json.Unmarshal([]byte(stepsRaw), &req.Steps); err != nil {
			return req, err
		}
	}

	form, err := c.MultipartForm()
	if err != nil {
		return req, err
	}
	if files := form.File["image"]; len(files) > 0 {
		req.Image = files[0]
	}
	req.StepImages = form.File["images"]

	return req, nil
}

func parseRecipeUpdateForm(c *fiber.Ctx) (domain.RecipeUpdateRequest, error) {
	var req domain.RecipeUpdateRequest

	form, err := c.MultipartForm()
	if err != nil {
		return req, err
	}

	id, err := strconv.ParseUint(c.FormValue("id"), 10, 32)
	if err != nil {
		return req, err
	}
	req.ID = uint(id)

	// Only fields present in the form are updated; absence is not "empty".
	if vals, ok := form.Value["title"]; ok && len(vals) > 0 {
		req.Title = &vals[0]
	}
	if vals, ok := form.Value["description"]; ok && len(vals) > 0 {
		req.Description = &vals[0]
	}
	if vals, ok := form.Value["ingredients"]; ok && len(vals) > 0 {
		req.Ingredients = &vals[0]
	}
	if vals, ok := form.Value["steps"]; ok && len(vals) > 0 {
		if err := json.Unmarshal([]byte(vals[0]), &req.Steps); err != nil {
			return req, err
		}
	}
	if files := form.File["image"]; len(files) > 0 {
		req.Image = files[0]
	}
	req.StepImages = form.File["images"]

	return req, nil
}

func (h *recipeHandler) save(c *fiber.Ctx, publish bool) error {
	userID := c.Locals("user_id").(uint)

	req, err := parseRecipeForm(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSaveRecipe, err)
	}

	if err := h.recipeService.Save(c.Context(), req, userID, publish); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSaveRecipe, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusCreated, domain.MessageSuccessSaveRecipe)
}

func (h *recipeHandler) Save(c *fiber.Ctx) error {
	return h.save(c, false)
}

func (h *recipeHandler) Publish(c *fiber.Ctx) error {
	return h.save(c, true)
}

func (h *recipeHandler) Edit(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	req := new(domain.RecipeIDRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.recipeService.Edit(c.Context(), req.ID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrRecipeNotFound) || errors.Is(err, domain.ErrRecipeForbidden) {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedEditRecipe, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedEditRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessEditRecipe)
}

func (h *recipeHandler) Update(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	req, err := parseRecipeUpdateForm(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.recipeService.Update(c.Context(), req, userID); err != nil {
		if errors.Is(err, domain.ErrRecipeNotFound) || errors.Is(err, domain.ErrRecipeForbidden) {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedUpdateRecipe, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateRecipe, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusCreated, domain.MessageSuccessUpdateRecipe)
}

func (h *recipeHandler) TogglePublished(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	req := new(domain.RecipeIDRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.recipeService.TogglePublished(c.Context(), req.ID, userID); err != nil {
		if errors.Is(err, domain.ErrRecipeNotFound) || errors.Is(err, domain.ErrRecipeForbidden) {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedToggle, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedToggle, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusCreated, domain.MessageSuccessToggle)
}

// Load is public; authentication only widens visibility to the owner's
// unpublished recipes and fills in the liked flag.
func (h *recipeHandler) Load(c *fiber.Ctx) error {
	authenticated, _ := c.Locals("authenticated").(bool)
	userID, _ := c.Locals("user_id").(uint)

	req := new(domain.RecipeIDRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.recipeService.Load(c.Context(), req.ID, userID, authenticated)
	if err != nil {
		if errors.Is(err, domain.ErrRecipeNotFound) {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageFailedLoadRecipe, err)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedLoadRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessLoadRecipe)
}

func (h *recipeHandler) Recent(c *fiber.Ctx) error {
	res, err := h.recipeService.Recent(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecipes, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) Top(c *fiber.Ctx) error {
	res, err := h.recipeService.Top(c.Context())
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecipes, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) Like(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	req := new(domain.RecipeIDRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.recipeService.Like(c.Context(), req.ID, userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedLikeRecipe, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusCreated, domain.MessageSuccessLikeRecipe)
}

func (h *recipeHandler) Unlike(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	req := new(domain.RecipeIDRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.recipeService.Unlike(c.Context(), req.ID, userID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedLikeRecipe, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusCreated, domain.MessageSuccessUnlikeRecipe)
}

func (h *recipeHandler) Report(c *fiber.Ctx) error {
	req := new(domain.RecipeIDRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.recipeService.Report(c.Context(), req.ID); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedReportRecipe, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusCreated, domain.MessageSuccessReportRecipe)
}

func (h *recipeHandler) Search(c *fiber.Ctx) error {
	req := new(domain.SearchRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecipes, err)
	}

	res, err := h.recipeService.Search(c.Context(), req.Query)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) ByUser(c *fiber.Ctx) error {
	req := new(domain.RecipeIDRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.recipeService.ByUser(c.Context(), req.ID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) Liked(c *fiber.Ctx) error {
	req := new(domain.RecipeIDRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.recipeService.Liked(c.Context(), req.ID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecipes, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}
