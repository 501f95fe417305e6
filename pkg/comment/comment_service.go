package comment

import (
	"context"
	"time"

	"tastebook/domain"
	"tastebook/entities"
)

type (
	CommentService interface {
		Create(ctx context.Context, req domain.CreateCommentRequest, userID uint) error
	}

	commentService struct {
		commentRepository CommentRepository
	}
)

func NewCommentService(commentRepository CommentRepository) CommentService {
	return &commentService{commentRepository: commentRepository}
}

// Create appends a comment. The parent reference is stored as given; it is
// never checked against existing comments.
func (s *commentService) Create(ctx context.Context, req domain.CreateCommentRequest, userID uint) error {
	comment := entities.Comment{
		CreatedBy: userID,
		CreatedOn: time.Now().Unix(),
		RecipeID:  req.RecipeID,
		Comment:   req.Comment,
		Parent:    req.Parent,
	}
	return s.commentRepository.Create(ctx, &comment)
}
