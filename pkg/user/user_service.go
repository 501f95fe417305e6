package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"tastebook/domain"
	"tastebook/entities"
	"tastebook/internal/utils/mailing"
	"tastebook/pkg/jwt"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error)
		Verify(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error)
		Profile(ctx context.Context, id uint, includeUnpublished bool) (domain.ProfileResponse, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.AuthResponse, error) {
	if _, err := s.userRepository.FindByUsername(ctx, req.Username); err == nil {
		return domain.AuthResponse{}, domain.ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.AuthResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.AuthResponse{}, err
	}

	user := entities.User{
		Username:     req.Username,
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		LikedRecipes: "[]",
	}

	// The unique index on username backstops the pre-check above.
	if err := s.userRepository.Create(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.AuthResponse{}, domain.ErrUsernameTaken
		}
		return domain.AuthResponse{}, err
	}

	// Best effort; registration already succeeded.
	if err := mailing.SendMail(
		user.Email,
		"Welcome to Tastebook",
		fmt.Sprintf("<p>Hi %s, your account is ready. Start sharing recipes!</p>", user.Name),
	); err != nil {
		log.Warnf("welcome mail to %s failed: %v", user.Email, err)
	}

	return domain.AuthResponse{
		ID:    user.ID,
		Name:  user.Name,
		Token: s.jwtService.GenerateToken(user.ID, user.Name),
	}, nil
}

func (s *userService) Verify(ctx context.Context, req domain.LoginRequest) (domain.AuthResponse, error) {
	user, err := s.userRepository.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.AuthResponse{}, domain.ErrUserNotFound
		}
		return domain.AuthResponse{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return domain.AuthResponse{}, domain.ErrIncorrectPassword
	}

	return domain.AuthResponse{
		ID:    user.ID,
		Name:  user.Name,
		Token: s.jwtService.GenerateToken(user.ID, user.Name),
	}, nil
}

func (s *userService) Profile(ctx context.Context, id uint, includeUnpublished bool) (domain.ProfileResponse, error) {
	user, err := s.userRepository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ProfileResponse{}, domain.ErrUserNotFound
		}
		return domain.ProfileResponse{}, err
	}

	recipes, err := s.userRepository.RecipesByUser(ctx, id, includeUnpublished)
	if err != nil {
		return domain.ProfileResponse{}, err
	}

	return domain.ProfileResponse{
		Name:    user.Name,
		Recipes: recipes,
	}, nil
}
