package domain

import (
	"errors"

	"tastebook/entities"
)

var (
	MessageSuccessRegister   = "user registered successfully"
	MessageSuccessLogin      = "login success"
	MessageSuccessGetProfile = "success get profile"

	MessageFailedRegister   = "failed to register user"
	MessageFailedLogin      = "failed to login"
	MessageFailedGetProfile = "failed to get profile"

	ErrUsernameTaken     = errors.New("username already taken")
	ErrUserNotFound      = errors.New("could not find user")
	ErrIncorrectPassword = errors.New("incorrect password")
)

type (
	RegisterRequest struct {
		Username string `json:"username" validate:"required"`
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	// AuthResponse never carries the password hash, only the public identity.
	AuthResponse struct {
		ID    uint   `json:"id"`
		Name  string `json:"name"`
		Token string `json:"token,omitempty"`
	}

	ProfileRequest struct {
		ID uint `json:"id" validate:"required"`
	}

	ProfileResponse struct {
		Name    string            `json:"name"`
		Recipes []entities.Recipe `json:"recipes"`
	}
)
