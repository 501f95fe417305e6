package routes

import (
	"github.com/gofiber/fiber/v2"

	"tastebook/internal/api/handlers"
	"tastebook/internal/middleware"
	"tastebook/internal/utils"
	"tastebook/pkg/jwt"
)

type Config struct {
	App            *fiber.App
	UserHandler    handlers.UserHandler
	RecipeHandler  handlers.RecipeHandler
	CommentHandler handlers.CommentHandler
	Middleware     middleware.Middleware
	JWTService     jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Recipe()
	c.Comments()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/user")
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Post("/profile", c.Middleware.OptionalAuthMiddleware(c.JWTService), c.UserHandler.Profile)
	}
}

func (c *Config) Recipe() {
	recipe := c.App.Group("/recipe")
	auth := c.Middleware.AuthMiddleware(c.JWTService)
	optional := c.Middleware.OptionalAuthMiddleware(c.JWTService)
	{
		recipe.Post("/save", auth, c.RecipeHandler.Save)
		recipe.Post("/publish", auth, c.RecipeHandler.Publish)
		recipe.Post("/publish/toggle", auth, c.RecipeHandler.TogglePublished)
		recipe.Post("/edit", auth, c.RecipeHandler.Edit)
		recipe.Post("/update", auth, c.RecipeHandler.Update)
		recipe.Post("/like", auth, c.RecipeHandler.Like)
		recipe.Post("/unlike", auth, c.RecipeHandler.Unlike)
		recipe.Post("/load", optional, c.RecipeHandler.Load)
		recipe.Post("/recent", c.RecipeHandler.Recent)
		recipe.Post("/top", c.RecipeHandler.Top)
		recipe.Post("/report", c.RecipeHandler.Report)
		recipe.Post("/search", c.RecipeHandler.Search)
		recipe.Post("/user", c.RecipeHandler.ByUser)
		recipe.Post("/liked", c.RecipeHandler.Liked)
	}
}

func (c *Config) Comments() {
	comments := c.App.Group("/comments")
	comments.Post("/comment", c.Middleware.AuthMiddleware(c.JWTService), c.CommentHandler.Create)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})

	// Uploaded images are referenced by /uploads/... paths.
	c.App.Static("/uploads", utils.GetConfig("UPLOAD_DIR"))
}
