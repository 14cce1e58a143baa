package routes

import (
	"github.com/FrankWaweru369/Infinity-backend/internal/controllers"
	"github.com/FrankWaweru369/Infinity-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutesPost mounts /api/posts; every route needs a signed-in user.
func SetupRoutesPost(api fiber.Router, h *controllers.PostHandler, comments *controllers.CommentHandler) {
	posts := api.Group("/posts", middleware.RequireAuth())

	// GET /api/posts?limit=20               first page
	// GET /api/posts?limit=20&cursor=xxxx   next page, cursor from next_cursor
	posts.Get("/", h.List)
	posts.Post("/", h.Create)
	posts.Get("/:id", h.Get)
	posts.Put("/:id", h.Update)
	posts.Delete("/:id", h.Delete)
	posts.Put("/:id/like", h.ToggleLike)

	mountComments(posts, comments)
}
