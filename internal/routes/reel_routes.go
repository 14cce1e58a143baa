package routes

import (
	"github.com/FrankWaweru369/Infinity-backend/internal/controllers"
	"github.com/FrankWaweru369/Infinity-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutesReel mounts /api/reels. Browsing is public; writes need a user.
func SetupRoutesReel(api fiber.Router, h *controllers.ReelHandler, comments *controllers.CommentHandler) {
	reels := api.Group("/reels")
	auth := middleware.RequireAuth()

	// GET /api/reels?page=1&limit=10
	reels.Get("/", h.Page)
	reels.Get("/user/:userId", h.ByAuthor)
	reels.Get("/:id", h.View)
	reels.Put("/:id/share", h.Share)

	reels.Post("/", auth, h.Create)
	reels.Put("/:id/like", auth, h.ToggleLike)
	reels.Delete("/:id", auth, h.Delete)

	mountComments(reels, comments)
}
