package routes

import (
	"github.com/FrankWaweru369/Infinity-backend/internal/controllers"
	"github.com/FrankWaweru369/Infinity-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutesExplore(api fiber.Router, h *controllers.ExploreHandler) {
	explore := api.Group("/explore")
	auth := middleware.RequireAuth()

	explore.Get("/users", auth, h.SuggestedUsers)
	explore.Get("/posts", h.PopularPosts)

	// GET /api/explore/search/users?q=fra
	explore.Get("/search/users", auth, h.SearchUsers)
	explore.Get("/search/posts", h.SearchPosts)
}
