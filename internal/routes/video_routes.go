package routes

import (
	"github.com/FrankWaweru369/Infinity-backend/internal/controllers"
	"github.com/FrankWaweru369/Infinity-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutesVideo(api fiber.Router, h *controllers.VideoHandler) {
	videos := api.Group("/videos")
	videos.Post("/optimize", middleware.RequireAuth(), h.Optimize)
	// GET /api/videos/optimized/:reelId?quality=auto&dataSaver=true
	videos.Get("/optimized/:reelId", h.Optimized)
}
