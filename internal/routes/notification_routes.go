package routes

import (
	"github.com/FrankWaweru369/Infinity-backend/internal/controllers"
	"github.com/FrankWaweru369/Infinity-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func NotificationRoutes(api fiber.Router, h *controllers.NotificationHandler) {
	notis := api.Group("/notifications", middleware.RequireAuth())
	notis.Get("/", h.Latest)
	notis.Patch("/read-all", h.MarkAllRead)
	notis.Patch("/:id/read", h.MarkRead)
}
