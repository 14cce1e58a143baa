package routes

import (
	"github.com/FrankWaweru369/Infinity-backend/internal/controllers"
	"github.com/FrankWaweru369/Infinity-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutesUpload mounts POST /api/upload (multipart field "image").
func SetupRoutesUpload(api fiber.Router, h *controllers.UploadHandler) {
	api.Post("/upload", middleware.RequireAuth(), h.Upload)
}
