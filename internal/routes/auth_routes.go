package routes

import (
	"github.com/FrankWaweru369/Infinity-backend/internal/controllers"
	"github.com/FrankWaweru369/Infinity-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupAuth mounts /api/auth. limit throttles every auth route per client IP.
func SetupAuth(api fiber.Router, h *controllers.AuthHandler, limit fiber.Handler) {
	auth := api.Group("/auth", limit)

	// curl -X POST http://127.0.0.1:10000/api/auth/register \
	//   -H "Content-Type: application/json" \
	//   -d '{"username":"frank","email":"frank@example.com","password":"s3cret!"}'
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Get("/me", middleware.RequireAuth(), h.Me)

	// The mailed link carries the plaintext token:
	//   POST /api/auth/reset-password/<token> {"newPassword":"..."}
	auth.Post("/forgot-password", h.ForgotPassword)
	auth.Post("/reset-password/:token", h.ResetPassword)

	auth.Get("/validate", h.Validate)
	auth.Get("/validate-protected", middleware.RequireAuth(), h.ValidateProtected)
}
