package routes

import (
	"github.com/FrankWaweru369/Infinity-backend/internal/controllers"
	"github.com/FrankWaweru369/Infinity-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupRoutesUser(api fiber.Router, h *controllers.UserHandler) {
	users := api.Group("/users")
	auth := middleware.RequireAuth()

	users.Get("/", h.List)

	// Fixed paths first so they are not taken for a username.
	users.Put("/update-password", auth, h.UpdatePassword)
	// multipart/form-data; profilePicture and coverPhoto are optional files
	users.Put("/update-profile", auth, h.UpdateProfile)

	users.Post("/:id/follow", auth, h.Follow)
	users.Post("/:id/unfollow", auth, h.Unfollow)
	users.Get("/:id/follow-status", auth, h.FollowStatus)

	users.Get("/:username", h.ByUsername)
}
