package routes

import (
	"github.com/FrankWaweru369/Infinity-backend/internal/controllers"
	"github.com/FrankWaweru369/Infinity-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// mountComments adds the comment tree routes under a /posts or /reels group.
// All of them need a signed-in user; likes accept POST and PUT.
//
//	POST /api/posts/:id/comment                                    {"text":"..."}
//	GET  /api/posts/:id/comments
//	PUT  /api/posts/:id/comments/:commentId/like
//	POST /api/posts/:id/comments/:commentId/recomment              {"text":"..."}
//	PUT  /api/posts/:id/comments/:commentId/recomments/:recommentId/like
func mountComments(r fiber.Router, h *controllers.CommentHandler) {
	auth := middleware.RequireAuth()

	r.Post("/:id/comment", auth, h.AddComment)
	r.Get("/:id/comments", auth, h.List)

	r.Post("/:id/comments/:commentId/like", auth, h.LikeComment)
	r.Put("/:id/comments/:commentId/like", auth, h.LikeComment)

	r.Post("/:id/comments/:commentId/recomment", auth, h.AddRecomment)

	r.Post("/:id/comments/:commentId/recomments/:recommentId/like", auth, h.LikeRecomment)
	r.Put("/:id/comments/:commentId/recomments/:recommentId/like", auth, h.LikeRecomment)
}
