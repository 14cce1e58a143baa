package controllers

import (
	"context"

	"github.com/FrankWaweru369/Infinity-backend/dto"
	"github.com/FrankWaweru369/Infinity-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type ExploreAPI interface {
	SuggestedUsers(ctx context.Context, viewer bson.ObjectID) ([]dto.UserCard, error)
	PopularPosts(ctx context.Context) ([]dto.PopularPostResp, error)
	SearchUsers(ctx context.Context, viewer bson.ObjectID, q string) ([]dto.UserCard, error)
	SearchPosts(ctx context.Context, q string) ([]dto.PostResp, error)
}

type ExploreHandler struct {
	Explore ExploreAPI
}

// SuggestedUsers godoc
// @Summary      Users the caller does not follow yet
// @Tags         explore
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.UserCard
// @Router       /explore/users [get]
func (h *ExploreHandler) SuggestedUsers(c *fiber.Ctx) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Explore.SuggestedUsers(ctx, middleware.OptionalUID(c))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// PopularPosts godoc
// @Summary      Top posts by likes plus comments
// @Tags         explore
// @Produce      json
// @Success      200  {array}  dto.PopularPostResp
// @Router       /explore/posts [get]
func (h *ExploreHandler) PopularPosts(c *fiber.Ctx) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Explore.PopularPosts(ctx)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// SearchUsers godoc
// @Summary      Search users by username or full name
// @Tags         explore
// @Produce      json
// @Security     BearerAuth
// @Param        q  query  string  true  "Search text"
// @Success      200  {array}  dto.UserCard
// @Failure      400  {object} dto.ErrorResponse
// @Router       /explore/search/users [get]
func (h *ExploreHandler) SearchUsers(c *fiber.Ctx) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Explore.SearchUsers(ctx, middleware.OptionalUID(c), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// SearchPosts godoc
// @Summary      Search posts by content
// @Tags         explore
// @Produce      json
// @Param        q  query  string  true  "Search text"
// @Success      200  {array}  dto.PostResp
// @Failure      400  {object} dto.ErrorResponse
// @Router       /explore/search/posts [get]
func (h *ExploreHandler) SearchPosts(c *fiber.Ctx) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.Explore.SearchPosts(ctx, c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
